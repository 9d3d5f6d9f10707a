/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package cone

import (
	"strings"

	"roomviz/internal/geom"
)

// Preset is a named rig.
type Preset struct {
	Name string `json:"name"`
	Rig  Rig    `json:"rig"`
}

// Builtin returns the built-in presets in display order.
func Builtin() []Preset {
	return []Preset{
		{Name: "Entry Wide", Rig: Rig{Camera: geom.P(50, 85), Target: geom.P(50, 50), FOV: 80}},
		{Name: "Window View", Rig: Rig{Camera: geom.P(50, 20), Target: geom.P(50, 80), FOV: 50}},
		{Name: "Corner (NW)", Rig: Rig{Camera: geom.P(15, 15), Target: geom.P(60, 60), FOV: 90}},
		{Name: "Center Room", Rig: Rig{Camera: geom.P(50, 50), Target: geom.P(50, 20), FOV: 110}},
	}
}

// FindPreset looks a preset up by case-insensitive name.
func FindPreset(ps []Preset, name string) (Preset, bool) {
	name = strings.TrimSpace(name)
	for _, p := range ps {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}
