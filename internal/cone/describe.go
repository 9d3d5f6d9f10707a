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
	"fmt"
	"math"

	"roomviz/internal/geom"
)

// Zone names the part of the room the camera stands in.
func Zone(camera geom.Pt) string {
	switch {
	case camera.Y > 75:
		return "entry"
	case camera.Y < 25:
		return "window side"
	case camera.X < 25:
		return "left wall"
	case camera.X > 75:
		return "right wall"
	default:
		return "center"
	}
}

// Direction names where the camera looks. Windows are at the top of the
// plan and the entry at the bottom.
func Direction(camera, target geom.Pt) string {
	if math.Abs(target.X-50) < 10 {
		if target.Y < camera.Y {
			return "North (Windows)"
		}
		if target.Y > camera.Y {
			return "South (Entry)"
		}
	}
	switch {
	case target.X > camera.X:
		return "East"
	case target.X < camera.X:
		return "West"
	}
	return "custom angle"
}

const descriptionFormat = "Wide-angle shot with a %dmm lens. Camera positioned at the %s, focused on the %s. Capturing the full spatial volume and architectural details."

// Describe renders the generated shot description for r.
func Describe(r Rig) string {
	return fmt.Sprintf(descriptionFormat, LensMM(r.FOV), Zone(r.Camera), Direction(r.Camera, r.Target))
}
