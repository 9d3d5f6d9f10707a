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
	"roomviz/internal/geom"
)

// Handle identifies a draggable control of the editor.
type Handle int

const (
	HandleNone Handle = iota
	HandleCamera
	HandleTarget
	HandleFOVLeft
	HandleFOVRight
)

func (h Handle) String() string {
	switch h {
	case HandleCamera:
		return "camera"
	case HandleTarget:
		return "target"
	case HandleFOVLeft:
		return "fov-left"
	case HandleFOVRight:
		return "fov-right"
	}
	return "none"
}

// Hit radii in virtual units.
const (
	CameraRadius = 15.0
	TargetRadius = 12.0
	FOVRadius    = 10.0
)

// HitTest returns the handle under v (virtual units). The camera is painted
// last and wins overlaps, then the FOV handles, then the target.
func (r Rig) HitTest(v geom.Pt) Handle {
	g := r.Geometry()
	switch {
	case g.CameraV.Dist(v) <= CameraRadius:
		return HandleCamera
	case g.LeftHandle.Dist(v) <= FOVRadius:
		return HandleFOVLeft
	case g.RightHandle.Dist(v) <= FOVRadius:
		return HandleFOVRight
	case g.TargetV.Dist(v) <= TargetRadius:
		return HandleTarget
	}
	return HandleNone
}

// Drag returns the rig after dragging handle h to v (virtual units).
func (r Rig) Drag(h Handle, v geom.Pt) Rig {
	switch h {
	case HandleCamera:
		r.Camera = clampPercent(ToPercent(v))
	case HandleTarget:
		r.Target = clampPercent(ToPercent(v))
	case HandleFOVLeft, HandleFOVRight:
		r.FOV = FOVToward(r, v)
	}
	return r
}

// FOVToward returns the field of view whose boundary ray passes through v:
// twice the signed angle between the camera→target axis and camera→v,
// normalised into (−π, π] and clamped to [MinFOV, MaxFOV].
func FOVToward(r Rig, v geom.Pt) float64 {
	g := r.Geometry()
	diff := geom.NormalizeAngle(g.CameraV.Angle(v) - g.Angle)
	if diff < 0 {
		diff = -diff
	}
	return geom.Clamp(geom.Deg(diff)*2, MinFOV, MaxFOV)
}
