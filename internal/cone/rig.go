/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package cone models the camera shot editor: a camera origin, a focus
// target and a symmetric field of view over a floor plan. Positions are kept
// in percent of the plan; every angle and distance is computed in a fixed
// 1000×625 virtual rectangle so the 16:10 aspect does not skew the math.
package cone

import (
	"fmt"
	"math"

	"roomviz/internal/geom"
)

const (
	VirtualW = 1000.0
	VirtualH = 625.0

	SensorWidthMM = 36.0
	MinFOV        = 10.0
	MaxFOV        = 170.0
	// HandleFloor keeps the FOV handles away from the camera when the target is close.
	HandleFloor = 100.0
)

// Rig is the persisted editor state.
type Rig struct {
	Camera geom.Pt `json:"camera" yaml:"camera"`
	Target geom.Pt `json:"target" yaml:"target"`
	FOV    float64 `json:"fov" yaml:"fov"`
}

// DefaultRig is the rig used when the editor opens without an initial value.
func DefaultRig() Rig {
	return Rig{Camera: geom.P(50, 85), Target: geom.P(50, 50), FOV: 60}
}

// Clamped returns r with coordinates in [0,100] and FOV in [MinFOV, MaxFOV].
func (r Rig) Clamped() Rig {
	return Rig{
		Camera: clampPercent(r.Camera),
		Target: clampPercent(r.Target),
		FOV:    geom.Clamp(r.FOV, MinFOV, MaxFOV),
	}
}

func (r Rig) String() string {
	return fmt.Sprintf("cam(%.1f,%.1f) tgt(%.1f,%.1f) fov %.1f°", r.Camera.X, r.Camera.Y, r.Target.X, r.Target.Y, r.FOV)
}

func clampPercent(p geom.Pt) geom.Pt {
	return geom.P(geom.Clamp(p.X, 0, 100), geom.Clamp(p.Y, 0, 100))
}

// ToVirtual maps percent coordinates into the virtual rectangle.
func ToVirtual(p geom.Pt) geom.Pt {
	return geom.P(p.X/100*VirtualW, p.Y/100*VirtualH)
}

// ToPercent is the inverse of ToVirtual.
func ToPercent(v geom.Pt) geom.Pt {
	return geom.P(v.X/VirtualW*100, v.Y/VirtualH*100)
}

// FromBox maps a point in a rendering box of size box to virtual units.
func FromBox(p geom.Pt, box geom.Size) geom.Pt {
	if box.W <= 0 || box.H <= 0 {
		return p
	}
	return geom.P(p.X*VirtualW/box.W, p.Y*VirtualH/box.H)
}

// Geometry is derived from a Rig and never stored. Angles are radians in
// virtual space.
type Geometry struct {
	CameraV, TargetV geom.Pt
	Angle            float64
	Distance         float64
	HandleDistance   float64
	LeftAngle        float64
	RightAngle       float64
	LeftHandle       geom.Pt
	RightHandle      geom.Pt
	LensMM           int
}

// Geometry computes the cone for r. Coincident camera and target yield angle 0.
func (r Rig) Geometry() Geometry {
	cam := ToVirtual(r.Camera)
	tgt := ToVirtual(r.Target)
	angle := cam.Angle(tgt)
	dist := cam.Dist(tgt)
	hd := math.Max(dist, HandleFloor)
	half := geom.Rad(r.FOV) / 2
	g := Geometry{
		CameraV:        cam,
		TargetV:        tgt,
		Angle:          angle,
		Distance:       dist,
		HandleDistance: hd,
		LeftAngle:      angle - half,
		RightAngle:     angle + half,
		LensMM:         LensMM(r.FOV),
	}
	g.LeftHandle = cam.Polar(g.LeftAngle, hd)
	g.RightHandle = cam.Polar(g.RightAngle, hd)
	return g
}

// LensMM converts a horizontal field of view to the focal length of a
// full-frame (36mm) sensor, rounded to whole millimetres.
func LensMM(fovDeg float64) int {
	fovDeg = geom.Clamp(fovDeg, MinFOV, MaxFOV)
	return int(math.Round(SensorWidthMM / (2 * math.Tan(geom.Rad(fovDeg)/2))))
}

// Rotation is the camera heading in degrees for the render pipeline:
// the camera→target angle in plan percent space plus 90.
func (r Rig) Rotation() float64 {
	return geom.Deg(r.Camera.Angle(r.Target)) + 90
}
