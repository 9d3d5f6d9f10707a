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
	"log/slog"

	"roomviz/internal/geom"
	"roomviz/internal/gesture"
	applog "roomviz/internal/log"
)

// Shot is emitted when the user confirms the editor.
type Shot struct {
	X               float64 `json:"x" yaml:"x"`
	Y               float64 `json:"y" yaml:"y"`
	RotationDegrees float64 `json:"rotation_degrees" yaml:"rotation_degrees"`
	Description     string  `json:"description" yaml:"description"`
	LensMM          int     `json:"lens_mm" yaml:"lens_mm"`
	FOV             float64 `json:"fov" yaml:"fov"`
}

// ShotFor builds the shot for r with the given description.
func ShotFor(r Rig, description string) Shot {
	return Shot{
		X:               r.Camera.X,
		Y:               r.Camera.Y,
		RotationDegrees: r.Rotation(),
		Description:     description,
		LensMM:          LensMM(r.FOV),
		FOV:             r.FOV,
	}
}

// Listener receives the editor's terminal events.
type Listener interface {
	ShotApplied(Shot, Rig)
	ShotCancelled()
}

// Editor is the modal shot editor. It is driven from a single UI goroutine.
type Editor struct {
	open    bool
	rig     Rig
	desc    string
	edited  bool
	active  Handle
	presets []Preset
	capture *gesture.Capture
	lis     Listener
	log     *slog.Logger
}

// NewEditor returns a closed editor with the built-in presets. bus carries
// window-level pointer events in virtual units while a handle is dragged.
func NewEditor(lis Listener, bus *gesture.Bus) *Editor {
	return &Editor{
		rig:     DefaultRig(),
		presets: Builtin(),
		capture: gesture.NewCapture(bus),
		lis:     lis,
		log:     applog.WithComponent("cone"),
	}
}

// Open starts a fresh session from initial, or from DefaultRig when nil.
func (e *Editor) Open(initial *Rig) {
	r := DefaultRig()
	if initial != nil {
		r = initial.Clamped()
	}
	e.endGesture()
	e.open = true
	e.setRig(r)
	e.log.Debug("editor open", "rig", r.String())
}

func (e *Editor) IsOpen() bool            { return e.open }
func (e *Editor) Rig() Rig                { return e.rig }
func (e *Editor) Geometry() Geometry      { return e.rig.Geometry() }
func (e *Editor) Description() string     { return e.desc }
func (e *Editor) DescriptionEdited() bool { return e.edited }
func (e *Editor) Active() Handle          { return e.active }

// Presets returns built-in presets followed by any installed ones.
func (e *Editor) Presets() []Preset { return append([]Preset(nil), e.presets...) }

// AddPresets appends presets; a name already present is replaced in place.
func (e *Editor) AddPresets(ps ...Preset) {
	for _, p := range ps {
		p.Rig = p.Rig.Clamped()
		replaced := false
		for i := range e.presets {
			if e.presets[i].Name == p.Name {
				e.presets[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			e.presets = append(e.presets, p)
		}
	}
}

// ApplyPreset replaces the whole rig with the named preset.
func (e *Editor) ApplyPreset(name string) bool {
	if !e.open {
		return false
	}
	p, ok := FindPreset(e.presets, name)
	if !ok {
		return false
	}
	e.setRig(p.Rig.Clamped())
	e.log.Debug("preset applied", "preset", p.Name)
	return true
}

// SetDescription stores a manual edit. It survives until the next handle drag
// or preset.
func (e *Editor) SetDescription(s string) {
	if !e.open {
		return
	}
	e.desc = s
	e.edited = true
}

// PointerDown picks the handle under v (virtual units) and begins a drag.
func (e *Editor) PointerDown(v geom.Pt) Handle {
	if !e.open || e.active != HandleNone {
		return e.active
	}
	h := e.rig.HitTest(v)
	if h == HandleNone {
		return h
	}
	e.active = h
	e.capture.Begin(e.onWindowEvent)
	e.log.Debug("handle grab", "handle", h)
	return h
}

// PointerMove drags the active handle to v.
func (e *Editor) PointerMove(v geom.Pt) {
	if !e.open || e.active == HandleNone {
		return
	}
	e.setRig(e.rig.Drag(e.active, v))
}

// PointerUp releases the active handle.
func (e *Editor) PointerUp() { e.endGesture() }

// onWindowEvent tracks the pointer until the button is released. Leaving
// the plan does not end a handle drag; the clamp holds the handle at the edge.
func (e *Editor) onWindowEvent(ev gesture.Event) {
	switch ev.Kind {
	case gesture.Move:
		e.PointerMove(ev.Pos)
	case gesture.Up:
		e.PointerUp()
	}
}

// Confirm closes the editor and emits the shot. ok is false when closed.
func (e *Editor) Confirm() (shot Shot, ok bool) {
	if !e.open {
		return Shot{}, false
	}
	shot = ShotFor(e.rig, e.desc)
	rig := e.rig
	e.close()
	e.log.Info("shot confirmed", "lens_mm", shot.LensMM, "fov", shot.FOV, "rotation", shot.RotationDegrees)
	if e.lis != nil {
		e.lis.ShotApplied(shot, rig)
	}
	return shot, true
}

// Cancel closes the editor and discards the session.
func (e *Editor) Cancel() {
	if !e.open {
		return
	}
	e.close()
	e.log.Debug("editor cancelled")
	if e.lis != nil {
		e.lis.ShotCancelled()
	}
}

func (e *Editor) close() {
	e.endGesture()
	e.open = false
	e.rig = DefaultRig()
	e.desc = ""
	e.edited = false
}

func (e *Editor) endGesture() {
	e.active = HandleNone
	e.capture.End()
}

func (e *Editor) setRig(r Rig) {
	e.rig = r
	e.desc = Describe(r)
	e.edited = false
}
