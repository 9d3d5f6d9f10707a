/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package viewport

import (
	"log/slog"

	"roomviz/internal/geom"
	"roomviz/internal/gesture"
	applog "roomviz/internal/log"
)

// Mode is the state of the pointer state machine.
type Mode int

const (
	Idle Mode = iota
	PanningWorld
	DraggingCard
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case PanningWorld:
		return "panning"
	case DraggingCard:
		return "dragging"
	}
	return "unknown"
}

// session exists only between pointer-down and release.
type session struct {
	mode   Mode
	cardID string
	anchor geom.Pt
}

// Options tune zoom behavior. Zero values select the defaults.
type Options struct {
	Sensitivity float64
	ZoomStep    float64
}

// Viewport is the board controller. It is not safe for concurrent use;
// events are expected on a single UI goroutine.
type Viewport struct {
	host    Host
	opts    Options
	tr      Transform
	drag    session
	capture *gesture.Capture
	log     *slog.Logger
}

// New creates a viewport over host. Window-level move/up/leave events are read
// from bus while a gesture is active; bus may be nil when the caller forwards
// those events itself.
func New(host Host, bus *gesture.Bus, opts Options) *Viewport {
	if opts.Sensitivity <= 0 {
		opts.Sensitivity = DefaultSensitivity
	}
	if opts.ZoomStep <= 0 {
		opts.ZoomStep = ZoomStep
	}
	return &Viewport{
		host:    host,
		opts:    opts,
		tr:      DefaultTransform(),
		capture: gesture.NewCapture(bus),
		log:     applog.WithComponent("viewport"),
	}
}

func (v *Viewport) Transform() Transform { return v.tr }
func (v *Viewport) Mode() Mode           { return v.drag.mode }

// DraggedID returns the id of the card being dragged, if any.
func (v *Viewport) DraggedID() string { return v.drag.cardID }

// SetTransform replaces the transform (scale clamped) and notifies the host.
func (v *Viewport) SetTransform(t Transform) {
	v.tr = t.Clamped()
	v.host.TransformChanged(v.tr)
}

// CardAt hit-tests a screen point against the cards, top-most first.
// The selected card is treated as top-most because it is painted last.
func (v *Viewport) CardAt(screen geom.Pt) (Card, bool) {
	w := v.tr.WorldFromScreen(screen)
	cards := v.host.Cards()
	sel := v.host.SelectedID()
	if sel != "" {
		for _, c := range cards {
			if c.ID == sel && c.Bounds().Contains(w) {
				return c, true
			}
		}
	}
	for i := len(cards) - 1; i >= 0; i-- {
		if cards[i].Bounds().Contains(w) {
			return cards[i], true
		}
	}
	return Card{}, false
}

// PointerDown starts a pan on empty background or a drag on the card under
// the pointer. It is ignored while another gesture is active.
func (v *Viewport) PointerDown(screen geom.Pt) Mode {
	if v.drag.mode != Idle {
		return v.drag.mode
	}
	if c, ok := v.CardAt(screen); ok {
		return v.BeginCardDrag(c, screen)
	}
	v.drag = session{mode: PanningWorld, anchor: screen.Sub(v.tr.Pan())}
	v.capture.Begin(v.onWindowEvent)
	v.log.Debug("gesture begin", "mode", v.drag.mode)
	return v.drag.mode
}

// BeginCardDrag starts dragging c from screen. UI layers that hit-test cards
// themselves call this directly.
func (v *Viewport) BeginCardDrag(c Card, screen geom.Pt) Mode {
	if v.drag.mode != Idle {
		return v.drag.mode
	}
	v.drag = session{
		mode:   DraggingCard,
		cardID: c.ID,
		anchor: v.tr.WorldFromScreen(screen).Sub(c.Pos),
	}
	if v.host.SelectedID() != c.ID {
		v.host.Select(c.ID)
	}
	v.capture.Begin(v.onWindowEvent)
	v.log.Debug("gesture begin", "mode", v.drag.mode, "card", c.ID)
	return v.drag.mode
}

// PointerMove updates the active gesture.
func (v *Viewport) PointerMove(screen geom.Pt) {
	switch v.drag.mode {
	case PanningWorld:
		v.SetTransform(v.tr.WithPan(screen.Sub(v.drag.anchor)))
	case DraggingCard:
		if v.drag.cardID == "" {
			return
		}
		pos := v.tr.WorldFromScreen(screen).Sub(v.drag.anchor)
		if !v.host.MoveCard(v.drag.cardID, pos) {
			v.log.Debug("drag target gone", "card", v.drag.cardID)
			v.drag.cardID = ""
		}
	}
}

// PointerUp ends any gesture.
func (v *Viewport) PointerUp() { v.release("up") }

// PointerLeave is an implicit release.
func (v *Viewport) PointerLeave() { v.release("leave") }

func (v *Viewport) release(why string) {
	if v.drag.mode == Idle {
		return
	}
	v.log.Debug("gesture end", "mode", v.drag.mode, "reason", why)
	v.drag = session{}
	v.capture.End()
}

func (v *Viewport) onWindowEvent(e gesture.Event) {
	switch e.Kind {
	case gesture.Move:
		v.PointerMove(e.Pos)
	case gesture.Up:
		v.PointerUp()
	case gesture.Leave:
		v.PointerLeave()
	}
}

// Wheel zooms by −deltaY·sensitivity around the viewport origin.
func (v *Viewport) Wheel(deltaY float64) {
	v.SetTransform(v.tr.WithScale(v.tr.Scale - deltaY*v.opts.Sensitivity))
}

func (v *Viewport) ZoomIn()  { v.SetTransform(v.tr.WithScale(v.tr.Scale + v.opts.ZoomStep)) }
func (v *Viewport) ZoomOut() { v.SetTransform(v.tr.WithScale(v.tr.Scale - v.opts.ZoomStep)) }

// CenterOn pans so the card's world position sits at the viewport origin,
// keeping the current scale.
func (v *Viewport) CenterOn(id string) bool {
	for _, c := range v.host.Cards() {
		if c.ID == id {
			v.SetTransform(v.tr.WithPan(c.Pos.Mul(-v.tr.Scale)))
			return true
		}
	}
	return false
}
