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
	"math"
	"math/rand"
	"testing"

	"roomviz/internal/geom"
	"roomviz/internal/gesture"
)

type fakeHost struct {
	cards      []Card
	selected   string
	selects    int
	transforms []Transform
}

func (h *fakeHost) Cards() []Card                { return h.cards }
func (h *fakeHost) SelectedID() string           { return h.selected }
func (h *fakeHost) Select(id string)             { h.selected = id; h.selects++ }
func (h *fakeHost) TransformChanged(t Transform) { h.transforms = append(h.transforms, t) }

func (h *fakeHost) MoveCard(id string, pos geom.Pt) bool {
	for i := range h.cards {
		if h.cards[i].ID == id {
			h.cards[i].Pos = pos
			return true
		}
	}
	return false
}

func (h *fakeHost) card(id string) Card {
	for _, c := range h.cards {
		if c.ID == id {
			return c
		}
	}
	return Card{}
}

func newHost() *fakeHost {
	sz := geom.Size{W: 400, H: 340}
	return &fakeHost{cards: []Card{
		{ID: "1", Pos: geom.P(0, 0), Size: sz},
		{ID: "2", Pos: geom.P(-380, 50), Size: sz},
		{ID: "3", Pos: geom.P(380, -50), Size: sz},
	}}
}

func TestScaleStaysClamped(t *testing.T) {
	h := newHost()
	v := New(h, nil, Options{})
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		switch r.Intn(3) {
		case 0:
			v.Wheel((r.Float64() - 0.5) * 4000)
		case 1:
			v.ZoomIn()
		default:
			v.ZoomOut()
		}
		if s := v.Transform().Scale; s < MinScale || s > MaxScale {
			t.Fatalf("step %d: scale %v out of range", i, s)
		}
	}
	v.SetTransform(Transform{Scale: 99})
	if v.Transform().Scale != MaxScale {
		t.Fatalf("SetTransform not clamped: %v", v.Transform().Scale)
	}
}

func TestWheelAndZoomSteps(t *testing.T) {
	h := newHost()
	v := New(h, nil, Options{})
	v.Wheel(-100)
	if got := v.Transform().Scale; math.Abs(got-1.1) > 1e-12 {
		t.Fatalf("wheel scale = %v", got)
	}
	v.ZoomOut()
	if got := v.Transform().Scale; math.Abs(got-0.9) > 1e-12 {
		t.Fatalf("zoom out scale = %v", got)
	}
	for i := 0; i < 10; i++ {
		v.ZoomOut()
	}
	if v.Transform().Scale != MinScale {
		t.Fatalf("expected floor, got %v", v.Transform().Scale)
	}
	if len(h.transforms) == 0 {
		t.Fatal("host not notified")
	}
}

func TestWorldScreenRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		tr := Transform{PanX: (r.Float64() - 0.5) * 1e4, PanY: (r.Float64() - 0.5) * 1e4, Scale: MinScale + r.Float64()*(MaxScale-MinScale)}
		s := geom.P((r.Float64()-0.5)*5000, (r.Float64()-0.5)*5000)
		if got := tr.ScreenFromWorld(tr.WorldFromScreen(s)); !got.Near(s, 1e-6) {
			t.Fatalf("%+v: %v -> %v", tr, s, got)
		}
		if got := tr.Affine().Apply(tr.WorldFromScreen(s)); !got.Near(s, 1e-6) {
			t.Fatalf("affine disagrees: %v vs %v", got, s)
		}
	}
}

func TestPickupDoesNotJump(t *testing.T) {
	h := newHost()
	v := New(h, nil, Options{})
	v.SetTransform(Transform{PanX: 37, PanY: -12, Scale: 1.7})
	start := h.card("3").Pos
	grab := v.Transform().ScreenFromWorld(start.Add(geom.P(25, 40)))

	if m := v.PointerDown(grab); m != DraggingCard {
		t.Fatalf("mode = %v", m)
	}
	v.PointerMove(grab)
	if got := h.card("3").Pos; !got.Near(start, 1e-9) {
		t.Fatalf("card jumped from %v to %v", start, got)
	}
	if h.selected != "3" {
		t.Fatalf("selected = %q", h.selected)
	}
	v.PointerUp()
	if v.Mode() != Idle {
		t.Fatal("not idle after up")
	}
}

func TestSelectIdempotent(t *testing.T) {
	h := newHost()
	h.selected = "1"
	v := New(h, nil, Options{})
	v.PointerDown(geom.P(10, 10))
	v.PointerUp()
	if h.selects != 0 {
		t.Fatalf("re-selected already selected card %d times", h.selects)
	}
}

func TestPanThenDragMovesByWorldDelta(t *testing.T) {
	h := newHost()
	v := New(h, nil, Options{})
	v.SetTransform(Transform{Scale: 2})

	// Pan from empty space.
	bg := geom.P(-2000, -2000)
	if v.PointerDown(bg) != PanningWorld {
		t.Fatal("expected panning")
	}
	v.PointerMove(bg.Add(geom.P(150, -90)))
	v.PointerUp()
	if got := v.Transform().Pan(); !got.Near(geom.P(150, -90), 1e-9) {
		t.Fatalf("pan = %v", got)
	}

	before := h.card("1").Pos
	grab := v.Transform().ScreenFromWorld(before.Add(geom.P(10, 10)))
	delta := geom.P(64, 30)
	v.PointerDown(grab)
	v.PointerMove(grab.Add(delta))
	v.PointerUp()

	want := before.Add(delta.Div(2))
	if got := h.card("1").Pos; !got.Near(want, 1e-9) {
		t.Fatalf("card at %v, want %v", got, want)
	}
	if h.card("2").Pos != geom.P(-380, 50) || h.card("3").Pos != geom.P(380, -50) {
		t.Fatal("other cards moved")
	}
}

func TestStaleDragIsNoop(t *testing.T) {
	h := newHost()
	v := New(h, nil, Options{})
	v.PointerDown(geom.P(390, -40))
	if v.DraggedID() != "3" {
		t.Fatalf("dragging %q", v.DraggedID())
	}
	h.cards = h.cards[:2]
	v.PointerMove(geom.P(500, 500))
	v.PointerMove(geom.P(600, 600))
	if h.card("1").Pos != geom.P(0, 0) || h.card("2").Pos != geom.P(-380, 50) {
		t.Fatal("stale drag touched other cards")
	}
	if v.Mode() != DraggingCard {
		t.Fatal("mode should persist until release")
	}
	v.PointerUp()
	if v.Mode() != Idle {
		t.Fatal("not idle")
	}
}

func TestLeaveReleasesAndBusTracksGesture(t *testing.T) {
	h := newHost()
	bus := gesture.NewBus()
	v := New(h, bus, Options{})
	if bus.Len() != 0 {
		t.Fatal("subscribed while idle")
	}
	v.PointerDown(geom.P(-3000, 0))
	if bus.Len() != 1 {
		t.Fatalf("subscribers during pan = %d", bus.Len())
	}
	bus.Dispatch(gesture.Event{Kind: gesture.Move, Pos: geom.P(-2990, 5)})
	if got := v.Transform().Pan(); !got.Near(geom.P(10, 5), 1e-9) {
		t.Fatalf("pan via bus = %v", got)
	}
	bus.Dispatch(gesture.Event{Kind: gesture.Leave})
	if v.Mode() != Idle || bus.Len() != 0 {
		t.Fatalf("leave did not release: mode=%v subs=%d", v.Mode(), bus.Len())
	}
	// Moves after release do nothing.
	bus.Dispatch(gesture.Event{Kind: gesture.Move, Pos: geom.P(0, 0)})
	if got := v.Transform().Pan(); !got.Near(geom.P(10, 5), 1e-9) {
		t.Fatal("pan changed after release")
	}
}

func TestSecondDownIgnoredDuringGesture(t *testing.T) {
	h := newHost()
	v := New(h, nil, Options{})
	v.PointerDown(geom.P(-3000, 0))
	if m := v.PointerDown(geom.P(10, 10)); m != PanningWorld {
		t.Fatalf("mode switched to %v", m)
	}
	if h.selected != "" {
		t.Fatal("card selected during pan")
	}
}

func TestSelectedCardHitsFirst(t *testing.T) {
	h := newHost()
	// Card 1 spans x 0..400, card 3 spans 380..780; overlap at x=390.
	p := geom.P(390, 10)
	v := New(h, nil, Options{})
	if c, _ := v.CardAt(p); c.ID != "3" {
		t.Fatalf("top-most = %q", c.ID)
	}
	h.selected = "1"
	if c, _ := v.CardAt(p); c.ID != "1" {
		t.Fatalf("selected card should win, got %q", c.ID)
	}
}

func TestCenterOn(t *testing.T) {
	h := newHost()
	v := New(h, nil, Options{})
	v.SetTransform(Transform{PanX: 5, PanY: 5, Scale: 1.5})
	if !v.CenterOn("2") {
		t.Fatal("card not found")
	}
	if got := v.Transform(); got.PanX != 570 || got.PanY != -75 || got.Scale != 1.5 {
		t.Fatalf("transform = %+v", got)
	}
	if v.CenterOn("nope") {
		t.Fatal("unknown id centered")
	}
}
