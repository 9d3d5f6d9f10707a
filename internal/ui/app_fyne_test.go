//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// These tests drive the fyne widgets with synthetic desktop events. They are
// gated behind the "fyne" build tag so CI does not need a display:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"roomviz/internal/cone"
	"roomviz/internal/domain"
	"roomviz/internal/geom"
	"roomviz/internal/viewport"
	"roomviz/internal/workspace"
)

func newTestWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	test.NewTempApp(t)
	return workspace.New(domain.SeedProjects()[0], domain.SeedProjectData(), workspace.Options{})
}

func mouse(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	}
}

func cardPos(ws *workspace.Workspace, id string) geom.Pt {
	for _, c := range ws.Cards() {
		if c.ID == id {
			return c.Pos
		}
	}
	return geom.Pt{}
}

func TestBoardCanvas_DragCard(t *testing.T) {
	ws := newTestWorkspace(t)
	b := NewBoardCanvas(ws)
	b.Resize(fyne.NewSize(800, 600))

	b.MouseDown(mouse(200, 100))
	if ws.Viewport().Mode() != viewport.DraggingCard {
		t.Fatalf("mode = %v", ws.Viewport().Mode())
	}
	b.MouseMoved(mouse(250, 130))
	b.MouseUp(mouse(250, 130))

	if got := cardPos(ws, "1"); !got.Near(geom.P(50, 30), 1e-6) {
		t.Fatalf("card 1 at %v", got)
	}
	if ws.Viewport().Mode() != viewport.Idle || ws.Bus().Len() != 0 {
		t.Fatalf("gesture not released")
	}
}

func TestBoardCanvas_PanAndLeave(t *testing.T) {
	ws := newTestWorkspace(t)
	b := NewBoardCanvas(ws)
	b.Resize(fyne.NewSize(800, 600))

	b.MouseDown(mouse(100, 500))
	b.MouseMoved(mouse(140, 520))
	b.MouseOut()
	b.MouseMoved(mouse(400, 400))

	if got := ws.Transform().Pan(); !got.Near(geom.P(40, 20), 1e-6) {
		t.Fatalf("pan = %v", got)
	}
	if ws.Viewport().Mode() != viewport.Idle {
		t.Fatalf("leave did not end the pan")
	}
}

func TestBoardCanvas_ScrollZooms(t *testing.T) {
	ws := newTestWorkspace(t)
	b := NewBoardCanvas(ws)
	b.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 10)})
	if s := ws.Transform().Scale; s <= 1 {
		t.Fatalf("scroll up should zoom in, scale = %v", s)
	}
}

func TestConeCanvas_DragCamera(t *testing.T) {
	ws := newTestWorkspace(t)
	ws.OpenCamera()
	c := NewConeCanvas(ws.Editor(), ws.CameraBus())
	c.Resize(fyne.NewSize(500, 312.5))

	// default camera (50,85) sits at half scale of (500, 531.25)
	c.MouseDown(mouse(250, 265.625))
	if ws.Editor().Active() != cone.HandleCamera {
		t.Fatalf("active = %v", ws.Editor().Active())
	}
	c.MouseMoved(mouse(100, 250))
	c.MouseUp(mouse(100, 250))

	if got := ws.Editor().Rig().Camera; !got.Near(geom.P(20, 80), 1e-6) {
		t.Fatalf("camera = %v", got)
	}
	if ws.Editor().Active() != cone.HandleNone {
		t.Fatalf("handle still active")
	}
}
