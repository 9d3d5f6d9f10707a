/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package workspace

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"roomviz/internal/cone"
	"roomviz/internal/domain"
	"roomviz/internal/geom"
	"roomviz/internal/gesture"
	"roomviz/internal/viewport"
)

type sinkRecorder struct{ names []string }

func (s *sinkRecorder) Event(name string, _ map[string]any) { s.names = append(s.names, name) }

func newWorkspace(t *testing.T) (*Workspace, *sinkRecorder) {
	t.Helper()
	sink := &sinkRecorder{}
	n := 0
	ws := New(domain.SeedProjects()[0], domain.SeedProjectData(), Options{
		Telemetry: sink,
		Rand:      rand.New(rand.NewSource(1)),
		Now:       func() time.Time { return time.Date(2025, 3, 1, 14, 5, 0, 0, time.UTC) },
		NewID: func() string {
			n++
			return fmt.Sprintf("gen-%d", n)
		},
	})
	return ws, sink
}

func TestInitialState(t *testing.T) {
	ws, _ := newWorkspace(t)
	if r, ok := ws.Selected(); !ok || r.ID != "1" {
		t.Fatalf("selected = %v %v", r.ID, ok)
	}
	if !ws.Pending() {
		t.Fatal("fresh settings should be pending")
	}
	if got := ws.Transform(); got != viewport.DefaultTransform() {
		t.Fatalf("transform = %+v", got)
	}
	if len(ws.Cards()) != 3 || ws.Cards()[1].Pos != geom.P(-380, 50) {
		t.Fatalf("cards = %+v", ws.Cards())
	}
}

func TestBoardDragWritesRenderPosition(t *testing.T) {
	ws, _ := newWorkspace(t)
	v := ws.Viewport()
	// Grab card 3 (world 380,-50) and drag it 100 screen px right via the bus.
	v.PointerDown(geom.P(500, 0))
	ws.Bus().Dispatch(gesture.Event{Kind: gesture.Move, Pos: geom.P(600, 0)})
	ws.Bus().Dispatch(gesture.Event{Kind: gesture.Up})

	r, _ := ws.Data().Render("3")
	if r.Position != (domain.Point{X: 480, Y: -50}) {
		t.Fatalf("position = %+v", r.Position)
	}
	if ws.SelectedID() != "3" {
		t.Fatalf("selected = %q", ws.SelectedID())
	}
	if ws.Bus().Len() != 0 {
		t.Fatal("listener left on bus")
	}
}

func TestPanZoomPersistInWorkspace(t *testing.T) {
	ws, _ := newWorkspace(t)
	v := ws.Viewport()
	v.PointerDown(geom.P(-5000, -5000))
	v.PointerMove(geom.P(-4900, -4950))
	v.PointerLeave()
	v.Wheel(-500)
	got := ws.Transform()
	if got.PanX != 100 || got.PanY != 50 || got.Scale != 1.5 {
		t.Fatalf("transform = %+v", got)
	}
}

func TestRequestRender(t *testing.T) {
	ws, sink := newWorkspace(t)
	ws.UpdateSettings(func(s *domain.RoomSettings) { s.Style = "Scandinavian" })
	r, ok := ws.RequestRender()
	if !ok {
		t.Fatal("render not generated")
	}
	if r.ID != "gen-1" || r.Title != "Draft #4" || r.Settings.Style != "Scandinavian" || r.Timestamp != "02:05 PM" {
		t.Fatalf("render = %+v", r)
	}
	if r.Position.X < -100 || r.Position.X >= 100 || r.Position.Y < -100 || r.Position.Y >= 100 {
		t.Fatalf("position out of range: %+v", r.Position)
	}
	if ws.SelectedID() != "gen-1" || ws.Pending() {
		t.Fatal("new render not selected or still pending")
	}
	if _, ok := ws.RequestRender(); ok {
		t.Fatal("second request without changes generated a render")
	}
	if len(sink.names) != 1 || sink.names[0] != "render_requested" {
		t.Fatalf("telemetry = %v", sink.names)
	}
}

func TestRemoveRenderMidDrag(t *testing.T) {
	ws, _ := newWorkspace(t)
	v := ws.Viewport()
	v.PointerDown(geom.P(10, 10))
	if v.DraggedID() != "1" {
		t.Fatalf("dragging %q", v.DraggedID())
	}
	if err := ws.RemoveRender("1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	v.PointerMove(geom.P(300, 300))
	v.PointerUp()
	d := ws.Data()
	if len(d.Renders) != 2 || d.Renders[0].Position != (domain.Point{X: -380, Y: 50}) || d.Renders[1].Position != (domain.Point{X: 380, Y: -50}) {
		t.Fatalf("renders = %+v", d.Renders)
	}
	if ws.SelectedID() != "" {
		t.Fatal("removed render still selected")
	}
	if err := ws.RemoveRender("1"); !errors.Is(err, ErrUnknownRender) {
		t.Fatalf("err = %v", err)
	}
}

func TestCenterOnAndSelect(t *testing.T) {
	ws, _ := newWorkspace(t)
	if err := ws.CenterOn("3"); err != nil {
		t.Fatal(err)
	}
	if got := ws.Transform(); got.PanX != -380 || got.PanY != 50 {
		t.Fatalf("transform = %+v", got)
	}
	if err := ws.CenterOn("zz"); !errors.Is(err, ErrUnknownRender) {
		t.Fatalf("err = %v", err)
	}
	if err := ws.SelectRender("2"); err != nil || ws.SelectedID() != "2" {
		t.Fatalf("select: %v %q", err, ws.SelectedID())
	}
	if err := ws.SelectRender("zz"); err == nil {
		t.Fatal("unknown render selected")
	}
}

func TestCameraConfirmSetsCustomViewpoint(t *testing.T) {
	ws, sink := newWorkspace(t)
	ws.RequestRender()
	if ws.Pending() {
		t.Fatal("precondition: not pending")
	}
	ws.OpenCamera()
	ws.Editor().ApplyPreset("Corner (NW)")
	shot, err := ws.ConfirmCamera()
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if ws.Settings().Viewpoint != domain.ViewpointCustom || !ws.Pending() {
		t.Fatalf("settings = %+v pending=%v", ws.Settings(), ws.Pending())
	}
	got, rig, ok := ws.LastShot()
	if !ok || got != shot || rig.FOV != 90 {
		t.Fatalf("last shot = %+v %+v", got, rig)
	}
	if rot := shot.RotationDegrees; rot < 134.99 || rot > 135.01 {
		t.Fatalf("rotation = %v", shot.RotationDegrees)
	}
	if _, err := ws.ConfirmCamera(); !errors.Is(err, ErrEditorClosed) {
		t.Fatalf("err = %v", err)
	}
	if sink.names[len(sink.names)-1] != "shot_confirmed" {
		t.Fatalf("telemetry = %v", sink.names)
	}
}

func TestCameraDragThenCancelKeepsConfirmedShot(t *testing.T) {
	ws, sink := newWorkspace(t)
	ws.OpenCamera()
	ws.Editor().ApplyPreset("Window View")
	first, _ := ws.ConfirmCamera()

	ws.OpenCamera()
	ed := ws.Editor()
	ed.PointerDown(ed.Geometry().CameraV)
	ws.CameraBus().Dispatch(gesture.Event{Kind: gesture.Move, Pos: cone.ToVirtual(geom.P(5, 5))})
	if err := ws.CancelCamera(); err != nil {
		t.Fatal(err)
	}
	got, rig, _ := ws.LastShot()
	if got != first || rig.Camera != geom.P(50, 20) {
		t.Fatalf("confirmed shot changed: %+v %+v", got, rig)
	}
	if err := ws.CancelCamera(); !errors.Is(err, ErrEditorClosed) {
		t.Fatalf("err = %v", err)
	}
	if sink.names[len(sink.names)-1] != "shot_cancelled" {
		t.Fatalf("telemetry = %v", sink.names)
	}
}

func TestSnapshotYAML(t *testing.T) {
	ws, _ := newWorkspace(t)
	ws.OpenCamera()
	_, _ = ws.ConfirmCamera()
	b, err := ws.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	var st State
	if err := yaml.Unmarshal(b, &st); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, b)
	}
	if st.Project.Name != "Modern Loft Renovation" || st.LastShot == nil || st.LastRig.FOV != 60 || len(st.Renders) != 3 {
		t.Fatalf("state = %+v", st)
	}
	if !strings.Contains(string(ws.DumpState()), "scale: 1") {
		t.Fatalf("dump:\n%s", ws.DumpState())
	}
}


func TestCameraAndBoardUseSeparateBuses(t *testing.T) {
	ws, _ := newWorkspace(t)
	ws.OpenCamera()
	ed := ws.Editor()
	if ed.PointerDown(ed.Geometry().CameraV) != cone.HandleCamera {
		t.Fatal("camera not grabbed")
	}
	if ws.CameraBus().Len() != 1 || ws.Bus().Len() != 0 {
		t.Fatalf("listeners: camera=%d board=%d", ws.CameraBus().Len(), ws.Bus().Len())
	}
	before := ed.Rig().Camera
	// A screen-space board move must not reach the plan.
	ws.Bus().Dispatch(gesture.Event{Kind: gesture.Move, Pos: geom.P(900, 10)})
	if ed.Rig().Camera != before {
		t.Fatalf("board event moved camera to %v", ed.Rig().Camera)
	}
	ws.CameraBus().Dispatch(gesture.Event{Kind: gesture.Move, Pos: cone.ToVirtual(geom.P(20, 30))})
	if !ed.Rig().Camera.Near(geom.P(20, 30), 1e-9) {
		t.Fatalf("camera = %v", ed.Rig().Camera)
	}
	ws.CameraBus().Dispatch(gesture.Event{Kind: gesture.Up})
	if ws.CameraBus().Len() != 0 {
		t.Fatal("listener left on camera bus")
	}
}
