/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package workspace is the shell around the render board and the shot
// editor. It owns the project data, the selection and the board transform,
// and turns confirmed shots into room settings.
package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"roomviz/internal/cone"
	"roomviz/internal/domain"
	"roomviz/internal/geom"
	"roomviz/internal/gesture"
	applog "roomviz/internal/log"
	"roomviz/internal/telemetry"
	"roomviz/internal/viewport"
)

var (
	ErrEditorClosed  = errors.New("camera editor is not open")
	ErrUnknownRender = errors.New("unknown render")
)

// Options configures a workspace. Zero values select defaults.
type Options struct {
	CardSize    geom.Size
	Sensitivity float64
	ZoomStep    float64
	Telemetry   telemetry.Sink
	// Rand, Now and NewID make mock generation deterministic in tests.
	Rand  *rand.Rand
	Now   func() time.Time
	NewID func() string
}

// Workspace is driven from a single UI goroutine.
type Workspace struct {
	project   domain.Project
	data      domain.ProjectData
	selected  string
	transform viewport.Transform
	pending   bool
	shot      *cone.Shot
	rig       *cone.Rig

	cardSize geom.Size
	bus      *gesture.Bus
	camBus   *gesture.Bus
	view     *viewport.Viewport
	editor   *cone.Editor
	sink     telemetry.Sink
	rnd      *rand.Rand
	now      func() time.Time
	newID    func() string
	log      *slog.Logger
}

// New opens a workspace on data. The first render, if any, starts selected
// and the freshly loaded settings count as pending.
func New(project domain.Project, data domain.ProjectData, opts Options) *Workspace {
	if opts.CardSize.W <= 0 || opts.CardSize.H <= 0 {
		opts.CardSize = geom.Size{W: 400, H: 340}
	}
	if opts.Telemetry == nil {
		opts.Telemetry = telemetry.Nop{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	w := &Workspace{
		project:   project,
		data:      data,
		transform: viewport.DefaultTransform(),
		pending:   true,
		cardSize:  opts.CardSize,
		bus:       gesture.NewBus(),
		camBus:    gesture.NewBus(),
		sink:      opts.Telemetry,
		rnd:       opts.Rand,
		now:       opts.Now,
		newID:     opts.NewID,
		log:       applog.WithComponent("workspace").With(slog.String("project", project.ID)),
	}
	if len(data.Renders) > 0 {
		w.selected = data.Renders[0].ID
	}
	w.view = viewport.New(w, w.bus, viewport.Options{Sensitivity: opts.Sensitivity, ZoomStep: opts.ZoomStep})
	w.editor = cone.NewEditor(w, w.camBus)
	return w
}

func (w *Workspace) Project() domain.Project       { return w.project }
func (w *Workspace) Viewport() *viewport.Viewport  { return w.view }
func (w *Workspace) Editor() *cone.Editor          { return w.editor }
func (w *Workspace) Bus() *gesture.Bus             { return w.bus }
func (w *Workspace) CameraBus() *gesture.Bus       { return w.camBus }
func (w *Workspace) Pending() bool                 { return w.pending }
func (w *Workspace) Settings() domain.RoomSettings { return w.data.RoomSettings }

// Data returns a copy of the project data.
func (w *Workspace) Data() domain.ProjectData {
	d := w.data
	d.Renders = append([]domain.RenderNode(nil), w.data.Renders...)
	d.BOQ = append([]domain.BOQItem(nil), w.data.BOQ...)
	return d
}

// Selected returns the selected render.
func (w *Workspace) Selected() (domain.RenderNode, bool) {
	r, i := w.data.Render(w.selected)
	return r, i >= 0
}

// LastShot returns the most recently confirmed shot and its rig.
func (w *Workspace) LastShot() (cone.Shot, cone.Rig, bool) {
	if w.shot == nil {
		return cone.Shot{}, cone.Rig{}, false
	}
	return *w.shot, *w.rig, true
}

// Cards implements viewport.Host.
func (w *Workspace) Cards() []viewport.Card {
	cards := make([]viewport.Card, len(w.data.Renders))
	for i, r := range w.data.Renders {
		cards[i] = viewport.Card{
			ID:    r.ID,
			Pos:   geom.P(r.Position.X, r.Position.Y),
			Size:  w.cardSize,
			Image: r.ImageURL,
			Title: r.Title,
		}
	}
	return cards
}

// SelectedID implements viewport.Host.
func (w *Workspace) SelectedID() string { return w.selected }

// MoveCard implements viewport.Host. Only the named render changes.
func (w *Workspace) MoveCard(id string, pos geom.Pt) bool {
	_, i := w.data.Render(id)
	if i < 0 {
		return false
	}
	renders := append([]domain.RenderNode(nil), w.data.Renders...)
	renders[i].Position = domain.Point{X: pos.X, Y: pos.Y}
	w.data.Renders = renders
	return true
}

// Select implements viewport.Host.
func (w *Workspace) Select(id string) {
	if w.selected == id {
		return
	}
	w.selected = id
	w.log.Debug("render selected", "render", id)
}

// TransformChanged implements viewport.Host.
func (w *Workspace) TransformChanged(t viewport.Transform) { w.transform = t }

// Transform returns the persisted board transform.
func (w *Workspace) Transform() viewport.Transform { return w.transform }

// SelectRender selects id from outside the board, e.g. a sidebar list.
func (w *Workspace) SelectRender(id string) error {
	if _, i := w.data.Render(id); i < 0 {
		return fmt.Errorf("select %q: %w", id, ErrUnknownRender)
	}
	w.Select(id)
	return nil
}

// CenterOn pans the board so render id sits at the board origin.
func (w *Workspace) CenterOn(id string) error {
	if !w.view.CenterOn(id) {
		return fmt.Errorf("center on %q: %w", id, ErrUnknownRender)
	}
	return nil
}

// UpdateSettings applies fn to the room settings and marks them pending.
func (w *Workspace) UpdateSettings(fn func(*domain.RoomSettings)) {
	s := w.data.RoomSettings
	fn(&s)
	w.data.RoomSettings = s
	w.pending = true
}

// RequestRender adds a mock generation when settings are pending. It places
// the new card near the origin, selects it and clears the pending flag.
func (w *Workspace) RequestRender() (domain.RenderNode, bool) {
	if !w.pending {
		return domain.RenderNode{}, false
	}
	s := w.data.RoomSettings
	r := domain.RenderNode{
		ID:        w.newID(),
		ImageURL:  domain.PlaceholderImage,
		Position:  domain.Point{X: w.rnd.Float64()*200 - 100, Y: w.rnd.Float64()*200 - 100},
		Settings:  domain.RenderSettings{Lighting: s.LightingScenario, Style: s.Style},
		Title:     fmt.Sprintf("Draft #%d", len(w.data.Renders)+1),
		Timestamp: w.now().Format("03:04 PM"),
	}
	w.data.Renders = append(append([]domain.RenderNode(nil), w.data.Renders...), r)
	w.pending = false
	w.Select(r.ID)
	w.log.Info("render requested", "render", r.ID, "style", s.Style, "lighting", s.LightingScenario)
	w.sink.Event(telemetry.RenderRequested, map[string]any{"style": s.Style, "lighting": s.LightingScenario})
	return r, true
}

// RemoveRender deletes a render. A drag in progress on it becomes a no-op.
func (w *Workspace) RemoveRender(id string) error {
	_, i := w.data.Render(id)
	if i < 0 {
		return fmt.Errorf("remove %q: %w", id, ErrUnknownRender)
	}
	renders := make([]domain.RenderNode, 0, len(w.data.Renders)-1)
	renders = append(renders, w.data.Renders[:i]...)
	renders = append(renders, w.data.Renders[i+1:]...)
	w.data.Renders = renders
	if w.selected == id {
		w.selected = ""
	}
	return nil
}

// OpenCamera opens the shot editor on the default rig.
func (w *Workspace) OpenCamera() { w.editor.Open(nil) }

// ConfirmCamera confirms the open editor.
func (w *Workspace) ConfirmCamera() (cone.Shot, error) {
	shot, ok := w.editor.Confirm()
	if !ok {
		return cone.Shot{}, ErrEditorClosed
	}
	return shot, nil
}

// CancelCamera discards the open editor session.
func (w *Workspace) CancelCamera() error {
	if !w.editor.IsOpen() {
		return ErrEditorClosed
	}
	w.editor.Cancel()
	return nil
}

// ShotApplied implements cone.Listener.
func (w *Workspace) ShotApplied(s cone.Shot, r cone.Rig) {
	w.shot, w.rig = &s, &r
	w.UpdateSettings(func(rs *domain.RoomSettings) { rs.Viewpoint = domain.ViewpointCustom })
	w.sink.Event(telemetry.ShotConfirmed, map[string]any{"lens_mm": s.LensMM, "fov": s.FOV})
}

// ShotCancelled implements cone.Listener.
func (w *Workspace) ShotCancelled() {
	w.sink.Event(telemetry.ShotCancelled, nil)
}

// State is the serializable view state.
type State struct {
	Project   domain.Project      `yaml:"project"`
	Transform viewport.Transform  `yaml:"transform"`
	Selected  string              `yaml:"selected,omitempty"`
	Pending   bool                `yaml:"pending"`
	Settings  domain.RoomSettings `yaml:"room_settings"`
	Renders   []domain.RenderNode `yaml:"renders"`
	LastShot  *cone.Shot          `yaml:"last_shot,omitempty"`
	LastRig   *cone.Rig           `yaml:"last_rig,omitempty"`
}

// State captures the current view state.
func (w *Workspace) State() State {
	return State{
		Project:   w.project,
		Transform: w.transform,
		Selected:  w.selected,
		Pending:   w.pending,
		Settings:  w.data.RoomSettings,
		Renders:   w.Data().Renders,
		LastShot:  w.shot,
		LastRig:   w.rig,
	}
}

// Snapshot encodes State as YAML.
func (w *Workspace) Snapshot() ([]byte, error) {
	b, err := yaml.Marshal(w.State())
	if err != nil {
		return nil, fmt.Errorf("encode workspace state: %w", err)
	}
	return b, nil
}

// DumpState is Snapshot for crash reports; encoding errors become text.
func (w *Workspace) DumpState() []byte {
	b, err := w.Snapshot()
	if err != nil {
		return []byte(err.Error())
	}
	return b
}

