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

package ui

import (
	"fmt"
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"roomviz/internal/cone"
	"roomviz/internal/export"
	"roomviz/internal/geom"
	"roomviz/internal/gesture"
	"roomviz/internal/workspace"
)

// ConeCanvas shows the plan raster of the editor's rig and maps pointer
// input into virtual plan units.
type ConeCanvas struct {
	widget.BaseWidget
	ed       *cone.Editor
	bus      *gesture.Bus
	OnChange func()
}

var (
	_ desktop.Mouseable = (*ConeCanvas)(nil)
	_ desktop.Hoverable = (*ConeCanvas)(nil)
	_ fyne.Draggable    = (*ConeCanvas)(nil)
)

func NewConeCanvas(ed *cone.Editor, bus *gesture.Bus) *ConeCanvas {
	c := &ConeCanvas{ed: ed, bus: bus}
	c.ExtendBaseWidget(c)
	return c
}

func (c *ConeCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := canvas.NewRaster(func(_, _ int) image.Image {
		return export.RenderCone(c.ed.Rig(), export.ConeOptions{Width: max(1, int(c.Size().Width))})
	})
	return widget.NewSimpleRenderer(r)
}

func (c *ConeCanvas) MinSize() fyne.Size {
	return fyne.NewSize(float32(cone.VirtualW)*0.64, float32(cone.VirtualH)*0.64)
}

func (c *ConeCanvas) virtual(p fyne.Position) geom.Pt {
	sz := c.Size()
	return cone.FromBox(pt(p), geom.Size{W: float64(sz.Width), H: float64(sz.Height)})
}

func (c *ConeCanvas) changed() {
	c.Refresh()
	if c.OnChange != nil {
		c.OnChange()
	}
}

func (c *ConeCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	c.ed.PointerDown(c.virtual(e.Position))
}

func (c *ConeCanvas) MouseUp(e *desktop.MouseEvent) {
	c.bus.Dispatch(gesture.Event{Kind: gesture.Up, Pos: c.virtual(e.Position)})
}

func (c *ConeCanvas) MouseIn(*desktop.MouseEvent) {}

func (c *ConeCanvas) MouseMoved(e *desktop.MouseEvent) {
	if c.ed.Active() == cone.HandleNone {
		return
	}
	c.bus.Dispatch(gesture.Event{Kind: gesture.Move, Pos: c.virtual(e.Position)})
	c.changed()
}

// MouseOut keeps an active handle drag alive; it ends on button release.
func (c *ConeCanvas) MouseOut() {}

func (c *ConeCanvas) Dragged(e *fyne.DragEvent) {
	c.bus.Dispatch(gesture.Event{Kind: gesture.Move, Pos: c.virtual(e.Position)})
	c.changed()
}

func (c *ConeCanvas) DragEnd() {
	c.bus.Dispatch(gesture.Event{Kind: gesture.Up})
}

// showCameraDialog opens the shot editor as a modal dialog.
func showCameraDialog(w fyne.Window, ws *workspace.Workspace, done func()) {
	ws.OpenCamera()
	ed := ws.Editor()

	info := widget.NewLabel("")
	desc := widget.NewMultiLineEntry()
	desc.Wrapping = fyne.TextWrapWord
	desc.SetMinRowsVisible(3)

	// syncing suppresses OnChanged while the editor rewrites the text.
	syncing := false
	sync := func() {
		r := ed.Rig()
		info.SetText(fmt.Sprintf("%s  |  %s", cone.Zone(r.Camera), r.String()))
		if desc.Text != ed.Description() {
			syncing = true
			desc.SetText(ed.Description())
			syncing = false
		}
	}
	desc.OnChanged = func(s string) {
		if !syncing {
			ed.SetDescription(s)
		}
	}

	plan := NewConeCanvas(ed, ws.CameraBus())
	plan.OnChange = sync

	presets := container.NewHBox()
	for _, p := range ed.Presets() {
		name := p.Name
		presets.Add(widget.NewButton(name, func() {
			ed.ApplyPreset(name)
			plan.Refresh()
			sync()
		}))
	}
	sync()

	body := container.NewBorder(
		container.NewHScroll(presets),
		container.NewVBox(info, widget.NewLabel("Shot description"), desc),
		nil, nil, plan,
	)
	d := dialog.NewCustomConfirm("Camera", "Apply shot", "Cancel", body, func(ok bool) {
		var err error
		if ok {
			_, err = ws.ConfirmCamera()
		} else {
			err = ws.CancelCamera()
		}
		if err != nil {
			dialog.ShowError(err, w)
		}
		done()
	}, w)
	d.Resize(fyne.NewSize(720, 640))
	d.Show()
}
