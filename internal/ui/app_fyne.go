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
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"roomviz/internal/config"
	"roomviz/internal/crash"
	"roomviz/internal/export"
	"roomviz/internal/geom"
	"roomviz/internal/gesture"
	applog "roomviz/internal/log"
	"roomviz/internal/version"
	"roomviz/internal/workspace"
)

// wheelScale converts fyne scroll units to browser-style wheel deltas.
const wheelScale = 10

// Run starts the desktop shell for ws.
func Run(ws *workspace.Workspace, cfg config.AppConfig) error {
	if ws == nil {
		return fmt.Errorf("no workspace")
	}
	l := applog.WithComponent("ui")
	l.Info("starting UI", "project", ws.Project().Name)
	defer crash.Recover(ws.DumpState)

	fyneApp := app.NewWithID("roomviz")
	switch cfg.General.Theme {
	case "dark":
		fyneApp.Settings().SetTheme(theme.DarkTheme())
	case "light":
		fyneApp.Settings().SetTheme(theme.LightTheme())
	}
	w := fyneApp.NewWindow("Roomviz " + version.Version + " - " + ws.Project().Name)
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1280)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 900 {
		winW = 900
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	board := NewBoardCanvas(ws)

	var renders *widget.List
	refresh := func() {
		board.Refresh()
		renders.Refresh()
		t := ws.Transform()
		msg := fmt.Sprintf("Zoom %.0f%%", t.Scale*100)
		if ws.Pending() {
			msg += "  |  changes pending"
		}
		if shot, _, ok := ws.LastShot(); ok {
			msg += fmt.Sprintf("  |  last shot %dmm at (%.0f, %.0f)", shot.LensMM, shot.X, shot.Y)
		}
		status.SetText(msg)
	}
	board.OnChange = refresh

	renders = widget.NewList(
		func() int { return len(ws.Data().Renders) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			rs := ws.Data().Renders
			if i < 0 || int(i) >= len(rs) {
				o.(*widget.Label).SetText("")
				return
			}
			r := rs[i]
			label := r.Title
			if r.ID == ws.SelectedID() {
				label = "● " + label
			}
			o.(*widget.Label).SetText(label + "  " + r.Timestamp)
		},
	)
	renders.OnSelected = func(i widget.ListItemID) {
		rs := ws.Data().Renders
		if i < 0 || int(i) >= len(rs) {
			return
		}
		if err := ws.CenterOn(rs[i].ID); err != nil {
			l.Warn("center failed", "err", err)
		}
		refresh()
	}

	generate := widget.NewButton("Generate", func() {
		if n, ok := ws.RequestRender(); ok {
			status.SetText("Generated " + n.Title)
		}
		refresh()
	})
	camera := widget.NewButton("Camera…", func() {
		showCameraDialog(w, ws, refresh)
	})
	zoomIn := widget.NewButton("+", func() { ws.Viewport().ZoomIn(); refresh() })
	zoomOut := widget.NewButton("−", func() { ws.Viewport().ZoomOut(); refresh() })
	snapshot := widget.NewButton("Save board PNG", func() {
		path, err := saveBoard(ws, cfg.Export.OutputDir, board.Size())
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Saved " + path)
	})

	left := container.NewBorder(
		container.NewVBox(widget.NewLabel("Renders"), generate, camera),
		container.NewHBox(zoomOut, zoomIn, snapshot),
		nil, nil, renders,
	)
	split := container.NewHSplit(left, board)
	split.Offset = 0.22
	w.SetContent(container.NewBorder(nil, status, nil, nil, split))
	w.SetOnClosed(func() {
		prefs.SetInt("window.width", int(w.Canvas().Size().Width))
		prefs.SetInt("window.height", int(w.Canvas().Size().Height))
	})
	refresh()
	w.ShowAndRun()
	return nil
}

func saveBoard(ws *workspace.Workspace, dir string, size fyne.Size) (string, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure export dir: %w", err)
	}
	path := filepath.Join(dir, "board.png")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	opts := export.BoardOptions{Width: int(size.Width), Height: int(size.Height)}
	if err := export.WriteBoardPNG(f, ws.Cards(), ws.SelectedID(), ws.Transform(), opts); err != nil {
		return "", err
	}
	return path, nil
}

// BoardCanvas forwards pointer input to the workspace viewport and paints
// the board raster.
type BoardCanvas struct {
	widget.BaseWidget
	ws       *workspace.Workspace
	OnChange func()
}

var (
	_ desktop.Mouseable = (*BoardCanvas)(nil)
	_ desktop.Hoverable = (*BoardCanvas)(nil)
	_ fyne.Scrollable   = (*BoardCanvas)(nil)
	_ fyne.Draggable    = (*BoardCanvas)(nil)
)

func NewBoardCanvas(ws *workspace.Workspace) *BoardCanvas {
	b := &BoardCanvas{ws: ws}
	b.ExtendBaseWidget(b)
	return b
}

func (b *BoardCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := canvas.NewRaster(func(_, _ int) image.Image {
		sz := b.Size()
		return export.RenderBoard(b.ws.Cards(), b.ws.SelectedID(), b.ws.Transform(), export.BoardOptions{
			Width:       max(1, int(sz.Width)),
			Height:      max(1, int(sz.Height)),
			Supersample: 1,
		})
	})
	return widget.NewSimpleRenderer(r)
}

func (b *BoardCanvas) MinSize() fyne.Size { return fyne.NewSize(640, 400) }

func pt(p fyne.Position) geom.Pt { return geom.P(float64(p.X), float64(p.Y)) }

func (b *BoardCanvas) changed() {
	b.Refresh()
	if b.OnChange != nil {
		b.OnChange()
	}
}

func (b *BoardCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.ws.Viewport().PointerDown(pt(e.Position))
	b.changed()
}

func (b *BoardCanvas) MouseUp(e *desktop.MouseEvent) {
	b.ws.Bus().Dispatch(gesture.Event{Kind: gesture.Up, Pos: pt(e.Position)})
	b.changed()
}

func (b *BoardCanvas) MouseIn(*desktop.MouseEvent) {}

func (b *BoardCanvas) MouseMoved(e *desktop.MouseEvent) {
	if b.ws.Bus().Len() == 0 {
		return
	}
	b.ws.Bus().Dispatch(gesture.Event{Kind: gesture.Move, Pos: pt(e.Position)})
	b.Refresh()
}

// MouseOut ends a gesture like a release.
func (b *BoardCanvas) MouseOut() {
	b.ws.Bus().Dispatch(gesture.Event{Kind: gesture.Leave})
	b.changed()
}

func (b *BoardCanvas) Dragged(e *fyne.DragEvent) {
	b.ws.Bus().Dispatch(gesture.Event{Kind: gesture.Move, Pos: pt(e.Position)})
	b.Refresh()
}

func (b *BoardCanvas) DragEnd() {
	b.ws.Bus().Dispatch(gesture.Event{Kind: gesture.Up})
	b.changed()
}

func (b *BoardCanvas) Scrolled(e *fyne.ScrollEvent) {
	b.ws.Viewport().Wheel(-float64(e.Scrolled.DY) * wheelScale)
	b.changed()
}
