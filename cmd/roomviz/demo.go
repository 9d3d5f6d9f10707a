/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"flag"
	"fmt"
	"os"

	"roomviz/internal/cone"
	"roomviz/internal/export"
	"roomviz/internal/geom"
	"roomviz/internal/gesture"
	"roomviz/internal/workspace"
)

// cmdDemo replays a short session: pan, card drag, zoom, render request and
// a camera shot, all through the same entry points the UI uses.
func (a *app) cmdDemo(args []string) error {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	dump := fs.String("dump", "", "write the final view state as YAML")
	board := fs.String("board", "", "write a PNG snapshot of the board")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	ws := a.newWorkspace()
	a.ws = ws
	runDemo(ws, func(step string) { fmt.Println("-", step) })

	state, err := ws.Snapshot()
	if err != nil {
		return err
	}
	if *dump != "" {
		if err := os.WriteFile(*dump, state, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", *dump, err)
		}
		fmt.Println("Wrote", *dump)
	} else {
		fmt.Print(string(state))
	}
	if *board != "" {
		f, err := os.Create(*board)
		if err != nil {
			return fmt.Errorf("create %s: %w", *board, err)
		}
		defer func() { _ = f.Close() }()
		if err := export.WriteBoardPNG(f, ws.Cards(), ws.SelectedID(), ws.Transform(), export.BoardOptions{}); err != nil {
			return err
		}
		fmt.Println("Wrote", *board)
	}
	return nil
}

func runDemo(ws *workspace.Workspace, report func(string)) {
	vp := ws.Viewport()
	// board events are in screen pixels, plan events in virtual units
	move := func(bus *gesture.Bus, p geom.Pt) { bus.Dispatch(gesture.Event{Kind: gesture.Move, Pos: p}) }
	up := func(bus *gesture.Bus) { bus.Dispatch(gesture.Event{Kind: gesture.Up}) }
	bus, cam := ws.Bus(), ws.CameraBus()

	vp.PointerDown(geom.P(900, 700))
	move(bus, geom.P(960, 720))
	up(bus)
	report(fmt.Sprintf("panned board to %v", ws.Transform().Pan()))

	for _, c := range ws.Cards() {
		if c.ID != "3" {
			continue
		}
		grab := ws.Transform().ScreenFromWorld(c.Pos.Add(geom.P(20, 20)))
		vp.PointerDown(grab)
		move(bus, grab.Add(geom.P(40, 10)))
		up(bus)
		report(fmt.Sprintf("dragged %q, selected %s", c.Title, ws.SelectedID()))
	}

	vp.Wheel(-250)
	report(fmt.Sprintf("zoomed to %.0f%%", ws.Transform().Scale*100))

	if n, ok := ws.RequestRender(); ok {
		report("generated " + n.Title)
	}

	ws.OpenCamera()
	ed := ws.Editor()
	ed.PointerDown(cone.ToVirtual(ed.Rig().Camera))
	move(cam, cone.ToVirtual(geom.P(30, 70)))
	up(cam)
	if shot, err := ws.ConfirmCamera(); err == nil {
		report(fmt.Sprintf("shot %dmm at (%.0f, %.0f): %s", shot.LensMM, shot.X, shot.Y, shot.Description))
	}

	if n, ok := ws.RequestRender(); ok {
		report("generated " + n.Title)
	}
}
