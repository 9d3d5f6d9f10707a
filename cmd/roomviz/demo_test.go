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
	"math"
	"testing"

	"roomviz/internal/domain"
	"roomviz/internal/geom"
	"roomviz/internal/workspace"
)

func TestRunDemo(t *testing.T) {
	ws := workspace.New(domain.SeedProjects()[0], domain.SeedProjectData(), workspace.Options{})
	var steps []string
	runDemo(ws, func(s string) { steps = append(steps, s) })

	if len(steps) != 6 {
		t.Fatalf("steps = %q", steps)
	}
	tr := ws.Transform()
	if !tr.Pan().Near(geom.P(60, 20), 1e-9) || math.Abs(tr.Scale-1.25) > 1e-9 {
		t.Fatalf("transform = %+v", tr)
	}
	for _, c := range ws.Cards() {
		if c.ID == "3" && !c.Pos.Near(geom.P(420, -40), 1e-9) {
			t.Fatalf("card 3 at %v", c.Pos)
		}
	}
	shot, _, ok := ws.LastShot()
	if !ok || !geom.P(shot.X, shot.Y).Near(geom.P(30, 70), 1e-9) {
		t.Fatalf("last shot = %+v, %v", shot, ok)
	}
	if got := ws.Settings().Viewpoint; got != domain.ViewpointCustom {
		t.Fatalf("viewpoint = %q", got)
	}
	if n := len(ws.Data().Renders); n != 5 {
		t.Fatalf("renders = %d", n)
	}
	if ws.Pending() {
		t.Fatalf("pending after final render")
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Entry Wide":   "entry-wide",
		"Corner (NW)":  "corner-nw",
		"  Center  ":   "center",
		"Window/View!": "window-view",
	}
	for in, want := range cases {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}
