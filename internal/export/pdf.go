/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"roomviz/internal/cone"
	"roomviz/internal/geom"
	"roomviz/internal/version"
)

// BriefOptions labels the PDF brief.
type BriefOptions struct {
	Project string
	Title   string // preset or shot name; optional
}

// WriteShotBrief writes a one-page A4 landscape PDF: the plan diagram drawn
// as vectors on the left, the lens data and description on the right.
func WriteShotBrief(w io.Writer, shot cone.Shot, rig cone.Rig, opts BriefOptions) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s shot brief", opts.Project), true)
	pdf.SetCreator("roomviz "+version.String(), true)
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(false, 12)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	title := "Camera shot"
	if opts.Title != "" {
		title += ": " + opts.Title
	}
	pdf.CellFormat(0, 10, pdf.UnicodeTranslatorFromDescriptor("")(title), "", 1, "L", false, 0, "")
	if opts.Project != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 116, 139)
		pdf.CellFormat(0, 6, opts.Project, "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	const planX, planY, planW = 12.0, 32.0, 160.0
	drawPlan(pdf, rig, planX, planY, planW)

	x := planX + planW + 10
	pdf.SetXY(x, planY)
	pdf.SetFont("Helvetica", "B", 11)
	rows := [][2]string{
		{"Lens", fmt.Sprintf("%d mm", shot.LensMM)},
		{"Field of view", fmt.Sprintf("%.1f deg", shot.FOV)},
		{"Camera", fmt.Sprintf("%.1f%% / %.1f%%", shot.X, shot.Y)},
		{"Target", fmt.Sprintf("%.1f%% / %.1f%%", rig.Target.X, rig.Target.Y)},
		{"Rotation", fmt.Sprintf("%.1f deg", shot.RotationDegrees)},
	}
	for _, r := range rows {
		pdf.SetX(x)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(35, 7, r[0], "B", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(55, 7, r[1], "B", 1, "R", false, 0, "")
	}
	pdf.Ln(6)
	pdf.SetX(x)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 7, "Description", "", 1, "L", false, 0, "")
	pdf.SetX(x)
	pdf.SetFont("Helvetica", "", 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.MultiCell(90, 5, tr(shot.Description), "", "L", false)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// drawPlan maps the 1000×625 plan into a box of width wmm at (x0, y0).
func drawPlan(pdf *gofpdf.Fpdf, rig cone.Rig, x0, y0, wmm float64) {
	s := wmm / cone.VirtualW
	hmm := cone.VirtualH * s
	at := func(p geom.Pt) (float64, float64) { return x0 + p.X*s, y0 + p.Y*s }
	g := rig.Geometry()

	pdf.SetFillColor(15, 23, 42)
	pdf.Rect(x0, y0, wmm, hmm, "F")
	pdf.SetDrawColor(51, 65, 85)
	pdf.SetLineWidth(0.1)
	for vx := 50.0; vx < cone.VirtualW; vx += 50 {
		pdf.Line(x0+vx*s, y0, x0+vx*s, y0+hmm)
	}
	for vy := 50.0; vy < cone.VirtualH; vy += 50 {
		pdf.Line(x0, y0+vy*s, x0+wmm, y0+vy*s)
	}

	poly := conePolygon(g)
	pts := make([]gofpdf.PointType, len(poly))
	for i, p := range poly {
		px, py := at(p)
		pts[i] = gofpdf.PointType{X: px, Y: py}
	}
	pdf.SetAlpha(0.35, "Normal")
	pdf.SetFillColor(59, 130, 246)
	pdf.SetDrawColor(59, 130, 246)
	pdf.Polygon(pts, "FD")
	pdf.SetAlpha(1, "Normal")

	cx, cy := at(g.CameraV)
	tx, ty := at(g.TargetV)
	pdf.SetDrawColor(148, 163, 184)
	pdf.SetDashPattern([]float64{1, 1}, 0)
	pdf.Line(cx, cy, tx, ty)
	pdf.SetDashPattern([]float64{}, 0)

	pdf.SetDrawColor(255, 255, 255)
	pdf.SetLineWidth(0.4)
	pdf.Line(tx-1.5, ty, tx+1.5, ty)
	pdf.Line(tx, ty-1.5, tx, ty+1.5)
	pdf.SetFillColor(255, 255, 255)
	for _, h := range []geom.Pt{g.LeftHandle, g.RightHandle} {
		hx, hy := at(h)
		pdf.Circle(hx, hy, 0.8, "F")
	}
	pdf.SetFillColor(59, 130, 246)
	pdf.Circle(cx, cy, 1.4, "FD")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(203, 213, 225)
	pdf.Text(x0+wmm/2-10, y0+5, "NORTH WINDOW")
	pdf.Text(x0+wmm/2-8, y0+hmm-2, "ENTRY DOOR")
	pdf.SetTextColor(0, 0, 0)
}
