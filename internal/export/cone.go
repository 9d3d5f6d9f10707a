/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package export renders camera shots and the render board to PNG, WebP,
// SVG and PDF.
package export

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/HugoSmits86/nativewebp"

	"roomviz/internal/cone"
	"roomviz/internal/geom"
)

var (
	colBackground = rgba(15, 23, 42, 255)
	colGrid       = rgba(51, 65, 85, 255)
	colCone       = rgba(59, 130, 246, 90)
	colConeEdge   = rgba(59, 130, 246, 160)
	colAxis       = rgba(148, 163, 184, 160)
	colHandle     = rgba(255, 255, 255, 255)
	colCamera     = rgba(59, 130, 246, 255)
	colLabel      = rgba(203, 213, 225, 255)
)

// ConeOptions controls raster output of a shot diagram.
type ConeOptions struct {
	// Width in pixels; height follows the 16:10 plan. Default 1000.
	Width int
	// Supersample renders at Width·Supersample and filters down. Default 2.
	Supersample int
}

func (o ConeOptions) normalized() ConeOptions {
	if o.Width <= 0 {
		o.Width = int(cone.VirtualW)
	}
	if o.Supersample <= 0 {
		o.Supersample = 2
	}
	return o
}

// conePolygon outlines the cone: camera, left handle, arc, right handle.
func conePolygon(g cone.Geometry) []geom.Pt {
	pts := []geom.Pt{g.CameraV}
	return append(pts, arcPoints(g.CameraV, g.HandleDistance, g.LeftAngle, g.RightAngle, 64)...)
}

// RenderCone draws the plan diagram for rig.
func RenderCone(rig cone.Rig, opts ConeOptions) *image.RGBA {
	opts = opts.normalized()
	w := opts.Width
	h := int(math.Round(float64(w) * cone.VirtualH / cone.VirtualW))
	ss := opts.Supersample
	k := float64(w*ss) / cone.VirtualW
	g := rig.Geometry()

	p := newPainter(w*ss, h*ss, k, colBackground)
	for x := 0.0; x <= cone.VirtualW; x += 50 {
		p.line(geom.P(x, 0), geom.P(x, cone.VirtualH), 1, colGrid)
	}
	for y := 0.0; y <= cone.VirtualH; y += 50 {
		p.line(geom.P(0, y), geom.P(cone.VirtualW, y), 1, colGrid)
	}

	poly := conePolygon(g)
	p.fill(poly, colCone)
	p.polyline(append(poly, g.CameraV), 1, colConeEdge)
	p.dashed(g.CameraV, g.TargetV, 1, 4, colAxis)

	// Target crosshair.
	t := g.TargetV
	p.line(t.Add(geom.P(-8, 0)), t.Add(geom.P(8, 0)), 2, colHandle)
	p.line(t.Add(geom.P(0, -8)), t.Add(geom.P(0, 8)), 2, colHandle)
	p.ring(t, 4, 2, colHandle)

	for _, hp := range []geom.Pt{g.LeftHandle, g.RightHandle} {
		p.disc(hp, 4, colHandle)
		p.ring(hp, 8, 1, rgba(255, 255, 255, 80))
	}

	// Camera dot with a notch pointing along the axis.
	p.disc(g.CameraV, 7, colHandle)
	p.disc(g.CameraV, 5, colCamera)
	rot := g.Angle + math.Pi/2
	notch := []geom.Pt{geom.P(-3, -8), geom.P(3, -8), geom.P(0, -12)}
	for i, n := range notch {
		notch[i] = g.CameraV.Add(rotate(n, rot))
	}
	p.fill(notch, colHandle)

	out := downscale(p.img, w, h)
	lp := &painter{img: out, k: float64(w) / cone.VirtualW}
	lp.text(geom.P(cone.VirtualW/2, 30), "NORTH WINDOW", true, colLabel)
	lp.text(geom.P(cone.VirtualW/2, cone.VirtualH-15), "ENTRY DOOR", true, colLabel)
	lp.text(g.CameraV.Add(geom.P(14, 24)), fmt.Sprintf("%dmm  %.0f°", g.LensMM, rig.FOV), false, colLabel)
	return out
}

func rotate(v geom.Pt, rad float64) geom.Pt {
	s, c := math.Sincos(rad)
	return geom.P(v.X*c-v.Y*s, v.X*s+v.Y*c)
}

// WriteConePNG encodes the diagram as PNG.
func WriteConePNG(w io.Writer, rig cone.Rig, opts ConeOptions) error {
	if err := png.Encode(w, RenderCone(rig, opts)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WriteConeWebP encodes the diagram as lossless WebP.
func WriteConeWebP(w io.Writer, rig cone.Rig, opts ConeOptions) error {
	if err := nativewebp.Encode(w, RenderCone(rig, opts), nil); err != nil {
		return fmt.Errorf("encode webp: %w", err)
	}
	return nil
}

// WriteConeSVG writes a vector overlay in the 1000×625 plan space.
func WriteConeSVG(w io.Writer, rig cone.Rig) error {
	g := rig.Geometry()
	bw := bufio.NewWriter(w)
	f := func(format string, args ...any) { fmt.Fprintf(bw, format, args...) }

	f(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %g %g" width="%g" height="%g">`+"\n", cone.VirtualW, cone.VirtualH, cone.VirtualW, cone.VirtualH)
	f(`  <rect width="100%%" height="100%%" fill="#0F172A"/>` + "\n")
	f(`  <path d="M %.2f %.2f L %.2f %.2f A %.2f %.2f 0 0 1 %.2f %.2f Z" fill="#3B82F6" fill-opacity="0.35" stroke="#3B82F6" stroke-opacity="0.6"/>`+"\n",
		g.CameraV.X, g.CameraV.Y, g.LeftHandle.X, g.LeftHandle.Y, g.HandleDistance, g.HandleDistance, g.RightHandle.X, g.RightHandle.Y)
	f(`  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#94A3B8" stroke-dasharray="4 4"/>`+"\n",
		g.CameraV.X, g.CameraV.Y, g.TargetV.X, g.TargetV.Y)
	f(`  <g transform="translate(%.2f %.2f)" stroke="#FFFFFF" stroke-width="2" fill="none"><line x1="-8" x2="8"/><line y1="-8" y2="8"/><circle r="4"/></g>`+"\n",
		g.TargetV.X, g.TargetV.Y)
	for _, hp := range []geom.Pt{g.LeftHandle, g.RightHandle} {
		f(`  <circle cx="%.2f" cy="%.2f" r="4" fill="#FFFFFF"/>`+"\n", hp.X, hp.Y)
	}
	f(`  <g transform="translate(%.2f %.2f)"><circle r="6" fill="#3B82F6" stroke="#FFFFFF" stroke-width="2"/><path d="M -3 -8 L 3 -8 L 0 -12 Z" fill="#FFFFFF" transform="rotate(%.2f)"/></g>`+"\n",
		g.CameraV.X, g.CameraV.Y, geom.Deg(g.Angle)+90)
	f(`  <text x="%.2f" y="%.2f" fill="#CBD5E1" font-family="monospace" font-size="12">%dmm</text>`+"\n",
		g.CameraV.X+14, g.CameraV.Y+24, g.LensMM)
	f("</svg>\n")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}
