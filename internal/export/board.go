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
	"image"
	"image/png"
	"io"
	"math"

	"roomviz/internal/geom"
	"roomviz/internal/viewport"
)

// BoardOptions sets the snapshot frame. Zero values give 1280×800 at 2× supersampling.
type BoardOptions struct {
	Width, Height int
	Supersample   int
}

// PaintOrder returns cards with the selected one moved last so it draws on top.
func PaintOrder(cards []viewport.Card, selected string) []viewport.Card {
	out := make([]viewport.Card, 0, len(cards))
	var sel *viewport.Card
	for i := range cards {
		if cards[i].ID == selected {
			sel = &cards[i]
			continue
		}
		out = append(out, cards[i])
	}
	if sel != nil {
		out = append(out, *sel)
	}
	return out
}

// RenderBoard draws the board as the viewport shows it: each card at
// world·scale + pan, the image area 4:3 above a caption strip.
func RenderBoard(cards []viewport.Card, selected string, t viewport.Transform, opts BoardOptions) *image.RGBA {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 800
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 2
	}
	ss := opts.Supersample
	t = t.Clamped()
	p := newPainter(opts.Width*ss, opts.Height*ss, float64(ss), rgba(0, 0, 0, 255))

	// Backdrop grid every 100 world units.
	step := 100 * t.Scale
	w, h := float64(opts.Width), float64(opts.Height)
	for x := mod(t.PanX, step); x < w; x += step {
		p.line(geom.P(x, 0), geom.P(x, h), 1, rgba(28, 28, 30, 255))
	}
	for y := mod(t.PanY, step); y < h; y += step {
		p.line(geom.P(0, y), geom.P(w, y), 1, rgba(28, 28, 30, 255))
	}

	ordered := PaintOrder(cards, selected)
	for _, c := range ordered {
		r := t.ScreenRect(c.Bounds())
		imgH := r.W * 3 / 4
		p.fill(rectPts(r), rgba(24, 24, 27, 255))
		p.fill(rectPts(geom.R(r.X, r.Y, r.W, imgH)), rgba(63, 63, 70, 255))
		if c.ID == selected {
			p.polyline(append(rectPts(r), geom.P(r.X, r.Y)), 2, rgba(99, 102, 241, 255))
		} else {
			p.polyline(append(rectPts(r), geom.P(r.X, r.Y)), 1, rgba(39, 39, 42, 255))
		}
	}

	out := downscale(p.img, opts.Width, opts.Height)
	lp := &painter{img: out, k: 1}
	for _, c := range ordered {
		r := t.ScreenRect(c.Bounds())
		lp.text(geom.P(r.X+10*t.Scale, r.Y+r.W*3/4+24*t.Scale), c.Title, false, rgba(228, 228, 231, 255))
	}
	return out
}

func rectPts(r geom.Rect) []geom.Pt {
	return []geom.Pt{geom.P(r.X, r.Y), geom.P(r.X+r.W, r.Y), geom.P(r.X+r.W, r.Y+r.H), geom.P(r.X, r.Y+r.H)}
}

func mod(a, m float64) float64 {
	r := math.Mod(a, m)
	if r < 0 {
		r += m
	}
	return r
}

// WriteBoardPNG encodes a board snapshot.
func WriteBoardPNG(w io.Writer, cards []viewport.Card, selected string, t viewport.Transform, opts BoardOptions) error {
	if err := png.Encode(w, RenderBoard(cards, selected, t, opts)); err != nil {
		return fmt.Errorf("encode board png: %w", err)
	}
	return nil
}
