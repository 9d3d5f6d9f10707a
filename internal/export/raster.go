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
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"roomviz/internal/geom"
)

// painter draws anti-aliased shapes on an RGBA image. Shape coordinates are
// given in a logical space and multiplied by k.
type painter struct {
	img *image.RGBA
	k   float64
	z   *vector.Rasterizer
}

func newPainter(w, h int, k float64, bg color.Color) *painter {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return &painter{img: img, k: k}
}

func (p *painter) px(v geom.Pt) (float32, float32) {
	return float32(v.X * p.k), float32(v.Y * p.k)
}

// fill rasterizes a closed polygon. Only the polygon's bounding box is
// accumulated, so many small shapes stay cheap on a large frame.
func (p *painter) fill(pts []geom.Pt, c color.Color) {
	if len(pts) < 3 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, q := range pts {
		minX, maxX = math.Min(minX, q.X*p.k), math.Max(maxX, q.X*p.k)
		minY, maxY = math.Min(minY, q.Y*p.k), math.Max(maxY, q.Y*p.k)
	}
	box := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1).
		Intersect(p.img.Bounds())
	if box.Empty() {
		return
	}
	if p.z == nil {
		p.z = vector.NewRasterizer(box.Dx(), box.Dy())
	} else {
		p.z.Reset(box.Dx(), box.Dy())
	}
	z := p.z
	z.DrawOp = draw.Over
	ox, oy := float32(box.Min.X), float32(box.Min.Y)
	x, y := p.px(pts[0])
	z.MoveTo(x-ox, y-oy)
	for _, q := range pts[1:] {
		x, y = p.px(q)
		z.LineTo(x-ox, y-oy)
	}
	z.ClosePath()
	z.Draw(p.img, box, image.NewUniform(c), image.Point{})
}

// line strokes a segment of logical width w as a quad.
func (p *painter) line(a, b geom.Pt, w float64, c color.Color) {
	d := b.Sub(a)
	n := d.Len()
	if n == 0 {
		return
	}
	off := geom.P(-d.Y/n, d.X/n).Mul(w / 2)
	p.fill([]geom.Pt{a.Add(off), b.Add(off), b.Sub(off), a.Sub(off)}, c)
}

// dashed strokes a segment with equal dash and gap lengths.
func (p *painter) dashed(a, b geom.Pt, w, dash float64, c color.Color) {
	n := a.Dist(b)
	if n == 0 || dash <= 0 {
		return
	}
	dir := b.Sub(a).Div(n)
	for s := 0.0; s < n; s += 2 * dash {
		e := math.Min(s+dash, n)
		p.line(a.Add(dir.Mul(s)), a.Add(dir.Mul(e)), w, c)
	}
}

func (p *painter) polyline(pts []geom.Pt, w float64, c color.Color) {
	for i := 1; i < len(pts); i++ {
		p.line(pts[i-1], pts[i], w, c)
	}
}

func (p *painter) disc(center geom.Pt, r float64, c color.Color) {
	p.fill(arcPoints(center, r, 0, 2*math.Pi, 48), c)
}

func (p *painter) ring(center geom.Pt, r, w float64, c color.Color) {
	p.polyline(arcPoints(center, r, 0, 2*math.Pi, 48), w, c)
}

// text draws s with basicfont, anchored at the logical baseline point at.
// centered shifts the run left by half its width.
func (p *painter) text(at geom.Pt, s string, centered bool, c color.Color) {
	d := &font.Drawer{Dst: p.img, Src: image.NewUniform(c), Face: basicfont.Face7x13}
	x, y := p.px(at)
	if centered {
		x -= float32(d.MeasureString(s).Round()) / 2
	}
	d.Dot = fixed.P(int(x), int(y))
	d.DrawString(s)
}

// arcPoints samples n+1 points on a circular arc from a0 to a1 (radians).
func arcPoints(center geom.Pt, r, a0, a1 float64, n int) []geom.Pt {
	pts := make([]geom.Pt, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, center.Polar(a0+(a1-a0)*float64(i)/float64(n), r))
	}
	return pts
}

// downscale resizes a supersampled frame to w×h with Catmull-Rom filtering.
func downscale(src *image.RGBA, w, h int) *image.RGBA {
	if src.Bounds().Dx() == w && src.Bounds().Dy() == h {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

func rgba(r, g, b, a uint8) color.NRGBA { return color.NRGBA{R: r, G: g, B: b, A: a} }
