/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package viewport implements the infinite render board: a pan/zoom
// transform over world-space cards plus a pointer state machine that either
// pans the world or drags a single card.
package viewport

import (
	"roomviz/internal/geom"
)

const (
	MinScale           = 0.2
	MaxScale           = 3.0
	ZoomStep           = 0.2
	DefaultSensitivity = 0.001
)

// Transform maps world space to screen space: screen = world·Scale + Pan.
type Transform struct {
	PanX  float64 `yaml:"pan_x" json:"pan_x"`
	PanY  float64 `yaml:"pan_y" json:"pan_y"`
	Scale float64 `yaml:"scale" json:"scale"`
}

// DefaultTransform is the identity view.
func DefaultTransform() Transform { return Transform{Scale: 1} }

func (t Transform) Pan() geom.Pt { return geom.P(t.PanX, t.PanY) }

// WithPan returns t with its pan replaced.
func (t Transform) WithPan(p geom.Pt) Transform {
	t.PanX, t.PanY = p.X, p.Y
	return t
}

// WithScale returns t with scale s clamped to [MinScale, MaxScale].
func (t Transform) WithScale(s float64) Transform {
	t.Scale = ClampScale(s)
	return t
}

// Clamped returns t with its scale forced into range.
func (t Transform) Clamped() Transform { return t.WithScale(t.Scale) }

// WorldFromScreen is (s − pan) / scale.
func (t Transform) WorldFromScreen(s geom.Pt) geom.Pt {
	return s.Sub(t.Pan()).Div(t.Scale)
}

// ScreenFromWorld is w·scale + pan.
func (t Transform) ScreenFromWorld(w geom.Pt) geom.Pt {
	return w.Mul(t.Scale).Add(t.Pan())
}

// ScreenRect returns the on-screen rectangle of a world rectangle.
func (t Transform) ScreenRect(r geom.Rect) geom.Rect {
	min := t.ScreenFromWorld(r.Min())
	return geom.R(min.X, min.Y, r.W*t.Scale, r.H*t.Scale)
}

// Affine returns the world→screen matrix for renderers.
func (t Transform) Affine() geom.Affine {
	return geom.Translate(t.PanX, t.PanY).Mul(geom.Scale(t.Scale, t.Scale))
}

// ClampScale limits s to [MinScale, MaxScale].
func ClampScale(s float64) float64 { return geom.Clamp(s, MinScale, MaxScale) }

// Card is a render placed on the board.
type Card struct {
	ID    string
	Pos   geom.Pt
	Size  geom.Size
	Image string
	Title string
}

// Bounds is the card rectangle in world units.
func (c Card) Bounds() geom.Rect { return geom.RectAt(c.Pos, c.Size) }

// Host owns the card collection, the selection and the persisted transform.
// The viewport never mutates cards directly.
type Host interface {
	// Cards returns the cards in paint order (last is top-most).
	Cards() []Card
	SelectedID() string
	// MoveCard writes a new world position and reports whether the card still exists.
	MoveCard(id string, pos geom.Pt) bool
	Select(id string)
	TransformChanged(Transform)
}
