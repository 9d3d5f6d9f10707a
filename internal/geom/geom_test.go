/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package geom

import (
	"math"
	"testing"
)

func TestAffineInvertRoundTrip(t *testing.T) {
	m := Translate(120, -40).Mul(Scale(1.7, 1.7))
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("expected invertible")
	}
	for _, p := range []Pt{{0, 0}, {12.5, -3}, {-800, 640}, {1e4, 1e-3}} {
		got := m.Apply(inv.Apply(p))
		if !got.Near(p, 1e-9) {
			t.Fatalf("round trip %v -> %v", p, got)
		}
	}
}

func TestAffineSingular(t *testing.T) {
	if _, ok := Scale(0, 1).Invert(); ok {
		t.Fatal("zero scale must not invert")
	}
}

func TestMulAppliesRightFirst(t *testing.T) {
	m := Translate(10, 0).Mul(Scale(2, 2))
	if got := m.Apply(P(1, 1)); got != P(12, 2) {
		t.Fatalf("got %v", got)
	}
}

func TestRectContainsAndUnion(t *testing.T) {
	r := R(0, 0, 10, 5)
	if !r.Contains(P(10, 5)) || r.Contains(P(10.01, 0)) {
		t.Fatal("contains edges wrong")
	}
	u := r.Union(R(-5, 2, 1, 10))
	if u != R(-5, 0, 15, 12) {
		t.Fatalf("union = %+v", u)
	}
	if c := RectAt(P(2, 2), Size{4, 2}).Center(); c != P(4, 3) {
		t.Fatalf("center = %v", c)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 1) != 1 || Clamp(-5, 0, 1) != 0 || Clamp(0.5, 0, 1) != 0.5 {
		t.Fatal("clamp bounds")
	}
	if Clamp(math.NaN(), 10, 170) != 10 {
		t.Fatal("NaN should clamp to lo")
	}
}

func TestNormalizeAngle(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{math.Inf(1), 0},
	}
	for _, c := range cases {
		if got := NormalizeAngle(c.in); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestAngleDegenerateIsZero(t *testing.T) {
	p := P(500, 312.5)
	if a := p.Angle(p); a != 0 {
		t.Fatalf("angle of coincident points = %v", a)
	}
	if d := p.Dist(p); d != 0 {
		t.Fatalf("dist = %v", d)
	}
}

func TestPolar(t *testing.T) {
	got := P(1, 1).Polar(math.Pi/2, 3)
	if !got.Near(P(1, 4), 1e-12) {
		t.Fatalf("polar = %v", got)
	}
	if math.Abs(Deg(Rad(37))-37) > 1e-12 {
		t.Fatal("deg/rad round trip")
	}
}
