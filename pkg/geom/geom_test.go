package geom

import (
	"math"
	"testing"
)

func TestPointArithmetic(t *testing.T) {
	p := Pt(3, 4)
	q := Pt(1, -2)

	if got := p.Add(q); got != Pt(4, 2) {
		t.Errorf("Add = %v, want (4,2)", got)
	}
	if got := p.Sub(q); got != Pt(2, 6) {
		t.Errorf("Sub = %v, want (2,6)", got)
	}
	if got := p.Mul(2); got != Pt(6, 8) {
		t.Errorf("Mul = %v, want (6,8)", got)
	}
}

func TestPointLengthAndDistance(t *testing.T) {
	p := Pt(3, 4)

	if got := p.Length(); got != 5 {
		t.Errorf("Length = %v, want 5", got)
	}
	if got := p.LengthSquared(); got != 25 {
		t.Errorf("LengthSquared = %v, want 25", got)
	}
	if got := Pt(0, 0).Distance(p); got != 5 {
		t.Errorf("Distance = %v, want 5", got)
	}
	if got := Pt(0, 0).DistanceSquared(p); got != 25 {
		t.Errorf("DistanceSquared = %v, want 25", got)
	}
}

func TestNormalize(t *testing.T) {
	n := Pt(0, -7).Normalize()
	if n != Pt(0, -1) {
		t.Errorf("Normalize = %v, want (0,-1)", n)
	}

	// The zero vector must normalize to the zero vector, not NaN.
	z := Pt(0, 0).Normalize()
	if !z.IsZero() {
		t.Errorf("Normalize(zero) = %v, want zero", z)
	}
	if math.IsNaN(z.X) || math.IsNaN(z.Y) {
		t.Error("Normalize(zero) produced NaN")
	}
}

func TestRectAround(t *testing.T) {
	r := RectAround(Pt(2, 3), 1.5)
	if r.Min != Pt(0.5, 1.5) || r.Max != Pt(3.5, 4.5) {
		t.Errorf("RectAround = %+v", r)
	}
	if got := r.Width(); got != 3 {
		t.Errorf("Width = %v, want 3", got)
	}
	if got := r.Height(); got != 3 {
		t.Errorf("Height = %v, want 3", got)
	}
	if got := r.Center(); got != Pt(2, 3) {
		t.Errorf("Center = %v, want (2,3)", got)
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{Min: Pt(0, 0), Max: Pt(2, 2)}
	b := Rect{Min: Pt(-1, 1), Max: Pt(1, 3)}

	u := a.Union(b)
	if u.Min != Pt(-1, 0) || u.Max != Pt(2, 3) {
		t.Errorf("Union = %+v", u)
	}

	// Union with itself is identity.
	if got := a.Union(a); got != a {
		t.Errorf("self Union = %+v, want %+v", got, a)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{Min: Pt(0, 0), Max: Pt(1, 1)}

	tests := []struct {
		p    Point
		want bool
	}{
		{Pt(0.5, 0.5), true},
		{Pt(0, 0), true},
		{Pt(1, 1), true},
		{Pt(1.001, 0.5), false},
		{Pt(0.5, -0.001), false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}
