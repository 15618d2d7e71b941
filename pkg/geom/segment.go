package geom

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Segment is a straight line piece between two points.
type Segment struct {
	A, B Point
}

// Seg is shorthand for Segment{A: a, B: b}.
func Seg(a, b Point) Segment { return Segment{A: a, B: b} }

// Vector returns B-A.
func (s Segment) Vector() Point { return r2.Sub(s.B, s.A) }

// Length returns the euclidean length of s.
func (s Segment) Length() float64 { return r2.Norm(s.Vector()) }

// Midpoint returns the centroid of s.
func (s Segment) Midpoint() Point { return Midpoint(s.A, s.B) }

// Degenerate reports whether both endpoints coincide.
func (s Segment) Degenerate() bool { return Equal(s.A, s.B) }

// NearestPoint returns the point of s closest to p.
func (s Segment) NearestPoint(p Point) Point {
	d := s.Vector()
	l2 := r2.Norm2(d)
	if l2 < Eps*Eps {
		return s.A
	}
	t := r2.Dot(r2.Sub(p, s.A), d) / l2
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	return r2.Add(s.A, r2.Scale(t, d))
}

// DistanceTo returns the distance from p to the closest point of s.
func (s Segment) DistanceTo(p Point) float64 {
	return Distance(p, s.NearestPoint(p))
}

// Crosses reports whether s and o share a point that is interior to at least
// one of them. Segments that only meet at a common endpoint do not cross.
func (s Segment) Crosses(o Segment) bool {
	d1 := orient(s.A, s.B, o.A)
	d2 := orient(s.A, s.B, o.B)
	d3 := orient(o.A, o.B, s.A)
	d4 := orient(o.A, o.B, s.B)
	if d1*d2 < 0 && d3*d4 < 0 {
		return true
	}
	return (d1 == 0 && s.interior(o.A)) ||
		(d2 == 0 && s.interior(o.B)) ||
		(d3 == 0 && o.interior(s.A)) ||
		(d4 == 0 && o.interior(s.B))
}

// interior reports whether p lies on s, away from both endpoints.
func (s Segment) interior(p Point) bool {
	d := s.Vector()
	l := r2.Norm(d)
	if l < Eps {
		return false
	}
	if s.DistanceTo(p) > Eps {
		return false
	}
	t := r2.Dot(r2.Sub(p, s.A), d) / l
	return t > Eps && t < l-Eps
}

// Buffer returns the rectangle covering every point within half of s,
// measured perpendicular to s, extended by half past both endpoints (square
// cap). A degenerate segment yields a square centered on its endpoint.
func Buffer(s Segment, half float64) Polygon {
	if s.Degenerate() {
		return Rect(s.A, half, half)
	}
	u := r2.Unit(s.Vector())
	n := Point{X: -u.Y, Y: u.X}
	a := r2.Sub(s.A, r2.Scale(half, u))
	b := r2.Add(s.B, r2.Scale(half, u))
	off := r2.Scale(half, n)
	return Polygon{
		r2.Sub(a, off),
		r2.Sub(b, off),
		r2.Add(b, off),
		r2.Add(a, off),
	}.Snap()
}
