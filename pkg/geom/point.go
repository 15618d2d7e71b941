package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// Grid is the resolution every constructed coordinate is snapped to.
	Grid = 1e-4
	// Eps is the distance under which two coordinates are considered equal.
	Eps = Grid / 2
	// AreaEps is the area under which a polygon is considered degenerate.
	AreaEps = 1e-6

	gridScale = 1 / Grid
)

// Point is a position or a displacement in the plane.
type Point = r2.Vec

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Snap rounds v to the nearest multiple of Grid.
func Snap(v float64) float64 {
	s := math.Round(v*gridScale) / gridScale
	if s == 0 {
		return 0 // drop negative zero
	}
	return s
}

// SnapPoint snaps both coordinates of p.
func SnapPoint(p Point) Point {
	return Point{X: Snap(p.X), Y: Snap(p.Y)}
}

// Equal reports whether a and b coincide within Eps on both axes.
func Equal(a, b Point) bool {
	return math.Abs(a.X-b.X) <= Eps && math.Abs(a.Y-b.Y) <= Eps
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return r2.Scale(0.5, r2.Add(a, b))
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// Side classifies p against the line through origin with the given normal:
// +1 when p lies strictly on the side the normal points to, -1 when strictly
// on the other side, 0 when within Eps of the line.
func Side(p, origin, normal Point) int {
	n := r2.Unit(normal)
	d := r2.Dot(r2.Sub(p, origin), n)
	switch {
	case d > Eps:
		return 1
	case d < -Eps:
		return -1
	}
	return 0
}

// Envelope returns the axis-aligned bounding box of pts.
// The zero Box is returned for an empty slice.
func Envelope(pts ...Point) r2.Box {
	if len(pts) == 0 {
		return r2.Box{}
	}
	b := r2.Box{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}

// orient returns the turn direction of c relative to the directed line a→b:
// +1 left, -1 right, 0 collinear within Eps.
func orient(a, b, c Point) int {
	ab := r2.Sub(b, a)
	l := r2.Norm(ab)
	if l < Eps {
		return 0
	}
	d := r2.Cross(ab, r2.Sub(c, a)) / l
	switch {
	case d > Eps:
		return 1
	case d < -Eps:
		return -1
	}
	return 0
}

// lineIntersection returns the intersection of the infinite lines p+t·r and
// q+u·s. ok is false when the lines are parallel.
func lineIntersection(p, r, q, s Point) (Point, bool) {
	den := r2.Cross(r, s)
	if math.Abs(den) < 1e-12 {
		return Point{}, false
	}
	t := r2.Cross(r2.Sub(q, p), s) / den
	return r2.Add(p, r2.Scale(t, r)), true
}
