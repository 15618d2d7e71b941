package geom

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// Polygon is a simple polygon stored as an open ring: the closing vertex is
// not repeated. Constructors in this package return counter-clockwise rings.
type Polygon []Point

// Rect returns the axis-aligned rectangle centered on c.
func Rect(c Point, halfW, halfH float64) Polygon {
	return Polygon{
		{X: c.X - halfW, Y: c.Y - halfH},
		{X: c.X + halfW, Y: c.Y - halfH},
		{X: c.X + halfW, Y: c.Y + halfH},
		{X: c.X - halfW, Y: c.Y + halfH},
	}.Snap()
}

// Regular returns a regular n-gon centered on c whose vertices lie on a
// circle of radius r. The first vertex sits at angle rot (radians).
func Regular(c Point, r float64, n int, rot float64) Polygon {
	p := make(Polygon, n)
	for i := range p {
		a := rot + 2*math.Pi*float64(i)/float64(n)
		p[i] = Point{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
	}
	return p.Snap()
}

// SignedArea returns the shoelace area, positive for counter-clockwise rings.
func (p Polygon) SignedArea() float64 {
	var a float64
	for i := range p {
		j := (i + 1) % len(p)
		a += r2.Cross(p[i], p[j])
	}
	return a / 2
}

// Area returns the absolute area of p.
func (p Polygon) Area() float64 { return math.Abs(p.SignedArea()) }

// Empty reports whether p has no interior worth considering.
func (p Polygon) Empty() bool {
	return len(p) < 3 || p.Area() <= AreaEps
}

// CCW returns p with counter-clockwise orientation.
func (p Polygon) CCW() Polygon {
	if p.SignedArea() >= 0 {
		return p
	}
	q := slices.Clone(p)
	slices.Reverse(q)
	return q
}

// Centroid returns the area centroid of p. Degenerate polygons fall back to
// the mean of their vertices.
func (p Polygon) Centroid() Point {
	if len(p) == 0 {
		return Point{}
	}
	a := p.SignedArea()
	if math.Abs(a) <= AreaEps {
		var c Point
		for _, v := range p {
			c = r2.Add(c, v)
		}
		return r2.Scale(1/float64(len(p)), c)
	}
	var cx, cy float64
	for i := range p {
		j := (i + 1) % len(p)
		f := r2.Cross(p[i], p[j])
		cx += (p[i].X + p[j].X) * f
		cy += (p[i].Y + p[j].Y) * f
	}
	return Point{X: cx / (6 * a), Y: cy / (6 * a)}
}

// Envelope returns the bounding box of p.
func (p Polygon) Envelope() r2.Box { return Envelope(p...) }

// Edges returns the sides of p in ring order.
func (p Polygon) Edges() []Segment {
	if len(p) < 2 {
		return nil
	}
	out := make([]Segment, len(p))
	for i := range p {
		out[i] = Segment{A: p[i], B: p[(i+1)%len(p)]}
	}
	return out
}

// Translate returns p shifted by v.
func (p Polygon) Translate(v Point) Polygon {
	q := make(Polygon, len(p))
	for i, pt := range p {
		q[i] = r2.Add(pt, v)
	}
	return q.Snap()
}

// Snap snaps every vertex to the grid and drops repeated vertices.
func (p Polygon) Snap() Polygon {
	q := make(Polygon, 0, len(p))
	for _, v := range p {
		v = SnapPoint(v)
		if len(q) > 0 && Equal(q[len(q)-1], v) {
			continue
		}
		q = append(q, v)
	}
	for len(q) > 1 && Equal(q[0], q[len(q)-1]) {
		q = q[:len(q)-1]
	}
	return q
}

// Contains reports whether pt lies inside p or on its boundary.
func (p Polygon) Contains(pt Point) bool {
	for _, e := range p.Edges() {
		if e.DistanceTo(pt) <= Eps {
			return true
		}
	}
	in := false
	for i, j := 0, len(p)-1; i < len(p); j, i = i, i+1 {
		a, b := p[i], p[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) &&
			pt.X < (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

// Simple reports whether no two non-adjacent sides of p touch.
func (p Polygon) Simple() bool {
	edges := p.Edges()
	n := len(edges)
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			if edges[i].Crosses(edges[j]) || touches(edges[i], edges[j]) {
				return false
			}
		}
	}
	return true
}

func touches(s, o Segment) bool {
	return Equal(s.A, o.A) || Equal(s.A, o.B) || Equal(s.B, o.A) || Equal(s.B, o.B)
}

// Grow returns the convex polygon p offset outward by d with mitre joins.
func Grow(p Polygon, d float64) Polygon {
	if d == 0 {
		return slices.Clone(p)
	}
	if p.Empty() {
		return Rect(p.Centroid(), d, d)
	}
	p = p.CCW()
	n := len(p)
	type line struct{ p, r Point }
	lines := make([]line, n)
	for i := range p {
		e := r2.Sub(p[(i+1)%n], p[i])
		out := r2.Unit(Point{X: e.Y, Y: -e.X})
		lines[i] = line{p: r2.Add(p[i], r2.Scale(d, out)), r: e}
	}
	q := make(Polygon, n)
	for i := range p {
		prev := lines[(i+n-1)%n]
		cur := lines[i]
		pt, ok := lineIntersection(prev.p, prev.r, cur.p, cur.r)
		if !ok {
			pt = cur.p
		}
		q[i] = pt
	}
	return q.Snap()
}

// Quad returns the quadrilateral spanned by two segments. Two vertex orders
// are tried: a1,a2,b2,b1 (the segments as opposite sides) and a1,b1,a2,b2
// (the segments as diagonals, which is what crossing segments need). ok is
// false when neither yields a simple polygon with positive area, for example
// when all four points are collinear.
func Quad(s, o Segment) (q Polygon, ok bool) {
	for _, cand := range []Polygon{
		{s.A, s.B, o.B, o.A},
		{s.A, o.A, s.B, o.B},
	} {
		cand = cand.Snap()
		if len(cand) == 4 && !cand.Empty() && cand.Simple() {
			return cand.CCW(), true
		}
	}
	return nil, false
}
