package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Intersection returns subject ∩ clip. The clip polygon must be convex; the
// subject may be any simple polygon. A nil result means the interiors do not
// overlap (including boundary-only contact and slivers under AreaEps).
func Intersection(subject, clip Polygon) Polygon {
	if len(subject) < 3 || len(clip) < 3 {
		return nil
	}
	out := subject.CCW()
	clip = clip.CCW()
	for i := range clip {
		a, b := clip[i], clip[(i+1)%len(clip)]
		normal := Point{X: -(b.Y - a.Y), Y: b.X - a.X} // inward for CCW rings
		out = clipHalfPlane(out, a, normal)
		if len(out) < 3 {
			return nil
		}
	}
	out = out.Snap()
	if out.Empty() {
		return nil
	}
	return out
}

// InteriorsIntersect reports whether a and b share interior points, the
// DE-9IM pattern T********. Touching boundaries do not count.
func InteriorsIntersect(a, b Polygon) bool {
	return Intersection(a, b) != nil
}

// Split cuts p along the line through origin perpendicular to normal and
// returns the part behind the line and the part in front of it (the side
// normal points to). Either part may be nil.
func Split(p Polygon, origin, normal Point) (behind, front Polygon) {
	front = clipHalfPlane(p.CCW(), origin, normal).Snap()
	behind = clipHalfPlane(p.CCW(), origin, r2.Scale(-1, normal)).Snap()
	if front.Empty() {
		front = nil
	}
	if behind.Empty() {
		behind = nil
	}
	return behind, front
}

// clipHalfPlane keeps the part of p where dot(x-a, normal) >= 0.
func clipHalfPlane(p Polygon, a, normal Point) Polygon {
	n := r2.Unit(normal)
	dist := func(x Point) float64 { return r2.Dot(r2.Sub(x, a), n) }
	var out Polygon
	for i := range p {
		cur, next := p[i], p[(i+1)%len(p)]
		dc, dn := dist(cur), dist(next)
		curIn, nextIn := dc >= -Eps, dn >= -Eps
		if curIn {
			out = append(out, cur)
		}
		if curIn != nextIn && math.Abs(dc-dn) > 0 {
			t := dc / (dc - dn)
			out = append(out, r2.Add(cur, r2.Scale(t, r2.Sub(next, cur))))
		}
	}
	return out
}

// ClipLine clips the infinite line p+t·d against the convex polygon poly
// (Cyrus-Beck). It returns the parameter interval [t0, t1] of the part inside
// the polygon; ok is false when the line misses it.
func ClipLine(poly Polygon, p, d Point) (t0, t1 float64, ok bool) {
	poly = poly.CCW()
	t0, t1 = math.Inf(-1), math.Inf(1)
	for i := range poly {
		a, b := poly[i], poly[(i+1)%len(poly)]
		e := r2.Sub(b, a)
		if r2.Norm(e) < Eps {
			continue
		}
		out := r2.Unit(Point{X: e.Y, Y: -e.X})
		num := r2.Dot(out, r2.Sub(p, a))
		den := r2.Dot(out, d)
		if math.Abs(den) < 1e-12 {
			if num > Eps {
				return 0, 0, false
			}
			continue
		}
		t := -num / den
		if den < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
	}
	if math.IsInf(t0, 0) || math.IsInf(t1, 0) || t0 > t1+Eps {
		return 0, 0, false
	}
	return t0, t1, true
}

// LongestParallelChord returns the longest chord of the convex polygon poly
// that is parallel to dir and passes through one of its vertices. A line is
// cast through every vertex and clipped to the polygon; the longest clipped
// piece wins, earlier vertices winning ties. ok is false for an empty polygon
// or a zero direction.
func LongestParallelChord(poly Polygon, dir Point) (chord Segment, ok bool) {
	if poly.Empty() || r2.Norm(dir) < Eps {
		return Segment{}, false
	}
	u := r2.Unit(dir)
	best := -1.0
	for _, v := range poly {
		t0, t1, hit := ClipLine(poly, v, u)
		if !hit {
			continue
		}
		if l := t1 - t0; l > best+Eps {
			best = l
			chord = Segment{
				A: SnapPoint(r2.Add(v, r2.Scale(t0, u))),
				B: SnapPoint(r2.Add(v, r2.Scale(t1, u))),
			}
		}
	}
	return chord, best >= 0
}
