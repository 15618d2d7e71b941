package conflict

import (
	"cmp"
	"math"

	"github.com/golang/geo/s1"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/octomap/pkg/buffer"
	oerrors "github.com/matzehuels/octomap/pkg/errors"
	"github.com/matzehuels/octomap/pkg/geom"
	"github.com/matzehuels/octomap/pkg/network"
)

// NewBufferConflict builds the conflict between two buffers of g. The
// result is solved (empty Polygon) when the interiors do not overlap or the
// overlap degenerates. The only error is two stations at the same position,
// which leaves no direction to separate them in.
func NewBufferConflict(g *network.Graph, a, b buffer.Buffer) (Conflict, error) {
	if order(a, b) > 0 {
		a, b = b, a
	}
	c := Conflict{Type: classify(g, a, b), A: a, B: b}

	poly := geom.Intersection(a.Polygon, b.Polygon)
	if poly == nil {
		return c, nil
	}

	q := r2.Sub(b.Centroid(), a.Centroid())
	if r2.Norm(q) < geom.Eps {
		if a.Kind == buffer.KindNode && b.Kind == buffer.KindNode {
			return c, oerrors.New(oerrors.ErrCodeCoincidentNodes,
				"stations %q and %q share position %v", a.Name(), b.Name(), a.Centroid())
		}
		q = geom.Pt(1, 0)
	}
	chord, ok := geom.LongestParallelChord(poly, q)
	if !ok {
		return c, nil
	}

	c.Polygon = poly
	c.Vector = canonical(chord.Vector())
	c.Axis = bestAxis(c.Vector)

	switch c.Type {
	case NodeEdge:
		c.Axis, c.Origin = nodeEdgeOrigin(a.Node, b.Edge, c.Vector)
	case EdgeEdge:
		origin, ok := edgeEdgeOrigin(a.Edge, b.Edge, poly)
		if !ok {
			c.Polygon = nil
			return c, nil
		}
		c.Origin = origin
	default:
		c.Origin = geom.SnapPoint(geom.Midpoint(a.Node.Position(), b.Node.Position()))
	}

	c.Distance = ceilDistance(math.Abs(c.Axis.Of(c.Vector)))
	return c, nil
}

// NewOctilinear builds the octilinear conflict of e. The nudge is
// |dx-dy|·factor along the axis with the smaller delta, so that applying it
// to the far endpoint turns e diagonal. tol is the deviation under which the
// conflict counts as solved; zero means strictly octilinear.
func NewOctilinear(e *network.Edge, m buffer.Margins, factor float64, tol s1.Angle) Conflict {
	a, b := buffer.ForNode(e.From(), m), buffer.ForNode(e.To(), m)
	if order(a, b) > 0 {
		a, b = b, a
	}
	d := e.Direction()
	dx, dy := math.Abs(d.DX), math.Abs(d.DY)
	diff := geom.Snap(math.Abs(dx-dy) * factor)

	c := Conflict{
		Type:      Octilinear,
		A:         a,
		B:         b,
		Edge:      e,
		Distance:  diff,
		Origin:    geom.SnapPoint(e.Segment().Midpoint()),
		tolerance: tol,
	}
	if dx > dy {
		c.Axis, c.Vector = AxisY, geom.Pt(0, diff)
	} else {
		c.Axis, c.Vector = AxisX, geom.Pt(diff, 0)
	}
	return c
}

func classify(g *network.Graph, a, b buffer.Buffer) Type {
	switch {
	case a.Kind == buffer.KindEdge && b.Kind == buffer.KindEdge:
		return EdgeEdge
	case a.Kind != b.Kind:
		return NodeEdge
	}
	e := g.EdgeBetween(a.Node, b.Node)
	if e == nil {
		return NodeNode
	}
	if e.Direction().Nearest().Diagonal() {
		return AdjacentNodeNodeDiagonal
	}
	return AdjacentNodeNode
}

// nodeEdgeOrigin picks the axis for a station overlapping a segment and the
// origin halfway between the station and the closest point of the segment.
// A station strictly beyond the segment on one axis only moves along that
// axis; otherwise it moves along the axis on which it is closer to both
// endpoints.
func nodeEdgeOrigin(n *network.Node, e *network.Edge, v geom.Point) (Axis, geom.Point) {
	p := n.Position()
	s := e.Segment()
	env := geom.Envelope(s.A, s.B)

	ns := p.Y > env.Max.Y+geom.Eps || p.Y < env.Min.Y-geom.Eps
	ew := p.X > env.Max.X+geom.Eps || p.X < env.Min.X-geom.Eps

	var axis Axis
	switch {
	case ns && !ew:
		axis = AxisY
	case ew && !ns:
		axis = AxisX
	default:
		mdx := math.Max(math.Abs(p.X-s.A.X), math.Abs(p.X-s.B.X))
		mdy := math.Max(math.Abs(p.Y-s.A.Y), math.Abs(p.Y-s.B.Y))
		axis = AxisX
		if mdy < mdx {
			axis = AxisY
		}
	}
	if math.Abs(axis.Of(v)) < geom.Eps {
		axis = bestAxis(v)
	}
	return axis, geom.SnapPoint(geom.Midpoint(p, s.NearestPoint(p)))
}

// edgeEdgeOrigin returns the centroid of the part of the overlap inside the
// quadrilateral spanned by both segments. When the segments are collinear
// the quadrilateral degenerates and the line through both midpoints is used
// instead.
func edgeEdgeOrigin(e, f *network.Edge, overlap geom.Polygon) (geom.Point, bool) {
	s, t := e.Segment(), f.Segment()
	if quad, ok := geom.Quad(s, t); ok {
		part := geom.Intersection(quad, overlap)
		if part == nil {
			return geom.Point{}, false
		}
		return geom.SnapPoint(part.Centroid()), true
	}

	m, n := s.Midpoint(), t.Midpoint()
	dir := r2.Sub(n, m)
	if r2.Norm(dir) < geom.Eps {
		dir = s.Vector()
	}
	t0, t1, ok := geom.ClipLine(overlap, m, dir)
	if !ok || t1-t0 < geom.Eps {
		return geom.Point{}, false
	}
	mid := r2.Add(m, r2.Scale((t0+t1)/2, dir))
	return geom.SnapPoint(mid), true
}

// bestAxis returns the axis of the larger projection, X on ties.
func bestAxis(v geom.Point) Axis {
	if math.Abs(v.Y) > math.Abs(v.X)+geom.Eps {
		return AxisY
	}
	return AxisX
}

// canonical orients v so that X is positive, or Y when X is zero. Both
// orders of a pair then produce the same vector.
func canonical(v geom.Point) geom.Point {
	v = geom.SnapPoint(v)
	if v.X < 0 || (v.X == 0 && v.Y < 0) {
		v = geom.Pt(-v.X, -v.Y)
	}
	return geom.SnapPoint(v) // normalizes -0
}

// ceilDistance rounds a projection up to a whole map unit, ignoring snapping
// noise just above an integer. Any real overlap needs at least one unit.
func ceilDistance(p float64) float64 {
	return math.Max(1, math.Ceil(p-geom.Eps))
}

// order sorts nodes before edges, then by element ID.
func order(a, b buffer.Buffer) int {
	if a.Kind != b.Kind {
		return cmp.Compare(a.Kind, b.Kind)
	}
	if a.Kind == buffer.KindEdge {
		return cmp.Compare(a.Edge.ID, b.Edge.ID)
	}
	return cmp.Compare(a.Node.ID, b.Node.ID)
}
