package network

import (
	"math"

	"github.com/matzehuels/octomap/pkg/geom"
)

// Signature computes the footprint polygon of a station. Implementations
// must center the polygon on the node's current position.
type Signature interface {
	Shape(n *Node, routeMargin float64) geom.Polygon
}

// DefaultSignature is the footprint used by graphs created without
// [WithSignature].
var DefaultSignature Signature = SquareSignature{MinSize: 1}

// SquareSignature draws stations as axis-aligned squares wide enough for
// the widest incident route bundle.
type SquareSignature struct {
	MinSize float64 // Side length of a station without edges
}

// Shape implements [Signature].
func (s SquareSignature) Shape(n *Node, routeMargin float64) geom.Polygon {
	half := stationSize(n, routeMargin, s.MinSize) / 2
	return geom.Rect(n.Position(), half, half)
}

// OctagonSignature draws stations as regular octagons whose flat sides are
// as far apart as the widest incident route bundle.
type OctagonSignature struct {
	MinSize float64
}

// Shape implements [Signature].
func (s OctagonSignature) Shape(n *Node, routeMargin float64) geom.Polygon {
	apothem := stationSize(n, routeMargin, s.MinSize) / 2
	r := apothem / math.Cos(math.Pi/8)
	return geom.Regular(n.Position(), r, 8, math.Pi/8)
}

func stationSize(n *Node, routeMargin, minSize float64) float64 {
	size := minSize
	for _, e := range n.edges {
		size = math.Max(size, e.BundleWidth(routeMargin))
	}
	return size
}
