// Package buffer builds clearance polygons for stations and line segments.
//
// A [Buffer] is the area an element needs on the map: a station's signature
// grown by the node margin, or a square-capped band around a segment whose
// width is the edge's route widths plus an edge margin on both sides. Two
// elements are in conflict when their buffers share interior points.
//
// Buffers are snapshots. [BuildAll] builds a fresh set for the current
// positions; after any graph mutation the set is stale and must be rebuilt.
package buffer

import (
	"fmt"

	"github.com/matzehuels/octomap/pkg/geom"
	"github.com/matzehuels/octomap/pkg/network"
)

// Margins are the clearances added around drawn elements.
type Margins struct {
	Route float64 `json:"route" toml:"route"` // Gap between parallel routes on one edge
	Edge  float64 `json:"edge" toml:"edge"`   // Clearance on each side of a route bundle
	Node  float64 `json:"node" toml:"node"`   // Clearance around a station signature
}

// Kind tells which element a buffer wraps.
type Kind int

const (
	KindNode Kind = iota
	KindEdge
)

func (k Kind) String() string {
	if k == KindEdge {
		return "edge"
	}
	return "node"
}

// Buffer is the clearance polygon of one node or one edge. Exactly one of
// Node and Edge is set, matching Kind.
type Buffer struct {
	Kind    Kind
	Node    *network.Node
	Edge    *network.Edge
	Polygon geom.Polygon
}

// ForNode returns the buffer of n: its signature grown by m.Node.
func ForNode(n *network.Node, m Margins) Buffer {
	return Buffer{
		Kind:    KindNode,
		Node:    n,
		Polygon: geom.Grow(n.Signature(m.Route), m.Node),
	}
}

// ForEdge returns the buffer of e: a square-capped band of width
// Σ route widths + 2·m.Edge centered on the segment.
func ForEdge(e *network.Edge, m Margins) Buffer {
	return Buffer{
		Kind:    KindEdge,
		Edge:    e,
		Polygon: geom.Buffer(e.Segment(), Width(e, m)/2),
	}
}

// Width returns the full buffer width of e under m.
func Width(e *network.Edge, m Margins) float64 {
	return e.Width() + 2*m.Edge
}

// BuildAll returns one buffer per node followed by one per edge, each in
// graph insertion order.
func BuildAll(g *network.Graph, m Margins) []Buffer {
	nodes, edges := g.Nodes(), g.Edges()
	out := make([]Buffer, 0, len(nodes)+len(edges))
	for _, n := range nodes {
		out = append(out, ForNode(n, m))
	}
	for _, e := range edges {
		out = append(out, ForEdge(e, m))
	}
	return out
}

// Key identifies the wrapped element, e.g. "n3" or "e7".
func (b Buffer) Key() string {
	switch {
	case b.Kind == KindEdge && b.Edge != nil:
		return fmt.Sprintf("e%d", b.Edge.ID)
	case b.Kind == KindNode && b.Node != nil:
		return fmt.Sprintf("n%d", b.Node.ID)
	}
	return ""
}

// Name returns the element's display name.
func (b Buffer) Name() string {
	if b.Kind == KindEdge {
		return b.Edge.Name()
	}
	return b.Node.Name
}

// Centroid returns the element's reference point: the node position or the
// segment midpoint.
func (b Buffer) Centroid() geom.Point {
	if b.Kind == KindEdge {
		return b.Edge.Segment().Midpoint()
	}
	return b.Node.Position()
}

// Nodes returns the nodes the element consists of: the node itself, or both
// endpoints of the edge.
func (b Buffer) Nodes() []*network.Node {
	if b.Kind == KindEdge {
		return []*network.Node{b.Edge.From(), b.Edge.To()}
	}
	return []*network.Node{b.Node}
}

// Same reports whether a and b wrap the same element.
func Same(a, b Buffer) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == KindEdge {
		return a.Edge == b.Edge
	}
	return a.Node == b.Node
}

// Adjacent reports whether two elements touch in the graph: two nodes
// joined by an edge, a node and an edge ending at it, or two edges sharing
// an endpoint.
func Adjacent(g *network.Graph, a, b Buffer) bool {
	switch {
	case a.Kind == KindNode && b.Kind == KindNode:
		return g.Adjacent(a.Node, b.Node)
	case a.Kind == KindNode:
		return b.Edge.Has(a.Node)
	case b.Kind == KindNode:
		return a.Edge.Has(b.Node)
	}
	return a.Edge.Has(b.Edge.From()) || a.Edge.Has(b.Edge.To())
}
