package network

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/octomap/pkg/geom"
)

var (
	// ErrInvalidNodeName is returned by [Graph.AddNode] when the name is empty.
	ErrInvalidNodeName = errors.New("node name must not be empty")

	// ErrDuplicateNode is returned by [Graph.AddNode] when a node with the
	// same name already exists.
	ErrDuplicateNode = errors.New("duplicate node name")

	// ErrUnknownNode is returned by [Graph.AddEdge] when an endpoint does not
	// exist in the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrSelfLoop is returned by [Graph.AddEdge] when both endpoints are the
	// same node. A segment needs two distinct stations.
	ErrSelfLoop = errors.New("edge endpoints must differ")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when the two nodes are
	// already connected. Parallel lines share one edge with several routes.
	ErrDuplicateEdge = errors.New("nodes are already connected")

	// ErrInvalidPosition is returned when a coordinate is NaN or infinite.
	ErrInvalidPosition = errors.New("position must be finite")

	// ErrForeignEdge is returned by [Graph.SplitEdge] and [Graph.Validate]
	// when an edge or its endpoints do not belong to the graph.
	ErrForeignEdge = errors.New("edge does not belong to graph")

	// ErrOccupied is returned by [Graph.SplitEdge] when a bend point lands
	// on an existing node.
	ErrOccupied = errors.New("position already occupied by a node")
)

// Route is one line drawn along a sequence of edges. Routes are values:
// changing a route means replacing it on every edge that carries it.
type Route struct {
	Name  string  // Line name, e.g. "U2"
	Width float64 // Stroke width in map units
	Color string  // CSS color used by renderers
}

// NodeKind distinguishes stations from nodes created during repair.
type NodeKind int

const (
	// NodeKindStation is a node from the input graph.
	NodeKindStation NodeKind = iota
	// NodeKindBend is a synthetic node inserted to make an edge octilinear.
	NodeKindBend
)

func (k NodeKind) String() string {
	if k == NodeKindBend {
		return "bend"
	}
	return "station"
}

// Node is a station (or bend) in the schematic.
//
// The zero value is not usable; nodes are created by [Graph.AddNode].
type Node struct {
	ID   int64
	Name string
	Kind NodeKind

	pos   geom.Point
	edges []*Edge
	g     *Graph
}

// Position returns the node's current position.
func (n *Node) Position() geom.Point { return n.pos }

// Edges returns the incident edges in insertion order.
func (n *Node) Edges() []*Edge { return slices.Clone(n.edges) }

// Degree returns the number of incident edges.
func (n *Node) Degree() int { return len(n.edges) }

// Neighbors returns the nodes at the other end of each incident edge.
func (n *Node) Neighbors() []*Node {
	out := make([]*Node, len(n.edges))
	for i, e := range n.edges {
		out[i] = e.Other(n)
	}
	return out
}

// IsBend reports whether the node was inserted by edge splitting.
func (n *Node) IsBend() bool { return n.Kind == NodeKindBend }

// Signature returns the node's visual footprint under the graph's
// [Signature], centered on the current position.
func (n *Node) Signature(routeMargin float64) geom.Polygon {
	return n.g.sig.Shape(n, routeMargin)
}

func (n *Node) String() string { return n.Name }

// Edge is a straight line segment between two nodes carrying one or more
// routes. Edges are undirected; From and To only record insertion order.
type Edge struct {
	ID int64

	from, to *Node
	routes   []Route
}

// From returns the first endpoint.
func (e *Edge) From() *Node { return e.from }

// To returns the second endpoint.
func (e *Edge) To() *Node { return e.to }

// Routes returns the routes drawn along the edge.
func (e *Edge) Routes() []Route { return slices.Clone(e.routes) }

// Name returns "from-to" using node names.
func (e *Edge) Name() string { return e.from.Name + "-" + e.to.Name }

func (e *Edge) String() string { return e.Name() }

// Has reports whether n is an endpoint of e.
func (e *Edge) Has(n *Node) bool { return e.from == n || e.to == n }

// Other returns the endpoint of e that is not n.
func (e *Edge) Other(n *Node) *Node {
	if e.from == n {
		return e.to
	}
	return e.from
}

// Width returns the summed stroke width of all routes.
func (e *Edge) Width() float64 {
	var w float64
	for _, r := range e.routes {
		w += r.Width
	}
	return w
}

// BundleWidth returns the width of the route bundle drawn side by side with
// routeMargin between neighbouring routes.
func (e *Edge) BundleWidth(routeMargin float64) float64 {
	if len(e.routes) == 0 {
		return 0
	}
	return e.Width() + float64(len(e.routes)-1)*routeMargin
}

// Segment returns the straight segment between the current endpoint
// positions.
func (e *Edge) Segment() geom.Segment {
	return geom.Segment{A: e.from.pos, B: e.to.pos}
}

// Direction returns the direction from From to To.
func (e *Edge) Direction() Direction {
	return DirectionOf(e.from.pos, e.to.pos)
}

// DirectionFrom returns the direction leaving n along e.
func (e *Edge) DirectionFrom(n *Node) Direction {
	return DirectionOf(n.pos, e.Other(n).pos)
}

// Graph is an undirected schematic network.
//
// The zero value is not usable; use [New].
type Graph struct {
	nodes    []*Node
	byName   map[string]*Node
	byID     map[int64]*Node
	edges    []*Edge
	nextNode int64
	nextEdge int64
	sig      Signature
}

// Option configures a Graph.
type Option func(*Graph)

// WithSignature sets the station footprint used for node buffers.
func WithSignature(s Signature) Option {
	return func(g *Graph) { g.sig = s }
}

// New creates an empty graph. Without options nodes use
// [DefaultSignature].
func New(opts ...Option) *Graph {
	g := &Graph{
		byName: make(map[string]*Node),
		byID:   make(map[int64]*Node),
		sig:    DefaultSignature,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Signature returns the graph's station footprint.
func (g *Graph) Signature() Signature { return g.sig }

// SetSignature replaces the station footprint.
func (g *Graph) SetSignature(s Signature) { g.sig = s }

// AddNode adds a station at pos. The position is snapped to the grid.
func (g *Graph) AddNode(name string, pos geom.Point) (*Node, error) {
	return g.addNode(name, pos, NodeKindStation)
}

// AddBend adds a synthetic bend node, as [Graph.SplitEdge] does. It is
// used when reloading a repaired map.
func (g *Graph) AddBend(name string, pos geom.Point) (*Node, error) {
	return g.addNode(name, pos, NodeKindBend)
}

func (g *Graph) addNode(name string, pos geom.Point, kind NodeKind) (*Node, error) {
	if name == "" {
		return nil, ErrInvalidNodeName
	}
	if _, ok := g.byName[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, name)
	}
	if !finite(pos) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPosition, name)
	}
	n := &Node{ID: g.nextNode, Name: name, Kind: kind, pos: geom.SnapPoint(pos), g: g}
	g.nextNode++
	g.nodes = append(g.nodes, n)
	g.byName[name] = n
	g.byID[n.ID] = n
	return n, nil
}

// AddEdge connects the nodes named from and to with the given routes.
func (g *Graph) AddEdge(from, to string, routes ...Route) (*Edge, error) {
	a, ok := g.byName[from]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, from)
	}
	b, ok := g.byName[to]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, to)
	}
	return g.connect(a, b, routes)
}

func (g *Graph) connect(a, b *Node, routes []Route) (*Edge, error) {
	if a == b {
		return nil, fmt.Errorf("%w: %s", ErrSelfLoop, a.Name)
	}
	if g.EdgeBetween(a, b) != nil {
		return nil, fmt.Errorf("%w: %s-%s", ErrDuplicateEdge, a.Name, b.Name)
	}
	e := &Edge{ID: g.nextEdge, from: a, to: b, routes: slices.Clone(routes)}
	g.nextEdge++
	g.edges = append(g.edges, e)
	a.edges = append(a.edges, e)
	b.edges = append(b.edges, e)
	return e, nil
}

// RemoveEdge detaches e from its endpoints and drops it from the graph.
// Removing an edge that is not in the graph is a no-op.
func (g *Graph) RemoveEdge(e *Edge) {
	i := slices.Index(g.edges, e)
	if i < 0 {
		return
	}
	g.edges = slices.Delete(g.edges, i, i+1)
	e.from.edges = slices.DeleteFunc(e.from.edges, func(x *Edge) bool { return x == e })
	e.to.edges = slices.DeleteFunc(e.to.edges, func(x *Edge) bool { return x == e })
}

// Node returns the node with the given name.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.byName[name]
	return n, ok
}

// NodeByID returns the node with the given ID.
func (g *Graph) NodeByID(id int64) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// HasEdge reports whether e belongs to g.
func (g *Graph) HasEdge(e *Edge) bool { return slices.Contains(g.edges, e) }

// EdgeBetween returns the edge joining a and b, or nil.
func (g *Graph) EdgeBetween(a, b *Node) *Edge {
	for _, e := range a.edges {
		if e.Other(a) == b {
			return e
		}
	}
	return nil
}

// Adjacent reports whether a and b are joined by an edge.
func (g *Graph) Adjacent(a, b *Node) bool { return g.EdgeBetween(a, b) != nil }

// MoveNode places n at pos, snapped to the grid.
func (g *Graph) MoveNode(n *Node, pos geom.Point) {
	n.pos = geom.SnapPoint(pos)
}

// Translate moves every node in nodes by v.
func (g *Graph) Translate(nodes []*Node, v geom.Point) {
	for _, n := range nodes {
		g.MoveNode(n, r2.Add(n.pos, v))
	}
}

// Scale multiplies every coordinate by f, scaling the map about the origin.
// Uniform scaling keeps octilinear edges octilinear.
func (g *Graph) Scale(f float64) {
	for _, n := range g.nodes {
		g.MoveNode(n, r2.Scale(f, n.pos))
	}
}

// Bounds returns the bounding box of all node positions.
func (g *Graph) Bounds() r2.Box {
	pts := make([]geom.Point, len(g.nodes))
	for i, n := range g.nodes {
		pts[i] = n.pos
	}
	return geom.Envelope(pts...)
}

var bendNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/octomap/bend"))

// SplitEdge replaces e by a chain of edges through bend nodes placed at
// points, in order from e.From() to e.To(). Every new edge carries e's routes.
// Bend names are derived from the edge and point index, so the same split on
// the same graph always yields the same names.
func (g *Graph) SplitEdge(e *Edge, points ...geom.Point) ([]*Node, error) {
	if !g.HasEdge(e) {
		return nil, ErrForeignEdge
	}
	for _, p := range points {
		p = geom.SnapPoint(p)
		for _, n := range g.nodes {
			if geom.Equal(n.pos, p) {
				return nil, fmt.Errorf("%w: %s at %v", ErrOccupied, n.Name, p)
			}
		}
	}

	from, to, routes := e.from, e.to, e.routes
	g.RemoveEdge(e)

	bends := make([]*Node, 0, len(points))
	prev := from
	for i, p := range points {
		b, err := g.addNode(g.bendName(e, i), p, NodeKindBend)
		if err != nil {
			return nil, err
		}
		if _, err := g.connect(prev, b, routes); err != nil {
			return nil, err
		}
		bends = append(bends, b)
		prev = b
	}
	if _, err := g.connect(prev, to, routes); err != nil {
		return nil, err
	}
	return bends, nil
}

func (g *Graph) bendName(e *Edge, i int) string {
	seed := fmt.Sprintf("%s/%d/%d", e.Name(), e.ID, i)
	id := uuid.NewSHA1(bendNamespace, []byte(seed)).String()
	name := "bend-" + id[:8]
	for k := 1; ; k++ {
		if _, taken := g.byName[name]; !taken {
			return name
		}
		name = fmt.Sprintf("bend-%s-%d", id[:8], k)
	}
}

// Clone returns a deep copy of g. Node and edge IDs are preserved.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		byName:   make(map[string]*Node, len(g.nodes)),
		byID:     make(map[int64]*Node, len(g.nodes)),
		nextNode: g.nextNode,
		nextEdge: g.nextEdge,
		sig:      g.sig,
	}
	for _, n := range g.nodes {
		cn := &Node{ID: n.ID, Name: n.Name, Kind: n.Kind, pos: n.pos, g: c}
		c.nodes = append(c.nodes, cn)
		c.byName[cn.Name] = cn
		c.byID[cn.ID] = cn
	}
	for _, e := range g.edges {
		a, b := c.byID[e.from.ID], c.byID[e.to.ID]
		ce := &Edge{ID: e.ID, from: a, to: b, routes: slices.Clone(e.routes)}
		c.edges = append(c.edges, ce)
		a.edges = append(a.edges, ce)
		b.edges = append(b.edges, ce)
	}
	return c
}

// Validate checks structural consistency: every edge endpoint belongs to
// the graph and every position is finite.
func (g *Graph) Validate() error {
	for _, n := range g.nodes {
		if !finite(n.pos) {
			return fmt.Errorf("%w: %s", ErrInvalidPosition, n.Name)
		}
	}
	for _, e := range g.edges {
		if g.byID[e.from.ID] != e.from || g.byID[e.to.ID] != e.to {
			return fmt.Errorf("%w: %s", ErrForeignEdge, e.Name())
		}
	}
	return nil
}

func finite(p geom.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
