package graph

import (
	"cmp"
	"fmt"
	"slices"

	oerrors "github.com/matzehuels/octomap/pkg/errors"
	"github.com/matzehuels/octomap/pkg/geom"
	"github.com/matzehuels/octomap/pkg/network"
)

// Station shapes.
const (
	ShapeSquare  = "square"
	ShapeOctagon = "octagon"
)

// Node kinds.
const (
	KindBend = "bend"
)

// Graph is the serialized form of a [network.Graph].
type Graph struct {
	Stations *Stations `json:"stations,omitempty" yaml:"stations,omitempty" bson:"stations,omitempty"`
	Routes   []Route   `json:"routes,omitempty" yaml:"routes,omitempty" bson:"routes,omitempty"`
	Nodes    []Node    `json:"nodes" yaml:"nodes" bson:"nodes"`
	Edges    []Edge    `json:"edges" yaml:"edges" bson:"edges"`
}

// Stations describes the station footprint. Nil means the default square.
type Stations struct {
	Shape   string  `json:"shape,omitempty" yaml:"shape,omitempty" bson:"shape,omitempty"`
	MinSize float64 `json:"min_size,omitempty" yaml:"min_size,omitempty" bson:"min_size,omitempty"`
}

// Route is a line drawn along edges.
type Route struct {
	Name  string  `json:"name" yaml:"name" bson:"name"`
	Width float64 `json:"width,omitempty" yaml:"width,omitempty" bson:"width,omitempty"`
	Color string  `json:"color,omitempty" yaml:"color,omitempty" bson:"color,omitempty"`
}

// Node is a station or bend with its position.
type Node struct {
	Name string  `json:"name" yaml:"name" bson:"name"`
	X    float64 `json:"x" yaml:"x" bson:"x"`
	Y    float64 `json:"y" yaml:"y" bson:"y"`
	Kind string  `json:"kind,omitempty" yaml:"kind,omitempty" bson:"kind,omitempty"`
}

// Edge is an undirected segment between two nodes carrying routes by name.
type Edge struct {
	From   string   `json:"from" yaml:"from" bson:"from"`
	To     string   `json:"to" yaml:"to" bson:"to"`
	Routes []string `json:"routes,omitempty" yaml:"routes,omitempty" bson:"routes,omitempty"`
}

// FromNetwork converts g to its serialized form.
func FromNetwork(g *network.Graph) Graph {
	out := Graph{
		Stations: fromSignature(g.Signature()),
		Nodes:    make([]Node, 0, g.NodeCount()),
		Edges:    make([]Edge, 0, g.EdgeCount()),
	}

	routes := make(map[string]network.Route)
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, nodeFromNetwork(n))
	}
	for _, e := range g.Edges() {
		ej := Edge{From: e.From().Name, To: e.To().Name}
		for _, r := range e.Routes() {
			ej.Routes = append(ej.Routes, r.Name)
			routes[r.Name] = r
		}
		out.Edges = append(out.Edges, ej)
	}
	for _, r := range routes {
		out.Routes = append(out.Routes, Route{Name: r.Name, Width: r.Width, Color: r.Color})
	}
	slices.SortFunc(out.Routes, func(a, b Route) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// ToNetwork builds a graph from its serialized form. Errors carry
// [oerrors.ErrCodeInvalidGraph].
func ToNetwork(gj Graph) (*network.Graph, error) {
	sig, err := gj.Stations.signature()
	if err != nil {
		return nil, err
	}
	g := network.New(network.WithSignature(sig))

	routes := make(map[string]network.Route, len(gj.Routes))
	for _, r := range gj.Routes {
		if r.Name == "" {
			return nil, oerrors.New(oerrors.ErrCodeInvalidGraph, "route name cannot be empty")
		}
		if r.Width < 0 {
			return nil, oerrors.New(oerrors.ErrCodeInvalidGraph, "route %s: width must not be negative", r.Name)
		}
		if _, dup := routes[r.Name]; dup {
			return nil, oerrors.New(oerrors.ErrCodeInvalidGraph, "duplicate route %s", r.Name)
		}
		routes[r.Name] = network.Route{Name: r.Name, Width: r.Width, Color: r.Color}
	}

	for _, nj := range gj.Nodes {
		if err := oerrors.ValidateNodeName(nj.Name); err != nil {
			return nil, err
		}
		add := g.AddNode
		switch nj.Kind {
		case "":
		case KindBend:
			add = g.AddBend
		default:
			return nil, oerrors.New(oerrors.ErrCodeInvalidGraph, "node %s: unknown kind %q", nj.Name, nj.Kind)
		}
		if _, err := add(nj.Name, geom.Pt(nj.X, nj.Y)); err != nil {
			return nil, oerrors.Wrap(oerrors.ErrCodeInvalidGraph, err, "add node %s", nj.Name)
		}
	}

	for _, ej := range gj.Edges {
		rs := make([]network.Route, 0, len(ej.Routes))
		for _, name := range ej.Routes {
			r, ok := routes[name]
			if !ok {
				return nil, oerrors.New(oerrors.ErrCodeInvalidGraph, "edge %s-%s: unknown route %s", ej.From, ej.To, name)
			}
			rs = append(rs, r)
		}
		if _, err := g.AddEdge(ej.From, ej.To, rs...); err != nil {
			return nil, oerrors.Wrap(oerrors.ErrCodeInvalidGraph, err, "add edge %s-%s", ej.From, ej.To)
		}
	}
	return g, nil
}

func nodeFromNetwork(n *network.Node) Node {
	p := n.Position()
	nj := Node{Name: n.Name, X: p.X, Y: p.Y}
	if n.IsBend() {
		nj.Kind = KindBend
	}
	return nj
}

func (s *Stations) signature() (network.Signature, error) {
	if s == nil {
		return network.DefaultSignature, nil
	}
	size := s.MinSize
	if size < 0 {
		return nil, oerrors.New(oerrors.ErrCodeInvalidGraph, "station min_size must not be negative")
	}
	if size == 0 {
		size = 1
	}
	switch s.Shape {
	case "", ShapeSquare:
		return network.SquareSignature{MinSize: size}, nil
	case ShapeOctagon:
		return network.OctagonSignature{MinSize: size}, nil
	}
	return nil, oerrors.New(oerrors.ErrCodeInvalidGraph, "unknown station shape %q", s.Shape)
}

func fromSignature(sig network.Signature) *Stations {
	switch s := sig.(type) {
	case network.SquareSignature:
		if s == network.DefaultSignature {
			return nil
		}
		return &Stations{Shape: ShapeSquare, MinSize: s.MinSize}
	case network.OctagonSignature:
		return &Stations{Shape: ShapeOctagon, MinSize: s.MinSize}
	}
	return nil
}

// SignatureName describes a signature for cache keys and logs.
func SignatureName(sig network.Signature) string {
	if s := fromSignature(sig); s != nil {
		return fmt.Sprintf("%s/%g", s.Shape, s.MinSize)
	}
	return ShapeSquare + "/1"
}
