package conflict

import (
	"fmt"
	"math"

	"github.com/golang/geo/s1"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/octomap/pkg/buffer"
	"github.com/matzehuels/octomap/pkg/geom"
	"github.com/matzehuels/octomap/pkg/network"
)

// Type classifies a conflict. Values double as priority ranks: a larger
// value is a more severe conflict.
type Type int

const (
	Octilinear Type = iota
	AdjacentNodeNodeDiagonal
	AdjacentNodeNode
	EdgeEdge
	NodeEdge
	NodeNode
)

var typeNames = map[Type]string{
	Octilinear:               "OCTILINEAR",
	AdjacentNodeNodeDiagonal: "ADJACENT_NODE_NODE_DIAGONAL",
	AdjacentNodeNode:         "ADJACENT_NODE_NODE",
	EdgeEdge:                 "EDGE_EDGE",
	NodeEdge:                 "NODE_EDGE",
	NodeNode:                 "NODE_NODE",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	for k, v := range typeNames {
		if v == string(b) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown conflict type %q", b)
}

// Rank returns the priority rank used as a comparator key.
func (t Type) Rank() int { return int(t) }

// Adjacent reports whether the type covers two graph-adjacent stations.
func (t Type) Adjacent() bool {
	return t == AdjacentNodeNode || t == AdjacentNodeNodeDiagonal
}

// Axis is a displacement axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// MarshalText implements encoding.TextMarshaler.
func (a Axis) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// Unit returns the positive unit vector of the axis.
func (a Axis) Unit() geom.Point {
	if a == AxisY {
		return geom.Pt(0, 1)
	}
	return geom.Pt(1, 0)
}

// Of returns the coordinate of p on the axis.
func (a Axis) Of(p geom.Point) float64 {
	if a == AxisY {
		return p.Y
	}
	return p.X
}

// Conflict is an immutable snapshot of one conflict.
//
// For buffer conflicts A and B are the two overlapping buffers, ordered
// nodes first, then by element ID. For octilinear conflicts A and B are the
// node buffers of Edge's endpoints and Polygon is nil.
type Conflict struct {
	Type Type
	A, B buffer.Buffer
	Edge *network.Edge

	Polygon  geom.Polygon // Overlap; nil when solved
	Vector   geom.Point   // Displacement vector, X >= 0 (Y >= 0 when X == 0)
	Axis     Axis         // Best displacement axis
	Distance float64      // Displacement along Axis
	Origin   geom.Point   // Point strictly between the two elements

	tolerance s1.Angle
}

// DX returns the X projection of the displacement vector.
func (c Conflict) DX() float64 { return math.Abs(c.Vector.X) }

// DY returns the Y projection of the displacement vector.
func (c Conflict) DY() float64 { return math.Abs(c.Vector.Y) }

// Length returns the length of the displacement vector.
func (c Conflict) Length() float64 { return r2.Norm(c.Vector) }

// Solved reports whether the conflict needs no action. A buffer conflict is
// solved when its overlap is empty. An octilinear conflict is solved when
// its edge is back within tolerance, which is read from the live graph.
func (c Conflict) Solved() bool {
	if c.Type == Octilinear {
		return c.Edge.Direction().Within(c.tolerance)
	}
	return c.Polygon.Empty()
}

// Key identifies the conflict by type and elements.
func (c Conflict) Key() string {
	return c.Type.String() + ":" + c.A.Key() + ":" + c.B.Key()
}

// Nodes returns the nodes making up both elements, without duplicates.
func (c Conflict) Nodes() []*network.Node {
	var out []*network.Node
	seen := make(map[int64]bool)
	for _, n := range append(c.A.Nodes(), c.B.Nodes()...) {
		if !seen[n.ID] {
			seen[n.ID] = true
			out = append(out, n)
		}
	}
	return out
}

// Elements returns the display names of both elements.
func (c Conflict) Elements() [2]string {
	if c.Type == Octilinear {
		return [2]string{c.Edge.From().Name, c.Edge.To().Name}
	}
	return [2]string{c.A.Name(), c.B.Name()}
}

func (c Conflict) String() string {
	el := c.Elements()
	return fmt.Sprintf("%s(%s, %s) %s+%g", c.Type, el[0], el[1], c.Axis, c.Distance)
}
