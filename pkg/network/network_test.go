package network

import (
	"errors"
	"math"
	"testing"

	"github.com/matzehuels/octomap/pkg/geom"
)

var u1 = Route{Name: "U1", Width: 2, Color: "#7dad4c"}

func mustNode(t *testing.T, g *Graph, name string, x, y float64) *Node {
	t.Helper()
	n, err := g.AddNode(name, geom.Pt(x, y))
	if err != nil {
		t.Fatalf("AddNode(%s) error: %v", name, err)
	}
	return n
}

func mustEdge(t *testing.T, g *Graph, from, to string, routes ...Route) *Edge {
	t.Helper()
	e, err := g.AddEdge(from, to, routes...)
	if err != nil {
		t.Fatalf("AddEdge(%s, %s) error: %v", from, to, err)
	}
	return e
}

func TestAddNode(t *testing.T) {
	g := New()
	n := mustNode(t, g, "a", 1.23456, 2)

	if n.Position() != geom.Pt(1.2346, 2) {
		t.Errorf("Position() = %v, want snapped (1.2346, 2)", n.Position())
	}

	tests := []struct {
		name    string
		node    string
		pos     geom.Point
		wantErr error
	}{
		{"empty name", "", geom.Pt(0, 0), ErrInvalidNodeName},
		{"duplicate", "a", geom.Pt(5, 5), ErrDuplicateNode},
		{"nan", "b", geom.Pt(math.NaN(), 0), ErrInvalidPosition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.AddNode(tt.node, tt.pos); !errors.Is(err, tt.wantErr) {
				t.Errorf("AddNode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddEdge(t *testing.T) {
	g := New()
	mustNode(t, g, "a", 0, 0)
	mustNode(t, g, "b", 10, 0)
	e := mustEdge(t, g, "a", "b", u1, Route{Name: "U2", Width: 3})

	if e.Width() != 5 {
		t.Errorf("Width() = %v, want 5", e.Width())
	}
	if got := e.BundleWidth(1); got != 6 {
		t.Errorf("BundleWidth(1) = %v, want 6", got)
	}

	tests := []struct {
		name     string
		from, to string
		wantErr  error
	}{
		{"unknown", "a", "zz", ErrUnknownNode},
		{"self loop", "a", "a", ErrSelfLoop},
		{"duplicate", "b", "a", ErrDuplicateEdge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.AddEdge(tt.from, tt.to); !errors.Is(err, tt.wantErr) {
				t.Errorf("AddEdge() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEdgeGeometryFollowsNodes(t *testing.T) {
	g := New()
	a := mustNode(t, g, "a", 0, 0)
	b := mustNode(t, g, "b", 10, 0)
	e := mustEdge(t, g, "a", "b", u1)

	g.MoveNode(b, geom.Pt(10, 10))
	if got := e.Segment(); got.B != geom.Pt(10, 10) {
		t.Errorf("Segment().B = %v, want (10,10)", got.B)
	}
	if got := e.Direction().Nearest(); got != NorthEast {
		t.Errorf("Direction().Nearest() = %v, want NE", got)
	}

	sig := a.Signature(0)
	if c := sig.Centroid(); !geom.Equal(c, a.Position()) {
		t.Errorf("signature centroid = %v, want %v", c, a.Position())
	}
	g.MoveNode(a, geom.Pt(-4, 3))
	if c := a.Signature(0).Centroid(); !geom.Equal(c, geom.Pt(-4, 3)) {
		t.Errorf("signature centroid after move = %v, want (-4,3)", c)
	}
}

func TestRemoveEdge(t *testing.T) {
	g := New()
	a := mustNode(t, g, "a", 0, 0)
	b := mustNode(t, g, "b", 10, 0)
	e := mustEdge(t, g, "a", "b")

	g.RemoveEdge(e)
	if g.EdgeCount() != 0 || a.Degree() != 0 || b.Degree() != 0 {
		t.Errorf("after RemoveEdge: edges=%d deg(a)=%d deg(b)=%d, want 0", g.EdgeCount(), a.Degree(), b.Degree())
	}
	g.RemoveEdge(e) // no-op
	if g.Adjacent(a, b) {
		t.Error("Adjacent() = true after removal")
	}
}

func TestScalePreservesOctilinearity(t *testing.T) {
	g := New()
	mustNode(t, g, "a", 1, 2)
	mustNode(t, g, "b", 4, 5)
	mustNode(t, g, "c", 4, -7)
	mustNode(t, g, "d", 13.5, -7)
	edges := []*Edge{
		mustEdge(t, g, "a", "b"),
		mustEdge(t, g, "b", "c"),
		mustEdge(t, g, "c", "d"),
	}

	for _, f := range []float64{1.001, 1.337, 2.5, 17.123} {
		c := g.Clone()
		c.Scale(f)
		for _, e := range c.Edges() {
			if !e.Direction().Octilinear() {
				t.Errorf("Scale(%v): edge %s not octilinear: %v", f, e, e.Direction())
			}
		}
	}
	for _, e := range edges {
		if !e.Direction().Octilinear() {
			t.Errorf("original edge %s changed by scaling a clone", e)
		}
	}
}

func TestSplitEdge(t *testing.T) {
	g := New()
	mustNode(t, g, "a", 0, 0)
	mustNode(t, g, "b", 10, 4)
	e := mustEdge(t, g, "a", "b", u1)

	bends, err := g.SplitEdge(e, geom.Pt(4, 4))
	if err != nil {
		t.Fatalf("SplitEdge() error: %v", err)
	}
	if len(bends) != 1 || !bends[0].IsBend() {
		t.Fatalf("SplitEdge() bends = %v, want one bend node", bends)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
	for _, e := range g.Edges() {
		if !e.Direction().Octilinear() {
			t.Errorf("edge %s not octilinear", e)
		}
		if len(e.Routes()) != 1 || e.Routes()[0] != u1 {
			t.Errorf("edge %s routes = %v, want [U1]", e, e.Routes())
		}
	}

	// Same split on an identical graph yields the same bend name.
	h := New()
	mustNode(t, h, "a", 0, 0)
	mustNode(t, h, "b", 10, 4)
	he := mustEdge(t, h, "a", "b", u1)
	hb, _ := h.SplitEdge(he, geom.Pt(4, 4))
	if hb[0].Name != bends[0].Name {
		t.Errorf("bend names differ: %s vs %s", hb[0].Name, bends[0].Name)
	}

	a, _ := g.Node("a")
	ab := g.EdgeBetween(a, bends[0])
	if _, err := g.SplitEdge(ab, geom.Pt(0, 0)); !errors.Is(err, ErrOccupied) {
		t.Errorf("SplitEdge() onto node error = %v, want %v", err, ErrOccupied)
	}
	if _, err := g.SplitEdge(e); !errors.Is(err, ErrForeignEdge) {
		t.Errorf("SplitEdge() removed edge error = %v, want %v", err, ErrForeignEdge)
	}
}

func TestClone(t *testing.T) {
	g := New(WithSignature(OctagonSignature{MinSize: 4}))
	mustNode(t, g, "a", 0, 0)
	mustNode(t, g, "b", 10, 0)
	mustEdge(t, g, "a", "b", u1)

	c := g.Clone()
	ca, _ := c.Node("a")
	c.MoveNode(ca, geom.Pt(-5, 0))

	a, _ := g.Node("a")
	if a.Position() != geom.Pt(0, 0) {
		t.Errorf("original moved to %v", a.Position())
	}
	if c.EdgeCount() != 1 || ca.Degree() != 1 {
		t.Errorf("clone edges = %d, degree = %d, want 1, 1", c.EdgeCount(), ca.Degree())
	}
	if _, ok := c.Signature().(OctagonSignature); !ok {
		t.Errorf("clone signature = %T, want OctagonSignature", c.Signature())
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestComponents(t *testing.T) {
	g := New()
	for i, name := range []string{"a", "b", "c", "x", "y", "lonely"} {
		mustNode(t, g, name, float64(i*10), 0)
	}
	mustEdge(t, g, "a", "b")
	mustEdge(t, g, "b", "c")
	mustEdge(t, g, "x", "y")

	comps := g.Components()
	if len(comps) != 3 {
		t.Fatalf("Components() = %d components, want 3", len(comps))
	}
	if len(comps[0]) != 3 || comps[0][0].Name != "a" {
		t.Errorf("first component = %v, want [a b c]", comps[0])
	}

	x, _ := g.Node("x")
	set := g.ComponentOf(x)
	if len(set) != 2 {
		t.Errorf("ComponentOf(x) = %v, want 2 nodes", set)
	}
	a, _ := g.Node("a")
	if set[a.ID] {
		t.Error("ComponentOf(x) contains a")
	}
}

func TestSignatureSize(t *testing.T) {
	g := New()
	a := mustNode(t, g, "a", 0, 0)
	mustNode(t, g, "b", 10, 0)

	if got := a.Signature(0).Area(); math.Abs(got-1) > 1e-6 {
		t.Errorf("isolated station area = %v, want 1", got)
	}
	mustEdge(t, g, "a", "b", u1, u1)
	// Two routes of width 2 with margin 1: bundle of 5.
	if got := a.Signature(1).Area(); math.Abs(got-25) > 1e-6 {
		t.Errorf("station area = %v, want 25", got)
	}

	oct := OctagonSignature{MinSize: 10}.Shape(a, 0)
	env := oct.Envelope()
	if w := env.Max.X - env.Min.X; math.Abs(w-10) > 1e-3 {
		t.Errorf("octagon width = %v, want 10", w)
	}
}
