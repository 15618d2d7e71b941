package network

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Components returns the connected components of g. Nodes within a
// component and the components themselves are ordered by node ID.
func (g *Graph) Components() [][]*Node {
	ug := simple.NewUndirectedGraph()
	for _, n := range g.nodes {
		ug.AddNode(simple.Node(n.ID))
	}
	for _, e := range g.edges {
		ug.SetEdge(ug.NewEdge(simple.Node(e.from.ID), simple.Node(e.to.ID)))
	}

	var out [][]*Node
	for _, cc := range topo.ConnectedComponents(ug) {
		comp := make([]*Node, 0, len(cc))
		for _, gn := range cc {
			comp = append(comp, g.byID[gn.ID()])
		}
		slices.SortFunc(comp, byID)
		out = append(out, comp)
	}
	slices.SortFunc(out, func(a, b []*Node) int { return byID(a[0], b[0]) })
	return out
}

// ComponentOf returns the set of node IDs that share a connected component
// with any of the given nodes, the nodes themselves included.
func (g *Graph) ComponentOf(nodes ...*Node) map[int64]bool {
	want := make(map[int64]bool, len(nodes))
	for _, n := range nodes {
		want[n.ID] = true
	}
	set := make(map[int64]bool)
	for _, comp := range g.Components() {
		if !slices.ContainsFunc(comp, func(n *Node) bool { return want[n.ID] }) {
			continue
		}
		for _, n := range comp {
			set[n.ID] = true
		}
	}
	return set
}

func byID(a, b *Node) int { return cmp.Compare(a.ID, b.ID) }
