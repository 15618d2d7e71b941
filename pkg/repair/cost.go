package repair

import (
	"github.com/matzehuels/octomap/pkg/network"
)

// visited is a persistent set of node IDs. Extending it never changes the
// receiver, so every branch of a repair owns its own view.
type visited struct {
	id     int64
	parent *visited
}

func (v *visited) with(id int64) *visited { return &visited{id: id, parent: v} }

func (v *visited) has(id int64) bool {
	for ; v != nil; v = v.parent {
		if v.id == id {
			return true
		}
	}
	return false
}

type frame struct {
	n    *network.Node
	via  *network.Edge
	seen *visited
}

// Cost estimates the disruption of moving n to fix edge via:
//   - 0 when via is n's only edge
//   - 1 when n is simple: at most two other edges, and two only if they
//     leave n in opposite octilinear directions
//   - otherwise 2 + degree, plus the cost of moving the far endpoint of each
//     other edge
//
// Nodes already on the current path cost opts.CyclePenalty instead of being
// expanded. The sum is capped at opts.CyclePenalty.
func Cost(n *network.Node, via *network.Edge, opts Options) float64 {
	return cost(n, via, nil, opts.withDefaults())
}

func cost(n *network.Node, via *network.Edge, seen *visited, opts Options) float64 {
	var total float64
	stack := []frame{{n: n, via: via, seen: seen}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch {
		case f.seen.has(f.n.ID):
			total += opts.CyclePenalty
		case f.n.Degree() <= 1:
		case simple(f.n, f.via):
			total++
		default:
			total += 2 + float64(f.n.Degree())
			next := f.seen.with(f.n.ID)
			for _, o := range others(f.n, f.via) {
				stack = append(stack, frame{n: o.Other(f.n), via: o, seen: next})
			}
		}
		if total >= opts.CyclePenalty {
			return opts.CyclePenalty
		}
	}
	return total
}

func simple(n *network.Node, via *network.Edge) bool {
	os := others(n, via)
	switch len(os) {
	case 0, 1:
		return true
	case 2:
		a, b := os[0].DirectionFrom(n), os[1].DirectionFrom(n)
		return a.Octilinear() && b.Octilinear() && a.Nearest().Opposite() == b.Nearest()
	}
	return false
}

func others(n *network.Node, via *network.Edge) []*network.Edge {
	var out []*network.Edge
	for _, e := range n.Edges() {
		if e != via {
			out = append(out, e)
		}
	}
	return out
}
