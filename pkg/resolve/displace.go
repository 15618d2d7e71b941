package resolve

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/octomap/pkg/conflict"
	"github.com/matzehuels/octomap/pkg/geom"
	"github.com/matzehuels/octomap/pkg/network"
	"github.com/matzehuels/octomap/pkg/repair"
)

// Displace resolves conflicts one per pass, worst first, until none remain
// or the pass ceiling is reached.
//
// A conflict whose displacement moves nothing is given up on for the rest of
// the run. A conflict that comes back at the same distance is picked again,
// since later moves elsewhere can free it.
func Displace(g *network.Graph, opts Options) (*Report, error) {
	find := opts.find()
	ropts := opts.Repair
	ropts.Margins = opts.Margins

	rep := &Report{Strategy: StrategyDisplace, Factor: 1}
	skip := make(map[string]bool)

	for i := 1; i <= opts.passes(DefaultMaxDisplacementPasses); i++ {
		cs, err := conflict.Find(g, find)
		if err != nil {
			return nil, err
		}
		if len(cs) == 0 {
			break
		}

		p := Pass{Index: i, Strategy: StrategyDisplace, Conflicts: len(cs)}
		c, ok := pick(cs, skip)
		if !ok {
			opts.debug("displacement stalled", "pass", i, "conflicts", len(cs))
			rep.record(p, opts)
			break
		}

		moved, crossing := displace(g, c)
		p.Conflict, p.Moved = &c, len(moved)
		if len(moved) == 0 {
			skip[c.Key()] = true
			p.Skipped = append(p.Skipped, c.Key())
		}
		for _, e := range crossing {
			if c.Type == conflict.Octilinear && e == c.Edge {
				continue
			}
			if !g.HasEdge(e) || e.Direction().Octilinear() {
				continue
			}
			p.Repairs = append(p.Repairs, repair.Repair(g, e, ropts).Actions...)
		}

		opts.debug("displacement pass",
			"pass", i,
			"conflicts", len(cs),
			"conflict", c.String(),
			"moved", len(moved),
			"repairs", len(p.Repairs))
		rep.record(p, opts)
	}

	cs, err := conflict.Find(g, find)
	if err != nil {
		return nil, err
	}
	rep.Remaining = cs
	rep.Solved = len(cs) == 0
	return rep, nil
}

// pick returns the worst conflict not yet given up on.
func pick(cs []conflict.Conflict, skip map[string]bool) (conflict.Conflict, bool) {
	for _, c := range conflict.WorstFirst(cs) {
		if !skip[c.Key()] {
			return c, true
		}
	}
	return conflict.Conflict{}, false
}

// displace shifts every node beyond the splitting line of c by c.Distance
// along c.Axis. Only nodes connected to the conflicting elements move. It
// returns the moved nodes and the edges that now span the line.
func displace(g *network.Graph, c conflict.Conflict) ([]*network.Node, []*network.Edge) {
	reach := g.ComponentOf(c.Nodes()...)
	split := c.Axis.Of(c.Origin)

	far := make(map[*network.Node]bool)
	var moved []*network.Node
	for _, n := range g.Nodes() {
		if reach[n.ID] && c.Axis.Of(n.Position()) > split+geom.Eps {
			far[n] = true
			moved = append(moved, n)
		}
	}
	if len(moved) == 0 {
		return nil, nil
	}

	var crossing []*network.Edge
	for _, e := range g.Edges() {
		if far[e.From()] != far[e.To()] {
			crossing = append(crossing, e)
		}
	}
	g.Translate(moved, r2.Scale(c.Distance, c.Axis.Unit()))
	return moved, crossing
}
