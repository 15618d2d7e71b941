package repair

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/octomap/pkg/buffer"
	"github.com/matzehuels/octomap/pkg/geom"
	"github.com/matzehuels/octomap/pkg/network"
)

// Default cost parameters.
const (
	DefaultCostThreshold = 5
	DefaultCyclePenalty  = 1000
)

// Options tune the repair.
type Options struct {
	// CostThreshold is the adjustment cost above which an endpoint is not
	// moved. When both endpoints exceed it, bends are inserted.
	CostThreshold float64 `json:"cost_threshold" toml:"cost_threshold"`
	// CyclePenalty is the cost of moving a node twice in one repair.
	CyclePenalty float64 `json:"cycle_penalty" toml:"cycle_penalty"`
	// Margins size the station buffers a move must stay out of.
	Margins buffer.Margins `json:"-" toml:"-"`
}

func (o Options) withDefaults() Options {
	if o.CostThreshold <= 0 {
		o.CostThreshold = DefaultCostThreshold
	}
	if o.CyclePenalty <= 0 {
		o.CyclePenalty = DefaultCyclePenalty
	}
	return o
}

// Outcome is what happened to one edge.
type Outcome int

const (
	// Aligned means the edge was already octilinear.
	Aligned Outcome = iota
	// Moved means one endpoint was moved.
	Moved
	// Bent means the edge was split by bend nodes.
	Bent
	// Rejected means no acceptable move or split was found.
	Rejected
)

var outcomeNames = [...]string{"aligned", "moved", "bent", "rejected"}

func (o Outcome) String() string { return outcomeNames[o] }

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Action records the repair of one edge.
type Action struct {
	Edge     string     `json:"edge"`
	Outcome  Outcome    `json:"outcome"`
	CostFrom float64    `json:"cost_from"`
	CostTo   float64    `json:"cost_to"`
	Node     string     `json:"node,omitempty"` // Moved node
	From     geom.Point `json:"from"`           // Moved node's old position
	To       geom.Point `json:"to"`             // Moved node's new position
	Bends    []string   `json:"bends,omitempty"`
	Reason   string     `json:"reason,omitempty"`
}

// Result lists the actions of one repair, in the order they were taken.
type Result struct {
	Actions []Action `json:"actions"`
}

// Count returns the number of actions with outcome o.
func (r Result) Count(o Outcome) int {
	n := 0
	for _, a := range r.Actions {
		if a.Outcome == o {
			n++
		}
	}
	return n
}

type task struct {
	e    *network.Edge
	seen *visited
}

// Repair makes e octilinear, following up on every edge a move knocks
// off-grid. The graph is modified in place.
func Repair(g *network.Graph, e *network.Edge, opts Options) Result {
	opts = opts.withDefaults()
	var res Result
	queue := []task{{e: e}}
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		if !g.HasEdge(t.e) {
			continue
		}
		if t.e.Direction().Octilinear() {
			if t.e == e {
				res.Actions = append(res.Actions, Action{Edge: e.Name(), Outcome: Aligned})
			}
			continue
		}
		act, moved, broken := fix(g, t.e, t.seen, opts)
		res.Actions = append(res.Actions, act)
		if moved == nil {
			continue
		}
		next := t.seen.with(moved.ID)
		for _, b := range broken {
			queue = append(queue, task{e: b, seen: next})
		}
	}
	return res
}

// fix repairs a single edge. It returns the moved node, if any, and the
// edges at that node the move knocked off-grid.
func fix(g *network.Graph, e *network.Edge, seen *visited, opts Options) (Action, *network.Node, []*network.Edge) {
	u, v := e.From(), e.To()
	act := Action{
		Edge:     e.Name(),
		CostFrom: cost(u, e, seen, opts),
		CostTo:   cost(v, e, seen, opts),
	}

	if act.CostFrom > opts.CostThreshold && act.CostTo > opts.CostThreshold {
		bends, ok := bend(g, e, opts)
		if !ok {
			act.Outcome, act.Reason = Rejected, "no free bend position"
			return act, nil, nil
		}
		act.Outcome, act.Bends = Bent, bends
		return act, nil, nil
	}

	n, w := u, v
	if act.CostTo < act.CostFrom ||
		(act.CostTo == act.CostFrom && cmp.Or(cmp.Compare(v.Degree(), u.Degree()), cmp.Compare(v.ID, u.ID)) < 0) {
		n, w = v, u
	}

	pos, ok := move(g, n, w, opts)
	if !ok {
		act.Outcome, act.Reason = Rejected, "every move overlaps a station or crosses a segment"
		act.Node = n.Name
		return act, nil, nil
	}

	aligned := make(map[*network.Edge]bool)
	for _, o := range n.Edges() {
		aligned[o] = o.Direction().Octilinear()
	}
	act.Outcome, act.Node, act.From, act.To = Moved, n.Name, n.Position(), pos
	g.MoveNode(n, pos)

	var broken []*network.Edge
	for _, o := range n.Edges() {
		if o != e && aligned[o] && !o.Direction().Octilinear() {
			broken = append(broken, o)
		}
	}
	return act, n, broken
}

var axes = []geom.Point{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}

type candidate struct {
	pos       geom.Point
	kept      int  // other octilinear edges still octilinear after the move
	lengthens bool // moves away from a neighbour along a kept edge
	order     int
}

// move finds the new position of n that makes edge n-w diagonal. Each axis
// direction is tried with a step of ||dx|-|dy||; directions that keep more
// of n's aligned edges aligned win, then directions that stretch rather
// than shrink those edges.
func move(g *network.Graph, n, w *network.Node, opts Options) (geom.Point, bool) {
	d := network.DirectionOf(w.Position(), n.Position())
	step := geom.Snap(math.Abs(math.Abs(d.DX) - math.Abs(d.DY)))
	if step <= geom.Eps {
		return geom.Point{}, false
	}

	var cands []candidate
	for i, ax := range axes {
		pos := geom.SnapPoint(r2.Add(n.Position(), r2.Scale(step, ax)))
		if !network.DirectionOf(w.Position(), pos).Octilinear() {
			continue
		}
		c := candidate{pos: pos, order: i}
		for _, o := range n.Edges() {
			far := o.Other(n)
			if far == w || !o.DirectionFrom(n).Octilinear() {
				continue
			}
			if network.DirectionOf(pos, far.Position()).Octilinear() {
				c.kept++
				if r2.Dot(ax, r2.Sub(n.Position(), far.Position())) > 0 {
					c.lengthens = true
				}
			}
		}
		cands = append(cands, c)
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		if a.kept != b.kept {
			return cmp.Compare(b.kept, a.kept)
		}
		if a.lengthens != b.lengthens {
			if a.lengthens {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.order, b.order)
	})

	for _, c := range cands {
		if acceptable(g, n, c.pos, opts) {
			return c.pos, true
		}
	}
	return geom.Point{}, false
}

// acceptable reports whether n can move to pos without sweeping over or
// landing in another station, and without any of n's edges crossing a
// segment they do not share a station with.
func acceptable(g *network.Graph, n *network.Node, pos geom.Point, opts Options) bool {
	sweep := geom.Seg(n.Position(), pos)
	for _, m := range g.Nodes() {
		if m == n {
			continue
		}
		if sweep.DistanceTo(m.Position()) <= geom.Eps {
			return false
		}
		if buffer.ForNode(m, opts.Margins).Polygon.Contains(pos) {
			return false
		}
	}
	for _, e := range n.Edges() {
		seg := geom.Seg(pos, e.Other(n).Position())
		if crossesAny(g, seg, e.Other(n), n) {
			return false
		}
	}
	return true
}

// crossesAny reports whether seg crosses an edge of g that does not end at
// any of the given nodes.
func crossesAny(g *network.Graph, seg geom.Segment, ends ...*network.Node) bool {
	for _, h := range g.Edges() {
		if slices.ContainsFunc(ends, h.Has) {
			continue
		}
		if seg.Crosses(h.Segment()) {
			return true
		}
	}
	return false
}

// bend splits e into octilinear pieces. A single bend with the diagonal
// first is preferred, then a single bend with the axis first, then two
// bends splitting the axis run around a central diagonal. Layouts whose
// bends land in a station buffer are only used when nothing else fits.
func bend(g *network.Graph, e *network.Edge, opts Options) ([]string, bool) {
	u, v := e.From().Position(), e.To().Position()
	dx, dy := v.X-u.X, v.Y-u.Y
	m := math.Min(math.Abs(dx), math.Abs(dy))
	diag := geom.Pt(math.Copysign(m, dx), math.Copysign(m, dy))
	run := r2.Sub(r2.Sub(v, u), diag)

	layouts := [][]geom.Point{
		{r2.Add(u, diag)},
		{r2.Sub(v, diag)},
		{r2.Add(u, r2.Scale(0.5, run)), r2.Add(r2.Add(u, r2.Scale(0.5, run)), diag)},
	}

	for _, strict := range []bool{true, false} {
		for _, pts := range layouts {
			if !bendsFit(g, e, pts, strict, opts) {
				continue
			}
			nodes, err := g.SplitEdge(e, pts...)
			if err != nil {
				continue
			}
			names := make([]string, len(nodes))
			for i, b := range nodes {
				names[i] = b.Name
			}
			return names, true
		}
	}
	return nil, false
}

func bendsFit(g *network.Graph, e *network.Edge, pts []geom.Point, strict bool, opts Options) bool {
	chain := append([]geom.Point{e.From().Position()}, pts...)
	chain = append(chain, e.To().Position())
	for i := 1; i < len(chain); i++ {
		seg := geom.Seg(chain[i-1], chain[i])
		if seg.Degenerate() || !network.DirectionOf(seg.A, seg.B).Octilinear() {
			return false
		}
		if crossesAny(g, seg, e.From(), e.To()) {
			return false
		}
	}
	if !strict {
		return true
	}
	for _, p := range pts {
		for _, m := range g.Nodes() {
			if buffer.ForNode(m, opts.Margins).Polygon.Contains(p) {
				return false
			}
		}
	}
	return true
}
