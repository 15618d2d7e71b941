package resolve

import (
	"math"

	"github.com/matzehuels/octomap/pkg/conflict"
	"github.com/matzehuels/octomap/pkg/network"
)

// MinScaleFactor is the smallest factor applied while conflicts remain.
const MinScaleFactor = 1.001

// ScaleFactor returns the uniform factor that makes room for the largest
// displacement on each axis in a w×h map:
//
//	ceil(max((w+maxDX)/w, (h+maxDY)/h) × 1000) / 1000
//
// maxDX and maxDY are the largest distances among conflicts whose best axis
// is X and Y respectively. w and h are clamped to at least 1. The result is
// 1 without conflicts and at least [MinScaleFactor] otherwise.
func ScaleFactor(cs []conflict.Conflict, w, h float64) float64 {
	if len(cs) == 0 {
		return 1
	}
	w, h = math.Max(w, 1), math.Max(h, 1)
	var maxDX, maxDY float64
	for _, c := range cs {
		if c.Axis == conflict.AxisY {
			maxDY = math.Max(maxDY, c.Distance)
		} else {
			maxDX = math.Max(maxDX, c.Distance)
		}
	}
	f := math.Max((w+maxDX)/w, (h+maxDY)/h)
	f = math.Ceil(f*1000) / 1000
	return math.Max(f, MinScaleFactor)
}

// Scale resolves buffer overlaps by growing the map about the origin until
// none remain or the pass ceiling is reached. Octilinear conflicts are
// ignored: scaling cannot change an angle.
func Scale(g *network.Graph, opts Options) (*Report, error) {
	find := opts.find()
	find.BufferOnly = true

	rep := &Report{Strategy: StrategyScale, Factor: 1}
	for i := 1; i <= opts.passes(DefaultMaxScalePasses); i++ {
		cs, err := conflict.Find(g, find)
		if err != nil {
			return nil, err
		}
		if len(cs) == 0 {
			break
		}
		b := g.Bounds()
		f := ScaleFactor(cs, b.Max.X-b.Min.X, b.Max.Y-b.Min.Y)
		g.Scale(f)
		rep.Factor *= f
		opts.debug("scale pass", "pass", i, "conflicts", len(cs), "factor", f)
		rep.record(Pass{Index: i, Strategy: StrategyScale, Conflicts: len(cs), Factor: f}, opts)
	}

	cs, err := conflict.Find(g, find)
	if err != nil {
		return nil, err
	}
	rep.Remaining = cs
	rep.Solved = len(cs) == 0
	return rep, nil
}
