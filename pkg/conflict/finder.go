package conflict

import (
	"runtime"

	"github.com/golang/geo/s1"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/octomap/pkg/buffer"
	"github.com/matzehuels/octomap/pkg/network"
)

// MajorTolerance is the deviation allowed around each octant in
// major-misalignment mode. The 27.5° figure is read as the full width of
// the band centred on the octant, so an edge is reported only beyond
// 13.75°. Taken as a one-sided bound it could never trigger, since no edge
// is more than 22.5° from its nearest octant.
const MajorTolerance = 13.75 * s1.Degree

// Options control conflict detection.
type Options struct {
	Margins buffer.Margins

	// OctilinearOnly skips buffer overlaps and reports misaligned edges only.
	OctilinearOnly bool
	// BufferOnly skips octilinear conflicts. Uniform scaling cannot fix
	// angles, so the scale resolver looks at overlaps only.
	BufferOnly bool
	// MajorMisalignment reports only edges deviating more than
	// MajorTolerance from their nearest octant.
	MajorMisalignment bool
	// CorrectionFactor scales octilinear nudges, in (0, 1]. Zero means 1.
	CorrectionFactor float64
	// Workers bounds the parallel pair tests. Zero means GOMAXPROCS.
	Workers int
}

// Tolerance returns the deviation under which an edge counts as aligned.
func (o Options) Tolerance() s1.Angle {
	if o.MajorMisalignment {
		return MajorTolerance
	}
	return 0
}

func (o Options) factor() float64 {
	if o.CorrectionFactor <= 0 {
		return 1
	}
	return o.CorrectionFactor
}

type pair struct{ a, b buffer.Buffer }

// Find returns every unsolved conflict in g, sorted by [Compare].
//
// All unordered pairs of node and edge buffers are tested, except pairs of
// the same element and graph-adjacent pairs involving an edge (a segment
// always touches its own stations). Adjacent station pairs are tested. Each
// edge outside the alignment tolerance adds an octilinear conflict.
//
// Pair tests run in parallel but results keep pair order, so equal graphs
// yield equal output.
func Find(g *network.Graph, opts Options) ([]Conflict, error) {
	var out []Conflict

	if !opts.OctilinearOnly {
		bufs := buffer.BuildAll(g, opts.Margins)
		var pairs []pair
		for i := range bufs {
			for j := i + 1; j < len(bufs); j++ {
				a, b := bufs[i], bufs[j]
				if buffer.Same(a, b) {
					continue
				}
				if (a.Kind == buffer.KindEdge || b.Kind == buffer.KindEdge) && buffer.Adjacent(g, a, b) {
					continue
				}
				if !envelopesOverlap(a, b) {
					continue
				}
				pairs = append(pairs, pair{a, b})
			}
		}

		slots := make([]Conflict, len(pairs))
		hit := make([]bool, len(pairs))
		var eg errgroup.Group
		eg.SetLimit(workers(opts.Workers))
		for k, p := range pairs {
			eg.Go(func() error {
				c, err := NewBufferConflict(g, p.a, p.b)
				if err != nil {
					return err
				}
				if !c.Solved() {
					slots[k], hit[k] = c, true
				}
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
		for k := range slots {
			if hit[k] {
				out = append(out, slots[k])
			}
		}
	}

	if !opts.BufferOnly {
		tol := opts.Tolerance()
		for _, e := range g.Edges() {
			if e.Direction().Within(tol) {
				continue
			}
			out = append(out, NewOctilinear(e, opts.Margins, opts.factor(), tol))
		}
	}

	out = dedupe(out)
	Sort(out)
	return out, nil
}

func envelopesOverlap(a, b buffer.Buffer) bool {
	ea, eb := a.Polygon.Envelope(), b.Polygon.Envelope()
	return ea.Min.X < eb.Max.X && eb.Min.X < ea.Max.X &&
		ea.Min.Y < eb.Max.Y && eb.Min.Y < ea.Max.Y
}

func dedupe(cs []Conflict) []Conflict {
	seen := make(map[string]bool, len(cs))
	out := cs[:0]
	for _, c := range cs {
		if k := c.Key(); !seen[k] {
			seen[k] = true
			out = append(out, c)
		}
	}
	return out
}

func workers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}
