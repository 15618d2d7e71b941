package resolve

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/octomap/pkg/buffer"
	"github.com/matzehuels/octomap/pkg/conflict"
	"github.com/matzehuels/octomap/pkg/repair"
)

// Pass ceilings.
const (
	DefaultMaxScalePasses        = 25
	DefaultMaxDisplacementPasses = 100
)

// Strategy names a resolver.
type Strategy string

const (
	StrategyScale    Strategy = "scale"
	StrategyDisplace Strategy = "displace"
)

// Options configure both resolvers.
type Options struct {
	Margins buffer.Margins

	// MaxPasses bounds the number of passes. Zero selects the resolver's
	// default ceiling.
	MaxPasses int

	// CorrectionFactor and MajorMisalignment are passed to the finder.
	CorrectionFactor  float64
	MajorMisalignment bool

	// Repair tunes the octilinear repair after each displacement. Its
	// margins are taken from Margins.
	Repair repair.Options

	// Workers bounds the finder's parallel pair tests.
	Workers int

	// OnPass, if set, is called after every pass.
	OnPass func(Pass)

	// Logger receives a debug line per pass. Nil disables logging.
	Logger *log.Logger
}

func (o Options) find() conflict.Options {
	return conflict.Options{
		Margins:           o.Margins,
		MajorMisalignment: o.MajorMisalignment,
		CorrectionFactor:  o.CorrectionFactor,
		Workers:           o.Workers,
	}
}

func (o Options) passes(def int) int {
	if o.MaxPasses > 0 {
		return o.MaxPasses
	}
	return def
}

func (o Options) debug(msg string, kv ...any) {
	if o.Logger != nil {
		o.Logger.Debug(msg, kv...)
	}
}

// Pass records one resolver pass.
type Pass struct {
	Index     int      `json:"index"`
	Strategy  Strategy `json:"strategy"`
	Conflicts int      `json:"conflicts"` // Unsolved at the start of the pass

	// Scale passes.
	Factor float64 `json:"factor,omitempty"`

	// Displacement passes.
	Conflict *conflict.Conflict `json:"-"`
	Moved    int                `json:"moved,omitempty"`
	Repairs  []repair.Action    `json:"repairs,omitempty"`
	Skipped  []string           `json:"skipped,omitempty"` // Keys given up on in this pass
}

// Report is the outcome of a resolver run.
type Report struct {
	Strategy Strategy
	Solved   bool
	Passes   []Pass

	// Remaining holds the conflicts left after the last pass, sorted by
	// [conflict.Compare]. Empty when Solved.
	Remaining []conflict.Conflict

	// Factor is the product of all scale factors applied.
	Factor float64
}

func (r *Report) record(p Pass, opts Options) {
	r.Passes = append(r.Passes, p)
	if opts.OnPass != nil {
		opts.OnPass(p)
	}
}
