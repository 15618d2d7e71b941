// Package pipeline runs the resolver end to end for the CLI and the API.
//
// A [Runner] takes a station graph, finds its conflicts, applies one of the
// resolution strategies to a copy of it and returns the serialized
// [graph.Layout]. Results are memoized in a [cache.Cache] keyed on the
// graph's content hash and every option that changes the outcome, so both
// entry points share one caching policy.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	defer runner.Close()
//
//	res, err := runner.Resolve(ctx, g, pipeline.Options{Strategy: pipeline.StrategyHybrid})
//	if err != nil {
//	    return err
//	}
//	if !res.Layout.Solved {
//	    // res.Layout.Conflicts lists what is left, worst first
//	}
//
// # Strategies
//
//   - displace: move the worst conflict's far side apart, one conflict per
//     pass, repairing octilinearity along the way (the default)
//   - scale: scale the whole map about the origin until no buffers overlap
//   - hybrid: scale first, then displace what scaling cannot fix
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/octomap/pkg/buffer"
	"github.com/matzehuels/octomap/pkg/cache"
	"github.com/matzehuels/octomap/pkg/conflict"
	oerrors "github.com/matzehuels/octomap/pkg/errors"
	"github.com/matzehuels/octomap/pkg/graph"
	"github.com/matzehuels/octomap/pkg/network"
	"github.com/matzehuels/octomap/pkg/repair"
	"github.com/matzehuels/octomap/pkg/resolve"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Strategy names.
const (
	StrategyDisplace = string(resolve.StrategyDisplace)
	StrategyScale    = string(resolve.StrategyScale)
	StrategyHybrid   = "hybrid"
)

const (
	// DefaultStrategy is used when Options.Strategy is empty.
	DefaultStrategy = StrategyDisplace

	// DefaultCorrectionFactor applies octilinear nudges in full.
	DefaultCorrectionFactor = 1.0
)

// ValidStrategies is the set of supported strategies.
var ValidStrategies = []string{StrategyDisplace, StrategyScale, StrategyHybrid}

// =============================================================================
// Options - Resolution Configuration
// =============================================================================

// Options contains all configuration for one resolution.
// This struct supports JSON serialization for API requests.
type Options struct {
	Strategy string         `json:"strategy,omitempty"`
	Margins  buffer.Margins `json:"margins"`

	MaxScalePasses        int     `json:"max_scale_passes,omitempty"`
	MaxDisplacementPasses int     `json:"max_displacement_passes,omitempty"`
	CorrectionFactor      float64 `json:"correction_factor,omitempty"`
	MajorMisalignment     bool    `json:"major_misalignment,omitempty"`

	CostThreshold float64 `json:"cost_threshold,omitempty"`
	CyclePenalty  float64 `json:"cycle_penalty,omitempty"`

	Refresh bool `json:"refresh,omitempty"` // Skip the cache lookup

	// Runtime options (not serialized)
	Workers int                `json:"-"`
	OnPass  func(resolve.Pass) `json:"-"`
	Logger  *log.Logger        `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// SetDefaults fills zero fields with their defaults.
func (o *Options) SetDefaults() {
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	if o.MaxScalePasses == 0 {
		o.MaxScalePasses = resolve.DefaultMaxScalePasses
	}
	if o.MaxDisplacementPasses == 0 {
		o.MaxDisplacementPasses = resolve.DefaultMaxDisplacementPasses
	}
	if o.CorrectionFactor == 0 {
		o.CorrectionFactor = DefaultCorrectionFactor
	}
	if o.CostThreshold == 0 {
		o.CostThreshold = repair.DefaultCostThreshold
	}
	if o.CyclePenalty == 0 {
		o.CyclePenalty = repair.DefaultCyclePenalty
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks every field. Call it after SetDefaults.
func (o *Options) Validate() error {
	if err := ValidateStrategy(o.Strategy); err != nil {
		return err
	}
	if err := oerrors.ValidateMargins(o.Margins.Route, o.Margins.Edge, o.Margins.Node); err != nil {
		return err
	}
	if err := oerrors.ValidateCorrectionFactor(o.CorrectionFactor); err != nil {
		return err
	}
	if o.MaxScalePasses < 0 || o.MaxDisplacementPasses < 0 {
		return oerrors.New(oerrors.ErrCodeInvalidInput, "pass ceilings must not be negative")
	}
	if !positive(o.CostThreshold) {
		return oerrors.New(oerrors.ErrCodeInvalidInput, "cost threshold must be positive, got %v", o.CostThreshold)
	}
	if !positive(o.CyclePenalty) {
		return oerrors.New(oerrors.ErrCodeInvalidInput, "cycle penalty must be positive, got %v", o.CyclePenalty)
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and validates.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateStrategy checks that s names a strategy.
func ValidateStrategy(s string) error {
	for _, v := range ValidStrategies {
		if s == v {
			return nil
		}
	}
	return oerrors.New(oerrors.ErrCodeInvalidInput, "invalid strategy: %q (must be one of: displace, scale, hybrid)", s)
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0)
}

// FindOptions returns the finder options for a conflict listing.
func (o *Options) FindOptions() conflict.Options {
	return conflict.Options{
		Margins:           o.Margins,
		MajorMisalignment: o.MajorMisalignment,
		CorrectionFactor:  o.CorrectionFactor,
		Workers:           o.Workers,
	}
}

// resolveOptions returns the resolver options with the pass ceiling of
// strategy s.
func (o *Options) resolveOptions(s resolve.Strategy) resolve.Options {
	ro := resolve.Options{
		Margins:           o.Margins,
		CorrectionFactor:  o.CorrectionFactor,
		MajorMisalignment: o.MajorMisalignment,
		Repair: repair.Options{
			CostThreshold: o.CostThreshold,
			CyclePenalty:  o.CyclePenalty,
		},
		Workers: o.Workers,
		OnPass:  o.OnPass,
		Logger:  o.Logger,
	}
	if s == resolve.StrategyScale {
		ro.MaxPasses = o.MaxScalePasses
	} else {
		ro.MaxPasses = o.MaxDisplacementPasses
	}
	return ro
}

// LayoutKeyOpts returns cache key options for a resolution of g.
func (o *Options) LayoutKeyOpts(g *network.Graph) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Strategy:          o.Strategy,
		Margins:           o.Margins,
		Signature:         graph.SignatureName(g.Signature()),
		MaxScalePasses:    o.MaxScalePasses,
		MaxDisplacePasses: o.MaxDisplacementPasses,
		CorrectionFactor:  o.CorrectionFactor,
		MajorMisalignment: o.MajorMisalignment,
		CostThreshold:     o.CostThreshold,
		CyclePenalty:      o.CyclePenalty,
	}
}

// ConflictsKeyOpts returns cache key options for a conflict listing of g.
func (o *Options) ConflictsKeyOpts(g *network.Graph) cache.ConflictsKeyOpts {
	return cache.ConflictsKeyOpts{
		Margins:           o.Margins,
		Signature:         graph.SignatureName(g.Signature()),
		CorrectionFactor:  o.CorrectionFactor,
		MajorMisalignment: o.MajorMisalignment,
	}
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a resolution.
type Result struct {
	// Graph is the resolved copy. The input graph is never modified.
	Graph *network.Graph

	// GraphHash is the content hash of the input graph.
	GraphHash string

	// Layout is the serialized outcome.
	Layout graph.Layout

	// Reports holds one report per resolver run, in order. Nil on a cache hit.
	Reports []*resolve.Report

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains resolution statistics.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	Passes      int
	Remaining   int
	ResolveTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	LayoutHit    bool // Whether the layout came from cache
	ConflictsHit bool // Whether the conflict listing came from cache
}
