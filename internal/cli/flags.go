package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/octomap/pkg/config"
	"github.com/matzehuels/octomap/pkg/pipeline"
)

// resolverFlags are the options shared by resolve, conflicts, render and
// inspect. A flag only overrides the config file when set explicitly.
type resolverFlags struct {
	strategy    string
	routeMargin float64
	edgeMargin  float64
	nodeMargin  float64
	maxPasses   int
	correction  float64
	major       bool
	noCache     bool
	refresh     bool
}

func (f *resolverFlags) register(cmd *cobra.Command, withStrategy bool) {
	fs := cmd.Flags()
	if withStrategy {
		fs.StringVarP(&f.strategy, "strategy", "s", pipeline.DefaultStrategy,
			fmt.Sprintf("resolution strategy: %s", strings.Join(pipeline.ValidStrategies, ", ")))
		fs.IntVar(&f.maxPasses, "max-passes", 0, "pass ceiling for the displacement resolver (0 = default)")
		fs.BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	}
	fs.Float64Var(&f.routeMargin, "margin-route", 0, "gap between parallel routes in a bundle")
	fs.Float64Var(&f.edgeMargin, "margin-edge", 0, "clearance around line segments")
	fs.Float64Var(&f.nodeMargin, "margin-node", 0, "clearance around stations")
	fs.Float64Var(&f.correction, "correction", pipeline.DefaultCorrectionFactor, "fraction of each octilinear correction to apply (0..1]")
	fs.BoolVar(&f.major, "major", false, "only report edges far off the octilinear grid")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// options layers the explicitly set flags over the config file.
func (f *resolverFlags) options(cmd *cobra.Command, cfg *config.Config) pipeline.Options {
	opts := cfg.PipelineOptions()
	fs := cmd.Flags()
	if fs.Changed("strategy") {
		opts.Strategy = f.strategy
	}
	if fs.Changed("margin-route") {
		opts.Margins.Route = f.routeMargin
	}
	if fs.Changed("margin-edge") {
		opts.Margins.Edge = f.edgeMargin
	}
	if fs.Changed("margin-node") {
		opts.Margins.Node = f.nodeMargin
	}
	if fs.Changed("max-passes") {
		opts.MaxDisplacementPasses = f.maxPasses
	}
	if fs.Changed("correction") {
		opts.CorrectionFactor = f.correction
	}
	if fs.Changed("major") {
		opts.MajorMisalignment = f.major
	}
	opts.Refresh = f.refresh
	return opts
}
