package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/octomap/pkg/cache"
	"github.com/matzehuels/octomap/pkg/conflict"
	oerrors "github.com/matzehuels/octomap/pkg/errors"
	"github.com/matzehuels/octomap/pkg/graph"
	"github.com/matzehuels/octomap/pkg/network"
	"github.com/matzehuels/octomap/pkg/observability"
	"github.com/matzehuels/octomap/pkg/resolve"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeLayout    = "layout"
	keyTypeConflicts = "conflicts"
)

// Runner encapsulates resolution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.DefaultTTL,
	}
}

// ResolveWithCacheInfo resolves a copy of g with the configured strategy.
// The input graph is never modified.
//
// A run that stops at its pass ceiling is not an error: the returned
// layout is then unsolved and lists the remaining conflicts.
func (r *Runner) ResolveWithCacheInfo(ctx context.Context, g *network.Graph, opts Options) (*Result, error) {
	if g == nil {
		return nil, oerrors.New(oerrors.ErrCodeInvalidInput, "graph is required")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		return nil, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	result := &Result{GraphHash: cache.Hash(graphData)}
	cacheKey := r.Keyer.LayoutKey(result.GraphHash, opts.LayoutKeyOpts(g))

	if !opts.Refresh {
		if l, ok := r.cachedLayout(ctx, cacheKey); ok {
			if resolved, err := l.Network(); err == nil {
				result.Graph = resolved
				result.Layout = l
				result.CacheInfo.LayoutHit = true
				result.Stats = Stats{
					NodeCount: resolved.NodeCount(),
					EdgeCount: resolved.EdgeCount(),
					Passes:    len(l.Passes),
					Remaining: len(l.Conflicts),
				}
				return result, nil
			}
		}
	}

	hooks := observability.Resolve()
	hooks.OnResolveStart(ctx, opts.Strategy, g.NodeCount())

	start := time.Now()
	work := g.Clone()
	reports, err := r.run(ctx, work, opts)
	result.Stats.ResolveTime = time.Since(start)

	for _, rep := range reports {
		result.Stats.Passes += len(rep.Passes)
	}
	if n := len(reports); n > 0 {
		result.Stats.Remaining = len(reports[n-1].Remaining)
	}
	hooks.OnResolveComplete(ctx, opts.Strategy, result.Stats.Passes, result.Stats.Remaining, result.Stats.ResolveTime, err)
	if err != nil {
		return nil, err
	}

	result.Graph = work
	result.Reports = reports
	result.Layout = graph.NewLayout(work, nil, reports...)
	result.Stats.NodeCount = work.NodeCount()
	result.Stats.EdgeCount = work.EdgeCount()

	opts.Logger.Info("resolved layout",
		"strategy", opts.Strategy,
		"passes", result.Stats.Passes,
		"remaining", result.Stats.Remaining,
		"duration", result.Stats.ResolveTime)

	if data, err := graph.MarshalLayout(result.Layout); err == nil {
		r.store(ctx, keyTypeLayout, cacheKey, data)
	}

	return result, nil
}

// Resolve is a convenience wrapper that calls ResolveWithCacheInfo.
func (r *Runner) Resolve(ctx context.Context, g *network.Graph, opts Options) (*Result, error) {
	return r.ResolveWithCacheInfo(ctx, g, opts)
}

// run applies opts.Strategy to g in place.
func (r *Runner) run(ctx context.Context, g *network.Graph, opts Options) ([]*resolve.Report, error) {
	hooks := observability.Resolve()
	onPass := opts.OnPass
	opts.OnPass = func(p resolve.Pass) {
		hooks.OnPass(ctx, string(p.Strategy), p.Conflicts)
		if onPass != nil {
			onPass(p)
		}
	}

	var stages []resolve.Strategy
	switch opts.Strategy {
	case StrategyScale:
		stages = []resolve.Strategy{resolve.StrategyScale}
	case StrategyHybrid:
		stages = []resolve.Strategy{resolve.StrategyScale, resolve.StrategyDisplace}
	default:
		stages = []resolve.Strategy{resolve.StrategyDisplace}
	}

	var reports []*resolve.Report
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		var (
			rep *resolve.Report
			err error
		)
		ro := opts.resolveOptions(s)
		if s == resolve.StrategyScale {
			rep, err = resolve.Scale(g, ro)
		} else {
			rep, err = resolve.Displace(g, ro)
		}
		if err != nil {
			return reports, fmt.Errorf("%s: %w", s, err)
		}
		reports = append(reports, rep)
		opts.Logger.Debug("strategy finished",
			"strategy", s,
			"passes", len(rep.Passes),
			"solved", rep.Solved)
	}
	return reports, nil
}

// FindWithCacheInfo lists the conflicts of g, worst first.
func (r *Runner) FindWithCacheInfo(ctx context.Context, g *network.Graph, opts Options) ([]graph.ConflictView, bool, error) {
	if g == nil {
		return nil, false, oerrors.New(oerrors.ErrCodeInvalidInput, "graph is required")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}

	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		return nil, false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	cacheKey := r.Keyer.ConflictsKey(cache.Hash(graphData), opts.ConflictsKeyOpts(g))

	if !opts.Refresh {
		if data, ok := r.lookup(ctx, keyTypeConflicts, cacheKey); ok {
			var views []graph.ConflictView
			if err := json.Unmarshal(data, &views); err == nil {
				return views, true, nil
			}
		}
	}

	cs, err := conflict.Find(g, opts.FindOptions())
	if err != nil {
		return nil, false, err
	}
	views := graph.ConflictViews(cs)
	opts.Logger.Debug("found conflicts", "count", len(views))

	if data, err := json.Marshal(views); err == nil {
		r.store(ctx, keyTypeConflicts, cacheKey, data)
	}
	return views, false, nil
}

// Find is a convenience wrapper that calls FindWithCacheInfo and discards the cache hit info.
func (r *Runner) Find(ctx context.Context, g *network.Graph, opts Options) ([]graph.ConflictView, error) {
	views, _, err := r.FindWithCacheInfo(ctx, g, opts)
	return views, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) cachedLayout(ctx context.Context, key string) (graph.Layout, bool) {
	data, ok := r.lookup(ctx, keyTypeLayout, key)
	if !ok {
		return graph.Layout{}, false
	}
	l, err := graph.UnmarshalLayout(data)
	if err != nil {
		// Unreadable entries are recomputed and overwritten.
		r.Logger.Debug("discarding cached layout", "key", key, "error", err)
		return graph.Layout{}, false
	}
	return l, true
}

func (r *Runner) lookup(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte) {
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
