package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/octomap/pkg/buildinfo"
	"github.com/matzehuels/octomap/pkg/cache"
	"github.com/matzehuels/octomap/pkg/config"
	oerrors "github.com/matzehuels/octomap/pkg/errors"
	"github.com/matzehuels/octomap/pkg/graph"
	"github.com/matzehuels/octomap/pkg/network"
	"github.com/matzehuels/octomap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "octomap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Exit codes returned by ExitCode.
const (
	exitFailure = 1
	exitInvalid = 2
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is set by the persistent --config flag.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Octomap spaces out octilinear transit maps",
		Long: `Octomap finds stations and line segments of a transit map that are drawn
too close together and moves them apart, keeping every segment on one of
the eight compass directions.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: user config dir)")

	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.conflictsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// ExitCode maps a command error to a process exit code: 2 for bad input,
// 1 for everything else.
func ExitCode(err error) int {
	if oerrors.IsInvalid(err) || oerrors.Is(err, oerrors.ErrCodeFileNotFound) {
		return exitInvalid
	}
	return exitFailure
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// loadConfig reads --config, or the default config file when the flag is
// unset.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.configPath != "" {
		c.Logger.Debug("loading config", "path", c.configPath)
		return config.Load(c.configPath)
	}
	return config.LoadDefault()
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	ch, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if cfg.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Cache.Prefix)
	}
	r := pipeline.NewRunner(ch, keyer, c.Logger)
	if cfg.Cache.TTL > 0 {
		r.TTL = cfg.Cache.TTL
	}
	return r, nil
}

func newCache(ctx context.Context, cfg cache.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, cfg)
}

// readGraph loads a graph file, JSON or YAML by extension.
func (c *CLI) readGraph(path string) (*network.Graph, error) {
	c.Logger.Debug("reading graph", "path", path)
	g, err := graph.ReadGraphFile(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("graph loaded", "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return g, nil
}
