package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/octomap/pkg/api"
	"github.com/matzehuels/octomap/pkg/config"
	"github.com/matzehuels/octomap/pkg/observability/prom"
	"github.com/matzehuels/octomap/pkg/pipeline"
)

const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the resolver over HTTP",
		Long: `Serve starts the HTTP API:

  POST /v1/resolve    resolve a graph, returns a layout
  POST /v1/conflicts  list a graph's conflicts, worst first
  GET  /healthz       liveness and build info
  GET  /metrics       Prometheus metrics (unless disabled in [serve])

Resolver defaults come from the config file; requests may override them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Serve.Addr = addr
			}

			runner, err := c.newRunner(cmd.Context(), cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			ln, err := net.Listen("tcp", cfg.Serve.Addr)
			if err != nil {
				return err
			}
			return c.serve(cmd.Context(), ln, runner, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// serve runs the API on ln until ctx is done, then drains in-flight
// requests.
func (c *CLI) serve(ctx context.Context, ln net.Listener, runner *pipeline.Runner, cfg *config.Config) error {
	opts := api.Options{
		Defaults:     cfg.PipelineOptions(),
		MaxBodyBytes: cfg.Serve.MaxBodyBytes,
		Logger:       c.Logger,
	}
	if cfg.Serve.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		prom.New(reg).Register()
		opts.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	srv := &http.Server{
		Handler:      api.New(runner, opts),
		ReadTimeout:  cfg.Serve.ReadTimeout,
		WriteTimeout: cfg.Serve.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	printSuccess("Listening on %s", StyleHighlight.Render(ln.Addr().String()))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
