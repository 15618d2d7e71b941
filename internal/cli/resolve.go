package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	oerrors "github.com/matzehuels/octomap/pkg/errors"
	"github.com/matzehuels/octomap/pkg/graph"
	"github.com/matzehuels/octomap/pkg/network"
	"github.com/matzehuels/octomap/pkg/pipeline"
	"github.com/matzehuels/octomap/pkg/render"
)

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		flags   resolverFlags
		output  string
		formats string
		overlay bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <graph>",
		Short: "Move conflicting stations and segments apart",
		Long: `Resolve reads a graph file (JSON or YAML), removes buffer overlaps and
octilinear misalignments, and writes the resolved layout as JSON.

With --render the resolved map is also drawn as SVG and/or PNG next to the
layout file.`,
		Example: `  octomap resolve berlin.json
  octomap resolve berlin.yaml --strategy hybrid --margin-node 1 --render svg,png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg)

			var outFormats []string
			if formats != "" {
				outFormats = strings.Split(formats, ",")
				for _, f := range outFormats {
					if err := oerrors.ValidateFormat(f, render.FormatSVG, render.FormatPNG, render.FormatDOT); err != nil {
						return err
					}
				}
			}

			g, err := c.readGraph(args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cfg, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			spinner := newSpinnerWithContext(cmd.Context(), "Resolving conflicts...")
			spinner.Start()
			prog := newProgress(c.Logger)
			res, err := runner.ResolveWithCacheInfo(cmd.Context(), g, opts)
			spinner.Stop()
			if err != nil {
				return err
			}
			prog.done("resolve finished")

			if output == "" {
				output = basePath(args[0]) + ".layout.json"
			}
			if err := graph.WriteLayoutFile(res.Layout, output); err != nil {
				return fmt.Errorf("write layout: %w", err)
			}
			printResolveSummary(res)
			printFile(output)

			for _, f := range outFormats {
				path := basePath(output) + "." + f
				if err := writeRender(cmd.Context(), res.Graph, res.Layout.Conflicts, f, path, render.Options{
					RouteMargin: opts.Margins.Route,
					Overlay:     overlay,
				}); err != nil {
					return err
				}
				printFile(path)
			}
			if len(outFormats) == 0 {
				printNextStep("Draw it", "octomap render --layout "+output)
			}
			return nil
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "", "layout file (default: <graph>.layout.json)")
	cmd.Flags().StringVarP(&formats, "render", "r", "", "also draw the result: svg, png, dot (comma-separated)")
	cmd.Flags().BoolVar(&overlay, "overlay", false, "draw remaining conflicts on the rendered map")

	return cmd
}

func printResolveSummary(res *pipeline.Result) {
	if res.Layout.Solved {
		printSuccess("Resolved with %s in %d passes", StyleHighlight.Render(res.Layout.Strategy), res.Stats.Passes)
	} else {
		printWarning("%d conflicts left after %d passes", res.Stats.Remaining, res.Stats.Passes)
	}
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.LayoutHit)
}

// writeRender draws g in format and writes it to path.
func writeRender(ctx context.Context, g *network.Graph, cs []graph.ConflictView, format, path string, opts render.Options) error {
	data, err := render.Render(ctx, render.ToDOT(g, cs, opts), format)
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// basePath strips the directory-preserving extension chain from path:
// "maps/berlin.layout.json" becomes "maps/berlin".
func basePath(path string) string {
	dir, name := filepath.Split(path)
	if i := strings.Index(name, "."); i > 0 {
		name = name[:i]
	}
	return filepath.Join(dir, name)
}
