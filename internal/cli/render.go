package cli

import (
	"github.com/spf13/cobra"

	oerrors "github.com/matzehuels/octomap/pkg/errors"
	"github.com/matzehuels/octomap/pkg/graph"
	"github.com/matzehuels/octomap/pkg/network"
	"github.com/matzehuels/octomap/pkg/render"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags    resolverFlags
		format   string
		output   string
		isLayout bool
		overlay  bool
		labels   bool
		scale    float64
	)

	cmd := &cobra.Command{
		Use:   "render <graph>",
		Short: "Draw a graph or resolved layout as SVG or PNG",
		Long: `Render draws a graph file as-is, without resolving it. Stations keep their
positions and lines are coloured by route.

With --layout the input is a layout file written by "octomap resolve" and
its remaining conflicts are used for the overlay.`,
		Example: `  octomap render berlin.json --overlay
  octomap render berlin.layout.json --layout -f png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := oerrors.ValidateFormat(format, render.Formats...); err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg)

			var (
				g     *network.Graph
				views []graph.ConflictView
			)
			if isLayout {
				l, err := graph.ReadLayoutFile(args[0])
				if err != nil {
					return err
				}
				if g, err = l.Network(); err != nil {
					return err
				}
				views = l.Conflicts
			} else {
				if g, err = c.readGraph(args[0]); err != nil {
					return err
				}
				if overlay {
					runner, err := c.newRunner(cmd.Context(), cfg, flags.noCache)
					if err != nil {
						return err
					}
					defer runner.Close()
					if views, err = runner.Find(cmd.Context(), g, opts); err != nil {
						return err
					}
				}
			}

			if output == "" {
				output = basePath(args[0]) + "." + format
			}
			if err := writeRender(cmd.Context(), g, views, format, output, render.Options{
				Scale:       scale,
				RouteMargin: opts.Margins.Route,
				Overlay:     overlay,
				Labels:      labels,
			}); err != nil {
				return err
			}
			printSuccess("Rendered %d stations", g.NodeCount())
			if overlay {
				printDetail("%d conflicts marked", len(views))
			}
			printFile(output)
			return nil
		},
	}

	flags.register(cmd, false)
	cmd.Flags().StringVarP(&format, "format", "f", render.FormatSVG, "output format: svg, png, dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().BoolVar(&isLayout, "layout", false, "input is a layout file")
	cmd.Flags().BoolVar(&overlay, "overlay", false, "mark conflicts on the map")
	cmd.Flags().BoolVar(&labels, "labels", false, "write station names")
	cmd.Flags().Float64Var(&scale, "scale", render.DefaultScale, "points per map unit")

	return cmd
}
