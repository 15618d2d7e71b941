package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/octomap/pkg/graph"
)

// conflictsCommand creates the conflicts command.
func (c *CLI) conflictsCommand() *cobra.Command {
	var (
		flags   resolverFlags
		asJSON  bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "conflicts <graph>",
		Short: "List the conflicts of a graph, worst first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg)
			opts.Refresh = refresh

			g, err := c.readGraph(args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cfg, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			views, hit, err := runner.FindWithCacheInfo(cmd.Context(), g, opts)
			if err != nil {
				return err
			}
			if asJSON {
				return writeConflictsJSON(os.Stdout, views)
			}
			if len(views) == 0 {
				printSuccess("No conflicts")
				return nil
			}
			fmt.Println(conflictTable(views))
			printStats(g.NodeCount(), g.EdgeCount(), hit)
			return nil
		},
	}

	flags.register(cmd, false)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print conflicts as JSON")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")

	return cmd
}

func writeConflictsJSON(w io.Writer, views []graph.ConflictView) error {
	if views == nil {
		views = []graph.ConflictView{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(views)
}

// conflictTable renders views as a bordered table, one row per conflict.
func conflictTable(views []graph.ConflictView) string {
	rows := make([][]string, len(views))
	for i, v := range views {
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			v.Type,
			v.Elements[0] + " / " + v.Elements[1],
			v.Axis,
			fmt.Sprintf("%g", v.Distance),
			fmt.Sprintf("(%.2f, %.2f)", v.Origin.X, v.Origin.Y),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Type", "Elements", "Axis", "Distance", "Origin").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1:
				return lipgloss.NewStyle().Foreground(typeColor(views[row].Type))
			case col == 4:
				return StyleNumber
			}
			return StyleValue
		})
	return t.Render()
}

func typeColor(t string) lipgloss.Color {
	switch t {
	case "NODE_NODE":
		return colorRed
	case "OCTILINEAR":
		return colorYellow
	}
	return colorCyan
}
