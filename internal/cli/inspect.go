package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/octomap/pkg/graph"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags resolverFlags

	cmd := &cobra.Command{
		Use:   "inspect <graph>",
		Short: "Step through resolver passes in the terminal",
		Long: `Inspect resolves a graph and opens a browser over the passes the resolver
made: the conflict each pass picked, the nodes it moved and the octilinear
repairs that followed. The last page lists what is left.

Keys: ←/→ or h/l step passes, ↑/↓ scroll, g/G first/last, q quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg)

			g, err := c.readGraph(args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cfg, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Resolve(cmd.Context(), g, opts)
			if err != nil {
				return err
			}

			p := tea.NewProgram(newInspectModel(args[0], res.Layout), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd, true)
	return cmd
}

// =============================================================================
// inspectModel - Pass browser
// =============================================================================

var (
	inspectHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	inspectLabelStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(11)
	inspectHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	inspectHeaderLines = 2
	inspectFooterLines = 2
)

// inspectModel pages through the passes of a layout, one page per pass plus
// a summary page.
type inspectModel struct {
	name     string
	layout   graph.Layout
	page     int
	viewport viewport.Model
	ready    bool
}

func newInspectModel(name string, l graph.Layout) inspectModel {
	return inspectModel{name: name, layout: l}
}

func (m inspectModel) pages() int { return len(m.layout.Passes) + 1 }

func (m inspectModel) Init() tea.Cmd {
	return nil
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h := max(msg.Height-inspectHeaderLines-inspectFooterLines, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, h)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = h
		}
		m.viewport.SetContent(m.content())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "n":
			return m.goTo(m.page + 1), nil
		case "left", "h", "p":
			return m.goTo(m.page - 1), nil
		case "home", "g":
			return m.goTo(0), nil
		case "end", "G":
			return m.goTo(m.pages() - 1), nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m inspectModel) goTo(page int) inspectModel {
	page = min(max(page, 0), m.pages()-1)
	if page == m.page {
		return m
	}
	m.page = page
	if m.ready {
		m.viewport.SetContent(m.content())
		m.viewport.GotoTop()
	}
	return m
}

func (m inspectModel) View() string {
	if !m.ready {
		return "loading..."
	}
	var b strings.Builder
	b.WriteString(inspectHeaderStyle.Render(m.title()))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")
	b.WriteString(inspectHelpStyle.Render(fmt.Sprintf("[%d/%d]  ←/→ pass  ↑/↓ scroll  q quit", m.page+1, m.pages())))
	return b.String()
}

func (m inspectModel) title() string {
	if m.page < len(m.layout.Passes) {
		p := m.layout.Passes[m.page]
		return fmt.Sprintf("%s · pass %d · %s", m.name, p.Index, p.Strategy)
	}
	status := "solved"
	if !m.layout.Solved {
		status = fmt.Sprintf("%d conflicts left", len(m.layout.Conflicts))
	}
	return fmt.Sprintf("%s · %s · %s", m.name, m.layout.Strategy, status)
}

func (m inspectModel) content() string {
	if m.page < len(m.layout.Passes) {
		return passContent(m.layout.Passes[m.page])
	}
	return summaryContent(m.layout)
}

// passContent describes one pass.
func passContent(p graph.PassView) string {
	var b strings.Builder
	field := func(k, v string) {
		b.WriteString(inspectLabelStyle.Render(k) + " " + v + "\n")
	}

	field("conflicts", fmt.Sprintf("%d", p.Conflicts))
	if p.Factor != 0 {
		field("factor", fmt.Sprintf("%g", p.Factor))
	}
	if p.Conflict != nil {
		c := p.Conflict
		field("picked", fmt.Sprintf("%s %s/%s", c.Type, c.Elements[0], c.Elements[1]))
		field("distance", fmt.Sprintf("%s%g", c.Axis, c.Distance))
		field("origin", fmt.Sprintf("(%.2f, %.2f)", c.Origin.X, c.Origin.Y))
	}
	if p.Moved > 0 {
		field("moved", fmt.Sprintf("%d nodes", p.Moved))
	}
	if len(p.Repairs) > 0 {
		b.WriteString("\n" + StyleTitle.Render("Repairs") + "\n")
		for _, r := range p.Repairs {
			b.WriteString("  " + repairLine(r) + "\n")
		}
	}
	if len(p.Skipped) > 0 {
		b.WriteString("\n" + StyleWarning.Render("Given up") + "\n")
		for _, k := range p.Skipped {
			b.WriteString("  " + StyleDim.Render(k) + "\n")
		}
	}
	return b.String()
}

func repairLine(r graph.RepairView) string {
	line := fmt.Sprintf("%-14s %s", r.Edge, r.Outcome)
	switch {
	case r.From != nil && r.To != nil:
		line += fmt.Sprintf(" %s (%.2f, %.2f) %s (%.2f, %.2f)", r.Node, r.From.X, r.From.Y, iconArrow, r.To.X, r.To.Y)
	case len(r.Bends) > 0:
		line += " via " + strings.Join(r.Bends, ", ")
	}
	if r.Reason != "" {
		line += " " + StyleDim.Render("("+r.Reason+")")
	}
	return line
}

// summaryContent lists the conflicts left in l.
func summaryContent(l graph.Layout) string {
	if len(l.Conflicts) == 0 {
		return StyleSuccess.Render(iconSuccess+" no conflicts left") + "\n"
	}
	return conflictTable(l.Conflicts) + "\n"
}
