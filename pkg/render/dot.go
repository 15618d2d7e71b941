package render

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/octomap/pkg/conflict"
	"github.com/matzehuels/octomap/pkg/graph"
	"github.com/matzehuels/octomap/pkg/network"
)

// DefaultScale is the number of points drawn per map unit.
const DefaultScale = 10.0

const (
	overlayColor = "red"
	edgeColor    = "black"
	pointsPerIn  = 72.0
)

// Options configures DOT generation.
type Options struct {
	// Scale is the number of points per map unit. Zero means DefaultScale.
	Scale float64

	// RouteMargin is passed to station signatures so drawn stations match
	// the buffers the resolver used.
	RouteMargin float64

	// Overlay draws conflicts on top of the map.
	Overlay bool

	// Labels writes station names next to stations.
	Labels bool
}

func (o Options) scale() float64 {
	if o.Scale <= 0 {
		return DefaultScale
	}
	return o.Scale
}

// ToDOT converts g to Graphviz DOT with pinned node positions. Conflicts
// are only drawn when opts.Overlay is set; cs may be nil otherwise.
func ToDOT(g *network.Graph, cs []graph.ConflictView, opts Options) string {
	s := opts.scale()

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  node [label=\"\", fixedsize=true, style=filled, fillcolor=white, color=black, fontsize=10];\n")
	buf.WriteString("\n")

	shape := "square"
	if _, ok := g.Signature().(network.OctagonSignature); ok {
		shape = "octagon"
	}
	for _, n := range g.Nodes() {
		attrs := []string{"pos=" + quote(pos(n.Position().X*s, n.Position().Y*s))}
		if n.IsBend() {
			attrs = append(attrs, "shape=point", "width=0.02")
		} else {
			box := n.Signature(opts.RouteMargin).Envelope()
			attrs = append(attrs,
				"shape="+shape,
				"width="+num((box.Max.X-box.Min.X)*s/pointsPerIn),
				"height="+num((box.Max.Y-box.Min.Y)*s/pointsPerIn))
			if opts.Labels {
				attrs = append(attrs, "xlabel="+quote(n.Name))
			}
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", quote(n.Name), strings.Join(attrs, ", "))
	}

	misaligned := make(map[[2]string]bool)
	if opts.Overlay {
		for _, c := range cs {
			if c.Type == conflict.Octilinear.String() {
				misaligned[c.Elements] = true
			}
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		color, style := edgeColors(e), "solid"
		if misaligned[[2]string{e.From().Name, e.To().Name}] {
			color, style = overlayColor, "dashed"
		}
		fmt.Fprintf(&buf, "  %s -- %s [color=%s, style=%s, penwidth=%s];\n",
			quote(e.From().Name), quote(e.To().Name), quote(color), style,
			num(math.Max(e.BundleWidth(opts.RouteMargin)*s, 1)))
	}

	if opts.Overlay && len(cs) > 0 {
		buf.WriteString("\n")
		for i, c := range cs {
			fmt.Fprintf(&buf, "  %s [pos=%s, shape=circle, width=0.08, color=%s, fillcolor=%s, tooltip=%s];\n",
				quote(fmt.Sprintf("conflict %d", i+1)),
				quote(pos(c.Origin.X*s, c.Origin.Y*s)),
				overlayColor, overlayColor,
				quote(fmt.Sprintf("%s %s/%s %s+%s", c.Type, c.Elements[0], c.Elements[1], c.Axis, num(c.Distance))))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// edgeColors returns the route colors of e as a Graphviz color list, which
// draws one parallel stroke per route.
func edgeColors(e *network.Edge) string {
	var colors []string
	for _, r := range e.Routes() {
		if r.Color != "" {
			colors = append(colors, r.Color)
		}
	}
	if len(colors) == 0 {
		return edgeColor
	}
	return strings.Join(colors, ":")
}

func pos(x, y float64) string {
	return num(x) + "," + num(y) + "!"
}

// num formats f with at most four decimals.
func num(f float64) string {
	f = math.Round(f*1e4) / 1e4
	if f == 0 {
		f = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// quote returns s as a DOT string. Names never contain double quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `\`, `\\`) + `"`
}
