// Package render draws station graphs with Graphviz.
//
// # Overview
//
// [ToDOT] turns a [network.Graph] into DOT source for the neato engine with
// every node pinned at its map position, so Graphviz only draws and never
// lays anything out. Stations keep their signature shape and size, edges
// are stroked in their route colors, and bend nodes shrink to points.
//
// With [Options.Overlay] set, conflicts are drawn on top: a red dot at each
// conflict origin and dashed red strokes on misaligned edges.
//
//	dot := render.ToDOT(g, layout.Conflicts, render.Options{Overlay: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Units
//
// Map units become points through [Options.Scale]. The DOT output sets
// inputscale=72, so pos attributes are in points as well.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering. No external Graphviz install is needed.
package render
