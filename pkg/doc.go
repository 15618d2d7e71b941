// Package pkg holds the octomap libraries.
//
// # Overview
//
// Octomap spaces out octilinear transit maps. Every station and line
// segment is dressed with a buffer, the area its drawing occupies; two
// overlapping buffers are a conflict, and so is a segment that strays from
// the eight compass directions. The resolver removes conflicts by scaling
// the whole map or by moving stations apart one conflict at a time,
// repairing the segments each move bends off the grid.
//
// The packages, from the bottom up:
//
//  1. [geom] - points, segments, polygons and clipping
//  2. [network] - the station graph, station signatures and directions
//  3. [buffer] - node and edge buffers from margins
//  4. [conflict] - detection, classification and ordering
//  5. [repair] - octilinear repair with cost estimates and cycle checks
//  6. [resolve] - the scale and displacement resolvers
//  7. [graph] - JSON/YAML graph files and layout files
//  8. [pipeline] - end-to-end runs with caching, shared by CLI and API
//
// Around them sit [cache] (file, redis, mongo), [render] (graphviz
// drawing), [config] (TOML settings), [api] (the HTTP server),
// [observability] (hooks, with a Prometheus implementation) and [errors].
//
// # Data Flow
//
//	graph file (JSON/YAML)
//	         ↓
//	    [graph] package (decode into a network.Graph)
//	         ↓
//	    [conflict] package (find and rank conflicts)
//	         ↓
//	    [resolve] package (scale and/or displace, calling [repair])
//	         ↓
//	    layout file / SVG / PNG
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/octomap/pkg/graph"
//	    "github.com/matzehuels/octomap/pkg/resolve"
//	)
//
//	g, _ := graph.ReadGraphFile("berlin.json")
//	rep, _ := resolve.Displace(g, resolve.Options{})
//	if !rep.Solved {
//	    // rep.Remaining lists what is left, worst first
//	}
//	graph.WriteLayoutFile(graph.NewLayout(g, nil, rep), "berlin.layout.json")
//
// Most callers go through [pipeline.Runner] instead, which works on a copy
// of the graph and caches results.
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/octomap/pkg/geom
// [network]: https://pkg.go.dev/github.com/matzehuels/octomap/pkg/network
// [buffer]: https://pkg.go.dev/github.com/matzehuels/octomap/pkg/buffer
// [conflict]: https://pkg.go.dev/github.com/matzehuels/octomap/pkg/conflict
// [repair]: https://pkg.go.dev/github.com/matzehuels/octomap/pkg/repair
// [resolve]: https://pkg.go.dev/github.com/matzehuels/octomap/pkg/resolve
// [graph]: https://pkg.go.dev/github.com/matzehuels/octomap/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/octomap/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/octomap/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/octomap/pkg/cache
// [render]: https://pkg.go.dev/github.com/matzehuels/octomap/pkg/render
// [config]: https://pkg.go.dev/github.com/matzehuels/octomap/pkg/config
// [api]: https://pkg.go.dev/github.com/matzehuels/octomap/pkg/api
// [observability]: https://pkg.go.dev/github.com/matzehuels/octomap/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/octomap/pkg/errors
package pkg
