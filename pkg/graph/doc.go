// Package graph provides the file formats of octomap: graph files going in
// and layout files coming out.
//
// This package sits at the serialization boundary. The core packages
// (network, conflict, resolve) never parse or write files; the CLI and the
// API server convert through here.
//
//   - [Graph]: stations, segments and the routes drawn along them
//   - [Layout]: a resolved graph plus the conflicts left on it and a record
//     of every resolver pass
//
// # Graph Files
//
// Graphs are JSON or YAML with the same field names:
//
//	{
//	  "routes": [{"name": "U1", "width": 2, "color": "#3c9"}],
//	  "nodes": [{"name": "a", "x": 0, "y": 0}, {"name": "b", "x": 10, "y": 5}],
//	  "edges": [{"from": "a", "to": "b", "routes": ["U1"]}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("map.yaml")   // File → network.Graph
//	graph.WriteGraphFile(g, "out.json")       // network.Graph → File
//	data, _ := graph.MarshalGraph(g)          // network.Graph → []byte
//
// Output is deterministic: nodes and edges keep graph order and routes are
// sorted by name, so equal graphs marshal to equal bytes. The pipeline
// hashes these bytes for its cache keys.
package graph
