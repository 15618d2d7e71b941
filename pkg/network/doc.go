// Package network provides the schematic graph model: stations, the line
// segments between them and the routes drawn along those segments.
//
// # Overview
//
// A [Graph] owns [Node] and [Edge] values. Nodes carry a mutable position,
// a stable name and numeric ID, and references to their incident edges.
// Edges are unordered endpoint pairs carrying one or more [Route] values; an
// edge's drawn width is the sum of its route widths.
//
// Derived geometry is computed on read: [Edge.Segment] and [Edge.Direction]
// always reflect the current endpoint positions, and [Node.Signature] is
// always centered on the node. Nothing has to be rebuilt after a move.
//
// # Directions
//
// [Direction] is the arbitrary-angle direction of an edge. Octilinear
// layouts lock every edge to one of the eight [Octant] values (multiples of
// 45°). [Direction.Octilinear] tests that within [OctilinearTolerance] and
// [Direction.Deviation] measures how far off an edge is.
//
// # Mutation
//
// Positions change through [Graph.MoveNode], [Graph.Translate] and
// [Graph.Scale]; topology changes through [Graph.AddEdge],
// [Graph.RemoveEdge] and [Graph.SplitEdge], which inserts bend nodes.
// All positions are snapped to the [geom.Grid].
//
// A Graph is not safe for concurrent mutation. Concurrent reads are safe.
package network
