// Package repair restores octilinearity of edges knocked off-grid by node
// displacement.
//
// For a misaligned edge both endpoints get an adjustment cost ([Cost]):
// how much of the network would have to follow if that endpoint moved.
// The cheaper endpoint is moved along an axis by |dx-dy|, which turns the
// edge diagonal. When both endpoints are too expensive the edge is split
// with one or two bend nodes instead.
//
// A move can knock other edges at the moved node off-grid. Those edges are
// queued and repaired in turn; every queued edge carries the set of nodes
// moved on its way, and moving any of them again is priced at
// [Options.CyclePenalty], which pushes the repair towards bends and
// guarantees termination on cyclic networks.
//
// Nothing in this package fails: a move that would overlap a station or
// cross another segment is skipped and reported as [Rejected], leaving the
// edge for a later pass.
package repair
