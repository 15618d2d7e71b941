// Package conflict detects and ranks clearance and alignment conflicts in a
// schematic network.
//
// # Conflict kinds
//
// A buffer conflict is an overlap between the clearance buffers of two
// elements (see package buffer). Its [Type] records which elements overlap:
// two stations ([NodeNode]), a station and a segment ([NodeEdge]), two
// segments ([EdgeEdge]) or two stations joined by a segment
// ([AdjacentNodeNode], [AdjacentNodeNodeDiagonal]).
//
// An [Octilinear] conflict is an angular one: a segment whose direction is
// not one of the eight compass octants.
//
// Both kinds reduce to the same resolution recipe: a displacement [Axis],
// a distance along it and an origin point. Moving every node beyond the
// line through the origin, perpendicular to the axis, by the distance
// removes the conflict.
//
// # Geometry
//
// For buffer conflicts the displacement vector is the longest chord of the
// overlap polygon parallel to the line between the two element centroids.
// Its larger axis projection picks the axis (ties go to X) and the ceiling
// of that projection is the distance. See [NewBufferConflict].
//
// For octilinear conflicts the distance is |dx-dy| scaled by a correction
// factor, applied on the axis with the smaller delta. See [NewOctilinear].
//
// # Ordering
//
// [Compare] is an ascending total order: distance, vector length, type rank,
// vector X, vector Y, then element keys. [Find] returns conflicts in that
// order; [Worst] picks the maximum, which is what the resolvers process.
//
// Conflicts are snapshots. Any change to the graph makes them stale; run
// [Find] again instead of patching them.
package conflict
