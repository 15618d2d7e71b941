// Package resolve removes conflicts from a schematic.
//
// Two strategies are provided:
//
//   - [Scale] spreads the whole map by a uniform factor about the origin.
//     Angles are preserved, so octilinear edges stay octilinear, but the map
//     grows with every pass. It only looks at buffer overlaps.
//   - [Displace] works on one conflict at a time. It splits the map by a
//     line through the conflict's origin, perpendicular to the conflict's
//     best axis, and shifts everything beyond the line by the conflict's
//     distance. Edges that cross the line and end up off-grid are handed to
//     [repair.Repair].
//
// Both run a bounded number of passes. Running out of passes is not an
// error: the [Report] carries the remaining conflicts and the graph holds
// the best layout found so far.
//
// Passes are strictly sequential. Each recomputes the full conflict set
// from the current positions before choosing what to move.
package resolve
