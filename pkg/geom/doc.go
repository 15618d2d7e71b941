// Package geom provides the planar geometry the conflict engine is built on.
//
// Points are gonum [r2.Vec] values. On top of them the package offers
// segments, simple polygons stored as counter-clockwise rings, square-cap
// segment buffers, mitred growth of convex polygons, convex clipping and
// the chord search used to size displacement vectors.
//
// # Precision
//
// Every constructed coordinate is snapped to [Grid] before it is returned.
// Predicates compare against [Eps] (half a grid step) and areas against
// [AreaEps], so near-tangent shapes are reported as not intersecting instead
// of producing slivers. Callers treat such results as "nothing to do".
//
// # Convexity
//
// Buffers of stations and line segments are always convex. [Intersection]
// and [ClipLine] rely on that: the clip polygon must be convex, the subject
// may be any simple polygon.
//
// [r2.Vec]: https://pkg.go.dev/gonum.org/v1/gonum/spatial/r2#Vec
package geom
