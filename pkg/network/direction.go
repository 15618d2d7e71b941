package network

import (
	"math"

	"github.com/golang/geo/s1"

	"github.com/matzehuels/octomap/pkg/geom"
)

// OctilinearTolerance is the coordinate slack allowed when testing whether
// a direction is octilinear. It covers the snapping error of both endpoints.
const OctilinearTolerance = 10 * geom.Grid

// Octant is one of the eight compass directions of an octilinear layout,
// counter-clockwise from east.
type Octant int

const (
	East Octant = iota
	NorthEast
	North
	NorthWest
	West
	SouthWest
	South
	SouthEast
)

var octantNames = [...]string{"E", "NE", "N", "NW", "W", "SW", "S", "SE"}

func (o Octant) String() string { return octantNames[o.norm()] }

func (o Octant) norm() Octant { return ((o % 8) + 8) % 8 }

// Angle returns the octant's angle measured counter-clockwise from east.
func (o Octant) Angle() s1.Angle {
	return s1.Angle(o.norm()) * 45 * s1.Degree
}

// Opposite returns the octant pointing the other way.
func (o Octant) Opposite() Octant { return (o + 4).norm() }

// Diagonal reports whether o is one of NE, NW, SW, SE.
func (o Octant) Diagonal() bool { return o.norm()%2 == 1 }

// Vector returns the octant's step vector. Axis octants have unit length;
// diagonal octants move one unit on both axes.
func (o Octant) Vector() geom.Point {
	switch o.norm() {
	case East:
		return geom.Pt(1, 0)
	case NorthEast:
		return geom.Pt(1, 1)
	case North:
		return geom.Pt(0, 1)
	case NorthWest:
		return geom.Pt(-1, 1)
	case West:
		return geom.Pt(-1, 0)
	case SouthWest:
		return geom.Pt(-1, -1)
	case South:
		return geom.Pt(0, -1)
	default:
		return geom.Pt(1, -1)
	}
}

// Direction is the arbitrary-angle direction of a segment, kept as the raw
// coordinate delta so octilinearity can be tested without trigonometry.
type Direction struct {
	DX, DY float64
}

// DirectionOf returns the direction from a to b.
func DirectionOf(a, b geom.Point) Direction {
	return Direction{DX: b.X - a.X, DY: b.Y - a.Y}
}

// Zero reports whether the direction has no length.
func (d Direction) Zero() bool {
	return math.Abs(d.DX) <= geom.Eps && math.Abs(d.DY) <= geom.Eps
}

// Angle returns the direction's angle in [0, 2π) counter-clockwise from east.
func (d Direction) Angle() s1.Angle {
	a := s1.Angle(math.Atan2(d.DY, d.DX))
	if a < 0 {
		a += 2 * math.Pi * s1.Radian
	}
	return a
}

// Nearest returns the closest octant.
func (d Direction) Nearest() Octant {
	o := Octant(math.Round(d.Angle().Degrees() / 45))
	return o.norm()
}

// Deviation returns the angular distance to the nearest octant, in
// [0°, 22.5°].
func (d Direction) Deviation() s1.Angle {
	if d.Zero() {
		return 0
	}
	return (d.Angle() - d.Nearest().Angle()).Normalized().Abs()
}

// Octilinear reports whether the direction lies on one of the eight
// octants within [OctilinearTolerance]. A zero direction is octilinear.
func (d Direction) Octilinear() bool {
	ax, ay := math.Abs(d.DX), math.Abs(d.DY)
	return ax <= OctilinearTolerance || ay <= OctilinearTolerance ||
		math.Abs(ax-ay) <= OctilinearTolerance
}

// Within reports whether the deviation from the nearest octant is at most
// tol. A zero tolerance falls back to [Direction.Octilinear].
func (d Direction) Within(tol s1.Angle) bool {
	if tol <= 0 {
		return d.Octilinear()
	}
	return d.Octilinear() || d.Deviation() <= tol
}

func (d Direction) String() string {
	if d.Octilinear() {
		return d.Nearest().String()
	}
	return d.Angle().String()
}
