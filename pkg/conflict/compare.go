package conflict

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/octomap/pkg/geom"
)

// Compare orders conflicts ascending by distance, vector length, type rank,
// vector X and vector Y. Element keys break any remaining tie, so the order
// is total.
func Compare(a, b Conflict) int {
	if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
		return c
	}
	if c := cmp.Compare(geom.Snap(a.Length()), geom.Snap(b.Length())); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Type.Rank(), b.Type.Rank()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Vector.X, b.Vector.X); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Vector.Y, b.Vector.Y); c != 0 {
		return c
	}
	return strings.Compare(a.Key(), b.Key())
}

// Sort sorts cs ascending by [Compare].
func Sort(cs []Conflict) {
	slices.SortFunc(cs, Compare)
}

// Worst returns the largest conflict under [Compare].
func Worst(cs []Conflict) (Conflict, bool) {
	if len(cs) == 0 {
		return Conflict{}, false
	}
	return slices.MaxFunc(cs, Compare), true
}

// WorstFirst returns a copy of cs sorted from the largest conflict down.
func WorstFirst(cs []Conflict) []Conflict {
	out := slices.Clone(cs)
	slices.SortFunc(out, func(a, b Conflict) int { return Compare(b, a) })
	return out
}
