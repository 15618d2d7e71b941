package conflict

import (
	"testing"

	"github.com/matzehuels/octomap/pkg/geom"
)

func TestCompare(t *testing.T) {
	base := Conflict{Type: EdgeEdge, Distance: 3, Vector: geom.Pt(3, 1)}

	tests := []struct {
		name string
		a, b Conflict
		want int
	}{
		{"distance", base, Conflict{Type: EdgeEdge, Distance: 4, Vector: geom.Pt(3, 1)}, -1},
		{"length", base, Conflict{Type: EdgeEdge, Distance: 3, Vector: geom.Pt(3, 2)}, -1},
		{"rank", base, Conflict{Type: NodeNode, Distance: 3, Vector: geom.Pt(3, 1)}, -1},
		{"rank adjacent below edges", Conflict{Type: AdjacentNodeNode, Distance: 3, Vector: geom.Pt(3, 1)}, base, -1},
		{"vector x", Conflict{Type: EdgeEdge, Distance: 3, Vector: geom.Pt(1, 3)}, base, -1},
		{"equal", base, base, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare() = %d, want %d", got, tt.want)
			}
			if got := Compare(tt.b, tt.a); got != -tt.want {
				t.Errorf("reverse Compare() = %d, want %d", got, -tt.want)
			}
		})
	}
}

func TestWorst(t *testing.T) {
	if _, ok := Worst(nil); ok {
		t.Error("Worst(nil) ok = true")
	}
	cs := []Conflict{
		{Type: NodeEdge, Distance: 2, Vector: geom.Pt(2, 0)},
		{Type: EdgeEdge, Distance: 5, Vector: geom.Pt(5, 0)},
		{Type: NodeNode, Distance: 5, Vector: geom.Pt(5, 0)},
		{Type: Octilinear, Distance: 1, Vector: geom.Pt(0, 1)},
	}
	w, ok := Worst(cs)
	if !ok || w.Type != NodeNode {
		t.Errorf("Worst() = %v, want the NODE_NODE conflict", w)
	}

	wf := WorstFirst(cs)
	if wf[0].Type != NodeNode || wf[len(wf)-1].Type != Octilinear {
		t.Errorf("WorstFirst() = %v", wf)
	}
	Sort(cs)
	if cs[0].Type != Octilinear || cs[3].Type != NodeNode {
		t.Errorf("Sort() = %v", cs)
	}
}

func TestTypeText(t *testing.T) {
	for typ := Octilinear; typ <= NodeNode; typ++ {
		b, _ := typ.MarshalText()
		var got Type
		if err := got.UnmarshalText(b); err != nil || got != typ {
			t.Errorf("round trip %v = %v, %v", typ, got, err)
		}
	}
	var bad Type
	if err := bad.UnmarshalText([]byte("NOPE")); err == nil {
		t.Error("UnmarshalText(NOPE) error = nil")
	}
}
