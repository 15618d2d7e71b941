package geom

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-3 }

func TestSnap(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.1 + 0.2, 0.3},
		{1.00004, 1},
		{1.00006, 1.0001},
		{-0.00001, 0},
		{12345.6789, 12345.6789},
	}
	for _, tt := range tests {
		if got := Snap(tt.in); got != tt.want {
			t.Errorf("Snap(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := Snap(-0.00001); math.Signbit(got) {
		t.Errorf("Snap(-0.00001) = %v, want positive zero", got)
	}
}

func TestSide(t *testing.T) {
	o := Pt(5, 0)
	n := Pt(1, 0)
	if got := Side(Pt(6, 3), o, n); got != 1 {
		t.Errorf("Side(front) = %d, want 1", got)
	}
	if got := Side(Pt(4, -3), o, n); got != -1 {
		t.Errorf("Side(behind) = %d, want -1", got)
	}
	if got := Side(Pt(5, 100), o, n); got != 0 {
		t.Errorf("Side(on line) = %d, want 0", got)
	}
}

func TestSegmentNearestPoint(t *testing.T) {
	s := Seg(Pt(0, 0), Pt(10, 0))
	tests := []struct {
		p, want Point
	}{
		{Pt(5, 5), Pt(5, 0)},
		{Pt(-3, 1), Pt(0, 0)},
		{Pt(20, -1), Pt(10, 0)},
	}
	for _, tt := range tests {
		if got := s.NearestPoint(tt.p); !Equal(got, tt.want) {
			t.Errorf("NearestPoint(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestSegmentCrosses(t *testing.T) {
	tests := []struct {
		name string
		a, b Segment
		want bool
	}{
		{"x shape", Seg(Pt(0, 0), Pt(10, 10)), Seg(Pt(0, 10), Pt(10, 0)), true},
		{"t junction", Seg(Pt(0, 0), Pt(10, 0)), Seg(Pt(5, 0), Pt(5, 5)), true},
		{"shared endpoint", Seg(Pt(0, 0), Pt(10, 0)), Seg(Pt(10, 0), Pt(10, 10)), false},
		{"parallel", Seg(Pt(0, 0), Pt(10, 0)), Seg(Pt(0, 1), Pt(10, 1)), false},
		{"disjoint", Seg(Pt(0, 0), Pt(1, 1)), Seg(Pt(5, 5), Pt(6, 7)), false},
		{"collinear overlap", Seg(Pt(0, 0), Pt(10, 0)), Seg(Pt(5, 0), Pt(15, 0)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Crosses(tt.b); got != tt.want {
				t.Errorf("Crosses() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Crosses(tt.a); got != tt.want {
				t.Errorf("reverse Crosses() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuffer(t *testing.T) {
	p := Buffer(Seg(Pt(0, 0), Pt(10, 0)), 2)
	if got := p.Area(); !near(got, 14*4) {
		t.Errorf("Area() = %v, want %v", got, 56)
	}
	if p.SignedArea() <= 0 {
		t.Error("Buffer() ring is not counter-clockwise")
	}
	env := p.Envelope()
	if !near(env.Min.X, -2) || !near(env.Max.X, 12) || !near(env.Min.Y, -2) || !near(env.Max.Y, 2) {
		t.Errorf("Envelope() = %v, want [-2,-2]x[12,2]", env)
	}

	diag := Buffer(Seg(Pt(0, 0), Pt(10, 10)), 1)
	if got, want := diag.Area(), (math.Sqrt(200)+2)*2; !near(got, want) {
		t.Errorf("diagonal Area() = %v, want %v", got, want)
	}

	dot := Buffer(Seg(Pt(3, 3), Pt(3, 3)), 1)
	if got := dot.Area(); !near(got, 4) {
		t.Errorf("degenerate Area() = %v, want 4", got)
	}
}

func TestGrow(t *testing.T) {
	sq := Rect(Pt(0, 0), 1, 1)
	g := Grow(sq, 1)
	if got := g.Area(); !near(got, 16) {
		t.Errorf("Grow().Area() = %v, want 16", got)
	}
	if c := g.Centroid(); !Equal(c, Pt(0, 0)) {
		t.Errorf("Grow().Centroid() = %v, want origin", c)
	}
	if got := Grow(sq, 0).Area(); !near(got, 4) {
		t.Errorf("Grow(0).Area() = %v, want 4", got)
	}
}

func TestIntersection(t *testing.T) {
	a := Rect(Pt(0, 0), 10, 10)

	t.Run("overlap", func(t *testing.T) {
		got := Intersection(a, Rect(Pt(10, 0), 10, 10))
		if got == nil {
			t.Fatal("Intersection() = nil, want rectangle")
		}
		if area := got.Area(); !near(area, 200) {
			t.Errorf("Area() = %v, want 200", area)
		}
		if c := got.Centroid(); !Equal(c, Pt(5, 0)) {
			t.Errorf("Centroid() = %v, want (5,0)", c)
		}
	})

	t.Run("touching", func(t *testing.T) {
		if got := Intersection(a, Rect(Pt(20, 0), 10, 10)); got != nil {
			t.Errorf("Intersection() = %v, want nil", got)
		}
		if InteriorsIntersect(a, Rect(Pt(20, 0), 10, 10)) {
			t.Error("InteriorsIntersect() = true for touching squares")
		}
	})

	t.Run("disjoint", func(t *testing.T) {
		if InteriorsIntersect(a, Rect(Pt(50, 50), 1, 1)) {
			t.Error("InteriorsIntersect() = true for disjoint squares")
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		b := Buffer(Seg(Pt(-20, 3), Pt(20, 7)), 2)
		ab, ba := Intersection(a, b), Intersection(b, a)
		if !near(ab.Area(), ba.Area()) {
			t.Errorf("areas differ: %v vs %v", ab.Area(), ba.Area())
		}
		if !Equal(ab.Centroid(), ba.Centroid()) {
			t.Errorf("centroids differ: %v vs %v", ab.Centroid(), ba.Centroid())
		}
	})

	t.Run("concave subject", func(t *testing.T) {
		// L shape around the origin square's top-right corner.
		l := Polygon{Pt(0, 0), Pt(20, 0), Pt(20, 20), Pt(15, 20), Pt(15, 5), Pt(0, 5)}
		got := Intersection(l, a)
		if area := got.Area(); !near(area, 50) {
			t.Errorf("Area() = %v, want 50", area)
		}
	})
}

func TestSplit(t *testing.T) {
	sq := Rect(Pt(0, 0), 10, 10)
	behind, front := Split(sq, Pt(5, 0), Pt(1, 0))
	if !near(behind.Area(), 300) || !near(front.Area(), 100) {
		t.Errorf("Split() areas = %v, %v, want 300, 100", behind.Area(), front.Area())
	}
	_, none := Split(sq, Pt(20, 0), Pt(1, 0))
	if none != nil {
		t.Errorf("Split() front = %v, want nil", none)
	}
}

func TestLongestParallelChord(t *testing.T) {
	tests := []struct {
		name string
		poly Polygon
		dir  Point
		want float64
	}{
		{"rect along x", Rect(Pt(5, 0), 5, 10), Pt(1, 0), 10},
		{"rect along y", Rect(Pt(5, 0), 5, 10), Pt(0, -3), 20},
		{"square diagonal", Rect(Pt(0, 0), 5, 5), Pt(1, 1), math.Sqrt(200)},
		{"triangle", Polygon{Pt(0, 0), Pt(10, 0), Pt(0, 10)}, Pt(1, 0), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chord, ok := LongestParallelChord(tt.poly, tt.dir)
			if !ok {
				t.Fatal("LongestParallelChord() ok = false")
			}
			if got := chord.Length(); !near(got, tt.want) {
				t.Errorf("Length() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, ok := LongestParallelChord(nil, Pt(1, 0)); ok {
		t.Error("LongestParallelChord(nil) ok = true")
	}
}

func TestQuad(t *testing.T) {
	t.Run("parallel", func(t *testing.T) {
		q, ok := Quad(Seg(Pt(0, 0), Pt(10, 0)), Seg(Pt(0, 5), Pt(10, 5)))
		if !ok || !near(q.Area(), 50) {
			t.Errorf("Quad() = %v, %v, want area 50", q, ok)
		}
	})
	t.Run("crossing", func(t *testing.T) {
		q, ok := Quad(Seg(Pt(0, 0), Pt(10, 10)), Seg(Pt(0, 10), Pt(10, 0)))
		if !ok || !near(q.Area(), 100) {
			t.Errorf("Quad() = %v, %v, want area 100", q, ok)
		}
	})
	t.Run("collinear", func(t *testing.T) {
		if _, ok := Quad(Seg(Pt(0, 0), Pt(10, 0)), Seg(Pt(20, 0), Pt(30, 0))); ok {
			t.Error("Quad() ok = true for collinear segments")
		}
	})
}

func TestPolygonContains(t *testing.T) {
	sq := Rect(Pt(0, 0), 2, 2)
	for _, tt := range []struct {
		p    Point
		want bool
	}{
		{Pt(0, 0), true},
		{Pt(2, 0), true},
		{Pt(3, 0), false},
	} {
		if got := sq.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}
