package bins_test

import (
	"math"
	"testing"

	"disagg/internal/bins"
)

func mustAxis(t *testing.T, edges ...float64) bins.Axis {
	t.Helper()
	a, err := bins.NewAxis(edges)
	if err != nil {
		t.Fatalf("NewAxis(%v): %v", edges, err)
	}
	return a
}

func TestUniformAxis(t *testing.T) {
	// The default magnitude axis: 9 bins centered on 5.0, 5.5, ..., 9.0.
	a, err := bins.UniformAxis(5, 9, 0.5)
	if err != nil {
		t.Fatalf("UniformAxis: %v", err)
	}
	if a.Len() != 9 {
		t.Fatalf("Len = %d, want 9", a.Len())
	}
	edges, centers := a.Edges(), a.Centers()
	if len(edges) != len(centers)+1 {
		t.Fatalf("len(edges)=%d, len(centers)=%d", len(edges), len(centers))
	}
	if edges[0] != 4.75 || edges[9] != 9.25 {
		t.Errorf("edges = %v", edges)
	}
	if centers[0] != 5 || centers[8] != 9 {
		t.Errorf("centers = %v", centers)
	}
}

func TestUniformAxisErrors(t *testing.T) {
	tests := []struct {
		name  string
		first float64
		count int
		delta float64
	}{
		{"zero count", 5, 0, 0.5},
		{"zero delta", 5, 3, 0},
		{"negative delta", 5, 3, -1},
		{"NaN first", math.NaN(), 3, 1},
	}
	for _, tc := range tests {
		if _, err := bins.UniformAxis(tc.first, tc.count, tc.delta); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestNewAxisErrors(t *testing.T) {
	tests := []struct {
		name  string
		edges []float64
	}{
		{"empty", nil},
		{"single edge", []float64{1}},
		{"decreasing", []float64{1, 3, 2}},
		{"repeated", []float64{1, 2, 2}},
		{"infinite", []float64{1, math.Inf(1)}},
		{"NaN", []float64{math.NaN(), 1}},
	}
	for _, tc := range tests {
		if _, err := bins.NewAxis(tc.edges); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestNewAxisCopiesEdges(t *testing.T) {
	edges := []float64{0, 10, 30}
	a := mustAxis(t, edges...)
	edges[1] = 99
	if a.Edge(1) != 10 {
		t.Errorf("axis aliased its input: Edge(1) = %v", a.Edge(1))
	}
	if a.Center(1) != 20 {
		t.Errorf("Center(1) = %v, want 20", a.Center(1))
	}
}

// Every value strictly inside [edges[i], edges[i+1]) maps to i, and the
// upper edge itself maps to i+1.
func TestAxisIndexMembership(t *testing.T) {
	a := mustAxis(t, 0, 1, 2, 5, 10, 20, 50, 100, 200)
	edges := a.Edges()
	for i := 0; i < a.Len(); i++ {
		lo, hi := edges[i], edges[i+1]
		for _, f := range []float64{0, 0.25, 0.5, 0.999} {
			v := lo + f*(hi-lo)
			if got, ok := a.Index(v); !ok || got != i {
				t.Errorf("Index(%v) = %d,%v, want %d", v, got, ok, i)
			}
		}
		got, ok := a.Index(hi)
		if i+1 < a.Len() {
			if !ok || got != i+1 {
				t.Errorf("Index(edge %v) = %d,%v, want upper bin %d", hi, got, ok, i+1)
			}
		} else if ok {
			t.Errorf("Index(last edge %v) = %d, want out of bounds", hi, got)
		}
	}
}

func TestAxisIndexOutOfBounds(t *testing.T) {
	a := mustAxis(t, 6.0, 6.5, 7.0)
	for _, v := range []float64{5.99, 7.0, 7.5, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if i, ok := a.Index(v); ok {
			t.Errorf("Index(%v) = %d, want out of bounds", v, i)
		}
	}
}

func TestAxisIndexInternalEdge(t *testing.T) {
	a := mustAxis(t, 6.0, 6.5, 7.0)
	if i, ok := a.Index(6.5); !ok || i != 1 {
		t.Errorf("Index(6.5) = %d,%v, want 1", i, ok)
	}
	if i, ok := a.Index(6.0); !ok || i != 0 {
		t.Errorf("Index(6.0) = %d,%v, want 0", i, ok)
	}
}

func TestEpsilonIndex(t *testing.T) {
	tests := []struct {
		eps  float64
		want int
	}{
		{math.Inf(-1), 0},
		{-3, 0},
		{-2, 0},
		{-1.5, 1},
		{-1, 1},
		{-0.75, 2},
		{-0.5, 2},
		{-0.1, 3},
		{0, 3},
		{0.1, 4},
		{0.5, 4},
		{0.75, 5},
		{1, 5},
		{1.5, 6},
		{2, 6},
		{2.0001, 7},
		{math.Inf(1), 7},
	}
	for _, tc := range tests {
		if got := bins.EpsilonIndex(tc.eps); got != tc.want {
			t.Errorf("EpsilonIndex(%v) = %d, want %d", tc.eps, got, tc.want)
		}
	}
}

func TestEpsilonLabels(t *testing.T) {
	if got := bins.EpsilonRange(0); got != "Emode <= -2" {
		t.Errorf("EpsilonRange(0) = %q", got)
	}
	if got := bins.EpsilonRange(7); got != "2.0 < Emode " {
		t.Errorf("EpsilonRange(7) = %q", got)
	}
	if got := bins.EpsilonRange(8); got != "Incorrect Index" {
		t.Errorf("EpsilonRange(8) = %q", got)
	}
	for i := 0; i < bins.NumEpsilon; i++ {
		if bins.EpsilonHeader(i) == "" {
			t.Errorf("EpsilonHeader(%d) empty", i)
		}
	}
}

func TestGridIndexAndOffset(t *testing.T) {
	mag := mustAxis(t, 6.0, 6.5, 7.0)
	dist := mustAxis(t, 0, 10, 50)
	g, err := bins.NewGrid(mag, dist)
	if err != nil {
		t.Fatal(err)
	}
	if g.Size() != 2*2*bins.NumEpsilon {
		t.Fatalf("Size = %d", g.Size())
	}

	c, ok := g.Index(6.5, 10, 0.3)
	if !ok {
		t.Fatal("expected in bounds")
	}
	if c != (bins.Cell{Dist: 1, Mag: 1, Eps: 4}) {
		t.Errorf("cell = %+v", c)
	}
	if got := g.Offset(c); got != g.Size()-bins.NumEpsilon+4 {
		t.Errorf("Offset = %d", got)
	}

	if _, ok := g.Index(7.0, 10, 0); ok {
		t.Error("magnitude on last edge should be out of bounds")
	}
	if _, ok := g.Index(6.2, 60, 0); ok {
		t.Error("distance beyond grid should be out of bounds")
	}
	if _, err := bins.NewGrid(bins.Axis{}, dist); err == nil {
		t.Error("expected error for empty magnitude axis")
	}
}
