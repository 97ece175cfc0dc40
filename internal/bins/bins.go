// Package bins maps continuous (magnitude, distance, epsilon) triples onto
// the disaggregation grid.
//
// Magnitude and distance axes are closed-open: a value exactly on an
// internal edge belongs to the upper bin, and the last edge is exclusive.
// Epsilon uses eight fixed bins, closed on the right, that cover the whole
// real line.
package bins

import (
	"fmt"
	"math"
	"sort"
)

// Axis is an ordered set of bin edges.
type Axis struct {
	edges   []float64
	centers []float64
}

// NewAxis builds an axis from explicit, strictly increasing edges.
func NewAxis(edges []float64) (Axis, error) {
	if len(edges) < 2 {
		return Axis{}, fmt.Errorf("bins: need at least 2 edges, got %d", len(edges))
	}
	for i, e := range edges {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return Axis{}, fmt.Errorf("bins: edge %d is not finite", i)
		}
		if i > 0 && !(e > edges[i-1]) {
			return Axis{}, fmt.Errorf("bins: edges not strictly increasing at %d (%v after %v)", i, e, edges[i-1])
		}
	}
	a := Axis{
		edges:   append([]float64(nil), edges...),
		centers: make([]float64, len(edges)-1),
	}
	for i := range a.centers {
		a.centers[i] = (a.edges[i] + a.edges[i+1]) / 2
	}
	return a, nil
}

// UniformAxis builds count bins of width delta whose first center is first.
func UniformAxis(first float64, count int, delta float64) (Axis, error) {
	if count < 1 {
		return Axis{}, fmt.Errorf("bins: count %d must be >= 1", count)
	}
	if !(delta > 0) || math.IsInf(delta, 0) {
		return Axis{}, fmt.Errorf("bins: delta %v must be positive and finite", delta)
	}
	if math.IsNaN(first) || math.IsInf(first, 0) {
		return Axis{}, fmt.Errorf("bins: first center %v is not finite", first)
	}
	a := Axis{
		edges:   make([]float64, count+1),
		centers: make([]float64, count),
	}
	a.edges[0] = first - delta/2
	for i := 0; i < count; i++ {
		a.centers[i] = first + float64(i)*delta
		a.edges[i+1] = a.centers[i] + delta/2
	}
	return a, nil
}

// Len is the number of bins.
func (a Axis) Len() int { return len(a.centers) }

// Edges returns a copy of the bin edges.
func (a Axis) Edges() []float64 { return append([]float64(nil), a.edges...) }

// Centers returns a copy of the bin centers.
func (a Axis) Centers() []float64 { return append([]float64(nil), a.centers...) }

// Edge returns edge i without copying.
func (a Axis) Edge(i int) float64 { return a.edges[i] }

// Center returns center i without copying.
func (a Axis) Center(i int) float64 { return a.centers[i] }

// Index returns the bin holding v. ok is false when v is below the first
// edge, at or above the last edge, or NaN.
func (a Axis) Index(v float64) (i int, ok bool) {
	// First edge strictly greater than v; NaN compares false and lands at
	// len(edges), which is out of bounds.
	j := sort.Search(len(a.edges), func(k int) bool { return a.edges[k] > v })
	if j == 0 || j == len(a.edges) {
		return -1, false
	}
	return j - 1, true
}

// Grid is the magnitude-distance grid; epsilon bins are fixed.
type Grid struct {
	Mag  Axis
	Dist Axis
}

// NewGrid checks that both axes are populated.
func NewGrid(mag, dist Axis) (Grid, error) {
	if mag.Len() == 0 {
		return Grid{}, fmt.Errorf("bins: empty magnitude axis")
	}
	if dist.Len() == 0 {
		return Grid{}, fmt.Errorf("bins: empty distance axis")
	}
	return Grid{Mag: mag, Dist: dist}, nil
}

// Cell addresses one (distance, magnitude, epsilon) bin.
type Cell struct {
	Dist, Mag, Eps int
}

// Index locates the cell for a triple. ok is false when magnitude or
// distance is outside the grid; epsilon always resolves.
func (g Grid) Index(mag, dist, eps float64) (c Cell, ok bool) {
	iMag, okMag := g.Mag.Index(mag)
	iDist, okDist := g.Dist.Index(dist)
	return Cell{Dist: iDist, Mag: iMag, Eps: EpsilonIndex(eps)}, okMag && okDist
}

// Size is the number of cells in the grid.
func (g Grid) Size() int { return g.Dist.Len() * g.Mag.Len() * NumEpsilon }

// Offset flattens c into a distance-major, then magnitude, then epsilon
// index.
func (g Grid) Offset(c Cell) int {
	return (c.Dist*g.Mag.Len()+c.Mag)*NumEpsilon + c.Eps
}
