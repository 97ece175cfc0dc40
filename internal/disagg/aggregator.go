package disagg

import (
	"errors"
	"math"

	"disagg/internal/bins"
	"disagg/internal/hazard"
)

var errUndefinedEpsilon = errors.New("model returned NaN epsilon for a rupture with exceedance probability below 1")

// Aggregator accumulates the samples of one run. It belongs to exactly one
// Disaggregate call and is not safe for concurrent use.
type Aggregator struct {
	grid  bins.Grid
	cells []float64 // raw rates, offset by grid.Offset

	totalRate       float64
	outOfBoundsRate float64
	magSum          float64
	distSum         float64
	epsSum          float64
	epsRate         float64 // rate whose epsilon is finite

	trackSources bool
	sourceRate   float64
	sources      []SourceContribution

	rejected  int
	finalized bool
}

// NewAggregator returns a zeroed aggregator over grid. With trackSources,
// per-source totals are kept for ranking.
func NewAggregator(grid bins.Grid, trackSources bool) *Aggregator {
	return &Aggregator{
		grid:         grid,
		cells:        make([]float64, grid.Size()),
		trackSources: trackSources,
	}
}

// Accumulate adds s to the grid and running sums. Samples whose rate is not
// positive change nothing. inBounds is false when the rate went to the
// out-of-bounds total instead of a cell.
//
// A NaN epsilon is only accepted with a conditional probability of exactly
// 1: the level is exceeded for any epsilon, so the rate goes to the lowest
// epsilon bin. Such rate counts toward every total except the mean epsilon.
func (a *Aggregator) Accumulate(s Sample) (inBounds bool, err error) {
	if a.finalized {
		return false, ErrFinalized
	}
	if !(s.Rate > 0) {
		return false, nil
	}
	eps := s.Epsilon
	if math.IsNaN(eps) {
		if s.CondProb != 1 {
			return false, errUndefinedEpsilon
		}
		eps = math.Inf(-1)
	}

	cell, ok := a.grid.Index(s.Mag, s.Dist, eps)
	if ok {
		a.cells[a.grid.Offset(cell)] += s.Rate
	} else {
		a.outOfBoundsRate += s.Rate
	}

	a.totalRate += s.Rate
	a.magSum += s.Rate * s.Mag
	a.distSum += s.Rate * s.Dist
	if !math.IsInf(eps, 0) {
		a.epsSum += s.Rate * eps
		a.epsRate += s.Rate
	}
	a.sourceRate += s.Rate
	return ok, nil
}

// Reject counts a rupture dropped by the magnitude-distance filter.
func (a *Aggregator) Reject() { a.rejected++ }

// EndSource closes the running total of the current source.
func (a *Aggregator) EndSource(id int, src hazard.Source) {
	if a.trackSources {
		a.sources = append(a.sources, SourceContribution{
			ID:     id,
			Name:   src.Name(),
			Rate:   a.sourceRate,
			Source: src,
		})
	}
	a.sourceRate = 0
}

func (a *Aggregator) meanEpsilon() float64 {
	if a.epsRate == 0 {
		return 0
	}
	return a.epsSum / a.epsRate
}

// TotalRate is the rate accumulated so far.
func (a *Aggregator) TotalRate() float64 { return a.totalRate }

// Finalize converts the sums into a Result. Raw rates are kept, so the
// percentages are a fresh array, but the aggregator accepts no further
// samples either way.
func (a *Aggregator) Finalize() (*Result, error) {
	if a.finalized {
		return nil, ErrFinalized
	}
	a.finalized = true
	if !(a.totalRate > 0) {
		return nil, ErrNoExceedance
	}

	nDist, nMag := a.grid.Dist.Len(), a.grid.Mag.Len()
	res := &Result{
		MagEdges:         a.grid.Mag.Edges(),
		MagCenters:       a.grid.Mag.Centers(),
		DistEdges:        a.grid.Dist.Edges(),
		DistCenters:      a.grid.Dist.Centers(),
		Percent:          make([][][]float64, nDist),
		TotalRate:        a.totalRate,
		OutOfBoundsRate:  a.outOfBoundsRate,
		MeanMag:          a.magSum / a.totalRate,
		MeanDist:         a.distSum / a.totalRate,
		MeanEpsilon:      a.meanEpsilon(),
		RejectedRuptures: a.rejected,
		Sources:          a.sources,
	}

	// Scan distance-major, then magnitude, then epsilon; strict > keeps the
	// first cell found on ties.
	var best float64
	maxMarginal := -1.0
	for d := 0; d < nDist; d++ {
		res.Percent[d] = make([][]float64, nMag)
		for m := 0; m < nMag; m++ {
			row := make([]float64, bins.NumEpsilon)
			var marginal float64
			for e := range row {
				raw := a.cells[a.grid.Offset(bins.Cell{Dist: d, Mag: m, Eps: e})]
				row[e] = raw / a.totalRate * 100
				marginal += row[e]
				if row[e] > best {
					best = row[e]
					res.Mode = Mode{Found: true, Dist: d, Mag: m, Eps: e, Percent: row[e]}
				}
			}
			res.Percent[d][m] = row
			if marginal > maxMarginal {
				maxMarginal = marginal
			}
		}
	}
	res.MaxMagDistPercent = maxMarginal
	if res.Mode.Found {
		res.Mode.EpsilonRange = bins.EpsilonRange(res.Mode.Eps)
	}
	return res, nil
}
