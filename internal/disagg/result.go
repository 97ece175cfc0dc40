package disagg

import (
	"disagg/internal/bins"
	"disagg/internal/hazard"
)

// Result is a finished disaggregation. It is never modified after
// Disaggregate returns it.
type Result struct {
	IML  float64 `yaml:"iml" json:"iml"`
	Site string  `yaml:"site,omitempty" json:"site,omitempty"`

	MagEdges    []float64 `yaml:"mag_edges" json:"mag_edges"`
	MagCenters  []float64 `yaml:"mag_centers" json:"mag_centers"`
	DistEdges   []float64 `yaml:"dist_edges" json:"dist_edges"`
	DistCenters []float64 `yaml:"dist_centers" json:"dist_centers"`

	// Percent[dist][mag][eps] is the share of TotalRate in each cell.
	Percent [][][]float64 `yaml:"percent" json:"percent"`

	TotalRate       float64 `yaml:"total_rate" json:"total_rate"`
	OutOfBoundsRate float64 `yaml:"out_of_bounds_rate" json:"out_of_bounds_rate"`

	MeanMag     float64 `yaml:"mean_mag" json:"mean_mag"`
	MeanDist    float64 `yaml:"mean_dist" json:"mean_dist"`

	// MeanEpsilon weights only rate with a defined epsilon. It is 0 when no
	// such rate exists.
	MeanEpsilon float64 `yaml:"mean_epsilon" json:"mean_epsilon"`

	Mode Mode `yaml:"mode" json:"mode"`

	// MaxMagDistPercent is the largest (dist, mag) contribution summed over
	// epsilon; plots use it to scale their vertical axis.
	MaxMagDistPercent float64 `yaml:"max_mag_dist_percent" json:"max_mag_dist_percent"`

	// RejectedRuptures counts ruptures dropped by the magnitude-distance
	// filter.
	RejectedRuptures int `yaml:"rejected_ruptures" json:"rejected_ruptures"`

	// Sources holds every source within the maximum distance, in forecast
	// order. It is only filled when source ranking was requested.
	Sources []SourceContribution `yaml:"sources,omitempty" json:"sources,omitempty"`

	// Ranked is the top of Sources by contribution.
	Ranked []RankedSource `yaml:"ranked,omitempty" json:"ranked,omitempty"`
}

// Mode is the single cell with the largest contribution.
type Mode struct {
	// Found is false when no rate landed inside the grid.
	Found bool `yaml:"found" json:"found"`

	Dist int `yaml:"dist_index" json:"dist_index"`
	Mag  int `yaml:"mag_index" json:"mag_index"`
	Eps  int `yaml:"eps_index" json:"eps_index"`

	Percent      float64 `yaml:"percent" json:"percent"`
	EpsilonRange string  `yaml:"epsilon_range" json:"epsilon_range"`
}

// SourceContribution is the rate one source contributed, in or out of the
// grid.
type SourceContribution struct {
	ID     int           `yaml:"id" json:"id"`
	Name   string        `yaml:"name" json:"name"`
	Rate   float64       `yaml:"rate" json:"rate"`
	Source hazard.Source `yaml:"-" json:"-"`
}

// OutOfBoundsPercent is the share of TotalRate that fell outside the grid.
func (r *Result) OutOfBoundsPercent() float64 {
	return 100 * r.OutOfBoundsRate / r.TotalRate
}

// MagRange returns the edges of magnitude bin i.
func (r *Result) MagRange(i int) (lo, hi float64) { return r.MagEdges[i], r.MagEdges[i+1] }

// DistRange returns the edges of distance bin i.
func (r *Result) DistRange(i int) (lo, hi float64) { return r.DistEdges[i], r.DistEdges[i+1] }

// MarginalPercent sums cell (dist, mag) over epsilon.
func (r *Result) MarginalPercent(dist, mag int) float64 {
	var sum float64
	for _, p := range r.Percent[dist][mag] {
		sum += p
	}
	return sum
}

// Grid rebuilds the bin grid the result was computed on.
func (r *Result) Grid() (bins.Grid, error) {
	mag, err := bins.NewAxis(r.MagEdges)
	if err != nil {
		return bins.Grid{}, err
	}
	dist, err := bins.NewAxis(r.DistEdges)
	if err != nil {
		return bins.Grid{}, err
	}
	return bins.NewGrid(mag, dist)
}
