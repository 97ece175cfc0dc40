package disagg

import (
	"fmt"
	"sort"

	"disagg/internal/geo"
	"disagg/internal/hazard"
)

// RankedSource is one row of the source ranking.
type RankedSource struct {
	ID      int     `yaml:"id" json:"id"`
	Name    string  `yaml:"name" json:"name"`
	Rate    float64 `yaml:"rate" json:"rate"`
	Percent float64 `yaml:"percent" json:"percent"`

	// Distances from the site to a rupture of the source's largest
	// magnitude on the source surface. Display only.
	Distances *geo.Distances `yaml:"distances,omitempty" json:"distances,omitempty"`
}

// RankSources orders res.Sources by contribution, largest first, and keeps
// the top n. Equal rates keep forecast order. n <= 0 yields an empty
// ranking. It reads res and never modifies it.
func RankSources(res *Result, site hazard.Site, n int, showDistances bool) ([]RankedSource, error) {
	if n <= 0 || len(res.Sources) == 0 {
		return []RankedSource{}, nil
	}
	sorted := append([]SourceContribution(nil), res.Sources...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rate > sorted[j].Rate })
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	out := make([]RankedSource, len(sorted))
	for i, c := range sorted {
		out[i] = RankedSource{
			ID:      c.ID,
			Name:    c.Name,
			Rate:    c.Rate,
			Percent: 100 * c.Rate / res.TotalRate,
		}
		if showDistances && c.Source != nil {
			d, err := largestRuptureDistances(c.Source, site)
			if err != nil {
				return nil, fmt.Errorf("source %d (%s): %w", c.ID, c.Name, err)
			}
			out[i].Distances = &d
		}
	}
	return out, nil
}

// largestRuptureDistances places a rupture with the source's largest
// magnitude on the source surface and measures it from site.
func largestRuptureDistances(src hazard.Source, site hazard.Site) (geo.Distances, error) {
	var largest hazard.Rupture
	for i := 0; i < src.NumRuptures(); i++ {
		r, err := src.Rupture(i)
		if err != nil {
			return geo.Distances{}, err
		}
		if r.Mag > largest.Mag {
			largest = r
		}
	}
	synthetic := hazard.Rupture{Mag: largest.Mag, Surface: src.Surface()}
	if synthetic.Surface == nil {
		synthetic.Surface = largest.Surface
	}
	if synthetic.Surface == nil {
		return geo.Distances{}, fmt.Errorf("no surface to measure distances from")
	}
	return synthetic.Surface.Distances(site.Location), nil
}
