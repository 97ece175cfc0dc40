package hazard

import (
	"fmt"
	"math"
)

// MemorySource is a Source whose ruptures are held in a slice.
type MemorySource struct {
	SourceName string
	Region     string

	// SourceSurface encloses every rupture. When nil, distances are taken
	// from the rupture surfaces.
	SourceSurface Surface

	Ruptures []Rupture
}

func (s *MemorySource) Name() string { return s.SourceName }

// TectonicRegion implements Regional.
func (s *MemorySource) TectonicRegion() string { return s.Region }

// MinDistance returns the Joyner-Boore distance from site to the source
// surface, or the smallest rupture Joyner-Boore distance when the source has
// no surface of its own.
func (s *MemorySource) MinDistance(site Site) float64 {
	if s.SourceSurface != nil {
		return s.SourceSurface.Distances(site.Location).JB
	}
	best := math.Inf(1)
	for _, r := range s.Ruptures {
		if r.Surface == nil {
			continue
		}
		if d := r.Surface.Distances(site.Location).JB; d < best {
			best = d
		}
	}
	return best
}

func (s *MemorySource) NumRuptures() int { return len(s.Ruptures) }

func (s *MemorySource) Rupture(i int) (Rupture, error) {
	if i < 0 || i >= len(s.Ruptures) {
		return Rupture{}, fmt.Errorf("source %q: rupture %d out of range [0,%d)", s.SourceName, i, len(s.Ruptures))
	}
	return s.Ruptures[i], nil
}

func (s *MemorySource) Surface() Surface { return s.SourceSurface }

// MemoryForecast is a Forecast over a fixed list of sources.
type MemoryForecast struct {
	Sources []Source
}

func (f *MemoryForecast) NumSources() int { return len(f.Sources) }

func (f *MemoryForecast) Source(i int) (Source, error) {
	if i < 0 || i >= len(f.Sources) {
		return nil, fmt.Errorf("forecast: source %d out of range [0,%d)", i, len(f.Sources))
	}
	return f.Sources[i], nil
}

// PoissonProbability converts an annual rate into the probability of at
// least one event in duration years.
func PoissonProbability(annualRate, duration float64) float64 {
	return -math.Expm1(-annualRate * duration)
}
