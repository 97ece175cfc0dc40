// Package hazard defines the collaborators a disaggregation run consumes:
// the site, the earthquake rupture forecast and the ground-motion model.
//
// Implementations live outside the disaggregation core. The in-memory
// forecast in this package and the model in internal/gmpe are reference
// implementations used by the CLI and by tests.
package hazard

import "disagg/internal/geo"

// Site is the location hazard is computed for, plus named site parameters
// (e.g. "vs30") that only the ground-motion model interprets.
type Site struct {
	Name     string             `yaml:"name" json:"name"`
	Location geo.Location       `yaml:"location" json:"location"`
	Params   map[string]float64 `yaml:"params,omitempty" json:"params,omitempty"`
}

// Surface is a rupture or source surface that can measure its distance to
// a site.
type Surface interface {
	Distances(site geo.Location) geo.Distances
}

// Rupture is one earthquake of a source. Probability is the probability of
// at least one occurrence over the forecast duration.
type Rupture struct {
	Mag         float64
	Probability float64
	Rake        float64
	Surface     Surface
}

// Source is a group of ruptures sharing a name and a source surface.
type Source interface {
	Name() string

	// MinDistance is the smallest distance any rupture of the source can be
	// from site.
	MinDistance(site Site) float64

	NumRuptures() int
	Rupture(i int) (Rupture, error)

	// Surface is the surface enclosing every rupture of the source.
	Surface() Surface
}

// Regional is implemented by sources that belong to a tectonic region, so
// the engine can pick a region-specific ground-motion model.
type Regional interface {
	TectonicRegion() string
}

// Forecast is an earthquake rupture forecast.
type Forecast interface {
	NumSources() int
	Source(i int) (Source, error)
}

// GroundMotionModel yields, for the current site and rupture, the
// probability that the configured intensity level is exceeded and the
// epsilon of that level.
type GroundMotionModel interface {
	SetIntensityLevel(iml float64) error
	SetSite(site Site) error
	SetRupture(r Rupture) error

	// ExceedanceProbability is in [0, 1].
	ExceedanceProbability() (float64, error)

	// Epsilon may be NaN when the exceedance probability is exactly 0 or 1.
	// A NaN with probability 1 is binned as the lowest epsilon; any other
	// NaN with a positive probability fails the run.
	Epsilon() (float64, error)
}

// DistanceLimiter is implemented by models that can ignore ruptures beyond
// a user maximum distance.
type DistanceLimiter interface {
	SetMaxDistance(km float64)
}

// MagDistFilter gives, for a source-to-site distance, the magnitude below
// which ruptures are ignored.
type MagDistFilter interface {
	ThresholdMagnitude(distance float64) float64
}
