// Package demo is a compiled-in forecast provider for trying the CLI
// without any source data. It models two strike-slip faults near Los
// Angeles, a gridded background point and one distant stable-region source,
// with Gutenberg-Richter magnitude frequencies.
package demo

import (
	"fmt"
	"math"

	"disagg/internal/geo"
	"disagg/internal/gmpe"
	"disagg/internal/hazard"
	"disagg/internal/plugin"
)

const (
	// Duration is the forecast window in years.
	Duration = 50.0

	// RegionActive and RegionStable name the tectonic regions of the
	// demo sources.
	RegionActive = "active"
	RegionStable = "stable"
)

var (
	activeCoefficients = gmpe.Coefficients{C0: -3.512, C1: 0.904, C2: -1.328, C3: 10, Sigma: 0.6}
	stableCoefficients = gmpe.Coefficients{C0: -3.2, C1: 0.9, C2: -1.2, C3: 10, Sigma: 0.65}
)

var questions = []plugin.ConfigQuestion{
	{Key: "site", Prompt: "Site name", Type: "text", Default: "Los Angeles"},
	{Key: "lat", Prompt: "Site latitude", Type: "number", Default: "34.05"},
	{Key: "lon", Prompt: "Site longitude", Type: "number", Default: "-118.25"},
}

// Provider builds the demo forecast.
type Provider struct{}

func (Provider) Name() string { return "demo" }

func (Provider) Configure() ([]plugin.ConfigQuestion, error) {
	return append([]plugin.ConfigQuestion(nil), questions...), nil
}

// Build returns the demo forecast with fresh models for the answered site.
func (Provider) Build(answers map[string]string) (*plugin.Collaborators, error) {
	lat, err := plugin.FloatAnswer(answers, questions[1])
	if err != nil {
		return nil, err
	}
	lon, err := plugin.FloatAnswer(answers, questions[2])
	if err != nil {
		return nil, err
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("site %v, %v is not a valid latitude/longitude", lat, lon)
	}

	forecast, err := Forecast()
	if err != nil {
		return nil, err
	}
	active, err := newModel(activeCoefficients)
	if err != nil {
		return nil, err
	}
	stable, err := newModel(stableCoefficients)
	if err != nil {
		return nil, err
	}
	return &plugin.Collaborators{
		Site: hazard.Site{
			Name:     plugin.Answer(answers, questions[0]),
			Location: geo.Location{Lat: lat, Lon: lon},
			Params:   map[string]float64{"vs30": 760},
		},
		Forecast:     forecast,
		Model:        active,
		RegionModels: map[string]hazard.GroundMotionModel{RegionStable: stable},
	}, nil
}

func newModel(c gmpe.Coefficients) (*gmpe.Lognormal, error) {
	m, err := gmpe.NewLognormal(c)
	if err != nil {
		return nil, err
	}
	if err := m.SetTruncation(gmpe.TruncUpper, 3); err != nil {
		return nil, err
	}
	return m, nil
}

// grSource describes one demo source.
type grSource struct {
	name    string
	region  string
	surface hazard.Surface
	a, b    float64 // log10 annual rate = a - b*M
	minMag  float64
	maxMag  float64
	step    float64
}

// Forecast builds the demo forecast. It is deterministic.
func Forecast() (*hazard.MemoryForecast, error) {
	sierraMadre, err := geo.NewFaultSurface(
		geo.Location{Lat: 34.20, Lon: -118.40}, geo.Location{Lat: 34.15, Lon: -117.80}, 0, 15)
	if err != nil {
		return nil, err
	}
	newportInglewood, err := geo.NewFaultSurface(
		geo.Location{Lat: 33.95, Lon: -118.35}, geo.Location{Lat: 33.60, Lon: -117.90}, 0, 12)
	if err != nil {
		return nil, err
	}

	specs := []grSource{
		{name: "Sierra Madre", region: RegionActive, surface: sierraMadre, a: 3.2, b: 1.0, minMag: 6.0, maxMag: 7.5, step: 0.25},
		{name: "Newport-Inglewood", region: RegionActive, surface: newportInglewood, a: 3.0, b: 1.0, minMag: 6.0, maxMag: 7.25, step: 0.25},
		{
			name: "Mojave background", region: RegionActive,
			surface: geo.PointSurface{Location: geo.Location{Lat: 34.60, Lon: -117.90, Depth: 8}},
			a:       3.5, b: 1.0, minMag: 5.0, maxMag: 6.5, step: 0.5,
		},
		{
			name: "Basin and Range", region: RegionStable,
			surface: geo.PointSurface{Location: geo.Location{Lat: 35.30, Lon: -117.00, Depth: 10}},
			a:       2.5, b: 0.9, minMag: 5.5, maxMag: 7.0, step: 0.5,
		},
	}

	f := &hazard.MemoryForecast{}
	for _, s := range specs {
		f.Sources = append(f.Sources, s.build())
	}
	return f, nil
}

func (s grSource) build() *hazard.MemorySource {
	src := &hazard.MemorySource{SourceName: s.name, Region: s.region, SourceSurface: s.surface}
	n := int(math.Round((s.maxMag-s.minMag)/s.step)) + 1
	for i := 0; i < n; i++ {
		mag := s.minMag + float64(i)*s.step
		rate := math.Pow(10, s.a-s.b*mag)
		src.Ruptures = append(src.Ruptures, hazard.Rupture{
			Mag:         mag,
			Probability: hazard.PoissonProbability(rate, Duration),
			Surface:     s.surface,
		})
	}
	return src
}
