// Package config reads run definitions and process-wide environment
// overrides.
//
// A run definition is a YAML file:
//
//	name: la-pga
//	provider: demo
//	answers: {lat: "34.05", lon: "-118.25"}
//	iml: 0.2
//	max_distance: 200
//	bins:
//	  magnitude: {min: 5, count: 9, delta: 0.5}
//	  distance:  {edges: [0, 10, 20, 50, 100, 200]}
//	mag_dist_filter:
//	  - {distance: 0, magnitude: 5}
//	  - {distance: 100, magnitude: 6.5}
//	report: {num_sources: 5, show_distances: true}
package config

import (
	"fmt"
	"math"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"disagg/internal/bins"
	"disagg/internal/disagg"
	"disagg/internal/hazard"
)

// Defaults used when a run definition leaves a field out.
const (
	DefaultMaxDistance = 200.0
	DefaultNumSources  = 0
)

// Run is one disaggregation run definition.
type Run struct {
	Name     string            `yaml:"name"`
	Provider string            `yaml:"provider"`
	Answers  map[string]string `yaml:"answers,omitempty"`

	IML         float64 `yaml:"iml"`
	MaxDistance float64 `yaml:"max_distance"`
	Bins        Bins    `yaml:"bins"`

	MagDistFilter []hazard.CurvePoint `yaml:"mag_dist_filter,omitempty"`

	Report Report `yaml:"report"`
}

// Bins configures both grid axes.
type Bins struct {
	Magnitude Axis `yaml:"magnitude"`
	Distance  Axis `yaml:"distance"`
}

// Axis is either an explicit edge list or a uniform (min, count, delta)
// layout where min is the first bin center. Edges win when both are set.
type Axis struct {
	Min   float64   `yaml:"min"`
	Count int       `yaml:"count"`
	Delta float64   `yaml:"delta"`
	Edges []float64 `yaml:"edges,omitempty"`
}

// Report configures the source ranking.
type Report struct {
	NumSources    int  `yaml:"num_sources"`
	ShowDistances bool `yaml:"show_distances"`
}

// Env holds overrides read from the environment. Unset pointer fields leave
// the run definition alone.
type Env struct {
	Home          string   `env:"DISAGG_HOME"`
	LogMode       string   `env:"DISAGG_LOG_MODE" envDefault:"dev"`
	MaxDistance   *float64 `env:"DISAGG_MAX_DISTANCE"`
	NumSources    *int     `env:"DISAGG_NUM_SOURCES"`
	ShowDistances *bool    `env:"DISAGG_SHOW_DISTANCES"`
}

// Default returns a run with the standard grid: magnitude centers 5.0 to
// 9.0 every 0.5 and distance centers 5 to 105 km every 10 km.
func Default() Run {
	return Run{
		MaxDistance: DefaultMaxDistance,
		Bins: Bins{
			Magnitude: Axis{Min: 5, Count: 9, Delta: 0.5},
			Distance:  Axis{Min: 5, Count: 11, Delta: 10},
		},
		Report: Report{NumSources: DefaultNumSources},
	}
}

// ParseEnv loads Env from the process environment.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// Load reads a run definition from path on top of Default and validates it.
func Load(path string) (*Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse decodes a run definition on top of Default and validates it.
func Parse(data []byte) (*Run, error) {
	r := Default()
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal run: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Marshal encodes r as YAML.
func (r *Run) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal run: %w", err)
	}
	return data, nil
}

// ApplyEnv overwrites fields that e sets.
func (r *Run) ApplyEnv(e Env) {
	if e.MaxDistance != nil {
		r.MaxDistance = *e.MaxDistance
	}
	if e.NumSources != nil {
		r.Report.NumSources = *e.NumSources
	}
	if e.ShowDistances != nil {
		r.Report.ShowDistances = *e.ShowDistances
	}
}

// Validate checks the fields the engine cannot check for itself.
func (r *Run) Validate() error {
	switch {
	case r.Provider == "":
		return fmt.Errorf("provider is required")
	case !(r.IML > 0) || math.IsInf(r.IML, 1):
		return fmt.Errorf("iml must be a positive number, got %v", r.IML)
	case math.IsNaN(r.MaxDistance) || r.MaxDistance < 0:
		return fmt.Errorf("max_distance must not be negative, got %v", r.MaxDistance)
	case r.Report.NumSources < 0:
		return fmt.Errorf("report.num_sources must not be negative, got %d", r.Report.NumSources)
	}
	if _, err := r.Grid(); err != nil {
		return err
	}
	if _, err := r.Filter(); err != nil {
		return err
	}
	return nil
}

func (a Axis) build() (bins.Axis, error) {
	if len(a.Edges) > 0 {
		return bins.NewAxis(a.Edges)
	}
	return bins.UniformAxis(a.Min, a.Count, a.Delta)
}

// Grid builds the bin grid.
func (r *Run) Grid() (bins.Grid, error) {
	mag, err := r.Bins.Magnitude.build()
	if err != nil {
		return bins.Grid{}, fmt.Errorf("bins.magnitude: %w", err)
	}
	dist, err := r.Bins.Distance.build()
	if err != nil {
		return bins.Grid{}, fmt.Errorf("bins.distance: %w", err)
	}
	return bins.NewGrid(mag, dist)
}

// Filter builds the magnitude-distance filter, or returns nil when none is
// configured.
func (r *Run) Filter() (hazard.MagDistFilter, error) {
	if len(r.MagDistFilter) == 0 {
		return nil, nil
	}
	c, err := hazard.NewMagDistCurve(r.MagDistFilter)
	if err != nil {
		return nil, fmt.Errorf("mag_dist_filter: %w", err)
	}
	return c, nil
}

// EngineConfig converts the run into engine configuration.
func (r *Run) EngineConfig() (disagg.Config, error) {
	grid, err := r.Grid()
	if err != nil {
		return disagg.Config{}, err
	}
	filter, err := r.Filter()
	if err != nil {
		return disagg.Config{}, err
	}
	return disagg.Config{
		Grid:             grid,
		MaxDistance:      r.MaxDistance,
		MagDistFilter:    filter,
		NumSourcesToShow: r.Report.NumSources,
		ShowDistances:    r.Report.ShowDistances,
	}, nil
}
