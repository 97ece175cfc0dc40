// Package plugin defines forecast providers: named sources of the site,
// forecast and ground-motion models a run needs.
//
// Providers construct their collaborators in code. Turning source data files
// into forecasts is left to whatever program implements a Provider.
package plugin

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"disagg/internal/disagg"
	"disagg/internal/hazard"
)

// ConfigQuestion describes a single configuration prompt for a provider.
type ConfigQuestion struct {
	Key     string
	Prompt  string
	Type    string // "text" or "number"
	Default string
}

// Collaborators is everything a provider supplies for one run.
type Collaborators struct {
	Site         hazard.Site
	Forecast     hazard.Forecast
	Model        hazard.GroundMotionModel
	RegionModels map[string]hazard.GroundMotionModel
}

// Request combines the collaborators with an intensity level.
func (c *Collaborators) Request(iml float64) disagg.Request {
	return disagg.Request{
		IML:          iml,
		Site:         c.Site,
		Model:        c.Model,
		RegionModels: c.RegionModels,
		Forecast:     c.Forecast,
	}
}

// Provider is the interface every forecast provider implements.
type Provider interface {
	// Name returns the provider's canonical short identifier (e.g. "demo").
	Name() string

	// Configure returns the questions the provider needs answered before it
	// can build anything.
	Configure() ([]ConfigQuestion, error)

	// Build constructs fresh collaborators from answers. Each call returns
	// new models, so concurrent runs never share model state.
	Build(answers map[string]string) (*Collaborators, error)
}

// Registry maps provider names to providers.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry returns a registry holding ps. It panics on duplicate names,
// which can only come from a programming error.
func NewRegistry(ps ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider)}
	for _, p := range ps {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds p, failing if its name is taken.
func (r *Registry) Register(p Provider) error {
	if _, ok := r.providers[p.Name()]; ok {
		return fmt.Errorf("provider %q already registered", p.Name())
	}
	r.providers[p.Name()] = p
	return nil
}

// Get returns the provider called name.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q (available: %s)", name, strings.Join(r.Names(), ", "))
	}
	return p, nil
}

// Names lists registered providers, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for n := range r.providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Answer returns the answer to q, falling back to q.Default when blank.
func Answer(answers map[string]string, q ConfigQuestion) string {
	if v := strings.TrimSpace(answers[q.Key]); v != "" {
		return v
	}
	return q.Default
}

// FloatAnswer parses the answer to a number question.
func FloatAnswer(answers map[string]string, q ConfigQuestion) (float64, error) {
	s := Answer(answers, q)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", q.Key, s)
	}
	return v, nil
}
