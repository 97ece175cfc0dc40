package disagg_test

import (
	"errors"
	"math"
	"testing"

	"disagg/internal/bins"
	"disagg/internal/geo"
	"disagg/internal/hazard"
)

var errBoom = errors.New("boom")

// stubSurface carries the model output for its rupture so tests can choose
// probability and epsilon per rupture.
type stubSurface struct {
	dist float64
	prob float64
	eps  float64
	fail bool
}

func (s stubSurface) Distances(geo.Location) geo.Distances {
	return geo.Distances{Rup: s.dist, JB: s.dist, Seis: s.dist, X: s.dist}
}

type stubModel struct {
	iml      float64
	site     hazard.Site
	maxDist  float64
	cur      stubSurface
	epsCalls int
	scale    float64 // multiplies every probability when non-zero
	siteErr  error

	onRupture func()
}

func (m *stubModel) SetIntensityLevel(iml float64) error { m.iml = iml; return nil }
func (m *stubModel) SetSite(s hazard.Site) error         { m.site = s; return m.siteErr }
func (m *stubModel) SetMaxDistance(km float64)           { m.maxDist = km }

func (m *stubModel) SetRupture(r hazard.Rupture) error {
	if m.onRupture != nil {
		m.onRupture()
	}
	s, ok := r.Surface.(stubSurface)
	if !ok {
		return errors.New("unexpected surface")
	}
	if s.fail {
		return errBoom
	}
	m.cur = s
	return nil
}

func (m *stubModel) ExceedanceProbability() (float64, error) {
	if m.scale != 0 {
		return m.cur.prob * m.scale, nil
	}
	return m.cur.prob, nil
}

func (m *stubModel) Epsilon() (float64, error) {
	m.epsCalls++
	return m.cur.eps, nil
}

// occurrence returns the occurrence probability that makes a rupture with
// conditional probability cond contribute rate.
func occurrence(rate, cond float64) float64 { return -math.Expm1(-rate / cond) }

// rupture builds a rupture contributing rate at (mag, dist, eps).
func rupture(mag, dist, cond, eps, rate float64) hazard.Rupture {
	return hazard.Rupture{
		Mag:         mag,
		Probability: occurrence(rate, cond),
		Surface:     stubSurface{dist: dist, prob: cond, eps: eps},
	}
}

func source(name string, rs ...hazard.Rupture) *hazard.MemorySource {
	return &hazard.MemorySource{SourceName: name, Ruptures: rs}
}

func forecast(srcs ...*hazard.MemorySource) *hazard.MemoryForecast {
	f := &hazard.MemoryForecast{}
	for _, s := range srcs {
		f.Sources = append(f.Sources, s)
	}
	return f
}

// testGrid has magnitude bins [5.5,6.5) [6.5,7.5) [7.5,8.5) and distance
// bins [5,15) [15,25) [25,35).
func testGrid(t *testing.T) bins.Grid {
	t.Helper()
	mag, err := bins.NewAxis([]float64{5.5, 6.5, 7.5, 8.5})
	if err != nil {
		t.Fatal(err)
	}
	dist, err := bins.NewAxis([]float64{5, 15, 25, 35})
	if err != nil {
		t.Fatal(err)
	}
	g, err := bins.NewGrid(mag, dist)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func approx(a, b float64) bool { return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b)) }
