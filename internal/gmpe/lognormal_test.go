package gmpe_test

import (
	"math"
	"testing"

	"disagg/internal/geo"
	"disagg/internal/gmpe"
	"disagg/internal/hazard"
)

var site = hazard.Site{Name: "origin", Location: geo.Location{Lat: 0, Lon: 0}}

// rupAt returns a point rupture directly below the site at depth km.
func rupAt(mag, depth float64) hazard.Rupture {
	return hazard.Rupture{
		Mag:         mag,
		Probability: 0.01,
		Surface:     geo.PointSurface{Location: geo.Location{Depth: depth}},
	}
}

func newModel(t *testing.T, c gmpe.Coefficients) *gmpe.Lognormal {
	t.Helper()
	m, err := gmpe.NewLognormal(c)
	if err != nil {
		t.Fatalf("NewLognormal: %v", err)
	}
	if err := m.SetSite(site); err != nil {
		t.Fatalf("SetSite: %v", err)
	}
	return m
}

func TestLognormalUntruncated(t *testing.T) {
	m := newModel(t, gmpe.Coefficients{Sigma: 1})
	if err := m.SetRupture(rupAt(6, 10)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		iml      float64
		wantEps  float64
		wantProb float64
	}{
		{1, 0, 0.5},
		{math.E, 1, 0.15865525393145707},
		{1 / math.E, -1, 0.8413447460685429},
	}
	for _, tc := range tests {
		if err := m.SetIntensityLevel(tc.iml); err != nil {
			t.Fatal(err)
		}
		eps, err := m.Epsilon()
		if err != nil {
			t.Fatal(err)
		}
		p, err := m.ExceedanceProbability()
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(eps-tc.wantEps) > 1e-12 {
			t.Errorf("iml %v: epsilon = %v, want %v", tc.iml, eps, tc.wantEps)
		}
		if math.Abs(p-tc.wantProb) > 1e-9 {
			t.Errorf("iml %v: probability = %v, want %v", tc.iml, p, tc.wantProb)
		}
	}
}

func TestLognormalMedian(t *testing.T) {
	m := newModel(t, gmpe.Coefficients{C0: -1, C1: 0.5, C2: -1.2, C3: 10, Sigma: 0.6})
	if err := m.SetRupture(rupAt(7, 10)); err != nil {
		t.Fatal(err)
	}
	want := -1 + 0.5*7 - 1.2*math.Log(20)
	if math.Abs(m.Mean()-want) > 1e-12 {
		t.Errorf("Mean = %v, want %v", m.Mean(), want)
	}
}

func TestLognormalTruncation(t *testing.T) {
	m := newModel(t, gmpe.Coefficients{Sigma: 1})
	if err := m.SetRupture(rupAt(6, 10)); err != nil {
		t.Fatal(err)
	}

	if err := m.SetTruncation(gmpe.TruncUpper, 2); err != nil {
		t.Fatal(err)
	}
	_ = m.SetIntensityLevel(math.Exp(2.5))
	if p, _ := m.ExceedanceProbability(); p != 0 {
		t.Errorf("upper truncation beyond level: got %v, want 0", p)
	}
	_ = m.SetIntensityLevel(1)
	p, _ := m.ExceedanceProbability()
	if p <= 0 || p >= 0.5 {
		t.Errorf("upper truncation at median: got %v, want in (0, 0.5)", p)
	}

	if err := m.SetTruncation(gmpe.TruncBoth, 2); err != nil {
		t.Fatal(err)
	}
	_ = m.SetIntensityLevel(math.Exp(-2.5))
	if p, _ := m.ExceedanceProbability(); p != 1 {
		t.Errorf("two-sided truncation below level: got %v, want 1", p)
	}
	_ = m.SetIntensityLevel(1)
	if p, _ := m.ExceedanceProbability(); math.Abs(p-0.5) > 1e-12 {
		t.Errorf("two-sided truncation at median: got %v, want 0.5", p)
	}

	if err := m.SetTruncation(gmpe.TruncUpper, 0); err == nil {
		t.Error("expected error for zero truncation level")
	}
}

func TestLognormalMaxDistance(t *testing.T) {
	m := newModel(t, gmpe.Coefficients{Sigma: 1})
	m.SetMaxDistance(5)
	_ = m.SetIntensityLevel(1)
	if err := m.SetRupture(rupAt(6, 10)); err != nil {
		t.Fatal(err)
	}
	if p, _ := m.ExceedanceProbability(); p != 0 {
		t.Errorf("beyond max distance: got %v, want 0", p)
	}
}

func TestLognormalZeroMaxDistance(t *testing.T) {
	m := newModel(t, gmpe.Coefficients{C3: 1, Sigma: 1})
	_ = m.SetIntensityLevel(1)
	if err := m.SetRupture(rupAt(6, 10)); err != nil {
		t.Fatal(err)
	}
	if p, _ := m.ExceedanceProbability(); p != 0.5 {
		t.Errorf("no limit: got %v, want 0.5", p)
	}
	m.SetMaxDistance(0)
	if p, _ := m.ExceedanceProbability(); p != 0 {
		t.Errorf("max distance 0: got %v, want 0", p)
	}
	if err := m.SetRupture(rupAt(6, 0)); err != nil {
		t.Fatal(err)
	}
	if p, _ := m.ExceedanceProbability(); p != 0.5 {
		t.Errorf("rupture at the site: got %v, want 0.5", p)
	}
}

func TestLognormalZeroSigma(t *testing.T) {
	m := newModel(t, gmpe.Coefficients{C0: 1})
	_ = m.SetIntensityLevel(1)
	if err := m.SetRupture(rupAt(6, 10)); err != nil {
		t.Fatal(err)
	}
	if p, _ := m.ExceedanceProbability(); p != 1 {
		t.Errorf("median above level: got %v, want 1", p)
	}
	if eps, _ := m.Epsilon(); !math.IsNaN(eps) {
		t.Errorf("epsilon = %v, want NaN", eps)
	}
}

func TestLognormalErrors(t *testing.T) {
	if _, err := gmpe.NewLognormal(gmpe.Coefficients{Sigma: -1}); err == nil {
		t.Error("expected error for negative sigma")
	}
	if _, err := gmpe.NewLognormal(gmpe.Coefficients{C0: math.NaN()}); err == nil {
		t.Error("expected error for NaN coefficient")
	}

	m := newModel(t, gmpe.Coefficients{Sigma: 1})
	if err := m.SetIntensityLevel(0); err == nil {
		t.Error("expected error for zero intensity level")
	}
	if _, err := m.ExceedanceProbability(); err == nil {
		t.Error("expected error before level and rupture are set")
	}
	_ = m.SetIntensityLevel(1)
	if err := m.SetRupture(hazard.Rupture{Mag: 6}); err == nil {
		t.Error("expected error for rupture without surface")
	}
	if _, err := m.Epsilon(); err == nil {
		t.Error("expected error after a failed SetRupture")
	}
}
