// Package gmpe provides a fixed-coefficient lognormal ground-motion model
// for use as a hazard.GroundMotionModel.
//
// The median is
//
//	ln Y = C0 + C1*M + C2*ln(Rrup + C3)
//
// with a constant log standard deviation Sigma. The coefficients are inputs;
// nothing in this package fits them.
package gmpe

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"disagg/internal/hazard"
)

// Coefficients parameterise the median and spread of Lognormal.
type Coefficients struct {
	C0    float64 `yaml:"c0" json:"c0"`
	C1    float64 `yaml:"c1" json:"c1"`
	C2    float64 `yaml:"c2" json:"c2"`
	C3    float64 `yaml:"c3" json:"c3"`
	Sigma float64 `yaml:"sigma" json:"sigma"`
}

// Truncation selects how the lognormal distribution is truncated.
type Truncation int

const (
	// TruncNone leaves the distribution untruncated.
	TruncNone Truncation = iota
	// TruncUpper removes the upper tail above TruncationLevel sigmas.
	TruncUpper
	// TruncBoth removes both tails beyond TruncationLevel sigmas.
	TruncBoth
)

var (
	errNoLevel   = errors.New("gmpe: intensity level not set")
	errNoRupture = errors.New("gmpe: rupture not set")
)

// Lognormal is a hazard.GroundMotionModel. It is not safe for concurrent
// use: the level, site and rupture are mutable state, as the interface
// requires.
type Lognormal struct {
	coef  Coefficients
	trunc Truncation
	level float64

	maxDist float64 // +Inf until SetMaxDistance

	lnIML  float64
	hasIML bool

	site hazard.Site

	mean    float64
	dist    float64
	hasRupt bool
}

// NewLognormal validates c and returns an untruncated model.
func NewLognormal(c Coefficients) (*Lognormal, error) {
	for name, v := range map[string]float64{"c0": c.C0, "c1": c.C1, "c2": c.C2, "c3": c.C3, "sigma": c.Sigma} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("gmpe: coefficient %s is not finite", name)
		}
	}
	if c.Sigma < 0 {
		return nil, fmt.Errorf("gmpe: sigma %v must be >= 0", c.Sigma)
	}
	return &Lognormal{coef: c, maxDist: math.Inf(1)}, nil
}

// SetTruncation truncates the distribution at level standard deviations.
func (m *Lognormal) SetTruncation(t Truncation, level float64) error {
	if t != TruncNone && !(level > 0) {
		return fmt.Errorf("gmpe: truncation level %v must be > 0", level)
	}
	m.trunc, m.level = t, level
	return nil
}

// SetMaxDistance implements hazard.DistanceLimiter. Ruptures farther than km
// have zero exceedance probability, so 0 keeps only ruptures at the site.
// math.Inf(1) removes the limit.
func (m *Lognormal) SetMaxDistance(km float64) { m.maxDist = km }

func (m *Lognormal) SetIntensityLevel(iml float64) error {
	if !(iml > 0) || math.IsInf(iml, 1) {
		return fmt.Errorf("gmpe: intensity level %v must be positive and finite", iml)
	}
	m.lnIML, m.hasIML = math.Log(iml), true
	return nil
}

func (m *Lognormal) SetSite(site hazard.Site) error {
	m.site = site
	m.hasRupt = false
	return nil
}

func (m *Lognormal) SetRupture(r hazard.Rupture) error {
	m.hasRupt = false
	if r.Surface == nil {
		return errors.New("gmpe: rupture has no surface")
	}
	dist := r.Surface.Distances(m.site.Location).Rup
	if !(dist+m.coef.C3 > 0) {
		return fmt.Errorf("gmpe: distance term ln(%v + %v) undefined", dist, m.coef.C3)
	}
	m.dist = dist
	m.mean = m.coef.C0 + m.coef.C1*r.Mag + m.coef.C2*math.Log(dist+m.coef.C3)
	m.hasRupt = true
	return nil
}

// Mean returns the natural-log median for the current rupture.
func (m *Lognormal) Mean() float64 { return m.mean }

func (m *Lognormal) ExceedanceProbability() (float64, error) {
	if err := m.ready(); err != nil {
		return 0, err
	}
	if m.dist > m.maxDist {
		return 0, nil
	}
	if m.coef.Sigma == 0 {
		if m.mean > m.lnIML {
			return 1, nil
		}
		return 0, nil
	}
	return m.survival((m.lnIML - m.mean) / m.coef.Sigma), nil
}

// Epsilon is NaN when sigma is zero.
func (m *Lognormal) Epsilon() (float64, error) {
	if err := m.ready(); err != nil {
		return 0, err
	}
	if m.coef.Sigma == 0 {
		return math.NaN(), nil
	}
	return (m.lnIML - m.mean) / m.coef.Sigma, nil
}

func (m *Lognormal) ready() error {
	if !m.hasIML {
		return errNoLevel
	}
	if !m.hasRupt {
		return errNoRupture
	}
	return nil
}

// survival is P(e > eps) under the configured truncation.
func (m *Lognormal) survival(eps float64) float64 {
	n := distuv.UnitNormal
	switch m.trunc {
	case TruncUpper:
		if eps >= m.level {
			return 0
		}
		return (n.CDF(m.level) - n.CDF(eps)) / n.CDF(m.level)
	case TruncBoth:
		if eps >= m.level {
			return 0
		}
		if eps <= -m.level {
			return 1
		}
		return (n.CDF(m.level) - n.CDF(eps)) / (n.CDF(m.level) - n.CDF(-m.level))
	default:
		return n.Survival(eps)
	}
}
