package disagg

import (
	"errors"
	"math"

	"disagg/internal/hazard"
)

// Sample is the contribution of one rupture. It only lives while the rupture
// is being accumulated.
type Sample struct {
	Mag            float64
	Dist           float64 // rupture distance, km
	Epsilon        float64
	CondProb       float64
	OccurrenceProb float64
	Rate           float64
}

// Evaluate measures one rupture against the model. The model must already
// carry the intensity level and site. A zero conditional probability gives
// a zero-rate sample without querying epsilon or distance.
func Evaluate(model hazard.GroundMotionModel, site hazard.Site, r hazard.Rupture) (Sample, error) {
	s := Sample{Mag: r.Mag, OccurrenceProb: r.Probability}

	if err := model.SetRupture(r); err != nil {
		return s, err
	}
	p, err := model.ExceedanceProbability()
	if err != nil {
		return s, err
	}
	s.CondProb = p
	if p == 0 {
		return s, nil
	}

	if s.Epsilon, err = model.Epsilon(); err != nil {
		return s, err
	}
	if r.Surface == nil {
		return s, errors.New("rupture has no surface")
	}
	s.Dist = r.Surface.Distances(site.Location).Rup
	s.Rate = -p * math.Log1p(-r.Probability)
	return s, nil
}
