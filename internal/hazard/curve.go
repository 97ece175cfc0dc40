package hazard

import (
	"fmt"
	"math"
	"sort"
)

// CurvePoint is one (distance, magnitude) vertex of a MagDistCurve.
type CurvePoint struct {
	Distance  float64 `yaml:"distance" json:"distance"`
	Magnitude float64 `yaml:"magnitude" json:"magnitude"`
}

// MagDistCurve is a piecewise-linear magnitude threshold as a function of
// distance. Outside its distance range the end values are held constant.
type MagDistCurve struct {
	points []CurvePoint
}

// NewMagDistCurve sorts points by distance and rejects duplicates and
// non-finite values.
func NewMagDistCurve(points []CurvePoint) (*MagDistCurve, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("mag-dist curve: no points")
	}
	ps := append([]CurvePoint(nil), points...)
	sort.Slice(ps, func(i, j int) bool { return ps[i].Distance < ps[j].Distance })
	for i, p := range ps {
		if math.IsNaN(p.Distance) || math.IsInf(p.Distance, 0) || math.IsNaN(p.Magnitude) || math.IsInf(p.Magnitude, 0) {
			return nil, fmt.Errorf("mag-dist curve: point %d is not finite", i)
		}
		if i > 0 && p.Distance == ps[i-1].Distance {
			return nil, fmt.Errorf("mag-dist curve: duplicate distance %v", p.Distance)
		}
	}
	return &MagDistCurve{points: ps}, nil
}

// ThresholdMagnitude implements MagDistFilter.
func (c *MagDistCurve) ThresholdMagnitude(distance float64) float64 {
	ps := c.points
	if distance <= ps[0].Distance {
		return ps[0].Magnitude
	}
	last := ps[len(ps)-1]
	if distance >= last.Distance {
		return last.Magnitude
	}
	i := sort.Search(len(ps), func(k int) bool { return ps[k].Distance > distance })
	lo, hi := ps[i-1], ps[i]
	f := (distance - lo.Distance) / (hi.Distance - lo.Distance)
	return lo.Magnitude + f*(hi.Magnitude-lo.Magnitude)
}

// Points returns a copy of the curve's vertices in distance order.
func (c *MagDistCurve) Points() []CurvePoint {
	return append([]CurvePoint(nil), c.points...)
}
