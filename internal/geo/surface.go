package geo

import (
	"fmt"
	"math"
)

// Distances holds the four source-to-site distance metrics in km.
type Distances struct {
	// Rup is the shortest distance to the rupture surface.
	Rup float64 `yaml:"rup" json:"rup"`
	// JB is the shortest distance to the surface projection (Joyner-Boore).
	JB float64 `yaml:"jb" json:"jb"`
	// Seis is the shortest distance to the part of the surface below
	// SeismogenicDepth.
	Seis float64 `yaml:"seis" json:"seis"`
	// X is the horizontal distance to the fault trace measured perpendicular
	// to strike; positive on the hanging-wall (right-of-strike) side.
	X float64 `yaml:"x" json:"x"`
}

// PointSurface is a rupture concentrated at a single hypocentre.
type PointSurface struct {
	Location Location
}

// Distances implements hazard.Surface. For a point, distance-X has no
// strike to be measured against and equals the epicentral distance.
func (p PointSurface) Distances(site Location) Distances {
	h := HorizontalDistance(p.Location, site)
	return Distances{
		Rup:  math.Hypot(h, p.Location.Depth),
		JB:   h,
		Seis: math.Hypot(h, math.Max(p.Location.Depth, SeismogenicDepth)),
		X:    h,
	}
}

// FaultSurface is a vertical planar fault hanging below a straight trace.
type FaultSurface struct {
	Start      Location
	End        Location
	UpperDepth float64
	LowerDepth float64
}

// NewFaultSurface validates the depth range and returns the surface.
func NewFaultSurface(start, end Location, upper, lower float64) (FaultSurface, error) {
	if upper < 0 || math.IsNaN(upper) {
		return FaultSurface{}, fmt.Errorf("fault surface: upper depth %v must be >= 0", upper)
	}
	if !(lower >= upper) {
		return FaultSurface{}, fmt.Errorf("fault surface: lower depth %v above upper depth %v", lower, upper)
	}
	return FaultSurface{Start: start, End: end, UpperDepth: upper, LowerDepth: lower}, nil
}

// Distances implements hazard.Surface.
func (f FaultSurface) Distances(site Location) Distances {
	ex, ey := project(f.Start, f.End)
	px, py := project(f.Start, site)

	lenSq := ex*ex + ey*ey
	var jb, x float64
	if lenSq == 0 {
		jb = math.Hypot(px, py)
		x = jb
	} else {
		t := (px*ex + py*ey) / lenSq
		t = math.Max(0, math.Min(1, t))
		jb = math.Hypot(px-t*ex, py-t*ey)
		// Sign flipped so that the right of strike is positive.
		x = -(ex*py - ey*px) / math.Sqrt(lenSq)
	}

	// The fault is vertical, so the closest point of the plane always lies
	// directly below the closest point of the trace.
	return Distances{
		Rup:  math.Hypot(jb, f.UpperDepth),
		JB:   jb,
		Seis: math.Hypot(jb, math.Max(f.UpperDepth, SeismogenicDepth)),
		X:    x,
	}
}
