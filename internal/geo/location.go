// Package geo measures distances between sites and rupture surfaces.
//
// Horizontal distances use the haversine formula on a spherical earth.
// Surface distances (rupture, Joyner-Boore, seismogenic and distance-X) are
// computed on a local tangent plane, which is accurate to well under a
// kilometre for the source-to-site ranges used in hazard work.
package geo

import "math"

const (
	// EarthRadius is the mean earth radius in km.
	EarthRadius = 6371.0072

	// SeismogenicDepth is the depth (km) above which ruptures are assumed
	// not to generate strong shaking.
	SeismogenicDepth = 3.0

	kmPerDegree = EarthRadius * math.Pi / 180
)

// Location is a point on or below the earth's surface. Depth is in km,
// positive down.
type Location struct {
	Lat   float64 `yaml:"lat" json:"lat"`
	Lon   float64 `yaml:"lon" json:"lon"`
	Depth float64 `yaml:"depth,omitempty" json:"depth,omitempty"`
}

// HorizontalDistance returns the great-circle distance in km between a and b,
// ignoring depth.
func HorizontalDistance(a, b Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	s := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadius * math.Asin(math.Min(1, math.Sqrt(s)))
}

// project maps p onto a plane tangent at origin; x points east and y north,
// both in km.
func project(origin, p Location) (x, y float64) {
	x = (p.Lon - origin.Lon) * kmPerDegree * math.Cos(origin.Lat*math.Pi/180)
	y = (p.Lat - origin.Lat) * kmPerDegree
	return x, y
}
