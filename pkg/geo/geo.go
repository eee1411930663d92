// Package geo provides the spherical-earth helpers used by enrichment:
// distance, bearing, field-of-view checks, and travel-direction naming.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// Point represents a geographic coordinate.
type Point struct {
	Lat float64
	Lon float64
}

func (p Point) orb() orb.Point {
	// orb uses [lon, lat] order
	return orb.Point{p.Lon, p.Lat}
}

// Distance calculates the haversine distance between two points in meters.
func Distance(p1, p2 Point) float64 {
	return orbgeo.DistanceHaversine(p1.orb(), p2.orb())
}

// Bearing calculates the initial bearing (forward azimuth) from p1 to p2,
// normalized to [0, 360) degrees.
func Bearing(p1, p2 Point) float64 {
	return math.Mod(orbgeo.Bearing(p1.orb(), p2.orb())+360.0, 360.0)
}

// NormalizeAngle normalizes an angle difference to the range [-180, 180].
func NormalizeAngle(angleDeg float64) float64 {
	for angleDeg > 180 {
		angleDeg -= 360
	}
	for angleDeg < -180 {
		angleDeg += 360
	}
	return angleDeg
}

// InFieldOfView reports whether a target at bearingDeg falls inside a camera
// field of view centered on headingDeg.
func InFieldOfView(headingDeg, bearingDeg, fovDeg float64) bool {
	diff := math.Abs(NormalizeAngle(bearingDeg - headingDeg))
	return diff <= fovDeg/2
}

// TravelDirection names the cardinal travel direction for a heading, in the
// road-sign style used for matched locations ("northbound", ...).
func TravelDirection(headingDeg float64) string {
	h := math.Mod(headingDeg+360.0, 360.0)
	switch {
	case h >= 315 || h < 45:
		return "northbound"
	case h < 135:
		return "eastbound"
	case h < 225:
		return "southbound"
	default:
		return "westbound"
	}
}
