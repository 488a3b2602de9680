package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

// earthRadiusMeters is the Earth's volumetric mean radius. All distances in
// this package use the same spherical model, so the attendance thresholds are
// calibrated against a single formula.
//
// Reference: NASA Planetary Fact Sheet - Earth
// https://nssdc.gsfc.nasa.gov/planetary/factsheet/earthfact.html
const earthRadiusMeters = 6371000

// Coordinate is the canonical latitude/longitude pair used everywhere inside
// the service. The HTTP boundary accepts (longitude, latitude) and converts
// into this type exactly once; no other code swaps axes.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// IsValid reports whether the coordinate is a legal WGS84 position.
func (c Coordinate) IsValid() bool {
	return !math.IsNaN(c.Lat) && !math.IsNaN(c.Lon) &&
		c.Lat >= -90 && c.Lat <= 90 &&
		c.Lon >= -180 && c.Lon <= 180
}

// Distance returns the great-circle distance between two coordinates in
// meters. Identical points yield 0.
func Distance(a, b Coordinate) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return p1.Distance(p2).Radians() * earthRadiusMeters
}

// WithinRange reports whether the user coordinate lies within maxMeters of
// the target.
func WithinRange(user, target Coordinate, maxMeters float64) bool {
	return Distance(user, target) <= maxMeters
}
