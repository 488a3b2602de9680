package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceIdenticalPointsIsZero(t *testing.T) {
	p := Coordinate{Lat: 22.5431, Lon: 113.9364}
	assert.Equal(t, 0.0, Distance(p, p))
}

func TestDistanceIsSymmetric(t *testing.T) {
	a := Coordinate{Lat: 22.5431, Lon: 113.9364}
	b := Coordinate{Lat: 22.602008, Lon: 113.991746}
	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
}

func TestDistanceNearbyPoints(t *testing.T) {
	// Roughly 15 m apart: one ten-thousandth of a degree in each axis at
	// Shenzhen's latitude.
	a := Coordinate{Lat: 22.5431, Lon: 113.9364}
	b := Coordinate{Lat: 22.5432, Lon: 113.9365}
	d := Distance(a, b)
	assert.Greater(t, d, 10.0)
	assert.Less(t, d, 20.0)
}

func TestDistanceFarApartPoints(t *testing.T) {
	// The two campuses are roughly 8.5 km apart.
	a := Coordinate{Lat: 22.52601, Lon: 113.93677}
	b := Coordinate{Lat: 22.602008, Lon: 113.991746}
	d := Distance(a, b)
	assert.Greater(t, d, 5000.0)
	assert.Less(t, d, 15000.0)
}

func TestWithinRange(t *testing.T) {
	a := Coordinate{Lat: 22.5431, Lon: 113.9364}
	b := Coordinate{Lat: 22.5432, Lon: 113.9365}

	assert.True(t, WithinRange(a, b, 100))
	assert.False(t, WithinRange(a, b, 1))
	assert.True(t, WithinRange(a, a, 0), "a point is within any non-negative radius of itself")
}

func TestCoordinateIsValid(t *testing.T) {
	cases := []struct {
		name  string
		coord Coordinate
		valid bool
	}{
		{"campus point", Coordinate{Lat: 22.5431, Lon: 113.9364}, true},
		{"origin", Coordinate{Lat: 0, Lon: 0}, true},
		{"lat too high", Coordinate{Lat: 90.1, Lon: 0}, false},
		{"lat too low", Coordinate{Lat: -90.1, Lon: 0}, false},
		{"lon too high", Coordinate{Lat: 0, Lon: 180.1}, false},
		{"lon too low", Coordinate{Lat: 0, Lon: -180.1}, false},
		{"boundary values", Coordinate{Lat: -90, Lon: 180}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, tc.coord.IsValid())
		})
	}
}
