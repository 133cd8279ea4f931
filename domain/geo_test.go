package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineZeroDistance(t *testing.T) {
	p := Location{Lat: 40.0, Lng: -74.0}
	assert.Equal(t, 0.0, Haversine(p, p))
}

func TestHaversineSymmetry(t *testing.T) {
	cases := []struct {
		name string
		a, b Location
	}{
		{"ny-la", Location{40.7127837, -74.0059413}, Location{34.0522342, -118.2436849}},
		{"equator", Location{0, 0}, Location{0, 90}},
		{"poles", Location{90, 0}, Location{-90, 0}},
		{"dateline", Location{10, 179.5}, Location{10, -179.5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, Haversine(tc.a, tc.b), Haversine(tc.b, tc.a), 1e-9)
		})
	}
}

func TestHaversineKnownDistances(t *testing.T) {
	// one degree of latitude is 6371 * pi / 180 km
	d := Haversine(Location{40.0, -74.0}, Location{41.0, -74.0})
	assert.InDelta(t, 111.195, d, 0.05)

	// New York to Los Angeles
	d = Haversine(Location{40.7127837, -74.0059413}, Location{34.0522342, -118.2436849})
	assert.InDelta(t, 3935.7, d, 2.0)
}
