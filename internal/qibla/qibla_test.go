package qibla

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nearMina = Coordinate{Latitude: 21.3891, Longitude: 39.8579}

func TestBearing(t *testing.T) {
	tests := []struct {
		name      string
		from, to  Coordinate
		expected  float64
		tolerance float64
	}{
		{"North", Coordinate{40, -122}, Coordinate{41, -122}, 0, 0.01},
		{"East", Coordinate{0, 0}, Coordinate{0, 10}, 90, 0.01},
		{"South", Coordinate{41, -122}, Coordinate{40, -122}, 180, 0.01},
		{"West", Coordinate{0, 10}, Coordinate{0, 0}, 270, 0.01},
		{"Near Mina to Kaaba", nearMina, Kaaba, 318.54, 0.1},
		{"Fallback camp to Kaaba", FallbackCamp, Kaaba, 352.74, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Bearing(tt.from, tt.to), tt.tolerance)
		})
	}
}

func TestBearingSamePointIsZero(t *testing.T) {
	for _, c := range []Coordinate{Kaaba, nearMina, {0, 0}, {-33.86, 151.2}} {
		assert.Equal(t, 0.0, Bearing(c, c), "bearing(%v,%v)", c, c)
	}
}

func TestBearingAlwaysInRange(t *testing.T) {
	for lat := -80.0; lat <= 80; lat += 20 {
		for lng := -170.0; lng <= 170; lng += 34 {
			b := Bearing(Coordinate{lat, lng}, Kaaba)
			assert.GreaterOrEqual(t, b, 0.0)
			assert.Less(t, b, 360.0)
		}
	}
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 4.956, Distance(nearMina, Kaaba), 0.01)
	// One degree of latitude on a 6371 km sphere.
	assert.InDelta(t, 111.195, Distance(Coordinate{0, 0}, Coordinate{1, 0}), 0.001)
}

func TestDistanceSymmetricAndZero(t *testing.T) {
	pairs := [][2]Coordinate{
		{nearMina, Kaaba},
		{FallbackCamp, {51.5074, -0.1278}},
		{{-33.86, 151.2}, {40.71, -74.0}},
	}
	for _, p := range pairs {
		t.Run(fmt.Sprintf("%v-%v", p[0], p[1]), func(t *testing.T) {
			assert.InDelta(t, Distance(p[0], p[1]), Distance(p[1], p[0]), 1e-9)
			assert.Equal(t, 0.0, Distance(p[0], p[0]))
		})
	}
}

func TestComputeFixUsesSameSnapshot(t *testing.T) {
	fix := ToKaaba(nearMina)
	assert.Equal(t, nearMina, fix.Observer)
	assert.Equal(t, Bearing(nearMina, Kaaba), fix.Bearing)
	assert.Equal(t, Distance(nearMina, Kaaba), fix.DistanceKm)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, 0.0, Normalize(360))
	assert.Equal(t, 350.0, Normalize(-10))
	assert.Equal(t, 10.0, Normalize(730))
	assert.Equal(t, 0.0, Normalize(-1e-15))
	assert.False(t, math.IsNaN(Normalize(-720)))
}

func TestParseCoordinate(t *testing.T) {
	c, ok := ParseCoordinate(" 21.3745089", "39.8327681 ")
	require.True(t, ok)
	assert.Equal(t, FallbackCamp, c)

	_, ok = ParseCoordinate("", "39.8")
	assert.False(t, ok)
	_, ok = ParseCoordinate("21.4", "east")
	assert.False(t, ok)
	_, ok = ParseCoordinate("NaN", "1")
	assert.False(t, ok)
}

func TestValid(t *testing.T) {
	assert.True(t, Kaaba.Valid())
	assert.False(t, Coordinate{91, 0}.Valid())
	assert.False(t, Coordinate{0, -181}.Valid())
}

func TestCompassPoint(t *testing.T) {
	tests := []struct {
		bearing  float64
		expected string
	}{
		{0, "N"}, {44, "NE"}, {90, "E"}, {135, "SE"}, {180, "S"},
		{225, "SW"}, {270, "W"}, {318.5, "NW"}, {359, "N"}, {-10, "N"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, CompassPoint(tt.bearing), "bearing %v", tt.bearing)
	}
}
