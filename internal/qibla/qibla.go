// Package qibla computes the direction and distance from an observer to the Kaaba.
package qibla

import (
	"math"
	"strconv"
	"strings"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// Coordinate is a geographic position in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

var (
	// Kaaba is the fixed destination of every qibla computation.
	Kaaba = Coordinate{Latitude: 21.4225, Longitude: 39.8262}

	// FallbackCamp is used when no live or cached position is available.
	FallbackCamp = Coordinate{Latitude: 21.3745089, Longitude: 39.8327681}
)

// Valid reports whether the coordinate lies within [-90,90] x [-180,180].
// Bearing and Distance do not consult it; callers decide what to do with
// out-of-range input.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// ParseCoordinate parses a latitude/longitude pair of decimal strings.
// Surrounding whitespace is ignored. ok is false when either value is
// missing or not a number.
func ParseCoordinate(lat, lng string) (Coordinate, bool) {
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil || math.IsNaN(la) {
		return Coordinate{}, false
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil || math.IsNaN(lo) {
		return Coordinate{}, false
	}
	return Coordinate{Latitude: la, Longitude: lo}, true
}

func toRad(d float64) float64 { return d * math.Pi / 180 }
func toDeg(r float64) float64 { return r * 180 / math.Pi }

// Normalize maps any angle in degrees into [0,360).
func Normalize(deg float64) float64 {
	n := math.Mod(math.Mod(deg, 360)+360, 360)
	// Mod can return 360 for tiny negative inputs due to rounding.
	if n >= 360 {
		n = 0
	}
	return n
}

// Bearing returns the initial great-circle bearing (forward azimuth) from
// observer to destination in degrees clockwise from true north, in [0,360).
// Identical points yield 0.
func Bearing(observer, destination Coordinate) float64 {
	if observer == destination {
		return 0
	}
	phi1 := toRad(observer.Latitude)
	phi2 := toRad(destination.Latitude)
	deltaLambda := toRad(destination.Longitude - observer.Longitude)

	y := math.Sin(deltaLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(deltaLambda)

	return Normalize(toDeg(math.Atan2(y, x)))
}

// Distance returns the haversine great-circle distance in kilometers.
func Distance(observer, destination Coordinate) float64 {
	dLat := toRad(destination.Latitude - observer.Latitude)
	dLon := toRad(destination.Longitude - observer.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(observer.Latitude))*math.Cos(toRad(destination.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Fix is a bearing and distance pair computed from one observer snapshot.
type Fix struct {
	Observer   Coordinate `json:"observer"`
	Bearing    float64    `json:"bearing"`
	DistanceKm float64    `json:"distanceKm"`
}

// ComputeFix computes Bearing and Distance from the same coordinate pair.
func ComputeFix(observer, destination Coordinate) Fix {
	return Fix{
		Observer:   observer,
		Bearing:    Bearing(observer, destination),
		DistanceKm: Distance(observer, destination),
	}
}

// ToKaaba is ComputeFix with the Kaaba as destination.
func ToKaaba(observer Coordinate) Fix {
	return ComputeFix(observer, Kaaba)
}

// CompassPoint converts a bearing to an 8-point compass label.
func CompassPoint(bearing float64) string {
	points := []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	return points[int((Normalize(bearing)+22.5)/45.0)%8]
}
