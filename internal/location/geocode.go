package location

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/hajj-kiosk/internal/qibla"
)

// ErrGeocoderDisabled is returned when no geocoding API key is configured.
var ErrGeocoderDisabled = errors.New("geocoder api key is not configured")

// Geocoder resolves place names to coordinates through the Google geocoding
// API. Results are cached for the life of the process.
type Geocoder struct {
	apiKey  string
	country string

	mu    sync.Mutex
	cache map[string]qibla.Coordinate
}

// NewGeocoder creates a Geocoder; country biases lookups (e.g. "Saudi Arabia").
func NewGeocoder(apiKey, country string) *Geocoder {
	return &Geocoder{
		apiKey:  apiKey,
		country: country,
		cache:   make(map[string]qibla.Coordinate),
	}
}

// Lookup returns the coordinate of place.
func (g *Geocoder) Lookup(place string) (qibla.Coordinate, error) {
	if g.apiKey == "" {
		return qibla.Coordinate{}, ErrGeocoderDisabled
	}
	key := strings.ToLower(strings.TrimSpace(place))
	if key == "" {
		return qibla.Coordinate{}, errors.New("place is required")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.cache[key]; ok {
		return c, nil
	}

	// The library reads its key from a package variable.
	geocoder.ApiKey = g.apiKey
	loc, err := geocoder.Geocoding(geocoder.Address{
		City:    strings.TrimSpace(place),
		Country: g.country,
	})
	if err != nil {
		return qibla.Coordinate{}, fmt.Errorf("geocode %q: %w", place, err)
	}

	c := qibla.Coordinate{Latitude: loc.Latitude, Longitude: loc.Longitude}
	g.cache[key] = c
	return c, nil
}
