package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/i474232898/hajj-kiosk/internal/broker"
	"github.com/i474232898/hajj-kiosk/internal/qibla"
)

// gpsFix is the JSON published by GPS producers on the broker.
type gpsFix struct {
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lon"`
	Lng       *float64 `json:"lng"`
	Validity  string   `json:"validity"`
}

var errNoFix = errors.New("gps payload has no valid fix")

// DecodeFix parses a GPS fix payload. Both "lon" and "lng" are accepted for
// the longitude; a validity of "V" marks a void fix.
func DecodeFix(payload []byte) (qibla.Coordinate, error) {
	var f gpsFix
	if err := json.Unmarshal(payload, &f); err != nil {
		return qibla.Coordinate{}, fmt.Errorf("decode gps fix: %w", err)
	}
	lon := f.Longitude
	if lon == nil {
		lon = f.Lng
	}
	if f.Latitude == nil || lon == nil || f.Validity == "V" {
		return qibla.Coordinate{}, errNoFix
	}
	return qibla.Coordinate{Latitude: *f.Latitude, Longitude: *lon}, nil
}

// MQTTSource streams GPS fixes from a broker topic.
type MQTTSource struct {
	Client broker.Subscriber
	Topic  string
	QoS    byte
}

func (m *MQTTSource) Watch(ctx context.Context, out chan<- qibla.Coordinate) error {
	return broker.Stream(ctx, m.Client, m.Topic, m.QoS, func(payload []byte) {
		c, err := DecodeFix(payload)
		if err != nil {
			log.Printf("location: %v", err)
			return
		}
		select {
		case out <- c:
		case <-ctx.Done():
		}
	})
}
