// Package compass turns a qibla bearing and device heading samples into the
// rotation of the kiosk's direction needle.
package compass

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/i474232898/hajj-kiosk/internal/qibla"
)

// OrientationEvent is a device orientation sample as reported by the display.
// CompassHeading carries a vendor-specific absolute heading (degrees clockwise
// from north); Alpha is the generic rotation around the z axis, which only
// describes a compass heading when Absolute is set.
type OrientationEvent struct {
	CompassHeading *float64 `json:"webkitCompassHeading,omitempty"`
	Absolute       bool     `json:"absolute"`
	Alpha          *float64 `json:"alpha,omitempty"`
}

// Heading extracts the compass heading from the event. ok is false when the
// event carries neither a vendor heading nor an absolute alpha.
func (e OrientationEvent) Heading() (heading float64, ok bool) {
	switch {
	case e.CompassHeading != nil && !math.IsNaN(*e.CompassHeading):
		return qibla.Normalize(*e.CompassHeading), true
	case e.Absolute && e.Alpha != nil && !math.IsNaN(*e.Alpha):
		return qibla.Normalize(360 - *e.Alpha), true
	default:
		return 0, false
	}
}

// DecodeOrientationEvent parses a JSON orientation event.
func DecodeOrientationEvent(payload []byte) (OrientationEvent, error) {
	var ev OrientationEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return OrientationEvent{}, fmt.Errorf("decode orientation event: %w", err)
	}
	return ev, nil
}

// RelativeAngle is the needle rotation that points at bearing while the
// device faces heading, in [0,360).
func RelativeAngle(bearing, heading float64) float64 {
	return qibla.Normalize(bearing - heading + 360)
}
