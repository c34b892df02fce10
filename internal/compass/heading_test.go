package compass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestOrientationEventHeading(t *testing.T) {
	tests := []struct {
		name    string
		ev      OrientationEvent
		heading float64
		ok      bool
	}{
		{"vendor heading", OrientationEvent{CompassHeading: ptr(87.5)}, 87.5, true},
		{"vendor heading wins over alpha", OrientationEvent{CompassHeading: ptr(10), Absolute: true, Alpha: ptr(90)}, 10, true},
		{"absolute alpha", OrientationEvent{Absolute: true, Alpha: ptr(90)}, 270, true},
		{"absolute alpha zero", OrientationEvent{Absolute: true, Alpha: ptr(0)}, 0, true},
		{"relative alpha discarded", OrientationEvent{Alpha: ptr(90)}, 0, false},
		{"empty event discarded", OrientationEvent{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := tt.ev.Heading()
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.heading, h, 1e-9)
		})
	}
}

func TestDecodeOrientationEvent(t *testing.T) {
	ev, err := DecodeOrientationEvent([]byte(`{"webkitCompassHeading": 123.4}`))
	require.NoError(t, err)
	h, ok := ev.Heading()
	require.True(t, ok)
	assert.InDelta(t, 123.4, h, 1e-9)

	ev, err = DecodeOrientationEvent([]byte(`{"absolute": true, "alpha": 30}`))
	require.NoError(t, err)
	h, ok = ev.Heading()
	require.True(t, ok)
	assert.InDelta(t, 330, h, 1e-9)

	_, err = DecodeOrientationEvent([]byte(`not json`))
	assert.Error(t, err)
}

func TestRelativeAngle(t *testing.T) {
	assert.InDelta(t, 318.5, RelativeAngle(318.5, 0), 1e-9)
	assert.InDelta(t, 0, RelativeAngle(318.5, 318.5), 1e-9)
	assert.InDelta(t, 328.5, RelativeAngle(318.5, 350), 1e-9)
	assert.InDelta(t, 20, RelativeAngle(10, 350), 1e-9)
}
