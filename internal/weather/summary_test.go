package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSummary(t *testing.T) {
	raw := []byte(`{
		"location": {"name": "Mina", "localtime_epoch": 1780300800},
		"current": {"temp_c": 44.5, "feelslike_c": 49.1, "condition": {"text": "Sunny"}}
	}`)

	s, err := ParseSummary(Location{Name: "Mina"}, raw)
	require.NoError(t, err)
	assert.True(t, s.Live)
	assert.Equal(t, 44.5, s.TempC)
	assert.Equal(t, 49.1, s.FeelsLikeC)
	assert.Equal(t, ConditionClear, s.Condition)
	assert.Equal(t, "Sunny", s.ConditionText)
	assert.Equal(t, time.Unix(1780300800, 0).UTC(), s.Timestamp)
}

func TestParseSummaryMissingFieldsUseEstimates(t *testing.T) {
	s, err := ParseSummary(Location{Name: "Arafat"}, []byte(`{"current": {}}`))
	require.NoError(t, err)
	assert.Equal(t, 28.0, s.TempC)
	assert.Equal(t, 35.0, s.FeelsLikeC)
	assert.Equal(t, "Unknown", s.ConditionText)
	assert.Equal(t, ConditionUnknown, s.Condition)
}

func TestParseSummaryErrors(t *testing.T) {
	_, err := ParseSummary(Location{Name: "Mina"}, []byte(`{"error": {"code": 1006}}`))
	assert.Error(t, err)
	_, err = ParseSummary(Location{Name: "Mina"}, []byte(`nope`))
	assert.Error(t, err)
}

func TestMapCondition(t *testing.T) {
	tests := []struct {
		text string
		want Condition
	}{
		{"", ConditionUnknown},
		{"Sunny", ConditionClear},
		{"Clear", ConditionClear},
		{"Partly cloudy", ConditionCloudy},
		{"Overcast", ConditionCloudy},
		{"Patchy light drizzle", ConditionRain},
		{"Thundery outbreaks nearby", ConditionStorm},
		{"Moderate or heavy rain with thunder", ConditionStorm},
		{"Mist", ConditionMist},
		{"Blowing dust", ConditionDust},
		{"Light sleet", ConditionSnow},
		{"Something new", ConditionUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mapCondition(tt.text), tt.text)
	}
}

func TestEstimate(t *testing.T) {
	assert.Equal(t, 34.0, Estimate(Location{Name: "Makkah"}).TempC)
	other := Estimate(Location{Name: "Jeddah"})
	assert.Equal(t, 45.0, other.TempC)
	assert.Equal(t, 50.0, other.FeelsLikeC)
	assert.False(t, other.Live)
}
