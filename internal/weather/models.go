package weather

import (
	"strings"
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
	ConditionDust    Condition = "dust"
)

// Location is a named place whose weather the kiosk shows, e.g. "Mina".
type Location struct {
	Name string `json:"name"`
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return strings.ToLower(strings.TrimSpace(l.Name))
}

// Summary is the condensed current weather shown on the temperature panel.
type Summary struct {
	Location      Location  `json:"location"`
	Timestamp     time.Time `json:"timestamp"` // always UTC
	TempC         float64   `json:"tempC"`
	FeelsLikeC    float64   `json:"feelsLikeC"`
	Condition     Condition `json:"condition"`
	ConditionText string    `json:"conditionText"`

	// Live is false when the values are the built-in estimates used while
	// no upstream data is available.
	Live bool `json:"live"`
}

// estimates are shown until the first successful fetch for a location.
var estimates = map[string]struct{ temp, feels float64 }{
	"mina":   {45, 50},
	"arafat": {28, 35},
	"makkah": {34, 40},
}

// Estimate returns the placeholder summary for loc.
func Estimate(loc Location) Summary {
	e, ok := estimates[loc.Key()]
	if !ok {
		e.temp, e.feels = 45, 50
	}
	return Summary{
		Location:      loc,
		Timestamp:     time.Now().UTC(),
		TempC:         e.temp,
		FeelsLikeC:    e.feels,
		Condition:     ConditionUnknown,
		ConditionText: "Unknown",
	}
}
