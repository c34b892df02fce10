package weather

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/i474232898/hajj-kiosk/internal/common"
)

// ParseSummary condenses a WeatherAPI.com current conditions payload.
// Missing numeric fields fall back to the location estimate.
func ParseSummary(loc Location, raw json.RawMessage) (Summary, error) {
	var payload struct {
		Location struct {
			LocaltimeEpoch int64 `json:"localtime_epoch"`
		} `json:"location"`
		Current *struct {
			TempC      *float64 `json:"temp_c"`
			FeelsLikeC *float64 `json:"feelslike_c"`
			Condition  struct {
				Text string `json:"text"`
			} `json:"condition"`
		} `json:"current"`
	}

	if err := json.Unmarshal(raw, &payload); err != nil {
		return Summary{}, fmt.Errorf("decode weather payload: %w", err)
	}
	if payload.Current == nil {
		return Summary{}, fmt.Errorf("weather payload for %s has no current conditions", loc.Name)
	}

	s := Estimate(loc)
	s.Live = true
	if payload.Location.LocaltimeEpoch > 0 {
		s.Timestamp = time.Unix(payload.Location.LocaltimeEpoch, 0).UTC()
	}
	if payload.Current.TempC != nil {
		s.TempC = *payload.Current.TempC
	}
	if payload.Current.FeelsLikeC != nil {
		s.FeelsLikeC = *payload.Current.FeelsLikeC
	}
	if text := strings.TrimSpace(payload.Current.Condition.Text); text != "" {
		s.ConditionText = text
	}
	s.Condition = mapCondition(payload.Current.Condition.Text)
	return s, nil
}

func mapCondition(text string) Condition {
	text = strings.ToLower(text)
	switch {
	case text == "":
		return ConditionUnknown
	case common.HasAny(text, "thunder", "storm"):
		return ConditionStorm
	case common.HasAny(text, "rain", "shower", "drizzle"):
		return ConditionRain
	case common.HasAny(text, "snow", "sleet", "blizzard"):
		return ConditionSnow
	case common.HasAny(text, "dust", "sand"):
		return ConditionDust
	case common.HasAny(text, "mist", "fog", "haze"):
		return ConditionMist
	case common.HasAny(text, "cloud", "overcast"):
		return ConditionCloudy
	case common.HasAny(text, "sunny", "clear"):
		return ConditionClear
	default:
		return ConditionUnknown
	}
}
