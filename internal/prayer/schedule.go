package prayer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MakkahTime is the fixed UTC+3 zone prayer clocks are expressed in.
var MakkahTime = time.FixedZone("AST", 3*60*60)

// Names lists the displayed prayers in daily order.
var Names = []string{"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha"}

// Prayer is one entry of the daily schedule.
type Prayer struct {
	Name    string `json:"name"`
	Clock   string `json:"time"`    // "HH:MM", local to MakkahTime
	Minutes int    `json:"minutes"` // minutes since local midnight
}

// Schedule is the ordered list of today's prayers.
type Schedule []Prayer

// ParseSchedule extracts the displayed prayers from an Aladhan payload.
func ParseSchedule(raw json.RawMessage) (Schedule, error) {
	var payload struct {
		Data struct {
			Timings map[string]string `json:"timings"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode prayer timings: %w", err)
	}
	if len(payload.Data.Timings) == 0 {
		return nil, fmt.Errorf("prayer timings missing from payload")
	}

	s := make(Schedule, 0, len(Names))
	for _, name := range Names {
		clock, ok := payload.Data.Timings[name]
		if !ok {
			return nil, fmt.Errorf("prayer timings missing %s", name)
		}
		minutes, err := parseClock(clock)
		if err != nil {
			return nil, fmt.Errorf("prayer %s: %w", name, err)
		}
		s = append(s, Prayer{
			Name:    name,
			Clock:   fmt.Sprintf("%02d:%02d", minutes/60, minutes%60),
			Minutes: minutes,
		})
	}
	return s, nil
}

// parseClock parses "HH:MM", ignoring any trailing zone annotation such as
// "04:11 (+03)".
func parseClock(clock string) (int, error) {
	clock = strings.TrimSpace(clock)
	if i := strings.IndexByte(clock, ' '); i >= 0 {
		clock = clock[:i]
	}
	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock %q", clock)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", clock)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", clock)
	}
	return h*60 + m, nil
}

// Next returns the index of the first prayer after now, or the last prayer
// once Isha has passed. It returns -1 for an empty schedule.
func (s Schedule) Next(now time.Time) int {
	if len(s) == 0 {
		return -1
	}
	local := now.In(MakkahTime)
	m := local.Hour()*60 + local.Minute()
	for i, p := range s {
		if m < p.Minutes {
			return i
		}
	}
	return len(s) - 1
}
