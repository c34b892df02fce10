package prayer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/hajj-kiosk/internal/upstream"
)

const aladhanPayload = `{
	"code": 200,
	"status": "OK",
	"data": {
		"timings": {
			"Fajr": "04:11",
			"Sunrise": "05:35",
			"Dhuhr": "12:21",
			"Asr": "15:40 (+03)",
			"Sunset": "19:07",
			"Maghrib": "19:07",
			"Isha": "20:37",
			"Imsak": "04:01",
			"Midnight": "00:21"
		}
	}
}`

func TestClientTimings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/timingsByCity", r.URL.Path)
		assert.Equal(t, "Makkah", r.URL.Query().Get("city"))
		assert.Equal(t, "Saudi Arabia", r.URL.Query().Get("country"))
		assert.Equal(t, "4", r.URL.Query().Get("method"))
		_, _ = w.Write([]byte(aladhanPayload))
	}))
	defer srv.Close()

	c := NewClient(upstream.NewClient("aladhan", srv.Client(), 0), srv.URL+"/v1", DefaultQuery)
	raw, err := c.Timings(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, aladhanPayload, string(raw))
}

func TestParseSchedule(t *testing.T) {
	s, err := ParseSchedule(json.RawMessage(aladhanPayload))
	require.NoError(t, err)
	require.Len(t, s, 6)

	assert.Equal(t, Prayer{Name: "Fajr", Clock: "04:11", Minutes: 4*60 + 11}, s[0])
	assert.Equal(t, Prayer{Name: "Asr", Clock: "15:40", Minutes: 15*60 + 40}, s[3])
	assert.Equal(t, "Isha", s[5].Name)
}

func TestParseScheduleErrors(t *testing.T) {
	tests := []string{
		`not json`,
		`{"data": {}}`,
		`{"data": {"timings": {"Fajr": "04:11"}}}`,
		`{"data": {"timings": {"Fajr": "4h11", "Sunrise": "05:35", "Dhuhr": "12:21", "Asr": "15:40", "Maghrib": "19:07", "Isha": "20:37"}}}`,
		`{"data": {"timings": {"Fajr": "24:11", "Sunrise": "05:35", "Dhuhr": "12:21", "Asr": "15:40", "Maghrib": "19:07", "Isha": "20:37"}}}`,
	}
	for _, raw := range tests {
		_, err := ParseSchedule(json.RawMessage(raw))
		assert.Error(t, err, raw)
	}
}

func TestScheduleNext(t *testing.T) {
	s, err := ParseSchedule(json.RawMessage(aladhanPayload))
	require.NoError(t, err)

	at := func(h, m int) time.Time {
		return time.Date(2026, 5, 26, h, m, 0, 0, MakkahTime)
	}
	assert.Equal(t, 0, s.Next(at(1, 0)))
	assert.Equal(t, 1, s.Next(at(4, 11)), "a prayer at the current minute has started")
	assert.Equal(t, 2, s.Next(at(12, 20)))
	assert.Equal(t, 5, s.Next(at(20, 0)))
	assert.Equal(t, 5, s.Next(at(23, 0)), "after Isha the last prayer stays highlighted")

	// 09:20 UTC is 12:20 in Makkah.
	assert.Equal(t, 2, s.Next(time.Date(2026, 5, 26, 9, 20, 0, 0, time.UTC)))

	assert.Equal(t, -1, Schedule(nil).Next(at(1, 0)))
}

type fakeFetcher struct {
	raw   string
	err   error
	calls int
}

func (f *fakeFetcher) Timings(context.Context) (json.RawMessage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.raw), nil
}

func TestServiceCachesSchedule(t *testing.T) {
	f := &fakeFetcher{raw: aladhanPayload}
	svc := NewService(f)

	s, at, err := svc.Schedule(context.Background())
	require.NoError(t, err)
	assert.Len(t, s, 6)
	assert.False(t, at.IsZero())

	_, _, err = svc.Schedule(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls)

	// A failed refresh keeps the previous schedule.
	f.err = errors.New("down")
	assert.Error(t, svc.Refresh(context.Background()))
	s, _, err = svc.Schedule(context.Background())
	require.NoError(t, err)
	assert.Len(t, s, 6)
}

func TestServiceScheduleError(t *testing.T) {
	svc := NewService(&fakeFetcher{err: errors.New("down")})
	_, _, err := svc.Schedule(context.Background())
	assert.Error(t, err)
}
