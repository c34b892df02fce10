package weather_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/hajj-kiosk/internal/store"
	"github.com/i474232898/hajj-kiosk/internal/weather"
)

type fakeFetcher map[string]string

func (f fakeFetcher) Current(_ context.Context, location string) (json.RawMessage, error) {
	body, ok := f[location]
	if !ok {
		return nil, errors.New("upstream unavailable")
	}
	return json.RawMessage(body), nil
}

func TestServiceRefreshAndSummaries(t *testing.T) {
	locs := []weather.Location{{Name: "Mina"}, {Name: "Arafat"}, {Name: "Makkah"}}
	fetcher := fakeFetcher{
		"Mina":   `{"current":{"temp_c":46,"feelslike_c":51,"condition":{"text":"Sunny"}}}`,
		"Makkah": `{"current":{"temp_c":38,"feelslike_c":42,"condition":{"text":"Clear"}}}`,
	}
	svc := weather.NewService(store.NewMemoryStore(10, time.Hour), fetcher, locs)

	err := svc.Refresh(context.Background())
	require.Error(t, err, "Arafat fails")
	assert.Contains(t, err.Error(), "Arafat")

	got := svc.Summaries()
	require.Len(t, got, 3)

	assert.Equal(t, "Mina", got[0].Location.Name)
	assert.True(t, got[0].Live)
	assert.Equal(t, 46.0, got[0].TempC)

	assert.False(t, got[1].Live, "estimate for Arafat")
	assert.Equal(t, 28.0, got[1].TempC)

	assert.True(t, got[2].Live)
	assert.Equal(t, 42.0, got[2].FeelsLikeC)
}

func TestServiceKeepsLastGoodSummary(t *testing.T) {
	locs := []weather.Location{{Name: "Mina"}}
	fetcher := fakeFetcher{"Mina": `{"current":{"temp_c":46}}`}
	svc := weather.NewService(store.NewMemoryStore(10, 0), fetcher, locs)
	require.NoError(t, svc.Refresh(context.Background()))

	delete(fetcher, "Mina")
	assert.Error(t, svc.Refresh(context.Background()))

	got := svc.Summaries()
	assert.True(t, got[0].Live)
	assert.Equal(t, 46.0, got[0].TempC)
}
