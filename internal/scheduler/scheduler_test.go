package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOnceRunsEveryJob(t *testing.T) {
	var weather, prayer atomic.Int32
	s := New([]Job{
		{Name: "weather", Run: func(context.Context) error { weather.Add(1); return nil }},
		{Name: "prayer", Run: func(context.Context) error { prayer.Add(1); return errors.New("down") }},
	}, time.Minute)

	s.RunOnce()
	assert.Equal(t, int32(1), weather.Load())
	assert.Equal(t, int32(1), prayer.Load())
}

func TestStartRunsImmediately(t *testing.T) {
	ran := make(chan struct{}, 1)
	s := New([]Job{{Name: "weather", Run: func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}}}, 10*time.Minute)

	require.NoError(t, s.Start())
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
}

func TestStartWithoutJobs(t *testing.T) {
	s := New(nil, time.Minute)
	assert.NoError(t, s.Start())
	s.Stop()
}
