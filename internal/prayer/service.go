package prayer

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Fetcher returns the raw upstream timings.
type Fetcher interface {
	Timings(ctx context.Context) (json.RawMessage, error)
}

// Service keeps the last good schedule for the prayer panel.
type Service struct {
	fetcher Fetcher

	mu        sync.RWMutex
	schedule  Schedule
	fetchedAt time.Time
}

// NewService creates a Service backed by fetcher.
func NewService(fetcher Fetcher) *Service {
	return &Service{fetcher: fetcher}
}

// Refresh fetches and parses today's timings. On failure the previous
// schedule is kept.
func (s *Service) Refresh(ctx context.Context) error {
	raw, err := s.fetcher.Timings(ctx)
	if err != nil {
		return err
	}
	schedule, err := ParseSchedule(raw)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.schedule = schedule
	s.fetchedAt = time.Now().UTC()
	s.mu.Unlock()
	return nil
}

// Schedule returns the cached schedule, fetching it first if none is cached.
func (s *Service) Schedule(ctx context.Context) (Schedule, time.Time, error) {
	s.mu.RLock()
	schedule, at := s.schedule, s.fetchedAt
	s.mu.RUnlock()
	if schedule != nil {
		return schedule, at, nil
	}

	if err := s.Refresh(ctx); err != nil {
		return nil, time.Time{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schedule, s.fetchedAt, nil
}
