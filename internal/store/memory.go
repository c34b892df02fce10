// Package store keeps recent camp weather summaries in memory for the
// temperature panel and the history endpoint.
package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/hajj-kiosk/internal/weather"
)

// ErrNotFound is returned when no summary is stored for a location or range.
var ErrNotFound = errors.New("no weather data for location")

// MemoryStore holds summaries per camp location ordered by Timestamp.
// Retention is applied on every save.
type MemoryStore struct {
	mu        sync.RWMutex
	summaries map[string][]weather.Summary

	maxHistory int           // <= 0 keeps any number
	maxAge     time.Duration // <= 0 keeps any age

	now func() time.Time
}

// NewMemoryStore creates a MemoryStore keeping at most maxHistory summaries
// no older than maxAge per location.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		summaries:  make(map[string][]weather.Summary),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveSummary inserts summary in timestamp order. A refresh that finishes
// late does not hide a newer summary from GetLatest.
func (s *MemoryStore) SaveSummary(loc weather.Location, summary weather.Summary) {
	key := loc.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.summaries[key]
	i := sort.Search(len(list), func(i int) bool {
		return list[i].Timestamp.After(summary.Timestamp)
	})
	list = append(list, weather.Summary{})
	copy(list[i+1:], list[i:])
	list[i] = summary

	s.summaries[key] = s.retain(list)
}

// retain drops the oldest summaries beyond maxHistory and those older than
// maxAge. The newest summary always survives.
func (s *MemoryStore) retain(list []weather.Summary) []weather.Summary {
	if s.maxHistory > 0 && len(list) > s.maxHistory {
		list = list[len(list)-s.maxHistory:]
	}
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := sort.Search(len(list)-1, func(i int) bool {
			return !list[i].Timestamp.Before(cutoff)
		})
		list = list[i:]
	}
	return list
}

// GetLatest returns the newest summary for loc.
func (s *MemoryStore) GetLatest(loc weather.Location) (weather.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.summaries[loc.Key()]
	if len(list) == 0 {
		return weather.Summary{}, ErrNotFound
	}
	return list[len(list)-1], nil
}

// GetRange returns a copy of the summaries for loc with from <= Timestamp <= to.
func (s *MemoryStore) GetRange(loc weather.Location, from, to time.Time) ([]weather.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.summaries[loc.Key()]
	lo := sort.Search(len(list), func(i int) bool { return !list[i].Timestamp.Before(from) })
	hi := sort.Search(len(list), func(i int) bool { return list[i].Timestamp.After(to) })
	if lo >= hi {
		return nil, ErrNotFound
	}
	return append([]weather.Summary(nil), list[lo:hi]...), nil
}
