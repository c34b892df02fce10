package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// Fetcher returns raw current conditions for a named location.
type Fetcher interface {
	Current(ctx context.Context, location string) (json.RawMessage, error)
}

// Store is the contract the in-memory summary store must satisfy.
type Store interface {
	SaveSummary(loc Location, summary Summary)
	GetLatest(loc Location) (Summary, error)
	GetRange(loc Location, from, to time.Time) ([]Summary, error)
}

// Service refreshes and serves summaries for the configured camp locations.
type Service struct {
	store     Store
	fetcher   Fetcher
	locations []Location
}

// NewService creates a new Service.
func NewService(store Store, fetcher Fetcher, locations []Location) *Service {
	return &Service{
		store:     store,
		fetcher:   fetcher,
		locations: locations,
	}
}

// Locations returns the configured locations.
func (s *Service) Locations() []Location {
	return s.locations
}

// FetchAndStore fetches and stores the summary for one location. On failure
// the last good summary is kept.
func (s *Service) FetchAndStore(ctx context.Context, loc Location) error {
	raw, err := s.fetcher.Current(ctx, loc.Name)
	if err != nil {
		return fmt.Errorf("fetch weather for %s: %w", loc.Name, err)
	}
	summary, err := ParseSummary(loc, raw)
	if err != nil {
		return err
	}
	s.store.SaveSummary(loc, summary)
	return nil
}

// Refresh fetches every configured location concurrently. It returns the
// joined errors of the locations that failed.
func (s *Service) Refresh(ctx context.Context) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, loc := range s.locations {
		wg.Add(1)
		go func(loc Location) {
			defer wg.Done()
			if err := s.FetchAndStore(ctx, loc); err != nil {
				log.Printf("ERROR: %v", err)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(loc)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// Summaries returns the latest summary per configured location, in order,
// substituting the estimate where nothing has been fetched yet.
func (s *Service) Summaries() []Summary {
	out := make([]Summary, 0, len(s.locations))
	for _, loc := range s.locations {
		summary, err := s.store.GetLatest(loc)
		if err != nil {
			summary = Estimate(loc)
		}
		out = append(out, summary)
	}
	return out
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(loc Location, from, to time.Time) ([]Summary, error) {
	return s.store.GetRange(loc, from, to)
}
