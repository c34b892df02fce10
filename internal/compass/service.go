package compass

import (
	"context"
	"log"
	"sync"

	"github.com/i474232898/hajj-kiosk/internal/qibla"
)

// Service owns a Needle and feeds it from the location and orientation
// streams. Readers get the latest Reading from any goroutine.
type Service struct {
	mu     sync.RWMutex
	needle *Needle
	latest Reading

	// OnReading, if set, is called with every new reading from the Run loop.
	OnReading func(Reading)
}

// NewService wraps needle.
func NewService(needle *Needle) *Service {
	return &Service{needle: needle, latest: needle.Reading()}
}

// Latest returns the most recent reading. ok is false until a coordinate has
// been received.
func (s *Service) Latest() (Reading, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.latest.HasFix
}

// Enable forwards an explicit permission request to the needle. The
// permitter is consulted without holding the lock, so readers and the Run
// loop are not blocked by a slow prompt.
func (s *Service) Enable(ctx context.Context, p Permitter) (Reading, error) {
	s.mu.RLock()
	done, err := s.needle.settled()
	r := s.latest
	s.mu.RUnlock()
	if done {
		return r, err
	}

	granted, err := requestPermission(ctx, p)
	if err != nil {
		return r, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.needle.setPermission(granted)
	s.latest = s.needle.Reading()
	return s.latest, err
}

// UpdateLocation moves the observer outside the Run loop, e.g. after the
// camp coordinate was edited.
func (s *Service) UpdateLocation(c qibla.Coordinate) Reading {
	var r Reading
	s.apply(func(n *Needle) (Reading, bool) {
		r = n.UpdateLocation(c)
		return r, true
	})
	return r
}

// Run consumes both streams until ctx is done or both are closed. Every
// coordinate recomputes bearing and distance; every usable orientation event
// moves the needle.
func (s *Service) Run(ctx context.Context, locations <-chan qibla.Coordinate, events <-chan OrientationEvent) {
	for locations != nil || events != nil {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-locations:
			if !ok {
				locations = nil
				continue
			}
			s.apply(func(n *Needle) (Reading, bool) {
				return n.UpdateLocation(c), true
			})
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			s.apply(func(n *Needle) (Reading, bool) {
				return n.Observe(ev)
			})
		}
	}
	log.Println("compass: input streams closed")
}

func (s *Service) apply(step func(*Needle) (Reading, bool)) {
	s.mu.Lock()
	r, changed := step(s.needle)
	if changed {
		s.latest = r
	}
	s.mu.Unlock()

	if changed && s.OnReading != nil {
		s.OnReading(r)
	}
}
