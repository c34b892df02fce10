// Package location supplies the observer coordinate for the qibla compass:
// a cached position is used immediately, a live source supersedes it, and a
// hardcoded fallback covers source failures.
package location

import (
	"context"
	"log"
	"time"

	"github.com/i474232898/hajj-kiosk/internal/qibla"
)

// DefaultFirstFixTimeout bounds the wait for the first live coordinate.
const DefaultFirstFixTimeout = 5 * time.Second

// Source is a push stream of coordinates. Watch blocks, sending coordinates
// to out, and returns nil once ctx is done or an error if the stream fails.
type Source interface {
	Watch(ctx context.Context, out chan<- qibla.Coordinate) error
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, out chan<- qibla.Coordinate) error

func (f SourceFunc) Watch(ctx context.Context, out chan<- qibla.Coordinate) error { return f(ctx, out) }

// Origin records where a coordinate came from.
type Origin string

const (
	OriginCached   Origin = "cached"
	OriginLive     Origin = "live"
	OriginFallback Origin = "fallback"
)

// Update is one coordinate delivered by a Provider.
type Update struct {
	Coordinate qibla.Coordinate `json:"coordinate"`
	Origin     Origin           `json:"origin"`
}

// Provider merges the cached, live and fallback coordinates into one stream.
type Provider struct {
	// Cached is the previously persisted position, if any.
	Cached *qibla.Coordinate
	// Live is the device location stream. Nil means no live location.
	Live Source
	// Fallback replaces the live stream when it fails.
	Fallback qibla.Coordinate
	// FirstFixTimeout is how long to wait for a live coordinate before
	// emitting Fallback when nothing was cached. Zero uses the default.
	FirstFixTimeout time.Duration
}

// NewProvider returns a Provider that falls back to qibla.FallbackCamp.
func NewProvider(cached *qibla.Coordinate, live Source) *Provider {
	return &Provider{
		Cached:          cached,
		Live:            live,
		Fallback:        qibla.FallbackCamp,
		FirstFixTimeout: DefaultFirstFixTimeout,
	}
}

// Subscribe starts the stream. The returned channel is closed, and the live
// source released, once ctx is done.
func (p *Provider) Subscribe(ctx context.Context) <-chan Update {
	out := make(chan Update, 1)
	go p.run(ctx, out)
	return out
}

func (p *Provider) run(ctx context.Context, out chan<- Update) {
	defer close(out)

	emitted := false
	send := func(u Update) bool {
		select {
		case out <- u:
			emitted = true
			return true
		case <-ctx.Done():
			return false
		}
	}

	if p.Cached != nil {
		if !send(Update{Coordinate: *p.Cached, Origin: OriginCached}) {
			return
		}
	}

	if p.Live == nil {
		if !emitted {
			send(Update{Coordinate: p.Fallback, Origin: OriginFallback})
		}
		<-ctx.Done()
		return
	}

	liveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	live := make(chan qibla.Coordinate)
	errc := make(chan error, 1)
	go func() {
		errc <- p.Live.Watch(liveCtx, live)
	}()

	timeout := p.FirstFixTimeout
	if timeout <= 0 {
		timeout = DefaultFirstFixTimeout
	}
	firstFix := time.NewTimer(timeout)
	defer firstFix.Stop()
	waiting := firstFix.C

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-live:
			waiting = nil
			if !send(Update{Coordinate: c, Origin: OriginLive}) {
				return
			}
		case <-waiting:
			waiting = nil
			if !emitted {
				log.Printf("location: no fix after %s; using fallback", timeout)
				if !send(Update{Coordinate: p.Fallback, Origin: OriginFallback}) {
					return
				}
			}
		case err := <-errc:
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				log.Printf("location: live source failed: %v; using fallback", err)
			} else {
				log.Println("location: live source ended; using fallback")
			}
			if !send(Update{Coordinate: p.Fallback, Origin: OriginFallback}) {
				return
			}
			<-ctx.Done()
			return
		}
	}
}

// Coordinates strips the origin from a stream of updates.
func Coordinates(ctx context.Context, updates <-chan Update) <-chan qibla.Coordinate {
	out := make(chan qibla.Coordinate)
	go func() {
		defer close(out)
		for u := range updates {
			select {
			case out <- u.Coordinate:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
