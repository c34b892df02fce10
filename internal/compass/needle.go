package compass

import (
	"context"
	"errors"
	"fmt"

	"github.com/i474232898/hajj-kiosk/internal/qibla"
)

var (
	// ErrUnsupported is returned when the device has no orientation sensor.
	ErrUnsupported = errors.New("compass: orientation sensing unsupported")
	// ErrPermissionDenied is returned when the user refuses sensor access.
	ErrPermissionDenied = errors.New("compass: permission denied")
)

// Permission is the state of orientation sensor access.
type Permission int

const (
	PermissionPrompt Permission = iota
	PermissionGranted
	PermissionDenied
	PermissionUnsupported
)

func (p Permission) String() string {
	switch p {
	case PermissionPrompt:
		return "prompt"
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	case PermissionUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("Permission(%d)", int(p))
	}
}

// MarshalText renders the permission by name in JSON.
func (p Permission) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a permission name written by MarshalText.
func (p *Permission) UnmarshalText(text []byte) error {
	switch string(text) {
	case "prompt":
		*p = PermissionPrompt
	case "granted":
		*p = PermissionGranted
	case "denied":
		*p = PermissionDenied
	case "unsupported":
		*p = PermissionUnsupported
	default:
		return fmt.Errorf("compass: unknown permission %q", text)
	}
	return nil
}

// Permitter asks the user for sensor access.
type Permitter interface {
	RequestPermission(ctx context.Context) (granted bool, err error)
}

// PermitterFunc adapts a function to Permitter.
type PermitterFunc func(ctx context.Context) (bool, error)

func (f PermitterFunc) RequestPermission(ctx context.Context) (bool, error) { return f(ctx) }

// Reading is a snapshot of the needle state.
type Reading struct {
	Fix        qibla.Fix  `json:"fix"`
	HasFix     bool       `json:"hasFix"`
	Heading    float64    `json:"heading"`
	HasHeading bool       `json:"hasHeading"`
	Angle      float64    `json:"needleAngle"`
	Displayed  float64    `json:"displayedAngle"`
	Permission Permission `json:"permission"`
}

// Needle derives the needle angle from the latest coordinate and heading.
// It is not safe for concurrent use; Service serializes access.
type Needle struct {
	destination qibla.Coordinate
	smoother    *Smoother
	permission  Permission

	fix        qibla.Fix
	hasFix     bool
	heading    float64
	hasHeading bool
	angle      float64
}

// NewNeedle creates a needle pointing at the Kaaba. supported reports whether
// the device has an orientation sensor at all. A nil smoother steps without
// jitter.
func NewNeedle(supported bool, smoother *Smoother) *Needle {
	if smoother == nil {
		smoother = &Smoother{}
	}
	p := PermissionPrompt
	if !supported {
		p = PermissionUnsupported
	}
	return &Needle{
		destination: qibla.Kaaba,
		smoother:    smoother,
		permission:  p,
	}
}

// UpdateLocation recomputes bearing and distance for a new observer position.
func (n *Needle) UpdateLocation(c qibla.Coordinate) Reading {
	n.fix = qibla.ComputeFix(c, n.destination)
	n.hasFix = true
	n.retarget()
	return n.Reading()
}

// Observe applies an orientation event. ok is false when the event was
// discarded: sensing not granted, no bearing yet, or no usable heading.
func (n *Needle) Observe(ev OrientationEvent) (r Reading, ok bool) {
	if n.permission != PermissionGranted || !n.hasFix {
		return n.Reading(), false
	}
	heading, ok := ev.Heading()
	if !ok {
		return n.Reading(), false
	}
	n.heading = heading
	n.hasHeading = true
	n.retarget()
	return n.Reading(), true
}

// Enable requests sensor access through p. A nil p means the platform grants
// access without asking. A denial leaves the needle in static mode; nothing
// asks again until Enable is called again.
func (n *Needle) Enable(ctx context.Context, p Permitter) error {
	if done, err := n.settled(); done {
		return err
	}
	granted, err := requestPermission(ctx, p)
	if err != nil {
		return err
	}
	return n.setPermission(granted)
}

// settled reports whether a permission request is pointless, with the error
// Enable should return in that case.
func (n *Needle) settled() (bool, error) {
	switch n.permission {
	case PermissionUnsupported:
		return true, ErrUnsupported
	case PermissionGranted:
		return true, nil
	}
	return false, nil
}

func (n *Needle) setPermission(granted bool) error {
	if done, err := n.settled(); done {
		return err
	}
	if !granted {
		n.permission = PermissionDenied
		n.hasHeading = false
		n.retarget()
		return ErrPermissionDenied
	}
	n.permission = PermissionGranted
	return nil
}

func requestPermission(ctx context.Context, p Permitter) (bool, error) {
	if p == nil {
		return true, nil
	}
	granted, err := p.RequestPermission(ctx)
	if err != nil {
		return false, fmt.Errorf("request compass permission: %w", err)
	}
	return granted, nil
}

// Reading returns the current state.
func (n *Needle) Reading() Reading {
	return Reading{
		Fix:        n.fix,
		HasFix:     n.hasFix,
		Heading:    n.heading,
		HasHeading: n.hasHeading,
		Angle:      n.angle,
		Displayed:  n.smoother.Displayed(),
		Permission: n.permission,
	}
}

func (n *Needle) retarget() {
	if !n.hasFix {
		return
	}
	target := n.fix.Bearing
	if n.permission == PermissionGranted && n.hasHeading {
		target = RelativeAngle(n.fix.Bearing, n.heading)
	}
	n.angle = target
	n.smoother.Step(target)
}
