package compass

import (
	"math"
	"math/rand"
)

// ShortestDelta returns the signed rotation in [-180,180] that takes previous
// onto target. previous may be unwrapped (outside [0,360)).
func ShortestDelta(previous, target float64) float64 {
	diff := math.Mod(target-previous, 360)
	if diff > 180 {
		diff -= 360
	}
	if diff < -180 {
		diff += 360
	}
	return diff
}

// Smoother tracks the displayed needle angle. The displayed angle is kept
// unwrapped so that an animation between successive values never spins the
// long way across the 0/360 boundary.
type Smoother struct {
	// Jitter, if set, is added to every step.
	Jitter func() float64

	displayed float64
}

// RandomWobble returns a jitter in [-0.5,0.5) degrees.
func RandomWobble() float64 {
	return rand.Float64() - 0.5
}

// Reset places the displayed angle at angle without animating.
func (s *Smoother) Reset(angle float64) {
	s.displayed = angle
}

// Displayed returns the current unwrapped displayed angle.
func (s *Smoother) Displayed() float64 {
	return s.displayed
}

// Step advances the displayed angle towards target along the shortest path
// and returns the new unwrapped value.
func (s *Smoother) Step(target float64) float64 {
	s.displayed += ShortestDelta(s.displayed, target)
	if s.Jitter != nil {
		s.displayed += s.Jitter()
	}
	return s.displayed
}
