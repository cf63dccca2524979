package smooth

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidRate indicates a non-positive or non-finite sample rate.
	ErrInvalidRate = errors.New("smooth: invalid sample rate")
	// ErrInvalidRamp indicates a negative or non-finite ramp duration.
	ErrInvalidRamp = errors.New("smooth: invalid ramp duration")
)

// Linear ramps linearly towards a target over a fixed number of samples.
// The zero value jumps immediately to every new target.
type Linear struct {
	current     float64
	target      float64
	step        float64
	countdown   int
	rampSamples int
}

// Prepare sets the ramp length to floor(rampSeconds*sampleRate) samples and
// snaps the smoother to its current target.
func (l *Linear) Prepare(sampleRate, rampSeconds float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: %f", ErrInvalidRate, sampleRate)
	}

	if rampSeconds < 0 || math.IsNaN(rampSeconds) || math.IsInf(rampSeconds, 0) {
		return fmt.Errorf("%w: %f", ErrInvalidRamp, rampSeconds)
	}

	l.rampSamples = int(math.Floor(rampSeconds * sampleRate))
	l.Reset(l.target)

	return nil
}

// Reset sets current and target to v and cancels any ramp in progress.
func (l *Linear) Reset(v float64) {
	l.current = v
	l.target = v
	l.step = 0
	l.countdown = 0
}

// SetTarget schedules a new destination. A ramp restarts from the current
// value and lasts exactly RampSamples calls to Next. Setting the pending
// target again is a no-op.
func (l *Linear) SetTarget(v float64) {
	if v == l.target {
		return
	}

	l.target = v

	if l.rampSamples <= 0 {
		l.current = v
		l.step = 0
		l.countdown = 0

		return
	}

	l.step = (v - l.current) / float64(l.rampSamples)
	l.countdown = l.rampSamples
}

// Next advances one sample and returns the new value. The last step of a
// ramp lands on the target exactly.
func (l *Linear) Next() float64 {
	if l.countdown <= 0 {
		return l.target
	}

	l.countdown--
	if l.countdown == 0 {
		l.current = l.target
	} else {
		l.current += l.step
	}

	return l.current
}

// Skip advances n samples at once and returns the resulting value.
func (l *Linear) Skip(n int) float64 {
	if n <= 0 || l.countdown <= 0 {
		return l.current
	}

	if n >= l.countdown {
		l.current = l.target
		l.countdown = 0

		return l.current
	}

	l.current += l.step * float64(n)
	l.countdown -= n

	return l.current
}

// Current returns the last produced value without advancing.
func (l *Linear) Current() float64 { return l.current }

// Target returns the pending destination.
func (l *Linear) Target() float64 { return l.target }

// IsSmoothing reports whether a ramp is in progress.
func (l *Linear) IsSmoothing() bool { return l.countdown > 0 }

// RampSamples returns the ramp length in samples.
func (l *Linear) RampSamples() int { return l.rampSamples }
