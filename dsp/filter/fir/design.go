package fir

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDesign indicates invalid low-pass design parameters.
var ErrInvalidDesign = errors.New("fir: invalid design")

// DesignLowpass returns a linear-phase windowed-sinc low-pass with len(win)
// taps. cutoff is normalized to the sample rate and must lie in (0, 0.5).
// The taps are scaled to the requested DC gain.
func DesignLowpass(cutoff float64, win []float64, dcGain float64) ([]float64, error) {
	if len(win) == 0 {
		return nil, fmt.Errorf("%w: empty window", ErrInvalidDesign)
	}

	if !(cutoff > 0 && cutoff < 0.5) {
		return nil, fmt.Errorf("%w: cutoff %.6f outside (0, 0.5)", ErrInvalidDesign, cutoff)
	}

	taps := make([]float64, len(win))
	center := 0.5 * float64(len(win)-1)

	sum := 0.0
	for n := range taps {
		t := float64(n) - center
		taps[n] = 2 * cutoff * sinc(2*cutoff*t) * win[n]
		sum += taps[n]
	}

	if sum == 0 {
		return nil, fmt.Errorf("%w: zero-sum filter", ErrInvalidDesign)
	}

	scale := dcGain / sum
	for n := range taps {
		taps[n] *= scale
	}

	return taps, nil
}

// GroupDelay returns the group delay in samples of a linear-phase filter with
// numTaps taps.
func GroupDelay(numTaps int) float64 {
	if numTaps <= 0 {
		return 0
	}

	return 0.5 * float64(numTaps-1)
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}

	px := math.Pi * x

	return math.Sin(px) / px
}
