package fir

import (
	"math"
	"math/cmplx"
)

// Response evaluates the transfer function of taps at freqHz for a filter
// running at sampleRate.
//
//	H(e^jw) = sum_k h[k] e^(-jwk)
func Response(taps []float64, freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	z := cmplx.Rect(1, -w)

	var h complex128

	p := complex(1, 0)
	for _, c := range taps {
		h += complex(c, 0) * p
		p *= z
	}

	return h
}

// MagnitudeDB returns |H| of taps at freqHz in decibels.
func MagnitudeDB(taps []float64, freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(Response(taps, freqHz, sampleRate)))
}
