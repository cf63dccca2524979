package core

import "math"

// ClampFinite limits value to [lo, hi]. NaN becomes def, itself limited to
// the range; infinities land on the nearest bound.
func ClampFinite(value, lo, hi, def float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}

	if math.IsNaN(value) {
		value = def
	}

	return math.Min(math.Max(value, lo), hi)
}

// IsFinite reports whether x is a real number.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// DBToLinear returns the amplitude ratio of a level in decibels.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}
