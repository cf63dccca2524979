//go:build !fastmath

package saturator

import "math"

// dbToGain converts decibels to linear amplitude.
func dbToGain(db float64) float64 {
	return math.Pow(10, db/20)
}
