//go:build fastmath

package saturator

import (
	"math"

	"github.com/meko-christian/algo-approx"
)

const ln10Over20 = math.Ln10 / 20

// dbToGain converts decibels to linear amplitude using the identity
// 10^(db/20) = e^(db*ln(10)/20).
func dbToGain(db float64) float64 {
	return approx.FastExp(db * ln10Over20)
}
