// Package saturate provides the memoryless waveshaper of the saturator.
//
// The transfer curve adds a drive-dependent sine fold to the input before a
// tanh limiter:
//
//	y = tanh((x + 0.3*sin(2*d*x)) * d)
//
// where d is the linear drive. Output magnitude never exceeds 1.
package saturate

import "math"

// FoldAmount scales the sine fold added before the tanh limiter.
const FoldAmount = 0.3

// Saturate shapes one sample with linear drive d.
func Saturate(x, d float64) float64 {
	h := math.Sin(x * d * 2)
	return math.Tanh((x + FoldAmount*h) * d)
}

// Block applies Saturate in place.
func Block(buf []float64, d float64) {
	for i, x := range buf {
		buf[i] = Saturate(x, d)
	}
}
