package design

import (
	"math"

	"github.com/cwbudde/algo-saturator/dsp/filter/biquad"
)

// ButterworthQ is the quality factor of a maximally flat second-order section.
const ButterworthQ = 1 / math.Sqrt2

// angle holds the trigonometric terms every RBJ design starts from.
type angle struct {
	cos, sin float64
	q        float64
}

// newAngle maps freq to a digital angular frequency. It fails for rates that
// are not positive and finite and for frequencies outside (0, Nyquist). A q
// that is not positive and finite becomes ButterworthQ.
func newAngle(freq, q, sampleRate float64) (angle, bool) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 1) {
		return angle{}, false
	}

	if !(freq > 0 && freq < sampleRate/2) {
		return angle{}, false
	}

	if !(q > 0) || math.IsInf(q, 1) {
		q = ButterworthQ
	}

	w0 := 2 * math.Pi * freq / sampleRate

	return angle{cos: math.Cos(w0), sin: math.Sin(w0), q: q}, true
}

func (a angle) alpha() float64 { return a.sin / (2 * a.q) }

// Lowpass designs an RBJ second-order low-pass at freq (Hz). Invalid
// frequencies or rates return zero coefficients; a non-positive q selects
// ButterworthQ.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	w, ok := newAngle(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	k := (1 - w.cos) / 2

	return divide([3]float64{k, 2 * k, k}, 1+w.alpha(), -2*w.cos, 1-w.alpha())
}

// Highpass designs an RBJ second-order high-pass at freq (Hz).
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	w, ok := newAngle(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	k := (1 + w.cos) / 2

	return divide([3]float64{k, -2 * k, k}, 1+w.alpha(), -2*w.cos, 1-w.alpha())
}

// HighShelf designs an RBJ high shelf that lifts everything above freq by
// gainDB. q sets the slope at the corner.
func HighShelf(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	w, ok := newAngle(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	g := math.Pow(10, gainDB/40)
	beta := math.Sqrt(g) * w.sin / w.q
	sum, diff := g+1, g-1

	num := [3]float64{
		g * (sum + diff*w.cos + beta),
		-2 * g * (diff + sum*w.cos),
		g * (sum + diff*w.cos - beta),
	}

	return divide(num, sum-diff*w.cos+beta, 2*(diff-sum*w.cos), sum-diff*w.cos-beta)
}

// divide scales numerator b and denominator a1, a2 by a0.
func divide(b [3]float64, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || !(math.Abs(a0) <= math.MaxFloat64) {
		return biquad.Coefficients{}
	}

	inv := 1 / a0

	return biquad.Coefficients{
		B0: b[0] * inv,
		B1: b[1] * inv,
		B2: b[2] * inv,
		A1: a1 * inv,
		A2: a2 * inv,
	}
}
