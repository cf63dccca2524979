package saturator

import (
	"math"

	"github.com/cwbudde/algo-saturator/dsp/filter/biquad"
	"github.com/cwbudde/algo-saturator/dsp/filter/design"
)

const (
	// toneUpdateInterval is the number of oversampled samples between
	// coefficient updates while the tone parameter moves.
	toneUpdateInterval = 32

	toneMinHz = 500.0
	toneMaxHz = 20000.0

	// toneOpenPct disengages the filter.
	toneOpenPct = 100.0
)

// ToneCutoff maps a tone setting in percent to the low-pass corner frequency.
// The sweep is logarithmic: 0 % is 500 Hz, 50 % about 3.2 kHz, 100 % 20 kHz.
func ToneCutoff(pct float64) float64 {
	pct = min(max(pct, 0), toneOpenPct)
	return toneMinHz * math.Pow(toneMaxHz/toneMinHz, pct/toneOpenPct)
}

// toneFilter is a per-channel Butterworth low-pass running at the
// oversampled rate. The sections run on every sample, also while the tone is
// open, so their state is always current. Engaging and releasing the filter
// crossfades between the input and the filtered signal over fade samples.
type toneFilter struct {
	enabled  bool
	rate     float64
	sections []biquad.Section

	freq      float64
	countdown int

	wet, target float64
	step        float64
}

// newToneFilter returns a filter whose engage crossfade lasts fadeSamples
// oversampled samples, at least toneUpdateInterval.
func newToneFilter(enabled bool, rate float64, channels, fadeSamples int) toneFilter {
	return toneFilter{
		enabled:  enabled,
		rate:     rate,
		sections: make([]biquad.Section, channels),
		step:     1 / float64(max(fadeSamples, toneUpdateInterval)),
	}
}

// reset clears filter state and snaps design and crossfade to pct.
func (t *toneFilter) reset(pct float64) {
	for i := range t.sections {
		t.sections[i].Reset()
	}

	t.freq = 0
	t.countdown = 0
	t.update(pct)
	t.wet = t.target
}

// advance is called once per oversampled sample with the smoothed tone.
func (t *toneFilter) advance(pct float64) {
	if !t.enabled {
		return
	}

	if t.countdown > 0 {
		t.countdown--
	} else {
		t.countdown = toneUpdateInterval - 1
		t.update(pct)
	}

	switch {
	case t.wet < t.target:
		t.wet = min(t.wet+t.step, t.target)
	case t.wet > t.target:
		t.wet = max(t.wet-t.step, t.target)
	}
}

// update designs for pct. An open tone keeps the sections at the top of the
// sweep and fades their output out.
func (t *toneFilter) update(pct float64) {
	if !t.enabled {
		return
	}

	t.target = 0
	if pct < toneOpenPct {
		t.target = 1
	}

	freq := min(ToneCutoff(pct), 0.45*t.rate)
	if freq == t.freq {
		return
	}

	c := design.Lowpass(freq, design.ButterworthQ, t.rate)
	for i := range t.sections {
		t.sections[i].SetCoefficients(c)
	}

	t.freq = freq
}

func (t *toneFilter) process(ch int, x float64) float64 {
	if !t.enabled {
		return x
	}

	y := t.sections[ch].ProcessSample(x)

	switch t.wet {
	case 0:
		return x
	case 1:
		return y
	default:
		return x + t.wet*(y-x)
	}
}
