// Package level measures signal levels: RMS, peak, DC offset and clipping.
package level

import (
	"math"

	"github.com/cwbudde/algo-saturator/dsp/buffer"
)

// ClipThreshold is the magnitude at or above which a sample counts as
// clipped once written to a fixed-point or float32 output.
const ClipThreshold = 1.0

// Level holds level statistics of a signal.
//
//nolint:revive
type Level struct {
	Frames      int
	DC          float64
	RMS         float64
	RMS_dB      float64
	Peak        float64
	Peak_dB     float64
	PeakPos     int
	CrestFactor float64
	Clipped     int
}

func silent() Level {
	return Level{
		RMS_dB:  math.Inf(-1),
		Peak_dB: math.Inf(-1),
		PeakPos: -1,
	}
}

// ampTodB converts an amplitude to decibels. Zero maps to -Inf.
func ampTodB(v float64) float64 {
	if v == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(math.Abs(v))
}

// Measure computes the level of signal in one pass.
func Measure(signal []float64) Level {
	var m Meter
	m.Update(signal)

	return m.Result()
}

// MeasureBlock measures every channel of b. The combined Level treats the
// channels as one signal; its PeakPos is a frame index.
func MeasureBlock(b *buffer.Block) (combined Level, perChannel []Level) {
	var all Meter
	all.UpdateBlock(b)

	perChannel = make([]Level, b.NumChannels())
	for ch := range perChannel {
		perChannel[ch] = Measure(b.Channel(ch))
	}

	return all.Result(), perChannel
}

// RMS returns the root-mean-square of signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(signal)))
}

// Peak returns the largest absolute sample of signal.
func Peak(signal []float64) float64 {
	var peak float64
	for _, x := range signal {
		peak = max(peak, math.Abs(x))
	}

	return peak
}

// Meter accumulates level statistics across consecutive blocks. The zero
// value is ready to use.
type Meter struct {
	pos     int
	count   int
	sum     float64
	sumSq   float64
	peak    float64
	peakPos int
	clipped int
}

// Update appends mono samples.
func (m *Meter) Update(samples []float64) {
	m.add(samples, m.pos)
	m.pos += len(samples)
}

// UpdateBlock appends the frames of b. All channels contribute to the same
// statistics.
func (m *Meter) UpdateBlock(b *buffer.Block) {
	for ch := range b.NumChannels() {
		m.add(b.Channel(ch), m.pos)
	}

	m.pos += b.Len()
}

func (m *Meter) add(samples []float64, offset int) {
	for i, x := range samples {
		a := math.Abs(x)

		m.sum += x
		m.sumSq += x * x

		if a > m.peak {
			m.peak = a
			m.peakPos = offset + i
		}

		if a >= ClipThreshold {
			m.clipped++
		}
	}

	m.count += len(samples)
}

// Result returns the statistics accumulated so far.
func (m *Meter) Result() Level {
	if m.count == 0 {
		return silent()
	}

	n := float64(m.count)
	rms := math.Sqrt(m.sumSq / n)

	out := Level{
		Frames:  m.pos,
		DC:      m.sum / n,
		RMS:     rms,
		RMS_dB:  ampTodB(rms),
		Peak:    m.peak,
		Peak_dB: ampTodB(m.peak),
		PeakPos: m.peakPos,
		Clipped: m.clipped,
	}

	if m.peak == 0 {
		out.PeakPos = -1
	}

	if rms > 0 {
		out.CrestFactor = m.peak / rms
	}

	return out
}

// Reset clears the meter.
func (m *Meter) Reset() {
	*m = Meter{}
}
