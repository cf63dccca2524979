// Package loudness measures program loudness per ITU-R BS.1770 in LUFS.
package loudness

import (
	"math"

	"github.com/cwbudde/algo-saturator/dsp/buffer"
	"github.com/cwbudde/algo-saturator/dsp/filter/biquad"
	"github.com/cwbudde/algo-saturator/dsp/filter/design"
)

const (
	// K-weighting stages.
	shelfFreq   = 1500.0
	shelfGainDB = 4.0
	hpfFreq     = 38.0

	hopSeconds   = 0.1
	momentaryHop = 4  // 400 ms gating block, 75 % overlap
	shortTermHop = 30 // 3 s

	absoluteGate = -70.0
	relativeGate = -10.0

	// Floor returned for silence.
	Floor = -120.0
)

// Meter accumulates K-weighted power in 100 ms hops. Momentary and
// short-term loudness slide over the most recent hops; integrated loudness
// gates every 400 ms block seen since Reset.
type Meter struct {
	channels int
	shelf    []biquad.Section
	hpf      []biquad.Section

	hopLen  int
	hopFill int
	hopSum  float64

	hops     [shortTermHop]float64
	hopCount int

	blocks       []float64
	maxMomentary float64
}

// NewMeter creates a meter.
func NewMeter(opts ...MeterOption) *Meter {
	cfg := DefaultMeterConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	shelf := design.HighShelf(shelfFreq, shelfGainDB, design.ButterworthQ, cfg.SampleRate)
	hpf := design.Highpass(hpfFreq, design.ButterworthQ, cfg.SampleRate)

	m := &Meter{
		channels: cfg.Channels,
		shelf:    make([]biquad.Section, cfg.Channels),
		hpf:      make([]biquad.Section, cfg.Channels),
		hopLen:   max(int(math.Round(hopSeconds*cfg.SampleRate)), 1),
	}

	for ch := range cfg.Channels {
		m.shelf[ch].SetCoefficients(shelf)
		m.hpf[ch].SetCoefficients(hpf)
	}

	m.Reset()

	return m
}

// Reset clears filter state and all accumulated measurements.
func (m *Meter) Reset() {
	for ch := range m.channels {
		m.shelf[ch].Reset()
		m.hpf[ch].Reset()
	}

	m.hopFill = 0
	m.hopSum = 0
	m.hops = [shortTermHop]float64{}
	m.hopCount = 0
	m.blocks = m.blocks[:0]
	m.maxMomentary = math.Inf(-1)
}

// ProcessSample measures one frame holding a sample per channel. Short
// frames are ignored.
func (m *Meter) ProcessSample(frame []float64) {
	if len(frame) < m.channels {
		return
	}

	for ch := range m.channels {
		y := m.hpf[ch].ProcessSample(m.shelf[ch].ProcessSample(frame[ch]))
		m.hopSum += y * y
	}

	m.advance()
}

// ProcessBlock measures every frame of b. Channels beyond the meter's count
// are ignored; missing channels count as silence.
func (m *Meter) ProcessBlock(b *buffer.Block) {
	n := b.Len()
	active := min(b.NumChannels(), m.channels)

	for i := range n {
		for ch := range active {
			y := m.hpf[ch].ProcessSample(m.shelf[ch].ProcessSample(b.Channel(ch)[i]))
			m.hopSum += y * y
		}

		for ch := active; ch < m.channels; ch++ {
			y := m.hpf[ch].ProcessSample(m.shelf[ch].ProcessSample(0))
			m.hopSum += y * y
		}

		m.advance()
	}
}

func (m *Meter) advance() {
	m.hopFill++
	if m.hopFill < m.hopLen {
		return
	}

	m.hops[m.hopCount%shortTermHop] = m.hopSum / float64(m.hopLen)
	m.hopCount++
	m.hopFill = 0
	m.hopSum = 0

	if m.hopCount >= momentaryHop {
		power := m.meanPower(momentaryHop)
		m.blocks = append(m.blocks, power)
		m.maxMomentary = max(m.maxMomentary, toLUFS(power))
	}
}

// meanPower averages the last n complete hops, or as many as exist.
func (m *Meter) meanPower(n int) float64 {
	n = min(n, m.hopCount)
	if n == 0 {
		return 0
	}

	sum := 0.0
	for i := 1; i <= n; i++ {
		sum += m.hops[(m.hopCount-i)%shortTermHop]
	}

	return sum / float64(n)
}

// Momentary returns the loudness of the last 400 ms.
func (m *Meter) Momentary() float64 { return toLUFS(m.meanPower(momentaryHop)) }

// ShortTerm returns the loudness of the last 3 s.
func (m *Meter) ShortTerm() float64 { return toLUFS(m.meanPower(shortTermHop)) }

// MaxMomentary returns the loudest 400 ms block seen, or -Inf.
func (m *Meter) MaxMomentary() float64 { return m.maxMomentary }

// Integrated returns the gated program loudness since Reset, or -Inf when
// no block passes the gates.
func (m *Meter) Integrated() float64 {
	gated := func(threshold float64) (float64, int) {
		sum, n := 0.0, 0

		for _, p := range m.blocks {
			if toLUFS(p) > threshold {
				sum += p
				n++
			}
		}

		return sum, n
	}

	sum, n := gated(absoluteGate)
	if n == 0 {
		return math.Inf(-1)
	}

	sum, n = gated(toLUFS(sum/float64(n)) + relativeGate)
	if n == 0 {
		return math.Inf(-1)
	}

	return toLUFS(sum / float64(n))
}

// Integrated measures the program loudness of b at sampleRate.
func Integrated(b *buffer.Block, sampleRate float64) float64 {
	m := NewMeter(WithSampleRate(sampleRate), WithChannels(b.NumChannels()))
	m.ProcessBlock(b)

	return m.Integrated()
}

func toLUFS(meanSquare float64) float64 {
	if meanSquare <= 0 {
		return Floor
	}

	return -0.691 + 10*math.Log10(meanSquare)
}
