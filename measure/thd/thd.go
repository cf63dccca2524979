package thd

import (
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-saturator/dsp/window"
)

// Config holds the analysis parameters. Zero fields take defaults: a
// 20 Hz to 20 kHz range, a Hann window with a matching capture width,
// rub-and-buzz from the tenth harmonic and an FFT sized to the input.
type Config struct {
	SampleRate      float64
	FFTSize         int
	FundamentalFreq float64 // 0 picks the strongest in-range bin
	RangeLowerFreq  float64
	RangeUpperFreq  float64
	CaptureBins     int // half-width of each tone in bins
	MaxHarmonics    int // 0 counts every in-range harmonic
	RubNBuzzStart   int
	WindowType      window.Type
}

// Result holds the measured ratios, all relative to the fundamental level.
//
// Alias is the RMS of every in-range bin that belongs neither to the
// fundamental nor to one of its harmonics, relative to the fundamental's RMS.
// For a nonlinearity fed a pure tone this is the energy that folded back
// from above Nyquist.
//
//nolint:revive
type Result struct {
	FundamentalFreq  float64
	FundamentalLevel float64
	THD              float64
	THDN             float64
	THD_dB           float64
	THDN_dB          float64
	OddHD            float64
	EvenHD           float64
	Noise            float64
	RubNBuzz         float64
	Harmonics        []float64
	SINAD            float64
	Alias            float64
	AliasDB          float64
}

// Calculator runs harmonic analysis with a fixed configuration.
type Calculator struct {
	cfg Config
}

// NewCalculator returns a calculator for cfg.
func NewCalculator(cfg Config) *Calculator {
	if cfg.RangeLowerFreq <= 0 {
		cfg.RangeLowerFreq = 20
	}

	if cfg.RangeUpperFreq <= 0 {
		cfg.RangeUpperFreq = 20000
	}

	cfg.RangeUpperFreq = max(cfg.RangeUpperFreq, cfg.RangeLowerFreq)

	if cfg.RubNBuzzStart < 1 {
		cfg.RubNBuzzStart = 10
	}

	// The zero value selects Hann: rectangular leakage smears harmonics
	// into each other.
	if cfg.WindowType == window.TypeRectangular {
		cfg.WindowType = window.TypeHann
	}

	cfg.CaptureBins = max(cfg.CaptureBins, 0)
	cfg.MaxHarmonics = max(cfg.MaxHarmonics, 0)

	return &Calculator{cfg: cfg}
}

// AnalyzeSignal is shorthand for NewCalculator(cfg).AnalyzeSignal(signal).
func AnalyzeSignal(signal []float64, cfg Config) Result {
	return NewCalculator(cfg).AnalyzeSignal(signal)
}

// AnalyzeSignal windows signal, transforms it and analyzes the spectrum.
// Input shorter than the FFT is zero-padded; longer input is truncated.
func (c *Calculator) AnalyzeSignal(signal []float64) Result {
	size := c.cfg.FFTSize
	if size <= 0 {
		size = 1
		for size < len(signal) {
			size <<= 1
		}
	}

	if len(signal) == 0 || size < 2 {
		return Result{}
	}

	n := min(len(signal), size)
	win := window.Generate(c.cfg.WindowType, n, window.WithPeriodic())

	in := make([]complex128, size)
	for i, w := range win {
		in[i] = complex(signal[i]*w, 0)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return Result{}
	}

	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return Result{}
	}

	return c.Calculate(out)
}

// Calculate analyzes a full complex spectrum. Only bins up to Nyquist are
// read.
func (c *Calculator) Calculate(spectrum []complex128) Result {
	if len(spectrum) < 2 {
		return Result{}
	}

	power := make([]float64, len(spectrum)/2+1)
	for i := range power {
		re, im := real(spectrum[i]), imag(spectrum[i])
		power[i] = re*re + im*im
	}

	calc := *c
	if calc.cfg.FFTSize <= 0 {
		calc.cfg.FFTSize = len(spectrum)
	}

	return calc.CalculateFromMagnitude(power)
}

// band is a view of a one-sided power spectrum.
type band struct {
	power   []float64
	capture int
	claimed []bool
}

// span returns the bins within capture of bin.
func (b *band) span(bin int) (lo, hi int) {
	return max(bin-b.capture, 0), min(bin+b.capture, len(b.power)-1)
}

// level sums the magnitudes around bin.
func (b *band) level(bin int) float64 {
	lo, hi := b.span(bin)

	sum := 0.0
	for _, p := range b.power[lo : hi+1] {
		sum += magnitude(p)
	}

	return sum
}

// energy sums the power around bin.
func (b *band) energy(bin int) float64 {
	lo, hi := b.span(bin)

	sum := 0.0
	for _, p := range b.power[lo : hi+1] {
		sum += max(p, 0)
	}

	return sum
}

func (b *band) claim(bin int) {
	lo, hi := b.span(bin)
	for i := lo; i <= hi; i++ {
		b.claimed[i] = true
	}
}

// CalculateFromMagnitude analyzes a squared-magnitude spectrum holding the
// bins from DC to Nyquist.
//
//nolint:cyclop,funlen
func (c *Calculator) CalculateFromMagnitude(magSquared []float64) Result {
	if len(magSquared) < 2 {
		return Result{}
	}

	cfg := c.cfg
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = 2 * (len(magSquared) - 1)
	}

	if cfg.SampleRate <= 0 {
		cfg.SampleRate = float64(cfg.FFTSize)
	}

	top := len(magSquared) - 1
	binHz := cfg.SampleRate / float64(cfg.FFTSize)
	toBin := func(hz float64, lo int) int {
		return min(max(int(math.Round(hz/binHz)), lo), top)
	}

	lower := toBin(cfg.RangeLowerFreq, 1)
	upper := toBin(cfg.RangeUpperFreq, lower)

	fund := c.fundamentalBin(magSquared, lower, upper, binHz)

	capture := cfg.CaptureBins
	if capture == 0 {
		capture = captureBinsFor(cfg.WindowType)
	}

	b := band{
		power:   magSquared,
		capture: min(capture, fund/2),
		claimed: make([]bool, len(magSquared)),
	}

	fundLevel := b.level(fund)
	if fundLevel <= 0 {
		return Result{FundamentalFreq: float64(fund) * binHz}
	}

	b.claim(fund)

	var (
		harmonicSum, odd, even, rub float64
		counted                     int
		harmonics                   = make([]float64, 0, 8)
	)

	for k := 2; k*fund <= top; k++ {
		bin := k * fund
		b.claim(bin)

		inRange := bin >= lower && bin <= upper
		if !inRange || (cfg.MaxHarmonics > 0 && counted >= cfg.MaxHarmonics) {
			continue
		}

		counted++

		v := b.level(bin)
		harmonicSum += v

		if k%2 == 0 {
			even += v
		} else {
			odd += v
		}

		if k >= cfg.RubNBuzzStart {
			rub += v
		}

		if v > 0 {
			harmonics = append(harmonics, v/fundLevel)
		}
	}

	var total, stray float64

	for i := lower; i <= upper; i++ {
		total += magnitude(magSquared[i])

		if !b.claimed[i] {
			stray += max(magSquared[i], 0)
		}
	}

	rest := max(total-fundLevel, 0)
	noise := max(rest-harmonicSum, 0)

	res := Result{
		FundamentalFreq:  float64(fund) * binHz,
		FundamentalLevel: fundLevel,
		THD:              harmonicSum / fundLevel,
		THDN:             rest / fundLevel,
		OddHD:            odd / fundLevel,
		EvenHD:           even / fundLevel,
		Noise:            noise / fundLevel,
		RubNBuzz:         rub / fundLevel,
		Harmonics:        harmonics,
		SINAD:            math.Inf(1),
	}

	res.THD_dB = ratioToDB(res.THD)
	res.THDN_dB = ratioToDB(res.THDN)

	if res.THDN > 0 {
		res.SINAD = -20 * math.Log10(res.THDN)
	}

	if e := b.energy(fund); e > 0 {
		res.Alias = math.Sqrt(stray / e)
	}

	res.AliasDB = ratioToDB(res.Alias)

	return res
}

func (c *Calculator) fundamentalBin(magSquared []float64, lower, upper int, binHz float64) int {
	if f := c.cfg.FundamentalFreq; f > 0 {
		return min(max(int(math.Round(f/binHz)), lower), upper)
	}

	best := lower
	for i := lower + 1; i <= upper; i++ {
		if magSquared[i] > magSquared[best] {
			best = i
		}
	}

	return best
}

// captureBinsFor returns the main-lobe half-width, in bins, of a window's
// transform.
func captureBinsFor(t window.Type) int {
	switch t {
	case window.TypeRectangular:
		return 1
	case window.TypeBlackman, window.TypeKaiser:
		return 3
	case window.TypeBlackmanHarris4Term:
		return 4
	case window.TypeFlatTop:
		return 5
	default:
		return 2
	}
}

func magnitude(p float64) float64 {
	if p <= 0 {
		return 0
	}

	return math.Sqrt(p)
}

func ratioToDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(v)
}
