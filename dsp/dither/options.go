package dither

import (
	"fmt"
	"math"
)

const (
	minBitDepth = 2
	maxBitDepth = 32
)

type config struct {
	typ       Type
	amplitude float64
	shaping   bool
	seed      uint64
}

func defaultConfig() config {
	return config{typ: TypeTriangular, amplitude: 1}
}

// Option configures a [Quantizer].
type Option func(*config) error

// WithType sets the noise distribution (default [TypeTriangular]).
func WithType(t Type) Option {
	return func(cfg *config) error {
		if !t.Valid() {
			return fmt.Errorf("dither: invalid type %d", t)
		}

		cfg.typ = t

		return nil
	}
}

// WithAmplitude scales the dither noise in LSB (default 1).
func WithAmplitude(amp float64) Option {
	return func(cfg *config) error {
		if amp < 0 || math.IsNaN(amp) || math.IsInf(amp, 0) {
			return fmt.Errorf("dither: amplitude must be >= 0 and finite: %f", amp)
		}

		cfg.amplitude = amp

		return nil
	}
}

// WithNoiseShaping feeds the previous quantization error back, moving the
// noise floor towards Nyquist.
func WithNoiseShaping(on bool) Option {
	return func(cfg *config) error {
		cfg.shaping = on
		return nil
	}
}

// WithSeed fixes the noise sequence.
func WithSeed(seed uint64) Option {
	return func(cfg *config) error {
		cfg.seed = seed
		return nil
	}
}
