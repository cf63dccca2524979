package saturator

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-saturator/dsp/oversample"
)

const (
	defaultRampSeconds = 0.01
	maxRampSeconds     = 1.0
)

type config struct {
	factor      int
	quality     oversample.Quality
	rampSeconds float64
	tone        bool
}

func defaultConfig() config {
	return config{
		factor:      oversample.DefaultFactor,
		quality:     oversample.QualityBalanced,
		rampSeconds: defaultRampSeconds,
		tone:        true,
	}
}

// Option mutates construction-time settings.
type Option func(*config) error

// WithOversampling sets the oversampling factor. Valid factors are 2, 4, 8
// and 16.
func WithOversampling(factor int) Option {
	return func(cfg *config) error {
		switch factor {
		case 2, 4, 8, 16:
		default:
			return fmt.Errorf("%w: oversampling factor must be one of 2, 4, 8, 16: %d", ErrInvalidConfig, factor)
		}

		cfg.factor = factor

		return nil
	}
}

// WithQuality selects the anti-aliasing filter profile.
func WithQuality(q oversample.Quality) Option {
	return func(cfg *config) error {
		switch q {
		case oversample.QualityFast, oversample.QualityBalanced, oversample.QualityBest:
		default:
			return fmt.Errorf("%w: unknown quality: %d", ErrInvalidConfig, q)
		}

		cfg.quality = q

		return nil
	}
}

// WithRampSeconds sets the parameter smoothing time in [0, 1] seconds.
// Zero makes parameter changes take effect immediately.
func WithRampSeconds(seconds float64) Option {
	return func(cfg *config) error {
		if seconds < 0 || seconds > maxRampSeconds || math.IsNaN(seconds) {
			return fmt.Errorf("%w: ramp must be in [0, %g] seconds: %f", ErrInvalidConfig, maxRampSeconds, seconds)
		}

		cfg.rampSeconds = seconds

		return nil
	}
}

// WithToneFilter enables or disables the tone low-pass. When disabled the
// tone parameter is still smoothed but has no audible effect.
func WithToneFilter(enabled bool) Option {
	return func(cfg *config) error {
		cfg.tone = enabled
		return nil
	}
}
