package dither

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Quantizer maps samples in [-1, 1] to signed integers of a fixed bit depth.
// It keeps per-stream state; use one Quantizer per channel.
type Quantizer struct {
	bitDepth  int
	typ       Type
	amplitude float64
	shaping   bool
	rng       *rand.Rand

	full    float64
	lastErr float64
}

// NewQuantizer returns a quantizer for bitDepth-bit output. The default is
// triangular dither of one LSB without noise shaping.
func NewQuantizer(bitDepth int, opts ...Option) (*Quantizer, error) {
	if bitDepth < minBitDepth || bitDepth > maxBitDepth {
		return nil, fmt.Errorf("dither: bit depth must be in [%d, %d]: %d", minBitDepth, maxBitDepth, bitDepth)
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Quantizer{
		bitDepth:  bitDepth,
		typ:       cfg.typ,
		amplitude: cfg.amplitude,
		shaping:   cfg.shaping,
		rng:       rand.New(rand.NewPCG(cfg.seed, cfg.seed^0x9e3779b97f4a7c15)),
		full:      math.Ldexp(1, bitDepth-1),
	}, nil
}

// Quantize returns x scaled to the integer range, dithered, rounded and
// clipped to [-2^(bits-1), 2^(bits-1)-1]. NaN quantizes to zero.
func (q *Quantizer) Quantize(x float64) int {
	if math.IsNaN(x) {
		x = 0
	}

	v := x * q.full
	if q.shaping {
		v -= q.lastErr
	}

	r := math.Round(v + q.noise())
	c := min(max(r, -q.full), q.full-1)

	if q.shaping {
		// A clipped sample carries no usable error.
		q.lastErr = 0
		if c == r {
			q.lastErr = r - v
		}
	}

	return int(c)
}

// QuantizeBlock writes the quantized form of src to dst[i*stride+offset],
// the layout of an interleaved buffer.
func (q *Quantizer) QuantizeBlock(dst []int, src []float64, stride, offset int) {
	for i, x := range src {
		dst[i*stride+offset] = q.Quantize(x)
	}
}

func (q *Quantizer) noise() float64 {
	switch q.typ {
	case TypeRectangular:
		return q.amplitude * (q.rng.Float64() - 0.5)
	case TypeTriangular:
		return q.amplitude * (q.rng.Float64() - q.rng.Float64())
	default:
		return 0
	}
}

// Reset clears the noise-shaping history.
func (q *Quantizer) Reset() { q.lastErr = 0 }

// BitDepth returns the output bit depth.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// Type returns the dither noise distribution.
func (q *Quantizer) Type() Type { return q.typ }

// NoiseShaping reports whether error feedback is enabled.
func (q *Quantizer) NoiseShaping() bool { return q.shaping }
