package oversample

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-saturator/dsp/buffer"
	"github.com/cwbudde/algo-saturator/dsp/filter/fir"
	"github.com/cwbudde/algo-saturator/dsp/window"
)

// DefaultFactor is the oversampling factor used when none is configured.
const DefaultFactor = 4

var (
	// ErrInvalidFactor indicates a factor outside {2, 4, 8, 16}.
	ErrInvalidFactor = errors.New("oversample: factor must be one of 2, 4, 8, 16")
	// ErrInvalidShape indicates a channel count or block size the stage was
	// not initialized for.
	ErrInvalidShape = errors.New("oversample: invalid block shape")
	// ErrOutOfOrder indicates Upsample and Downsample were not called in
	// alternation.
	ErrOutOfOrder = errors.New("oversample: upsample/downsample out of order")
)

// Stage performs polyphase interpolation and decimation by a fixed factor.
type Stage struct {
	factor  int
	cfg     config
	upTaps  []float64
	phases  [][]float64
	downRev []float64
	proto   []float64

	channels int
	maxBlock int
	upHist   [][]float64
	downHist [][]float64
	over     *buffer.Block
	pending  bool
	frames   int
}

// New designs the interpolation and decimation filters for factor.
func New(factor int, opts ...Option) (*Stage, error) {
	switch factor {
	case 2, 4, 8, 16:
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidFactor, factor)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	cfg = cfg.finalized()

	numTaps := cfg.TapsPerPhase*factor + 1

	win, err := window.Kaiser(numTaps, cfg.KaiserBeta)
	if err != nil {
		return nil, fmt.Errorf("oversample: %w", err)
	}

	cutoff := 0.5 / float64(factor) * cfg.CutoffScale

	upTaps, err := fir.DesignLowpass(cutoff, win, float64(factor))
	if err != nil {
		return nil, fmt.Errorf("oversample: %w", err)
	}

	downTaps, err := fir.DesignLowpass(cutoff, win, 1)
	if err != nil {
		return nil, fmt.Errorf("oversample: %w", err)
	}

	s := &Stage{
		factor: factor,
		cfg:    cfg,
		upTaps: upTaps,
		phases: splitPhases(upTaps, factor),
		proto:  downTaps,
	}

	s.downRev = make([]float64, numTaps)
	for i, h := range downTaps {
		s.downRev[numTaps-1-i] = h
	}

	return s, nil
}

// splitPhases returns the polyphase branches h[p], h[p+L], h[p+2L], ...
func splitPhases(taps []float64, factor int) [][]float64 {
	phases := make([][]float64, factor)
	for p := range factor {
		phase := make([]float64, 0, (len(taps)-p+factor-1)/factor)
		for i := p; i < len(taps); i += factor {
			phase = append(phase, taps[i])
		}

		phases[p] = phase
	}

	return phases
}

// Initialize allocates filter state for channels channels and blocks of up
// to maxBlockSize base-rate frames, then resets the stage.
func (s *Stage) Initialize(channels, maxBlockSize int) error {
	if channels <= 0 || maxBlockSize <= 0 {
		return fmt.Errorf("%w: channels=%d maxBlockSize=%d", ErrInvalidShape, channels, maxBlockSize)
	}

	upLen := s.upHistoryLen()
	downLen := len(s.downRev) - 1

	s.channels = channels
	s.maxBlock = maxBlockSize
	s.upHist = make([][]float64, channels)
	s.downHist = make([][]float64, channels)

	for ch := range channels {
		s.upHist[ch] = make([]float64, upLen+maxBlockSize)
		s.downHist[ch] = make([]float64, downLen+maxBlockSize*s.factor)
	}

	s.over = buffer.NewBlock(channels, maxBlockSize*s.factor)
	s.Reset()

	return nil
}

func (s *Stage) upHistoryLen() int {
	longest := 0
	for _, phase := range s.phases {
		longest = max(longest, len(phase))
	}

	return longest - 1
}

// Reset clears filter history and any pending oversampled block.
func (s *Stage) Reset() {
	for ch := range s.upHist {
		clear(s.upHist[ch])
		clear(s.downHist[ch])
	}

	if s.over != nil {
		s.over.Zero()
	}

	s.pending = false
	s.frames = 0
}

// Upsample interpolates block into the stage's oversampled buffer and
// returns it as a view of factor*block.Len() frames. The view stays valid
// until the next Upsample and must be handed back with Downsample first.
//
// Upsample panics if the previous view was not downsampled or if block does
// not fit the initialized shape.
func (s *Stage) Upsample(block *buffer.Block) *buffer.Block {
	if s.pending {
		panic(fmt.Errorf("%w: Upsample called twice", ErrOutOfOrder))
	}

	n := block.Len()
	if s.over == nil || block.NumChannels() != s.channels || n > s.maxBlock {
		panic(fmt.Errorf("%w: got %dx%d, initialized for %dx%d",
			ErrInvalidShape, block.NumChannels(), n, s.channels, s.maxBlock))
	}

	hl := s.upHistoryLen()
	s.over.SetLength(n * s.factor)

	for ch := range s.channels {
		hist := s.upHist[ch]
		copy(hist[hl:hl+n], block.Channel(ch))

		out := s.over.Channel(ch)
		for i := range n {
			base := hl + i
			o := i * s.factor

			for p, phase := range s.phases {
				var acc float64
				for j, h := range phase {
					acc += h * hist[base-j]
				}

				out[o+p] = acc
			}
		}

		copy(hist[:hl], hist[n:n+hl])
	}

	s.pending = true
	s.frames = n

	return s.over
}

// Downsample decimates the oversampled view produced by the last Upsample
// into dst, which is resized to the original frame count.
//
// Downsample panics if no Upsample is pending or dst cannot hold the block.
func (s *Stage) Downsample(dst *buffer.Block) {
	if !s.pending {
		panic(fmt.Errorf("%w: Downsample without Upsample", ErrOutOfOrder))
	}

	n := s.frames
	if dst.NumChannels() != s.channels || dst.Cap() < n {
		panic(fmt.Errorf("%w: destination %d channels cap %d, need %d channels cap %d",
			ErrInvalidShape, dst.NumChannels(), dst.Cap(), s.channels, n))
	}

	dst.SetLength(n)

	hl := len(s.downRev) - 1
	m := n * s.factor

	for ch := range s.channels {
		hist := s.downHist[ch]
		copy(hist[hl:hl+m], s.over.Channel(ch))

		out := dst.Channel(ch)
		for i := range n {
			win := hist[i*s.factor : i*s.factor+len(s.downRev)]

			var acc float64
			for j, h := range s.downRev {
				acc += h * win[j]
			}

			out[i] = acc
		}

		copy(hist[:hl], hist[m:m+hl])
	}

	s.pending = false
}

// Factor returns the oversampling factor.
func (s *Stage) Factor() int { return s.factor }

// TapsPerPhase returns the number of taps per polyphase branch.
func (s *Stage) TapsPerPhase() int { return s.cfg.TapsPerPhase }

// Quality returns the configured quality mode.
func (s *Stage) Quality() Quality { return s.cfg.quality }

// LatencySamples returns the round-trip group delay in base-rate samples.
func (s *Stage) LatencySamples() int {
	return (len(s.upTaps) - 1) / s.factor
}

// UpTaps returns a copy of the interpolation prototype (DC gain = factor).
func (s *Stage) UpTaps() []float64 {
	return append([]float64(nil), s.upTaps...)
}

// ResponseDB returns the magnitude response of the unity-gain prototype at
// freqHz when the base rate is baseRate.
func (s *Stage) ResponseDB(freqHz, baseRate float64) float64 {
	return fir.MagnitudeDB(s.proto, freqHz, baseRate*float64(s.factor))
}
