package oversample

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-saturator/dsp/buffer"
	"github.com/cwbudde/algo-saturator/internal/testutil"
)

func newStage(t *testing.T, factor, channels, maxBlock int, opts ...Option) *Stage {
	t.Helper()

	s, err := New(factor, opts...)
	if err != nil {
		t.Fatalf("New(%d): %v", factor, err)
	}

	if err := s.Initialize(channels, maxBlock); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	return s
}

// roundTrip pushes signal through Upsample/Downsample in chunks of blockSize.
func roundTrip(s *Stage, signal []float64, blockSize int) []float64 {
	out := make([]float64, 0, len(signal))
	block := buffer.NewBlock(1, blockSize)

	for start := 0; start < len(signal); start += blockSize {
		end := min(start+blockSize, len(signal))
		block.SetLength(end - start)
		copy(block.Channel(0), signal[start:end])

		s.Upsample(block)
		s.Downsample(block)
		out = append(out, block.Channel(0)...)
	}

	return out
}

func TestNewRejectsInvalidFactor(t *testing.T) {
	for _, factor := range []int{-4, 0, 1, 3, 6, 32} {
		if _, err := New(factor); !errors.Is(err, ErrInvalidFactor) {
			t.Fatalf("New(%d) error = %v, want ErrInvalidFactor", factor, err)
		}
	}
}

func TestFilterShape(t *testing.T) {
	for _, factor := range []int{2, 4, 8, 16} {
		s, err := New(factor, WithQuality(QualityFast))
		if err != nil {
			t.Fatalf("New(%d): %v", factor, err)
		}

		taps := s.UpTaps()
		if len(taps) != s.TapsPerPhase()*factor+1 {
			t.Fatalf("factor %d: %d taps, want %d", factor, len(taps), s.TapsPerPhase()*factor+1)
		}

		sum := 0.0
		for _, h := range taps {
			sum += h
		}

		if math.Abs(sum-float64(factor)) > 1e-9 {
			t.Fatalf("factor %d: up gain %v, want %d", factor, sum, factor)
		}

		if s.LatencySamples() != s.TapsPerPhase() {
			t.Fatalf("factor %d: latency %d, want %d", factor, s.LatencySamples(), s.TapsPerPhase())
		}

		taps[0] = 42
		if s.UpTaps()[0] == 42 {
			t.Fatal("UpTaps must return a copy")
		}
	}
}

func TestQualityProfiles(t *testing.T) {
	fast, _ := New(DefaultFactor, WithQuality(QualityFast))
	best, _ := New(DefaultFactor, WithQuality(QualityBest))
	custom, _ := New(DefaultFactor, WithTapsPerPhase(8), WithCutoffScale(0.8), WithKaiserBeta(6))

	if fast.TapsPerPhase() >= best.TapsPerPhase() {
		t.Fatalf("fast taps %d should be fewer than best taps %d", fast.TapsPerPhase(), best.TapsPerPhase())
	}

	if custom.LatencySamples() != 8 {
		t.Fatalf("custom latency = %d, want 8", custom.LatencySamples())
	}

	if q, ok := ParseQuality("best"); !ok || q != QualityBest || q.String() != "best" {
		t.Fatalf("ParseQuality(best) = %v, %v", q, ok)
	}

	if _, ok := ParseQuality("ultra"); ok {
		t.Fatal("ParseQuality accepted unknown name")
	}
}

func TestResponse(t *testing.T) {
	s, err := New(DefaultFactor)
	if err != nil {
		t.Fatal(err)
	}

	if db := s.ResponseDB(1000, 48000); math.Abs(db) > 0.01 {
		t.Fatalf("passband at 1 kHz = %.4f dB, want ~0", db)
	}

	if db := s.ResponseDB(47000, 48000); db > -60 {
		t.Fatalf("image band at 47 kHz = %.1f dB, want < -60", db)
	}
}

func TestInitializeRejectsInvalidShape(t *testing.T) {
	s, _ := New(DefaultFactor)

	for _, tc := range [][2]int{{0, 64}, {2, 0}, {-1, -1}} {
		if err := s.Initialize(tc[0], tc[1]); !errors.Is(err, ErrInvalidShape) {
			t.Fatalf("Initialize(%d, %d) error = %v, want ErrInvalidShape", tc[0], tc[1], err)
		}
	}
}

func TestUpsampleLength(t *testing.T) {
	s := newStage(t, 8, 2, 64)
	block := buffer.NewBlock(2, 64)
	block.SetLength(40)

	over := s.Upsample(block)
	if over.Len() != 320 || over.NumChannels() != 2 {
		t.Fatalf("oversampled shape %dx%d, want 2x320", over.NumChannels(), over.Len())
	}

	s.Downsample(block)

	if block.Len() != 40 {
		t.Fatalf("downsampled length %d, want 40", block.Len())
	}
}

func TestImpulseDelayEqualsLatency(t *testing.T) {
	for _, q := range []Quality{QualityFast, QualityBalanced, QualityBest} {
		t.Run(q.String(), func(t *testing.T) {
			s := newStage(t, DefaultFactor, 1, 256, WithQuality(q))
			out := roundTrip(s, testutil.Impulse(256, 10), 256)

			peak := 0
			for i, v := range out {
				if math.Abs(v) > math.Abs(out[peak]) {
					peak = i
				}
			}

			if peak != 10+s.LatencySamples() {
				t.Fatalf("impulse peak at %d, want %d", peak, 10+s.LatencySamples())
			}
		})
	}
}

func TestRoundTripDC(t *testing.T) {
	s := newStage(t, DefaultFactor, 1, 128)
	out := roundTrip(s, testutil.DC(1, 512), 128)

	settled := out[3*s.LatencySamples():]
	testutil.RequireSliceNearlyEqual(t, settled, testutil.DC(1, len(settled)), 1e-3)
}

func TestRoundTripSine(t *testing.T) {
	for _, factor := range []int{2, 4, 8, 16} {
		s := newStage(t, factor, 1, 100)
		in := testutil.DeterministicSine(1000, 48000, 0.5, 1000)
		out := roundTrip(s, in, 100)

		lat := s.LatencySamples()
		warm := 2 * lat

		if d := testutil.MaxAbsDiffDelayed(out[warm-lat:], in[warm-lat:], lat); d > 1e-2 {
			t.Fatalf("factor %d: round-trip error %v after latency alignment", factor, d)
		}
	}
}

func TestBlockSplitIsSeamless(t *testing.T) {
	in := testutil.DeterministicNoise(7, 0.8, 600)

	whole := roundTrip(newStage(t, DefaultFactor, 1, 600), in, 600)
	split := roundTrip(newStage(t, DefaultFactor, 1, 600), in, 37)

	testutil.RequireSliceNearlyEqual(t, split, whole, 1e-12)
}

func TestChannelsAreIndependent(t *testing.T) {
	s := newStage(t, DefaultFactor, 2, 64)
	block := buffer.NewBlock(2, 64)
	copy(block.Channel(0), testutil.DeterministicNoise(3, 1, 64))

	s.Upsample(block)
	s.Downsample(block)

	for i, v := range block.Channel(1) {
		if v != 0 {
			t.Fatalf("silent channel sample %d = %v, want 0", i, v)
		}
	}
}

func TestResetClearsHistory(t *testing.T) {
	s := newStage(t, DefaultFactor, 1, 64)
	roundTrip(s, testutil.DeterministicNoise(1, 1, 64), 64)
	s.Reset()

	for i, v := range roundTrip(s, make([]float64, 64), 64) {
		if v != 0 {
			t.Fatalf("sample %d after Reset = %v, want 0", i, v)
		}
	}
}

func requirePanic(t *testing.T, want error, fn func()) {
	t.Helper()

	defer func() {
		t.Helper()

		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}

		err, ok := r.(error)
		if !ok || !errors.Is(err, want) {
			t.Fatalf("panic = %v, want %v", r, want)
		}
	}()

	fn()
}

func TestMisusePanics(t *testing.T) {
	s := newStage(t, DefaultFactor, 2, 64)
	block := buffer.NewBlock(2, 64)

	requirePanic(t, ErrOutOfOrder, func() { s.Downsample(block) })

	s.Upsample(block)
	requirePanic(t, ErrOutOfOrder, func() { s.Upsample(block) })
	s.Downsample(block)

	requirePanic(t, ErrInvalidShape, func() { s.Upsample(buffer.NewBlock(1, 64)) })
	requirePanic(t, ErrInvalidShape, func() { s.Upsample(buffer.NewBlock(2, 65)) })

	uninitialized, _ := New(DefaultFactor)
	requirePanic(t, ErrInvalidShape, func() { uninitialized.Upsample(block) })
}

func TestNoAllocations(t *testing.T) {
	s := newStage(t, DefaultFactor, 2, 256)
	block := testutil.Block(testutil.DeterministicSine(440, 48000, 0.5, 256), 2)

	allocs := testing.AllocsPerRun(50, func() {
		s.Upsample(block)
		s.Downsample(block)
	})
	if allocs != 0 {
		t.Fatalf("allocations per round trip = %v, want 0", allocs)
	}
}

func BenchmarkRoundTrip(b *testing.B) {
	for _, q := range []Quality{QualityFast, QualityBalanced, QualityBest} {
		b.Run(q.String(), func(b *testing.B) {
			s, err := New(DefaultFactor, WithQuality(q))
			if err != nil {
				b.Fatal(err)
			}

			if err := s.Initialize(2, 512); err != nil {
				b.Fatal(err)
			}

			block := testutil.Block(testutil.DeterministicSine(440, 48000, 0.5, 512), 2)

			b.SetBytes(2 * 512 * 8)

			for b.Loop() {
				s.Upsample(block)
				s.Downsample(block)
			}
		})
	}
}
