package smooth

import (
	"errors"
	"math"
	"testing"
)

func prepared(t *testing.T, sampleRate, rampSeconds, start float64) *Linear {
	t.Helper()

	var l Linear
	if err := l.Prepare(sampleRate, rampSeconds); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	l.Reset(start)

	return &l
}

func TestPrepareValidation(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		ramp float64
		want error
	}{
		{name: "zero rate", rate: 0, ramp: 0.01, want: ErrInvalidRate},
		{name: "negative rate", rate: -48000, ramp: 0.01, want: ErrInvalidRate},
		{name: "nan rate", rate: math.NaN(), ramp: 0.01, want: ErrInvalidRate},
		{name: "negative ramp", rate: 48000, ramp: -1, want: ErrInvalidRamp},
		{name: "inf ramp", rate: 48000, ramp: math.Inf(1), want: ErrInvalidRamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l Linear

			err := l.Prepare(tt.rate, tt.ramp)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Prepare error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRampSamples(t *testing.T) {
	l := prepared(t, 192000, 0.01, 0)
	if got := l.RampSamples(); got != 1920 {
		t.Fatalf("RampSamples = %d, want 1920", got)
	}
}

func TestConvergesAfterRamp(t *testing.T) {
	l := prepared(t, 1000, 0.01, 0)
	l.SetTarget(12)

	if !l.IsSmoothing() {
		t.Fatal("expected smoothing after SetTarget")
	}

	var v float64
	for range l.RampSamples() {
		v = l.Next()
	}

	if v != 12 {
		t.Fatalf("value after ramp = %v, want exactly 12", v)
	}

	if l.IsSmoothing() {
		t.Fatal("still smoothing after ramp length")
	}

	if got := l.Next(); got != 12 {
		t.Fatalf("Next after ramp = %v, want 12", got)
	}
}

func TestContinuityBound(t *testing.T) {
	l := prepared(t, 48000, 0.01, -3)
	l.SetTarget(27)

	bound := math.Abs(27.0-(-3.0))/float64(l.RampSamples()) + 1e-12
	prev := l.Current()

	for i := range l.RampSamples() {
		v := l.Next()
		if d := math.Abs(v - prev); d > bound {
			t.Fatalf("step %d delta %v exceeds %v", i, d, bound)
		}

		prev = v
	}
}

func TestRetargetStartsFromCurrent(t *testing.T) {
	l := prepared(t, 100, 0.1, 0)
	l.SetTarget(10)
	l.Skip(5)

	mid := l.Current()
	if math.Abs(mid-5) > 1e-12 {
		t.Fatalf("mid-ramp value = %v, want 5", mid)
	}

	l.SetTarget(0)

	first := l.Next()
	if math.Abs(first-4.5) > 1e-12 {
		t.Fatalf("first value after retarget = %v, want 4.5", first)
	}

	if got := l.Skip(100); got != 0 {
		t.Fatalf("Skip past end = %v, want 0", got)
	}
}

func TestSetSameTargetIsNoop(t *testing.T) {
	l := prepared(t, 100, 0.1, 0)
	l.SetTarget(1)
	l.Skip(3)
	l.SetTarget(1)

	if got := l.Skip(7); got != 1 {
		t.Fatalf("value = %v, want 1 after original ramp length", got)
	}
}

func TestZeroRampJumps(t *testing.T) {
	l := prepared(t, 48000, 0, 0)
	l.SetTarget(0.75)

	if l.IsSmoothing() {
		t.Fatal("zero ramp should not smooth")
	}

	if got := l.Current(); got != 0.75 {
		t.Fatalf("Current = %v, want 0.75", got)
	}
}

func TestResetCancelsRamp(t *testing.T) {
	l := prepared(t, 48000, 0.01, 0)
	l.SetTarget(1)
	l.Next()
	l.Reset(0.25)

	if l.IsSmoothing() || l.Current() != 0.25 || l.Target() != 0.25 {
		t.Fatalf("after Reset: smoothing=%v current=%v target=%v", l.IsSmoothing(), l.Current(), l.Target())
	}
}

func TestNextDoesNotAllocate(t *testing.T) {
	l := prepared(t, 48000, 0.01, 0)

	allocs := testing.AllocsPerRun(100, func() {
		l.SetTarget(l.Target() + 1)
		l.Next()
		l.Skip(4)
	})
	if allocs != 0 {
		t.Fatalf("allocations = %v, want 0", allocs)
	}
}

func BenchmarkNext(b *testing.B) {
	var l Linear
	if err := l.Prepare(192000, 0.01); err != nil {
		b.Fatal(err)
	}

	l.SetTarget(1)

	for b.Loop() {
		if !l.IsSmoothing() {
			l.SetTarget(-l.Target())
		}

		_ = l.Next()
	}
}
