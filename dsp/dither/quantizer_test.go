package dither

import (
	"math"
	"testing"
)

func TestQuantizeWithoutDither(t *testing.T) {
	tests := []struct {
		x     float64
		depth int
		want  int
	}{
		{0, 16, 0},
		{1, 16, 32767},
		{-1, 16, -32768},
		{0.5, 24, 1 << 22},
		{2.5 / 32768, 16, 3},
		{math.Inf(1), 16, 32767},
		{math.Inf(-1), 16, -32768},
		{math.NaN(), 16, 0},
	}

	for _, tt := range tests {
		q, err := NewQuantizer(tt.depth, WithType(TypeNone))
		if err != nil {
			t.Fatal(err)
		}

		if got := q.Quantize(tt.x); got != tt.want {
			t.Fatalf("Quantize(%v) at %d bit = %d, want %d", tt.x, tt.depth, got, tt.want)
		}
	}
}

func TestTriangularDitherLinearizes(t *testing.T) {
	q, err := NewQuantizer(16, WithSeed(7))
	if err != nil {
		t.Fatal(err)
	}

	// A constant 0.3 LSB rounds to zero without dither; with TPDF the mean
	// output tracks the input.
	const n = 100000

	x := 0.3 / 32768
	sum := 0

	for range n {
		v := q.Quantize(x)
		if v < -2 || v > 2 {
			t.Fatalf("Quantize() = %d, TPDF must stay within 2 LSB", v)
		}

		sum += v
	}

	if mean := float64(sum) / n; math.Abs(mean-0.3) > 0.02 {
		t.Fatalf("mean = %v, want 0.3", mean)
	}
}

func TestNoiseShapingBoundsAccumulatedError(t *testing.T) {
	q, err := NewQuantizer(16, WithNoiseShaping(true), WithSeed(3))
	if err != nil {
		t.Fatal(err)
	}

	// First-order error feedback makes output minus input telescope, so its
	// running sum stays within one step of the last error.
	acc := 0.0

	for i := range 50000 {
		x := 0.4 * math.Sin(2*math.Pi*float64(i)*997/48000)
		acc += float64(q.Quantize(x)) - x*32768

		if math.Abs(acc) > 1.5 {
			t.Fatalf("sample %d: accumulated error %v", i, acc)
		}
	}

	q.Reset()

	if q.lastErr != 0 {
		t.Fatal("Reset must clear the error history")
	}
}

func TestSeedIsDeterministic(t *testing.T) {
	a, _ := NewQuantizer(16, WithSeed(11))
	b, _ := NewQuantizer(16, WithSeed(11))

	for i := range 1000 {
		x := float64(i%200-100) / 32768

		if va, vb := a.Quantize(x), b.Quantize(x); va != vb {
			t.Fatalf("sample %d: %d != %d", i, va, vb)
		}
	}
}

func TestQuantizeBlockInterleaves(t *testing.T) {
	q, _ := NewQuantizer(16, WithType(TypeNone))

	dst := make([]int, 6)
	q.QuantizeBlock(dst, []float64{0.5, -0.5, 1}, 2, 1)

	want := []int{0, 16384, 0, -16384, 0, 32767}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst = %v, want %v", dst, want)
		}
	}
}

func TestNewQuantizerRejects(t *testing.T) {
	tests := []struct {
		name string
		bits int
		opt  Option
	}{
		{"LowDepth", 1, nil},
		{"HighDepth", 33, nil},
		{"BadType", 16, WithType(Type(9))},
		{"NegativeAmplitude", 16, WithAmplitude(-1)},
		{"NaNAmplitude", 16, WithAmplitude(math.NaN())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewQuantizer(tt.bits, tt.opt); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestTypeNames(t *testing.T) {
	for _, name := range []string{"none", "rectangular", "triangular"} {
		typ, ok := ParseType(name)
		if !ok || typ.String() != name {
			t.Fatalf("ParseType(%q) = %v, %v", name, typ, ok)
		}
	}

	if typ, ok := ParseType("tpdf"); !ok || typ != TypeTriangular {
		t.Fatalf("ParseType(tpdf) = %v, %v", typ, ok)
	}

	if _, ok := ParseType("blue"); ok {
		t.Fatal("unknown name accepted")
	}

	if Type(7).String() != "Type(7)" || Type(7).Valid() {
		t.Fatal("invalid type")
	}
}
