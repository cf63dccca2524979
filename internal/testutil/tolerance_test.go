package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	a := []float64{1.0, 2.0, 3.0}
	b := []float64{1.0, 2.1, 3.0}

	d, err := MaxAbsDiff(a, b)
	if err != nil {
		t.Fatalf("MaxAbsDiff error: %v", err)
	}

	if math.Abs(d-0.1) > 1e-15 {
		t.Fatalf("MaxAbsDiff = %v, want 0.1", d)
	}
}

func TestMaxAbsDiffLengthMismatch(t *testing.T) {
	_, err := MaxAbsDiff([]float64{1}, []float64{1, 2})
	if err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestMaxAbsDiffDelayed(t *testing.T) {
	want := []float64{1, 2, 3, 4}
	got := []float64{0, 0, 1, 2, 3, 4}

	if d := MaxAbsDiffDelayed(got, want, 2); d != 0 {
		t.Fatalf("MaxAbsDiffDelayed = %v, want 0", d)
	}
	if d := MaxAbsDiffDelayed(got, want, 0); d == 0 {
		t.Fatal("expected non-zero difference without delay compensation")
	}
}
