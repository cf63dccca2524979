package design

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-saturator/dsp/filter/biquad"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestLowpassResponse(t *testing.T) {
	tests := []struct {
		name   string
		cutoff float64
		rate   float64
	}{
		{name: "base rate", cutoff: 1000, rate: 48000},
		{name: "oversampled tone min", cutoff: 500, rate: 192000},
		{name: "oversampled tone max", cutoff: 20000, rate: 192000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Lowpass(tt.cutoff, ButterworthQ, tt.rate)

			if !c.IsStable() {
				t.Fatalf("unstable coefficients %+v", c)
			}

			if db := c.MagnitudeDB(0, tt.rate); !almostEqual(db, 0, 1e-6) {
				t.Fatalf("DC gain = %v dB, want 0", db)
			}

			if db := c.MagnitudeDB(tt.cutoff, tt.rate); !almostEqual(db, -3.0103, 0.01) {
				t.Fatalf("gain at cutoff = %v dB, want -3.01", db)
			}

			if c.MagnitudeDB(tt.cutoff*4, tt.rate) > -20 {
				t.Fatal("expected at least 20 dB attenuation two octaves above cutoff")
			}
		})
	}
}

func TestLowpassInvalidInputs(t *testing.T) {
	zero := biquad.Coefficients{}

	for _, tc := range [][2]float64{{0, 48000}, {24000, 48000}, {1000, 0}, {math.NaN(), 48000}, {1000, math.Inf(1)}} {
		if got := Lowpass(tc[0], ButterworthQ, tc[1]); got != zero {
			t.Fatalf("Lowpass(%v, %v) = %+v, want zero", tc[0], tc[1], got)
		}
	}
}

func TestLowpassDefaultQ(t *testing.T) {
	if Lowpass(1000, 0, 48000) != Lowpass(1000, ButterworthQ, 48000) {
		t.Fatal("non-positive Q should select the Butterworth Q")
	}
}

func TestHighpassResponse(t *testing.T) {
	c := Highpass(1000, ButterworthQ, 48000)

	if !c.IsStable() {
		t.Fatalf("unstable coefficients %+v", c)
	}

	if db := c.MagnitudeDB(24000, 48000); !almostEqual(db, 0, 1e-4) {
		t.Fatalf("Nyquist gain = %v dB, want 0", db)
	}

	if db := c.MagnitudeDB(1000, 48000); !almostEqual(db, -3.0103, 0.01) {
		t.Fatalf("gain at cutoff = %v dB, want -3.01", db)
	}

	if db := c.MagnitudeDB(100, 48000); db > -35 {
		t.Fatalf("gain a decade below cutoff = %v dB, want <= -35", db)
	}

	if Highpass(30000, ButterworthQ, 48000) != (biquad.Coefficients{}) {
		t.Fatal("cutoff above Nyquist must return zero coefficients")
	}
}

func TestHighShelfResponse(t *testing.T) {
	c := HighShelf(1500, 4, ButterworthQ, 48000)

	tests := []struct {
		freq float64
		want float64
	}{
		{0, 0},
		{1500, 2},
		{24000, 4},
	}

	for _, tt := range tests {
		if db := c.MagnitudeDB(tt.freq, 48000); !almostEqual(db, tt.want, 1e-4) {
			t.Fatalf("gain at %v Hz = %v dB, want %v", tt.freq, db, tt.want)
		}
	}
}
