// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Coefficients can be
// replaced while running without clearing the delay line, which is how the
// saturator's tone control sweeps its cutoff.
//
// Coefficient design lives in dsp/filter/design.
package biquad
