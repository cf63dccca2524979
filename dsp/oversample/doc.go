// Package oversample implements integer-factor polyphase up- and
// downsampling around a nonlinear processing stage.
//
// A Stage raises a block to factor*n samples with a Kaiser-windowed sinc
// interpolator, hands the oversampled block to the caller, and decimates it
// back with the same prototype. Both filters are linear phase with K*L+1
// taps, so the round trip delays the signal by exactly K base-rate samples.
//
// All buffers are sized by Initialize; Upsample and Downsample never
// allocate.
package oversample
