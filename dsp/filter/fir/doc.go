// Package fir designs windowed-sinc low-pass prototypes and evaluates the
// frequency response of FIR kernels.
//
// The oversampling stage builds its anti-imaging and anti-aliasing filters
// with [DesignLowpass] and reports their response through [MagnitudeDB].
package fir
