// Package smooth provides click-free parameter ramps for audio-rate control.
//
// A Linear smoother moves from its current value to a new target in a fixed
// number of steps. It is intended to be advanced once per processed sample
// and never allocates after Prepare.
package smooth
