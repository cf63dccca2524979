// Package buffer provides fixed-capacity, channel-major sample blocks for
// real-time processing.
//
// A [Block] is sized once (channel count and maximum frame count) and
// afterwards only changes its logical length. SetLength never allocates, so a
// Block prepared ahead of time can be reused from an audio callback.
package buffer
