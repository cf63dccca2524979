// Package mix blends processed and unprocessed blocks.
package mix

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-saturator/dsp/buffer"
	"github.com/cwbudde/algo-saturator/dsp/core"
)

// DryWet computes wet = wet*ratio + dry*(1-ratio) in place over the common
// channels and length of both blocks. ratio is clamped to [0, 1]; NaN counts
// as fully wet.
//
// The dry block is consumed: its samples are scaled in place.
func DryWet(wet, dry *buffer.Block, ratio float64) {
	ratio = core.ClampFinite(ratio, 0, 1, 1)

	channels := min(wet.NumChannels(), dry.NumChannels())
	n := min(wet.Len(), dry.Len())

	for ch := range channels {
		w := wet.Channel(ch)[:n]
		d := dry.Channel(ch)[:n]

		vecmath.ScaleBlock(w, w, ratio)
		vecmath.ScaleBlock(d, d, 1-ratio)
		vecmath.AddBlockInPlace(w, d)
	}
}

// DryWetSlice is DryWet for a single channel.
func DryWetSlice(wet, dry []float64, ratio float64) {
	ratio = core.ClampFinite(ratio, 0, 1, 1)
	n := min(len(wet), len(dry))

	vecmath.ScaleBlock(wet[:n], wet[:n], ratio)
	vecmath.ScaleBlock(dry[:n], dry[:n], 1-ratio)
	vecmath.AddBlockInPlace(wet[:n], dry[:n])
}
