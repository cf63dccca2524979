// Package saturator implements an oversampled saturation processor.
//
// A Processor reads its parameters from a lock-free params.Store once per
// block, ramps them with linear smoothers at the oversampled rate and runs
// each channel through
//
//	upsample -> [tone] -> saturate -> [tone] -> output gain -> downsample
//
// before blending the result with the unprocessed input. The tone low-pass
// feeds the shaper by default and follows it when the store's Pre flag is
// set. At 100 % its output is faded out entirely.
//
// Lifecycle:
//
//	p, _ := saturator.New(store)
//	_ = p.Prepare(48000, 512, 2)
//	p.ProcessFloat32(channels, n) // audio thread, repeatedly
//	p.Release()
//
// Prepare allocates every buffer the audio path needs. Process and
// ProcessFloat32 never allocate, never lock and never return errors.
package saturator
