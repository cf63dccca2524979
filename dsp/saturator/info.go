package saturator

import (
	"github.com/cwbudde/algo-vecmath/cpu"

	"github.com/cwbudde/algo-saturator/dsp/oversample"
)

// Info describes a processor's static configuration and the host features
// its vector kernels may use.
type Info struct {
	Factor         int
	Quality        oversample.Quality
	TapsPerPhase   int
	LatencySamples int
	RampSeconds    float64
	ToneFilter     bool
	CPU            cpu.Features
}

// SIMD names the widest vector extension reported in CPU.
func (i Info) SIMD() string {
	f := i.CPU

	switch {
	case f.ForceGeneric:
		return "generic"
	case f.HasAVX512:
		return "AVX-512"
	case f.HasAVX2:
		return "AVX2"
	case f.HasAVX:
		return "AVX"
	case f.HasSSE2:
		return "SSE2"
	case f.HasNEON:
		return "NEON"
	default:
		return "none"
	}
}

// Info reports the processor configuration.
func (p *Processor) Info() Info {
	return Info{
		Factor:         p.design.Factor(),
		Quality:        p.design.Quality(),
		TapsPerPhase:   p.design.TapsPerPhase(),
		LatencySamples: p.design.LatencySamples(),
		RampSeconds:    p.cfg.rampSeconds,
		ToneFilter:     p.cfg.tone,
		CPU:            cpu.DetectFeatures(),
	}
}
