// Package testutil holds deterministic signal generators and tolerance
// assertions shared by package tests.
package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-saturator/dsp/buffer"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Block duplicates signal into numChannels channels of a new block.
func Block(signal []float64, numChannels int) *buffer.Block {
	b := buffer.NewBlock(numChannels, len(signal))
	for ch := range numChannels {
		copy(b.Channel(ch), signal)
	}
	return b
}

// Float32Channels duplicates signal into numChannels float32 channels.
func Float32Channels(signal []float64, numChannels int) [][]float32 {
	out := make([][]float32, numChannels)
	for ch := range out {
		out[ch] = make([]float32, len(signal))
		for i, v := range signal {
			out[ch][i] = float32(v)
		}
	}
	return out
}

// CloneFloat32 deep-copies channel-major float32 data.
func CloneFloat32(channels [][]float32) [][]float32 {
	out := make([][]float32, len(channels))
	for ch := range channels {
		out[ch] = append([]float32(nil), channels[ch]...)
	}
	return out
}
