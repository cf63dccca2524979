// Package audiofile loads and saves the audio files handled by the command
// line tools. WAV input and output go through go-audio/wav; MP3 input is
// decoded with go-mp3.
package audiofile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-saturator/dsp/buffer"
	"github.com/cwbudde/algo-saturator/dsp/dither"
)

// ErrUnsupported reports a file type or sample format that cannot be read or
// written.
var ErrUnsupported = errors.New("audiofile: unsupported format")

// Audio is decoded, channel-major audio in [-1, 1].
type Audio struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float64
}

// NumChannels returns the channel count.
func (a *Audio) NumChannels() int { return len(a.Channels) }

// Frames returns the number of frames.
func (a *Audio) Frames() int {
	if len(a.Channels) == 0 {
		return 0
	}

	return len(a.Channels[0])
}

// Duration returns the length in seconds.
func (a *Audio) Duration() float64 {
	if a.SampleRate <= 0 {
		return 0
	}

	return float64(a.Frames()) / float64(a.SampleRate)
}

// Block wraps the channel data without copying.
func (a *Audio) Block() (*buffer.Block, error) {
	return buffer.FromChannels(a.Channels)
}

// Load decodes path, choosing the decoder by file extension.
func Load(path string) (*Audio, error) {
	ext := strings.ToLower(filepath.Ext(path))

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: %w", err)
	}
	defer f.Close()

	switch ext {
	case ".wav", ".wave":
		return DecodeWAV(f)
	case ".mp3":
		return DecodeMP3(f)
	default:
		return nil, fmt.Errorf("%w: extension %q", ErrUnsupported, ext)
	}
}

// Save encodes a as PCM WAV with the given bit depth (16 or 24).
func Save(path string, a *Audio, bitDepth int, opts ...SaveOption) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audiofile: %w", err)
	}

	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("audiofile: %w", cerr)
		}
	}()

	return EncodeWAV(f, a, bitDepth, opts...)
}

type saveConfig struct {
	dither  dither.Type
	shaping bool
	seed    uint64
}

// SaveOption configures how samples are reduced to integers on export.
type SaveOption func(*saveConfig)

// WithDither adds dither noise of type t, optionally noise shaped. seed
// fixes the noise so renders are reproducible. Without this option samples
// are rounded.
func WithDither(t dither.Type, shaping bool, seed uint64) SaveOption {
	return func(cfg *saveConfig) {
		cfg.dither = t
		cfg.shaping = shaping
		cfg.seed = seed
	}
}

func deinterleave(data []int, channels int, scale float64) [][]float64 {
	frames := len(data) / channels
	out := make([][]float64, channels)

	for ch := range out {
		out[ch] = make([]float64, frames)
		for i := range frames {
			out[ch][i] = float64(data[i*channels+ch]) * scale
		}
	}

	return out
}
