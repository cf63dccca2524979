package audiofile

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-saturator/dsp/dither"
)

const wavFormatPCM = 1

// DecodeWAV reads an integer PCM WAV stream.
func DecodeWAV(r io.ReadSeeker) (*Audio, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid WAV file", ErrUnsupported)
	}

	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: WAV format tag %d", ErrUnsupported, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("audiofile: decode WAV: %w", err)
	}

	channels := int(dec.NumChans)
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupported, channels)
	}

	depth := int(dec.BitDepth)
	scale := 1 / math.Ldexp(1, depth-1)

	return &Audio{
		SampleRate: int(dec.SampleRate),
		BitDepth:   depth,
		Channels:   deinterleave(buf.Data, channels, scale),
	}, nil
}

// EncodeWAV writes a as integer PCM WAV.
func EncodeWAV(w io.WriteSeeker, a *Audio, bitDepth int, opts ...SaveOption) error {
	switch bitDepth {
	case 16, 24:
	default:
		return fmt.Errorf("%w: %d-bit output", ErrUnsupported, bitDepth)
	}

	channels := a.NumChannels()
	if channels == 0 || a.SampleRate <= 0 {
		return fmt.Errorf("%w: %d channels at %d Hz", ErrUnsupported, channels, a.SampleRate)
	}

	var cfg saveConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	frames := a.Frames()
	data := make([]int, frames*channels)

	for ch, samples := range a.Channels {
		q, err := dither.NewQuantizer(bitDepth,
			dither.WithType(cfg.dither),
			dither.WithNoiseShaping(cfg.shaping),
			dither.WithSeed(cfg.seed+uint64(ch)))
		if err != nil {
			return fmt.Errorf("audiofile: %w", err)
		}

		q.QuantizeBlock(data, samples[:frames], channels, ch)
	}

	enc := wav.NewEncoder(w, a.SampleRate, bitDepth, channels, wavFormatPCM)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: a.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("audiofile: encode WAV: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("audiofile: finish WAV: %w", err)
	}

	return nil
}
