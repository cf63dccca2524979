package audiofile

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// go-mp3 always produces interleaved 16-bit little-endian stereo.
const (
	mp3Channels      = 2
	mp3BytesPerFrame = 4
)

// DecodeMP3 decodes an MP3 stream to stereo.
func DecodeMP3(r io.Reader) (*Audio, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("audiofile: decode MP3: %w", err)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("audiofile: decode MP3: %w", err)
	}

	return &Audio{
		SampleRate: dec.SampleRate(),
		BitDepth:   16,
		Channels:   pcm16StereoToChannels(pcm),
	}, nil
}

func pcm16StereoToChannels(pcm []byte) [][]float64 {
	frames := len(pcm) / mp3BytesPerFrame
	data := make([]int, frames*mp3Channels)

	for i := range data {
		data[i] = int(int16(binary.LittleEndian.Uint16(pcm[2*i:])))
	}

	return deinterleave(data, mp3Channels, 1.0/32768)
}
