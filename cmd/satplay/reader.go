package main

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/cwbudde/algo-saturator/dsp/saturator"
	"github.com/cwbudde/algo-saturator/internal/audiofile"
)

const bytesPerSample = 4

// engineReader renders interleaved float32 little-endian audio on demand.
// The audio backend calls Read from its own goroutine, which makes that
// goroutine the processor's audio thread.
type engineReader struct {
	p       *saturator.Processor
	src     [][]float64
	frames  int
	pos     int
	loop    bool
	scratch [][]float32
}

func newEngineReader(p *saturator.Processor, src *audiofile.Audio, block int, loop bool) *engineReader {
	scratch := make([][]float32, src.NumChannels())
	for ch := range scratch {
		scratch[ch] = make([]float32, block)
	}

	return &engineReader{
		p:       p,
		src:     src.Channels,
		frames:  src.Frames(),
		loop:    loop,
		scratch: scratch,
	}
}

// Read fills b with whole frames. It returns io.EOF once the source is
// exhausted and looping is off.
func (r *engineReader) Read(b []byte) (int, error) {
	channels := len(r.scratch)
	frameBytes := channels * bytesPerSample
	want := len(b) / frameBytes

	done := 0
	for done < want {
		if r.pos >= r.frames {
			if !r.loop || r.frames == 0 {
				break
			}

			r.pos = 0
		}

		n := min(len(r.scratch[0]), want-done, r.frames-r.pos)

		for ch, s := range r.scratch {
			for i := range n {
				s[i] = float32(r.src[ch][r.pos+i])
			}
		}

		r.p.ProcessFloat32(r.scratch, n)

		out := b[done*frameBytes:]
		for i := range n {
			for ch, s := range r.scratch {
				off := (i*channels + ch) * bytesPerSample
				binary.LittleEndian.PutUint32(out[off:], math.Float32bits(s[i]))
			}
		}

		done += n
		r.pos += n
	}

	if done == 0 && want > 0 {
		return 0, io.EOF
	}

	return done * frameBytes, nil
}
