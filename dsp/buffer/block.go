package buffer

import "fmt"

// Block is a channel-major set of float64 sample slices sharing one logical
// length. Capacity is fixed at construction.
type Block struct {
	channels [][]float64
	length   int
	capacity int
}

// NewBlock allocates a zero-filled block for numChannels channels of up to
// capacity frames. The logical length starts at capacity.
func NewBlock(numChannels, capacity int) *Block {
	if numChannels < 0 {
		numChannels = 0
	}

	if capacity < 0 {
		capacity = 0
	}

	backing := make([]float64, numChannels*capacity)
	channels := make([][]float64, numChannels)

	for ch := range channels {
		channels[ch] = backing[ch*capacity : (ch+1)*capacity : (ch+1)*capacity]
	}

	return &Block{channels: channels, length: capacity, capacity: capacity}
}

// FromChannels wraps existing channel slices without copying. All slices must
// have the same length, which becomes both length and capacity.
func FromChannels(channels [][]float64) (*Block, error) {
	n := 0
	if len(channels) > 0 {
		n = len(channels[0])
	}

	for ch, data := range channels {
		if len(data) != n {
			return nil, fmt.Errorf("buffer: channel %d has %d samples, want %d", ch, len(data), n)
		}
	}

	wrapped := make([][]float64, len(channels))
	for ch, data := range channels {
		wrapped[ch] = data[:n:n]
	}

	return &Block{channels: wrapped, length: n, capacity: n}, nil
}

// NumChannels returns the channel count.
func (b *Block) NumChannels() int { return len(b.channels) }

// Len returns the logical frame count.
func (b *Block) Len() int { return b.length }

// Cap returns the maximum frame count.
func (b *Block) Cap() int { return b.capacity }

// SetLength changes the logical frame count. n is clamped to [0, Cap()];
// the returned value is the length actually applied.
func (b *Block) SetLength(n int) int {
	if n < 0 {
		n = 0
	}

	if n > b.capacity {
		n = b.capacity
	}

	b.length = n

	return n
}

// Channel returns the first Len() samples of channel ch.
func (b *Block) Channel(ch int) []float64 {
	return b.channels[ch][:b.length]
}

// CopyFrom copies src into b, channel by channel, and sets b's length to
// min(src.Len(), b.Cap()). Channels beyond either block's count are left
// untouched.
func (b *Block) CopyFrom(src *Block) {
	n := b.SetLength(src.length)

	chans := min(len(b.channels), len(src.channels))
	for ch := range chans {
		copy(b.channels[ch][:n], src.channels[ch][:n])
	}
}

// Zero clears the first Len() samples of every channel.
func (b *Block) Zero() {
	for _, data := range b.channels {
		clear(data[:b.length])
	}
}

// SameShape reports whether b and other have equal channel count and length.
func (b *Block) SameShape(other *Block) bool {
	return other != nil && len(b.channels) == len(other.channels) && b.length == other.length
}
