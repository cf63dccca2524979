package buffer

import "testing"

func TestNewBlockZeroFilled(t *testing.T) {
	b := NewBlock(2, 8)
	if b.NumChannels() != 2 {
		t.Fatalf("NumChannels() = %d, want 2", b.NumChannels())
	}
	if b.Len() != 8 || b.Cap() != 8 {
		t.Fatalf("Len/Cap = %d/%d, want 8/8", b.Len(), b.Cap())
	}
	for ch := range 2 {
		for i, v := range b.Channel(ch) {
			if v != 0 {
				t.Fatalf("channel %d sample %d = %v, want 0", ch, i, v)
			}
		}
	}
}

func TestChannelsDoNotOverlap(t *testing.T) {
	b := NewBlock(2, 4)
	b.SetLength(2)

	// Appending to a channel view must not spill into the next channel.
	left := append(b.Channel(0), 9, 9, 9)
	_ = left

	for i, v := range b.channels[1] {
		if v != 0 {
			t.Fatalf("channel 1 sample %d = %v, want 0", i, v)
		}
	}
}

func TestSetLengthClamps(t *testing.T) {
	b := NewBlock(1, 16)

	if got := b.SetLength(32); got != 16 {
		t.Fatalf("SetLength(32) = %d, want 16", got)
	}
	if got := b.SetLength(-1); got != 0 {
		t.Fatalf("SetLength(-1) = %d, want 0", got)
	}
	if got := b.SetLength(5); got != 5 || len(b.Channel(0)) != 5 {
		t.Fatalf("SetLength(5) = %d, len = %d", got, len(b.Channel(0)))
	}
	if b.Cap() != 16 {
		t.Fatalf("Cap() = %d, want 16", b.Cap())
	}
}

func TestSetLengthDoesNotAllocate(t *testing.T) {
	b := NewBlock(2, 512)

	allocs := testing.AllocsPerRun(100, func() {
		b.SetLength(128)
		b.SetLength(512)
	})
	if allocs != 0 {
		t.Fatalf("SetLength allocated %.1f times per run", allocs)
	}
}

func TestFromChannels(t *testing.T) {
	l := []float64{1, 2, 3}
	r := []float64{4, 5, 6}

	b, err := FromChannels([][]float64{l, r})
	if err != nil {
		t.Fatalf("FromChannels() error = %v", err)
	}

	b.Channel(0)[0] = 99
	if l[0] != 99 {
		t.Fatal("FromChannels should share underlying memory")
	}

	if _, err := FromChannels([][]float64{{1, 2}, {1}}); err == nil {
		t.Fatal("expected error for ragged channels")
	}
}

func TestCopyFrom(t *testing.T) {
	src, _ := FromChannels([][]float64{{1, 2, 3}, {4, 5, 6}})
	dst := NewBlock(2, 8)

	dst.CopyFrom(src)

	if dst.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", dst.Len())
	}
	if !dst.SameShape(src) {
		t.Fatal("expected same shape after CopyFrom")
	}
	for ch := range 2 {
		for i := range 3 {
			if dst.Channel(ch)[i] != src.Channel(ch)[i] {
				t.Fatalf("ch %d sample %d = %v, want %v", ch, i, dst.Channel(ch)[i], src.Channel(ch)[i])
			}
		}
	}
}

func TestZero(t *testing.T) {
	b, _ := FromChannels([][]float64{{1, 2, 3}})
	b.SetLength(2)
	b.Zero()

	b.SetLength(3)
	got := b.Channel(0)
	if got[0] != 0 || got[1] != 0 || got[2] != 3 {
		t.Fatalf("Zero() touched wrong range: %v", got)
	}
}
