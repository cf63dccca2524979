package core

import (
	"errors"
	"fmt"
)

// ErrInvalidProcessorConfig reports a format that cannot be prepared.
var ErrInvalidProcessorConfig = errors.New("core: invalid processor config")

// ProcessorConfig is the stream format a processor is prepared for.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
	Channels   int
}

// Validate returns an ErrInvalidProcessorConfig error when any field is out
// of range.
func (c ProcessorConfig) Validate() error {
	switch {
	case !IsFinite(c.SampleRate) || c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %v", ErrInvalidProcessorConfig, c.SampleRate)
	case c.BlockSize <= 0:
		return fmt.Errorf("%w: block size %d", ErrInvalidProcessorConfig, c.BlockSize)
	case c.Channels <= 0:
		return fmt.Errorf("%w: channels %d", ErrInvalidProcessorConfig, c.Channels)
	}

	return nil
}
