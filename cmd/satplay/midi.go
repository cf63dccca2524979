package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/portmididrv"

	"github.com/cwbudde/algo-saturator/dsp/params"
)

func listMIDIPorts(w io.Writer) error {
	ins, err := drivers.Ins()
	if err != nil {
		return fmt.Errorf("midi: %w", err)
	}
	defer drivers.Close()

	for i, in := range ins {
		fmt.Fprintf(w, "%d\t%s\n", i, in.String())
	}

	return nil
}

// findInPort resolves port as an index into ins or, failing that, as a
// case-insensitive substring of a port name.
func findInPort(ins []drivers.In, port string) (drivers.In, error) {
	if idx, err := strconv.Atoi(port); err == nil {
		if idx < 0 || idx >= len(ins) {
			return nil, fmt.Errorf("midi: input port index %d out of range (%d ports)", idx, len(ins))
		}

		return ins[idx], nil
	}

	needle := strings.ToLower(port)
	for _, in := range ins {
		if strings.Contains(strings.ToLower(in.String()), needle) {
			return in, nil
		}
	}

	return nil, fmt.Errorf("midi: no input port matching %q", port)
}

// openMIDI routes control changes from port into store through ccMap.
func openMIDI(port string, ccMap *params.CCMap, store *params.Store, logger *slog.Logger) (func(), error) {
	ins, err := drivers.Ins()
	if err != nil {
		return nil, fmt.Errorf("midi: %w", err)
	}

	in, err := findInPort(ins, port)
	if err != nil {
		drivers.Close()
		return nil, err
	}

	stop, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		if ccMap.Apply(store, msg) {
			logger.Debug("midi", "msg", msg.String())
		}
	})
	if err != nil {
		drivers.Close()
		return nil, fmt.Errorf("midi: listen on %s: %w", in.String(), err)
	}

	logger.Info("midi input", "port", in.String())

	return func() {
		stop()
		drivers.Close()
	}, nil
}
