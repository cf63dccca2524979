// Command satplay plays an audio file through the saturator in real time.
//
// Parameters start from the flags and can be changed while playing by
// editing a JSON file passed with -params, or from a MIDI controller
// selected with -midi.
//
// Usage:
//
//	satplay [flags] input.(wav|mp3)
//
// Examples:
//
//	satplay -drive 12 song.wav
//	satplay -params live.json -loop song.mp3
//	satplay -midi 0 -midi-channel 1 song.wav
//	satplay -list-midi
//
// A parameter file holds any subset of the parameter keys:
//
//	{"drive_db": 18, "tone": 60, "mix_pct": 80, "output": -3, "pre": true}
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-saturator/dsp/params"
	"github.com/cwbudde/algo-saturator/dsp/saturator"
	"github.com/cwbudde/algo-saturator/internal/audiofile"
	"github.com/cwbudde/algo-saturator/internal/cli"
)

const pollInterval = 250 * time.Millisecond

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}

		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("satplay", flag.ContinueOnError)
	fs.SetOutput(stderr)

	block := fs.Int("block", 512, "processing block size in frames")
	loop := fs.Bool("loop", false, "repeat the input until interrupted")
	paramsPath := fs.String("params", "", "JSON parameter file to watch for live changes")
	midiPort := fs.String("midi", "", "MIDI input port index or name for CC control")
	midiChannel := fs.Int("midi-channel", params.AnyChannel, "MIDI channel 0-15 to listen on (-1 for all)")
	listMIDI := fs.Bool("list-midi", false, "list MIDI input ports and exit")
	logLevel := fs.String("log-level", "info", "log level (debug, info, warn, error)")
	paramFlags := cli.RegisterParamFlags(fs)
	engineFlags := cli.RegisterEngineFlags(fs)

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: satplay [flags] input.(wav|mp3)\n\n")
		fmt.Fprintf(stderr, "Plays audio through the oversampled saturator.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := cli.NewLogger(stderr, *logLevel)
	if err != nil {
		return err
	}

	if *listMIDI {
		return listMIDIPorts(stdout)
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}

	engineOpts, err := engineFlags.Options()
	if err != nil {
		return err
	}

	src, err := audiofile.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	if src.NumChannels() < 1 || src.NumChannels() > 2 {
		return fmt.Errorf("playback supports mono or stereo input, got %d channels", src.NumChannels())
	}

	store := params.NewStore()
	paramFlags.Apply(store)

	p, err := saturator.New(store, engineOpts...)
	if err != nil {
		return err
	}

	if err := p.Prepare(float64(src.SampleRate), *block, src.NumChannels()); err != nil {
		return err
	}

	if *paramsPath != "" {
		pw, err := newParamWatcher(*paramsPath, store, logger)
		if err != nil {
			return err
		}
		defer pw.Close()

		go pw.Run(ctx)
	}

	if *midiPort != "" {
		ccMap := params.DefaultCCMap()
		ccMap.SetChannel(*midiChannel)

		stopMIDI, err := openMIDI(*midiPort, ccMap, store, logger)
		if err != nil {
			return err
		}
		defer stopMIDI()
	}

	return play(ctx, p, src, *block, *loop, logger)
}

func play(ctx context.Context, p *saturator.Processor, src *audiofile.Audio, block int, loop bool, logger *slog.Logger) error {
	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   src.SampleRate,
		ChannelCount: src.NumChannels(),
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return fmt.Errorf("audio output: %w", err)
	}
	<-ready

	info := p.Info()
	logger.Info("playing",
		"rate", src.SampleRate,
		"channels", src.NumChannels(),
		"seconds", fmt.Sprintf("%.1f", src.Duration()),
		"factor", info.Factor,
		"quality", info.Quality.String(),
		"latency", info.LatencySamples,
		"simd", info.SIMD())

	player := otoCtx.NewPlayer(newEngineReader(p, src, block, loop))
	defer player.Close()

	player.Play()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	bypassed := p.Bypassed()

	for {
		select {
		case <-ctx.Done():
			player.Pause()
			logger.Info("interrupted")

			return nil
		case <-ticker.C:
			if err := player.Err(); err != nil {
				return fmt.Errorf("playback: %w", err)
			}

			if b := p.Bypassed(); b != bypassed {
				bypassed = b
				logger.Info("bypass", "on", b)
			}

			if !player.IsPlaying() {
				logger.Info("finished")
				return nil
			}
		}
	}
}
