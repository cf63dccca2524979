// Command satrender renders audio files through the saturator offline.
//
// Usage:
//
//	satrender [flags] input.(wav|mp3) output.wav
//	satrender -analyze [flags]
//
// Examples:
//
//	satrender -drive 12 -mix 50 in.wav out.wav
//	satrender -drive 24 -tone 40 -pre -quality best in.mp3 out.wav
//	satrender -drive 18 -match-loudness -bits 16 -dither tpdf in.wav out.wav
//	satrender -analyze -drive 18 -freq 3000
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-saturator/dsp/buffer"
	"github.com/cwbudde/algo-saturator/dsp/core"
	"github.com/cwbudde/algo-saturator/dsp/dither"
	"github.com/cwbudde/algo-saturator/dsp/params"
	"github.com/cwbudde/algo-saturator/dsp/saturate"
	"github.com/cwbudde/algo-saturator/dsp/saturator"
	"github.com/cwbudde/algo-saturator/internal/audiofile"
	"github.com/cwbudde/algo-saturator/internal/cli"
	"github.com/cwbudde/algo-saturator/measure/loudness"
	"github.com/cwbudde/algo-saturator/measure/thd"
	"github.com/cwbudde/algo-saturator/stats/level"
)

const (
	analyzeFFTSize = 8192
	analyzeWarmup  = 512
)

var errUsage = errors.New("usage")

type options struct {
	block         int
	bits          int
	compensate    bool
	matchLoudness bool
	dither        string
	noiseShaping  bool
	seed          uint64
	analyze       bool
	rate          float64
	freq          float64
	amp           float64
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}

		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("satrender", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opt options

	fs.IntVar(&opt.block, "block", 512, "processing block size in frames")
	fs.IntVar(&opt.bits, "bits", 24, "output bit depth (16, 24)")
	fs.BoolVar(&opt.compensate, "compensate", false, "trim the processing latency from the start of the output")
	fs.BoolVar(&opt.matchLoudness, "match-loudness", false, "scale the output to the integrated loudness of the input")
	fs.StringVar(&opt.dither, "dither", "none", "dither for the output word length (none, rpdf, tpdf)")
	fs.BoolVar(&opt.noiseShaping, "noise-shaping", false, "shape the requantization noise towards Nyquist")
	fs.Uint64Var(&opt.seed, "seed", 1, "dither noise seed")
	fs.BoolVar(&opt.analyze, "analyze", false, "render a test tone and report distortion and aliasing")
	fs.Float64Var(&opt.rate, "rate", 48000, "sample rate for -analyze")
	fs.Float64Var(&opt.freq, "freq", 1000, "test tone frequency for -analyze (snapped to an FFT bin)")
	fs.Float64Var(&opt.amp, "amp", 0.5, "test tone amplitude for -analyze")

	logLevel := fs.String("log-level", "info", "log level (debug, info, warn, error)")
	paramFlags := cli.RegisterParamFlags(fs)
	engineFlags := cli.RegisterEngineFlags(fs)

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: satrender [flags] input.(wav|mp3) output.wav\n")
		fmt.Fprintf(stderr, "       satrender -analyze [flags]\n\n")
		fmt.Fprintf(stderr, "Renders audio through the oversampled saturator.\n\n")
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

	engineOpts, err := engineFlags.Options()
	if err != nil {
		return err
	}

	store := params.NewStore()
	paramFlags.Apply(store)

	p, err := saturator.New(store, engineOpts...)
	if err != nil {
		return err
	}

	if opt.analyze {
		return analyze(p, store, opt, stdout, logger)
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return errUsage
	}

	return render(p, fs.Arg(0), fs.Arg(1), opt, stdout, logger)
}

func (o options) saveOptions() ([]audiofile.SaveOption, error) {
	t, ok := dither.ParseType(strings.ToLower(o.dither))
	if !ok {
		return nil, fmt.Errorf("unknown dither %q", o.dither)
	}

	if t == dither.TypeNone && !o.noiseShaping {
		return nil, nil
	}

	return []audiofile.SaveOption{audiofile.WithDither(t, o.noiseShaping, o.seed)}, nil
}

func render(p *saturator.Processor, inPath, outPath string, opt options, stdout io.Writer, logger *slog.Logger) error {
	saveOpts, err := opt.saveOptions()
	if err != nil {
		return err
	}

	in, err := audiofile.Load(inPath)
	if err != nil {
		return err
	}

	logger.Info("loaded", "path", inPath, "rate", in.SampleRate, "channels", in.NumChannels(),
		"frames", in.Frames(), "bits", in.BitDepth)

	if err := p.Prepare(float64(in.SampleRate), opt.block, in.NumChannels()); err != nil {
		return err
	}

	latency := p.LatencySamples()
	frames := in.Frames()

	pad := 0
	if opt.compensate {
		pad = latency
	}

	work := buffer.NewBlock(in.NumChannels(), frames+pad)
	for ch := range in.NumChannels() {
		copy(work.Channel(ch), in.Channels[ch])
	}

	inLevel, _ := level.MeasureBlock(work)
	inLUFS := loudness.Integrated(work, float64(in.SampleRate))

	p.Process(work)

	out := &audiofile.Audio{SampleRate: in.SampleRate, Channels: make([][]float64, in.NumChannels())}
	for ch := range out.Channels {
		out.Channels[ch] = work.Channel(ch)[pad : pad+frames]
	}

	outBlock, err := out.Block()
	if err != nil {
		return err
	}

	outLUFS := loudness.Integrated(outBlock, float64(in.SampleRate))

	if opt.matchLoudness {
		if core.IsFinite(inLUFS) && core.IsFinite(outLUFS) {
			gain := core.DBToLinear(inLUFS - outLUFS)
			for _, samples := range out.Channels {
				vecmath.ScaleBlock(samples, samples, gain)
			}

			logger.Info("loudness matched", "gain_db", fmt.Sprintf("%.2f", inLUFS-outLUFS))

			outLUFS = inLUFS
		} else {
			logger.Warn("loudness match skipped: signal below gate")
		}
	}

	outLevel, _ := level.MeasureBlock(outBlock)

	if err := audiofile.Save(outPath, out, opt.bits, saveOpts...); err != nil {
		return err
	}

	logger.Info("rendered", "path", outPath, "latency", latency, "compensated", opt.compensate)

	if outLevel.Clipped > 0 {
		logger.Warn("output clips", "samples", outLevel.Clipped)
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\tRMS [dB]\tPeak [dB]\tCrest\tLoudness [LUFS]\n")
	fmt.Fprintf(tw, "input\t%.2f\t%.2f\t%.2f\t%.2f\n", inLevel.RMS_dB, inLevel.Peak_dB, inLevel.CrestFactor, inLUFS)
	fmt.Fprintf(tw, "output\t%.2f\t%.2f\t%.2f\t%.2f\n", outLevel.RMS_dB, outLevel.Peak_dB, outLevel.CrestFactor, outLUFS)
	fmt.Fprintf(tw, "latency\t%d samples\t\t\t\n", latency)

	return tw.Flush()
}

func analyze(p *saturator.Processor, store *params.Store, opt options, stdout io.Writer, logger *slog.Logger) error {
	if err := p.Prepare(opt.rate, opt.block, 1); err != nil {
		return err
	}

	binHz := opt.rate / analyzeFFTSize
	bin := max(1, int(opt.freq/binHz+0.5))
	freq := float64(bin) * binHz

	total := analyzeWarmup + analyzeFFTSize
	tone := make([]float64, total)

	for i := range tone {
		tone[i] = opt.amp * math.Sin(2*math.Pi*freq*float64(i)/opt.rate)
	}

	naive := make([]float64, analyzeFFTSize)
	drive := core.DBToLinear(store.Load(params.Drive))
	gain := core.DBToLinear(store.Load(params.Output))

	for i := range naive {
		naive[i] = saturate.Saturate(tone[analyzeWarmup+i], drive) * gain
	}

	block, err := buffer.FromChannels([][]float64{tone})
	if err != nil {
		return err
	}

	p.Process(block)

	cfg := thd.Config{SampleRate: opt.rate, FFTSize: analyzeFFTSize, FundamentalFreq: freq}
	over := thd.AnalyzeSignal(block.Channel(0)[analyzeWarmup:], cfg)
	ref := thd.AnalyzeSignal(naive, cfg)

	logger.Debug("analysis", "bin", bin, "freq", freq, "fft", analyzeFFTSize)

	info := p.Info()

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "tone\t%.2f Hz @ %.3f\n", freq, opt.amp)
	fmt.Fprintf(tw, "oversampling\t%dx %s (%s)\n", info.Factor, info.Quality, info.SIMD())
	fmt.Fprintf(tw, "latency\t%d samples\n", info.LatencySamples)
	fmt.Fprintf(tw, "\tOversampled\tNaive\n")
	fmt.Fprintf(tw, "THD [%%]\t%.3f\t%.3f\n", over.THD*100, ref.THD*100)
	fmt.Fprintf(tw, "THD+N [dB]\t%.2f\t%.2f\n", over.THDN_dB, ref.THDN_dB)
	fmt.Fprintf(tw, "SINAD [dB]\t%.2f\t%.2f\n", over.SINAD, ref.SINAD)
	fmt.Fprintf(tw, "Alias [dB]\t%.2f\t%.2f\n", over.AliasDB, ref.AliasDB)

	return tw.Flush()
}
