// Command satinfo prints the latency and anti-aliasing response of each
// oversampling configuration.
//
// Usage:
//
//	satinfo [flags]
//
// Without flags it prints every factor and quality at 48 kHz.
//
// Examples:
//
//	satinfo
//	satinfo -rate 44100 -quality best
//	satinfo -factor 8
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-saturator/dsp/oversample"
	"github.com/cwbudde/algo-saturator/dsp/saturator"
	"github.com/cwbudde/algo-saturator/dsp/window"
)

var (
	factors   = []int{2, 4, 8, 16}
	qualities = []oversample.Quality{oversample.QualityFast, oversample.QualityBalanced, oversample.QualityBest}
)

// passbandEdgeHz is the top of the audible band checked for droop.
const passbandEdgeHz = 20000.0

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}

		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("satinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)

	rate := fs.Float64("rate", 48000, "base sample rate in Hz")
	factor := fs.Int("factor", 0, "only show this oversampling factor (2, 4, 8, 16)")
	quality := fs.String("quality", "", "only show this quality (fast, balanced, best)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: satinfo [flags]\n\n")
		fmt.Fprintf(stderr, "Prints latency and filter response per oversampling setting.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *rate <= 0 {
		return fmt.Errorf("rate must be positive, got %g", *rate)
	}

	fl := factors
	if *factor != 0 {
		fl = []int{*factor}
	}

	ql := qualities
	if *quality != "" {
		q, ok := oversample.ParseQuality(strings.ToLower(*quality))
		if !ok {
			return fmt.Errorf("unknown quality %q", *quality)
		}

		ql = []oversample.Quality{q}
	}

	rows := make([]saturator.Info, 0, len(fl)*len(ql))

	for _, q := range ql {
		for _, f := range fl {
			p, err := saturator.New(nil, saturator.WithOversampling(f), saturator.WithQuality(q))
			if err != nil {
				return err
			}

			rows = append(rows, p.Info())
		}
	}

	return printTable(stdout, rows, *rate)
}

func printTable(w io.Writer, rows []saturator.Info, rate float64) error {
	if len(rows) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w, "SIMD: %s\n\n", rows[0].SIMD()); err != nil {
		return err
	}

	edge := min(passbandEdgeHz, 0.45*rate)
	nyquist := rate / 2
	image := rate - edge

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Quality\tFactor\tTaps/Phase\tLatency [smp]\tLatency [ms]\tKaiser beta\tENBW [bins]\t%.0f Hz [dB]\tNyquist [dB]\t%.0f Hz [dB]\n", edge, image)
	fmt.Fprintf(tw, "-------\t------\t----------\t-------------\t------------\t-----------\t-----------\t----------\t------------\t----------\n")

	for _, info := range rows {
		stage, err := oversample.New(info.Factor, oversample.WithQuality(info.Quality))
		if err != nil {
			return err
		}

		prof := oversample.QualityProfile(info.Quality)

		coeffs, err := window.Kaiser(len(stage.UpTaps()), prof.KaiserBeta)
		if err != nil {
			return err
		}

		enbw, err := window.EquivalentNoiseBandwidth(coeffs)
		if err != nil {
			return err
		}

		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.3f\t%.1f\t%.3f\t%.2f\t%.2f\t%.1f\n",
			info.Quality,
			info.Factor,
			info.TapsPerPhase,
			info.LatencySamples,
			1000*float64(info.LatencySamples)/rate,
			prof.KaiserBeta,
			enbw,
			stage.ResponseDB(edge, rate),
			stage.ResponseDB(nyquist, rate),
			stage.ResponseDB(image, rate),
		)
	}

	return tw.Flush()
}
