// Package cli holds flag and logging helpers shared by the commands.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cwbudde/algo-saturator/dsp/oversample"
	"github.com/cwbudde/algo-saturator/dsp/params"
	"github.com/cwbudde/algo-saturator/dsp/saturator"
)

// ResolveLogLevel maps a level name to its slog level.
func ResolveLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

// NewLogger returns a text logger writing to w at the named level.
func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := ResolveLogLevel(level)
	if err != nil {
		return nil, err
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// ParamFlags binds one flag per parameter of the store layout.
type ParamFlags struct {
	values [params.Count]*float64
	bypass *bool
	pre    *bool
}

// RegisterParamFlags adds -drive, -tone, -mix, -output, -bypass and -pre to fs.
func RegisterParamFlags(fs *flag.FlagSet) *ParamFlags {
	pf := &ParamFlags{}

	for _, s := range params.Specs() {
		usage := fmt.Sprintf("%s in %s [%g, %g]", s.Name, s.Unit, s.Min, s.Max)
		pf.values[s.ID] = fs.Float64(s.Short, s.Default, usage)
	}

	pf.bypass = fs.Bool(params.KeyBypass, false, "pass audio through unprocessed")
	pf.pre = fs.Bool(params.KeyPre, false, "apply the tone filter before saturation")

	return pf
}

// Apply writes the parsed flag values into store.
func (pf *ParamFlags) Apply(store *params.Store) {
	for id, v := range pf.values {
		store.Set(params.ID(id), *v)
	}

	store.SetBypass(*pf.bypass)
	store.SetPre(*pf.pre)
}

// EngineFlags binds the processor construction options.
type EngineFlags struct {
	factor  *int
	quality *string
	ramp    *float64
	noTone  *bool
}

// RegisterEngineFlags adds -factor, -quality, -ramp and -no-tone to fs.
func RegisterEngineFlags(fs *flag.FlagSet) *EngineFlags {
	return &EngineFlags{
		factor:  fs.Int("factor", oversample.DefaultFactor, "oversampling factor (2, 4, 8, 16)"),
		quality: fs.String("quality", oversample.QualityBalanced.String(), "anti-aliasing quality (fast, balanced, best)"),
		ramp:    fs.Float64("ramp", 0.01, "parameter smoothing time in seconds"),
		noTone:  fs.Bool("no-tone", false, "disable the tone filter"),
	}
}

// Options converts the parsed flags to processor options.
func (ef *EngineFlags) Options() ([]saturator.Option, error) {
	q, ok := oversample.ParseQuality(strings.ToLower(*ef.quality))
	if !ok {
		return nil, fmt.Errorf("%w: unknown quality %q", saturator.ErrInvalidConfig, *ef.quality)
	}

	return []saturator.Option{
		saturator.WithOversampling(*ef.factor),
		saturator.WithQuality(q),
		saturator.WithRampSeconds(*ef.ramp),
		saturator.WithToneFilter(!*ef.noTone),
	}, nil
}
