package params

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cwbudde/algo-saturator/dsp/core"
)

// ErrUnknownParam indicates a parameter key that is not part of the layout.
var ErrUnknownParam = errors.New("params: unknown parameter")

// ID identifies a continuous parameter.
type ID int

const (
	Drive ID = iota
	Tone
	Mix
	Output
)

// Count is the number of continuous parameters.
const Count = 4

// Keys of the boolean parameters.
const (
	KeyBypass = "bypass"
	KeyPre    = "pre"
)

// Spec describes one continuous parameter.
type Spec struct {
	ID      ID
	Key     string
	Short   string
	Name    string
	Unit    string
	Min     float64
	Max     float64
	Default float64
}

var specs = [Count]Spec{
	Drive:  {ID: Drive, Key: "drive_db", Short: "drive", Name: "Drive", Unit: "dB", Min: 0, Max: 30, Default: 0},
	Tone:   {ID: Tone, Key: "tone_pct", Short: "tone", Name: "Tone", Unit: "%", Min: 0, Max: 100, Default: 100},
	Mix:    {ID: Mix, Key: "mix_pct", Short: "mix", Name: "Mix", Unit: "%", Min: 0, Max: 100, Default: 100},
	Output: {ID: Output, Key: "output_db", Short: "output", Name: "Output", Unit: "dB", Min: -30, Max: 30, Default: 0},
}

// Specs returns the layout of all continuous parameters in ID order.
func Specs() []Spec {
	out := make([]Spec, Count)
	copy(out, specs[:])

	return out
}

// SpecOf returns the layout entry for id. Out-of-range ids return the zero
// Spec.
func SpecOf(id ID) Spec {
	if !id.Valid() {
		return Spec{}
	}

	return specs[id]
}

// Valid reports whether id names a continuous parameter.
func (id ID) Valid() bool { return id >= 0 && int(id) < Count }

// String returns the parameter's snapshot key.
func (id ID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("ID(%d)", int(id))
	}

	return specs[id].Key
}

// ParseID resolves a snapshot key ("drive_db") or its short form ("drive").
func ParseID(key string) (ID, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	for _, s := range specs {
		if k == s.Key || k == s.Short {
			return s.ID, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownParam, key)
}

// Clamp limits v to the parameter range. NaN maps to the default.
func (s Spec) Clamp(v float64) float64 {
	return core.ClampFinite(v, s.Min, s.Max, s.Default)
}

// Normalize maps a plain value to [0, 1].
func (s Spec) Normalize(v float64) float64 {
	if s.Max <= s.Min {
		return 0
	}

	return (s.Clamp(v) - s.Min) / (s.Max - s.Min)
}

// Denormalize maps n in [0, 1] to the plain range.
func (s Spec) Denormalize(n float64) float64 {
	n = core.ClampFinite(n, 0, 1, s.Normalize(s.Default))
	return s.Min + n*(s.Max-s.Min)
}

// Format renders v for display, e.g. "12.0 dB" or "50 %".
func (s Spec) Format(v float64) string {
	v = s.Clamp(v)
	if s.Unit == "%" {
		return fmt.Sprintf("%.0f %%", v)
	}

	return fmt.Sprintf("%.1f %s", v, s.Unit)
}
