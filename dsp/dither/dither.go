// Package dither reduces floating-point audio to integer PCM with optional
// dither noise and first-order noise shaping.
package dither

import "fmt"

// Type selects the probability distribution of the dither noise.
type Type int

const (
	// TypeNone rounds without added noise.
	TypeNone Type = iota
	// TypeRectangular adds uniform noise of one LSB peak.
	TypeRectangular
	// TypeTriangular adds triangular (TPDF) noise, decorrelating the error
	// from the signal in both mean and variance.
	TypeTriangular

	typeCount
)

var typeNames = [typeCount]string{"none", "rectangular", "triangular"}

// String returns the type name.
func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}

	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is a known type.
func (t Type) Valid() bool { return t >= 0 && t < typeCount }

// ParseType maps a name such as "tpdf" or "triangular" to its Type.
func ParseType(name string) (Type, bool) {
	switch name {
	case "none", "off", "":
		return TypeNone, true
	case "rectangular", "rpdf":
		return TypeRectangular, true
	case "triangular", "tpdf":
		return TypeTriangular, true
	default:
		return TypeNone, false
	}
}
