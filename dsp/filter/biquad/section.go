package biquad

// Coefficients of one normalized second-order section (a0 = 1), run in
// transposed direct form II:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Identity returns pass-through coefficients.
func Identity() Coefficients { return Coefficients{B0: 1} }

// Section is a biquad with its two-element delay line. The zero value is a
// silent filter; set coefficients before use.
type Section struct {
	Coefficients

	d0, d1 float64
}

// NewSection returns a section with c and a cleared delay line.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// SetCoefficients swaps the coefficients without clearing the delay line.
func (s *Section) SetCoefficients(c Coefficients) { s.Coefficients = c }

// ProcessSample filters one sample.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.d0
	s.d0 = s.B1*x - s.A1*y + s.d1
	s.d1 = s.B2*x - s.A2*y

	return y
}

// ProcessBlock filters buf in place.
func (s *Section) ProcessBlock(buf []float64) {
	c := s.Coefficients
	d0, d1 := s.d0, s.d1

	for i, x := range buf {
		y := c.B0*x + d0
		d0 = c.B1*x - c.A1*y + d1
		d1 = c.B2*x - c.A2*y
		buf[i] = y
	}

	s.d0, s.d1 = d0, d1
}

// Reset clears the delay line.
func (s *Section) Reset() { s.d0, s.d1 = 0, 0 }

// State returns the delay line [d0, d1].
func (s *Section) State() [2]float64 { return [2]float64{s.d0, s.d1} }

// SetState restores a delay line saved with State.
func (s *Section) SetState(state [2]float64) { s.d0, s.d1 = state[0], state[1] }
