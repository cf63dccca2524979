package params

import (
	"math"
	"sync/atomic"
)

// Snapshot is a block-consistent copy of every parameter.
type Snapshot struct {
	Bypass bool
	Pre    bool
	Values [Count]float64
}

// Value returns the plain value of id.
func (s Snapshot) Value(id ID) float64 {
	if !id.Valid() {
		return 0
	}

	return s.Values[id]
}

// Store holds the current parameter values. Methods are safe for concurrent
// use and never block.
type Store struct {
	values [Count]atomic.Uint64
	bypass atomic.Bool
	pre    atomic.Bool
}

// NewStore returns a store holding the default values.
func NewStore() *Store {
	s := &Store{}
	s.Reset()

	return s
}

// Reset restores every parameter to its default.
func (s *Store) Reset() {
	for id := range ID(Count) {
		s.values[id].Store(math.Float64bits(specs[id].Default))
	}

	s.bypass.Store(false)
	s.pre.Store(false)
}

// Set stores the plain value of id, clamped to its range.
func (s *Store) Set(id ID, v float64) {
	if !id.Valid() {
		return
	}

	s.values[id].Store(math.Float64bits(specs[id].Clamp(v)))
}

// Load returns the plain value of id.
func (s *Store) Load(id ID) float64 {
	if !id.Valid() {
		return 0
	}

	return math.Float64frombits(s.values[id].Load())
}

// SetNormalized stores id from a [0, 1] control value.
func (s *Store) SetNormalized(id ID, n float64) {
	if !id.Valid() {
		return
	}

	s.Set(id, specs[id].Denormalize(n))
}

// Normalized returns id mapped to [0, 1].
func (s *Store) Normalized(id ID) float64 {
	if !id.Valid() {
		return 0
	}

	return specs[id].Normalize(s.Load(id))
}

// SetByKey stores a value addressed by snapshot key. The boolean keys treat
// v >= 0.5 as on.
func (s *Store) SetByKey(key string, v float64) error {
	switch key {
	case KeyBypass:
		s.SetBypass(v >= 0.5)
		return nil
	case KeyPre:
		s.SetPre(v >= 0.5)
		return nil
	}

	id, err := ParseID(key)
	if err != nil {
		return err
	}

	s.Set(id, v)

	return nil
}

// SetBypass sets the bypass flag.
func (s *Store) SetBypass(on bool) { s.bypass.Store(on) }

// Bypass returns the bypass flag.
func (s *Store) Bypass() bool { return s.bypass.Load() }

// SetPre moves the tone filter behind the shaper. When off, the default,
// the tone filter feeds the shaper.
func (s *Store) SetPre(on bool) { s.pre.Store(on) }

// Pre returns the routing flag.
func (s *Store) Pre() bool { return s.pre.Load() }

// Snapshot loads every parameter once. Values are clamped again so a
// snapshot is always in range.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Bypass: s.bypass.Load(),
		Pre:    s.pre.Load(),
	}

	for id := range ID(Count) {
		snap.Values[id] = specs[id].Clamp(math.Float64frombits(s.values[id].Load()))
	}

	return snap
}
