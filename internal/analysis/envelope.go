// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Envelope is the per-window spectral energy of a track, in window order.
// Values are non-negative and the envelope is never modified after creation.
type Envelope struct {
	values     []float64
	windowSize int
}

// NewEnvelope copies values into an Envelope. windowSize records how many
// samples produced each value; zero means unknown (hand-built envelopes).
func NewEnvelope(values []float64, windowSize int) (*Envelope, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no values", ErrInvalidEnvelope)
	}
	for i, v := range values {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: value %d is %v", ErrInvalidEnvelope, i, v)
		}
	}

	owned := make([]float64, len(values))
	copy(owned, values)
	return &Envelope{values: owned, windowSize: windowSize}, nil
}

// Len returns the number of segments.
func (e *Envelope) Len() int { return len(e.values) }

// At returns the energy of segment i.
func (e *Envelope) At(i int) float64 { return e.values[i] }

// Values returns a copy of the energies.
func (e *Envelope) Values() []float64 {
	out := make([]float64, len(e.values))
	copy(out, e.values)
	return out
}

// WindowSize returns the number of samples behind each value.
func (e *Envelope) WindowSize() int { return e.windowSize }

// Max returns the largest energy.
func (e *Envelope) Max() float64 { return floats.Max(e.values) }

// Normalized returns every energy divided by Max. A silent envelope
// (Max == 0) normalizes to all zeros rather than dividing by zero.
func (e *Envelope) Normalized() []float64 {
	out := make([]float64, len(e.values))
	peak := e.Max()
	if peak == 0 {
		return out
	}
	copy(out, e.values)
	floats.Scale(1/peak, out)
	return out
}
