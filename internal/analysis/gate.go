// SPDX-License-Identifier: MIT
package analysis

// Gate returns a copy of the envelope with every value below threshold*Max
// set to zero. threshold is clamped to [0, 1], where 0 leaves the envelope
// open and 1 lets only the loudest segments through.
func (e *Envelope) Gate(threshold float64) *Envelope {
	threshold = min(max(threshold, 0), 1)

	out := &Envelope{values: e.Values(), windowSize: e.windowSize}
	if threshold == 0 {
		return out
	}

	floor := threshold * e.Max()
	for i, v := range out.values {
		if v < floor {
			out.values[i] = 0
		}
	}
	return out
}
