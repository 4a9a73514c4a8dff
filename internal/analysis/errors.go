// SPDX-License-Identifier: MIT
package analysis

import "errors"

var (
	// ErrInvalidSegmentation reports a segment count that leaves windows with no samples.
	ErrInvalidSegmentation = errors.New("analysis: invalid segmentation")
	// ErrInvalidEnvelope reports envelope values that are empty, negative or not finite.
	ErrInvalidEnvelope = errors.New("analysis: invalid envelope")
)
