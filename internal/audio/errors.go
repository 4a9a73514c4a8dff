// SPDX-License-Identifier: MIT
package audio

import "errors"

var (
	// ErrIO reports a source file that is missing or unreadable.
	ErrIO = errors.New("audio: source unreadable")
	// ErrFormat reports a container that is not 16-bit RIFF/WAVE PCM with 1 or 2 channels.
	ErrFormat = errors.New("audio: unsupported format")
)
