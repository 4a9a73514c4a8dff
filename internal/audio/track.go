// SPDX-License-Identifier: MIT
/*
Package audio loads PCM audio into an immutable analysis Track.

A Track is always mono: multi-channel input is reduced by a named Downmix
strategy when the file is loaded. Samples stay in their native signed 16-bit
range; nothing downstream depends on absolute scale because the envelope is
normalized before it drives motion.
*/
package audio

import (
	"fmt"
	"time"
)

// Track owns the decoded mono samples and their sample rate.
// It is never mutated after construction.
type Track struct {
	samples        []int16
	sampleRate     int
	sourceChannels int
	downmix        Downmix
}

// NewTrack copies samples into a new Track. The slice must be non-empty and
// the sample rate positive.
func NewTrack(samples []int16, sampleRate int) (*Track, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no samples", ErrFormat)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %d", ErrFormat, sampleRate)
	}

	owned := make([]int16, len(samples))
	copy(owned, samples)

	return &Track{
		samples:        owned,
		sampleRate:     sampleRate,
		sourceChannels: 1,
		downmix:        DownmixLeft,
	}, nil
}

// Samples returns the mono samples. Callers must treat the slice as read-only.
func (t *Track) Samples() []int16 { return t.samples }

// Len returns the number of mono samples.
func (t *Track) Len() int { return len(t.samples) }

// SampleRate returns the sample rate in Hz.
func (t *Track) SampleRate() int { return t.sampleRate }

// SourceChannels returns the channel count of the file the track was loaded from.
func (t *Track) SourceChannels() int { return t.sourceChannels }

// Downmix returns the strategy used to reduce the source to mono.
func (t *Track) Downmix() Downmix { return t.downmix }

// Seconds returns the track duration in seconds.
func (t *Track) Seconds() float64 {
	return float64(len(t.samples)) / float64(t.sampleRate)
}

// Duration returns the track duration rounded to the nearest nanosecond.
func (t *Track) Duration() time.Duration {
	return time.Duration(t.Seconds() * float64(time.Second))
}
