// SPDX-License-Identifier: MIT
// Package timeline maps audio duration onto discrete animation frames.
package timeline

import (
	"errors"
	"fmt"
	"math"

	"wavepool/internal/analysis"
	"wavepool/internal/audio"
)

// StartFrame is the first animation frame of every timeline.
const StartFrame = 1

var (
	ErrInvalidFrameRate = errors.New("timeline: frame rate must be positive")
	ErrMissingEnvelope  = errors.New("timeline: envelope required")
)

// Timeline is the frame range of a run and the frame stride between envelope values.
type Timeline struct {
	StartFrame       int
	EndFrame         int
	FramesPerSegment int
}

// TotalFrames returns floor(numSamples * frameRate / sampleRate), clamped to
// at least one frame so zero-length input still yields a single frame.
func TotalFrames(numSamples, sampleRate int, frameRate float64) int {
	if numSamples <= 0 || sampleRate <= 0 || frameRate <= 0 {
		return 1
	}
	frames := int(math.Floor(float64(numSamples) * frameRate / float64(sampleRate)))
	return max(1, frames)
}

// Schedule derives the timeline for track at frameRate with one keyed frame
// per envelope value.
func Schedule(track *audio.Track, frameRate float64, env *analysis.Envelope) (Timeline, error) {
	if frameRate <= 0 || math.IsNaN(frameRate) || math.IsInf(frameRate, 0) {
		return Timeline{}, fmt.Errorf("%w, got %v", ErrInvalidFrameRate, frameRate)
	}
	if env == nil || env.Len() == 0 {
		return Timeline{}, ErrMissingEnvelope
	}

	total := TotalFrames(track.Len(), track.SampleRate(), frameRate)
	return Timeline{
		StartFrame:       StartFrame,
		EndFrame:         total,
		FramesPerSegment: max(1, total/env.Len()),
	}, nil
}

// FrameOf returns the frame at which envelope segment s is keyed.
func (t Timeline) FrameOf(segment int) int {
	return t.StartFrame + segment*t.FramesPerSegment
}

// LastKeyedFrame returns the frame of the final segment of an envelope with
// segments values. It can fall short of, or past, EndFrame when the stride
// does not divide the timeline evenly.
func (t Timeline) LastKeyedFrame(segments int) int {
	if segments <= 0 {
		return t.StartFrame
	}
	return t.FrameOf(segments - 1)
}

// Frames returns the number of frames between StartFrame and EndFrame inclusive.
func (t Timeline) Frames() int {
	return t.EndFrame - t.StartFrame + 1
}
