// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"
	"strings"
)

// Downmix selects how interleaved multi-channel samples become one analysis channel.
type Downmix int

const (
	// DownmixLeft keeps every other interleaved sample, i.e. the first channel of
	// a stereo stream. The second channel is discarded entirely.
	DownmixLeft Downmix = iota
	// DownmixAverage takes the mean of both channels of each frame.
	DownmixAverage
)

// String returns the config name of the strategy.
func (d Downmix) String() string {
	switch d {
	case DownmixLeft:
		return "left"
	case DownmixAverage:
		return "average"
	default:
		return fmt.Sprintf("downmix(%d)", int(d))
	}
}

// ParseDownmix converts a config name (case-insensitive) to a Downmix.
func ParseDownmix(name string) (Downmix, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "left", "first":
		return DownmixLeft, nil
	case "average", "avg", "mean":
		return DownmixAverage, nil
	default:
		return DownmixLeft, fmt.Errorf("unknown downmix strategy: '%s'", name)
	}
}

// Apply reduces interleaved samples with the given channel count to mono.
// Mono input is returned as a converted copy regardless of the strategy.
func (d Downmix) Apply(interleaved []int, channels int) []int16 {
	if channels <= 1 {
		out := make([]int16, len(interleaved))
		for i, v := range interleaved {
			out[i] = clamp16(v)
		}
		return out
	}

	// A trailing partial frame still contributes its first-channel sample,
	// matching a plain stride over the interleaved buffer.
	frames := (len(interleaved) + channels - 1) / channels
	out := make([]int16, frames)

	switch d {
	case DownmixAverage:
		for f := range frames {
			base := f * channels
			end := min(base+channels, len(interleaved))
			sum := 0
			for _, v := range interleaved[base:end] {
				sum += v
			}
			out[f] = clamp16(sum / (end - base))
		}
	default:
		for f := range frames {
			out[f] = clamp16(interleaved[f*channels])
		}
	}

	return out
}

func clamp16(v int) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
