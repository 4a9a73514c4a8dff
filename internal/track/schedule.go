// SPDX-License-Identifier: MIT
package track

import (
	"slices"

	"wavepool/internal/motion"
	"wavepool/internal/scene"
	"wavepool/internal/timeline"
)

// ElementTrack is the serialized form of one element's keyframes.
type ElementTrack struct {
	Element   int        `json:"element" yaml:"element"`
	Keyframes []Keyframe `json:"keyframes" yaml:"keyframes"`
}

// Schedule is the artifact handed to the scene host.
type Schedule struct {
	StartFrame       int            `json:"start_frame" yaml:"start_frame"`
	EndFrame         int            `json:"end_frame" yaml:"end_frame"`
	FramesPerSegment int            `json:"frames_per_segment" yaml:"frames_per_segment"`
	FrameRate        float64        `json:"frame_rate" yaml:"frame_rate"`
	Style            motion.Style   `json:"style" yaml:"style"`
	Channel          motion.Channel `json:"channel" yaml:"channel"`
	Scene            scene.Hints    `json:"scene" yaml:"scene"`
	Tracks           []ElementTrack `json:"tracks" yaml:"tracks"`
}

// NewSchedule assembles a schedule with tracks in ascending element order.
func NewSchedule(tl timeline.Timeline, cfg motion.Config, tracks *Tracks, hints scene.Hints, frameRate float64) *Schedule {
	s := &Schedule{
		StartFrame:       tl.StartFrame,
		EndFrame:         tl.EndFrame,
		FramesPerSegment: tl.FramesPerSegment,
		FrameRate:        frameRate,
		Style:            cfg.Style,
		Channel:          cfg.Style.Channel(),
		Scene:            hints,
	}
	if tracks == nil {
		return s
	}
	s.Tracks = make([]ElementTrack, 0, tracks.Len())
	for _, id := range tracks.ids {
		s.Tracks = append(s.Tracks, ElementTrack{Element: id, Keyframes: tracks.For(id)})
	}
	return s
}

// KeyedFrames returns the distinct keyed frames in ascending order.
func (s *Schedule) KeyedFrames() []int {
	seen := make(map[int]struct{})
	var frames []int
	for _, et := range s.Tracks {
		for _, kf := range et.Keyframes {
			if _, ok := seen[kf.Frame]; !ok {
				seen[kf.Frame] = struct{}{}
				frames = append(frames, kf.Frame)
			}
		}
	}
	slices.Sort(frames)
	return frames
}
