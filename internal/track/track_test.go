// SPDX-License-Identifier: MIT
package track

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"wavepool/internal/motion"
	"wavepool/internal/scene"
	"wavepool/internal/timeline"
)

func sample(id, frame int, z float64) motion.Sample {
	off := r3.Vec{Z: z}
	return motion.Sample{ElementID: id, Frame: frame, Offset: off, Value: off}
}

func TestBuilderGroupsByElement(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	if err := b.Accumulate([]motion.Sample{sample(0, 1, 0.1), sample(1, 1, 0.2), sample(0, 3, 0.3)}); err != nil {
		t.Fatalf("Accumulate() error = %v", err)
	}
	if err := b.Accumulate([]motion.Sample{sample(1, 3, 0.4)}); err != nil {
		t.Fatalf("Accumulate() error = %v", err)
	}
	tracks := b.Build()

	if got := tracks.ElementIDs(); !slices.Equal(got, []int{0, 1}) {
		t.Fatalf("ElementIDs() = %v, want [0 1]", got)
	}
	if tracks.Keyframes() != 4 {
		t.Errorf("Keyframes() = %d, want 4", tracks.Keyframes())
	}

	kfs := tracks.For(0)
	if len(kfs) != 2 || kfs[0].Frame != 1 || kfs[1].Frame != 3 || kfs[1].Offset.Z != 0.3 {
		t.Errorf("For(0) = %+v", kfs)
	}
	if tracks.For(42) != nil {
		t.Error("For(unknown) returned keyframes")
	}
}

func TestBuilderRetainsDuplicates(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	_ = b.Accumulate([]motion.Sample{sample(0, 5, 1), sample(0, 5, 2)})
	kfs := b.Build().For(0)
	if len(kfs) != 2 || kfs[0].Offset.Z != 1 || kfs[1].Offset.Z != 2 {
		t.Errorf("duplicate frame keyframes = %+v, want both in emission order", kfs)
	}
}

func TestBuilderSealed(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	first := b.Build()
	if err := b.Accumulate([]motion.Sample{sample(0, 1, 0)}); !errors.Is(err, ErrSealed) {
		t.Errorf("Accumulate after Build error = %v, want ErrSealed", err)
	}
	if first.Len() != 0 || b.Build().Len() != 0 {
		t.Error("sealed builder gained tracks")
	}
}

func TestTracksForIsCopy(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	_ = b.Accumulate([]motion.Sample{sample(0, 1, 1)})
	tracks := b.Build()
	kfs := tracks.For(0)
	kfs[0].Frame = 99
	if tracks.For(0)[0].Frame != 1 {
		t.Error("tracks mutated through For()")
	}
}

func TestNewSchedule(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	_ = b.Accumulate([]motion.Sample{sample(1, 1, 0), sample(0, 1, 0), sample(1, 5, 0), sample(0, 5, 0)})

	cfg, err := motion.NewConfig(motion.ScalePulse, 1, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	tl := timeline.Timeline{StartFrame: 1, EndFrame: 8, FramesPerSegment: 4}
	s := NewSchedule(tl, cfg, b.Build(), scene.Hints{Rows: 1, Cols: 2}, 24)

	if s.StartFrame != 1 || s.EndFrame != 8 || s.FramesPerSegment != 4 || s.FrameRate != 24 {
		t.Errorf("schedule header = %+v", s)
	}
	if s.Channel != motion.ChannelScale {
		t.Errorf("Channel = %q, want scale", s.Channel)
	}
	if len(s.Tracks) != 2 || s.Tracks[0].Element != 0 || s.Tracks[1].Element != 1 {
		t.Errorf("tracks not in element order: %+v", s.Tracks)
	}
	if got := s.KeyedFrames(); !slices.Equal(got, []int{1, 5}) {
		t.Errorf("KeyedFrames() = %v, want [1 5]", got)
	}
}

func TestScheduleEncodesStyleByName(t *testing.T) {
	t.Parallel()

	cfg, _ := motion.NewConfig(motion.Roll, 1, 0, 0)
	s := NewSchedule(timeline.Timeline{StartFrame: 1, EndFrame: 1, FramesPerSegment: 1}, cfg, nil, scene.Hints{}, 30)

	js, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	var decoded struct {
		Style   string `json:"style"`
		Channel string `json:"channel"`
	}
	if err := json.Unmarshal(js, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Style != "roll" || decoded.Channel != "location" {
		t.Errorf("json style/channel = %q/%q", decoded.Style, decoded.Channel)
	}

	ys, err := yaml.Marshal(s)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	var back Schedule
	if err := yaml.Unmarshal(ys, &back); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if back.Style != motion.Roll || back.FrameRate != 30 {
		t.Errorf("yaml round trip = %+v", back)
	}
}
