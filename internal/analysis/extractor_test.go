// SPDX-License-Identifier: MIT
package analysis

import (
	"errors"
	"math"
	"testing"

	"wavepool/internal/audio"
	"wavepool/internal/fft"
	"wavepool/pkg/utils"
)

const testSampleRate = 8000

func newTrack(t testing.TB, samples []int16) *audio.Track {
	t.Helper()
	track, err := audio.NewTrack(samples, testSampleRate)
	if err != nil {
		t.Fatalf("NewTrack() error = %v", err)
	}
	return track
}

func TestExtractLengthAndSign(t *testing.T) {
	t.Parallel()

	track := newTrack(t, utils.GenerateComplexWave(4410, testSampleRate))
	extractor := NewExtractor(Options{})

	for _, segments := range []int{1, 2, 7, 200, 4410} {
		env, err := extractor.Extract(track, segments)
		if err != nil {
			t.Fatalf("Extract(%d) error = %v", segments, err)
		}
		if env.Len() != segments {
			t.Errorf("Extract(%d) length = %d", segments, env.Len())
		}
		if env.WindowSize() != 4410/segments {
			t.Errorf("Extract(%d) window = %d, want %d", segments, env.WindowSize(), 4410/segments)
		}
		for i, v := range env.Values() {
			if v < 0 || math.IsNaN(v) {
				t.Errorf("Extract(%d) value %d = %v", segments, i, v)
			}
		}
	}
}

func TestExtractTruncatesRemainder(t *testing.T) {
	t.Parallel()

	// 1001 samples into 200 windows of 5: the last sample belongs to no window.
	samples := make([]int16, 1001)
	samples[1000] = math.MaxInt16

	env, err := NewExtractor(Options{}).Extract(newTrack(t, samples), 200)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if env.WindowSize() != 5 {
		t.Fatalf("WindowSize() = %d, want 5", env.WindowSize())
	}
	if env.Max() != 0 {
		t.Errorf("Max() = %v, want 0: trailing sample leaked into a window", env.Max())
	}
}

func TestExtractInvalidSegmentation(t *testing.T) {
	t.Parallel()

	track := newTrack(t, make([]int16, 10))
	extractor := NewExtractor(Options{})

	for _, segments := range []int{0, -1, 11} {
		if _, err := extractor.Extract(track, segments); !errors.Is(err, ErrInvalidSegmentation) {
			t.Errorf("Extract(%d) error = %v, want ErrInvalidSegmentation", segments, err)
		}
	}
}

func TestExtractKnownValues(t *testing.T) {
	t.Parallel()

	t.Run("constant window averages DC and empty bin", func(t *testing.T) {
		// Window of four 10s: |X0| = 40, |X1| = 0, keep 2 bins -> mean 20.
		env, err := NewExtractor(Options{}).Extract(newTrack(t, []int16{10, 10, 10, 10, 10, 10, 10, 10}), 2)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		for i, v := range env.Values() {
			if math.Abs(v-20) > 1e-9 {
				t.Errorf("value %d = %v, want 20", i, v)
			}
		}
	})

	t.Run("single sample windows keep the DC bin", func(t *testing.T) {
		env, err := NewExtractor(Options{}).Extract(newTrack(t, []int16{3, -4, 0}), 3)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		want := []float64{3, 4, 0}
		for i, v := range env.Values() {
			if v != want[i] {
				t.Errorf("value %d = %v, want %v", i, v, want[i])
			}
		}
	})
}

func TestExtractSilence(t *testing.T) {
	t.Parallel()

	env, err := NewExtractor(Options{}).Extract(newTrack(t, make([]int16, 800)), 8)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if env.Max() != 0 {
		t.Errorf("Max() = %v, want 0", env.Max())
	}
	for i, v := range env.Normalized() {
		if v != 0 {
			t.Errorf("Normalized()[%d] = %v, want 0", i, v)
		}
	}
}

func TestExtractFollowsLoudness(t *testing.T) {
	t.Parallel()

	// Alternating silent and loud blocks aligned with the windows.
	env, err := NewExtractor(Options{}).Extract(newTrack(t, utils.GenerateBursts(1000, 100)), 10)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	norm := env.Normalized()
	for i, v := range norm {
		if i%2 == 0 && v != 0 {
			t.Errorf("silent segment %d normalized to %v", i, v)
		}
		if i%2 == 1 && v != 1 {
			t.Errorf("loud segment %d normalized to %v, want 1", i, v)
		}
	}
}

func TestExtractWorkerCountDoesNotChangeResult(t *testing.T) {
	t.Parallel()

	track := newTrack(t, utils.GenerateComplexWave(9999, testSampleRate))

	serial, err := NewExtractor(Options{Workers: 1}).Extract(track, 37)
	if err != nil {
		t.Fatalf("serial Extract() error = %v", err)
	}
	parallel, err := NewExtractor(Options{Workers: 8}).Extract(track, 37)
	if err != nil {
		t.Fatalf("parallel Extract() error = %v", err)
	}

	for i := range serial.Len() {
		if serial.At(i) != parallel.At(i) {
			t.Errorf("segment %d: serial %v != parallel %v", i, serial.At(i), parallel.At(i))
		}
	}
}

func TestExtractBackendsAgree(t *testing.T) {
	t.Parallel()

	track := newTrack(t, utils.GenerateComplexWave(6000, testSampleRate))

	g, err := NewExtractor(Options{Backend: fft.Gonum, Window: fft.Hann}).Extract(track, 12)
	if err != nil {
		t.Fatal(err)
	}
	d, err := NewExtractor(Options{Backend: fft.GoDSP, Window: fft.Hann}).Extract(track, 12)
	if err != nil {
		t.Fatal(err)
	}

	for i := range g.Len() {
		if math.Abs(g.At(i)-d.At(i)) > 1e-6*g.Max() {
			t.Errorf("segment %d: gonum %v, godsp %v", i, g.At(i), d.At(i))
		}
	}
}

func TestSegmentsForFrames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		frames, perFFT, want int
	}{
		{240, 2, 120},
		{241, 2, 120},
		{1, 2, 1},
		{0, 2, 1},
		{10, 0, 10},
	}
	for _, tt := range tests {
		if got := SegmentsForFrames(tt.frames, tt.perFFT); got != tt.want {
			t.Errorf("SegmentsForFrames(%d, %d) = %d, want %d", tt.frames, tt.perFFT, got, tt.want)
		}
	}
}

func BenchmarkExtract(b *testing.B) {
	track := newTrack(b, utils.GenerateComplexWave(44100*10, 44100))
	extractor := NewExtractor(Options{})
	b.ReportAllocs()
	for b.Loop() {
		if _, err := extractor.Extract(track, 200); err != nil {
			b.Fatal(err)
		}
	}
}
