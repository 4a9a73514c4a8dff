// SPDX-License-Identifier: MIT
package utils

import (
	"math"
	"os"
	"testing"
)

const (
	testSize       = 1024
	testSampleRate = 44100
	testFrequency  = 440.0 // A4 note
)

var testMagnitudes []float64

func TestMain(m *testing.M) {
	testMagnitudes = make([]float64, testSize)

	// Creates a "hill" with peak at position testSize/4.
	for i := range testMagnitudes {
		testMagnitudes[i] = math.Exp(-0.01 * math.Pow(float64(i-testSize/4), 2))
	}

	os.Exit(m.Run())
}

func TestRecordingTransport(t *testing.T) {
	t.Parallel()

	rt := &RecordingTransport{}
	if rt.Last() != nil {
		t.Fatalf("Last() on empty transport = %v, want nil", rt.Last())
	}

	for i := range 3 {
		if err := rt.Send(i); err != nil {
			t.Fatalf("Send(%d) error = %v", i, err)
		}
	}

	if len(rt.Sent) != 3 {
		t.Errorf("len(Sent) = %d, want 3", len(rt.Sent))
	}
	if rt.Last() != 2 {
		t.Errorf("Last() = %v, want 2", rt.Last())
	}

	if err := rt.Close(); err != nil || !rt.Closed {
		t.Errorf("Close() = %v, Closed = %v", err, rt.Closed)
	}
}

func TestGenerateComplexWave(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		size       int
		sampleRate float64
	}{
		{"Standard", 1024, 44100},
		{"Small", 16, 8000},
		{"Large", 8192, 96000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GenerateComplexWave(tt.size, tt.sampleRate)

			if len(result) != tt.size {
				t.Errorf("GenerateComplexWave() buffer size = %d, want %d", len(result), tt.size)
			}

			hasNonZero := false
			for _, v := range result {
				if v != 0 {
					hasNonZero = true
					break
				}
			}
			if !hasNonZero {
				t.Errorf("GenerateComplexWave() produced all zeros")
			}
		})
	}
}

func TestGenerateSineWave(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		size       int
		sampleRate float64
		frequency  float64
	}{
		{"A4 Note", 1024, 44100, 440.0},
		{"Middle C", 1024, 44100, 261.63},
		{"Low Sample Rate", 1024, 8000, 440.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GenerateSineWave(tt.size, tt.sampleRate, tt.frequency)

			if len(result) != tt.size {
				t.Fatalf("GenerateSineWave() buffer size = %d, want %d", len(result), tt.size)
			}

			samplesPerCycle := tt.sampleRate / tt.frequency
			crossCount := 0
			for i := 1; i < tt.size; i++ {
				if (result[i-1] < 0 && result[i] >= 0) || (result[i-1] >= 0 && result[i] < 0) {
					crossCount++
				}
			}

			// Two crossings per cycle, 20% margin for phase alignment.
			expected := float64(tt.size) / (samplesPerCycle / 2)
			if math.Abs(float64(crossCount)-expected) > 0.2*expected {
				t.Errorf("zero crossings = %d, expected approximately %.1f", crossCount, expected)
			}
		})
	}
}

func TestGenerateBursts(t *testing.T) {
	t.Parallel()

	bursts := GenerateBursts(40, 10)
	for i, v := range bursts {
		loud := (i/10)%2 == 1
		if loud && v == 0 {
			t.Errorf("sample %d is silent inside a burst", i)
		}
		if !loud && v != 0 {
			t.Errorf("sample %d = %d inside a silent block", i, v)
		}
	}

	if got := GenerateBursts(8, 0); len(got) != 8 {
		t.Errorf("GenerateBursts(8, 0) length = %d, want 8", len(got))
	}
}

func TestInterleave(t *testing.T) {
	t.Parallel()

	got := Interleave([]int16{1, 2, 3}, []int16{-1, -2})
	want := []int16{1, -1, 2, -2, 3, 0}

	if len(got) != len(want) {
		t.Fatalf("Interleave() length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Interleave()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestFindPeakBin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mags     []float64
		start    int
		end      int
		expected int
	}{
		{"Full Range", testMagnitudes, 0, testSize - 1, testSize / 4},
		{"Partial Range Start", testMagnitudes, testSize / 8, testSize - 1, testSize / 4},
		{"Negative Start", testMagnitudes, -10, testSize - 1, testSize / 4},
		{"Out of Range End", testMagnitudes, 0, testSize * 2, testSize / 4},
		{"Empty Slice", []float64{}, 0, 10, 0},
		{"Single Value", []float64{1.0}, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindPeakBin(tt.mags, tt.start, tt.end); got != tt.expected {
				t.Errorf("FindPeakBin() = %d, want %d", got, tt.expected)
			}
		})
	}

	allocs := testing.AllocsPerRun(100, func() {
		FindPeakBin(testMagnitudes, 0, len(testMagnitudes)-1)
	})
	if allocs > 0 {
		t.Errorf("FindPeakBin allocated memory: got %.1f allocs, want 0", allocs)
	}
}

func BenchmarkGenerateSineWave(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		GenerateSineWave(testSize, testSampleRate, testFrequency)
	}
}
