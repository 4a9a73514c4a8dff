// SPDX-License-Identifier: MIT
package bitint

import (
	"fmt"
	"testing"
)

func TestNextPowerOfTwo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n        int
		expected int
	}{
		{-10, 1},       // Negative number
		{0, 1},         // Zero
		{1, 1},         // One sample window
		{8, 8},         // Already power of two
		{10, 16},       // Not power of two
		{2000, 2048},   // 16000 samples in 8 segments
		{22050, 32768}, // Half a second at 44.1kHz
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d→%d", tt.n, tt.expected), func(t *testing.T) {
			if result := NextPowerOfTwo(tt.n); result != tt.expected {
				t.Errorf("NextPowerOfTwo(%d) = %d, expected %d", tt.n, result, tt.expected)
			}
		})
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n        int
		expected bool
	}{
		{-8, false},
		{0, false},
		{1, true},
		{7, false},
		{1024, true},
		{2000, false},
	}

	for _, tt := range tests {
		if result := IsPowerOfTwo(tt.n); result != tt.expected {
			t.Errorf("IsPowerOfTwo(%d) = %v, expected %v", tt.n, result, tt.expected)
		}
	}
}

func TestNextPowerOfTwoIsPowerOfTwo(t *testing.T) {
	t.Parallel()

	for n := 1; n < 5000; n++ {
		p := NextPowerOfTwo(n)
		if !IsPowerOfTwo(p) || p < n || p >= 2*n {
			t.Fatalf("NextPowerOfTwo(%d) = %d", n, p)
		}
	}
}

func BenchmarkNextPowerOfTwo(b *testing.B) {
	sizes := []int{441, 2000, 4096, 22050}
	i := 0
	for b.Loop() {
		_ = NextPowerOfTwo(sizes[i%len(sizes)])
		i++
	}
}
