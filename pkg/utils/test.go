// SPDX-License-Identifier: MIT
//
// Package utils holds deterministic signal generators and test doubles shared
// by the package tests.
package utils

import (
	"math"
	"sync"
)

// RecordingTransport captures everything sent to it instead of transmitting.
type RecordingTransport struct {
	mu     sync.Mutex
	Sent   []any
	Closed bool
}

// Send stores the data for later inspection.
func (r *RecordingTransport) Send(data any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sent = append(r.Sent, data)
	return nil
}

// Close marks the transport closed.
func (r *RecordingTransport) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Closed = true
	return nil
}

// Last returns the most recent payload, or nil if nothing was sent.
func (r *RecordingTransport) Last() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Sent) == 0 {
		return nil
	}
	return r.Sent[len(r.Sent)-1]
}

// GenerateComplexWave returns a 440Hz fundamental plus two harmonics at 90% of full scale.
func GenerateComplexWave(size int, sampleRate float64) []int16 {
	buffer := make([]int16, size)
	for i := range buffer {
		tm := float64(i) / sampleRate
		signal := math.Sin(2*math.Pi*440*tm)*0.5 +
			math.Sin(2*math.Pi*880*tm)*0.3 +
			math.Sin(2*math.Pi*1320*tm)*0.2
		buffer[i] = int16(signal * math.MaxInt16 * 0.9)
	}
	return buffer
}

// GenerateSineWave returns a sine at frequency Hz and 90% of full scale.
func GenerateSineWave(size int, sampleRate, frequency float64) []int16 {
	buffer := make([]int16, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = int16(math.Sin(2*math.Pi*frequency*t) * math.MaxInt16 * 0.9)
	}
	return buffer
}

// GenerateBursts returns size samples split into blocks of blockLen that
// alternate between silence and a full-scale square wave, starting silent.
func GenerateBursts(size, blockLen int) []int16 {
	buffer := make([]int16, size)
	if blockLen <= 0 {
		return buffer
	}
	for i := range buffer {
		if (i/blockLen)%2 == 0 {
			continue
		}
		if i%2 == 0 {
			buffer[i] = math.MaxInt16
		} else {
			buffer[i] = -math.MaxInt16
		}
	}
	return buffer
}

// Interleave zips two mono channels into one stereo buffer. The shorter
// channel is padded with zeros.
func Interleave(left, right []int16) []int16 {
	frames := max(len(left), len(right))
	out := make([]int16, frames*2)
	for i := range frames {
		if i < len(left) {
			out[2*i] = left[i]
		}
		if i < len(right) {
			out[2*i+1] = right[i]
		}
	}
	return out
}

// FindPeakBin returns the index of the largest magnitude in [startBin, endBin].
func FindPeakBin(magnitudes []float64, startBin, endBin int) int {
	if len(magnitudes) == 0 {
		return 0
	}

	if startBin < 0 {
		startBin = 0
	}

	if endBin >= len(magnitudes) {
		endBin = len(magnitudes) - 1
	}

	peakBin := startBin
	peakValue := magnitudes[startBin]

	for bin := startBin + 1; bin <= endBin; bin++ {
		if magnitudes[bin] > peakValue {
			peakValue = magnitudes[bin]
			peakBin = bin
		}
	}

	return peakBin
}
