// SPDX-License-Identifier: MIT
/*
Package analysis reduces a Track to its spectral energy envelope.

The track is cut into segmentCount contiguous, non-overlapping windows of
floor(len/segmentCount) samples; trailing samples that do not fill a window
are dropped. Each window's one-sided magnitude spectrum is averaged into a
single energy value.

Windows are independent, so they are computed by a bounded pool of workers,
each owning its own FFT plan, and written back in window order.
*/
package analysis

import (
	"fmt"
	"runtime"

	"wavepool/internal/audio"
	"wavepool/internal/fft"
	applog "wavepool/internal/log"
	"wavepool/pkg/bitint"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

var logger = applog.For("Analysis")

// Options configures an Extractor.
type Options struct {
	Backend fft.Backend    // FFT implementation.
	Window  fft.WindowFunc // Taper applied before the FFT; Rectangular leaves samples untouched.
	Workers int            // Concurrent windows; <= 0 means GOMAXPROCS.
}

// Extractor computes spectral envelopes.
type Extractor struct {
	opts Options
}

// NewExtractor creates an Extractor with the given options.
func NewExtractor(opts Options) *Extractor {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Extractor{opts: opts}
}

// WindowSize returns the samples per window for a track of n samples split
// into segmentCount windows, or an error if a window would be empty.
func WindowSize(n, segmentCount int) (int, error) {
	if segmentCount < 1 {
		return 0, fmt.Errorf("%w: segment count must be positive, got %d", ErrInvalidSegmentation, segmentCount)
	}
	size := n / segmentCount
	if size == 0 {
		return 0, fmt.Errorf("%w: %d segments requested from %d samples", ErrInvalidSegmentation, segmentCount, n)
	}
	return size, nil
}

// SegmentsForFrames derives a segment count that gives each envelope value
// framesPerFFT animation frames.
func SegmentsForFrames(totalFrames, framesPerFFT int) int {
	if framesPerFFT < 1 {
		framesPerFFT = 1
	}
	return max(1, totalFrames/framesPerFFT)
}

// Extract computes one energy value per window.
func (e *Extractor) Extract(track *audio.Track, segmentCount int) (*Envelope, error) {
	samples := track.Samples()

	windowSize, err := WindowSize(len(samples), segmentCount)
	if err != nil {
		return nil, err
	}
	// Keep the first half of the symmetric spectrum, but never less than the DC bin.
	keep := max(1, windowSize/2)

	workers := min(e.opts.Workers, segmentCount)
	perWorker := (segmentCount + workers - 1) / workers
	values := make([]float64, segmentCount)

	logger.Debugf("Extracting %d segments of %d samples (%d dropped, backend %s, window %s, %d workers)",
		segmentCount, windowSize, len(samples)-windowSize*segmentCount, e.opts.Backend, e.opts.Window, workers)
	if !bitint.IsPowerOfTwo(windowSize) {
		logger.Debugf("Window of %d samples is not a power of two (next is %d), FFTs skip the radix-2 fast path",
			windowSize, bitint.NextPowerOfTwo(windowSize))
	}

	var g errgroup.Group
	g.SetLimit(workers)

	for first := 0; first < segmentCount; first += perWorker {
		last := min(first+perWorker, segmentCount)
		g.Go(func() error {
			spectrum, err := fft.NewSpectrum(e.opts.Backend, windowSize, e.opts.Window)
			if err != nil {
				return err
			}
			input := make([]float64, windowSize)
			mags := make([]float64, fft.BinCount(windowSize))

			for s := first; s < last; s++ {
				window := samples[s*windowSize : (s+1)*windowSize]
				for i, v := range window {
					input[i] = float64(v)
				}
				mags = spectrum.Magnitudes(mags, input)
				values[s] = stat.Mean(mags[:keep], nil)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Envelope{values: values, windowSize: windowSize}, nil
}
