// SPDX-License-Identifier: MIT
package fft

import (
	"fmt"
	"math/cmplx"
	"strings"

	dspfft "github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Backend selects the FFT implementation behind a Spectrum.
type Backend int

const (
	Gonum Backend = iota // gonum.org/v1/gonum/dsp/fourier
	GoDSP                // github.com/mjibson/go-dsp/fft
)

// String returns the config name of the backend.
func (b Backend) String() string {
	switch b {
	case Gonum:
		return "gonum"
	case GoDSP:
		return "godsp"
	default:
		return fmt.Sprintf("backend(%d)", int(b))
	}
}

// ParseBackend converts a config name (case-insensitive) to a Backend.
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "gonum":
		return Gonum, nil
	case "godsp", "go-dsp":
		return GoDSP, nil
	default:
		return Gonum, fmt.Errorf("unknown FFT backend: '%s'", name)
	}
}

// Spectrum computes the one-sided magnitude spectrum of fixed-size windows.
// A Spectrum owns scratch buffers and is not safe for concurrent use; create
// one per goroutine.
type Spectrum interface {
	// Size returns the window length in samples.
	Size() int
	// Magnitudes writes |X[k]| for k in [0, Size()/2] into dst and returns it.
	// dst is grown if it is too short. len(samples) must equal Size().
	Magnitudes(dst []float64, samples []float64) []float64
}

// NewSpectrum creates a Spectrum for windows of n samples.
func NewSpectrum(backend Backend, n int, windowType WindowFunc) (Spectrum, error) {
	if n <= 0 {
		return nil, fmt.Errorf("fft size must be positive, got %d", n)
	}

	coeffs := make([]float64, n)
	applyWindow(coeffs, windowType)

	switch backend {
	case Gonum:
		return &gonumSpectrum{
			plan:   fourier.NewFFT(n),
			input:  make([]float64, n),
			coeffs: make([]complex128, n/2+1),
			window: coeffs,
		}, nil
	case GoDSP:
		return &dspSpectrum{
			input:  make([]float64, n),
			window: coeffs,
		}, nil
	default:
		return nil, fmt.Errorf("unknown FFT backend %d", int(backend))
	}
}

// BinCount returns how many one-sided bins a window of n samples produces.
func BinCount(n int) int {
	return n/2 + 1
}

type gonumSpectrum struct {
	plan   *fourier.FFT
	input  []float64
	coeffs []complex128
	window []float64
}

func (s *gonumSpectrum) Size() int { return len(s.input) }

func (s *gonumSpectrum) Magnitudes(dst []float64, samples []float64) []float64 {
	for i := range s.input {
		s.input[i] = samples[i] * s.window[i]
	}

	s.coeffs = s.plan.Coefficients(s.coeffs, s.input)

	dst = grow(dst, len(s.coeffs))
	for i, c := range s.coeffs {
		dst[i] = cmplx.Abs(c)
	}
	return dst
}

type dspSpectrum struct {
	input  []float64
	window []float64
}

func (s *dspSpectrum) Size() int { return len(s.input) }

func (s *dspSpectrum) Magnitudes(dst []float64, samples []float64) []float64 {
	for i := range s.input {
		s.input[i] = samples[i] * s.window[i]
	}

	// go-dsp returns the full two-sided spectrum; keep the real-signal half.
	full := dspfft.FFTReal(s.input)
	bins := BinCount(len(s.input))

	dst = grow(dst, bins)
	for i := range bins {
		dst[i] = cmplx.Abs(full[i])
	}
	return dst
}

func grow(dst []float64, n int) []float64 {
	if cap(dst) < n {
		return make([]float64, n)
	}
	return dst[:n]
}
