// SPDX-License-Identifier: MIT
// Package motion turns a normalized energy envelope into per-element,
// per-frame displacement samples.
package motion

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"wavepool/internal/grid"
)

// TimeScale converts a frame number into the phase clock t.
const TimeScale = 0.05

var (
	ErrInvalidConfig   = errors.New("motion: invalid configuration")
	ErrMissingEnvelope = errors.New("motion: envelope required")
	ErrMissingGrid     = errors.New("motion: grid required")
)

// Config holds the animation parameters. Build it with NewConfig.
type Config struct {
	Style         Style
	Exaggeration  float64
	MorphAmount   float64
	ZWaveEmphasis float64
}

// NewConfig validates and returns an animation config.
func NewConfig(style Style, exaggeration, morphAmount, zWaveEmphasis float64) (Config, error) {
	c := Config{
		Style:         style,
		Exaggeration:  exaggeration,
		MorphAmount:   morphAmount,
		ZWaveEmphasis: zWaveEmphasis,
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	switch {
	case !c.Style.Valid():
		return fmt.Errorf("%w: unknown style %d", ErrInvalidConfig, int(c.Style))
	case !(c.Exaggeration > 0) || math.IsInf(c.Exaggeration, 0):
		return fmt.Errorf("%w: exaggeration must be positive, got %v", ErrInvalidConfig, c.Exaggeration)
	case !(c.MorphAmount >= 0) || math.IsInf(c.MorphAmount, 0):
		return fmt.Errorf("%w: morph amount must be >= 0, got %v", ErrInvalidConfig, c.MorphAmount)
	case !(c.ZWaveEmphasis >= 0) || math.IsInf(c.ZWaveEmphasis, 0):
		return fmt.Errorf("%w: z-wave emphasis must be >= 0, got %v", ErrInvalidConfig, c.ZWaveEmphasis)
	}
	return nil
}

// Sample is the transform of one element at one frame. Offset is relative to
// the rest transform; Value is what gets keyed.
type Sample struct {
	ElementID int    `json:"element" yaml:"element"`
	Frame     int    `json:"frame" yaml:"frame"`
	Offset    r3.Vec `json:"offset" yaml:"offset"`
	Value     r3.Vec `json:"value" yaml:"value"`
}

// input carries everything a displacement function may read.
type input struct {
	t      float64 // frame*TimeScale + phase
	index  float64 // flat element index
	offset float64 // diagonal offset (row+col)*0.15
	energy float64 // normalized, in [0, 1]
	cfg    Config
}

type displaceFunc func(in input) r3.Vec

// displacements is indexed by Style.
var displacements = [numStyles]displaceFunc{
	ScalePulse: scalePulse,
	Wave:       wave,
	Roll:       roll,
	Mouth:      mouth,
}

func scalePulse(in input) r3.Vec {
	s := in.energy * math.Sin(in.index)
	return r3.Vec{X: s, Y: s, Z: s}
}

func wave(in input) r3.Vec {
	m := in.cfg.MorphAmount
	lateral := m * math.Sin(in.t+in.offset)
	return r3.Vec{
		X: lateral,
		Y: lateral,
		Z: in.energy*in.cfg.Exaggeration*math.Sin(in.offset+in.t) + in.cfg.ZWaveEmphasis*math.Sin(0.3*in.t),
	}
}

// roll has no per-element spatial offset; every element sways together.
func roll(in input) r3.Vec {
	lateral := in.cfg.MorphAmount * math.Sin(in.t)
	return r3.Vec{
		X: lateral,
		Y: lateral,
		Z: in.energy*in.cfg.Exaggeration + in.cfg.ZWaveEmphasis*math.Sin(in.t),
	}
}

func mouth(in input) r3.Vec {
	m := in.cfg.MorphAmount
	return r3.Vec{
		X: m * math.Sin(in.t+0.1*in.index),
		Y: m * math.Sin(1.1*in.t+0.1*in.index),
		Z: in.energy*in.cfg.Exaggeration*math.Sin(0.2*in.index) + in.cfg.ZWaveEmphasis*math.Sin(0.3*in.t),
	}
}

// Displace evaluates the style for element e at frame with normalized energy.
// It depends only on its arguments, so repeated calls return equal samples.
// A config with an unknown style is rejected with ErrInvalidConfig.
func (c Config) Displace(frame int, e grid.Element, energy float64) (Sample, error) {
	if !c.Style.Valid() {
		return Sample{}, fmt.Errorf("%w: unknown style %d", ErrInvalidConfig, int(c.Style))
	}
	return c.displace(frame, e, energy), nil
}

// displace is Displace for a config that already passed Validate.
func (c Config) displace(frame int, e grid.Element, energy float64) Sample {
	in := input{
		t:      float64(frame)*TimeScale + e.Phase,
		index:  float64(e.ID),
		offset: float64(e.Row+e.Col) * 0.15,
		energy: energy,
		cfg:    c,
	}
	offset := displacements[c.Style](in)

	rest := e.Base
	if c.Style.Channel() == ChannelScale {
		rest = r3.Vec{X: 1, Y: 1, Z: 1}
	}
	return Sample{
		ElementID: e.ID,
		Frame:     frame,
		Offset:    offset,
		Value:     r3.Add(rest, offset),
	}
}
