// SPDX-License-Identifier: MIT
// Package grid builds the rectangular lattice of scene elements that the
// motion generator animates.
package grid

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

var ErrInvalidConfig = errors.New("grid: invalid configuration")

// PhaseSource yields uniform values in [0, 1).
type PhaseSource interface {
	Float64() float64
}

// NewPhaseSource returns a PCG generator seeded from seed. Identical seeds
// reproduce identical phase sequences.
func NewPhaseSource(seed uint64) PhaseSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Element is one object of the lattice.
type Element struct {
	ID    int     `json:"id" yaml:"id"`
	Row   int     `json:"row" yaml:"row"`
	Col   int     `json:"col" yaml:"col"`
	Base  r3.Vec  `json:"base" yaml:"base"`
	Phase float64 `json:"phase" yaml:"phase"`
}

// Grid is an immutable rows x cols lattice in row-major order.
type Grid struct {
	rows, cols int
	spacing    float64
	elements   []Element
}

// Build lays out rows*cols elements at (col*spacing, row*spacing, 0) and draws
// one phase in [0, 2π) per element from phases.
func Build(rows, cols int, spacing float64, phases PhaseSource) (*Grid, error) {
	switch {
	case rows < 1 || cols < 1:
		return nil, fmt.Errorf("%w: rows and cols must be >= 1, got %dx%d", ErrInvalidConfig, rows, cols)
	case !(spacing > 0) || math.IsInf(spacing, 0):
		return nil, fmt.Errorf("%w: spacing must be positive, got %v", ErrInvalidConfig, spacing)
	case phases == nil:
		return nil, fmt.Errorf("%w: phase source required", ErrInvalidConfig)
	}

	g := &Grid{
		rows:     rows,
		cols:     cols,
		spacing:  spacing,
		elements: make([]Element, 0, rows*cols),
	}
	for row := range rows {
		for col := range cols {
			g.elements = append(g.elements, Element{
				ID:    len(g.elements),
				Row:   row,
				Col:   col,
				Base:  r3.Vec{X: float64(col) * spacing, Y: float64(row) * spacing},
				Phase: wrapPhase(phases.Float64() * 2 * math.Pi),
			})
		}
	}
	return g, nil
}

// wrapPhase keeps rounding at the top of the range from producing exactly 2π.
func wrapPhase(p float64) float64 {
	if p >= 2*math.Pi || p < 0 {
		return 0
	}
	return p
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Spacing() float64 { return g.spacing }
func (g *Grid) Len() int { return len(g.elements) }
func (g *Grid) At(i int) Element { return g.elements[i] }

// Elements returns a copy of the elements in row-major order.
func (g *Grid) Elements() []Element {
	out := make([]Element, len(g.elements))
	copy(out, g.elements)
	return out
}

// Bounds returns the rest positions of the first and last elements, which
// span the whole lattice on the z = 0 plane.
func (g *Grid) Bounds() (lo, hi r3.Vec) {
	return g.elements[0].Base, g.elements[len(g.elements)-1].Base
}

// Center returns the midpoint of Bounds.
func (g *Grid) Center() r3.Vec {
	lo, hi := g.Bounds()
	return r3.Scale(0.5, r3.Add(lo, hi))
}
