// SPDX-License-Identifier: MIT
// Package scene computes the pass-through hints a scene host uses to set up
// the floor, camera, element primitive and material. Nothing here is rendered.
package scene

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"wavepool/internal/grid"
)

var ErrUnknownPreset = errors.New("scene: unknown preset")

// CameraPitch is the fixed downward tilt of the camera, in radians about X.
const CameraPitch = 1.2

// Material names a surface preset for the grid elements.
type Material string

const (
	Metallic Material = "metallic"
	Shiny    Material = "shiny"
	Glass    Material = "glass"
	Rough    Material = "rough"
	Smooth   Material = "smooth"
)

// Surface holds the principled shader inputs of a material preset.
type Surface struct {
	Metallic     float64 `json:"metallic" yaml:"metallic"`
	Roughness    float64 `json:"roughness" yaml:"roughness"`
	Transmission float64 `json:"transmission" yaml:"transmission"`
}

var surfaces = map[Material]Surface{
	Metallic: {Metallic: 1, Roughness: 0.2},
	Shiny:    {Roughness: 0.1},
	Glass:    {Transmission: 1},
	Rough:    {Roughness: 0.9},
	Smooth:   {Roughness: 0.4},
}

// floorSurface is the black glass floor finish.
var floorSurface = Surface{Metallic: 1, Roughness: 0.05}

func ParseMaterial(name string) (Material, error) {
	m := Material(strings.ToLower(strings.TrimSpace(name)))
	if m == "" {
		return Shiny, nil
	}
	if _, ok := surfaces[m]; !ok {
		return Shiny, fmt.Errorf("%w: material '%s'", ErrUnknownPreset, name)
	}
	return m, nil
}

// Mesh names the primitive instanced at every grid element.
type Mesh string

const (
	Cube      Mesh = "cube"
	UVSphere  Mesh = "uv_sphere"
	IcoSphere Mesh = "ico_sphere"
	Cylinder  Mesh = "cylinder"
	Cone      Mesh = "cone"
	Torus     Mesh = "torus"
	Plane     Mesh = "plane"
)

var meshes = []Mesh{Cube, UVSphere, IcoSphere, Cylinder, Cone, Torus, Plane}

func ParseMesh(name string) (Mesh, error) {
	key := Mesh(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_"))
	if key == "" {
		return IcoSphere, nil
	}
	for _, m := range meshes {
		if m == key {
			return m, nil
		}
	}
	return IcoSphere, fmt.Errorf("%w: mesh '%s'", ErrUnknownPreset, name)
}

// Options are the user-facing scene settings.
type Options struct {
	FloorSize  float64
	FloorDepth float64
	Material   Material
	Color      [3]float64
	Mesh       Mesh
}

// DefaultOptions returns the stock scene: a wide black glass floor below blue
// shiny ico spheres.
func DefaultOptions() Options {
	return Options{
		FloorSize:  1000,
		FloorDepth: -10,
		Material:   Shiny,
		Color:      [3]float64{0.2, 0.6, 1.0},
		Mesh:       IcoSphere,
	}
}

func (o Options) Validate() error {
	if !(o.FloorSize > 0) || math.IsInf(o.FloorSize, 0) {
		return fmt.Errorf("scene: floor size must be positive, got %v", o.FloorSize)
	}
	if _, ok := surfaces[o.Material]; !ok {
		return fmt.Errorf("%w: material '%s'", ErrUnknownPreset, o.Material)
	}
	if _, err := ParseMesh(string(o.Mesh)); err != nil || o.Mesh == "" {
		return fmt.Errorf("%w: mesh '%s'", ErrUnknownPreset, o.Mesh)
	}
	for i, c := range o.Color {
		if c < 0 || c > 1 || math.IsNaN(c) {
			return fmt.Errorf("scene: color channel %d must be in [0, 1], got %v", i, c)
		}
	}
	return nil
}

type Camera struct {
	Location r3.Vec `json:"location" yaml:"location"`
	Rotation r3.Vec `json:"rotation" yaml:"rotation"`
}

type Floor struct {
	Size    float64 `json:"size" yaml:"size"`
	Depth   float64 `json:"depth" yaml:"depth"`
	Surface Surface `json:"surface" yaml:"surface"`
}

type Element struct {
	Mesh     Mesh       `json:"mesh" yaml:"mesh"`
	Material Material   `json:"material" yaml:"material"`
	Surface  Surface    `json:"surface" yaml:"surface"`
	Color    [3]float64 `json:"color" yaml:"color"`
}

// Hints describes the scene around the animated grid.
type Hints struct {
	Rows    int     `json:"rows" yaml:"rows"`
	Cols    int     `json:"cols" yaml:"cols"`
	Spacing float64 `json:"spacing" yaml:"spacing"`
	Camera  Camera  `json:"camera" yaml:"camera"`
	Floor   Floor   `json:"floor" yaml:"floor"`
	Element Element `json:"element" yaml:"element"`
}

// ForGrid places the camera above the grid center, raised by the larger grid
// dimension and pitched down by CameraPitch.
func ForGrid(g *grid.Grid, opts Options) (Hints, error) {
	if g == nil {
		return Hints{}, errors.New("scene: grid required")
	}
	if err := opts.Validate(); err != nil {
		return Hints{}, err
	}

	center := g.Center()
	return Hints{
		Rows:    g.Rows(),
		Cols:    g.Cols(),
		Spacing: g.Spacing(),
		Camera: Camera{
			Location: r3.Vec{X: center.X, Y: center.Y, Z: float64(max(g.Cols(), g.Rows()))},
			Rotation: r3.Vec{X: CameraPitch},
		},
		Floor: Floor{
			Size:    opts.FloorSize,
			Depth:   opts.FloorDepth,
			Surface: floorSurface,
		},
		Element: Element{
			Mesh:     opts.Mesh,
			Material: opts.Material,
			Surface:  surfaces[opts.Material],
			Color:    opts.Color,
		},
	}, nil
}
