// SPDX-License-Identifier: MIT
package motion

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"wavepool/internal/analysis"
	"wavepool/internal/audio"
	"wavepool/internal/grid"
	"wavepool/internal/timeline"
)

type zeroPhases struct{}

func (zeroPhases) Float64() float64 { return 0 }

func mustConfig(t testing.TB, style Style, e, m, zw float64) Config {
	t.Helper()
	cfg, err := NewConfig(style, e, m, zw)
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}
	return cfg
}

func mustDisplace(t testing.TB, cfg Config, frame int, e grid.Element, energy float64) Sample {
	t.Helper()
	s, err := cfg.Displace(frame, e, energy)
	if err != nil {
		t.Fatalf("Displace() error = %v", err)
	}
	return s
}

func mustEnvelope(t testing.TB, values ...float64) *analysis.Envelope {
	t.Helper()
	env, err := analysis.NewEnvelope(values, 1)
	if err != nil {
		t.Fatalf("NewEnvelope() error = %v", err)
	}
	return env
}

func mustTimeline(t testing.TB, samples, rate int, frameRate float64, env *analysis.Envelope) timeline.Timeline {
	t.Helper()
	track, err := audio.NewTrack(make([]int16, samples), rate)
	if err != nil {
		t.Fatalf("NewTrack() error = %v", err)
	}
	tl, err := timeline.Schedule(track, frameRate, env)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	return tl
}

func TestWaveEndToEnd(t *testing.T) {
	t.Parallel()

	lattice, err := grid.Build(2, 2, 1.0, zeroPhases{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	env := mustEnvelope(t, 0, 10)
	// Four samples at 24Hz and 24fps: four frames, two per segment.
	tl := mustTimeline(t, 4, 24, 24, env)
	if tl.EndFrame != 4 || tl.FramesPerSegment != 2 {
		t.Fatalf("timeline = %+v, want 4 frames, 2 per segment", tl)
	}

	samples, err := NewGenerator(0).Generate(env, tl, lattice, mustConfig(t, Wave, 1, 0, 0))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(samples) != 8 {
		t.Fatalf("len(samples) = %d, want 8", len(samples))
	}

	for _, s := range samples[:4] {
		if s.Frame != 1 {
			t.Fatalf("first segment sample at frame %d, want 1", s.Frame)
		}
		if s.Offset.Z != 0 {
			t.Errorf("frame 1 element %d z = %v, want 0", s.ElementID, s.Offset.Z)
		}
	}

	const tAt3 = 3 * TimeScale
	want := map[int]float64{
		0: math.Sin(0 + tAt3),   // row 0, col 0
		3: math.Sin(0.3 + tAt3), // row 1, col 1
	}
	for _, s := range samples[4:] {
		if s.Frame != 3 {
			t.Fatalf("second segment sample at frame %d, want 3", s.Frame)
		}
		if s.Offset.X != 0 || s.Offset.Y != 0 {
			t.Errorf("element %d lateral offset = (%v, %v), want 0", s.ElementID, s.Offset.X, s.Offset.Y)
		}
		if z, ok := want[s.ElementID]; ok && math.Abs(s.Offset.Z-z) > 1e-12 {
			t.Errorf("element %d z = %v, want %v", s.ElementID, s.Offset.Z, z)
		}
		base := lattice.At(s.ElementID).Base
		if got := r3.Sub(s.Value, base); got != s.Offset {
			t.Errorf("element %d value %v is not base %v + offset %v", s.ElementID, s.Value, base, s.Offset)
		}
	}
}

func TestStyleFormulas(t *testing.T) {
	t.Parallel()

	e := grid.Element{ID: 5, Row: 1, Col: 2, Base: r3.Vec{X: 1, Y: 0.5}, Phase: 0.4}
	const (
		frame  = 7
		energy = 0.8
		exag   = 2.5
		morph  = 0.12
		zw     = 0.15
	)
	tt := frame*TimeScale + 0.4
	o := 3 * 0.15

	tests := []struct {
		style Style
		want  r3.Vec
	}{
		{ScalePulse, r3.Vec{
			X: energy * math.Sin(5),
			Y: energy * math.Sin(5),
			Z: energy * math.Sin(5),
		}},
		{Wave, r3.Vec{
			X: morph * math.Sin(tt+o),
			Y: morph * math.Sin(tt+o),
			Z: energy*exag*math.Sin(o+tt) + zw*math.Sin(0.3*tt),
		}},
		{Roll, r3.Vec{
			X: morph * math.Sin(tt),
			Y: morph * math.Sin(tt),
			Z: energy*exag + zw*math.Sin(tt),
		}},
		{Mouth, r3.Vec{
			X: morph * math.Sin(tt+0.5),
			Y: morph * math.Sin(1.1*tt+0.5),
			Z: energy*exag*math.Sin(1.0) + zw*math.Sin(0.3*tt),
		}},
	}
	for _, tc := range tests {
		t.Run(tc.style.String(), func(t *testing.T) {
			t.Parallel()
			got := mustDisplace(t, mustConfig(t, tc.style, exag, morph, zw), frame, e, energy)
			if d := r3.Norm(r3.Sub(got.Offset, tc.want)); d > 1e-12 {
				t.Errorf("Offset = %v, want %v", got.Offset, tc.want)
			}
			if got.ElementID != 5 || got.Frame != frame {
				t.Errorf("sample tagged (%d, %d), want (5, %d)", got.ElementID, got.Frame, frame)
			}
		})
	}
}

func TestScalePulseKeysAroundUnitScale(t *testing.T) {
	t.Parallel()

	e := grid.Element{ID: 1, Base: r3.Vec{X: 3, Y: 4}}
	s := mustDisplace(t, mustConfig(t, ScalePulse, 1, 0, 0), 1, e, 1)
	want := 1 + math.Sin(1)
	if s.Value != (r3.Vec{X: want, Y: want, Z: want}) {
		t.Errorf("Value = %v, want uniform %v", s.Value, want)
	}
	if ScalePulse.Channel() != ChannelScale || Wave.Channel() != ChannelLocation {
		t.Error("unexpected channel mapping")
	}
}

func TestRollMovesLaterallyInLockstep(t *testing.T) {
	t.Parallel()

	lattice, _ := grid.Build(3, 3, 0.5, zeroPhases{})
	cfg := mustConfig(t, Roll, 2.5, 0.12, 0.15)

	first := mustDisplace(t, cfg, 9, lattice.At(0), 0.5).Offset
	for _, e := range lattice.Elements()[1:] {
		got := mustDisplace(t, cfg, 9, e, 0.5).Offset
		if got != first {
			t.Errorf("element %d offset %v differs from element 0 %v", e.ID, got, first)
		}
	}
}

func TestSilenceProducesNoEnergyDisplacement(t *testing.T) {
	t.Parallel()

	lattice, _ := grid.Build(2, 3, 0.5, grid.NewPhaseSource(1))
	env := mustEnvelope(t, 0, 0, 0)
	tl := mustTimeline(t, 8000, 8000, 24, env)

	for _, style := range Styles() {
		samples, err := NewGenerator(2).Generate(env, tl, lattice, mustConfig(t, style, 2.5, 0, 0))
		if err != nil {
			t.Fatalf("%s: Generate() error = %v", style, err)
		}
		for _, s := range samples {
			if s.Offset.X != 0 || s.Offset.Y != 0 || s.Offset.Z != 0 {
				t.Fatalf("%s: silent sample %+v has nonzero offset", style, s)
			}
		}
	}
}

func TestDisplaceIsIdempotent(t *testing.T) {
	t.Parallel()

	e := grid.Element{ID: 3, Row: 1, Col: 1, Base: r3.Vec{X: 0.5, Y: 0.5}, Phase: 1.7}
	for _, style := range Styles() {
		cfg := mustConfig(t, style, 2.5, 0.12, 0.15)
		a := mustDisplace(t, cfg, 42, e, 0.3)
		b := mustDisplace(t, cfg, 42, e, 0.3)
		if a != b {
			t.Errorf("%s: Displace not idempotent: %+v vs %+v", style, a, b)
		}
	}
}

func TestDisplaceRejectsUnknownStyle(t *testing.T) {
	t.Parallel()

	e := grid.Element{ID: 0}
	for _, style := range []Style{numStyles, Style(9), Style(-1)} {
		cfg := Config{Style: style, Exaggeration: 1}
		if _, err := cfg.Displace(1, e, 0.5); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Displace(style %d) error = %v, want ErrInvalidConfig", int(style), err)
		}
	}
}

func TestGenerateOrderingAndDeterminism(t *testing.T) {
	t.Parallel()

	env := mustEnvelope(t, 1, 4, 2, 8, 0)
	tl := mustTimeline(t, 8000*3, 8000, 24, env)
	cfg := mustConfig(t, Mouth, 2.5, 0.12, 0.15)

	encode := func(workers int) []byte {
		lattice, _ := grid.Build(4, 5, 0.5, grid.NewPhaseSource(99))
		samples, err := NewGenerator(workers).Generate(env, tl, lattice, cfg)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		for i := 1; i < len(samples); i++ {
			prev, cur := samples[i-1], samples[i]
			if cur.Frame < prev.Frame || (cur.Frame == prev.Frame && cur.ElementID <= prev.ElementID) {
				t.Fatalf("samples out of order at %d: %+v after %+v", i, cur, prev)
			}
		}
		b, err := json.Marshal(samples)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		return b
	}

	a, b := encode(1), encode(7)
	if !bytes.Equal(a, b) {
		t.Error("identical seeds produced different encoded samples")
	}
}

func TestGenerateErrors(t *testing.T) {
	t.Parallel()

	lattice, _ := grid.Build(1, 1, 1, zeroPhases{})
	env := mustEnvelope(t, 1)
	tl := mustTimeline(t, 100, 100, 24, env)
	cfg := mustConfig(t, Wave, 1, 0, 0)
	gen := NewGenerator(1)

	if _, err := gen.Generate(nil, tl, lattice, cfg); !errors.Is(err, ErrMissingEnvelope) {
		t.Errorf("nil envelope error = %v, want ErrMissingEnvelope", err)
	}
	if _, err := gen.Generate(env, tl, nil, cfg); !errors.Is(err, ErrMissingGrid) {
		t.Errorf("nil grid error = %v, want ErrMissingGrid", err)
	}
	if _, err := gen.Generate(env, tl, lattice, Config{Style: Wave}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("zero config error = %v, want ErrInvalidConfig", err)
	}
}

func TestNewConfigValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		style           Style
		exag, morph, zw float64
	}{
		{"zero exaggeration", Wave, 0, 0, 0},
		{"negative morph", Wave, 1, -0.1, 0},
		{"negative z-wave", Wave, 1, 0, -1},
		{"nan exaggeration", Wave, math.NaN(), 0, 0},
		{"unknown style", Style(17), 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewConfig(tt.style, tt.exag, tt.morph, tt.zw); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("NewConfig() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestEveryStyleHasDisplacement(t *testing.T) {
	t.Parallel()

	for _, s := range Styles() {
		if displacements[s] == nil {
			t.Errorf("style %s has no displacement function", s)
		}
		if s.Description() == "" {
			t.Errorf("style %s has no description", s)
		}
	}
}

func TestParseStyle(t *testing.T) {
	t.Parallel()

	tests := map[string]Style{
		"wave":        Wave,
		"WAVE":        Wave,
		"scale_pulse": ScalePulse,
		"scale-pulse": ScalePulse,
		"Roll":        Roll,
		" mouth ":     Mouth,
	}
	for name, want := range tests {
		got, err := ParseStyle(name)
		if err != nil || got != want {
			t.Errorf("ParseStyle(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParseStyle("spin"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("ParseStyle(spin) error = %v, want ErrInvalidConfig", err)
	}

	var s Style
	if err := s.UnmarshalText([]byte("roll")); err != nil || s != Roll {
		t.Errorf("UnmarshalText(roll) = %v, %v", s, err)
	}
	if b, _ := Mouth.MarshalText(); string(b) != "mouth" {
		t.Errorf("MarshalText() = %q", b)
	}
}

func BenchmarkGenerate(b *testing.B) {
	values := make([]float64, 200)
	for i := range values {
		values[i] = float64(i % 17)
	}
	env := mustEnvelope(b, values...)
	tl := mustTimeline(b, 44100*10, 44100, 24, env)
	lattice, _ := grid.Build(10, 10, 0.5, grid.NewPhaseSource(1))
	cfg := mustConfig(b, Wave, 2.5, 0.12, 0.15)
	gen := NewGenerator(0)

	b.ReportAllocs()
	for b.Loop() {
		if _, err := gen.Generate(env, tl, lattice, cfg); err != nil {
			b.Fatal(err)
		}
	}
}
