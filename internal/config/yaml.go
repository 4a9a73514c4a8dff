// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	applog "wavepool/internal/log"
)

var logger = applog.For("Config")

// Config represents the application configuration, loaded from YAML.
type Config struct {
	Debug     bool            `yaml:"debug"`     // Force debug logging.
	LogLevel  string          `yaml:"log_level"` // debug, info, warn or error.
	Audio     AudioConfig     `yaml:"audio"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Timeline  TimelineConfig  `yaml:"timeline"`
	Grid      GridConfig      `yaml:"grid"`
	Animation AnimationConfig `yaml:"animation"`
	Scene     SceneConfig     `yaml:"scene"`
	Output    OutputConfig    `yaml:"output"`
}

// AudioConfig controls how input files become a mono PCM track.
type AudioConfig struct {
	Downmix    string `yaml:"downmix"`     // left or average.
	Transcoder string `yaml:"transcoder"`  // ffmpeg, or native for in-process mp3/ogg.
	FFmpegPath string `yaml:"ffmpeg_path"` // ffmpeg binary, resolved through PATH when bare.
}

// AnalysisConfig controls envelope extraction.
type AnalysisConfig struct {
	SegmentCount int     `yaml:"segment_count"`  // Envelope length.
	FramesPerFFT int     `yaml:"frames_per_fft"` // When > 0, derive the envelope length from the timeline instead.
	Window       string  `yaml:"window"`         // FFT window function name.
	Backend      string  `yaml:"backend"`        // gonum or godsp.
	Workers      int     `yaml:"workers"`        // Parallel windows; 0 uses GOMAXPROCS.
	Gate         float64 `yaml:"gate"`           // Noise gate in [0, 1] of the envelope peak; 0 disables.
}

type TimelineConfig struct {
	FrameRate float64 `yaml:"frame_rate"`
}

// GridConfig describes the element lattice.
type GridConfig struct {
	Rows    int     `yaml:"rows"`
	Cols    int     `yaml:"cols"`
	Spacing float64 `yaml:"spacing"`
	Seed    uint64  `yaml:"seed"` // Phase generator seed; equal seeds reproduce runs.
}

// AnimationConfig selects and tunes the motion style.
type AnimationConfig struct {
	Style         string  `yaml:"style"`           // scale_pulse, wave, roll or mouth.
	Exaggeration  float64 `yaml:"exaggeration"`    // Energy-driven lift, > 0.
	MorphAmount   float64 `yaml:"morph_amount"`    // Lateral sway, >= 0.
	ZWaveEmphasis float64 `yaml:"z_wave_emphasis"` // Energy-independent ripple, >= 0.
}

// SceneConfig is passed through to the scene host.
type SceneConfig struct {
	FloorSize  float64    `yaml:"floor_size"`
	FloorDepth float64    `yaml:"floor_depth"`
	Material   string     `yaml:"material"`
	Color      [3]float64 `yaml:"color"`
	Mesh       string     `yaml:"mesh"`
}

// OutputConfig selects where the schedule goes.
type OutputConfig struct {
	Sink             string        `yaml:"sink"`               // file, websocket, udp or log.
	Path             string        `yaml:"path"`               // File sink target; empty derives <input>.schedule.json.
	WebSocketAddr    string        `yaml:"websocket_addr"`     // Listen address of the websocket sink.
	UDPTargetAddress string        `yaml:"udp_target_address"` // Target of the udp sink.
	UDPSendInterval  time.Duration `yaml:"udp_send_interval"`  // Pause between streamed frames.
}

// LoadConfig loads configuration from a YAML file specified by path and
// validates it. See Load for how path is resolved.
func LoadConfig(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads configuration without validating it, so callers can layer
// further overrides (command line flags) before calling Validate. If path is
// empty, it looks for "config.yaml" in the working directory and falls back
// to the built-in defaults. Environment overrides are applied after the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		logger.Debugf("loaded %s", path)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides reads WAVEPOOL_* variables. A variable that is set but
// cannot be parsed is an error rather than silently ignored.
func (cfg *Config) applyEnvOverrides() error {
	var errs []error

	str := func(name string, dst *string) {
		if val, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = val
			logger.Debugf("overriding %s from env: %s", name, val)
		}
	}
	parsed := func(name string, parse func(string) error) {
		val, ok := os.LookupEnv(EnvPrefix + name)
		if !ok {
			return
		}
		if err := parse(val); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s%s=%q: %v", ErrInvalidConfig, EnvPrefix, name, val, err))
			return
		}
		logger.Debugf("overriding %s from env: %s", name, val)
	}
	intVar := func(name string, dst *int) {
		parsed(name, func(s string) (err error) { *dst, err = strconv.Atoi(s); return })
	}
	floatVar := func(name string, dst *float64) {
		parsed(name, func(s string) (err error) { *dst, err = strconv.ParseFloat(s, 64); return })
	}

	parsed("DEBUG", func(s string) (err error) { cfg.Debug, err = strconv.ParseBool(s); return })
	str("LOG_LEVEL", &cfg.LogLevel)

	str("DOWNMIX", &cfg.Audio.Downmix)
	str("TRANSCODER", &cfg.Audio.Transcoder)
	str("FFMPEG_PATH", &cfg.Audio.FFmpegPath)

	intVar("SEGMENT_COUNT", &cfg.Analysis.SegmentCount)
	intVar("FRAMES_PER_FFT", &cfg.Analysis.FramesPerFFT)
	str("WINDOW", &cfg.Analysis.Window)
	str("BACKEND", &cfg.Analysis.Backend)
	intVar("WORKERS", &cfg.Analysis.Workers)
	floatVar("GATE", &cfg.Analysis.Gate)

	floatVar("FRAME_RATE", &cfg.Timeline.FrameRate)

	intVar("ROWS", &cfg.Grid.Rows)
	intVar("COLS", &cfg.Grid.Cols)
	floatVar("SPACING", &cfg.Grid.Spacing)
	parsed("SEED", func(s string) (err error) { cfg.Grid.Seed, err = strconv.ParseUint(s, 10, 64); return })

	str("STYLE", &cfg.Animation.Style)
	floatVar("EXAGGERATION", &cfg.Animation.Exaggeration)
	floatVar("MORPH_AMOUNT", &cfg.Animation.MorphAmount)
	floatVar("Z_WAVE_EMPHASIS", &cfg.Animation.ZWaveEmphasis)

	str("OUTPUT_SINK", &cfg.Output.Sink)
	str("OUTPUT_PATH", &cfg.Output.Path)
	str("WEBSOCKET_ADDR", &cfg.Output.WebSocketAddr)
	str("UDP_TARGET_ADDRESS", &cfg.Output.UDPTargetAddress)
	parsed("UDP_SEND_INTERVAL", func(s string) (err error) { cfg.Output.UDPSendInterval, err = time.ParseDuration(s); return })

	return errors.Join(errs...)
}
