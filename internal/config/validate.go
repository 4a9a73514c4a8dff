// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
	"strings"

	"wavepool/internal/analysis"
	"wavepool/internal/audio"
	"wavepool/internal/fft"
	applog "wavepool/internal/log"
	"wavepool/internal/motion"
	"wavepool/internal/scene"
	"wavepool/internal/transport"
)

// Validate checks every section. All problems are reported together; each
// wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}
	check := func(section string, err error) {
		if err != nil {
			fail("%s: %v", section, err)
		}
	}

	if _, ok := applog.ParseLevel(c.LogLevel); !ok {
		fail("log_level: unknown level '%s'", c.LogLevel)
	}

	_, err := c.DownmixStrategy()
	check("audio.downmix", err)
	switch strings.ToLower(c.Audio.Transcoder) {
	case "ffmpeg", "native":
	default:
		fail("audio.transcoder: must be ffmpeg or native, got '%s'", c.Audio.Transcoder)
	}

	if c.Analysis.SegmentCount < 1 || c.Analysis.SegmentCount > MaxSegmentCount {
		fail("analysis.segment_count: must be in [1, %d], got %d", MaxSegmentCount, c.Analysis.SegmentCount)
	}
	if c.Analysis.FramesPerFFT < 0 {
		fail("analysis.frames_per_fft: must be >= 0, got %d", c.Analysis.FramesPerFFT)
	}
	if !(c.Analysis.Gate >= 0 && c.Analysis.Gate <= 1) {
		fail("analysis.gate: must be in [0, 1], got %v", c.Analysis.Gate)
	}
	if c.Analysis.Workers < 0 {
		fail("analysis.workers: must be >= 0, got %d", c.Analysis.Workers)
	}
	_, err = c.ExtractorOptions()
	check("analysis", err)

	if !(c.Timeline.FrameRate > 0) || c.Timeline.FrameRate > MaxFrameRate {
		fail("timeline.frame_rate: must be in (0, %d], got %v", MaxFrameRate, c.Timeline.FrameRate)
	}

	if c.Grid.Rows < 1 || c.Grid.Rows > MaxGridSide || c.Grid.Cols < 1 || c.Grid.Cols > MaxGridSide {
		fail("grid: rows and cols must be in [1, %d], got %dx%d", MaxGridSide, c.Grid.Rows, c.Grid.Cols)
	}
	if !(c.Grid.Spacing > 0) {
		fail("grid.spacing: must be positive, got %v", c.Grid.Spacing)
	}

	_, err = c.MotionConfig()
	check("animation", err)
	_, err = c.SceneOptions()
	check("scene", err)
	_, err = c.TransportOptions()
	check("output", err)

	return errors.Join(errs...)
}

// Level returns the effective log level; Debug forces LevelDebug.
func (c *Config) Level() applog.Level {
	if c.Debug {
		return applog.LevelDebug
	}
	level, _ := applog.ParseLevel(c.LogLevel)
	return level
}

func (c *Config) DownmixStrategy() (audio.Downmix, error) {
	return audio.ParseDownmix(c.Audio.Downmix)
}

// ExtractorOptions converts the analysis section.
func (c *Config) ExtractorOptions() (analysis.Options, error) {
	backend, err := fft.ParseBackend(c.Analysis.Backend)
	if err != nil {
		return analysis.Options{}, err
	}
	window, err := fft.ParseWindowFunc(c.Analysis.Window)
	if err != nil {
		return analysis.Options{}, err
	}
	return analysis.Options{Backend: backend, Window: window, Workers: c.Analysis.Workers}, nil
}

// MotionConfig converts and validates the animation section.
func (c *Config) MotionConfig() (motion.Config, error) {
	style, err := motion.ParseStyle(c.Animation.Style)
	if err != nil {
		return motion.Config{}, err
	}
	return motion.NewConfig(style, c.Animation.Exaggeration, c.Animation.MorphAmount, c.Animation.ZWaveEmphasis)
}

// SceneOptions converts and validates the scene section.
func (c *Config) SceneOptions() (scene.Options, error) {
	material, err := scene.ParseMaterial(c.Scene.Material)
	if err != nil {
		return scene.Options{}, err
	}
	mesh, err := scene.ParseMesh(c.Scene.Mesh)
	if err != nil {
		return scene.Options{}, err
	}
	opts := scene.Options{
		FloorSize:  c.Scene.FloorSize,
		FloorDepth: c.Scene.FloorDepth,
		Material:   material,
		Color:      c.Scene.Color,
		Mesh:       mesh,
	}
	return opts, opts.Validate()
}

// TransportOptions converts the output section.
func (c *Config) TransportOptions() (transport.Options, error) {
	sink, err := transport.ParseSink(c.Output.Sink)
	if err != nil {
		return transport.Options{}, err
	}
	switch {
	case sink == transport.SinkWebSocket && c.Output.WebSocketAddr == "":
		return transport.Options{}, errors.New("websocket_addr must be set for the websocket sink")
	case sink == transport.SinkUDP && c.Output.UDPTargetAddress == "":
		return transport.Options{}, errors.New("udp_target_address must be set for the udp sink")
	case sink == transport.SinkUDP && c.Output.UDPSendInterval <= 0:
		return transport.Options{}, errors.New("udp_send_interval must be positive for the udp sink")
	}
	return transport.Options{
		Sink:          sink,
		Path:          c.Output.Path,
		WebSocketAddr: c.Output.WebSocketAddr,
		UDPTarget:     c.Output.UDPTargetAddress,
		UDPInterval:   c.Output.UDPSendInterval,
	}, nil
}
