// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"time"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix prefixes every environment override.
const EnvPrefix = "WAVEPOOL_"

// Defaults for a run with no config file.
const (
	DefaultLogLevel   = "info"
	DefaultDownmix    = "left"
	DefaultTranscoder = "ffmpeg"
	DefaultFFmpegPath = "ffmpeg"

	DefaultSegmentCount = 200 // Envelope values per run
	DefaultFramesPerFFT = 0   // 0 keeps segment_count in charge
	DefaultWindow       = "rectangular"
	DefaultBackend      = "gonum"
	DefaultWorkers      = 0 // 0 uses GOMAXPROCS
	DefaultGate         = 0.0

	DefaultFrameRate = 24.0

	DefaultRows    = 10
	DefaultCols    = 10
	DefaultSpacing = 0.5
	DefaultSeed    = 0

	DefaultStyle         = "wave"
	DefaultExaggeration  = 2.5
	DefaultMorphAmount   = 0.12
	DefaultZWaveEmphasis = 0.15

	DefaultFloorSize  = 1000.0
	DefaultFloorDepth = -10.0
	DefaultMaterial   = "shiny"
	DefaultMesh       = "ico_sphere"

	DefaultSink             = "file"
	DefaultWebSocketAddr    = "127.0.0.1:8080"
	DefaultUDPTargetAddress = "127.0.0.1:9090"
	DefaultUDPSendInterval  = 1 * time.Second / 24 // One keyed frame per frame at 24fps

	// Upper bounds accepted by Validate.
	MaxSegmentCount = 1 << 20
	MaxGridSide     = 1000
	MaxFrameRate    = 1000
)

// DefaultColor is the element base color (linear RGB).
var DefaultColor = [3]float64{0.2, 0.6, 1.0}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Audio: AudioConfig{
			Downmix:    DefaultDownmix,
			Transcoder: DefaultTranscoder,
			FFmpegPath: DefaultFFmpegPath,
		},
		Analysis: AnalysisConfig{
			SegmentCount: DefaultSegmentCount,
			FramesPerFFT: DefaultFramesPerFFT,
			Window:       DefaultWindow,
			Backend:      DefaultBackend,
			Workers:      DefaultWorkers,
			Gate:         DefaultGate,
		},
		Timeline: TimelineConfig{
			FrameRate: DefaultFrameRate,
		},
		Grid: GridConfig{
			Rows:    DefaultRows,
			Cols:    DefaultCols,
			Spacing: DefaultSpacing,
			Seed:    DefaultSeed,
		},
		Animation: AnimationConfig{
			Style:         DefaultStyle,
			Exaggeration:  DefaultExaggeration,
			MorphAmount:   DefaultMorphAmount,
			ZWaveEmphasis: DefaultZWaveEmphasis,
		},
		Scene: SceneConfig{
			FloorSize:  DefaultFloorSize,
			FloorDepth: DefaultFloorDepth,
			Material:   DefaultMaterial,
			Color:      DefaultColor,
			Mesh:       DefaultMesh,
		},
		Output: OutputConfig{
			Sink:             DefaultSink,
			WebSocketAddr:    DefaultWebSocketAddr,
			UDPTargetAddress: DefaultUDPTargetAddress,
			UDPSendInterval:  DefaultUDPSendInterval,
		},
	}
}
