// SPDX-License-Identifier: MIT
package cmd

import (
	"time"

	"github.com/spf13/pflag"

	"wavepool/internal/config"
)

// pipelineFlags mirror the config keys a run is most often tuned by. They
// only take effect when set explicitly, so config files and environment
// values are not clobbered by flag defaults.
type pipelineFlags struct {
	downmix      string
	transcoder   string
	ffmpegPath   string
	segments     int
	framesPerFFT int
	window       string
	backend      string
	workers      int
	gate         float64
	frameRate    float64
	rows         int
	cols         int
	spacing      float64
	seed         uint64
	style        string
	exaggeration float64
	morph        float64
	zWave        float64
}

func (f *pipelineFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.downmix, "downmix", config.DefaultDownmix, "Stereo downmix strategy (left, average)")
	fs.StringVar(&f.transcoder, "transcoder", config.DefaultTranscoder, "Transcoder for non-WAV input (ffmpeg, native)")
	fs.StringVar(&f.ffmpegPath, "ffmpeg", config.DefaultFFmpegPath, "Path to the ffmpeg binary")
	fs.IntVarP(&f.segments, "segments", "n", config.DefaultSegmentCount, "Number of envelope segments")
	fs.IntVar(&f.framesPerFFT, "frames-per-fft", config.DefaultFramesPerFFT, "Derive segments from the timeline, one per N frames (0 disables)")
	fs.StringVar(&f.window, "window", config.DefaultWindow, "FFT window function")
	fs.StringVar(&f.backend, "backend", config.DefaultBackend, "FFT backend (gonum, godsp)")
	fs.Float64Var(&f.gate, "gate", config.DefaultGate, "Zero envelope values below this fraction of the peak")
	fs.IntVar(&f.workers, "workers", config.DefaultWorkers, "Parallel workers (0 = GOMAXPROCS)")
	fs.Float64VarP(&f.frameRate, "fps", "f", config.DefaultFrameRate, "Animation frame rate")
	fs.IntVar(&f.rows, "rows", config.DefaultRows, "Grid rows")
	fs.IntVar(&f.cols, "cols", config.DefaultCols, "Grid columns")
	fs.Float64Var(&f.spacing, "spacing", config.DefaultSpacing, "Distance between grid elements")
	fs.Uint64Var(&f.seed, "seed", config.DefaultSeed, "Phase generator seed")
	fs.StringVarP(&f.style, "style", "s", config.DefaultStyle, "Motion style (see 'styles')")
	fs.Float64Var(&f.exaggeration, "exaggeration", config.DefaultExaggeration, "Energy-driven lift")
	fs.Float64Var(&f.morph, "morph", config.DefaultMorphAmount, "Lateral sway amount")
	fs.Float64Var(&f.zWave, "z-wave", config.DefaultZWaveEmphasis, "Energy-independent ripple")
}

// apply copies every explicitly set flag into cfg.
func (f *pipelineFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	set := func(name string, fn func()) {
		if fs.Changed(name) {
			fn()
		}
	}
	set("downmix", func() { cfg.Audio.Downmix = f.downmix })
	set("transcoder", func() { cfg.Audio.Transcoder = f.transcoder })
	set("ffmpeg", func() { cfg.Audio.FFmpegPath = f.ffmpegPath })
	set("segments", func() { cfg.Analysis.SegmentCount = f.segments })
	set("frames-per-fft", func() { cfg.Analysis.FramesPerFFT = f.framesPerFFT })
	set("window", func() { cfg.Analysis.Window = f.window })
	set("backend", func() { cfg.Analysis.Backend = f.backend })
	set("workers", func() { cfg.Analysis.Workers = f.workers })
	set("gate", func() { cfg.Analysis.Gate = f.gate })
	set("fps", func() { cfg.Timeline.FrameRate = f.frameRate })
	set("rows", func() { cfg.Grid.Rows = f.rows })
	set("cols", func() { cfg.Grid.Cols = f.cols })
	set("spacing", func() { cfg.Grid.Spacing = f.spacing })
	set("seed", func() { cfg.Grid.Seed = f.seed })
	set("style", func() { cfg.Animation.Style = f.style })
	set("exaggeration", func() { cfg.Animation.Exaggeration = f.exaggeration })
	set("morph", func() { cfg.Animation.MorphAmount = f.morph })
	set("z-wave", func() { cfg.Animation.ZWaveEmphasis = f.zWave })
}

// outputFlags select the schedule sink.
type outputFlags struct {
	sink        string
	path        string
	wsAddr      string
	udpTarget   string
	udpInterval time.Duration
}

func (f *outputFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.sink, "sink", config.DefaultSink, "Schedule sink (file, websocket, udp, log)")
	fs.StringVarP(&f.path, "output", "o", "", "Output file for the file sink (default: <input>.schedule.json)")
	fs.StringVar(&f.wsAddr, "ws-addr", config.DefaultWebSocketAddr, "Listen address for the websocket sink")
	fs.StringVar(&f.udpTarget, "udp-target", config.DefaultUDPTargetAddress, "Target address for the udp sink")
	fs.DurationVar(&f.udpInterval, "udp-interval", config.DefaultUDPSendInterval, "Pause between streamed frames")
}

func (f *outputFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("sink") {
		cfg.Output.Sink = f.sink
	}
	if fs.Changed("output") {
		cfg.Output.Path = f.path
	}
	if fs.Changed("ws-addr") {
		cfg.Output.WebSocketAddr = f.wsAddr
	}
	if fs.Changed("udp-target") {
		cfg.Output.UDPTargetAddress = f.udpTarget
	}
	if fs.Changed("udp-interval") {
		cfg.Output.UDPSendInterval = f.udpInterval
	}
}
