// SPDX-License-Identifier: MIT
/*
Package pipeline runs one audio file through every stage:

	transcode -> load -> extract envelope -> schedule frames
	          -> build grid -> generate motion -> build tracks -> schedule

Stages run strictly in order. The context is checked between stages; a stage
that has started always finishes.
*/
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wavepool/internal/analysis"
	"wavepool/internal/audio"
	"wavepool/internal/config"
	"wavepool/internal/grid"
	applog "wavepool/internal/log"
	"wavepool/internal/motion"
	"wavepool/internal/scene"
	"wavepool/internal/timeline"
	"wavepool/internal/track"
	"wavepool/internal/transcode"
	"wavepool/internal/transport"
)

var logger = applog.For("Pipeline")

// Pipeline holds the collaborators built from a validated configuration.
type Pipeline struct {
	cfg        *config.Config
	transcoder transcode.Transcoder
	downmix    audio.Downmix
	extractor  *analysis.Extractor
	generator  *motion.Generator
	motion     motion.Config
	scene      scene.Options
}

// New validates cfg and prepares the stages.
func New(cfg *config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	downmix, err := cfg.DownmixStrategy()
	if err != nil {
		return nil, err
	}
	extractorOpts, err := cfg.ExtractorOptions()
	if err != nil {
		return nil, err
	}
	motionCfg, err := cfg.MotionConfig()
	if err != nil {
		return nil, err
	}
	sceneOpts, err := cfg.SceneOptions()
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:        cfg,
		transcoder: NewTranscoder(cfg.Audio),
		downmix:    downmix,
		extractor:  analysis.NewExtractor(extractorOpts),
		generator:  motion.NewGenerator(cfg.Analysis.Workers),
		motion:     motionCfg,
		scene:      sceneOpts,
	}, nil
}

// NewTranscoder picks the transcoder registry for the audio section.
func NewTranscoder(ac config.AudioConfig) *transcode.Registry {
	ffmpeg := transcode.FFmpeg{Path: ac.FFmpegPath}
	if strings.EqualFold(ac.Transcoder, "native") {
		return transcode.NewNativeRegistry(ffmpeg)
	}
	return transcode.NewRegistry(ffmpeg)
}

// WithTranscoder replaces the transcoder; used by tests and embedders.
func (p *Pipeline) WithTranscoder(t transcode.Transcoder) *Pipeline {
	p.transcoder = t
	return p
}

// Result is everything a run produced.
type Result struct {
	Input    string
	PCMPath  string
	Track    *audio.Track
	Envelope *analysis.Envelope
	Timeline timeline.Timeline
	Grid     *grid.Grid
	Samples  int
	Schedule *track.Schedule
	Stages   []StageTiming
}

// StageTiming records how long a stage took.
type StageTiming struct {
	Name     string
	Duration time.Duration
}

type run struct {
	ctx    context.Context
	result *Result
}

// stage runs fn unless ctx is already done.
func (r *run) stage(name string, fn func() error) error {
	if err := r.ctx.Err(); err != nil {
		return fmt.Errorf("before %s: %w", name, err)
	}
	start := time.Now()
	if err := fn(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	elapsed := time.Since(start)
	r.result.Stages = append(r.result.Stages, StageTiming{Name: name, Duration: elapsed})
	logger.Debugf("%s done in %s", name, elapsed)
	return nil
}

// Run executes every stage for inputPath and returns the schedule.
func (p *Pipeline) Run(ctx context.Context, inputPath string) (*Result, error) {
	res := &Result{Input: inputPath}
	r := &run{ctx: ctx, result: res}

	var (
		samples []motion.Sample
		tracks  *track.Tracks
		hints   scene.Hints
	)

	steps := []struct {
		name string
		fn   func() error
	}{
		{"transcode", func() (err error) {
			res.PCMPath, err = p.transcoder.Transcode(ctx, inputPath)
			return err
		}},
		{"load", func() (err error) {
			res.Track, err = audio.Load(res.PCMPath, p.downmix)
			return err
		}},
		{"extract", func() error {
			segments := p.segmentCount(res.Track)
			env, err := p.extractor.Extract(res.Track, segments)
			if err != nil {
				return err
			}
			if gate := p.cfg.Analysis.Gate; gate > 0 {
				env = env.Gate(gate)
			}
			res.Envelope = env
			return nil
		}},
		{"schedule", func() (err error) {
			res.Timeline, err = timeline.Schedule(res.Track, p.cfg.Timeline.FrameRate, res.Envelope)
			return err
		}},
		{"grid", func() (err error) {
			res.Grid, err = grid.Build(p.cfg.Grid.Rows, p.cfg.Grid.Cols, p.cfg.Grid.Spacing, grid.NewPhaseSource(p.cfg.Grid.Seed))
			if err != nil {
				return err
			}
			hints, err = scene.ForGrid(res.Grid, p.scene)
			return err
		}},
		{"generate", func() (err error) {
			samples, err = p.generator.Generate(res.Envelope, res.Timeline, res.Grid, p.motion)
			res.Samples = len(samples)
			return err
		}},
		{"tracks", func() error {
			b := track.NewBuilder()
			if err := b.Accumulate(samples); err != nil {
				return err
			}
			tracks = b.Build()
			res.Schedule = track.NewSchedule(res.Timeline, p.motion, tracks, hints, p.cfg.Timeline.FrameRate)
			return nil
		}},
	}

	for _, s := range steps {
		if err := r.stage(s.name, s.fn); err != nil {
			return nil, err
		}
	}

	logger.Infof("%s: %d samples, %d envelope values, frames %d-%d (%s, %d elements)",
		inputPath, res.Samples, res.Envelope.Len(), res.Timeline.StartFrame, res.Timeline.EndFrame,
		p.motion.Style, res.Grid.Len())
	return res, nil
}

// segmentCount applies frames_per_fft when set, otherwise segment_count.
func (p *Pipeline) segmentCount(t *audio.Track) int {
	if fpf := p.cfg.Analysis.FramesPerFFT; fpf > 0 {
		total := timeline.TotalFrames(t.Len(), t.SampleRate(), p.cfg.Timeline.FrameRate)
		return analysis.SegmentsForFrames(total, fpf)
	}
	return p.cfg.Analysis.SegmentCount
}

// Render runs the pipeline and hands the schedule to tr.
func (p *Pipeline) Render(ctx context.Context, inputPath string, tr transport.Transport) (*Result, error) {
	res, err := p.Run(ctx, inputPath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("before send: %w", err)
	}
	if err := tr.Send(res.Schedule); err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}
	return res, nil
}
