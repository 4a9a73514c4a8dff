// SPDX-License-Identifier: MIT
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"wavepool/internal/analysis"
	"wavepool/internal/audio"
	"wavepool/internal/config"
	"wavepool/internal/pipeline"
	"wavepool/internal/timeline"
)

// envelopeOutput is the --json form of the envelope command.
type envelopeOutput struct {
	Input      string    `json:"input"`
	SampleRate int       `json:"sample_rate"`
	WindowSize int       `json:"window_size"`
	Normalized bool      `json:"normalized"`
	Values     []float64 `json:"values"`
}

func newEnvelopeCmd(root *rootOptions) *cobra.Command {
	var (
		pf         pipelineFlags
		normalized bool
		asJSON     bool
	)

	c := &cobra.Command{
		Use:   "envelope <audio file>",
		Short: "Print the energy envelope of an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(func(cfg *config.Config) error {
				pf.apply(cmd.Flags(), cfg)
				return nil
			})
			if err != nil {
				return err
			}

			pcm, err := pipeline.NewTranscoder(cfg.Audio).Transcode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			downmix, err := cfg.DownmixStrategy()
			if err != nil {
				return err
			}
			track, err := audio.Load(pcm, downmix)
			if err != nil {
				return err
			}
			opts, err := cfg.ExtractorOptions()
			if err != nil {
				return err
			}
			segments := cfg.Analysis.SegmentCount
			if fpf := cfg.Analysis.FramesPerFFT; fpf > 0 {
				total := timeline.TotalFrames(track.Len(), track.SampleRate(), cfg.Timeline.FrameRate)
				segments = analysis.SegmentsForFrames(total, fpf)
			}
			env, err := analysis.NewExtractor(opts).Extract(track, segments)
			if err != nil {
				return err
			}

			if gate := cfg.Analysis.Gate; gate > 0 {
				env = env.Gate(gate)
			}

			values := env.Values()
			if normalized {
				values = env.Normalized()
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(envelopeOutput{
					Input:      args[0],
					SampleRate: track.SampleRate(),
					WindowSize: env.WindowSize(),
					Normalized: normalized,
					Values:     values,
				})
			}
			for _, v := range values {
				fmt.Fprintf(out, "%g\n", v)
			}
			return nil
		},
	}

	pf.register(c.Flags())
	c.Flags().BoolVar(&normalized, "normalized", false, "Divide every value by the envelope maximum")
	c.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of one value per line")
	return c
}

func newTranscodeCmd(root *rootOptions) *cobra.Command {
	var pf pipelineFlags

	c := &cobra.Command{
		Use:   "transcode <audio file>",
		Short: "Convert an audio file to PCM WAV and print the output path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(func(cfg *config.Config) error {
				pf.apply(cmd.Flags(), cfg)
				return nil
			})
			if err != nil {
				return err
			}
			out, err := pipeline.NewTranscoder(cfg.Audio).Transcode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	pf.register(c.Flags())
	return c
}

func newStylesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List the motion styles",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			writeStyles(cmd.OutOrStdout())
		},
	}
}
