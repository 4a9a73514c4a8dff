// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"wavepool/internal/config"
	applog "wavepool/internal/log"
	"wavepool/internal/pipeline"
	"wavepool/internal/transport"
)

var logger = applog.For("CLI")

func newRenderCmd(root *rootOptions) *cobra.Command {
	var (
		pf pipelineFlags
		of outputFlags
	)

	c := &cobra.Command{
		Use:   "render <audio file>",
		Short: "Turn an audio file into a grid animation schedule",
		Long: `Render analyses the loudness of an audio file and writes a keyframe
schedule that animates a grid of elements to it.

With the websocket sink the schedule keeps being served to new clients
until the command is interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			cfg, err := root.loadConfig(func(cfg *config.Config) error {
				pf.apply(cmd.Flags(), cfg)
				of.apply(cmd.Flags(), cfg)
				if cfg.Output.Path == "" {
					cfg.Output.Path = defaultOutputPath(input)
				}
				return nil
			})
			if err != nil {
				return err
			}
			return render(cmd, cfg, input)
		},
	}

	pf.register(c.Flags())
	of.register(c.Flags())
	return c
}

func render(cmd *cobra.Command, cfg *config.Config, input string) (err error) {
	ctx := cmd.Context()

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	opts, err := cfg.TransportOptions()
	if err != nil {
		return err
	}
	tr, err := transport.Open(opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := tr.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	res, err := p.Render(ctx, input, tr)
	if err != nil {
		return err
	}

	writeReport(cmd.OutOrStdout(), res, destination(opts, tr))

	if ws, ok := tr.(*transport.WebSocketTransport); ok {
		logger.Infof("serving schedule on ws://%s%s, interrupt to stop", ws.Addr(), transport.WebSocketPath)
		<-ctx.Done()
	}
	return nil
}

// defaultOutputPath places the schedule next to the input.
func defaultOutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".schedule.json"
}

func destination(opts transport.Options, tr transport.Transport) string {
	switch t := tr.(type) {
	case *transport.FileTransport:
		return t.Path()
	case *transport.WebSocketTransport:
		return fmt.Sprintf("ws://%s%s", t.Addr(), transport.WebSocketPath)
	}
	switch opts.Sink {
	case transport.SinkUDP:
		return "udp://" + opts.UDPTarget
	default:
		return string(opts.Sink)
	}
}
