// SPDX-License-Identifier: MIT
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"wavepool/internal/config"
	applog "wavepool/internal/log"
	"wavepool/pkg/build"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	verbose    bool
}

// Execute runs the command line with args, writing command output to out.
func Execute(ctx context.Context, args []string, out io.Writer) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	return root.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	buildInfo := build.GetBuildFlags()
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         buildInfo.Description,
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
	}

	// Display help message
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"Path to a YAML config file (default: ./config.yaml when present)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Show debug output")

	rootCmd.AddCommand(
		newRenderCmd(opts),
		newEnvelopeCmd(opts),
		newTranscodeCmd(opts),
		newStylesCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// loadConfig reads the config file and environment, applies flag overrides
// through override, then validates once and sets the log level. Validation
// runs last so an explicit flag can replace a bad file or env value.
func (o *rootOptions) loadConfig(override func(*config.Config) error) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if override != nil {
		if err := override(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if o.verbose {
		cfg.Debug = true
	}
	applog.SetLevel(cfg.Level())
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), build.GetBuildFlags().String())
		},
	}
}
