// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package cli implements the marquee command-line client. Every command
// builds a model in-process from the configured catalog, so no server is
// needed.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tomtom215/marquee/internal/app"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/recommend"
)

var rootExamples = `
  Recommend by title:
	marquee recommend "The Dark Knight" -k 10 --min-rating 7

  Recommend by id, JSON output:
	marquee recommend --id 155 --json

  Find a title:
	marquee search knight

  Mint an admin token for POST /api/v1/admin/reload:
	marquee token --user alice --ttl 2h
`

// Options configures the root command.
type Options struct {
	Out        io.Writer
	Err        io.Writer
	LoadConfig func() (*config.Config, error)
	Version    string
}

// session holds state shared by subcommands during one invocation.
type session struct {
	opts     Options
	cfg      *config.Config
	logLevel string
	noColor  bool
	jsonOut  bool
}

// NewRootCmd creates the marquee command tree.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.LoadConfig == nil {
		opts.LoadConfig = config.Load
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	s := &session{opts: opts}
	var configPath string

	root := &cobra.Command{
		Use:           "marquee",
		Short:         "Content-based movie recommendations from the command line",
		Example:       rootExamples,
		Version:       opts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if configPath != "" {
				if err := os.Setenv("CONFIG_PATH", configPath); err != nil {
					return err
				}
			}
			if s.noColor {
				color.NoColor = true
			}
			logging.Init(logging.Config{Level: s.logLevel, Format: "console", Output: opts.Err, Timestamp: true})

			cfg, err := opts.LoadConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			s.cfg = cfg
			return nil
		},
	}
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config.yaml file")
	root.PersistentFlags().StringVar(&s.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&s.noColor, "no-color", false, "Disable coloured output")
	root.PersistentFlags().BoolVar(&s.jsonOut, "json", false, "Print JSON instead of tables")

	root.AddCommand(
		newRecommendCmd(s),
		newSearchCmd(s),
		newGenresCmd(s),
		newInfoCmd(s),
		newTokenCmd(s),
	)
	return root
}

// Execute runs the command tree and prints errors in red.
func Execute(opts Options) int {
	root := NewRootCmd(opts)
	if err := root.Execute(); err != nil {
		errOut := root.ErrOrStderr()
		fmt.Fprintln(errOut, color.New(color.FgHiRed).Sprint("Error: ")+err.Error())
		return 1
	}
	return 0
}

// loadModel builds the components and the model described by the config.
func (s *session) loadModel(ctx context.Context) (*app.Components, *recommend.Model, error) {
	components, err := app.New(s.cfg)
	if err != nil {
		return nil, nil, err
	}
	model, err := components.Build(ctx)
	if err != nil {
		_ = components.Close()
		return nil, nil, fmt.Errorf("build model: %w", err)
	}
	return components, model, nil
}

func closeComponents(c *app.Components) {
	if err := c.Close(); err != nil {
		logging.Warn().Err(err).Msg("Error closing poster cache")
	}
}
