// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package rtlgen

import (
	"context"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/rancher/wrangler/pkg/signals"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"rtlkit.sh/cmdfactory"
	"rtlkit.sh/config"
	kitversion "rtlkit.sh/internal/version"
	"rtlkit.sh/log"

	"rtlkit.sh/internal/cli/rtlgen/build"
	"rtlkit.sh/internal/cli/rtlgen/steps"
	"rtlkit.sh/internal/cli/rtlgen/vars"
	"rtlkit.sh/internal/cli/rtlgen/version"
)

type RtlgenOptions struct{}

func (opts *RtlgenOptions) Run(_ context.Context, _ []string) error {
	return pflag.ErrHelp
}

// PersistentPre applies the global logger flags before any subcommand runs.
func (opts *RtlgenOptions) PersistentPre(cmd *cobra.Command, _ []string) error {
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		if level, ok := log.Levels()[f.Value.String()]; ok {
			log.G(cmd.Context()).SetLevel(level)
		}
	}

	return nil
}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&RtlgenOptions{}, cobra.Command{
		Short: "Generate and build simulatable RTL cores",
		Use:   "rtlgen [FLAGS] SUBCOMMAND",
		Long: heredoc.Docf(`
		Generate and build simulatable RTL cores.

		Version:          %s
		Issues & support: https://rtlkit.sh/issues`, kitversion.Version()),
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	})
	if err != nil {
		panic(err)
	}

	cmd.PersistentFlags().AddFlag(cmdfactory.VarPF(
		cmdfactory.NewEnumFlag(
			[]string{"fatal", "error", "warn", "info", "debug", "trace"},
			"info",
		),
		"log-level", "", "Log level verbosity",
	))

	cmd.AddCommand(vars.NewCmd())
	cmd.AddCommand(build.NewCmd())
	cmd.AddCommand(steps.NewCmd())
	cmd.AddCommand(version.NewCmd())

	return cmd
}

func Main(args []string) int {
	cmd := NewCmd()
	ctx := signals.SetupSignalContext()

	// The environment feeder comes last so RTLKIT_* variables win over
	// values read from the config file.
	cfgm, err := config.NewConfigManager(
		config.WithDefaultConfigFile(),
		config.WithFeeder(config.EnvFeeder{}),
	)
	if err != nil && cfgm == nil {
		fmt.Println(err)
		os.Exit(1)
	}

	ctx = config.WithConfigManager(ctx, cfgm)

	logger := logrus.New()

	switch log.LoggerTypeFromString(cfgm.Config.Log.Type) {
	case log.QUIET:
		logger.Formatter = new(logrus.TextFormatter)

	case log.JSON:
		logger.Formatter = new(logrus.JSONFormatter)
		if cfgm.Config.Log.Timestamps {
			logger.Formatter.(*logrus.JSONFormatter).DisableTimestamp = false
		}

	default:
		formatter := new(log.TextFormatter)
		formatter.FullTimestamp = true
		formatter.DisableTimestamp = !cfgm.Config.Log.Timestamps
		logger.Formatter = formatter
	}

	if level, ok := log.Levels()[cfgm.Config.Log.Level]; ok {
		logger.Level = level
	} else {
		logger.Level = logrus.InfoLevel
	}

	ctx = log.WithLogger(ctx, logger)

	// Re-read the config on SIGHUP so long-running builds can pick up
	// edits without restarting.
	cfgm.SetupListener(func(err error) {
		logger.Warnf("could not reload config: %v", err)
	})

	log.G(ctx).Debugf("rtlgen %s", kitversion.Version())

	return cmdfactory.Main(ctx, cmd)
}
