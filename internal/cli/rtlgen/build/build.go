// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"rtlkit.sh/cmdfactory"
	"rtlkit.sh/confdb"
	"rtlkit.sh/config"
	"rtlkit.sh/flow"
	"rtlkit.sh/log"
	"rtlkit.sh/rtl/core"
	"rtlkit.sh/rtl/generator"
	"rtlkit.sh/rtl/sim"
)

type BuildOptions struct {
	Top        string   `long:"top" short:"t" usage:"Top module to elaborate"`
	CoreConfig string   `long:"config" short:"c" usage:"Named core parameterization"`
	Project    string   `long:"project" short:"p" usage:"Path to a project settings YAML file"`
	FromStep   string   `long:"from-step" usage:"Resume the generator flow at the named step"`
	ToStep     string   `long:"to-step" usage:"Pause the generator flow after the named step"`
	Jobs       int      `long:"jobs" short:"j" usage:"Number of parallel build jobs"`
	DryRun     bool     `long:"dry-run" short:"n" usage:"Print the simulator build recipes without running them"`
	NoSim      bool     `long:"no-sim" usage:"Stop after the generator flow, do not build the simulator"`
	Sets       []string `long:"set" short:"s" usage:"Pre-set KEY=VALUE pairs which defaults never clobber"`
	Inputs     []string `long:"input" short:"i" usage:"RTL input sources handed to the generator"`
}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&BuildOptions{}, cobra.Command{
		Short: "Run the generator flow and build the simulator",
		Use:   "build [FLAGS] [DIR]",
		Args:  cobra.MaximumNArgs(1),
		Long: heredoc.Doc(`
			Run the generator flow for the selected core configuration and
			then build the simulator by invoking the external make build
			with the resolved variable table.
		`),
		Example: heredoc.Doc(`
			# Generate and build the default core in the current directory
			$ rtlgen build

			# Re-run only the manifest step of the generator flow
			$ rtlgen build --from-step manifest --to-step manifest

			# Print the simulator build recipes only
			$ rtlgen build --dry-run`),
	})
	if err != nil {
		panic(err)
	}

	return cmd
}

// database assembles the settings database for the generator flow.  The
// configured generator binary is a builtin so a project file or per-tool
// defaults can still shadow it.
func (opts *BuildOptions) database(cfg *config.RTLKit, workdir string) (*confdb.Database, error) {
	db := confdb.New()

	if err := db.FeedMap(confdb.LayerBuiltins, map[string]interface{}{
		generator.ConfigPrefix + ".binary": cfg.Generator,
	}); err != nil {
		return nil, err
	}

	if err := db.FeedDefaults(confdb.LayerTools, cfg.Paths.Tools, workdir); err != nil {
		return nil, err
	}

	if opts.Project != "" {
		if err := db.FeedYAML(confdb.LayerProject, opts.Project); err != nil {
			return nil, fmt.Errorf("could not read project settings: %w", err)
		}
	}

	return db, nil
}

func (opts *BuildOptions) Run(ctx context.Context, args []string) error {
	cfg := config.G(ctx)

	workdir := "."
	if len(args) > 0 {
		workdir = args[0]
	}

	cc := core.CoreConfig{
		Top:       opts.Top,
		Config:    opts.CoreConfig,
		ObjDir:    cfg.Paths.Obj,
		GenDir:    cfg.Paths.Gen,
		ToolsDir:  cfg.Paths.Tools,
		AddonsDir: cfg.Paths.Addons,
		Overrides: opts.Sets,
	}

	db, err := opts.database(cfg, workdir)
	if err != nil {
		return err
	}

	gen, err := generator.New(cc, db, filepath.Join(cfg.Paths.Gen, "generator"),
		generator.WithInputFiles(opts.Inputs...),
	)
	if err != nil {
		return err
	}

	if err := flow.Run(ctx, gen, flow.FromToHooks(opts.FromStep, opts.ToStep)...); err != nil {
		return err
	}

	if opts.NoSim {
		return nil
	}

	jobs := opts.Jobs
	if jobs == 0 {
		jobs = cfg.Jobs
	}

	sopts := []sim.SimulatorOption{
		sim.WithBinPath(cfg.MakeBin),
		sim.WithJustPrint(opts.DryRun),
	}
	if jobs > 0 {
		sopts = append(sopts, sim.WithJobs(jobs))
	}

	s, err := sim.New(cc, workdir, sopts...)
	if err != nil {
		return err
	}

	if err := s.Build(ctx); err != nil {
		return err
	}

	if !opts.DryRun {
		if err := cc.CheckArtifacts(ctx); err != nil {
			log.G(ctx).Warnf("%v", err)
		}
	}

	fmt.Fprintln(os.Stdout, "build complete")

	return nil
}
