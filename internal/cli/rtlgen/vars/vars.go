// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package vars

import (
	"context"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"rtlkit.sh/cmdfactory"
	"rtlkit.sh/config"
	"rtlkit.sh/log"
	"rtlkit.sh/rtl/core"
)

type VarsOptions struct {
	Top        string   `long:"top" short:"t" usage:"Top module to elaborate"`
	CoreConfig string   `long:"config" short:"c" usage:"Named core parameterization"`
	Export     bool     `long:"export" short:"e" usage:"Print shell export statements instead of the raw table"`
	Raw        bool     `long:"raw" usage:"Print unexpanded values"`
	Sets       []string `long:"set" short:"s" usage:"Pre-set KEY=VALUE pairs which defaults never clobber"`
	WarnUndef  bool     `long:"warn-undefined" usage:"Warn about references to undefined variables"`
}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&VarsOptions{}, cobra.Command{
		Short: "Resolve and print the build variable table",
		Use:   "vars [FLAGS]",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`
			Resolve and print the variable table handed to the external
			build system for the selected core configuration.
		`),
		Example: heredoc.Doc(`
			# Print the resolved variable table
			$ rtlgen vars --top Top --config Default

			# Pre-set a variable; the default never clobbers it
			$ rtlgen vars --set OBJ_CORE_RTL_V=/elsewhere/core.v

			# Print a sourceable script
			$ rtlgen vars --export > vars.sh`),
	})
	if err != nil {
		panic(err)
	}

	return cmd
}

func (opts *VarsOptions) Run(ctx context.Context, _ []string) error {
	cfg := config.G(ctx)

	cc := core.CoreConfig{
		Top:       opts.Top,
		Config:    opts.CoreConfig,
		ObjDir:    cfg.Paths.Obj,
		GenDir:    cfg.Paths.Gen,
		ToolsDir:  cfg.Paths.Tools,
		AddonsDir: cfg.Paths.Addons,
		Overrides: opts.Sets,
	}

	vars, err := cc.Vars()
	if err != nil {
		return err
	}

	if opts.Export {
		return vars.Script(os.Stdout)
	}

	for _, name := range vars.Names() {
		value, _ := vars.Get(name)

		if opts.WarnUndef {
			for _, ref := range vars.Undefined(value) {
				log.G(ctx).Warnf("%s references undefined variable %s", name, ref)
			}
		}

		if !opts.Raw {
			value, err = vars.Expand(value)
			if err != nil {
				return err
			}
		}

		fmt.Fprintf(os.Stdout, "%s=%s\n", name, value)
	}

	return nil
}
