// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package steps

import (
	"context"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"rtlkit.sh/cmdfactory"
	"rtlkit.sh/confdb"
	"rtlkit.sh/rtl/core"
	"rtlkit.sh/rtl/generator"
)

type StepsOptions struct{}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&StepsOptions{}, cobra.Command{
		Short: "List the steps of the generator flow",
		Use:   "steps",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`
			List the steps of the generator flow in execution order.  Step
			names are valid arguments to the --from-step and --to-step
			flags of rtlgen build.
		`),
		Example: heredoc.Doc(`
			# List the generator flow steps
			$ rtlgen steps`),
	})
	if err != nil {
		panic(err)
	}

	return cmd
}

func (opts *StepsOptions) Run(ctx context.Context, _ []string) error {
	gen, err := generator.New(core.CoreConfig{}, confdb.New(), os.TempDir())
	if err != nil {
		return err
	}

	for _, step := range gen.Steps() {
		fmt.Fprintf(os.Stdout, "%s.%s\n", gen.Name(), step.Name)
	}

	return nil
}
