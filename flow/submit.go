// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package flow

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mattn/go-shellwords"

	"rtlkit.sh/confdb"
	"rtlkit.sh/exec"
	"rtlkit.sh/log"
)

// Submitter runs a tool's command line, either directly on the invoking host
// or wrapped by a batch submission prefix.
type Submitter interface {
	// Submit runs the command given by args in the tool's environment and
	// streams its combined output to out.
	Submit(ctx context.Context, tool Tool, args []string, out io.Writer) error
}

// NewSubmitter builds a submitter from the tool's settings.  The setting
// "<prefix>.submit.command" selects the mode: unset or "local" runs directly,
// any other value is parsed as a shell-quoted prefix prepended to the
// command, e.g. "bsub -q normal -n 8".
func NewSubmitter(tool Tool) (Submitter, error) {
	command, err := tool.Database().GetString(tool.ConfigPrefix() + ".submit.command")
	if err != nil && !errors.Is(err, confdb.ErrNotFound) {
		return nil, err
	}

	if command == "" || command == "local" {
		return &localSubmitter{}, nil
	}

	prefix, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("could not parse submit command %q: %w", command, err)
	}

	return &prefixSubmitter{prefix: prefix}, nil
}

type localSubmitter struct{}

func (s *localSubmitter) Submit(ctx context.Context, tool Tool, args []string, out io.Writer) error {
	return submit(ctx, tool, args, out)
}

type prefixSubmitter struct {
	prefix []string
}

func (s *prefixSubmitter) Submit(ctx context.Context, tool Tool, args []string, out io.Writer) error {
	return submit(ctx, tool, append(append([]string{}, s.prefix...), args...), out)
}

func submit(ctx context.Context, tool Tool, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("cannot submit an empty command")
	}

	// Spawned processes read their settings back through a freshly dumped
	// database snapshot.
	dump, err := tool.Database().DumpJSON(tool.RunDir())
	if err != nil {
		return err
	}

	log.G(ctx).WithField("tool", tool.Name()).Debugf("submitting: %v", args)

	process, err := exec.NewProcess(args[0], args[1:],
		exec.WithEnviron(Environ(tool)),
		exec.WithEnvKey(confdb.EnvVarDatabase, dump),
		exec.WithWorkingDir(tool.RunDir()),
		exec.WithStdout(out),
		exec.WithStderr(out),
	)
	if err != nil {
		return err
	}

	return process.StartAndWait(ctx)
}
