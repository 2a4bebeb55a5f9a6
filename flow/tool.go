// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package flow

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"

	"rtlkit.sh/confdb"
)

// Tool is a single stage of the generation flow.  Implementations provide
// their ordered steps and the settings prefix under which their
// configuration lives, e.g. "tools.generator".
type Tool interface {
	// Name is the short name of the tool, typically its directory name.
	Name() string

	// ConfigPrefix returns the settings prefix containing all tool specific
	// settings.
	ConfigPrefix() string

	// Steps is the ordered list of steps executed for this tool.
	Steps() []Step

	// RunDir is an absolute path to a writable directory for temporary and
	// output files of this tool.
	RunDir() string

	// EnvVars returns environment variables required by the tool's spawned
	// processes.
	EnvVars() map[string]string

	// Database returns the settings database shared by the flow.
	Database() *confdb.Database
}

// PreStepper is implemented by tools which need work before the first step.
type PreStepper interface {
	PreSteps(ctx context.Context, first Step) error
}

// BetweenStepper is implemented by tools which need work between two
// consecutive steps.  Pause steps are not reported.
type BetweenStepper interface {
	BetweenSteps(ctx context.Context, prev, next Step) error
}

// PostStepper is implemented by tools which need work after the last step.
type PostStepper interface {
	PostSteps(ctx context.Context) error
}

// OutputFiller is implemented by tools which record their outputs into the
// settings database once all steps have run.
type OutputFiller interface {
	FillOutputs(ctx context.Context) error
}

// Version reads the tool's configured version from the settings database and
// parses it as semantic version.
func Version(tool Tool) (*semver.Version, error) {
	raw, err := tool.Database().GetString(tool.ConfigPrefix() + ".version")
	if err != nil {
		return nil, fmt.Errorf("could not read version of %s: %w", tool.Name(), err)
	}

	version, err := semver.NewVersion(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("could not parse version %q of %s: %w", raw, tool.Name(), err)
	}

	return version, nil
}

// CheckVersion verifies the tool's configured version against a semver
// constraint, e.g. ">= 1.4".
func CheckVersion(tool Tool, constraint string) error {
	version, err := Version(tool)
	if err != nil {
		return err
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("could not parse version constraint %q: %w", constraint, err)
	}

	if !c.Check(version) {
		return fmt.Errorf("%s version %s does not satisfy %q", tool.Name(), version, constraint)
	}

	return nil
}

// Environ returns the tool's environment as a KEY=VALUE slice.
func Environ(tool Tool) []string {
	environ := make([]string, 0, len(tool.EnvVars()))
	for k, v := range tool.EnvVars() {
		environ = append(environ, k+"="+v)
	}

	return environ
}

// CheckInputFiles verifies that the provided input files exist and carry one
// of the accepted extensions.
func CheckInputFiles(files []string, extensions []string) error {
	var problems []string

	for _, f := range files {
		supported := false
		for _, ext := range extensions {
			if strings.HasSuffix(f, ext) {
				supported = true
				break
			}
		}

		if !supported {
			problems = append(problems, fmt.Sprintf("input of unsupported type: %s", f))
			continue
		}

		if fi, err := os.Stat(f); err != nil || fi.IsDir() {
			problems = append(problems, fmt.Sprintf("input file does not exist: %s", f))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid input files: %s", strings.Join(problems, "; "))
	}

	return nil
}
