// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package flow implements the tool abstraction of the generation flow: a
// tool is an ordered list of named steps which can be replaced, extended and
// partially re-run through hook actions.
package flow

import (
	"context"
	"fmt"
)

// ErrPaused is returned by a step to stop the execution of the remaining
// steps without failing the run.
var ErrPaused = fmt.Errorf("tool execution paused")

// StepFunc is the unit of work of a tool.  Returning ErrPaused stops the
// run cleanly; any other error fails it.
type StepFunc func(ctx context.Context, tool Tool) error

// Step is a named unit of work within a tool's flow.
type Step struct {
	Name string
	Func StepFunc
}

// NewStep returns a step from a name and function.
func NewStep(name string, fn StepFunc) Step {
	return Step{Name: name, Func: fn}
}

// PauseStep returns a step which stops the execution of the tool.
func PauseStep() Step {
	return Step{
		Name: "pause",
		Func: func(context.Context, Tool) error {
			return ErrPaused
		},
	}
}

// NoopStep returns a step which does nothing, used to remove an existing
// step by replacement.
func NoopStep(name string) Step {
	return Step{
		Name: name,
		Func: func(context.Context, Tool) error {
			return nil
		},
	}
}
