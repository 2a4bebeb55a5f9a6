// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package flow

// HookLocation positions a hook action relative to its target step.
type HookLocation int

const (
	// ReplaceStep swaps the target step for the hook's step.
	ReplaceStep HookLocation = iota

	// InsertPreStep inserts the hook's step before the target step.
	InsertPreStep

	// InsertPostStep inserts the hook's step after the target step.
	InsertPostStep

	// ResumePreStep skips every step before the target step.
	ResumePreStep

	// ResumePostStep skips every step up to and including the target step.
	ResumePostStep
)

// Hook is an action applied to a tool's step list before execution.
type Hook struct {
	// Target is the name of the step the hook refers to.
	Target string

	// Location positions the hook relative to Target.
	Location HookLocation

	// Step is the replacement or inserted step.  Resume hooks carry none.
	Step *Step
}

// ReplaceHook swaps the named step for the provided function, keeping the
// name.
func ReplaceHook(step string, fn StepFunc) Hook {
	s := NewStep(step, fn)
	return Hook{Target: step, Location: ReplaceStep, Step: &s}
}

// RemovalHook removes the named step by replacing it with a no-op.
func RemovalHook(step string) Hook {
	s := NoopStep(step)
	return Hook{Target: step, Location: ReplaceStep, Step: &s}
}

// PreInsertHook inserts a new step before the named step.
func PreInsertHook(step string, insert Step) Hook {
	return Hook{Target: step, Location: InsertPreStep, Step: &insert}
}

// PostInsertHook inserts a new step after the named step.
func PostInsertHook(step string, insert Step) Hook {
	return Hook{Target: step, Location: InsertPostStep, Step: &insert}
}

// PrePauseHook pauses the run before the named step executes.
func PrePauseHook(step string) Hook {
	return PreInsertHook(step, PauseStep())
}

// PostPauseHook pauses the run after the named step executes.
func PostPauseHook(step string) Hook {
	return PostInsertHook(step, PauseStep())
}

// PreResumeHook resumes the run at the named step.  Only one resume hook may
// be present per run.
func PreResumeHook(step string) Hook {
	return Hook{Target: step, Location: ResumePreStep}
}

// PostResumeHook resumes the run after the named step.  Only one resume hook
// may be present per run.
func PostResumeHook(step string) Hook {
	return Hook{Target: step, Location: ResumePostStep}
}

// FromToHooks builds the hook list for running from and to the given steps,
// inclusive.  Leave from empty to start at the beginning and to empty to run
// to the end.
func FromToHooks(from, to string) []Hook {
	var hooks []Hook

	if from != "" {
		hooks = append(hooks, PreResumeHook(from))
	}
	if to != "" {
		hooks = append(hooks, PostPauseHook(to))
	}

	return hooks
}
