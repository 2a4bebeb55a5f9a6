// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package flow

import (
	"context"
	"errors"
	"fmt"
	"os"

	"rtlkit.sh/log"
)

// Run executes the tool's steps after applying the provided hook actions.
// A step returning ErrPaused stops the run cleanly; post-step work and
// output filling still happen for a paused run.
func Run(ctx context.Context, tool Tool, hooks ...Hook) error {
	if err := os.MkdirAll(tool.RunDir(), 0o755); err != nil {
		return fmt.Errorf("could not create run directory for %s: %w", tool.Name(), err)
	}

	steps, resume, err := applyHooks(tool.Steps(), hooks)
	if err != nil {
		return err
	}

	if err := runSteps(ctx, tool, steps, resume); err != nil {
		return err
	}

	if filler, ok := tool.(OutputFiller); ok {
		if err := filler.FillOutputs(ctx); err != nil {
			return fmt.Errorf("could not fill outputs of %s: %w", tool.Name(), err)
		}
	}

	return nil
}

// resumePoint captures the single allowed resume hook of a run.
type resumePoint struct {
	step string
	pre  bool
}

func checkDuplicates(steps []Step) (map[string]bool, error) {
	names := map[string]bool{}

	for _, step := range steps {
		if names[step.Name] {
			return nil, fmt.Errorf("duplicate step %q encountered", step.Name)
		}
		names[step.Name] = true
	}

	return names, nil
}

func applyHooks(steps []Step, hooks []Hook) ([]Step, *resumePoint, error) {
	names, err := checkDuplicates(steps)
	if err != nil {
		return nil, nil, err
	}

	newSteps := make([]Step, len(steps))
	copy(newSteps, steps)

	var resume *resumePoint

	for _, hook := range hooks {
		if !names[hook.Target] {
			return nil, nil, fmt.Errorf("target step %q does not exist", hook.Target)
		}

		idx := -1
		for i, step := range newSteps {
			if step.Name == hook.Target {
				idx = i
				break
			}
		}

		switch hook.Location {
		case ReplaceStep:
			if hook.Step == nil {
				return nil, nil, fmt.Errorf("replacement of step %q requires a step", hook.Target)
			}
			if hook.Step.Name != hook.Target {
				return nil, nil, fmt.Errorf("replacement step should keep the name %q", hook.Target)
			}
			newSteps[idx] = *hook.Step

		case InsertPreStep, InsertPostStep:
			if hook.Step == nil {
				return nil, nil, fmt.Errorf("insertion at step %q requires a step", hook.Target)
			}
			if hook.Step.Name != "pause" && names[hook.Step.Name] {
				return nil, nil, fmt.Errorf("inserted step %q already exists", hook.Step.Name)
			}

			if hook.Location == InsertPostStep {
				idx++
			}
			newSteps = append(newSteps[:idx], append([]Step{*hook.Step}, newSteps[idx:]...)...)
			names[hook.Step.Name] = true

		case ResumePreStep, ResumePostStep:
			if resume != nil {
				return nil, nil, fmt.Errorf("more than one resume hook is present")
			}
			resume = &resumePoint{
				step: hook.Target,
				pre:  hook.Location == ResumePreStep,
			}

		default:
			return nil, nil, fmt.Errorf("unknown hook location: %d", hook.Location)
		}
	}

	return newSteps, resume, nil
}

func runSteps(ctx context.Context, tool Tool, steps []Step, resume *resumePoint) error {
	var prev *Step

	for i := range steps {
		step := steps[i]

		if resume != nil {
			if resume.pre && resume.step == step.Name {
				log.G(ctx).WithField("tool", tool.Name()).Infof("resuming before %q", step.Name)
				resume = nil
			} else {
				log.G(ctx).WithField("tool", tool.Name()).Infof("step %q skipped due to resume", step.Name)
				if !resume.pre && resume.step == step.Name {
					resume = nil
				}
				continue
			}
		}

		log.G(ctx).WithField("tool", tool.Name()).Debugf("running step %q", step.Name)

		if prev == nil {
			if ps, ok := tool.(PreStepper); ok {
				if err := ps.PreSteps(ctx, step); err != nil {
					return fmt.Errorf("pre-step work failed: %w", err)
				}
			}
		} else if bs, ok := tool.(BetweenStepper); ok {
			// An inserted pause is not a real step: bridge the
			// surrounding steps instead.
			next := &step
			if step.Name == "pause" {
				next = nil
				if i+1 < len(steps) {
					next = &steps[i+1]
				}
			}

			if next != nil {
				if err := bs.BetweenSteps(ctx, *prev, *next); err != nil {
					return fmt.Errorf("between-step work failed: %w", err)
				}
			}
		}

		if err := step.Func(ctx, tool); err != nil {
			if errors.Is(err, ErrPaused) {
				log.G(ctx).WithField("tool", tool.Name()).Infof("step %q paused the tool execution", step.Name)
				break
			}

			return fmt.Errorf("step %q failed: %w", step.Name, err)
		}

		prev = &steps[i]
	}

	if ps, ok := tool.(PostStepper); ok {
		if err := ps.PostSteps(ctx); err != nil {
			return fmt.Errorf("post-step work failed: %w", err)
		}
	}

	return nil
}
