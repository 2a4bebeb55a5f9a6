// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package make

import (
	"fmt"

	"rtlkit.sh/exec"
)

// MakeOptions represents the command-line arguments which can be passed to
// the invocation of GNU Make.
type MakeOptions struct {
	alwaysMake             bool     `flag:"-B"`
	directory              string   `flag:"-C"`
	envOverrides           bool     `flag:"-e"`
	files                  []string `flag:"-f"`
	ignoreErrors           bool     `flag:"-i"`
	jobs                   *int     `flag:"-j,omitvalueif=0"`
	keepGoing              bool     `flag:"-k"`
	justPrint              bool     `flag:"-n"`
	silent                 bool     `flag:"-s"`
	warnUndefinedVariables bool     `flag:"--warn-undefined-variables"`

	bin        string
	targets    []string
	vars       map[string]string
	onProgress func(float64)
	eopts      []exec.ExecOption
}

type MakeOption func(mo *MakeOptions) error

func NewMakeOptions(mopts ...MakeOption) (*MakeOptions, error) {
	mo := &MakeOptions{}

	for _, o := range mopts {
		if err := o(mo); err != nil {
			return nil, fmt.Errorf("could not apply option: %v", err)
		}
	}

	return mo, nil
}

// Vars returns a serialized slice of Make variables which are passed as
// arguments to make along with all CLI flags
func (mo *MakeOptions) Vars() []string {
	var vars []string

	for k, v := range mo.vars {
		vars = append(vars, k+"="+v)
	}

	vars = append(vars, mo.targets...)

	return vars
}

// Unconditionally make all targets.  Equivalent to calling the flags
// -B|--always-make
func WithAlwaysMake(alwaysMake bool) MakeOption {
	return func(mo *MakeOptions) error {
		mo.alwaysMake = alwaysMake
		return nil
	}
}

// Change to Directory before doing anything.  Equivalent to calling the flags
// -C|--directory
func WithDirectory(dir string) MakeOption {
	return func(mo *MakeOptions) error {
		mo.directory = dir
		return nil
	}
}

// Environment variables override makefiles.  Equivalent to calling the flags
// -e|--environment-overrides
func WithEnvOverrides(envOverrides bool) MakeOption {
	return func(mo *MakeOptions) error {
		mo.envOverrides = envOverrides
		return nil
	}
}

// WithVar sets a variable and its value before invoking make.
func WithVar(key, val string) MakeOption {
	return func(mo *MakeOptions) error {
		if mo.vars == nil {
			mo.vars = make(map[string]string)
		}

		mo.vars[key] = val

		return nil
	}
}

// WithVars sets a map of additional variables before invoking make.
func WithVars(vars map[string]string) MakeOption {
	return func(mo *MakeOptions) error {
		if mo.vars == nil {
			mo.vars = make(map[string]string)
		}

		for key, val := range vars {
			mo.vars[key] = val
		}

		return nil
	}
}

// Read files as a makefile.  Equivalent to calling the flags
// -f|--file|--makefile
func WithFile(file string) MakeOption {
	return func(mo *MakeOptions) error {
		mo.files = append(mo.files, file)
		return nil
	}
}

// Ignore errors from recipes.  Equivalent to calling the flags
// -i|--ignore-errors
func WithIgnoreErrors(ignoreErrors bool) MakeOption {
	return func(mo *MakeOptions) error {
		mo.ignoreErrors = ignoreErrors
		return nil
	}
}

// Allow N jobs at once; infinite jobs with no arg.  Equivalent to calling the
// flags -j|--jobs with a value
func WithJobs(jobs int) MakeOption {
	return func(mo *MakeOptions) error {
		mo.jobs = &jobs
		return nil
	}
}

// Allow unlimited jobs at once.  Equivalent to calling the flag -j|--jobs
// without a value
func WithMaxJobs(maxJobs bool) MakeOption {
	return func(mo *MakeOptions) error {
		if maxJobs {
			zero := 0
			mo.jobs = &zero
		} else {
			mo.jobs = nil
		}

		return nil
	}
}

// Keep going when some targets can't be made.  Equivalent to calling the
// flags -k|--keep-going
func WithKeepGoing(keepGoing bool) MakeOption {
	return func(mo *MakeOptions) error {
		mo.keepGoing = keepGoing
		return nil
	}
}

// Don't actually run any recipe; just print them.  Equivalent to calling the
// flags -n|--just-print|--dry-run|--recon
func WithJustPrint(justPrint bool) MakeOption {
	return func(mo *MakeOptions) error {
		mo.justPrint = justPrint
		return nil
	}
}

// Don't echo recipes.  Equivalent to calling the flags -s|--silent|--quiet
func WithSilent(silent bool) MakeOption {
	return func(mo *MakeOptions) error {
		mo.silent = silent
		return nil
	}
}

// Warn when an undefined variable is referenced.  Equivalent to calling the
// flag --warn-undefined-variables
func WithWarnUndefinedVariables(wuv bool) MakeOption {
	return func(mo *MakeOptions) error {
		mo.warnUndefinedVariables = wuv
		return nil
	}
}

// The targets to make (omission will invoke the default target).
func WithTarget(target ...string) MakeOption {
	return func(mo *MakeOptions) error {
		mo.targets = append(mo.targets, target...)
		return nil
	}
}

// WithProgressFunc sets an optional progress function which is used as a
// callback during the ultimate invocation of make which can be calculated by
// invoking make's "just print" option
func WithProgressFunc(onProgress func(float64)) MakeOption {
	return func(mo *MakeOptions) error {
		mo.onProgress = onProgress
		return nil
	}
}

// WithExecOptions offers configuration options to the underlying process
// executor
func WithExecOptions(eopts ...exec.ExecOption) MakeOption {
	return func(mo *MakeOptions) error {
		mo.eopts = append(mo.eopts, eopts...)
		return nil
	}
}

// WithBinPath sets an alternative path to the GNU Make binary executable
func WithBinPath(path string) MakeOption {
	return func(mo *MakeOptions) error {
		mo.bin = path
		return nil
	}
}
