// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package sim drives the external GNU make build of the simulator from a
// resolved core variable table.
package sim

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"rtlkit.sh/exec"
	"rtlkit.sh/log"
	"rtlkit.sh/make"
	"rtlkit.sh/rtl"
	"rtlkit.sh/rtl/core"
)

// Simulator builds the software simulator of a core configuration by
// handing the variable table to the external make build.
type Simulator struct {
	core       core.CoreConfig
	dir        string
	makefile   string
	bin        string
	targets    []string
	jobs       int
	justPrint  bool
	onProgress func(float64)
}

type SimulatorOption func(*Simulator) error

// WithMakefile reads the given file as the makefile of the simulator build.
func WithMakefile(file string) SimulatorOption {
	return func(s *Simulator) error {
		s.makefile = file
		return nil
	}
}

// WithBinPath sets an alternative GNU make binary.
func WithBinPath(bin string) SimulatorOption {
	return func(s *Simulator) error {
		s.bin = bin
		return nil
	}
}

// WithTarget appends make targets for the build.
func WithTarget(target ...string) SimulatorOption {
	return func(s *Simulator) error {
		s.targets = append(s.targets, target...)
		return nil
	}
}

// WithJobs sets the make job count.
func WithJobs(jobs int) SimulatorOption {
	return func(s *Simulator) error {
		s.jobs = jobs
		return nil
	}
}

// WithJustPrint only prints the recipes of the build without running them.
func WithJustPrint(justPrint bool) SimulatorOption {
	return func(s *Simulator) error {
		s.justPrint = justPrint
		return nil
	}
}

// WithProgressFunc reports build progress through the given callback.
func WithProgressFunc(onProgress func(float64)) SimulatorOption {
	return func(s *Simulator) error {
		s.onProgress = onProgress
		return nil
	}
}

// New prepares a simulator build for the given core in the given build
// directory.
func New(cc core.CoreConfig, dir string, opts ...SimulatorOption) (*Simulator, error) {
	if dir == "" {
		return nil, fmt.Errorf("simulator build requires a directory")
	}

	s := &Simulator{
		core: cc,
		dir:  dir,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Build checks the required shared libraries, then invokes make with the
// exported core variables and logs a size summary of the produced objects.
func (s *Simulator) Build(ctx context.Context) error {
	if !s.justPrint {
		if err := s.checkLibs(); err != nil {
			return err
		}
	}

	vars, err := s.core.Vars()
	if err != nil {
		return err
	}

	environ, err := vars.Environ()
	if err != nil {
		return err
	}

	mopts := []make.MakeOption{
		make.WithDirectory(s.dir),
		make.WithTarget(s.targets...),
		make.WithExecOptions(
			exec.WithEnviron(environ),
			// Sub-builds of the tool projects may prompt, so hand them
			// the invoking terminal.
			exec.WithStdin(os.Stdin),
			exec.WithStdout(log.G(ctx).WriterLevel(logrus.TraceLevel)),
			exec.WithStderr(log.G(ctx).WriterLevel(logrus.WarnLevel)),
		),
	}

	if s.makefile != "" {
		mopts = append(mopts, make.WithFile(s.makefile))
	}
	if s.bin != "" {
		mopts = append(mopts, make.WithBinPath(s.bin))
	}
	if s.jobs > 0 {
		mopts = append(mopts, make.WithJobs(s.jobs))
	}
	if s.justPrint {
		mopts = append(mopts, make.WithJustPrint(true))
	}
	if s.onProgress != nil {
		mopts = append(mopts, make.WithProgressFunc(s.onProgress))
	}

	m, err := make.NewFromInterface(s.core.MakeArgs(), mopts...)
	if err != nil {
		return err
	}

	if err := m.Execute(ctx); err != nil {
		return fmt.Errorf("simulator build failed: %w", err)
	}

	if !s.justPrint {
		s.summarize(ctx, vars)
	}

	return nil
}

func (s *Simulator) checkLibs() error {
	var missing []string

	for _, lib := range core.SharedLibs(s.core.ToolsDir) {
		if fi, err := os.Stat(lib); err != nil || fi.IsDir() {
			missing = append(missing, lib)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing shared libraries: %s", strings.Join(missing, ", "))
	}

	return nil
}

func (s *Simulator) summarize(ctx context.Context, vars varResolver) {
	for _, name := range []string{rtl.OBJ_CORE_RTL_V, rtl.OBJ_CORE_RTL_O} {
		path, err := vars.Resolve(name)
		if err != nil {
			continue
		}

		fi, err := os.Stat(path)
		if err != nil {
			continue
		}

		log.G(ctx).
			WithField("size", humanize.Bytes(uint64(fi.Size()))).
			Infof("built %s", path)
	}
}

type varResolver interface {
	Resolve(name string) (string, error)
}
