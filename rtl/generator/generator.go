// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package generator implements the RTL elaboration tool of the generation
// flow.  It invokes the external hardware generator, derives the parameter
// and testbench artifacts and records its outputs back into the settings
// database.
package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rtlkit.sh/confdb"
	"rtlkit.sh/flow"
	"rtlkit.sh/log"
	"rtlkit.sh/rtl"
	"rtlkit.sh/rtl/core"
)

// ConfigPrefix is the settings prefix of the generator tool.
const ConfigPrefix = "tools.generator"

// DefaultBinaryName is the external generator invoked by the elaborate step.
const DefaultBinaryName = "rtl-generator"

type Generator struct {
	core   core.CoreConfig
	db     *confdb.Database
	rundir string
	inputs []string
}

// GeneratorOption configures the generator tool ahead of its run.
type GeneratorOption func(*Generator) error

// WithInputFiles provides the RTL sources handed to the elaborate step.
func WithInputFiles(files ...string) GeneratorOption {
	return func(g *Generator) error {
		g.inputs = append(g.inputs, files...)
		return nil
	}
}

// New instantiates the generator tool for the given core configuration.
func New(cc core.CoreConfig, db *confdb.Database, rundir string, opts ...GeneratorOption) (*Generator, error) {
	if rundir == "" {
		return nil, fmt.Errorf("generator requires a run directory")
	}

	g := &Generator{
		core:   cc,
		db:     db,
		rundir: rundir,
	}

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}

	return g, nil
}

func (g *Generator) Name() string {
	return "generator"
}

func (g *Generator) ConfigPrefix() string {
	return ConfigPrefix
}

func (g *Generator) RunDir() string {
	return g.rundir
}

func (g *Generator) Database() *confdb.Database {
	return g.db
}

func (g *Generator) EnvVars() map[string]string {
	vars, err := g.core.Vars()
	if err != nil {
		return nil
	}

	environ, err := vars.Environ()
	if err != nil {
		return nil
	}

	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			env[k] = v
		}
	}

	return env
}

func (g *Generator) Steps() []flow.Step {
	return []flow.Step{
		flow.NewStep("elaborate", g.elaborate),
		flow.NewStep("params", g.params),
		flow.NewStep("testbench", g.testbench),
		flow.NewStep("manifest", g.manifest),
	}
}

// PreSteps validates the input sources and, when a version constraint is
// configured, the external generator version.  It also drops an enter script
// into the run directory for interactive debugging.
func (g *Generator) PreSteps(ctx context.Context, first flow.Step) error {
	if len(g.inputs) > 0 {
		if err := flow.CheckInputFiles(g.inputs, rtl.InputExtensions()); err != nil {
			return err
		}
	}

	if script, err := flow.EnterScript(g); err == nil {
		log.G(ctx).WithField("script", script).Debug("wrote enter script")
	}

	constraint, err := g.db.GetString(ConfigPrefix + ".version_constraint")
	if err != nil {
		if errors.Is(err, confdb.ErrNotFound) {
			return nil
		}

		return err
	}

	return flow.CheckVersion(g, constraint)
}

// FillOutputs records the produced artifact paths under core.outputs so that
// downstream tools can pick them up from the database.
func (g *Generator) FillOutputs(ctx context.Context) error {
	vars, err := g.core.Vars()
	if err != nil {
		return err
	}

	complete := true

	for key, name := range map[string]string{
		"core.outputs.rtl":       rtl.OBJ_CORE_RTL_V,
		"core.outputs.params":    rtl.OBJ_CORE_RTL_PRM,
		"core.outputs.testbench": rtl.OBJ_CORE_RTL_TB_CPP,
		"core.outputs.tests_mk":  rtl.OBJ_CORE_TESTS_MK,
	} {
		path, err := vars.Resolve(name)
		if err != nil {
			return err
		}

		g.db.Set(key, path)

		if fi, err := os.Stat(path); err != nil || fi.IsDir() {
			complete = false
		}
	}

	g.db.Set("core.outputs.is_complete", complete)

	if !complete {
		log.G(ctx).Warn("generator outputs are incomplete")
	}

	return nil
}

func (g *Generator) artifact(name string) (string, error) {
	vars, err := g.core.Vars()
	if err != nil {
		return "", err
	}

	path, err := vars.Resolve(name)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	return path, nil
}
