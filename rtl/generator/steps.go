// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"rtlkit.sh/confdb"
	"rtlkit.sh/flow"
	"rtlkit.sh/log"
	"rtlkit.sh/rtl"
)

// elaborate invokes the external generator, producing the Verilog output of
// the configured core.
func (g *Generator) elaborate(ctx context.Context, tool flow.Tool) error {
	binary, err := g.db.GetString(ConfigPrefix + ".binary")
	if err != nil {
		if !errors.Is(err, confdb.ErrNotFound) {
			return err
		}

		binary = DefaultBinaryName
	}

	out, err := g.artifact(rtl.OBJ_CORE_RTL_V)
	if err != nil {
		return err
	}

	vars, err := g.core.Vars()
	if err != nil {
		return err
	}

	top, err := vars.Resolve(rtl.CORE_TOP)
	if err != nil {
		return err
	}

	config, err := vars.Resolve(rtl.CORE_CONFIG)
	if err != nil {
		return err
	}

	args := []string{binary, "--top", top, "--config", config, "-o", out}
	args = append(args, g.inputs...)

	submitter, err := flow.NewSubmitter(g)
	if err != nil {
		return err
	}

	logFile, err := os.Create(filepath.Join(g.rundir, "elaborate.log"))
	if err != nil {
		return err
	}
	defer logFile.Close()

	if err := submitter.Submit(ctx, tool, args, logFile); err != nil {
		return fmt.Errorf("elaboration failed: %w", err)
	}

	log.G(ctx).WithField("output", out).Info("elaborated core")

	return nil
}

// params emits the parameter file of the elaborated core from the
// core.params settings subtree, one NAME=VALUE line per parameter.
func (g *Generator) params(ctx context.Context, _ flow.Tool) error {
	path, err := g.artifact(rtl.OBJ_CORE_RTL_PRM)
	if err != nil {
		return err
	}

	const prefix = "core.params"

	var b strings.Builder
	for _, key := range g.db.Keys(prefix) {
		value, err := g.db.GetString(key)
		if err != nil {
			return err
		}

		fmt.Fprintf(&b, "%s=%s\n", strings.ToUpper(strings.TrimPrefix(key, prefix+".")), value)
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// testbench emits the simulation harness driver for the elaborated core.
func (g *Generator) testbench(ctx context.Context, _ flow.Tool) error {
	path, err := g.artifact(rtl.OBJ_CORE_RTL_TB_CPP)
	if err != nil {
		return err
	}

	vars, err := g.core.Vars()
	if err != nil {
		return err
	}

	top, err := vars.Resolve(rtl.CORE_TOP)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Generated simulation driver for %s.  Do not edit.\n", top)
	fmt.Fprintf(&b, "#include \"testbench.h\"\n\n")
	fmt.Fprintf(&b, "int main(int argc, char** argv) {\n")
	fmt.Fprintf(&b, "  return run_testbench<V%s>(argc, argv);\n", top)
	fmt.Fprintf(&b, "}\n")

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// manifest writes the generated test manifest consumed by the external build
// system's test targets.
func (g *Generator) manifest(ctx context.Context, _ flow.Tool) error {
	path, err := g.artifact(rtl.OBJ_CORE_TESTS_MK)
	if err != nil {
		return err
	}

	tests, err := g.db.GetStringSlice("core.tests")
	if err != nil && !errors.Is(err, confdb.ErrNotFound) {
		return err
	}

	sort.Strings(tests)

	var b strings.Builder
	fmt.Fprintf(&b, "# Generated test manifest.  Do not edit.\n")
	fmt.Fprintf(&b, "CORE_TESTS = %s\n", strings.Join(tests, " "))

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return err
	}

	log.G(ctx).WithField("tests", len(tests)).Debug("wrote test manifest")

	return nil
}
