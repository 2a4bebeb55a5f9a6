// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package core maps a chip core configuration onto the variable table the
// external build system consumes.  Every derived path is recorded as a
// default so that values pre-set by the caller win.
package core

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"rtlkit.sh/buildvars"
	"rtlkit.sh/rtl"
)

const (
	// DefaultTop is the top module elaborated when no other is selected.
	DefaultTop = "Top"

	// DefaultConfig is the core parameterization selected when no other
	// is named.
	DefaultConfig = "Default"

	// DefaultAddonPattern matches the addon sources picked up from a
	// configured addons directory.
	DefaultAddonPattern = "*.v"
)

// CoreConfig names a parameterization of the chip design and the directories
// its build artifacts live in.
type CoreConfig struct {
	// Top is the top module to elaborate.
	Top string

	// Config is the named core parameterization.
	Config string

	// ObjDir receives the generated object artifacts.
	ObjDir string

	// GenDir receives intermediate generator output.
	GenDir string

	// ToolsDir holds the external tool subprojects.
	ToolsDir string

	// AddonsDir optionally holds addon RTL sources.
	AddonsDir string

	// AddonPattern matches addon sources under AddonsDir.  Empty selects
	// DefaultAddonPattern.
	AddonPattern string

	// Overrides are caller-provided KEY=VALUE pairs which are never
	// clobbered by the derived defaults.
	Overrides []string
}

// Vars builds the variable table for this core configuration.  Caller
// overrides are applied first, then the directory inputs, then every derived
// path as a conditional default.
func (cc CoreConfig) Vars() (*buildvars.Set, error) {
	vars := buildvars.NewSet(cc.Overrides...)

	for name, value := range map[string]string{
		rtl.OBJ_CORE_DIR: cc.ObjDir,
		rtl.GEN_DIR:      cc.GenDir,
		rtl.TOOLS_DIR:    cc.ToolsDir,
		rtl.ADDONS_DIR:   cc.AddonsDir,
	} {
		if value != "" && !vars.Has(name) {
			vars.Override(name, value)
		}
	}

	top := cc.Top
	if top == "" {
		top = DefaultTop
	}

	config := cc.Config
	if config == "" {
		config = DefaultConfig
	}

	vars.Default(rtl.CORE_TOP, top)
	vars.Default(rtl.CORE_CONFIG, config)

	base := "$(OBJ_CORE_DIR)/$(CORE_TOP).$(CORE_CONFIG)"

	vars.Default(rtl.OBJ_CORE_RTL_V, base+".v")
	vars.Default(rtl.OBJ_CORE_RTL_D, base+".d")
	vars.Default(rtl.OBJ_CORE_RTL_TB_CPP, base+".tb.cc")
	vars.Default(rtl.OBJ_CORE_RTL_PRM, base+".prm")
	vars.Default(rtl.OBJ_CORE_RTL_H, base+".prm.h $(GEN_DIR)/testbench.h")
	vars.Default(rtl.OBJ_CORE_RTL_C, "$(GEN_DIR)/testbench.cc $(GEN_DIR)/emulator.cc")
	vars.Default(rtl.OBJ_CORE_RTL_I, "-I$(GEN_DIR) -I$(TOOLS_DIR)/fesvr -I$(TOOLS_DIR)/dramsim")
	vars.Default(rtl.OBJ_CORE_RTL_O, base+".o")
	vars.Default(rtl.OBJ_CORE_TESTS_MK, base+".tests.mk")
	vars.Default(rtl.CORE_RTL_LIBS,
		"$(TOOLS_DIR)/dramsim/libdramsim.so $(TOOLS_DIR)/fesvr/libfesvr.so",
	)

	if cc.AddonsDir != "" {
		addons, err := cc.AddonFiles()
		if err != nil {
			return nil, err
		}

		if len(addons) > 0 {
			vars.Default(rtl.CORE_ADDON_FILES, strings.Join(addons, " "))
		}
	}

	return vars, nil
}

// AddonFiles lists the addon sources under the configured addons directory,
// rewritten with the object directory prefix in place of the addons prefix.
// The match pattern applies to the path relative to the addons directory.
func (cc CoreConfig) AddonFiles() ([]string, error) {
	if cc.AddonsDir == "" {
		return nil, nil
	}

	pattern := cc.AddonPattern
	if pattern == "" {
		pattern = DefaultAddonPattern
	}

	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("could not compile addon pattern %q: %w", pattern, err)
	}

	matches, err := filepath.Glob(filepath.Join(cc.AddonsDir, "*"))
	if err != nil {
		return nil, err
	}

	var files []string
	for _, match := range matches {
		rel, err := filepath.Rel(cc.AddonsDir, match)
		if err != nil {
			return nil, err
		}

		if !g.Match(rel) {
			continue
		}

		files = append(files, filepath.Join("$(OBJ_CORE_DIR)", rel))
	}

	sort.Strings(files)

	return files, nil
}
