// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarsDerivedPaths(t *testing.T) {
	cc := CoreConfig{
		Top:    "Top",
		Config: "Default",
		ObjDir: "/obj",
	}

	vars, err := cc.Vars()
	require.NoError(t, err)

	for name, want := range map[string]string{
		"OBJ_CORE_RTL_V":      "/obj/Top.Default.v",
		"OBJ_CORE_RTL_D":      "/obj/Top.Default.d",
		"OBJ_CORE_RTL_TB_CPP": "/obj/Top.Default.tb.cc",
		"OBJ_CORE_RTL_PRM":    "/obj/Top.Default.prm",
		"OBJ_CORE_RTL_O":      "/obj/Top.Default.o",
		"OBJ_CORE_TESTS_MK":   "/obj/Top.Default.tests.mk",
	} {
		resolved, err := vars.Resolve(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, resolved, name)
	}
}

func TestVarsOverrideNeverClobbered(t *testing.T) {
	cc := CoreConfig{
		ObjDir:    "/obj",
		Overrides: []string{"OBJ_CORE_RTL_V=/elsewhere/core.v"},
	}

	vars, err := cc.Vars()
	require.NoError(t, err)

	resolved, err := vars.Resolve("OBJ_CORE_RTL_V")
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere/core.v", resolved)

	// The unconditional default remains visible under the RC_ prefix.
	fallback, err := vars.Resolve("RC_OBJ_CORE_RTL_V")
	require.NoError(t, err)
	assert.Equal(t, "/obj/Top.Default.v", fallback)
}

func TestVarsDefaultTopAndConfig(t *testing.T) {
	vars, err := CoreConfig{ObjDir: "/obj"}.Vars()
	require.NoError(t, err)

	top, err := vars.Resolve("CORE_TOP")
	require.NoError(t, err)
	assert.Equal(t, "Top", top)

	config, err := vars.Resolve("CORE_CONFIG")
	require.NoError(t, err)
	assert.Equal(t, "Default", config)
}

func TestVarsSharedLibs(t *testing.T) {
	vars, err := CoreConfig{ObjDir: "/obj", ToolsDir: "/tools"}.Vars()
	require.NoError(t, err)

	libs, err := vars.Resolve("CORE_RTL_LIBS")
	require.NoError(t, err)
	assert.Equal(t, "/tools/dramsim/libdramsim.so /tools/fesvr/libfesvr.so", libs)
}

func TestAddonFiles(t *testing.T) {
	addons := t.TempDir()
	for _, name := range []string{"rom.v", "uart.v", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(addons, name), nil, 0o644))
	}

	cc := CoreConfig{ObjDir: "/obj", AddonsDir: addons}

	files, err := cc.AddonFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"$(OBJ_CORE_DIR)/rom.v",
		"$(OBJ_CORE_DIR)/uart.v",
	}, files)

	vars, err := cc.Vars()
	require.NoError(t, err)

	resolved, err := vars.Resolve("CORE_ADDON_FILES")
	require.NoError(t, err)
	assert.Equal(t, "/obj/rom.v /obj/uart.v", resolved)
}

func TestAddonFilesNoDir(t *testing.T) {
	files, err := CoreConfig{ObjDir: "/obj"}.AddonFiles()
	require.NoError(t, err)
	assert.Empty(t, files)

	vars, err := CoreConfig{ObjDir: "/obj"}.Vars()
	require.NoError(t, err)
	assert.False(t, vars.Has("CORE_ADDON_FILES"))
}

func TestCheckArtifacts(t *testing.T) {
	obj := t.TempDir()
	tools := t.TempDir()

	cc := CoreConfig{Top: "Top", Config: "Default", ObjDir: obj, ToolsDir: tools}

	err := cc.CheckArtifacts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing artifacts")

	artifacts, err := cc.Artifacts()
	require.NoError(t, err)

	for _, artifact := range append(artifacts, SharedLibs(tools)...) {
		require.NoError(t, os.MkdirAll(filepath.Dir(artifact), 0o755))
		require.NoError(t, os.WriteFile(artifact, nil, 0o644))
	}

	assert.NoError(t, cc.CheckArtifacts(context.Background()))
}
