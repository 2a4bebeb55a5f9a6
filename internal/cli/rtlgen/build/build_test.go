// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package build

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rtlkit.sh/config"
	"rtlkit.sh/rtl/generator"
)

func TestDatabaseBinaryDefault(t *testing.T) {
	cfg := &config.RTLKit{Generator: "rtl-generator"}

	opts := &BuildOptions{}
	db, err := opts.database(cfg, t.TempDir())
	require.NoError(t, err)

	binary, err := db.GetString(generator.ConfigPrefix + ".binary")
	require.NoError(t, err)
	assert.Equal(t, "rtl-generator", binary)
}

func TestDatabaseProjectOverridesDefault(t *testing.T) {
	project := filepath.Join(t.TempDir(), "project.yaml")
	require.NoError(t, os.WriteFile(project, []byte(
		"tools:\n  generator:\n    binary: my-custom-gen\n",
	), 0o644))

	cfg := &config.RTLKit{Generator: "rtl-generator"}

	opts := &BuildOptions{Project: project}
	db, err := opts.database(cfg, t.TempDir())
	require.NoError(t, err)

	// The project layer sits above the builtin default.
	binary, err := db.GetString(generator.ConfigPrefix + ".binary")
	require.NoError(t, err)
	assert.Equal(t, "my-custom-gen", binary)
}

func TestDatabaseToolDefaults(t *testing.T) {
	toolsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(toolsDir, "defaults.yaml"), []byte(
		"tools:\n  generator:\n    binary: bundled-gen\n    flags: -O2\n",
	), 0o644))

	project := filepath.Join(t.TempDir(), "project.yaml")
	require.NoError(t, os.WriteFile(project, []byte(
		"tools:\n  generator:\n    binary: my-custom-gen\n",
	), 0o644))

	cfg := &config.RTLKit{Generator: "rtl-generator"}
	cfg.Paths.Tools = toolsDir

	opts := &BuildOptions{Project: project}
	db, err := opts.database(cfg, t.TempDir())
	require.NoError(t, err)

	// Tool defaults beat the builtin, the project file beats both.
	binary, err := db.GetString(generator.ConfigPrefix + ".binary")
	require.NoError(t, err)
	assert.Equal(t, "my-custom-gen", binary)

	flags, err := db.GetString(generator.ConfigPrefix + ".flags")
	require.NoError(t, err)
	assert.Equal(t, "-O2", flags)
}
