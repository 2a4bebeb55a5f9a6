// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package confdb

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayerPrecedence(t *testing.T) {
	db := New()

	require.NoError(t, db.FeedMap(LayerBuiltins, map[string]interface{}{
		"core": map[string]interface{}{
			"top": "Top",
		},
	}))
	require.NoError(t, db.FeedMap(LayerProject, map[string]interface{}{
		"core": map[string]interface{}{
			"top": "MyCore",
		},
	}))

	top, err := db.GetString("core.top")
	require.NoError(t, err)
	assert.Equal(t, "MyCore", top)

	// Runtime writes shadow everything.
	db.Set("core.top", "Runtime")
	top, err = db.GetString("core.top")
	require.NoError(t, err)
	assert.Equal(t, "Runtime", top)
}

func TestGetMissing(t *testing.T) {
	db := New()

	_, err := db.Get("no.such.key")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestTypedGetters(t *testing.T) {
	db := New()
	require.NoError(t, db.FeedYAMLData(LayerCore, []byte(`
core:
  jobs: 4
  quiet: true
  top: Top
  addons:
    - dramsim
    - fesvr
`)))

	jobs, err := db.GetInt("core.jobs")
	require.NoError(t, err)
	assert.Equal(t, 4, jobs)

	quiet, err := db.GetBool("core.quiet")
	require.NoError(t, err)
	assert.True(t, quiet)

	addons, err := db.GetStringSlice("core.addons")
	require.NoError(t, err)
	assert.Equal(t, []string{"dramsim", "fesvr"}, addons)

	_, err = db.GetBool("core.top")
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	db := New()
	require.NoError(t, db.FeedYAMLData(LayerTools, []byte(`
tools:
  generator:
    binary: rocket-gen
    version: 1.4.0
    jobs: 2
`)))

	var settings struct {
		Binary  string `confdb:"binary"`
		Version string `confdb:"version"`
		Jobs    int    `confdb:"jobs"`
	}

	require.NoError(t, db.Decode("tools.generator", &settings))
	assert.Equal(t, "rocket-gen", settings.Binary)
	assert.Equal(t, "1.4.0", settings.Version)
	assert.Equal(t, 2, settings.Jobs)
}

func TestKeysPrefix(t *testing.T) {
	db := New()
	require.NoError(t, db.FeedMap(LayerCore, map[string]interface{}{
		"core.top":    "Top",
		"core.config": "Default",
		"sim.binary":  "verilator",
	}))

	assert.Equal(t, []string{"core.config", "core.top"}, db.Keys("core"))
}

func TestFeedDefaults(t *testing.T) {
	first := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(first, "defaults.yaml"), []byte(
		"tools:\n  generator:\n    binary: bundled-gen\n    flags: -O2\n",
	), 0o644))

	second := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(second, "defaults.yaml"), []byte(
		"tools:\n  generator:\n    binary: local-gen\n",
	), 0o644))

	db := New()
	// A directory without a defaults.yaml is skipped, later directories
	// shadow earlier ones within the layer.
	require.NoError(t, db.FeedDefaults(LayerTools, t.TempDir(), first, second))

	binary, err := db.GetString("tools.generator.binary")
	require.NoError(t, err)
	assert.Equal(t, "local-gen", binary)

	flags, err := db.GetString("tools.generator.flags")
	require.NoError(t, err)
	assert.Equal(t, "-O2", flags)
}

func TestDumpJSON(t *testing.T) {
	db := New()
	require.NoError(t, db.FeedMap(LayerCore, map[string]interface{}{
		"core.top": "Top",
	}))
	db.Set("core.outputs.is_complete", false)

	dir := t.TempDir()
	path, err := db.DumpJSON(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "database.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var snapshot map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &snapshot))
	assert.Equal(t, "Top", snapshot["core.top"])
	assert.Equal(t, false, snapshot["core.outputs.is_complete"])
}
