// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c, err := NewDefaultRTLKitConfig()
	require.NoError(t, err)

	assert.Equal(t, "make", c.MakeBin)
	assert.Equal(t, "rtl-generator", c.Generator)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "basic", c.Log.Type)
	assert.False(t, c.NoPrompt)
	assert.NotEmpty(t, c.Paths.Config)
	assert.NotEmpty(t, c.Paths.Obj)
}

func TestYamlFeeder(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("make_bin: gmake\nlog:\n  level: debug\n"), 0o644))

	cm, err := NewConfigManager(WithFile(file, false))
	require.NoError(t, err)

	assert.Equal(t, "gmake", cm.Config.MakeBin)
	assert.Equal(t, "debug", cm.Config.Log.Level)
	// Untouched values keep their defaults.
	assert.Equal(t, "rtl-generator", cm.Config.Generator)
}

func TestEnvFeeder(t *testing.T) {
	t.Setenv("RTLKIT_MAKE_BIN", "remake")
	t.Setenv("RTLKIT_JOBS", "4")
	t.Setenv("RTLKIT_NO_PROMPT", "true")
	t.Setenv("RTLKIT_LOG_LEVEL", "trace")

	cm, err := NewConfigManager(WithFeeder(EnvFeeder{}))
	require.NoError(t, err)

	assert.Equal(t, "remake", cm.Config.MakeBin)
	assert.Equal(t, 4, cm.Config.Jobs)
	assert.True(t, cm.Config.NoPrompt)
	assert.Equal(t, "trace", cm.Config.Log.Level)
}

func TestEnvOverridesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("make_bin: make\ngenerator: rtl-generator\n"), 0o644))

	t.Setenv("RTLKIT_MAKE_BIN", "gmake")

	// Feeders apply in registration order, so the environment feeder must
	// come after the file feeder for RTLKIT_* variables to win.
	cm, err := NewConfigManager(WithFile(file, false), WithFeeder(EnvFeeder{}))
	require.NoError(t, err)

	assert.Equal(t, "gmake", cm.Config.MakeBin)
	// Fields without an environment override keep the file values.
	assert.Equal(t, "rtl-generator", cm.Config.Generator)
}

func TestWithFileCreates(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")

	_, err := NewConfigManager(WithFile(file, true))
	require.NoError(t, err)

	_, err = os.Stat(file)
	assert.NoError(t, err)
}

func TestRefeedPicksUpEdits(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("make_bin: make\n"), 0o644))

	cm, err := NewConfigManager(WithFile(file, false))
	require.NoError(t, err)
	require.Equal(t, "make", cm.Config.MakeBin)

	// SetupListener re-feeds on SIGHUP; the reload path is Feed itself.
	cm.SetupListener(func(err error) { t.Errorf("reload failed: %v", err) })

	require.NoError(t, os.WriteFile(file, []byte("make_bin: gmake\n"), 0o644))
	require.NoError(t, cm.Feed())

	assert.Equal(t, "gmake", cm.Config.MakeBin)
}

func TestAllowedValues(t *testing.T) {
	assert.Contains(t, AllowedValues("log.type"), "basic")
	assert.Empty(t, AllowedValues("make_bin"))
}
