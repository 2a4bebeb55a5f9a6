// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rtlkit.sh/rtl/core"
)

func TestNewRequiresDirectory(t *testing.T) {
	_, err := New(core.CoreConfig{}, "")
	require.Error(t, err)
}

func TestBuildChecksSharedLibs(t *testing.T) {
	cc := core.CoreConfig{
		Top:      "Top",
		Config:   "Default",
		ObjDir:   t.TempDir(),
		ToolsDir: t.TempDir(),
	}

	s, err := New(cc, t.TempDir())
	require.NoError(t, err)

	err = s.Build(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing shared libraries")
	assert.Contains(t, err.Error(), "libdramsim.so")
	assert.Contains(t, err.Error(), "libfesvr.so")
}

func TestOptions(t *testing.T) {
	s, err := New(core.CoreConfig{}, t.TempDir(),
		WithMakefile("sim.mk"),
		WithBinPath("gmake"),
		WithTarget("all", "debug"),
		WithJobs(8),
		WithJustPrint(true),
	)
	require.NoError(t, err)

	assert.Equal(t, "sim.mk", s.makefile)
	assert.Equal(t, "gmake", s.bin)
	assert.Equal(t, []string{"all", "debug"}, s.targets)
	assert.Equal(t, 8, s.jobs)
	assert.True(t, s.justPrint)
}
