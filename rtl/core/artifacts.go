// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"rtlkit.sh/rtl"
)

// SharedLibs returns the shared-library artifacts the simulator link step
// requires, one per external tool subproject.
func SharedLibs(toolsDir string) []string {
	return []string{
		filepath.Join(toolsDir, rtl.DramsimSubproject, "libdramsim.so"),
		filepath.Join(toolsDir, rtl.FesvrSubproject, "libfesvr.so"),
	}
}

// Artifacts resolves the paths the generation flow is expected to produce
// for this core configuration.
func (cc CoreConfig) Artifacts() ([]string, error) {
	vars, err := cc.Vars()
	if err != nil {
		return nil, err
	}

	var artifacts []string
	for _, name := range []string{
		rtl.OBJ_CORE_RTL_V,
		rtl.OBJ_CORE_RTL_TB_CPP,
		rtl.OBJ_CORE_RTL_PRM,
		rtl.OBJ_CORE_TESTS_MK,
	} {
		resolved, err := vars.Resolve(name)
		if err != nil {
			return nil, err
		}

		artifacts = append(artifacts, resolved)
	}

	return artifacts, nil
}

// CheckArtifacts verifies concurrently that every expected artifact and
// required shared library exists, reporting all missing files at once.
func (cc CoreConfig) CheckArtifacts(ctx context.Context) error {
	artifacts, err := cc.Artifacts()
	if err != nil {
		return err
	}

	artifacts = append(artifacts, SharedLibs(cc.ToolsDir)...)

	missing := make([]string, len(artifacts))

	eg, _ := errgroup.WithContext(ctx)
	for i, artifact := range artifacts {
		i, artifact := i, artifact
		eg.Go(func() error {
			if fi, err := os.Stat(artifact); err != nil || fi.IsDir() {
				missing[i] = artifact
			}

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	var report []string
	for _, m := range missing {
		if m != "" {
			report = append(report, m)
		}
	}

	if len(report) > 0 {
		return fmt.Errorf("missing artifacts: %s", strings.Join(report, ", "))
	}

	return nil
}
