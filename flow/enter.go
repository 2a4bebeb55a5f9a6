// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package flow

import (
	"fmt"
	"os"
	"path/filepath"

	"rtlkit.sh/buildvars"
)

// EnterScript writes a shell script into the tool's run directory which
// exports the tool's environment variables.  Sourcing it reproduces the
// environment of the tool for interactive debugging.
func EnterScript(tool Tool) (string, error) {
	vars := buildvars.NewSet()
	for k, v := range tool.EnvVars() {
		vars.Override(k, v)
	}

	path := filepath.Join(tool.RunDir(), "enter")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o755)
	if err != nil {
		return "", fmt.Errorf("could not create enter script: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, "#!/bin/sh"); err != nil {
		return "", err
	}
	if err := vars.Script(f); err != nil {
		return "", err
	}

	return path, nil
}
