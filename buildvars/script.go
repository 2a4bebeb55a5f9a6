// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package buildvars

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Script writes the resolved table as a POSIX shell script of export
// statements, one per variable, sorted by name.  Sourcing the script
// reproduces the environment of the build invocation.
func (s *Set) Script(w io.Writer) error {
	resolved, err := s.ResolveAll()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(resolved))
	for name := range resolved {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := fmt.Fprintf(w, "export %s=%s\n", name, quote(resolved[name])); err != nil {
			return err
		}
	}

	return nil
}

// quote renders a value for a POSIX shell.  Plain values still get double
// quotes for readability, e.g. export X="9" rather than export X=9.
func quote(val string) string {
	if val == "" {
		return `""`
	}

	if !strings.ContainsAny(val, " \t\n\"'`$\\!*?[]{}()<>|&;~#%^") {
		return `"` + val + `"`
	}

	return "'" + strings.ReplaceAll(val, "'", `'"'"'`) + "'"
}
