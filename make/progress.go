// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package make

import (
	"io"
	"strings"
)

var IgnoredMakePrefixes = []string{
	"make[",
}

func countLines(b []byte) int {
	line := strings.TrimSuffix(string(b), "\n")

	var count int
	for _, line := range strings.Split(strings.ReplaceAll(line, "\r\n", "\n"), "\n") {
		ignored := false
		for _, ignore := range IgnoredMakePrefixes {
			if strings.HasPrefix(line, ignore) {
				ignored = true
				break
			}
		}

		if !ignored {
			count++
		}
	}

	return count
}

type onProgressWriter struct {
	onProgress func(float64)
	current    int
	total      int
	io.Writer
}

func (opw *onProgressWriter) Write(b []byte) (int, error) {
	opw.current += countLines(b)

	if opw.total > 0 {
		opw.onProgress(float64(opw.current) / float64(opw.total))
	}

	return len(b), nil
}

type calculateProgressWriter struct {
	io.Writer
	totalLines int
}

func (cpw *calculateProgressWriter) Write(b []byte) (int, error) {
	cpw.totalLines += countLines(b)
	return len(b), nil
}
