// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package main

import (
	"os"

	"rtlkit.sh/internal/cli/rtlgen"
)

func main() {
	os.Exit(rtlgen.Main(os.Args))
}
