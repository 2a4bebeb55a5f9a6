// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package exec

import (
	"strings"
	"testing"
)

type fakeArgs struct {
	Directory string   `flag:"-C"`
	Silent    bool     `flag:"-s"`
	Jobs      *int     `flag:"-j,omitvalueif=0"`
	Files     []string `flag:"-f"`
	Ignored   string
}

func TestParseInterfaceArgs(t *testing.T) {
	four := 4
	zero := 0

	testCases := []struct {
		desc   string
		face   fakeArgs
		expect string
	}{
		{
			desc:   "empty struct yields no args",
			face:   fakeArgs{},
			expect: "",
		},
		{
			desc:   "string flag with value",
			face:   fakeArgs{Directory: "/build"},
			expect: "-C /build",
		},
		{
			desc:   "bool flag included only when true",
			face:   fakeArgs{Silent: true},
			expect: "-s",
		},
		{
			desc:   "pointer int with value",
			face:   fakeArgs{Jobs: &four},
			expect: "-j 4",
		},
		{
			desc:   "pointer int omits value when matching omitvalueif",
			face:   fakeArgs{Jobs: &zero},
			expect: "-j",
		},
		{
			desc:   "slice repeats the flag",
			face:   fakeArgs{Files: []string{"a.mk", "b.mk"}},
			expect: "-f a.mk -f b.mk",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			args, err := ParseInterfaceArgs(tc.face)
			if err != nil {
				t.Fatal(err)
			}

			got := strings.Join(args, " ")
			if got != tc.expect {
				t.Errorf("expected %q, got %q", tc.expect, got)
			}
		})
	}
}

func TestParseInterfaceArgsRejectsPointer(t *testing.T) {
	if _, err := ParseInterfaceArgs(&fakeArgs{}); err == nil {
		t.Error("expected error for pointer argument")
	}
}

func TestNewExecutableSplitsBin(t *testing.T) {
	e, err := NewExecutable("make -s", nil, "all")
	if err != nil {
		t.Fatal(err)
	}

	if e.Bin() != "make" {
		t.Errorf("expected bin make, got %q", e.Bin())
	}

	got := strings.Join(e.Args(), " ")
	if got != "-s all" {
		t.Errorf("expected args \"-s all\", got %q", got)
	}
}

func TestNewExecutableEmptyBin(t *testing.T) {
	if _, err := NewExecutable("", nil); err == nil {
		t.Error("expected error for empty binary")
	}
}
