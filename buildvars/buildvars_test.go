// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package buildvars

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultDoesNotClobber(t *testing.T) {
	s := NewSet("CORE_TOP=MyCore")
	s.Default("CORE_TOP", "Top")

	got, err := s.Resolve("CORE_TOP")
	if err != nil {
		t.Fatal(err)
	}
	if got != "MyCore" {
		t.Errorf("expected pre-set value to survive, got %q", got)
	}

	// The unconditional copy always reflects the default.
	rc, err := s.Resolve(DefaultPrefix + "CORE_TOP")
	if err != nil {
		t.Fatal(err)
	}
	if rc != "Top" {
		t.Errorf("expected RC_CORE_TOP=Top, got %q", rc)
	}
}

func TestDefaultAppliesWhenUnset(t *testing.T) {
	s := NewSet()
	s.Default("CORE_TOP", "Top")

	got, err := s.Resolve("CORE_TOP")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Top" {
		t.Errorf("expected default to apply, got %q", got)
	}
}

func TestResolveDerivedPath(t *testing.T) {
	s := NewSet()
	s.Override("OBJ_CORE_DIR", "/obj")
	s.Default("CORE_TOP", "Top")
	s.Override("CORE_CONFIG", "Default")
	s.Default("OBJ_CORE_RTL_V", "$(OBJ_CORE_DIR)/$(CORE_TOP).$(CORE_CONFIG).v")

	got, err := s.Resolve("OBJ_CORE_RTL_V")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/obj/Top.Default.v" {
		t.Errorf("expected /obj/Top.Default.v, got %q", got)
	}
}

func TestExpand(t *testing.T) {
	s := NewSet()
	s.Override("A", "a")
	s.Override("B", "$(A)b")

	testCases := []struct {
		desc   string
		value  string
		expect string
	}{
		{
			desc:   "plain value passes through",
			value:  "hello",
			expect: "hello",
		},
		{
			desc:   "single reference",
			value:  "$(A)",
			expect: "a",
		},
		{
			desc:   "nested reference",
			value:  "x/$(B)",
			expect: "x/ab",
		},
		{
			desc:   "undefined reference expands to empty",
			value:  "x$(MISSING)y",
			expect: "xy",
		},
		{
			desc:   "unterminated reference is literal",
			value:  "x$(A",
			expect: "x$(A",
		},
		{
			desc:   "adjacent references",
			value:  "$(A)$(A)",
			expect: "aa",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := s.Expand(tc.value)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.expect {
				t.Errorf("expected %q, got %q", tc.expect, got)
			}
		})
	}
}

func TestExpandCycle(t *testing.T) {
	s := NewSet()
	s.Override("A", "$(B)")
	s.Override("B", "$(A)")

	if _, err := s.Resolve("A"); !errors.Is(err, ErrCyclicReference) {
		t.Errorf("expected ErrCyclicReference, got %v", err)
	}

	// Self-reference is the degenerate cycle.
	s.Override("C", "$(C)")
	if _, err := s.Resolve("C"); !errors.Is(err, ErrCyclicReference) {
		t.Errorf("expected ErrCyclicReference, got %v", err)
	}
}

func TestEnvironOrder(t *testing.T) {
	s := NewSet()
	s.Override("Z", "1")
	s.Override("A", "2")
	s.Default("M", "3")

	environ, err := s.Environ()
	if err != nil {
		t.Fatal(err)
	}

	expect := []string{"Z=1", "A=2", "RC_M=3", "M=3"}
	if len(environ) != len(expect) {
		t.Fatalf("expected %d entries, got %d: %v", len(expect), len(environ), environ)
	}
	for i := range expect {
		if environ[i] != expect[i] {
			t.Errorf("entry %d: expected %q, got %q", i, expect[i], environ[i])
		}
	}
}

func TestUndefined(t *testing.T) {
	s := NewSet()
	s.Override("A", "$(B)/x")

	missing := s.Undefined("$(A) $(C)")
	if len(missing) != 2 {
		t.Fatalf("expected 2 undefined references, got %v", missing)
	}
	if missing[0] != "B" || missing[1] != "C" {
		t.Errorf("expected [B C], got %v", missing)
	}
}

func TestOverrideReplacesValueKeepsOrder(t *testing.T) {
	s := NewSet()
	s.Override("A", "1")
	s.Override("B", "2")
	s.Override("A", "3")

	names := s.Names()
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Errorf("expected [A B], got %v", names)
	}

	got, _ := s.Get("A")
	if got != "3" {
		t.Errorf("expected A=3, got %q", got)
	}
}

func TestScript(t *testing.T) {
	s := NewSet()
	s.Override("B", "plain")
	s.Override("A", "with space")
	s.Override("C", "")
	s.Override("D", "it's")

	var b strings.Builder
	if err := s.Script(&b); err != nil {
		t.Fatal(err)
	}

	expect := strings.Join([]string{
		`export A='with space'`,
		`export B="plain"`,
		`export C=""`,
		`export D='it'"'"'s'`,
	}, "\n") + "\n"

	if b.String() != expect {
		t.Errorf("unexpected script output:\n%s\nwant:\n%s", b.String(), expect)
	}
}
