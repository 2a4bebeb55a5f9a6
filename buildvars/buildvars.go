// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package buildvars implements the build-variable table handed to external
// build tooling.  Every default is recorded twice: once unconditionally under
// a reserved prefix, and once under the plain name only if the caller has not
// already set it.  This mirrors the `RC_FOO := ...` / `FOO ?= $(RC_FOO)`
// convention used by make-based RTL build flows.
package buildvars

import (
	"fmt"
	"strings"
)

// DefaultPrefix is prepended to the name under which the unconditional copy
// of every default value is recorded.
const DefaultPrefix = "RC_"

var ErrCyclicReference = fmt.Errorf("cyclic variable reference")

// Variable is a single named build variable.  Values may reference other
// variables with the `$(NAME)` syntax and are expanded lazily at resolution
// time.
type Variable struct {
	Name  string
	Value string
}

// Set is an ordered collection of build variables.  Declaration order is
// preserved so that serialized output is reproducible.
type Set struct {
	order []string
	vars  map[string]*Variable
}

// NewSet builds a Set from zero or more KEY=VALUE strings, each treated as a
// caller-provided override.
func NewSet(values ...string) *Set {
	s := &Set{
		vars: map[string]*Variable{},
	}

	for _, kv := range values {
		tokens := strings.SplitN(kv, "=", 2)
		if len(tokens) == 1 {
			s.Override(tokens[0], "")
		} else {
			s.Override(tokens[0], tokens[1])
		}
	}

	return s
}

func (s *Set) set(name, value string) {
	if v, ok := s.vars[name]; ok {
		v.Value = value
		return
	}

	s.vars[name] = &Variable{Name: name, Value: value}
	s.order = append(s.order, name)
}

// Override assigns a value unconditionally, the `FOO = ...` form.
func (s *Set) Override(name, value string) *Set {
	s.set(name, value)
	return s
}

// Default records the unconditional default under DefaultPrefix+name and
// assigns name only when the caller has not already set it, the
// `RC_FOO := ...` and `FOO ?= $(RC_FOO)` pair.  A pre-set value is never
// clobbered.
func (s *Set) Default(name, value string) *Set {
	s.set(DefaultPrefix+name, value)

	if _, ok := s.vars[name]; !ok {
		s.set(name, "$("+DefaultPrefix+name+")")
	}

	return s
}

// Has reports whether name is present, defaulted or otherwise.
func (s *Set) Has(name string) bool {
	_, ok := s.vars[name]
	return ok
}

// Get returns the raw (unexpanded) value of name.
func (s *Set) Get(name string) (string, bool) {
	v, ok := s.vars[name]
	if !ok {
		return "", false
	}

	return v.Value, true
}

// Names returns all variable names in declaration order.
func (s *Set) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

func (s *Set) Len() int {
	return len(s.order)
}

// Expand substitutes `$(NAME)` references in value, recursively.  References
// to undefined variables expand to the empty string, matching make.  A
// self-referential chain yields ErrCyclicReference.
func (s *Set) Expand(value string) (string, error) {
	return s.expand(value, map[string]bool{})
}

// Resolve returns the fully expanded value of name.
func (s *Set) Resolve(name string) (string, error) {
	v, ok := s.vars[name]
	if !ok {
		return "", nil
	}

	return s.expand(v.Value, map[string]bool{name: true})
}

// ResolveAll returns the fully expanded value of every variable, keyed by
// name.
func (s *Set) ResolveAll() (map[string]string, error) {
	resolved := make(map[string]string, len(s.order))

	for _, name := range s.order {
		value, err := s.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("could not resolve %s: %w", name, err)
		}

		resolved[name] = value
	}

	return resolved, nil
}

// Environ returns the resolved table as a KEY=VALUE slice in declaration
// order, suitable for a process environment or a make command line.
func (s *Set) Environ() ([]string, error) {
	environ := make([]string, 0, len(s.order))

	for _, name := range s.order {
		value, err := s.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("could not resolve %s: %w", name, err)
		}

		environ = append(environ, name+"="+value)
	}

	return environ, nil
}

// Undefined returns the names referenced by value (transitively) which are
// not defined in the set.
func (s *Set) Undefined(value string) []string {
	var missing []string
	seen := map[string]bool{}

	var walk func(string)
	walk = func(val string) {
		for _, ref := range references(val) {
			if seen[ref] {
				continue
			}
			seen[ref] = true

			v, ok := s.vars[ref]
			if !ok {
				missing = append(missing, ref)
				continue
			}

			walk(v.Value)
		}
	}

	walk(value)
	return missing
}

func (s *Set) expand(value string, visiting map[string]bool) (string, error) {
	var b strings.Builder

	for i := 0; i < len(value); {
		start := strings.Index(value[i:], "$(")
		if start < 0 {
			b.WriteString(value[i:])
			break
		}
		start += i

		end := strings.IndexByte(value[start:], ')')
		if end < 0 {
			b.WriteString(value[i:])
			break
		}
		end += start

		b.WriteString(value[i:start])

		name := value[start+2 : end]
		if visiting[name] {
			return "", fmt.Errorf("%w: %s", ErrCyclicReference, name)
		}

		if v, ok := s.vars[name]; ok {
			visiting[name] = true
			expanded, err := s.expand(v.Value, visiting)
			if err != nil {
				return "", err
			}
			delete(visiting, name)

			b.WriteString(expanded)
		}

		i = end + 1
	}

	return b.String(), nil
}

func references(value string) []string {
	var refs []string

	for i := 0; i < len(value); {
		start := strings.Index(value[i:], "$(")
		if start < 0 {
			break
		}
		start += i

		end := strings.IndexByte(value[start:], ')')
		if end < 0 {
			break
		}
		end += start

		refs = append(refs, value[start+2:end])
		i = end + 1
	}

	return refs
}
