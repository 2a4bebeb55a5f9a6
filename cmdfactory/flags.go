// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package cmdfactory

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// VarPF is like VarP, but returns the flag created
func VarPF(value pflag.Value, name, shorthand, usage string) *pflag.Flag {
	flag := &pflag.Flag{
		Name:      name,
		Shorthand: shorthand,
		Usage:     usage,
		Value:     value,
		DefValue:  value.String(),
	}

	return flag
}

// EnumFlag is a flag value restricted to a fixed set of strings.
type EnumFlag struct {
	Allowed []string
	Value   string
}

// NewEnumFlag gives a list of allowed flag parameters, where the second
// argument is the default
func NewEnumFlag(allowed []string, d string) *EnumFlag {
	return &EnumFlag{
		Allowed: allowed,
		Value:   d,
	}
}

func (a *EnumFlag) String() string {
	return a.Value
}

func (a *EnumFlag) Set(p string) error {
	for _, opt := range a.Allowed {
		if p == opt {
			a.Value = p
			return nil
		}
	}

	return fmt.Errorf("%s is not included in: %s", p, strings.Join(a.Allowed, ", "))
}

func (a *EnumFlag) Type() string {
	return "string"
}
