// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package exec

import (
	"fmt"
	"reflect"
	"strings"
)

type Executable struct {
	bin  string
	args []string
}

// NewExecutable accepts an input argument bin which is the path or executable
// name to be ultimately executed.  An optional positional argument face can be
// provided which is of an interface type.  The interface can use the attribute
// annotation tags `flag:"--myarg"` to aid serialization and organization of
// the executable's command-line arguments.  The type of the attribute will
// derive what is passed to the flag.
func NewExecutable(bin string, face interface{}, args ...string) (*Executable, error) {
	if len(bin) == 0 {
		return nil, fmt.Errorf("binary argument cannot be empty")
	}

	e := &Executable{}

	if strings.Contains(bin, " ") {
		args := strings.Split(bin, " ")
		bin = args[0]
		e.args = args[1:]
	}

	e.args = append(e.args, args...)
	e.bin = bin

	if face != nil {
		ifaceArgs, err := ParseInterfaceArgs(face)
		if err != nil {
			return nil, err
		}

		e.args = append(e.args, ifaceArgs...)
	}

	return e, nil
}

func (e *Executable) Bin() string {
	return e.bin
}

func (e *Executable) Args() []string {
	return e.args
}

type flag struct {
	flag        string
	omitvalueif string
}

func parseFlag(tag reflect.StructTag) (*flag, error) {
	parts := strings.Split(tag.Get("flag"), ",")
	if len(parts) == 0 {
		return nil, fmt.Errorf("could not parse flag without tag")
	}

	f := &flag{
		flag: parts[0],
	}

	for _, part := range parts[1:] {
		if strings.HasPrefix(part, "omitvalueif") {
			omit := strings.Split(part, "=")
			if len(omit) == 1 {
				return nil, fmt.Errorf("omitvalueif requires value")
			}
			f.omitvalueif = omit[1]
		}
	}

	return f, nil
}

// ParseInterfaceArgs returns the array of arguments detected from an
// interface with tag annotations `flag`
func ParseInterfaceArgs(face interface{}, args ...string) ([]string, error) {
	if face != nil && reflect.ValueOf(face).Kind() == reflect.Ptr {
		return nil, fmt.Errorf("cannot derive interface arguments from pointer: passed by reference")
	}

	t := reflect.TypeOf(face)
	v := reflect.ValueOf(face)

	for i := 0; i < t.NumField(); i++ {
		f, err := parseFlag(t.Field(i).Tag)
		if err != nil {
			continue
		}

		if len(f.flag) == 0 {
			continue
		}

		switch v.Field(i).Kind() {
		case reflect.Ptr:
			if v.Field(i).IsZero() { // if nil
				continue
			}

			value := fmt.Sprintf("%d", reflect.Indirect(v.Field(i)).Int())

			if value == f.omitvalueif {
				args = append(args, f.flag)
			} else {
				args = append(args, f.flag, value)
			}

		case reflect.Bool:
			if v.Field(i).Bool() {
				args = append(args, f.flag)
			}

		case reflect.String:
			if value := v.Field(i).String(); len(value) > 0 {
				args = append(args, f.flag, value)
			}

		case reflect.Slice:
			for j := 0; j < v.Field(i).Len(); j++ {
				if value := v.Field(i).Index(j).String(); len(value) > 0 {
					args = append(args, f.flag, value)
				}
			}

		default:
			continue
		}
	}

	return args, nil
}
