// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
)

// EnvFeeder feeds using environment variables named by each attribute's
// `env` tag.
type EnvFeeder struct{}

func (f EnvFeeder) Feed(structure interface{}) error {
	v := reflect.ValueOf(structure)
	if v.Kind() != reflect.Ptr {
		return fmt.Errorf("not a pointer value")
	}

	return feedEnvValue(v)
}

func feedEnvValue(v reflect.Value) error {
	v = reflect.Indirect(v)
	if v.Kind() != reflect.Struct {
		return nil
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)

		if field.Kind() == reflect.Struct {
			if err := feedEnvValue(field.Addr()); err != nil {
				return err
			}
			continue
		}

		tag := v.Type().Field(i).Tag.Get("env")
		if tag == "" {
			continue
		}

		val, ok := os.LookupEnv(tag)
		if !ok {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(val)
		case reflect.Bool:
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("could not parse %s: %v", tag, err)
			}
			field.SetBool(b)
		case reflect.Int:
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return fmt.Errorf("could not parse %s: %v", tag, err)
			}
			field.SetInt(n)
		}
	}

	return nil
}

// Do nothing, we do not set the environment variables based on the given
// interface.
func (f EnvFeeder) Write(structure interface{}, merge bool) error {
	return nil
}
