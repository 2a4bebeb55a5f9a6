// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"

	"github.com/mitchellh/go-homedir"
)

const (
	RTLKIT_CONFIG_DIR = "RTLKIT_CONFIG_DIR"
	XDG_CONFIG_HOME   = "XDG_CONFIG_HOME"
	XDG_DATA_HOME     = "XDG_DATA_HOME"
)

func NewDefaultRTLKitConfig() (*RTLKit, error) {
	c := &RTLKit{}

	if err := setDefaults(c); err != nil {
		return nil, fmt.Errorf("could not set defaults for config: %s", err)
	}

	// Add default paths for configuration files..
	if len(c.Paths.Config) == 0 {
		c.Paths.Config = ConfigDir()
	}

	// ..for object artifacts..
	if len(c.Paths.Obj) == 0 {
		c.Paths.Obj = filepath.Join(DataDir(), "obj")
	}

	// ..and for intermediate generator output
	if len(c.Paths.Gen) == 0 {
		c.Paths.Gen = filepath.Join(DataDir(), "gen")
	}

	return c, nil
}

func setDefaults(s interface{}) error {
	return setDefaultValue(reflect.ValueOf(s), "")
}

func setDefaultValue(v reflect.Value, def string) error {
	if v.Kind() != reflect.Ptr {
		return fmt.Errorf("not a pointer value")
	}

	v = reflect.Indirect(v)

	switch v.Kind() {
	case reflect.Int:
		if len(def) > 0 {
			i, err := strconv.ParseInt(def, 10, 64)
			if err != nil {
				return fmt.Errorf("could not parse default integer value: %s", err)
			}
			v.SetInt(i)
		}

	case reflect.String:
		if len(def) > 0 {
			v.SetString(def)
		}

	case reflect.Bool:
		if len(def) > 0 {
			b, err := strconv.ParseBool(def)
			if err != nil {
				return fmt.Errorf("could not parse default boolean value: %s", err)
			}
			v.SetBool(b)
		} else {
			// Assume false by default
			v.SetBool(false)
		}

	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			def = v.Type().Field(i).Tag.Get("default")
			if err := setDefaultValue(
				v.Field(i).Addr(),
				def,
			); err != nil {
				return err
			}
		}

	default:
		// Ignore this value and property entirely
		return nil
	}

	return nil
}

// Config path precedence
// 1. RTLKIT_CONFIG_DIR
// 2. XDG_CONFIG_HOME
// 3. HOME
func ConfigDir() string {
	if a := os.Getenv(RTLKIT_CONFIG_DIR); a != "" {
		return a
	}

	if b := os.Getenv(XDG_CONFIG_HOME); b != "" {
		return filepath.Join(b, "rtlkit")
	}

	home, err := homedir.Dir()
	if err != nil {
		return filepath.Join(".config", "rtlkit")
	}

	return filepath.Join(home, ".config", "rtlkit")
}

// Data path precedence
// 1. XDG_DATA_HOME
// 2. HOME
func DataDir() string {
	if a := os.Getenv(XDG_DATA_HOME); a != "" {
		return filepath.Join(a, "rtlkit")
	}

	home, err := homedir.Dir()
	if err != nil {
		return filepath.Join(".local", "share", "rtlkit")
	}

	return filepath.Join(home, ".local", "share", "rtlkit")
}

func DefaultConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
