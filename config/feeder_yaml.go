// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// YamlFeeder feeds using a YAML file.
type YamlFeeder struct {
	File string
}

func (f YamlFeeder) Feed(structure interface{}) error {
	file, err := os.Open(filepath.Clean(f.File))
	if err != nil {
		return fmt.Errorf("cannot open yaml file: %v", err)
	}

	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return err
	}

	// File is empty, ignore
	if stat.Size() == 0 {
		return nil
	}

	if err = yaml.NewDecoder(file).Decode(structure); err != nil {
		return fmt.Errorf("cannot feed config file: %v", err)
	}

	return nil
}

func (f YamlFeeder) Write(structure interface{}, merge bool) error {
	if len(f.File) == 0 {
		return fmt.Errorf("filename for YAML cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(f.File), 0o771); err != nil {
		return err
	}

	if merge {
		// Feed the existing file back first so that edits made to it since
		// the structure was loaded are not clobbered.
		if existing, err := os.ReadFile(f.File); err == nil && len(existing) > 0 {
			if err := yaml.Unmarshal(existing, structure); err != nil {
				return fmt.Errorf("could not merge existing config: %v", err)
			}
		}
	}

	data, err := yaml.Marshal(structure)
	if err != nil {
		return err
	}

	return os.WriteFile(f.File, data, 0o600)
}
