// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package confdb

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FeedYAML reads a YAML settings file into the given layer.  An empty file
// is ignored.
func (db *Database) FeedYAML(layer Layer, file string) error {
	data, err := os.ReadFile(filepath.Clean(file))
	if err != nil {
		return fmt.Errorf("cannot open settings file: %w", err)
	}

	return db.FeedYAMLData(layer, data)
}

// FeedYAMLData reads YAML settings data into the given layer.
func (db *Database) FeedYAMLData(layer Layer, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	settings := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("cannot feed settings: %w", err)
	}

	return db.FeedMap(layer, settings)
}

// FeedDefaults reads every defaults.yaml found in the provided directories
// into the given layer, in order.  Missing files are skipped: a tool without
// defaults is not an error.
func (db *Database) FeedDefaults(layer Layer, dirs ...string) error {
	for _, dir := range dirs {
		file := filepath.Join(dir, "defaults.yaml")
		if _, err := os.Stat(file); err != nil {
			continue
		}

		if err := db.FeedYAML(layer, file); err != nil {
			return fmt.Errorf("could not feed defaults from %s: %w", dir, err)
		}
	}

	return nil
}
