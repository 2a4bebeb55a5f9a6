// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package confdb implements the layered settings database shared by all
// tools of the generation flow.  Settings are addressed with dotted keys,
// e.g. "core.generator.binary".  Higher layers shadow lower ones; runtime
// writes never touch the layers fed from files.
package confdb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
)

// EnvVarDatabase carries the path of the dumped database snapshot in the
// environment of spawned tool processes.
const EnvVarDatabase = "RTLKIT_DATABASE"

var ErrNotFound = fmt.Errorf("setting not found")

// Layer identifies a precedence level within the database, lowest first.
type Layer int

const (
	LayerBuiltins Layer = iota
	LayerCore
	LayerTools
	LayerProject
	LayerRuntime

	numLayers
)

func (l Layer) String() string {
	switch l {
	case LayerBuiltins:
		return "builtins"
	case LayerCore:
		return "core"
	case LayerTools:
		return "tools"
	case LayerProject:
		return "project"
	case LayerRuntime:
		return "runtime"
	default:
		return "unknown"
	}
}

type Database struct {
	mu     sync.RWMutex
	layers [numLayers]map[string]interface{}
}

func New() *Database {
	db := &Database{}
	for i := range db.layers {
		db.layers[i] = map[string]interface{}{}
	}

	return db
}

// FeedMap merges the provided settings into the given layer.  Nested maps
// are flattened into dotted keys.
func (db *Database) FeedMap(layer Layer, settings map[string]interface{}) error {
	if layer < 0 || layer >= numLayers {
		return fmt.Errorf("unknown settings layer: %d", layer)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	flatten("", settings, db.layers[layer])

	return nil
}

func flatten(prefix string, in map[string]interface{}, out map[string]interface{}) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch nested := v.(type) {
		case map[string]interface{}:
			flatten(key, nested, out)
		case map[interface{}]interface{}:
			converted := map[string]interface{}{}
			for nk, nv := range nested {
				converted[fmt.Sprint(nk)] = nv
			}
			flatten(key, converted, out)
		default:
			out[key] = v
		}
	}
}

// Get returns the value for key from the highest layer defining it.
func (db *Database) Get(key string) (interface{}, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for i := numLayers - 1; i >= 0; i-- {
		if v, ok := db.layers[i][key]; ok {
			return v, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
}

func (db *Database) Has(key string) bool {
	_, err := db.Get(key)
	return err == nil
}

// Set writes a runtime setting, shadowing any fed value.
func (db *Database) Set(key string, value interface{}) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.layers[LayerRuntime][key] = value
}

func (db *Database) GetString(key string) (string, error) {
	v, err := db.Get(key)
	if err != nil {
		return "", err
	}

	switch s := v.(type) {
	case string:
		return s, nil
	case nil:
		return "", nil
	default:
		return fmt.Sprint(v), nil
	}
}

func (db *Database) GetBool(key string) (bool, error) {
	v, err := db.Get(key)
	if err != nil {
		return false, err
	}

	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("setting %s is not a bool: %v", key, v)
	}

	return b, nil
}

func (db *Database) GetInt(key string) (int, error) {
	v, err := db.Get(key)
	if err != nil {
		return 0, err
	}

	switch i := v.(type) {
	case int:
		return i, nil
	case int64:
		return int(i), nil
	case float64:
		return int(i), nil
	default:
		return 0, fmt.Errorf("setting %s is not an int: %v", key, v)
	}
}

func (db *Database) GetStringSlice(key string) ([]string, error) {
	v, err := db.Get(key)
	if err != nil {
		return nil, err
	}

	switch s := v.(type) {
	case []string:
		return s, nil
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, e := range s {
			out = append(out, fmt.Sprint(e))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("setting %s is not a list: %v", key, v)
	}
}

// Snapshot returns the effective view of the database: every key with the
// value of its highest defining layer.
func (db *Database) Snapshot() map[string]interface{} {
	db.mu.RLock()
	defer db.mu.RUnlock()

	snapshot := map[string]interface{}{}
	for i := 0; i < int(numLayers); i++ {
		for k, v := range db.layers[i] {
			snapshot[k] = v
		}
	}

	return snapshot
}

// Keys returns all defined keys, sorted, optionally restricted to a dotted
// prefix.
func (db *Database) Keys(prefix string) []string {
	snapshot := db.Snapshot()

	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		if prefix == "" || k == prefix || strings.HasPrefix(k, prefix+".") {
			keys = append(keys, k)
		}
	}

	sort.Strings(keys)
	return keys
}

// Decode collects all keys beneath prefix and decodes them into the provided
// structure using its `confdb` field tags.
func (db *Database) Decode(prefix string, v interface{}) error {
	nested := map[string]interface{}{}

	for _, key := range db.Keys(prefix) {
		value, err := db.Get(key)
		if err != nil {
			return err
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(key, prefix), ".")
		insert(nested, strings.Split(rel, "."), value)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "confdb",
		WeaklyTypedInput: true,
		Result:           v,
	})
	if err != nil {
		return err
	}

	if err := dec.Decode(nested); err != nil {
		return fmt.Errorf("could not decode settings under %s: %w", prefix, err)
	}

	return nil
}

func insert(m map[string]interface{}, path []string, value interface{}) {
	if len(path) == 1 {
		m[path[0]] = value
		return
	}

	child, ok := m[path[0]].(map[string]interface{})
	if !ok {
		child = map[string]interface{}{}
		m[path[0]] = child
	}

	insert(child, path[1:], value)
}

// DumpJSON writes the effective database snapshot into dir and returns the
// path of the written file.  Spawned tools read it back via the
// EnvVarDatabase environment variable.
func (db *Database) DumpJSON(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create dump directory: %w", err)
	}

	data, err := json.MarshalIndent(db.Snapshot(), "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, "database.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("could not write database snapshot: %w", err)
	}

	return path, nil
}
