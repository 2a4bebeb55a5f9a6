// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

type RTLKit struct {
	NoPrompt  bool   `yaml:"no_prompt" env:"RTLKIT_NO_PROMPT" long:"no-prompt" usage:"Do not prompt for user interaction" default:"false"`
	Jobs      int    `yaml:"jobs,omitempty" env:"RTLKIT_JOBS" long:"jobs" short:"j" usage:"Number of parallel build jobs"`
	MakeBin   string `yaml:"make_bin" env:"RTLKIT_MAKE_BIN" long:"make-bin" usage:"GNU Make binary to invoke for simulator builds" default:"make"`
	Generator string `yaml:"generator" env:"RTLKIT_GENERATOR" long:"generator" usage:"External RTL generator binary" default:"rtl-generator"`

	Paths struct {
		Obj    string `yaml:"obj,omitempty" env:"RTLKIT_PATHS_OBJ" long:"obj-dir" usage:"Directory receiving generated object artifacts"`
		Gen    string `yaml:"gen,omitempty" env:"RTLKIT_PATHS_GEN" long:"gen-dir" usage:"Directory receiving intermediate generator output"`
		Tools  string `yaml:"tools,omitempty" env:"RTLKIT_PATHS_TOOLS" long:"tools-dir" usage:"Directory holding the external tool subprojects"`
		Addons string `yaml:"addons,omitempty" env:"RTLKIT_PATHS_ADDONS" long:"addons-dir" usage:"Directory holding addon RTL sources"`
		Config string `yaml:"config,omitempty" env:"RTLKIT_PATHS_CONFIG" long:"config-dir" usage:"Path to RTLKit config directory"`
	} `yaml:"paths,omitempty"`

	Log struct {
		Level      string `yaml:"level" env:"RTLKIT_LOG_LEVEL" long:"log-level" usage:"Log level verbosity" default:"info"`
		Timestamps bool   `yaml:"timestamps" env:"RTLKIT_LOG_TIMESTAMPS" long:"log-timestamps" usage:"Enable log timestamps"`
		Type       string `yaml:"type" env:"RTLKIT_LOG_TYPE" long:"log-type" usage:"Log type" default:"basic"`
	} `yaml:"log"`
}

type ConfigDetail struct {
	Key           string
	Description   string
	AllowedValues []string
}

// Descriptions of each configuration parameter as well as valid values
var configDetails = []ConfigDetail{
	{
		Key:         "no_prompt",
		Description: "toggle interactive prompting in the terminal",
	},
	{
		Key:         "jobs",
		Description: "the number of jobs the simulator build may run in parallel",
	},
	{
		Key:         "make_bin",
		Description: "the GNU Make binary invoked for simulator builds",
	},
	{
		Key:         "generator",
		Description: "the external hardware generator binary",
	},
	{
		Key:         "log.level",
		Description: "Set the logging verbosity",
		AllowedValues: []string{
			"fatal",
			"error",
			"warn",
			"info",
			"debug",
			"trace",
		},
	},
	{
		Key:         "log.type",
		Description: "Set the logging output format",
		AllowedValues: []string{
			"quiet",
			"basic",
			"json",
		},
	},
	{
		Key:         "log.timestamps",
		Description: "Show timestamps with log output",
	},
}

func ConfigDetails() []ConfigDetail {
	return configDetails
}

func AllowedValues(key string) []string {
	for _, details := range ConfigDetails() {
		if details.Key == key {
			return details.AllowedValues
		}
	}

	return []string{}
}
