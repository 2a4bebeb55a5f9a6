// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package core

// MakeArgs are the variables exported to the external build system when the
// simulator is built.  The `export` annotations name the make variable each
// attribute is serialized to.
type MakeArgs struct {
	ObjDir    string `export:"OBJ_CORE_DIR"`
	GenDir    string `export:"GEN_DIR,omitempty"`
	ToolsDir  string `export:"TOOLS_DIR,omitempty"`
	AddonsDir string `export:"ADDONS_DIR,omitempty"`
	Top       string `export:"CORE_TOP,omitempty" default:"Top"`
	Config    string `export:"CORE_CONFIG,omitempty" default:"Default"`
}

// MakeArgs derives the exported variable struct from the core configuration.
func (cc CoreConfig) MakeArgs() MakeArgs {
	return MakeArgs{
		ObjDir:    cc.ObjDir,
		GenDir:    cc.GenDir,
		ToolsDir:  cc.ToolsDir,
		AddonsDir: cc.AddonsDir,
		Top:       cc.Top,
		Config:    cc.Config,
	}
}
