// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2023, The RTLKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package rtl

const (
	// Variables recognized by the external RTL build system.
	CORE_TOP            = "CORE_TOP"
	CORE_CONFIG         = "CORE_CONFIG"
	CORE_ADDON_FILES    = "CORE_ADDON_FILES"
	CORE_RTL_LIBS       = "CORE_RTL_LIBS"
	OBJ_CORE_DIR        = "OBJ_CORE_DIR"
	GEN_DIR             = "GEN_DIR"
	TOOLS_DIR           = "TOOLS_DIR"
	ADDONS_DIR          = "ADDONS_DIR"
	OBJ_CORE_RTL_V      = "OBJ_CORE_RTL_V"
	OBJ_CORE_RTL_D      = "OBJ_CORE_RTL_D"
	OBJ_CORE_RTL_TB_CPP = "OBJ_CORE_RTL_TB_CPP"
	OBJ_CORE_RTL_PRM    = "OBJ_CORE_RTL_PRM"
	OBJ_CORE_RTL_H      = "OBJ_CORE_RTL_H"
	OBJ_CORE_RTL_C      = "OBJ_CORE_RTL_C"
	OBJ_CORE_RTL_I      = "OBJ_CORE_RTL_I"
	OBJ_CORE_RTL_O      = "OBJ_CORE_RTL_O"
	OBJ_CORE_TESTS_MK   = "OBJ_CORE_TESTS_MK"

	// File extensions accepted as RTL input.
	VerilogExt       = ".v"
	SystemVerilogExt = ".sv"
	FirrtlExt        = ".fir"

	// External tool subprojects providing shared libraries for the
	// simulator link step.
	DramsimSubproject = "dramsim"
	FesvrSubproject   = "fesvr"
)

// InputExtensions are the accepted extensions of RTL source handed to the
// generation flow.
func InputExtensions() []string {
	return []string{VerilogExt, SystemVerilogExt, FirrtlExt}
}
