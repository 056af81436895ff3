// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package acpi

import "fwts-go/internal/fwtab"

// typeLengthPolicies maps a table signature to the declared-length
// policies the generic parser enforces for it. Tables with variable,
// subtable-driven length (MADT, SRAT, IORT, DMAR, ...) are deliberately
// absent: their deep parsers validate substructure lengths directly
// instead of a single whole-table length.
var typeLengthPolicies = map[string][]fwtab.TypeLengthPolicy{
	"HPET": {{Signature: "HPET", MinSpecVersion: 0, MaxSpecVersion: 0xffff, RequiredLength: 56}},
	"BOOT": {{Signature: "BOOT", MinSpecVersion: 0, MaxSpecVersion: 0xffff, RequiredLength: 40}},
	"ECDT": {{Signature: "ECDT", MinSpecVersion: 0, MaxSpecVersion: 0xffff, RequiredLength: 65}},
	"SBST": {{Signature: "SBST", MinSpecVersion: 0, MaxSpecVersion: 0xffff, RequiredLength: 52}},
	"CPEP": {{Signature: "CPEP", MinSpecVersion: 0, MaxSpecVersion: 0xffff, RequiredLength: 46}},
	"MCHI": {{Signature: "MCHI", MinSpecVersion: 0, MaxSpecVersion: 0xffff, RequiredLength: 45}},
	"DBG2": nil, // variable-length device list, length validated structurally instead
}

// genericSignatures lists every signature the long tail of the
// specification names that is handled by the header+checksum+policy
// generic parser rather than a dedicated deep parser. IORT and DMAR have
// dedicated subtable-walking parsers (iort.go, dmar.go) and are
// deliberately absent from this list.
var genericSignatures = []string{
	"CSRT", "HPET", "SPCR", "TCPA", "RASF", "ASF!", "BOOT", "CPEP", "ECDT",
	"SBST", "UEFI", "BGRT", "SVKL", "SKVL", "NHLT", "MCHI", "FPDT", "PCCT", "DBG2",
	"SLIC", "TPM2", "SRAT", "HMAT", "MPAM", "AEST", "ERST", "EINJ",
	"GTDT", "DSDT", "SSDT", "WAET",
}
