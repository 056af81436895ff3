// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package acpi

import "fwts-go/internal/harness"

// AllTests returns every ACPI harness test: the deep, field-level parsers
// first, then the generic header-validated fallback for the long tail of
// signatures without a dedicated parser.
func AllTests() harness.Manifest {
	manifest := harness.Manifest{
		RSDPTest(),
		FADTTest(),
		MADTTest(),
		FACSTest(),
		BERTTest(),
		BIOS32Test(),
		IORTTest(),
		DMARTest(),
	}
	manifest = append(manifest, MPTableTests()...)
	manifest = append(manifest, GenericTests()...)
	return manifest
}
