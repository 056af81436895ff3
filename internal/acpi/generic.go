// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package acpi

import (
	"fmt"

	"fwts-go/internal/fwcheck"
	"fwts-go/internal/harness"
)

// GenericTableTest returns a harness.Test that runs the common-header
// checks against every instance of signature found in the registry. It is
// the fallback for the long tail of ACPI table signatures the
// specification names but that have no field-level deep parser.
func GenericTableTest(signature string) harness.Test {
	testName := fmt.Sprintf("ACPI%sGeneric", signature)
	return harness.Test{
		Name:        testName,
		Description: fmt.Sprintf("validate the %s table's common header, checksum and declared length", signature),
		Ordering:    harness.OrderAnytime,
		Flags:       harness.FlagAcpi | harness.FlagBatch,
		MinorTests: []harness.MinorTest{{
			Description: "header, checksum and length policy",
			Fn:          genericMinorTest(testName, signature),
		}},
	}
}

func genericMinorTest(testName, signature string) harness.MinorTestFunc {
	return func(rc *harness.RunContext) harness.MinorResult {
		blobs := rc.Registry.FindAllBySignature(signature)
		if len(blobs) == 0 {
			return harness.ResultSkip
		}
		policies := typeLengthPolicies[signature]
		for i, blob := range blobs {
			ctx := fwcheck.Ctx{TestName: testName, TableCtx: fmt.Sprintf("%s[%d]", signature, i)}
			_, findings := ValidateCommonHeader(ctx, blob, policies)
			emitAll(ctx, rc.Sink, findings)
		}
		return harness.ResultOk
	}
}

// GenericTests builds one harness.Test per signature in genericSignatures.
func GenericTests() harness.Manifest {
	manifest := make(harness.Manifest, 0, len(genericSignatures))
	for _, sig := range genericSignatures {
		manifest = append(manifest, GenericTableTest(sig))
	}
	return manifest
}
