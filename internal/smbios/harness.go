// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package smbios

import (
	"fmt"

	"fwts-go/internal/fwcheck"
	"fwts-go/internal/harness"
)

const entryPointTestName = "SMBIOSEntryPoint"
const structuresTestName = "SMBIOSStructures"
const sbbrTestName = "SMBIOSSbbrMandatoryTypes"

// EntryPointTest validates the discovered entry-point structure in
// isolation, before any structure is decoded.
func EntryPointTest() harness.Test {
	return harness.Test{
		Name:        entryPointTestName,
		Description: "validate the SMBIOS entry-point anchor",
		Ordering:    harness.OrderFirst,
		Flags:       harness.FlagBatch,
		MinorTests: []harness.MinorTest{{
			Description: "entry-point checksum and version",
			Fn: func(rc *harness.RunContext) harness.MinorResult {
				raw, ok := rc.Registry.ReadSMBIOSEntryPoint()
				if !ok {
					return harness.ResultSkip
				}
				ctx := fwcheck.Ctx{TestName: entryPointTestName, TableCtx: "SMBIOS"}
				if _, err := DiscoverEntryPoint(raw); err != nil {
					rc.Sink.Emit(badEntryPointFinding(ctx, err))
					return harness.ResultError
				}
				rc.Sink.Emit(passFinding(ctx))
				return harness.ResultOk
			},
		}},
	}
}

// StructuresTest walks the packed DMI table and validates each structure.
func StructuresTest() harness.Test {
	return harness.Test{
		Name:        structuresTestName,
		Description: "walk and validate SMBIOS structures",
		Ordering:    harness.OrderEarly,
		Flags:       harness.FlagBatch,
		MinorTests: []harness.MinorTest{{
			Description: "per-structure field validation",
			Fn: func(rc *harness.RunContext) harness.MinorResult {
				blob, ok := rc.Registry.FindBySignature("DMI", 0)
				if !ok {
					return harness.ResultSkip
				}
				if raw, ok := rc.Registry.ReadSMBIOSEntryPoint(); ok {
					if ep, err := DiscoverEntryPoint(raw); err == nil {
						SetVersionContext(ep.SMBIOSMajor, ep.SMBIOSMinor)
					}
				}
				structures, err := WalkStructures(blob.Data[:blob.DeclaredLength])
				ctx := fwcheck.Ctx{TestName: structuresTestName, TableCtx: "DMI"}
				if err != nil {
					rc.Sink.Emit(badWalkFinding(ctx, err))
					return harness.ResultError
				}
				for _, s := range structures {
					findings := ValidateStructure(fwcheck.Ctx{TestName: structuresTestName, TableCtx: fmt.Sprintf("Type %d @0x%x", s.Type, s.Offset)}, s)
					if len(findings) == 0 {
						rc.Sink.Emit(passFinding(ctx))
						continue
					}
					for _, f := range findings {
						rc.Sink.Emit(f)
					}
				}
				return harness.ResultOk
			},
		}},
	}
}

// SBBRTest checks the SBBR mandatory structure type set. It only runs
// when the run context's mode includes FlagSbbr.
func SBBRTest() harness.Test {
	return harness.Test{
		Name:        sbbrTestName,
		Description: "validate SBBR-mandatory SMBIOS structure types are present",
		Ordering:    harness.OrderLast,
		Flags:       harness.FlagSbbr,
		MinorTests: []harness.MinorTest{{
			Description: "mandatory type set",
			Fn: func(rc *harness.RunContext) harness.MinorResult {
				blob, ok := rc.Registry.FindBySignature("DMI", 0)
				if !ok {
					return harness.ResultSkip
				}
				structures, err := WalkStructures(blob.Data[:blob.DeclaredLength])
				if err != nil {
					return harness.ResultError
				}
				ctx := fwcheck.Ctx{TestName: sbbrTestName, TableCtx: "DMI"}
				findings := CheckSBBRMandatoryTypes(ctx, PresentTypes(structures))
				if len(findings) == 0 {
					rc.Sink.Emit(passFinding(ctx))
					return harness.ResultOk
				}
				for _, f := range findings {
					rc.Sink.Emit(f)
				}
				return harness.ResultOk
			},
		}},
	}
}

// AllTests returns every SMBIOS harness test.
func AllTests() harness.Manifest {
	return harness.Manifest{EntryPointTest(), StructuresTest(), SBBRTest()}
}
