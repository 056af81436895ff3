// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package acpi

import (
	"runtime"

	"fwts-go/internal/finding"
	"fwts-go/internal/fwcheck"
	"fwts-go/internal/fwcursor"
	"fwts-go/internal/fwsource"
	"fwts-go/internal/fwtab"
	"fwts-go/internal/harness"
)

// fadtGASFields lists every Generic Address Structure field in the FADT
// (ACPI 6.x layout) by its byte offset, in the order spec.md's FADT
// contract names them: reset_reg, the eight x_pm* blocks, then
// sleep_control_reg and sleep_status_reg.
var fadtGASFields = []struct {
	name   string
	offset int
}{
	{"ResetReg", 116},
	{"X_PM1a_EVT_BLK", 148},
	{"X_PM1b_EVT_BLK", 160},
	{"X_PM1a_CNT_BLK", 172},
	{"X_PM1b_CNT_BLK", 184},
	{"X_PM2_CNT_BLK", 196},
	{"X_PM_TMR_BLK", 208},
	{"X_GPE0_BLK", 220},
	{"X_GPE1_BLK", 232},
	{"SleepControlReg", 244},
	{"SleepStatusReg", 256},
}

// ValidateFADT decodes the Fixed ACPI Description Table (signature "FACP")
// and checks the fields spec.md's concrete scenario S6 names explicitly:
// the Preferred PM Profile range and the Flags field's reserved bits
// 22..31, plus every Generic Address Structure field and the IA-PC/ARM
// boot-architecture flags.
func ValidateFADT(ctx fwcheck.Ctx, blob *fwsource.Blob) []finding.Finding {
	header, findings := ValidateCommonHeader(ctx, blob, nil)
	if header.Signature == "" {
		return findings
	}

	c := fwcursor.New(blob.Data, int(blob.DeclaredLength))

	if pmProfile, err := c.ReadU8At(45); err == nil {
		if f := ctx.MinMax("PreferredPMProfile", 45, int64(pmProfile), 0, 8); f != nil {
			findings = append(findings, *f)
		}
	}

	if header.Length >= 109+2 {
		if bootArch, err := c.ReadU16At(109); err == nil {
			if f := ctx.ReservedBits("IA-PCBootArchFlags", 109, uint64(bootArch), 6, 15); f != nil {
				findings = append(findings, *f)
			}
		}
	}

	if header.Length >= 112+4 {
		if flags, err := c.ReadU32At(112); err == nil {
			if f := ctx.ReservedBits("Flags", 112, uint64(flags), 22, 31); f != nil {
				findings = append(findings, *f)
			}
		}
	}

	if runtime.GOARCH == "arm64" && header.Length >= 129+2 {
		if armBootArch, err := c.ReadU16At(129); err == nil {
			if f := ctx.ReservedBits("ArmBootArchFlags", 129, uint64(armBootArch), 2, 15); f != nil {
				findings = append(findings, *f)
			}
		}
	}

	for _, field := range fadtGASFields {
		if header.Length < uint32(field.offset)+fwtab.GasLen {
			continue
		}
		gas, err := fwtab.ReadGAS(c, field.offset)
		if err != nil {
			continue
		}
		if f := ctx.SpaceID(field.name+".AddressSpaceId", uint32(field.offset), uint64(gas.AddressSpaceID), fwtab.KnownGASAddressSpaceIDs); f != nil {
			findings = append(findings, *f)
		}
	}

	return findings
}

// FADTTest registers the FADT validator.
func FADTTest() harness.Test {
	const testName = "ACPIFadt"
	return harness.Test{
		Name:        testName,
		Description: "validate the Fixed ACPI Description Table (FACP)",
		Ordering:    harness.OrderEarly,
		Flags:       harness.FlagAcpi | harness.FlagBatch,
		MinorTests: []harness.MinorTest{{
			Description: "FADT fields and reserved bits",
			Fn: func(rc *harness.RunContext) harness.MinorResult {
				blob, ok := rc.Registry.FindBySignature("FACP", 0)
				if !ok {
					return harness.ResultSkip
				}
				ctx := fwcheck.Ctx{TestName: testName, TableCtx: "FACP"}
				emitAll(ctx, rc.Sink, ValidateFADT(ctx, blob))
				return harness.ResultOk
			},
		}},
	}
}
