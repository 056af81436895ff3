// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package acpi

import (
	"fwts-go/internal/finding"
	"fwts-go/internal/fwcheck"
	"fwts-go/internal/fwcursor"
	"fwts-go/internal/fwsource"
	"fwts-go/internal/harness"
)

const facsAlignment = 64

// ValidateFACS checks the Firmware ACPI Control Structure. FACS has no
// checksum field and no common 36-byte header — only Signature and
// Length. Its physical-address alignment requirement only makes sense
// when the blob was actually read from firmware (FromFirmware
// provenance): a table synthesized by the fixup source or dumped to a
// file was never placed at a real physical address.
func ValidateFACS(ctx fwcheck.Ctx, blob *fwsource.Blob) []finding.Finding {
	var findings []finding.Finding

	c := fwcursor.New(blob.Data, len(blob.Data))
	sig, err := c.PeekAsciiFixed(0, 4)
	if err != nil || sig != "FACS" {
		findings = append(findings, finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityCritical, StableTag: "SignatureMismatch",
			Text: "FACS signature mismatch",
		})
		return findings
	}

	length, err := c.ReadU32At(4)
	if err != nil || length < 64 {
		findings = append(findings, finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityHigh, StableTag: "BadStructureLength",
			Text: "FACS declared length is smaller than the minimum 64-byte structure",
		})
		return findings
	}

	if blob.Provenance == fwsource.FromFirmware && blob.BaseAddress%facsAlignment != 0 {
		findings = append(findings, finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityHigh, StableTag: "MisalignedTable",
			Text: "FACS physical address is not 64-byte aligned as ACPI requires",
		})
	}

	globalLock, err := c.ReadU32At(16)
	if err == nil {
		if f := ctx.ReservedBits("GlobalLock", 16, uint64(globalLock), 2, 31); f != nil {
			findings = append(findings, *f)
		}
	}

	return findings
}

// FACSTest registers the FACS validator.
func FACSTest() harness.Test {
	const testName = "ACPIFacs"
	return harness.Test{
		Name:        testName,
		Description: "validate the Firmware ACPI Control Structure",
		Ordering:    harness.OrderAnytime,
		Flags:       harness.FlagAcpi | harness.FlagBatch,
		MinorTests: []harness.MinorTest{{
			Description: "FACS layout and alignment",
			Fn: func(rc *harness.RunContext) harness.MinorResult {
				blob, ok := rc.Registry.FindBySignature("FACS", 0)
				if !ok {
					return harness.ResultSkip
				}
				ctx := fwcheck.Ctx{TestName: testName, TableCtx: "FACS"}
				emitAll(ctx, rc.Sink, ValidateFACS(ctx, blob))
				return harness.ResultOk
			},
		}},
	}
}
