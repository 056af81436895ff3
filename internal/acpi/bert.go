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

// ValidateBERT decodes the Boot Error Region Table. The boot error region
// address is only meaningful when the table was read live from firmware:
// a table captured into a dump file or synthesized by the fixup source
// was never mapped at that physical address, so the zero-address check
// is gated on FromFirmware provenance.
func ValidateBERT(ctx fwcheck.Ctx, blob *fwsource.Blob) []finding.Finding {
	header, findings := ValidateCommonHeader(ctx, blob, nil)
	if header.Signature == "" {
		return findings
	}

	c := fwcursor.New(blob.Data, int(blob.DeclaredLength))

	regionLength, err := c.ReadU32At(36)
	if err != nil {
		return findings
	}
	regionAddr, err := c.ReadU64At(40)
	if err != nil {
		return findings
	}

	if blob.Provenance == fwsource.FromFirmware && regionAddr == 0 {
		off := uint32(40)
		findings = append(findings, finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityHigh, StableTag: "NullBootErrorRegion", Offset: &off,
			Field: "BootErrorRegion", Text: "BERT boot error region address is zero on a live firmware system",
		})
	}

	if regionLength > 0 && regionLength < 72 {
		findings = append(findings, finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityMedium, StableTag: "BadStructureLength",
			Text: "BERT boot error region is smaller than the minimum Generic Error Status Block",
		})
	}

	return findings
}

// BERTTest registers the BERT validator.
func BERTTest() harness.Test {
	const testName = "ACPIBert"
	return harness.Test{
		Name:        testName,
		Description: "validate the Boot Error Region Table",
		Ordering:    harness.OrderAnytime,
		Flags:       harness.FlagAcpi | harness.FlagBatch,
		MinorTests: []harness.MinorTest{{
			Description: "BERT boot error region",
			Fn: func(rc *harness.RunContext) harness.MinorResult {
				blob, ok := rc.Registry.FindBySignature("BERT", 0)
				if !ok {
					return harness.ResultSkip
				}
				ctx := fwcheck.Ctx{TestName: testName, TableCtx: "BERT"}
				emitAll(ctx, rc.Sink, ValidateBERT(ctx, blob))
				return harness.ResultOk
			},
		}},
	}
}
