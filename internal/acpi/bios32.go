// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package acpi

import (
	"fwts-go/internal/finding"
	"fwts-go/internal/fwcheck"
	"fwts-go/internal/fwcursor"
	"fwts-go/internal/fwsource"
	"fwts-go/internal/fwutil"
	"fwts-go/internal/harness"
)

const bios32StructLen = 16 // one 16-byte paragraph, per the legacy BIOS32 Service Directory spec

// ValidateBIOS32 checks the BIOS32 Service Directory header: the
// pre-ACPI "_32_" anchor used by legacy PCI BIOS and APM-era firmware to
// advertise a 32-bit service entry point. Not an ACPI table — it carries
// its own signature and single-byte checksum rather than the common
// 36-byte header.
func ValidateBIOS32(ctx fwcheck.Ctx, blob *fwsource.Blob) []finding.Finding {
	var findings []finding.Finding
	c := fwcursor.New(blob.Data, len(blob.Data))

	sig, err := c.PeekAsciiFixed(0, 4)
	if err != nil || sig != "_32_" {
		findings = append(findings, finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityCritical, StableTag: "SignatureMismatch",
			Text: "BIOS32 Service Directory signature mismatch",
		})
		return findings
	}

	lengthParagraphs, err := c.ReadU8At(9)
	if err != nil {
		return findings
	}
	if f := ctx.MinMax("Length", 9, int64(lengthParagraphs), 1, 255); f != nil {
		findings = append(findings, *f)
		return findings
	}

	total := int(lengthParagraphs) * bios32StructLen
	if total > len(blob.Data) {
		findings = append(findings, finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityHigh, StableTag: "HeaderTruncated",
			Text: "BIOS32 declared length extends beyond the captured bytes",
		})
		return findings
	}

	if !fwutil.ChecksumOK(blob.Data[:total]) {
		findings = append(findings, finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityHigh, StableTag: "BadChecksum",
			Text: "BIOS32 Service Directory checksum does not sum to zero",
		})
	}

	reserved, err := c.ReadBytesAt(11, 5)
	if err == nil {
		for i, b := range reserved {
			if b != 0 {
				off := uint32(11 + i)
				findings = append(findings, finding.Finding{
					TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
					Severity: finding.SeverityLow, StableTag: "ReservedNonZero", Offset: &off,
					Field: "Reserved", Text: "BIOS32 reserved byte must be zero",
				})
				break
			}
		}
	}

	return findings
}

// BIOS32Test registers the BIOS32 Service Directory validator.
func BIOS32Test() harness.Test {
	const testName = "ACPIBios32"
	return harness.Test{
		Name:        testName,
		Description: "validate the legacy BIOS32 Service Directory",
		Ordering:    harness.OrderAnytime,
		Flags:       harness.FlagBatch,
		MinorTests: []harness.MinorTest{{
			Description: "BIOS32 header and checksum",
			Fn: func(rc *harness.RunContext) harness.MinorResult {
				blob, ok := rc.Registry.FindBySignature("_32_", 0)
				if !ok {
					return harness.ResultSkip
				}
				ctx := fwcheck.Ctx{TestName: testName, TableCtx: "BIOS32"}
				emitAll(ctx, rc.Sink, ValidateBIOS32(ctx, blob))
				return harness.ResultOk
			},
		}},
	}
}
