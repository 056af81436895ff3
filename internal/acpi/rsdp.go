// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package acpi

import (
	"fmt"
	"runtime"

	"fwts-go/internal/finding"
	"fwts-go/internal/fwcheck"
	"fwts-go/internal/fwcursor"
	"fwts-go/internal/fwsource"
	"fwts-go/internal/fwutil"
	"fwts-go/internal/harness"
)

const (
	rsdpV1Len = 20
	rsdpV2Len = 36
)

// ValidateRSDP checks the Root System Description Pointer: it has its own
// fixed layout rather than the common 36-byte header, and a two-tier
// checksum (the original 20-byte checksum covering ACPI 1.0 fields, plus
// an extended checksum over the whole structure for ACPI 2.0+).
func ValidateRSDP(ctx fwcheck.Ctx, blob *fwsource.Blob) []finding.Finding {
	var findings []finding.Finding
	c := fwcursor.New(blob.Data, len(blob.Data))

	sig, err := c.PeekAsciiFixed(0, 8)
	if err != nil || sig != "RSD PTR " {
		findings = append(findings, finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityCritical, StableTag: "SignatureMismatch",
			Text: fmt.Sprintf("RSDP signature is %q, expected \"RSD PTR \"", sig),
		})
		return findings
	}

	if len(blob.Data) < rsdpV1Len {
		findings = append(findings, finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityCritical, StableTag: "HeaderTruncated",
			Text: "RSDP is shorter than the 20-byte ACPI 1.0 structure",
		})
		return findings
	}

	if !fwutil.ChecksumOK(blob.Data[:rsdpV1Len]) {
		findings = append(findings, finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityHigh, StableTag: "BadChecksum",
			Text: "RSDP checksum over the first 20 bytes does not sum to zero",
		})
	}

	revision, err := c.ReadU8At(15)
	if err != nil {
		return findings
	}

	oemid, err := c.PeekAsciiFixed(9, 6)
	if err == nil {
		if f := ctx.PrintableAscii("OEMID", 9, oemid); f != nil {
			findings = append(findings, *f)
		}
	}

	if f := ctx.Ranges("Revision", 15, int64(revision), []fwcheck.Range{{Min: 0, Max: 0}, {Min: 2, Max: 2}}); f != nil {
		findings = append(findings, *f)
	}

	if revision == 0 {
		rsdtAddr, err := c.ReadU32At(16)
		if err == nil && rsdtAddr == 0 {
			off := uint32(16)
			findings = append(findings, finding.Finding{
				TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
				Severity: finding.SeverityHigh, StableTag: "NullRsdtAddress", Offset: &off,
				Field: "RsdtAddress", Text: "RSDP revision 0 declares rsdt_address == 0",
			})
		}
	}

	if runtime.GOARCH == "arm64" && revision < 2 {
		findings = append(findings, finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityHigh, StableTag: "XsdtRequired",
			Text: "platform requires XSDT but RSDP revision is below 2 (RSDT only)",
		})
	}

	if revision < 2 {
		return findings
	}

	if len(blob.Data) < rsdpV2Len {
		findings = append(findings, finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityHigh, StableTag: "HeaderTruncated",
			Text: "RSDP declares ACPI 2.0+ revision but is shorter than 36 bytes",
		})
		return findings
	}

	length, err := c.ReadU32At(20)
	if err == nil {
		if f := ctx.StructureLength("Length", 20, length, rsdpV2Len); f != nil {
			findings = append(findings, *f)
		}
	}

	if !fwutil.ChecksumOK(blob.Data[:rsdpV2Len]) {
		findings = append(findings, finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityHigh, StableTag: "BadChecksum",
			Text: "RSDP extended checksum over 36 bytes does not sum to zero",
		})
	}

	if runtime.GOARCH == "arm64" {
		xsdtAddr, err := c.ReadU64At(24)
		if err == nil && xsdtAddr == 0 {
			off := uint32(24)
			findings = append(findings, finding.Finding{
				TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
				Severity: finding.SeverityHigh, StableTag: "XsdtRequired", Offset: &off,
				Field: "XsdtAddress", Text: "platform requires XSDT but xsdt_address is zero",
			})
		}
	}

	reserved, err := c.ReadBytesAt(33, 3)
	if err == nil {
		for _, b := range reserved {
			if b != 0 {
				off := uint32(33)
				findings = append(findings, finding.Finding{
					TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
					Severity: finding.SeverityLow, StableTag: "ReservedNonZero", Offset: &off,
					Field: "Reserved", Text: "RSDP reserved bytes [33:35] must be zero",
				})
				break
			}
		}
	}

	return findings
}

// RSDPTest registers the RSDP validator in the harness manifest.
func RSDPTest() harness.Test {
	const testName = "ACPIRsdp"
	return harness.Test{
		Name:        testName,
		Description: "validate the Root System Description Pointer",
		Ordering:    harness.OrderFirst,
		Flags:       harness.FlagAcpi | harness.FlagBatch,
		MinorTests: []harness.MinorTest{{
			Description: "RSDP layout and checksums",
			Fn: func(rc *harness.RunContext) harness.MinorResult {
				blob, ok := rc.Registry.FindBySignature("RSDP", 0)
				if !ok {
					return harness.ResultSkip
				}
				ctx := fwcheck.Ctx{TestName: testName, TableCtx: "RSDP"}
				emitAll(ctx, rc.Sink, ValidateRSDP(ctx, blob))
				return harness.ResultOk
			},
		}},
	}
}
