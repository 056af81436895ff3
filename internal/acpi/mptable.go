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

const (
	mpFloatingLen    = 16 // "_MP_" structure is always exactly one 16-byte paragraph
	mpConfigTableMin = 44
)

// ValidateMPFloating checks the MP Floating Pointer Structure ("_MP_"),
// the pre-ACPI multiprocessor discovery anchor defined by Intel's MP
// Specification 1.4.
func ValidateMPFloating(ctx fwcheck.Ctx, blob *fwsource.Blob) []finding.Finding {
	var findings []finding.Finding
	c := fwcursor.New(blob.Data, len(blob.Data))

	sig, err := c.PeekAsciiFixed(0, 4)
	if err != nil || sig != "_MP_" {
		findings = append(findings, finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityCritical, StableTag: "SignatureMismatch",
			Text: "MP Floating Pointer signature mismatch",
		})
		return findings
	}

	length, err := c.ReadU8At(8)
	if err == nil {
		if f := ctx.FixedValue("Length", 8, int64(length), 1, finding.SeverityHigh); f != nil {
			findings = append(findings, *f)
		}
	}

	if len(blob.Data) >= mpFloatingLen && !fwutil.ChecksumOK(blob.Data[:mpFloatingLen]) {
		findings = append(findings, finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityHigh, StableTag: "BadChecksum",
			Text: "MP Floating Pointer checksum does not sum to zero",
		})
	}

	specRev, err := c.ReadU8At(9)
	if err == nil {
		if f := ctx.Ranges("SpecRev", 9, int64(specRev), []fwcheck.Range{{Min: 1, Max: 4}}); f != nil {
			findings = append(findings, *f)
		}
	}

	return findings
}

// ValidateMPConfigTable checks the MP Configuration Table header
// ("PCMP"), the variable-length entry list referenced by the floating
// pointer structure's physical address field.
func ValidateMPConfigTable(ctx fwcheck.Ctx, blob *fwsource.Blob) []finding.Finding {
	var findings []finding.Finding
	c := fwcursor.New(blob.Data, len(blob.Data))

	sig, err := c.PeekAsciiFixed(0, 4)
	if err != nil || sig != "PCMP" {
		findings = append(findings, finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityCritical, StableTag: "SignatureMismatch",
			Text: "MP Configuration Table signature mismatch",
		})
		return findings
	}

	length, err := c.ReadU16At(4)
	if err != nil {
		return findings
	}
	if f := ctx.MinMax("BaseTableLength", 4, int64(length), mpConfigTableMin, 0xffff); f != nil {
		findings = append(findings, *f)
		return findings
	}

	if int(length) <= len(blob.Data) && !fwutil.ChecksumOK(blob.Data[:length]) {
		findings = append(findings, finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityHigh, StableTag: "BadChecksum",
			Text: "MP Configuration Table checksum does not sum to zero",
		})
	}

	entryCount, err := c.ReadU16At(34)
	if err == nil && entryCount == 0 {
		findings = append(findings, finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindAdvice,
			Severity: finding.SeverityNone, StableTag: "NoMPEntries",
			Text: "MP Configuration Table declares zero entries",
		})
	}

	return findings
}

// MPTableTests registers both the MP Floating Pointer and MP Configuration
// Table validators.
func MPTableTests() harness.Manifest {
	floatingTestName := "ACPIMpFloating"
	configTestName := "ACPIMpConfigTable"
	return harness.Manifest{
		{
			Name:        floatingTestName,
			Description: "validate the MP Floating Pointer Structure",
			Ordering:    harness.OrderAnytime,
			Flags:       harness.FlagBatch,
			MinorTests: []harness.MinorTest{{
				Description: "MP floating pointer layout",
				Fn: func(rc *harness.RunContext) harness.MinorResult {
					blob, ok := rc.Registry.FindBySignature("_MP_", 0)
					if !ok {
						return harness.ResultSkip
					}
					ctx := fwcheck.Ctx{TestName: floatingTestName, TableCtx: "MPFloating"}
					emitAll(ctx, rc.Sink, ValidateMPFloating(ctx, blob))
					return harness.ResultOk
				},
			}},
		},
		{
			Name:        configTestName,
			Description: "validate the MP Configuration Table",
			Ordering:    harness.OrderAnytime,
			Flags:       harness.FlagBatch,
			MinorTests: []harness.MinorTest{{
				Description: "MP configuration table layout",
				Fn: func(rc *harness.RunContext) harness.MinorResult {
					blob, ok := rc.Registry.FindBySignature("PCMP", 0)
					if !ok {
						return harness.ResultSkip
					}
					ctx := fwcheck.Ctx{TestName: configTestName, TableCtx: "PCMP"}
					emitAll(ctx, rc.Sink, ValidateMPConfigTable(ctx, blob))
					return harness.ResultOk
				},
			}},
		},
	}
}
