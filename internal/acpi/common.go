// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

/*
Package acpi implements the ACPI table parsers and validators: spec.md
§4.D's per-table field decoding plus the generic, policy-driven fallback
for tables that have no dedicated deep parser. Every parser is a harness
minor test: it reads one fwsource.Blob, applies fwcheck's field-check
vocabulary through an fwcheck.Ctx, and emits findings through the
harness.RunContext's Sink.
*/
package acpi

import (
	"fmt"

	"fwts-go/internal/finding"
	"fwts-go/internal/fwcheck"
	"fwts-go/internal/fwcursor"
	"fwts-go/internal/fwsource"
	"fwts-go/internal/fwtab"
)

// ValidateCommonHeader runs the checks shared by every ACPI table that
// carries the 36-byte common header: signature match, checksum over the
// declared length, and — when a type-length policy is registered for the
// signature — that the declared length matches the policy for the table's
// revision. It returns the parsed header even when findings were raised,
// so callers can continue decoding past a cosmetic defect.
func ValidateCommonHeader(ctx fwcheck.Ctx, blob *fwsource.Blob, policies []fwtab.TypeLengthPolicy) (fwtab.CommonHeader, []finding.Finding) {
	var findings []finding.Finding

	c := fwcursor.New(blob.Data, int(blob.DeclaredLength))
	header, err := fwtab.ReadCommonHeader(c)
	if err != nil {
		findings = append(findings, finding.Finding{
			TestName:  ctx.TestName,
			TableCtx:  ctx.TableCtx,
			StableTag: "HeaderTruncated",
			Severity:  finding.SeverityCritical,
			Kind:      finding.KindFail,
			Text:      fmt.Sprintf("table is shorter than the %d-byte common ACPI header: %v", fwtab.CommonHeaderLen, err),
		})
		return header, findings
	}

	if header.Signature != blob.Signature {
		findings = append(findings, finding.Finding{
			TestName:  ctx.TestName,
			TableCtx:  ctx.TableCtx,
			StableTag: "SignatureMismatch",
			Severity:  finding.SeverityHigh,
			Kind:      finding.KindFail,
			Text:      fmt.Sprintf("header signature %q does not match the announced signature %q", header.Signature, blob.Signature),
		})
	}

	if !fwtab.ChecksumOverDeclaredLength(blob.Data, blob.DeclaredLength) {
		findings = append(findings, finding.Finding{
			TestName:  ctx.TestName,
			TableCtx:  ctx.TableCtx,
			StableTag: "BadChecksum",
			Severity:  finding.SeverityHigh,
			Kind:      finding.KindFail,
			Text:      "table checksum does not sum to zero over its declared length",
		})
	}

	if required, ok := fwtab.RequiredLengthFor(policies, uint16(header.Revision)); ok {
		if f := ctx.StructureLength("Length", 4, header.Length, uint32(required)); f != nil {
			findings = append(findings, *f)
		}
	}

	return header, findings
}

// checkTrailingBytes implements spec.md §4.D step 5: after a sub-structure
// walk finishes, the walk must have ended exactly at declaredLength.
// Tables that carry declared trailing-only data (AML blobs, raw OEM data)
// pass their own end offset for declaredLength and never call this.
func checkTrailingBytes(ctx fwcheck.Ctx, endOffset, declaredLength uint32) *finding.Finding {
	if endOffset == declaredLength {
		return nil
	}
	return &finding.Finding{
		TestName:  ctx.TestName,
		TableCtx:  ctx.TableCtx,
		StableTag: "TrailingBytes",
		Severity:  finding.SeverityMedium,
		Kind:      finding.KindFail,
		Offset:    &endOffset,
		Text:      fmt.Sprintf("sub-structure walk ended at offset %d, declared table length is %d", endOffset, declaredLength),
	}
}

// emitAll pushes every finding in fs through sink, wrapping nil-safe Pass
// reporting: a parser with zero findings still reports one Pass so the
// accumulator reflects that the table was checked, not skipped.
func emitAll(ctx fwcheck.Ctx, sink interface{ Emit(finding.Finding) }, fs []finding.Finding) {
	if len(fs) == 0 {
		sink.Emit(finding.Finding{TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindPass, Text: "no defects found"})
		return
	}
	for _, f := range fs {
		sink.Emit(f)
	}
}
