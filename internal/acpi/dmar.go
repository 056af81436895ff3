// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package acpi

import (
	"fmt"

	"fwts-go/internal/finding"
	"fwts-go/internal/fwcheck"
	"fwts-go/internal/fwcursor"
	"fwts-go/internal/fwsource"
	"fwts-go/internal/harness"
)

const dmarSubtableStart = 48 // common header (36) + host_address_width (1) + flags (1) + reserved (10)

// dmarKnownTypes is the DMAR remapping structure type enumeration: DRHD,
// RMRR, ATSR, RHSA, ANDD, SATC, SIDP.
var dmarKnownTypes = map[uint16]string{
	0: "DRHD",
	1: "RMRR",
	2: "ATSR",
	3: "RHSA",
	4: "ANDD",
	5: "SATC",
	6: "SIDP",
}

// ValidateDMAR decodes the DMA Remapping Reporting table and walks its
// variable-length remapping structures, the same subtable-walk shape as
// MADT: a zero-length structure aborts the walk, an unrecognized type is
// flagged but does not stop it.
func ValidateDMAR(ctx fwcheck.Ctx, blob *fwsource.Blob) []finding.Finding {
	header, findings := ValidateCommonHeader(ctx, blob, nil)
	if header.Signature == "" {
		return findings
	}

	c := fwcursor.New(blob.Data, int(blob.DeclaredLength))

	if hostWidth, err := c.ReadU8At(36); err == nil {
		if f := ctx.MinMax("HostAddressWidth", 36, int64(hostWidth), 0, 63); f != nil {
			findings = append(findings, *f)
		}
	}

	offset := dmarSubtableStart
	aborted := false
	for offset < int(header.Length) {
		label := fmt.Sprintf("DMAR structure @%d", offset)
		subType, err := c.ReadU16At(offset)
		if err != nil {
			aborted = true
			break
		}
		subLen, err := c.ReadU16At(offset + 2)
		if err != nil {
			aborted = true
			break
		}
		if f := ctx.StructureLengthNonzero(label, uint32(offset+2), uint32(subLen)); f != nil {
			findings = append(findings, *f)
			aborted = true
			break
		}
		end := uint32(offset) + uint32(subLen)
		if f := ctx.RangeInTable(label, uint32(offset), end, header.Length); f != nil {
			findings = append(findings, *f)
			aborted = true
			break
		}

		if _, known := dmarKnownTypes[subType]; !known {
			findings = append(findings, finding.Finding{
				TestName:  ctx.TestName,
				TableCtx:  ctx.TableCtx,
				StableTag: "UnknownSubtype",
				Severity:  finding.SeverityHigh,
				Kind:      finding.KindFail,
				Field:     fmt.Sprintf("DMAR structure type %d", subType),
				Text:      fmt.Sprintf("DMAR remapping structure at offset %d has unrecognized type %d", offset, subType),
			})
		}

		offset += int(subLen)
	}

	if !aborted {
		if f := checkTrailingBytes(ctx, uint32(offset), header.Length); f != nil {
			findings = append(findings, *f)
		}
	}

	return findings
}

// DMARTest registers the DMAR validator.
func DMARTest() harness.Test {
	const testName = "ACPIDmar"
	return harness.Test{
		Name:        testName,
		Description: "validate the DMA Remapping Reporting table structure walk",
		Ordering:    harness.OrderAnytime,
		Flags:       harness.FlagAcpi | harness.FlagBatch,
		MinorTests: []harness.MinorTest{{
			Description: "DMAR remapping structure walk",
			Fn: func(rc *harness.RunContext) harness.MinorResult {
				blob, ok := rc.Registry.FindBySignature("DMAR", 0)
				if !ok {
					return harness.ResultSkip
				}
				ctx := fwcheck.Ctx{TestName: testName, TableCtx: "DMAR"}
				emitAll(ctx, rc.Sink, ValidateDMAR(ctx, blob))
				return harness.ResultOk
			},
		}},
	}
}
