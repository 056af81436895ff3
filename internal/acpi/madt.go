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

const madtSubtableStart = 44

// madtSubtypeMinLen is the per-subtype minimum sub_length for MADT
// interrupt controller structures 0..13. Subtypes 7 and 8 carry a
// trailing variable-length region on top of this fixed minimum.
var madtSubtypeMinLen = map[uint8]uint8{
	0:  8,  // Processor Local APIC
	1:  12, // I/O APIC
	2:  10, // Interrupt Source Override
	3:  8,  // NMI Source
	4:  6,  // Local APIC NMI
	5:  12, // Local APIC Address Override
	6:  16, // I/O SAPIC
	7:  16, // Local SAPIC
	8:  16, // Platform Interrupt Sources
	9:  16, // Processor Local x2APIC
	10: 12, // Local x2APIC NMI
	11: 76, // GIC CPU Interface (GICC)
	12: 24, // GIC Distributor (GICD)
	13: 24, // GIC MSI Frame
}

// ValidateMADT decodes the Multiple APIC Description Table (signature
// "APIC") and walks its variable-length interrupt controller subtables,
// per spec.md's concrete scenario S3: a subtable with declared length
// zero must abort the walk rather than loop forever.
func ValidateMADT(ctx fwcheck.Ctx, blob *fwsource.Blob) []finding.Finding {
	header, findings := ValidateCommonHeader(ctx, blob, nil)
	if header.Signature == "" {
		return findings
	}

	c := fwcursor.New(blob.Data, int(blob.DeclaredLength))
	offset := madtSubtableStart
	index := 0
	aborted := false
	// Fewer than two bytes left cannot hold a sub-structure header; the
	// walk stops and the leftover is reported as trailing bytes.
	for offset+2 <= int(header.Length) {
		label := fmt.Sprintf("MADT subtype @%d", offset)
		subType, err := c.ReadU8At(offset)
		if err != nil {
			aborted = true
			break
		}
		subLen, err := c.ReadU8At(offset + 1)
		if err != nil {
			aborted = true
			break
		}
		if f := ctx.StructureLengthNonzero(label, uint32(offset), uint32(subLen)); f != nil {
			findings = append(findings, *f)
			aborted = true
			break // zero length means the walk cannot make progress; abort per S3
		}
		if f := ctx.MinMax(label, uint32(offset+1), int64(subLen), 6, 255); f != nil {
			findings = append(findings, *f)
			aborted = true
			break // sub_length below the 6-byte floor is self-inconsistent; abort
		}
		end := uint32(offset) + uint32(subLen)
		if f := ctx.RangeInTable(label, uint32(offset), end, header.Length); f != nil {
			findings = append(findings, *f)
			aborted = true
			break
		}

		findings = append(findings, validateMADTSubtype(ctx, c, subType, subLen, offset, index)...)

		offset += int(subLen)
		index++
	}

	if !aborted {
		if f := checkTrailingBytes(ctx, uint32(offset), header.Length); f != nil {
			findings = append(findings, *f)
		}
	}

	return findings
}

// validateMADTSubtype dispatches by sub_type to the per-type field table.
// Unknown or reserved sub_types (anything outside 0..13) emit UnknownSubtype
// at High severity and the walk simply skips over them — sub_length was
// already validated as self-consistent by the caller.
func validateMADTSubtype(ctx fwcheck.Ctx, c *fwcursor.Cursor, subType, subLen uint8, offset, index int) []finding.Finding {
	minLen, known := madtSubtypeMinLen[subType]
	if !known {
		return []finding.Finding{{
			TestName:  ctx.TestName,
			TableCtx:  ctx.TableCtx,
			StableTag: "UnknownSubtype",
			Severity:  finding.SeverityHigh,
			Kind:      finding.KindFail,
			Field:     fmt.Sprintf("MADT subtype %d", subType),
			Text:      fmt.Sprintf("MADT sub-structure %d at offset %d has unrecognized sub_type %d", index, offset, subType),
		}}
	}

	var findings []finding.Finding
	if f := ctx.MinMax(fmt.Sprintf("MADT subtype %d @%d length", subType, offset), uint32(offset+1), int64(subLen), int64(minLen), 255); f != nil {
		findings = append(findings, *f)
	}

	switch subType {
	case 0: // Processor Local APIC
		if flags, err := c.ReadU32At(offset + 4); err == nil {
			if f := ctx.ReservedBits("LocalAPIC.Flags", uint32(offset+4), uint64(flags), 2, 31); f != nil {
				findings = append(findings, *f)
			}
		}
	case 1: // I/O APIC
		if reserved, err := c.ReadU8At(offset + 3); err == nil {
			if f := ctx.ReservedZero("IOAPIC.Reserved", uint32(offset+3), uint64(reserved)); f != nil {
				findings = append(findings, *f)
			}
		}
	case 2: // Interrupt Source Override
		if flags, err := c.ReadU16At(offset + 8); err == nil {
			if f := ctx.ReservedBits("InterruptSourceOverride.Flags", uint32(offset+8), uint64(flags), 4, 15); f != nil {
				findings = append(findings, *f)
			}
		}
	case 3: // NMI Source
		if flags, err := c.ReadU16At(offset + 2); err == nil {
			if f := ctx.ReservedBits("NMISource.Flags", uint32(offset+2), uint64(flags), 4, 15); f != nil {
				findings = append(findings, *f)
			}
		}
	case 4: // Local APIC NMI
		if flags, err := c.ReadU16At(offset + 3); err == nil {
			if f := ctx.ReservedBits("LocalAPICNMI.Flags", uint32(offset+3), uint64(flags), 4, 15); f != nil {
				findings = append(findings, *f)
			}
		}
	case 5: // Local APIC Address Override
		if reserved, err := c.ReadU16At(offset + 2); err == nil {
			if f := ctx.ReservedZero("LocalAPICAddressOverride.Reserved", uint32(offset+2), uint64(reserved)); f != nil {
				findings = append(findings, *f)
			}
		}
	case 9: // Processor Local x2APIC
		if reserved, err := c.ReadU16At(offset + 2); err == nil {
			if f := ctx.ReservedZero("LocalX2APIC.Reserved", uint32(offset+2), uint64(reserved)); f != nil {
				findings = append(findings, *f)
			}
		}
	}

	return findings
}

// MADTTest registers the MADT validator.
func MADTTest() harness.Test {
	const testName = "ACPIMadt"
	return harness.Test{
		Name:        testName,
		Description: "validate the Multiple APIC Description Table (APIC) subtable walk",
		Ordering:    harness.OrderEarly,
		Flags:       harness.FlagAcpi | harness.FlagBatch,
		MinorTests: []harness.MinorTest{{
			Description: "MADT subtable length and bounds",
			Fn: func(rc *harness.RunContext) harness.MinorResult {
				blob, ok := rc.Registry.FindBySignature("APIC", 0)
				if !ok {
					return harness.ResultSkip
				}
				ctx := fwcheck.Ctx{TestName: testName, TableCtx: "APIC"}
				emitAll(ctx, rc.Sink, ValidateMADT(ctx, blob))
				return harness.ResultOk
			},
		}},
	}
}
