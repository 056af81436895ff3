// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

/*
Package fwcheck implements spec.md §4.B's field-check vocabulary: a small
set of functions that each inspect one observed value and return at most one
Finding. Every check is a pure function of its inputs — callers are
responsible for handing the result to a Sink.
*/
package fwcheck

import (
	"fmt"

	"fwts-go/internal/finding"
)

// Ctx carries the originating test/table context that every check stamps
// onto the findings it produces, per spec.md §4.B ("All checks include the
// originating table name and, when relevant, the byte offset").
type Ctx struct {
	TestName string
	TableCtx string
}

func (c Ctx) build(tag string, sev finding.Severity, field string, offset uint32, text string, observed any) finding.Finding {
	off := offset
	return finding.Finding{
		TestName:      c.TestName,
		StableTag:     tag,
		Severity:      sev,
		Kind:          finding.KindFail,
		Text:          text,
		TableCtx:      c.TableCtx,
		Offset:        &off,
		Field:         field,
		ObservedValue: observed,
	}
}

// ReservedZero implements the `reserved_zero(v)` check: fails if v != 0.
func (c Ctx) ReservedZero(field string, offset uint32, v uint64) *finding.Finding {
	if v == 0 {
		return nil
	}
	f := c.build("ReservedNonZero", finding.SeverityMedium, field, offset,
		fmt.Sprintf("field %s is reserved and must be zero, got 0x%x", field, v), v)
	return &f
}

// ReservedBits implements `reserved_bits(v, lo..=hi)`: fails if any bit in
// [lo,hi] of v is set.
func (c Ctx) ReservedBits(field string, offset uint32, v uint64, lo, hi uint) *finding.Finding {
	mask := bitRangeMask(lo, hi)
	if v&mask == 0 {
		return nil
	}
	f := c.build("ReservedBitUsed", finding.SeverityMedium, field, offset,
		fmt.Sprintf("field %s has reserved bit(s) [%d:%d] set, got 0x%x", field, lo, hi, v), v)
	return &f
}

func bitRangeMask(lo, hi uint) uint64 {
	var mask uint64
	for i := lo; i <= hi; i++ {
		mask |= 1 << i
	}
	return mask
}

// MinMax implements `min_max(v, min, max)`: fails if v < min or v > max.
func (c Ctx) MinMax(field string, offset uint32, v, minVal, maxVal int64) *finding.Finding {
	if v >= minVal && v <= maxVal {
		return nil
	}
	f := c.build("ValueOutOfRange", finding.SeverityHigh, field, offset,
		fmt.Sprintf("field %s value %d outside range [%d,%d]", field, v, minVal, maxVal), v)
	return &f
}

// Range is one (min,max) pair for the Ranges check.
type Range struct {
	Min, Max int64
}

// Ranges implements `ranges(v, [(min_i,max_i)...])`: fails if no range
// contains v.
func (c Ctx) Ranges(field string, offset uint32, v int64, ranges []Range) *finding.Finding {
	for _, r := range ranges {
		if v >= r.Min && v <= r.Max {
			return nil
		}
	}
	f := c.build("ValueOutOfRange", finding.SeverityHigh, field, offset,
		fmt.Sprintf("field %s value %d not within any allowed range", field, v), v)
	return &f
}

// FixedValue implements `fixed_value(v, expected)` with a caller-supplied
// severity (spec.md marks this check's severity "configurable").
func (c Ctx) FixedValue(field string, offset uint32, v, expected int64, sev finding.Severity) *finding.Finding {
	if v == expected {
		return nil
	}
	f := c.build("FixedValueMismatch", sev, field, offset,
		fmt.Sprintf("field %s expected fixed value %d, got %d", field, expected, v), v)
	return &f
}

// StructureLength implements `structure_length(declared, expected)`.
func (c Ctx) StructureLength(field string, offset uint32, declared, expected uint32) *finding.Finding {
	if declared == expected {
		return nil
	}
	f := c.build("BadStructureLength", finding.SeverityHigh, field, offset,
		fmt.Sprintf("%s declared length %d does not match expected length %d", field, declared, expected), declared)
	return &f
}

// StructureLengthNonzero implements `structure_length_nonzero(declared, offset)`.
func (c Ctx) StructureLengthNonzero(field string, offset uint32, declared uint32) *finding.Finding {
	if declared != 0 {
		return nil
	}
	f := c.build("ZeroStructureLength", finding.SeverityHigh, field, offset,
		fmt.Sprintf("%s has a declared length of zero", field), declared)
	return &f
}

// RangeInTable implements `range_in_table(offset, table_len)`.
func (c Ctx) RangeInTable(field string, offset uint32, end, tableLen uint32) *finding.Finding {
	if end <= tableLen {
		return nil
	}
	f := c.build("OffsetOutOfRange", finding.SeverityHigh, field, offset,
		fmt.Sprintf("%s extends to offset %d, beyond table length %d", field, end, tableLen), end)
	return &f
}

// SpaceID implements `space_id(v, allowed_set)`.
func (c Ctx) SpaceID(field string, offset uint32, v uint64, allowed []uint64) *finding.Finding {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	f := c.build("InvalidSpaceId", finding.SeverityHigh, field, offset,
		fmt.Sprintf("%s has invalid address space id 0x%x", field, v), v)
	return &f
}

// StringIndex implements `string_index(i, string_count)`: index 0 means
// "not set" and is accepted; an index beyond the string table is invalid.
// spec.md marks the severity High/Low depending on caller context, so the
// caller supplies it.
func (c Ctx) StringIndex(field string, offset uint32, idx int, stringCount int, sev finding.Severity) *finding.Finding {
	if idx == 0 || (idx > 0 && idx <= stringCount) {
		return nil
	}
	f := c.build("StringIndexOutOfRange", sev, field, offset,
		fmt.Sprintf("%s string index %d out of range [1,%d]", field, idx, stringCount), idx)
	return &f
}

// PrintableAscii implements `printable_ascii(s)`.
func (c Ctx) PrintableAscii(field string, offset uint32, s string) *finding.Finding {
	for _, b := range []byte(s) {
		if b < 0x20 || b > 0x7e {
			f := c.build("NonPrintable", finding.SeverityLow, field, offset,
				fmt.Sprintf("%s contains non-printable byte 0x%02x", field, b), s)
			return &f
		}
	}
	return nil
}
