package fwcheck

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fwts-go/internal/finding"
)

func ctx() Ctx {
	return Ctx{TestName: "acpi_fadt", TableCtx: "FADT"}
}

func TestReservedZero(t *testing.T) {
	require.Nil(t, ctx().ReservedZero("Reserved", 10, 0))
	f := ctx().ReservedZero("Reserved", 10, 7)
	require.NotNil(t, f)
	require.Equal(t, "ReservedNonZero", f.StableTag)
	require.Equal(t, finding.SeverityMedium, f.Severity)
}

func TestReservedBitsFADTFlags(t *testing.T) {
	// S6: FADT with all reserved flag bits (22..31) set.
	var flags uint64 = 0
	for bit := 22; bit <= 31; bit++ {
		flags |= 1 << uint(bit)
	}
	f := ctx().ReservedBits("Flags", 112, flags, 22, 31)
	require.NotNil(t, f)
	require.Equal(t, "ReservedBitUsed", f.StableTag)
	require.Equal(t, "Flags", f.Field)
	require.Equal(t, uint32(112), *f.Offset)

	require.Nil(t, ctx().ReservedBits("Flags", 112, 0x003FFFFF, 22, 31))
}

func TestMinMax(t *testing.T) {
	require.Nil(t, ctx().MinMax("PMProfile", 45, 3, 0, 8))
	f := ctx().MinMax("PMProfile", 45, 99, 0, 8)
	require.NotNil(t, f)
	require.Equal(t, "ValueOutOfRange", f.StableTag)
}

func TestRanges(t *testing.T) {
	ranges := []Range{{0, 2}, {10, 12}}
	require.Nil(t, ctx().Ranges("X", 0, 11, ranges))
	require.NotNil(t, ctx().Ranges("X", 0, 5, ranges))
}

func TestFixedValue(t *testing.T) {
	require.Nil(t, ctx().FixedValue("MinorVersion", 0, 1, 1, finding.SeverityHigh))
	f := ctx().FixedValue("MinorVersion", 0, 2, 1, finding.SeverityHigh)
	require.NotNil(t, f)
	require.Equal(t, finding.SeverityHigh, f.Severity)
}

func TestStructureLengthNonzero(t *testing.T) {
	// S3: MADT with zero sub-structure length must abort the walk.
	f := ctx().StructureLengthNonzero("MADT subtype 0", 44, 0)
	require.NotNil(t, f)
	require.Equal(t, "ZeroStructureLength", f.StableTag)
	require.Nil(t, ctx().StructureLengthNonzero("MADT subtype 0", 44, 8))
}

func TestRangeInTable(t *testing.T) {
	// A sub-structure whose end offset lies past the table length is out of range.
	f := ctx().RangeInTable("IdMappingArray", 16, 120, 100)
	require.NotNil(t, f)
	require.Equal(t, "OffsetOutOfRange", f.StableTag)
	require.Nil(t, ctx().RangeInTable("IdMappingArray", 16, 90, 100))
}

func TestSpaceID(t *testing.T) {
	allowed := []uint64{0, 1, 2, 3, 4, 5, 6, 0x0a, 0x7f}
	require.Nil(t, ctx().SpaceID("AddressSpaceId", 0, 1, allowed))
	require.NotNil(t, ctx().SpaceID("AddressSpaceId", 0, 0x20, allowed))
}

func TestStringIndex(t *testing.T) {
	require.Nil(t, ctx().StringIndex("Manufacturer", 4, 0, 3, finding.SeverityHigh)) // 0 == not set
	require.Nil(t, ctx().StringIndex("Manufacturer", 4, 2, 3, finding.SeverityHigh))
	require.NotNil(t, ctx().StringIndex("Manufacturer", 4, 5, 3, finding.SeverityHigh))
}

func TestPrintableAscii(t *testing.T) {
	require.Nil(t, ctx().PrintableAscii("OEMID", 10, "INTEL "))
	require.NotNil(t, ctx().PrintableAscii("OEMID", 10, "IN\x01EL "))
}
