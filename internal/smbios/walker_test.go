// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package smbios

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildStructure assembles one structure: the 4-byte header, any extra
// formatted bytes, and the trailing string table.
func buildStructure(typ, length uint8, handle uint16, extra []byte, strs []string) []byte {
	out := []byte{typ, length, byte(handle), byte(handle >> 8)}
	out = append(out, extra...)
	if len(strs) == 0 {
		out = append(out, 0x00, 0x00)
		return out
	}
	for _, s := range strs {
		out = append(out, []byte(s)...)
		out = append(out, 0x00)
	}
	out = append(out, 0x00)
	return out
}

func TestWalkStructuresMultipleWithStrings(t *testing.T) {
	var data []byte
	data = append(data, buildStructure(0, 4, 0x0001, nil, nil)...)
	data = append(data, buildStructure(1, 6, 0x0002, []byte{0x01, 0x02}, []string{"Acme", "Widget"})...)
	data = append(data, buildStructure(127, 4, 0xffff, nil, nil)...)

	structures, err := WalkStructures(data)
	require.NoError(t, err)
	require.Len(t, structures, 3)

	require.Equal(t, uint8(0), structures[0].Type)
	require.Empty(t, structures[0].Strings)

	require.Equal(t, uint8(1), structures[1].Type)
	require.Equal(t, []string{"Acme", "Widget"}, structures[1].Strings)

	require.Equal(t, uint8(127), structures[2].Type)
}

func TestWalkStructuresStopsAtEndOfTableEvenWithTrailingBytes(t *testing.T) {
	var data []byte
	data = append(data, buildStructure(127, 4, 0xffff, nil, nil)...)
	data = append(data, 0xde, 0xad, 0xbe, 0xef) // garbage after end marker, must be ignored

	structures, err := WalkStructures(data)
	require.NoError(t, err)
	require.Len(t, structures, 1)
}

func TestWalkStructuresTruncatedHeaderErrors(t *testing.T) {
	_, err := WalkStructures([]byte{0, 4})
	require.Error(t, err)
}

func TestWalkStructuresLengthShorterThanHeaderErrors(t *testing.T) {
	_, err := WalkStructures([]byte{0, 3, 0x00, 0x00, 0x00, 0x00})
	require.Error(t, err)
}

func TestWalkStructuresMissingStringTerminatorErrors(t *testing.T) {
	data := []byte{0, 4, 0x00, 0x00, 'x'} // no terminating NULs at all
	_, err := WalkStructures(data)
	require.Error(t, err)
}

// TestWalkStructuresTruncatedEndOfTableS2 matches the scenario of a type-0
// BIOS-information record (length 0x14) followed by only one NUL instead
// of the required double-NUL string-table terminator.
func TestWalkStructuresTruncatedEndOfTableS2(t *testing.T) {
	data := make([]byte, 0x14)
	data[0], data[1] = 0, 0x14
	data = append(data, 0x00) // single NUL, missing the second terminator byte

	_, err := WalkStructures(data)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrTableLengthTooSmall))
}

func TestWalkStructuresLengthShorterThanHeaderIsInvalidEntryLength(t *testing.T) {
	_, err := WalkStructures([]byte{0, 3, 0x00, 0x00, 0x00, 0x00})
	require.True(t, errors.Is(err, ErrInvalidEntryLength))
}
