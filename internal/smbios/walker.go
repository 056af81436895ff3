// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package smbios

import (
	"errors"
	"fmt"

	"fwts-go/internal/fwcursor"
)

// StructureHeaderLen is the fixed {Type, Length, Handle} header every
// SMBIOS structure starts with.
const StructureHeaderLen = 4

// ErrTableLengthTooSmall wraps every WalkStructures error caused by the
// packed table ending before the walk expected it to: a structure header,
// formatted area, or string-table terminator running past the declared
// table length.
var ErrTableLengthTooSmall = errors.New("SMBIOS table ends before the structure walk expected")

// ErrInvalidEntryLength wraps a structure whose declared length is
// shorter than the fixed 4-byte {type,length,handle} header.
var ErrInvalidEntryLength = errors.New("SMBIOS structure length shorter than its header")

// Structure is one decoded SMBIOS structure: its fixed-length formatted
// area plus the unformatted, double-NUL-terminated string table that
// follows it.
type Structure struct {
	Type    uint8
	Length  uint8
	Handle  uint16
	Data    []byte // the formatted area, including the 4-byte header
	Strings []string
	Offset  int // byte offset of this structure within the table
}

// WalkStructures parses every SMBIOS structure in tableData until an
// end-of-table marker (type 127) or the data is exhausted, per spec.md
// §4.D.1's structure walk.
func WalkStructures(tableData []byte) ([]Structure, error) {
	var out []Structure
	c := fwcursor.New(tableData, len(tableData))
	offset := 0

	for offset < len(tableData) {
		if offset+StructureHeaderLen > len(tableData) {
			return out, fmt.Errorf("structure header at offset %d overruns the table: %w", offset, ErrTableLengthTooSmall)
		}
		typ, err := c.ReadU8At(offset)
		if err != nil {
			return out, err
		}
		length, err := c.ReadU8At(offset + 1)
		if err != nil {
			return out, err
		}
		if int(length) < StructureHeaderLen {
			return out, fmt.Errorf("structure at offset %d declares length %d shorter than the 4-byte header: %w", offset, length, ErrInvalidEntryLength)
		}
		handle, err := c.ReadU16At(offset + 2)
		if err != nil {
			return out, err
		}
		formatted, err := c.ReadBytesAt(offset, int(length))
		if err != nil {
			return out, fmt.Errorf("structure at offset %d declares length %d beyond the table: %w", offset, length, ErrTableLengthTooSmall)
		}

		stringsStart := offset + int(length)
		strs, consumed, err := readStringTable(tableData, stringsStart)
		if err != nil {
			return out, err
		}

		out = append(out, Structure{Type: typ, Length: length, Handle: handle, Data: formatted, Strings: strs, Offset: offset})

		if typ == 127 { // end-of-table marker
			break
		}
		offset = stringsStart + consumed
	}
	return out, nil
}

// readStringTable reads the unformatted string section starting at
// offset: a sequence of NUL-terminated strings terminated by a second,
// immediately-following NUL (an empty string table is just 0x00 0x00).
func readStringTable(data []byte, offset int) (strs []string, consumed int, err error) {
	if offset >= len(data) {
		return nil, 0, fmt.Errorf("string table at offset %d overruns the table: %w", offset, ErrTableLengthTooSmall)
	}
	if data[offset] == 0 {
		// Either "no strings" (second byte also 0) or malformed; SMBIOS
		// requires a minimum two-byte terminator even with no strings.
		if offset+1 >= len(data) || data[offset+1] != 0 {
			return nil, 0, fmt.Errorf("string table at offset %d missing double-NUL terminator: %w", offset, ErrTableLengthTooSmall)
		}
		return nil, 2, nil
	}

	i := offset
	for {
		start := i
		for i < len(data) && data[i] != 0 {
			i++
		}
		if i >= len(data) {
			return nil, 0, fmt.Errorf("unterminated string starting at offset %d: %w", start, ErrTableLengthTooSmall)
		}
		strs = append(strs, string(data[start:i]))
		i++ // skip the NUL
		if i < len(data) && data[i] == 0 {
			i++ // skip the terminating second NUL
			break
		}
		if i >= len(data) {
			return nil, 0, fmt.Errorf("string table starting at offset %d missing terminator: %w", offset, ErrTableLengthTooSmall)
		}
	}
	return strs, i - offset, nil
}
