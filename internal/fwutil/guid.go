package fwutil

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
)

// FormatGUID renders a 16-byte SMBIOS/ACPI GUID field in canonical
// xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx form. Per spec.md §4.D.1 the input is
// in the SMBIOS middle-endian layout: the first three groups (4, 2, 2 bytes)
// are little-endian, the last two groups (2, 6 bytes) are big-endian.
func FormatGUID(b [16]byte) string {
	return fmt.Sprintf("%02x%02x%02x%02x-%02x%02x-%02x%02x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		b[3], b[2], b[1], b[0],
		b[5], b[4],
		b[7], b[6],
		b[8], b[9],
		b[10], b[11], b[12], b[13], b[14], b[15])
}

// ParseGUID is the inverse of FormatGUID: it parses a canonical GUID string
// back into the 16-byte middle-endian layout. Testable property 6 of
// spec.md §8 requires format(parse(s)) == s and parse(format(b)) == b.
func ParseGUID(s string) (out [16]byte, err error) {
	if len(s) != 36 {
		return out, fmt.Errorf("invalid GUID length %d, expected 36", len(s))
	}
	var d0, d4 uint32
	var d1, d2, d3a uint16
	var d3b [6]byte
	n, err := fmt.Sscanf(s, "%08x-%04x-%04x-%04x-%02x%02x%02x%02x%02x%02x",
		&d0, &d1, &d2, &d3a, &d3b[0], &d3b[1], &d3b[2], &d3b[3], &d3b[4], &d3b[5])
	if err != nil || n != 10 {
		return out, fmt.Errorf("malformed GUID %q: %w", s, err)
	}
	_ = d4
	out[0] = byte(d0)
	out[1] = byte(d0 >> 8)
	out[2] = byte(d0 >> 16)
	out[3] = byte(d0 >> 24)
	out[4] = byte(d1)
	out[5] = byte(d1 >> 8)
	out[6] = byte(d2)
	out[7] = byte(d2 >> 8)
	out[8] = byte(d3a >> 8)
	out[9] = byte(d3a)
	copy(out[10:], d3b[:])
	return out, nil
}

// PrintableASCII reports whether every byte of s is in the printable ASCII
// range [0x20, 0x7E], the `printable_ascii` check from spec.md §4.B.
func PrintableASCII(s []byte) bool {
	for _, b := range s {
		if b < 0x20 || b > 0x7e {
			return false
		}
	}
	return true
}
