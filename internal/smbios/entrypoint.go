// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

/*
Package smbios implements spec.md §4.D.1: SMBIOS/DMI entry-point
discovery (both the 32-bit "_SM_" and 64-bit "_SM3_" anchors), the
double-NUL-terminated structure walker, per-type field validators, and
the SBBR mandatory-structure-type check used in UEFI firmware
compliance mode.
*/
package smbios

import (
	"fmt"

	"fwts-go/internal/fwcursor"
	"fwts-go/internal/fwutil"
)

// EntryPointVersion distinguishes the two entry-point table formats.
type EntryPointVersion int

const (
	VersionUnknown EntryPointVersion = iota
	Version2
	Version3
)

const (
	anchorV2 = "_SM_"
	anchorV3 = "_SM3_"

	entryPointV2Len = 31
	entryPointV3Len = 24
)

// EntryPoint is the decoded SMBIOS entry-point structure, normalized
// across the v2 and v3 layouts.
type EntryPoint struct {
	Version          EntryPointVersion
	SMBIOSMajor      uint8
	SMBIOSMinor      uint8
	TableAddress     uint64
	TableLength      uint32 // 0 for v3, which has no declared table length
	MaxStructureSize uint16 // v2 only
}

// DiscoverEntryPoint locates and decodes the SMBIOS entry-point structure
// at the start of data. Callers scanning a raw memory image are expected
// to have already found the 16-byte-aligned anchor offset; this function
// only validates and decodes the structure once found.
func DiscoverEntryPoint(data []byte) (EntryPoint, error) {
	var ep EntryPoint
	c := fwcursor.New(data, len(data))

	if len(data) >= len(anchorV3) {
		if sig, err := c.PeekAsciiFixed(0, len(anchorV3)); err == nil && sig == anchorV3 {
			return decodeV3(c)
		}
	}
	if len(data) >= len(anchorV2) {
		if sig, err := c.PeekAsciiFixed(0, len(anchorV2)); err == nil && sig == anchorV2 {
			return decodeV2(c)
		}
	}
	return ep, fmt.Errorf("no recognized SMBIOS entry-point anchor found")
}

func decodeV2(c *fwcursor.Cursor) (EntryPoint, error) {
	var ep EntryPoint
	length, err := c.ReadU8At(5)
	if err != nil {
		return ep, err
	}
	if int(length) < entryPointV2Len {
		return ep, fmt.Errorf("v2 entry point declares length %d shorter than the minimum 31 bytes", length)
	}
	epBytes, err := c.ReadBytesAt(0, int(length))
	if err != nil {
		return ep, err
	}
	if !fwutil.ChecksumOK(epBytes) {
		return ep, fmt.Errorf("v2 entry point checksum does not sum to zero")
	}
	major, err := c.ReadU8At(6)
	if err != nil {
		return ep, err
	}
	minor, err := c.ReadU8At(7)
	if err != nil {
		return ep, err
	}
	maxStructSize, err := c.ReadU16At(8)
	if err != nil {
		return ep, err
	}
	tableLength, err := c.ReadU16At(22)
	if err != nil {
		return ep, err
	}
	tableAddress, err := c.ReadU32At(24)
	if err != nil {
		return ep, err
	}
	ep = EntryPoint{
		Version:          Version2,
		SMBIOSMajor:      major,
		SMBIOSMinor:      minor,
		TableAddress:     uint64(tableAddress),
		TableLength:      uint32(tableLength),
		MaxStructureSize: maxStructSize,
	}
	return ep, nil
}

func decodeV3(c *fwcursor.Cursor) (EntryPoint, error) {
	var ep EntryPoint
	length, err := c.ReadU8At(6)
	if err != nil {
		return ep, err
	}
	if int(length) < entryPointV3Len {
		return ep, fmt.Errorf("v3 entry point declares length %d shorter than the minimum 24 bytes", length)
	}
	epBytes, err := c.ReadBytesAt(0, int(length))
	if err != nil {
		return ep, err
	}
	if !fwutil.ChecksumOK(epBytes) {
		return ep, fmt.Errorf("v3 entry point checksum does not sum to zero")
	}
	major, err := c.ReadU8At(7)
	if err != nil {
		return ep, err
	}
	minor, err := c.ReadU8At(8)
	if err != nil {
		return ep, err
	}
	tableAddress, err := c.ReadU64At(16)
	if err != nil {
		return ep, err
	}
	ep = EntryPoint{
		Version:      Version3,
		SMBIOSMajor:  major,
		SMBIOSMinor:  minor,
		TableAddress: tableAddress,
	}
	return ep, nil
}
