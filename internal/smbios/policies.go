// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package smbios

import (
	"fmt"

	"fwts-go/internal/finding"
	"fwts-go/internal/fwcheck"
)

// versionedLength is one minimum-structure-length entry, valid from
// MinMajor.MinMinor onward until the next entry for the same type.
type versionedLength struct {
	minMajor, minMinor uint8
	length             uint8
}

// typeLengthPolicies gives the minimum formatted-area length (the 4-byte
// header included) for every SMBIOS structure type whose size grew across
// spec revisions, keyed by the entry-point-declared SMBIOS major.minor.
// Ungrouped types (the rest of 2-46) grew only the string table, not the
// formatted area, so they carry no version-gated policy here.
var typeLengthPolicies = map[uint8][]versionedLength{
	typeBIOSInformation: {
		{2, 0, 0x12},
		{2, 4, 0x18},
	},
	typeSystemInformation: {
		{2, 0, 0x08},
		{2, 1, 0x19},
		{2, 4, 0x1b},
	},
	typeChassis: {
		{2, 0, 0x09},
		{2, 1, 0x0d},
		{2, 3, 0x11},
		{2, 7, 0x15},
	},
	typeSystemSlots: {
		{2, 0, 0x0c},
		{2, 6, 0x11},
	},
	typePhysicalMemoryArray: {
		{2, 1, 0x0f},
	},
	typeMemoryDevice: {
		{2, 1, 0x15},
		{2, 3, 0x1b},
		{2, 6, 0x1c},
		{2, 7, 0x22},
		{2, 8, 0x28},
	},
	typeMemoryArrayMappedAddr: {
		{2, 1, 0x0f},
	},
}

// minLengthFor looks up the minimum length for typ at the given SMBIOS
// version, returning the highest-versioned entry not newer than
// major.minor.
func minLengthFor(typ uint8, major, minor uint8) (uint8, bool) {
	entries, ok := typeLengthPolicies[typ]
	if !ok {
		return 0, false
	}
	var best *versionedLength
	for i := range entries {
		e := entries[i]
		if e.minMajor > major || (e.minMajor == major && e.minMinor > minor) {
			continue
		}
		if best == nil || e.minMajor > best.minMajor || (e.minMajor == best.minMajor && e.minMinor > best.minMinor) {
			best = &e
		}
	}
	if best == nil {
		return 0, false
	}
	return best.length, true
}

// currentSMBIOSVersion is set by the harness before a structure walk so
// lengthPolicyFinding can resolve the entry-point-declared version without
// threading it through every ValidateStructure call. The zero value means
// "version unknown": minLengthFor then matches no policy entry, so callers
// that never observed an entry point (including tests that call
// ValidateStructure directly) get no version-gated findings rather than
// false positives against an assumed version.
var currentSMBIOSVersion = struct{ major, minor uint8 }{0, 0}

// SetVersionContext records the SMBIOS major.minor version in force for
// subsequent lengthPolicyFinding calls.
func SetVersionContext(major, minor uint8) {
	currentSMBIOSVersion.major = major
	currentSMBIOSVersion.minor = minor
}

func lengthPolicyFinding(ctx fwcheck.Ctx, s Structure) *finding.Finding {
	minLen, ok := minLengthFor(s.Type, currentSMBIOSVersion.major, currentSMBIOSVersion.minor)
	if !ok || int(minLen) <= len(s.Data) {
		return nil
	}
	off := uint32(s.Offset + 1)
	return &finding.Finding{
		TestName:  ctx.TestName,
		TableCtx:  ctx.TableCtx,
		StableTag: "BadStructureLength",
		Severity:  finding.SeverityHigh,
		Kind:      finding.KindFail,
		Offset:    &off,
		Field:     fmt.Sprintf("Type %d length", s.Type),
		Text:      fmt.Sprintf("type %d structure is %d bytes, shorter than the %d-byte minimum for SMBIOS %d.%d", s.Type, len(s.Data), minLen, currentSMBIOSVersion.major, currentSMBIOSVersion.minor),
	}
}
