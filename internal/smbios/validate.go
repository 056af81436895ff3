// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package smbios

import (
	"fmt"

	"fwts-go/internal/finding"
	"fwts-go/internal/fwcheck"
	"fwts-go/internal/fwutil"
)

const (
	typeBIOSInformation        uint8 = 0
	typeSystemInformation      uint8 = 1
	typeBaseboard              uint8 = 2
	typeChassis                uint8 = 3
	typeProcessor              uint8 = 4
	typeCacheInformation       uint8 = 7
	typePortConnector          uint8 = 8
	typeSystemSlots            uint8 = 9
	typeOEMStrings             uint8 = 11
	typeSystemConfigOptions    uint8 = 12
	typeBIOSLanguage           uint8 = 13
	typePhysicalMemoryArray    uint8 = 16
	typeMemoryDevice           uint8 = 17
	typeMemoryArrayMappedAddr  uint8 = 19
	typeSystemBootInformation  uint8 = 32
	typeInactive               uint8 = 126
	typeEndOfTable             uint8 = 127
)

// stringField describes one string-reference byte in a structure's fixed
// layout, for the common case of a validator that is just a list of
// string_index checks.
type stringField struct {
	label  string
	offset int
	sev    finding.Severity
}

func checkStringFields(ctx fwcheck.Ctx, s Structure, fields []stringField) []finding.Finding {
	var findings []finding.Finding
	for _, field := range fields {
		if idx, ok := byteAt(s, field.offset); ok {
			if f := ctx.StringIndex(field.label, uint32(s.Offset+field.offset), int(idx), len(s.Strings), field.sev); f != nil {
				findings = append(findings, *f)
			}
		}
	}
	return findings
}

func byteAt(s Structure, offset int) (uint8, bool) {
	if offset < 0 || offset >= len(s.Data) {
		return 0, false
	}
	return s.Data[offset], true
}

// ValidateStructure dispatches a decoded Structure to its per-type
// validator, falling back to the structure-length and string-index
// generic checks shared by every type.
func ValidateStructure(ctx fwcheck.Ctx, s Structure) []finding.Finding {
	var findings []finding.Finding

	strOffset := s.Offset + len(s.Data)
	for idx, str := range s.Strings {
		if f := ctx.PrintableAscii(fmt.Sprintf("string %d", idx+1), uint32(strOffset), str); f != nil {
			findings = append(findings, *f)
		}
		strOffset += len(str) + 1
	}

	switch s.Type {
	case typeBIOSInformation:
		findings = append(findings, validateBIOSInformation(ctx, s)...)
	case typeSystemInformation:
		findings = append(findings, validateSystemInformation(ctx, s)...)
	case typeBaseboard:
		findings = append(findings, validateBaseboard(ctx, s)...)
	case typeChassis:
		findings = append(findings, validateChassis(ctx, s)...)
	case typeProcessor:
		findings = append(findings, validateProcessor(ctx, s)...)
	case typeCacheInformation:
		findings = append(findings, validateCacheInformation(ctx, s)...)
	case typePortConnector:
		findings = append(findings, validatePortConnector(ctx, s)...)
	case typeSystemSlots:
		findings = append(findings, validateSystemSlots(ctx, s)...)
	case typeOEMStrings:
	case typeSystemConfigOptions:
	case typeBIOSLanguage:
		findings = append(findings, validateBIOSLanguage(ctx, s)...)
	case typePhysicalMemoryArray:
		findings = append(findings, validatePhysicalMemoryArray(ctx, s)...)
	case typeMemoryDevice:
		findings = append(findings, validateMemoryDevice(ctx, s)...)
	case typeMemoryArrayMappedAddr:
		findings = append(findings, validateMemoryArrayMappedAddress(ctx, s)...)
	case typeSystemBootInformation:
		findings = append(findings, validateSystemBootInformation(ctx, s)...)
	case typeInactive, typeEndOfTable:
		// no fields beyond the 4-byte header
	}

	if f := lengthPolicyFinding(ctx, s); f != nil {
		findings = append(findings, *f)
	}

	return findings
}

func validateBIOSInformation(ctx fwcheck.Ctx, s Structure) []finding.Finding {
	var findings []finding.Finding
	if vendor, ok := byteAt(s, 0x04); ok {
		if f := ctx.StringIndex("Vendor", uint32(s.Offset+0x04), int(vendor), len(s.Strings), finding.SeverityHigh); f != nil {
			findings = append(findings, *f)
		}
	}
	if version, ok := byteAt(s, 0x05); ok {
		if f := ctx.StringIndex("BIOSVersion", uint32(s.Offset+0x05), int(version), len(s.Strings), finding.SeverityHigh); f != nil {
			findings = append(findings, *f)
		}
	}
	if releaseDate, ok := byteAt(s, 0x08); ok {
		if f := ctx.StringIndex("BIOSReleaseDate", uint32(s.Offset+0x08), int(releaseDate), len(s.Strings), finding.SeverityMedium); f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}

func validateSystemInformation(ctx fwcheck.Ctx, s Structure) []finding.Finding {
	findings := checkStringFields(ctx, s, []stringField{
		{"Manufacturer", 0x04, finding.SeverityMedium},
		{"ProductName", 0x05, finding.SeverityMedium},
		{"Version", 0x06, finding.SeverityLow},
		{"SerialNumber", 0x07, finding.SeverityLow},
	})

	if len(s.Data) >= 0x18 {
		var uuid [16]byte
		copy(uuid[:], s.Data[0x08:0x18])
		if isAllSame(uuid[:], 0x00) {
			findings = append(findings, finding.Finding{
				TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindAdvice,
				Severity: finding.SeverityNone, StableTag: "UnsetSystemUUID", Field: "UUID",
				Text: "System Information UUID is all zero (unset by the platform)",
			})
		} else if isAllSame(uuid[:], 0xff) {
			findings = append(findings, finding.Finding{
				TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindAdvice,
				Severity: finding.SeverityNone, StableTag: "UnsetSystemUUID", Field: "UUID",
				Text: "System Information UUID is all 0xFF (unset by the platform)",
			})
		} else {
			_ = fwutil.FormatGUID(uuid) // decoded for reporting; no further validation applies to a real UUID
		}
	}

	return findings
}

func isAllSame(b []byte, v byte) bool {
	for _, x := range b {
		if x != v {
			return false
		}
	}
	return true
}

