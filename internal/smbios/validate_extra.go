// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package smbios

import (
	"fwts-go/internal/finding"
	"fwts-go/internal/fwcheck"
)

func validateBaseboard(ctx fwcheck.Ctx, s Structure) []finding.Finding {
	return checkStringFields(ctx, s, []stringField{
		{"Manufacturer", 0x04, finding.SeverityMedium},
		{"Product", 0x05, finding.SeverityMedium},
		{"Version", 0x06, finding.SeverityLow},
		{"SerialNumber", 0x07, finding.SeverityLow},
		{"AssetTag", 0x08, finding.SeverityLow},
		{"LocationInChassis", 0x0a, finding.SeverityLow},
	})
}

func validateChassis(ctx fwcheck.Ctx, s Structure) []finding.Finding {
	findings := checkStringFields(ctx, s, []stringField{
		{"Manufacturer", 0x04, finding.SeverityMedium},
		{"Version", 0x06, finding.SeverityLow},
		{"SerialNumber", 0x07, finding.SeverityLow},
		{"AssetTag", 0x08, finding.SeverityLow},
	})
	if bootState, ok := byteAt(s, 0x09); ok {
		if f := ctx.MinMax("BootupState", uint32(s.Offset+0x09), int64(bootState), 1, 6); f != nil {
			findings = append(findings, *f)
		}
	}
	if psuState, ok := byteAt(s, 0x0a); ok {
		if f := ctx.MinMax("PowerSupplyState", uint32(s.Offset+0x0a), int64(psuState), 1, 6); f != nil {
			findings = append(findings, *f)
		}
	}
	if thermalState, ok := byteAt(s, 0x0b); ok {
		if f := ctx.MinMax("ThermalState", uint32(s.Offset+0x0b), int64(thermalState), 1, 6); f != nil {
			findings = append(findings, *f)
		}
	}
	if security, ok := byteAt(s, 0x0c); ok {
		if f := ctx.MinMax("SecurityStatus", uint32(s.Offset+0x0c), int64(security), 1, 5); f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}

func validateProcessor(ctx fwcheck.Ctx, s Structure) []finding.Finding {
	findings := checkStringFields(ctx, s, []stringField{
		{"SocketDesignation", 0x04, finding.SeverityMedium},
		{"ProcessorManufacturer", 0x07, finding.SeverityLow},
		{"ProcessorVersion", 0x10, finding.SeverityLow},
		{"SerialNumber", 0x20, finding.SeverityLow},
		{"AssetTag", 0x21, finding.SeverityLow},
		{"PartNumber", 0x22, finding.SeverityLow},
	})
	if procType, ok := byteAt(s, 0x05); ok {
		if f := ctx.MinMax("ProcessorType", uint32(s.Offset+0x05), int64(procType), 1, 6); f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}

func validateCacheInformation(ctx fwcheck.Ctx, s Structure) []finding.Finding {
	findings := checkStringFields(ctx, s, []stringField{
		{"SocketDesignation", 0x04, finding.SeverityLow},
	})
	if ecc, ok := byteAt(s, 0x10); ok {
		if f := ctx.MinMax("ErrorCorrectionType", uint32(s.Offset+0x10), int64(ecc), 1, 6); f != nil {
			findings = append(findings, *f)
		}
	}
	if cacheType, ok := byteAt(s, 0x11); ok {
		if f := ctx.MinMax("SystemCacheType", uint32(s.Offset+0x11), int64(cacheType), 1, 5); f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}

func validatePortConnector(ctx fwcheck.Ctx, s Structure) []finding.Finding {
	return checkStringFields(ctx, s, []stringField{
		{"InternalReferenceDesignator", 0x04, finding.SeverityLow},
		{"ExternalReferenceDesignator", 0x06, finding.SeverityLow},
	})
}

func validateSystemSlots(ctx fwcheck.Ctx, s Structure) []finding.Finding {
	findings := checkStringFields(ctx, s, []stringField{
		{"SlotDesignation", 0x04, finding.SeverityLow},
	})
	if usage, ok := byteAt(s, 0x07); ok {
		if f := ctx.MinMax("CurrentUsage", uint32(s.Offset+0x07), int64(usage), 1, 5); f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}

func validateBIOSLanguage(ctx fwcheck.Ctx, s Structure) []finding.Finding {
	if idx, ok := byteAt(s, 0x15); ok {
		if f := ctx.StringIndex("CurrentLanguage", uint32(s.Offset+0x15), int(idx), len(s.Strings), finding.SeverityLow); f != nil {
			return []finding.Finding{*f}
		}
	}
	return nil
}

func validatePhysicalMemoryArray(ctx fwcheck.Ctx, s Structure) []finding.Finding {
	var findings []finding.Finding
	if location, ok := byteAt(s, 0x04); ok {
		if f := ctx.MinMax("Location", uint32(s.Offset+0x04), int64(location), 1, 0xa); f != nil {
			findings = append(findings, *f)
		}
	}
	if use, ok := byteAt(s, 0x05); ok {
		if f := ctx.MinMax("Use", uint32(s.Offset+0x05), int64(use), 1, 7); f != nil {
			findings = append(findings, *f)
		}
	}
	if ecc, ok := byteAt(s, 0x06); ok {
		if f := ctx.MinMax("MemoryErrorCorrection", uint32(s.Offset+0x06), int64(ecc), 1, 7); f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}

func validateMemoryDevice(ctx fwcheck.Ctx, s Structure) []finding.Finding {
	findings := checkStringFields(ctx, s, []stringField{
		{"DeviceLocator", 0x10, finding.SeverityMedium},
		{"BankLocator", 0x11, finding.SeverityLow},
		{"Manufacturer", 0x17, finding.SeverityLow},
		{"SerialNumber", 0x18, finding.SeverityLow},
		{"AssetTag", 0x19, finding.SeverityLow},
		{"PartNumber", 0x1a, finding.SeverityLow},
	})
	if formFactor, ok := byteAt(s, 0x0e); ok {
		if f := ctx.MinMax("FormFactor", uint32(s.Offset+0x0e), int64(formFactor), 1, 0x10); f != nil {
			findings = append(findings, *f)
		}
	}
	if memType, ok := byteAt(s, 0x12); ok {
		if f := ctx.MinMax("MemoryType", uint32(s.Offset+0x12), int64(memType), 1, 0x22); f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}

func validateMemoryArrayMappedAddress(ctx fwcheck.Ctx, s Structure) []finding.Finding {
	var findings []finding.Finding
	if start, ok := u32At(s, 0x04); ok {
		if end, ok2 := u32At(s, 0x08); ok2 {
			if end != 0xffffffff && end < start {
				off := uint32(s.Offset + 0x08)
				findings = append(findings, finding.Finding{
					TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
					Severity: finding.SeverityMedium, StableTag: "ValueOutOfRange", Offset: &off,
					Field: "EndingAddress", Text: "Memory Array Mapped Address ending address precedes its starting address",
				})
			}
		}
	}
	return findings
}

func validateSystemBootInformation(ctx fwcheck.Ctx, s Structure) []finding.Finding {
	var findings []finding.Finding
	if status, ok := byteAt(s, 0x0a); ok {
		if f := ctx.MinMax("BootStatus", uint32(s.Offset+0x0a), int64(status), 0, 8); f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}

func u32At(s Structure, offset int) (uint32, bool) {
	if offset < 0 || offset+4 > len(s.Data) {
		return 0, false
	}
	return uint32(s.Data[offset]) | uint32(s.Data[offset+1])<<8 | uint32(s.Data[offset+2])<<16 | uint32(s.Data[offset+3])<<24, true
}
