// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package acpi

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fwts-go/internal/finding"
	"fwts-go/internal/fwcheck"
	"fwts-go/internal/fwsource"
	"fwts-go/internal/fwutil"
	"fwts-go/internal/harness"
)

func buildCommonHeader(sig string, length uint32, revision uint8) []byte {
	data := make([]byte, length)
	copy(data[0:4], sig)
	data[4] = byte(length)
	data[5] = byte(length >> 8)
	data[6] = byte(length >> 16)
	data[7] = byte(length >> 24)
	data[8] = revision
	copy(data[10:16], "ACME  ")
	copy(data[16:24], "OEMTABLE")
	data[9] = fwutil.AdjustForZeroSum(data, 9)
	return data
}

func blobOf(sig string, data []byte, prov fwsource.Provenance) *fwsource.Blob {
	b := fwsource.NewBlob(sig, data, uint32(len(data)), prov, 0, 0, "test")
	return &b
}

func findTag(findings []finding.Finding, tag string) *finding.Finding {
	for i := range findings {
		if findings[i].StableTag == tag {
			return &findings[i]
		}
	}
	return nil
}

func TestValidateFADTReservedFlagsS6(t *testing.T) {
	data := buildCommonHeader("FACP", 280, 6)
	data[45] = 3 // valid PM profile
	var flags uint32
	for bit := 22; bit <= 31; bit++ {
		flags |= 1 << uint(bit)
	}
	data[112] = byte(flags)
	data[113] = byte(flags >> 8)
	data[114] = byte(flags >> 16)
	data[115] = byte(flags >> 24)
	data[9] = fwutil.AdjustForZeroSum(data, 9)

	ctx := fwcheck.Ctx{TestName: "ACPIFadt", TableCtx: "FACP"}
	findings := ValidateFADT(ctx, blobOf("FACP", data, fwsource.FromFirmware))

	f := findTag(findings, "ReservedBitUsed")
	require.NotNil(t, f)
	require.Equal(t, "Flags", f.Field)
	require.Equal(t, uint32(112), *f.Offset)
}

func TestValidateFADTBadPMProfile(t *testing.T) {
	data := buildCommonHeader("FACP", 116, 2)
	data[45] = 99
	data[9] = fwutil.AdjustForZeroSum(data, 9)

	ctx := fwcheck.Ctx{TestName: "ACPIFadt", TableCtx: "FACP"}
	findings := ValidateFADT(ctx, blobOf("FACP", data, fwsource.FromFirmware))
	require.NotNil(t, findTag(findings, "ValueOutOfRange"))
}

func TestValidateMADTZeroLengthSubtableAbortsS3(t *testing.T) {
	data := buildCommonHeader("APIC", 48, 4)
	// local interrupt controller address (36) + flags (40) already zeroed
	data[44] = 0 // subtype
	data[45] = 0 // length == 0, must abort
	data[9] = fwutil.AdjustForZeroSum(data, 9)

	ctx := fwcheck.Ctx{TestName: "ACPIMadt", TableCtx: "APIC"}
	findings := ValidateMADT(ctx, blobOf("APIC", data, fwsource.FromFirmware))

	f := findTag(findings, "ZeroStructureLength")
	require.NotNil(t, f)
	require.Equal(t, uint32(44), *f.Offset)
}

func TestValidateMADTWellFormedSubtablesNoFindings(t *testing.T) {
	data := buildCommonHeader("APIC", 52, 4)
	data[44] = 0 // subtype: processor local APIC
	data[45] = 8 // length
	data[52-1] = 0
	data[9] = fwutil.AdjustForZeroSum(data, 9)

	ctx := fwcheck.Ctx{TestName: "ACPIMadt", TableCtx: "APIC"}
	findings := ValidateMADT(ctx, blobOf("APIC", data, fwsource.FromFirmware))
	require.Empty(t, findings)
}

func TestValidateRSDPv1Checksum(t *testing.T) {
	data := make([]byte, 20)
	copy(data[0:8], "RSD PTR ")
	copy(data[9:15], "ACME  ")
	data[15] = 0 // ACPI 1.0
	data[16] = 0x34
	data[17] = 0x12
	data[8] = fwutil.AdjustForZeroSum(data[:20], 8)

	ctx := fwcheck.Ctx{TestName: "ACPIRsdp", TableCtx: "RSDP"}
	findings := ValidateRSDP(ctx, blobOf("RSDP", data, fwsource.FromFirmware))
	require.Empty(t, findings)
}

func TestValidateRSDPRevisionZeroRequiresRsdtAddress(t *testing.T) {
	data := make([]byte, 20)
	copy(data[0:8], "RSD PTR ")
	copy(data[9:15], "ACME  ")
	data[15] = 0 // ACPI 1.0, rsdt_address left zero
	data[8] = fwutil.AdjustForZeroSum(data[:20], 8)

	ctx := fwcheck.Ctx{TestName: "ACPIRsdp", TableCtx: "RSDP"}
	findings := ValidateRSDP(ctx, blobOf("RSDP", data, fwsource.FromFirmware))
	require.NotNil(t, findTag(findings, "NullRsdtAddress"))
}

func TestValidateRSDPUnknownRevisionIsOutOfRange(t *testing.T) {
	data := make([]byte, 20)
	copy(data[0:8], "RSD PTR ")
	copy(data[9:15], "ACME  ")
	data[15] = 1 // not a valid enumerated revision
	data[16] = 0x34
	data[8] = fwutil.AdjustForZeroSum(data[:20], 8)

	ctx := fwcheck.Ctx{TestName: "ACPIRsdp", TableCtx: "RSDP"}
	findings := ValidateRSDP(ctx, blobOf("RSDP", data, fwsource.FromFirmware))
	require.NotNil(t, findTag(findings, "ValueOutOfRange"))
}

func TestValidateRSDPv2BadChecksum(t *testing.T) {
	data := make([]byte, 36)
	copy(data[0:8], "RSD PTR ")
	copy(data[9:15], "ACME  ")
	data[15] = 2 // ACPI 2.0+
	data[8] = fwutil.AdjustForZeroSum(data[:20], 8)
	data[20] = 36 // length
	data[32] = 0xff // deliberately wrong extended checksum

	ctx := fwcheck.Ctx{TestName: "ACPIRsdp", TableCtx: "RSDP"}
	findings := ValidateRSDP(ctx, blobOf("RSDP", data, fwsource.FromFirmware))
	require.NotNil(t, findTag(findings, "BadChecksum"))
}

func TestValidateFACSMisalignedWhenFromFirmware(t *testing.T) {
	data := make([]byte, 64)
	copy(data[0:4], "FACS")
	data[4] = 64

	b := fwsource.NewBlob("FACS", data, 64, fwsource.FromFirmware, 0x1001, 0, "devmem")
	ctx := fwcheck.Ctx{TestName: "ACPIFacs", TableCtx: "FACS"}
	findings := ValidateFACS(ctx, &b)
	require.NotNil(t, findTag(findings, "MisalignedTable"))
}

func TestValidateFACSAlignmentSkippedForFixup(t *testing.T) {
	data := make([]byte, 64)
	copy(data[0:4], "FACS")
	data[4] = 64

	b := fwsource.NewBlob("FACS", data, 64, fwsource.FromFixup, 0x1001, 0, "fixup")
	ctx := fwcheck.Ctx{TestName: "ACPIFacs", TableCtx: "FACS"}
	findings := ValidateFACS(ctx, &b)
	require.Nil(t, findTag(findings, "MisalignedTable"))
}

func TestValidateBERTNullRegionOnlyWhenFromFirmware(t *testing.T) {
	data := buildCommonHeader("BERT", 48, 1)
	// region length and address both zero
	data[9] = fwutil.AdjustForZeroSum(data, 9)

	ctx := fwcheck.Ctx{TestName: "ACPIBert", TableCtx: "BERT"}

	firmwareFindings := ValidateBERT(ctx, blobOf("BERT", data, fwsource.FromFirmware))
	require.NotNil(t, findTag(firmwareFindings, "NullBootErrorRegion"))

	fileFindings := ValidateBERT(ctx, blobOf("BERT", data, fwsource.FromFile))
	require.Nil(t, findTag(fileFindings, "NullBootErrorRegion"))
}

func TestValidateBIOS32ChecksumAndLength(t *testing.T) {
	data := make([]byte, 16)
	copy(data[0:4], "_32_")
	data[9] = 1 // one paragraph
	data[10] = fwutil.AdjustForZeroSum(data, 10)

	ctx := fwcheck.Ctx{TestName: "ACPIBios32", TableCtx: "BIOS32"}
	findings := ValidateBIOS32(ctx, blobOf("_32_", data, fwsource.FromFirmware))
	require.Empty(t, findings)
}

func TestValidateMPFloatingFixedLength(t *testing.T) {
	data := make([]byte, 16)
	copy(data[0:4], "_MP_")
	data[8] = 1
	data[9] = 4 // spec rev 1.4
	data[10] = fwutil.AdjustForZeroSum(data, 10)

	ctx := fwcheck.Ctx{TestName: "ACPIMpFloating", TableCtx: "MPFloating"}
	findings := ValidateMPFloating(ctx, blobOf("_MP_", data, fwsource.FromFirmware))
	require.Empty(t, findings)
}

func TestValidateMPConfigTableZeroEntriesIsAdvice(t *testing.T) {
	data := make([]byte, 44)
	copy(data[0:4], "PCMP")
	data[4] = 44
	data[33] = fwutil.AdjustForZeroSum(data, 33)

	ctx := fwcheck.Ctx{TestName: "ACPIMpConfigTable", TableCtx: "PCMP"}
	findings := ValidateMPConfigTable(ctx, blobOf("PCMP", data, fwsource.FromFirmware))

	f := findTag(findings, "NoMPEntries")
	require.NotNil(t, f)
	require.Equal(t, finding.KindAdvice, f.Kind)
}

func TestValidateMADTUnknownSubtypeContinuesWalk(t *testing.T) {
	data := buildCommonHeader("APIC", 60, 4)
	data[44] = 200 // unrecognized sub_type
	data[45] = 8   // length
	data[52] = 0   // subtype: processor local APIC
	data[53] = 8   // length
	data[9] = fwutil.AdjustForZeroSum(data, 9)

	ctx := fwcheck.Ctx{TestName: "ACPIMadt", TableCtx: "APIC"}
	findings := ValidateMADT(ctx, blobOf("APIC", data, fwsource.FromFirmware))

	f := findTag(findings, "UnknownSubtype")
	require.NotNil(t, f)
	require.Equal(t, finding.SeverityHigh, f.Severity)
}

func TestValidateMADTTrailingBytes(t *testing.T) {
	data := buildCommonHeader("APIC", 53, 4)
	data[44] = 0 // processor local APIC
	data[45] = 8 // length, ends at offset 52, one byte short of the declared 53
	data[9] = fwutil.AdjustForZeroSum(data, 9)

	ctx := fwcheck.Ctx{TestName: "ACPIMadt", TableCtx: "APIC"}
	findings := ValidateMADT(ctx, blobOf("APIC", data, fwsource.FromFirmware))
	require.NotNil(t, findTag(findings, "TrailingBytes"))
}

func TestValidateIORTIdMappingOutsideTableS4(t *testing.T) {
	data := buildCommonHeader("IORT", 64, 0)
	// node_count = 1, node_offset = 44
	data[36] = 1
	data[40] = 44
	// node at 44: type 1 (Named Component), length 20, revision 1
	data[44] = 1
	data[45] = 20
	data[46] = 0
	data[47] = 1
	// num_id_mappings = 1 at offset 52, id_mapping_offset = 20 at offset 56
	data[52] = 1
	data[56] = 20 // 20 + 1*20 = 40 > node length 20
	data[9] = fwutil.AdjustForZeroSum(data, 9)

	ctx := fwcheck.Ctx{TestName: "ACPIIort", TableCtx: "IORT"}
	findings := ValidateIORT(ctx, blobOf("IORT", data, fwsource.FromFirmware))

	f := findTag(findings, "IORTIdMappingOutsideTable")
	require.NotNil(t, f)
	require.Equal(t, finding.SeverityHigh, f.Severity)
}

func TestValidateDMARUnknownStructureType(t *testing.T) {
	data := buildCommonHeader("DMAR", 56, 1)
	data[36] = 39 // host address width
	// structure at offset 48: type 99, length 8
	data[48] = 99
	data[50] = 8
	data[9] = fwutil.AdjustForZeroSum(data, 9)

	ctx := fwcheck.Ctx{TestName: "ACPIDmar", TableCtx: "DMAR"}
	findings := ValidateDMAR(ctx, blobOf("DMAR", data, fwsource.FromFirmware))
	require.NotNil(t, findTag(findings, "UnknownSubtype"))
}

func TestGenericTableTestSkipsWhenAbsent(t *testing.T) {
	reg := fwsource.NewRegistry()
	require.NoError(t, reg.LoadAll())

	test := GenericTableTest("HPET")
	result := test.MinorTests[0].Fn(&harness.RunContext{Registry: reg})
	require.Equal(t, harness.ResultSkip, result)
}
