// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package smbios

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fwts-go/internal/finding"
)

func TestValidateBaseboardOutOfRangeString(t *testing.T) {
	data := buildStructure(typeBaseboard, 0x0f, 0x0003, []byte{
		0x09, // Manufacturer -> string 9, out of range
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}, []string{"Acme"})
	structures, err := WalkStructures(data)
	require.NoError(t, err)
	findings := ValidateStructure(testCtx(), structures[0])
	f := findTag(findings, "StringIndexOutOfRange")
	require.NotNil(t, f)
	require.Equal(t, "Manufacturer", f.Field)
}

func TestValidateChassisBadBootupState(t *testing.T) {
	data := buildStructure(typeChassis, 0x11, 0x0004, []byte{
		0x00,       // Manufacturer
		0x00,       // Type
		0x00,       // Version
		0x00,       // SerialNumber
		0x00,       // AssetTag
		0x00,       // BootupState: 0 is out of the valid 1-6 range
		0x05,       // PowerSupplyState
		0x03,       // ThermalState
		0x02,       // SecurityStatus
		0x00, 0x00, 0x00, 0x00, // OEM-defined
	}, nil)
	structures, err := WalkStructures(data)
	require.NoError(t, err)
	findings := ValidateStructure(testCtx(), structures[0])
	f := findTag(findings, "ValueOutOfRange")
	require.NotNil(t, f)
	require.Equal(t, "BootupState", f.Field)
}

func TestValidateChassisWellFormedNoFindings(t *testing.T) {
	data := buildStructure(typeChassis, 0x11, 0x0004, []byte{
		0x00, 0x03, 0x00, 0x00, 0x00, 0x03, 0x03, 0x03, 0x03, 0x00, 0x00, 0x00, 0x00,
	}, nil)
	structures, err := WalkStructures(data)
	require.NoError(t, err)
	findings := ValidateStructure(testCtx(), structures[0])
	require.Empty(t, findings)
}

func TestValidateProcessorBadProcessorType(t *testing.T) {
	extra := make([]byte, 0x1e-4)
	extra[0x05-4] = 0x00 // ProcessorType out of the 1-6 range
	data := buildStructure(typeProcessor, 0x1e, 0x0005, extra, nil)
	structures, err := WalkStructures(data)
	require.NoError(t, err)
	findings := ValidateStructure(testCtx(), structures[0])
	f := findTag(findings, "ValueOutOfRange")
	require.NotNil(t, f)
	require.Equal(t, "ProcessorType", f.Field)
}

func TestValidateCacheInformationBadErrorCorrectionType(t *testing.T) {
	extra := make([]byte, 0x13-4)
	extra[0x10-4] = 0x00 // ErrorCorrectionType out of the 1-6 range
	extra[0x11-4] = 0x03 // SystemCacheType valid
	data := buildStructure(typeCacheInformation, 0x13, 0x0006, extra, nil)
	structures, err := WalkStructures(data)
	require.NoError(t, err)
	findings := ValidateStructure(testCtx(), structures[0])
	f := findTag(findings, "ValueOutOfRange")
	require.NotNil(t, f)
	require.Equal(t, "ErrorCorrectionType", f.Field)
}

func TestValidateSystemSlotsBadCurrentUsage(t *testing.T) {
	extra := make([]byte, 0x0c-4)
	extra[0x07-4] = 0x00 // CurrentUsage out of the 1-5 range
	data := buildStructure(typeSystemSlots, 0x0c, 0x0007, extra, nil)
	structures, err := WalkStructures(data)
	require.NoError(t, err)
	findings := ValidateStructure(testCtx(), structures[0])
	f := findTag(findings, "ValueOutOfRange")
	require.NotNil(t, f)
	require.Equal(t, "CurrentUsage", f.Field)
}

func TestValidateMemoryDeviceBadFormFactor(t *testing.T) {
	extra := make([]byte, 0x15-4)
	extra[0x0e-4] = 0x00 // FormFactor out of the 1-0x10 range
	extra[0x12-4] = 0x07 // MemoryType valid
	data := buildStructure(typeMemoryDevice, 0x15, 0x0008, extra, nil)
	structures, err := WalkStructures(data)
	require.NoError(t, err)
	findings := ValidateStructure(testCtx(), structures[0])
	f := findTag(findings, "ValueOutOfRange")
	require.NotNil(t, f)
	require.Equal(t, "FormFactor", f.Field)
}

func TestValidateMemoryArrayMappedAddressEndBeforeStart(t *testing.T) {
	extra := make([]byte, 0x0f-4)
	extra[0x04-4] = 0x00
	extra[0x05-4] = 0x00
	extra[0x06-4] = 0x10
	extra[0x07-4] = 0x00 // StartingAddress = 0x00100000
	extra[0x08-4] = 0x00
	extra[0x09-4] = 0x00
	extra[0x0a-4] = 0x00
	extra[0x0b-4] = 0x00 // EndingAddress = 0, less than start and not the 0xffffffff sentinel
	data := buildStructure(typeMemoryArrayMappedAddr, 0x0f, 0x0009, extra, nil)
	structures, err := WalkStructures(data)
	require.NoError(t, err)
	findings := ValidateStructure(testCtx(), structures[0])
	f := findTag(findings, "ValueOutOfRange")
	require.NotNil(t, f)
	require.Equal(t, "EndingAddress", f.Field)
}

func TestValidateSystemBootInformationBadBootStatus(t *testing.T) {
	extra := make([]byte, 0x0b-4)
	extra[0x0a-4] = 0xff // far outside the 0-8 range
	data := buildStructure(typeSystemBootInformation, 0x0b, 0x000a, extra, nil)
	structures, err := WalkStructures(data)
	require.NoError(t, err)
	findings := ValidateStructure(testCtx(), structures[0])
	f := findTag(findings, "ValueOutOfRange")
	require.NotNil(t, f)
	require.Equal(t, "BootStatus", f.Field)
}

func TestLengthPolicyFindingFlagsShortStructureForDeclaredVersion(t *testing.T) {
	SetVersionContext(2, 4)
	defer SetVersionContext(0, 0)

	data := buildStructure(typeBIOSInformation, 0x12, 0x0001, []byte{
		0x01, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}, []string{"Acme", "1.0"})
	structures, err := WalkStructures(data)
	require.NoError(t, err)
	findings := ValidateStructure(testCtx(), structures[0])
	f := findTag(findings, "BadStructureLength")
	require.NotNil(t, f)
	require.Equal(t, finding.SeverityHigh, f.Severity)
}

func TestLengthPolicyFindingAcceptsLongEnoughStructure(t *testing.T) {
	SetVersionContext(2, 4)
	defer SetVersionContext(0, 0)

	extra := make([]byte, 0x18-4)
	data := buildStructure(typeBIOSInformation, 0x18, 0x0001, extra, nil)
	structures, err := WalkStructures(data)
	require.NoError(t, err)
	findings := ValidateStructure(testCtx(), structures[0])
	require.Nil(t, findTag(findings, "BadStructureLength"))
}

func TestLengthPolicyFindingUnknownVersionSkipsCheck(t *testing.T) {
	data := buildStructure(typeBIOSInformation, 0x09, 0x0001, []byte{
		0x01, 0x02, 0x00, 0x00, 0x00,
	}, []string{"Acme", "1.0"})
	structures, err := WalkStructures(data)
	require.NoError(t, err)
	findings := ValidateStructure(testCtx(), structures[0])
	require.Nil(t, findTag(findings, "BadStructureLength"))
}
