// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package smbios

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fwts-go/internal/finding"
	"fwts-go/internal/fwcheck"
)

func testCtx() fwcheck.Ctx {
	return fwcheck.Ctx{TestName: "SMBIOSStructures", TableCtx: "DMI"}
}

func findTag(findings []finding.Finding, tag string) *finding.Finding {
	for i := range findings {
		if findings[i].StableTag == tag {
			return &findings[i]
		}
	}
	return nil
}

func TestValidateBIOSInformationValidIndices(t *testing.T) {
	data := buildStructure(typeBIOSInformation, 0x09, 0x0001, []byte{
		0x01, // Vendor -> string 1
		0x02, // BIOSVersion -> string 2
		0x00, 0x00, // rom size / reserved filler up to 0x08
		0x03, // BIOSReleaseDate -> string 3
	}, []string{"Acme Corp", "1.2.3", "01/02/2026"})
	structures, err := WalkStructures(data)
	require.NoError(t, err)
	findings := ValidateStructure(testCtx(), structures[0])
	require.Empty(t, findings)
}

func TestValidateBIOSInformationOutOfRangeVendor(t *testing.T) {
	data := buildStructure(typeBIOSInformation, 0x08, 0x0001, []byte{
		0x05, // Vendor -> string 5, but only 1 string present
		0x00,
		0x00, 0x00,
	}, []string{"OnlyOne"})
	structures, err := WalkStructures(data)
	require.NoError(t, err)
	findings := ValidateStructure(testCtx(), structures[0])
	f := findTag(findings, "StringIndexOutOfRange")
	require.NotNil(t, f)
	require.Equal(t, "Vendor", f.Field)
	require.Equal(t, finding.SeverityHigh, f.Severity)
}

func TestValidateSystemInformationUUIDAllZeroIsAdvice(t *testing.T) {
	extra := make([]byte, 0x18-4)
	// Manufacturer/ProductName/Version/SerialNumber left as 0 (unset, valid)
	data := buildStructure(typeSystemInformation, 0x18, 0x0002, extra, nil)
	structures, err := WalkStructures(data)
	require.NoError(t, err)
	findings := ValidateStructure(testCtx(), structures[0])
	f := findTag(findings, "UnsetSystemUUID")
	require.NotNil(t, f)
	require.Equal(t, finding.KindAdvice, f.Kind)
}

func TestValidateSystemInformationUUIDAllFFIsAdvice(t *testing.T) {
	extra := make([]byte, 0x18-4)
	for i := 0x08 - 4; i < 0x18-4; i++ {
		extra[i] = 0xff
	}
	data := buildStructure(typeSystemInformation, 0x18, 0x0002, extra, nil)
	structures, err := WalkStructures(data)
	require.NoError(t, err)
	findings := ValidateStructure(testCtx(), structures[0])
	f := findTag(findings, "UnsetSystemUUID")
	require.NotNil(t, f)
}

func TestValidateSystemInformationSetUUIDNoAdvice(t *testing.T) {
	extra := make([]byte, 0x18-4)
	extra[0x08-4] = 0x01 // non-uniform UUID bytes
	data := buildStructure(typeSystemInformation, 0x18, 0x0002, extra, nil)
	structures, err := WalkStructures(data)
	require.NoError(t, err)
	findings := ValidateStructure(testCtx(), structures[0])
	require.Nil(t, findTag(findings, "UnsetSystemUUID"))
}

func TestValidateStructureNonPrintableString(t *testing.T) {
	data := buildStructure(typeBIOSInformation, 0x09, 0x0001, []byte{
		0x01, 0x00, 0x00, 0x00, 0x00,
	}, []string{"bad\x01string"})
	structures, err := WalkStructures(data)
	require.NoError(t, err)
	findings := ValidateStructure(testCtx(), structures[0])
	require.NotNil(t, findTag(findings, "NonPrintable"))
}
