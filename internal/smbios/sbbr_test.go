// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package smbios

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/require"
)

func TestCheckSBBRMandatoryTypesAllPresent(t *testing.T) {
	present := mapset.NewSet[uint8](0, 1, 3, 4, 9, 16, 17, 19, 32, 2, 7)
	findings := CheckSBBRMandatoryTypes(testCtx(), present)
	require.Empty(t, findings)
}

func TestCheckSBBRMandatoryTypesMissingSome(t *testing.T) {
	present := mapset.NewSet[uint8](0, 1, 3)
	findings := CheckSBBRMandatoryTypes(testCtx(), present)
	require.Len(t, findings, 6)
	f := findTag(findings, "MissingMandatorySmbiosType")
	require.NotNil(t, f)
}

func TestPresentTypesCollectsFromStructures(t *testing.T) {
	structures := []Structure{{Type: 0}, {Type: 1}, {Type: 1}, {Type: 127}}
	present := PresentTypes(structures)
	require.True(t, present.Contains(uint8(0)))
	require.True(t, present.Contains(uint8(1)))
	require.True(t, present.Contains(uint8(127)))
	require.Equal(t, 3, present.Cardinality())
}
