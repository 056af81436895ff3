package fwsource

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fwts-go/internal/fwutil"
)

func TestFixupSourceSynthesizesChecksummedTable(t *testing.T) {
	f := &FixupSource{}
	data, declaredLen, prov, _, err := f.ReadBytes(TableRef{Signature: "MADT"})
	require.NoError(t, err)
	require.Equal(t, FromFixup, prov)
	require.Equal(t, "MADT", string(data[0:4]))
	require.True(t, fwutil.ChecksumOK(data[:declaredLen]))
}

func TestFixupSourceRSDP(t *testing.T) {
	f := &FixupSource{}
	data, _, prov, _, err := f.ReadBytes(TableRef{Signature: "RSDP"})
	require.NoError(t, err)
	require.Equal(t, FromFixup, prov)
	require.Equal(t, "RSD PTR ", string(data[0:8]))
	require.True(t, fwutil.ChecksumOK(data[:20]))
}
