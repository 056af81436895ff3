package fwsource

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleDump = `RSDP @ 0x00000000000f6a20
  0000: 52 53 44 20 50 54 52 20 41 43 4d 45 31 32 02 00
  0010: 00 00 00 00 24 00 00 00

FACP @ 0x000000007ffe1000
  0000: 46 41 43 50 04 00 00 00
`

func TestDumpfileSourceParsesRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acpidump.log")
	require.NoError(t, os.WriteFile(path, []byte(sampleDump), 0o644))

	src := &DumpfileSource{Path: path}
	refs, err := src.ListAvailableTables()
	require.NoError(t, err)
	require.Len(t, refs, 2)

	data, declaredLen, prov, addr, err := src.ReadBytes(refs[0])
	require.NoError(t, err)
	require.Equal(t, "RSD PTR ACME12\x02\x00\x00\x00\x00\x00$\x00\x00\x00", string(data))
	require.Equal(t, uint32(24), declaredLen)
	require.Equal(t, FromFile, prov)
	require.Equal(t, uint64(0x00f6a20), addr)
}
