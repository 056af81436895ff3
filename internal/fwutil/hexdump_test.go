package fwutil

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHexDump(t *testing.T) {
	data := []byte("RSD PTR HELLO!!!")
	out := HexDump(data, 0)
	require.True(t, strings.HasPrefix(out, "00000000  "))
	require.Contains(t, out, "|RSD PTR HELLO!!!|")
}

func TestHexDumpMultiLine(t *testing.T) {
	data := make([]byte, 20)
	for i := range data {
		data[i] = byte(i)
	}
	out := HexDump(data, 0x10)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "00000010"))
	require.True(t, strings.HasPrefix(lines[1], "00000020"))
}
