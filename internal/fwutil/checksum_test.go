package fwutil

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	require.Equal(t, uint8(0), Checksum(nil))
	require.True(t, ChecksumOK([]byte{0x01, 0xff}))
	require.False(t, ChecksumOK([]byte{0x01, 0x02}))
}

func TestAdjustForZeroSum(t *testing.T) {
	data := []byte{0x52, 0x53, 0x44, 0x20, 0x00, 0x01, 0x02}
	adjusted := AdjustForZeroSum(data, 4)
	data[4] = adjusted
	require.True(t, ChecksumOK(data))
}
