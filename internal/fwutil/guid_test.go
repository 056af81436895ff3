package fwutil

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGUIDRoundTrip(t *testing.T) {
	b := [16]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10}
	s := FormatGUID(b)
	require.Equal(t, "04030201-0605-0807-090a-0b0c0d0e0f10", s)

	back, err := ParseGUID(s)
	require.NoError(t, err)
	require.Equal(t, b, back)
}

func TestParseGUIDInvalid(t *testing.T) {
	_, err := ParseGUID("not-a-guid")
	require.Error(t, err)
}

func TestPrintableASCII(t *testing.T) {
	require.True(t, PrintableASCII([]byte("OEMID1")))
	require.False(t, PrintableASCII([]byte{0x01, 0x02}))
}
