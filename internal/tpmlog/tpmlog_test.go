// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package tpmlog

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"fwts-go/internal/fwcheck"
)

func testCtx() fwcheck.Ctx {
	return fwcheck.Ctx{TestName: testName, TableCtx: "TPMEventLog"}
}

func appendU32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func appendU16(buf []byte, v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return append(buf, b[:]...)
}

func buildTPM12Event(pcrIndex, eventType uint32, digest [20]byte, event []byte) []byte {
	var out []byte
	out = appendU32(out, pcrIndex)
	out = appendU32(out, eventType)
	out = append(out, digest[:]...)
	out = appendU32(out, uint32(len(event)))
	out = append(out, event...)
	return out
}

func TestDetectFormatTPM12(t *testing.T) {
	data := buildTPM12Event(0, 0x1, [20]byte{1}, []byte("short"))
	f, err := DetectFormat(data)
	require.NoError(t, err)
	require.Equal(t, FormatTPM12, f)
}

func buildSpecIDPayload(numAlgs uint32, algs []AlgorithmDigestSize) []byte {
	var payload []byte
	payload = append(payload, []byte(specIDEvent03Magic)...)
	payload = append(payload, 0x00) // NUL-terminate the 16-byte signature field
	payload = appendU32(payload, 1) // platform_class
	payload = append(payload, 0, 2, 0, 1) // minor, major, errata, uintn_size
	payload = appendU32(payload, numAlgs)
	for _, a := range algs {
		payload = appendU16(payload, a.AlgID)
		payload = appendU16(payload, a.DigestSize)
	}
	payload = append(payload, 0x00) // vendor_info_size
	return payload
}

func buildTPM20Log(algs []AlgorithmDigestSize) []byte {
	payload := buildSpecIDPayload(uint32(len(algs)), algs)
	specRecord := buildTPM12Event(0, 0x3, [20]byte{}, payload)

	var pcrEvent []byte
	pcrEvent = appendU32(pcrEvent, 1)              // pcr_index
	pcrEvent = appendU32(pcrEvent, 0x80000007)     // event_type: EV_EFI_ACTION
	pcrEvent = appendU32(pcrEvent, uint32(len(algs))) // digests_count
	for _, a := range algs {
		size, ok := digestSize(a.AlgID)
		if !ok {
			size = 0
		}
		pcrEvent = appendU16(pcrEvent, a.AlgID)
		pcrEvent = append(pcrEvent, make([]byte, size)...)
	}
	eventData := []byte("hello")
	pcrEvent = appendU32(pcrEvent, uint32(len(eventData)))
	pcrEvent = append(pcrEvent, eventData...)

	return append(specRecord, pcrEvent...)
}

func TestDetectFormatTPM20(t *testing.T) {
	data := buildTPM20Log([]AlgorithmDigestSize{{AlgID: AlgSHA256, DigestSize: 32}})
	f, err := DetectFormat(data)
	require.NoError(t, err)
	require.Equal(t, FormatTPM20, f)
}

func TestParseTPM12ValidPCRIndexAndEventType(t *testing.T) {
	data := buildTPM12Event(7, 0x1, [20]byte{1}, []byte("post code"))
	events, findings := ParseTPM12(testCtx(), data)
	require.Len(t, events, 1)
	require.Empty(t, findings)
}

func TestParseTPM12InvalidPCRIndex(t *testing.T) {
	data := buildTPM12Event(20, 0x1, [20]byte{1}, nil)
	_, findings := ParseTPM12(testCtx(), data)
	require.NotEmpty(t, findings)
}

func TestParseTPM12UnknownEventType(t *testing.T) {
	data := buildTPM12Event(0, 0xdeadbeef, [20]byte{}, nil)
	_, findings := ParseTPM12(testCtx(), data)
	found := false
	for _, f := range findings {
		if f.StableTag == "PCREventType" {
			found = true
		}
	}
	require.True(t, found)
}

func TestParseSpecIDEventNumberOfAlgorithmsZero(t *testing.T) {
	payload := buildSpecIDPayload(0, nil)
	data := buildTPM12Event(0, 0x3, [20]byte{}, payload)
	_, _, findings := ParseSpecIDEvent(testCtx(), data)
	found := false
	for _, f := range findings {
		if f.StableTag == "SpecIdEvAlgNumber" {
			found = true
		}
	}
	require.True(t, found)
}

func TestParseSpecIDEventUnknownAlgorithm(t *testing.T) {
	payload := buildSpecIDPayload(1, []AlgorithmDigestSize{{AlgID: 0x9999, DigestSize: 20}})
	data := buildTPM12Event(0, 0x3, [20]byte{}, payload)
	_, _, findings := ParseSpecIDEvent(testCtx(), data)
	found := false
	for _, f := range findings {
		if f.StableTag == "AlgorithmID" {
			found = true
		}
	}
	require.True(t, found)
}

func TestParseSpecIDEventNonZeroDigestFlagged(t *testing.T) {
	payload := buildSpecIDPayload(1, []AlgorithmDigestSize{{AlgID: AlgSHA1, DigestSize: 20}})
	var record []byte
	record = appendU32(record, 0)
	record = appendU32(record, 0x3)
	digest := [20]byte{}
	digest[0] = 0xff
	record = append(record, digest[:]...)
	record = appendU32(record, uint32(len(payload)))
	record = append(record, payload...)

	_, _, findings := ParseSpecIDEvent(testCtx(), record)
	found := false
	for _, f := range findings {
		if f.StableTag == "SpecIdDigestNonZero" {
			found = true
		}
	}
	require.True(t, found)
}

func TestParseTPM20EventsWalksAfterSpecID(t *testing.T) {
	data := buildTPM20Log([]AlgorithmDigestSize{{AlgID: AlgSHA256, DigestSize: 32}})
	_, next, specFindings := ParseSpecIDEvent(testCtx(), data)
	require.Empty(t, specFindings)
	events, findings := ParseTPM20Events(testCtx(), data, next)
	require.Len(t, events, 1)
	require.Empty(t, findings)
	require.Equal(t, uint32(1), events[0].PCRIndex)
}

func TestExtendPCRDeterministic(t *testing.T) {
	current := make([]byte, 32)
	eventDigest := make([]byte, 32)
	eventDigest[0] = 0x01

	a, err := ExtendPCR(AlgSHA256, current, eventDigest)
	require.NoError(t, err)
	b, err := ExtendPCR(AlgSHA256, current, eventDigest)
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Len(t, a, 32)
}

func TestExtendPCRWrongSizeErrors(t *testing.T) {
	_, err := ExtendPCR(AlgSHA256, make([]byte, 20), make([]byte, 32))
	require.Error(t, err)
}

func TestExtendPCRUnknownAlgorithmErrors(t *testing.T) {
	_, err := ExtendPCR(AlgRSA, make([]byte, 20), make([]byte, 20))
	require.Error(t, err)
}
