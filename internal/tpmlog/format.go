// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

/*
Package tpmlog decodes TPM 1.2 and TPM 2.0 "crypto agile" platform event
logs: the TCG_PCR_EVENT / TCG_PCR_EVENT2 record streams firmware writes to
describe what it measured into the TPM's PCRs.
*/
package tpmlog

import "fwts-go/internal/fwcursor"

// Format identifies which record layout an event log uses.
type Format int

const (
	FormatUnknown Format = iota
	FormatTPM12
	FormatTPM20
)

func (f Format) String() string {
	switch f {
	case FormatTPM12:
		return "TPM1.2"
	case FormatTPM20:
		return "TPM2.0"
	default:
		return "Unknown"
	}
}

const specIDEvent03Magic = "Spec ID Event03"

// pcClientHeaderLen is the fixed portion of the first TCG_PCR_EVENT
// record, common to both formats: {pcr_index, event_type, digest[20],
// event_size}.
const pcClientHeaderLen = 4 + 4 + 20 + 4

// DetectFormat inspects the first record of an event log to decide
// whether it is TPM 1.2 SHA-1-only or TPM 2.0 crypto-agile: the first
// record is always a legacy PCClientPCREvent, and a TPM 2.0 log's first
// record carries the EfiSpecIdEvent payload beginning with the magic
// string "Spec ID Event03".
func DetectFormat(data []byte) (Format, error) {
	c := fwcursor.New(data, len(data))
	if c.Remaining() < pcClientHeaderLen {
		return FormatUnknown, &fwcursor.ErrOverrun{Needed: pcClientHeaderLen, Available: c.Remaining()}
	}
	eventSize, err := c.ReadU32At(28)
	if err != nil {
		return FormatUnknown, err
	}
	if eventSize < 16 {
		return FormatTPM12, nil
	}
	magic, err := c.PeekAsciiFixed(pcClientHeaderLen, 15)
	if err != nil {
		return FormatTPM12, nil
	}
	if magic == specIDEvent03Magic {
		return FormatTPM20, nil
	}
	return FormatTPM12, nil
}
