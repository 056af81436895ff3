// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package tpmlog

import (
	mapset "github.com/deckarep/golang-set/v2"

	"fwts-go/internal/finding"
	"fwts-go/internal/fwcheck"
	"fwts-go/internal/fwcursor"
)

// knownEventTypes is the TCG PC Client event-type enumeration, shared by
// both the TPM 1.2 and TPM 2.0 record formats.
var knownEventTypes = mapset.NewSet[uint32](
	0x0, 0x1, 0x2, 0x3, 0x4, 0x5, 0x6, 0x7, 0x8, 0x9,
	0xa, 0xb, 0xc, 0xd, 0xe, 0xf, 0x10, 0x11, 0x12,
	0x80000000, 0x80000001, 0x80000002, 0x80000003, 0x80000004,
	0x80000005, 0x80000006, 0x80000007, 0x80000008, 0x80000009,
	0x800000e1, 0x800000e2,
)

// PCClientPCREvent is a TPM 1.2 log record: a fixed 20-byte SHA-1 digest
// and a variable-length event payload.
type PCClientPCREvent struct {
	PCRIndex  uint32
	EventType uint32
	Digest    [20]byte
	Event     []byte
	Offset    int
}

// ParseTPM12 walks a SHA-1-only event log record by record until the blob
// is exhausted, per spec.md §4.D.2's TPM 1.2 path.
func ParseTPM12(ctx fwcheck.Ctx, data []byte) ([]PCClientPCREvent, []finding.Finding) {
	var events []PCClientPCREvent
	var findings []finding.Finding

	c := fwcursor.New(data, len(data))
	for c.Remaining() > 0 {
		offset := c.Pos()
		pcrIndex, err := c.ReadU32()
		if err != nil {
			break
		}
		eventType, err := c.ReadU32()
		if err != nil {
			break
		}
		digestBytes, err := c.ReadBytes(20)
		if err != nil {
			break
		}
		eventSize, err := c.ReadU32()
		if err != nil {
			break
		}
		eventData, err := c.ReadBytes(int(eventSize))
		if err != nil {
			findings = append(findings, finding.Finding{
				TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
				Severity: finding.SeverityCritical, StableTag: "TruncatedEvent",
				Text: "TPM 1.2 event record declares an event_size beyond the log", Field: "EventSize",
			})
			break
		}

		var digest [20]byte
		copy(digest[:], digestBytes)
		ev := PCClientPCREvent{PCRIndex: pcrIndex, EventType: eventType, Digest: digest, Event: eventData, Offset: offset}
		events = append(events, ev)

		off := uint32(offset)
		if f := ctx.Ranges("PCRIndex", off, int64(pcrIndex), []fwcheck.Range{{Min: 0, Max: 16}, {Min: 23, Max: 23}}); f != nil {
			findings = append(findings, *f)
		}
		if !knownEventTypes.Contains(eventType) {
			findings = append(findings, finding.Finding{
				TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
				Severity: finding.SeverityHigh, StableTag: "PCREventType", Offset: &off,
				Field: "EventType", Text: "TPM 1.2 event_type is not in the known TCG enumeration",
				ObservedValue: eventType,
			})
		}
	}
	return events, findings
}
