// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package tpmlog

import (
	"fmt"

	"fwts-go/internal/finding"
	"fwts-go/internal/fwcheck"
	"fwts-go/internal/fwcursor"
)

// AlgorithmDigestSize pairs an algorithm ID with the digest length the spec
// ID event declares for it.
type AlgorithmDigestSize struct {
	AlgID      uint16
	DigestSize uint16
}

// EfiSpecIdEvent is the crypto-agile header record every TPM 2.0 log
// begins with, describing which algorithms subsequent TCG_PCR_EVENT2
// records carry digests for.
type EfiSpecIdEvent struct {
	Signature         [16]byte
	PlatformClass     uint32
	SpecVersionMinor  uint8
	SpecVersionMajor  uint8
	SpecErrata        uint8
	UintnSize         uint8
	NumberOfAlgorithms uint32
	DigestSizes       []AlgorithmDigestSize
	VendorInfo        []byte
}

// TCGPCREvent2Digest is one algorithm/digest pair within a PCREvent2
// record's digests list.
type TCGPCREvent2Digest struct {
	AlgID  uint16
	Digest []byte
}

// TCGPCREvent2 is a TPM 2.0 crypto-agile event record.
type TCGPCREvent2 struct {
	PCRIndex  uint32
	EventType uint32
	Digests   []TCGPCREvent2Digest
	Event     []byte
	Offset    int
}

// ParseSpecIDEvent decodes the first record of a TPM 2.0 log: the legacy
// PCClientPCREvent header (digest must be all zero) wrapping an
// EfiSpecIdEvent payload, per spec.md §4.D.2.
func ParseSpecIDEvent(ctx fwcheck.Ctx, data []byte) (EfiSpecIdEvent, int, []finding.Finding) {
	var findings []finding.Finding
	var spec EfiSpecIdEvent

	c := fwcursor.New(data, len(data))
	if _, err := c.ReadU32(); err != nil { // pcr_index, ignored for the spec ID record
		return spec, 0, append(findings, parseFailure(ctx, "spec ID record header truncated"))
	}
	if _, err := c.ReadU32(); err != nil { // event_type
		return spec, 0, append(findings, parseFailure(ctx, "spec ID record header truncated"))
	}
	digest, err := c.ReadBytes(20)
	if err != nil {
		return spec, 0, append(findings, parseFailure(ctx, "spec ID record header truncated"))
	}
	for _, b := range digest {
		if b != 0 {
			findings = append(findings, finding.Finding{
				TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
				Severity: finding.SeverityHigh, StableTag: "SpecIdDigestNonZero",
				Text: "the spec ID event's legacy digest field must be all zero",
			})
			break
		}
	}
	eventSize, err := c.ReadU32()
	if err != nil {
		return spec, 0, append(findings, parseFailure(ctx, "spec ID record header truncated"))
	}
	payload, err := c.ReadBytes(int(eventSize))
	if err != nil {
		return spec, 0, append(findings, parseFailure(ctx, "spec ID event payload overruns the log"))
	}

	p := fwcursor.New(payload, len(payload))
	sigBytes, err := p.ReadBytes(16)
	if err != nil {
		return spec, 0, append(findings, parseFailure(ctx, "spec ID event payload too short for signature"))
	}
	copy(spec.Signature[:], sigBytes)

	spec.PlatformClass, err = p.ReadU32()
	if err == nil {
		spec.SpecVersionMinor, err = p.ReadU8()
	}
	if err == nil {
		spec.SpecVersionMajor, err = p.ReadU8()
	}
	if err == nil {
		spec.SpecErrata, err = p.ReadU8()
	}
	if err == nil {
		spec.UintnSize, err = p.ReadU8()
	}
	if err == nil {
		spec.NumberOfAlgorithms, err = p.ReadU32()
	}
	if err != nil {
		return spec, c.Pos(), append(findings, parseFailure(ctx, "spec ID event payload truncated"))
	}

	if spec.PlatformClass != 0 && spec.PlatformClass != 1 {
		findings = append(findings, finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityHigh, StableTag: "SpecIdPlatformClass",
			Text: fmt.Sprintf("platform_class %d is not 0 or 1", spec.PlatformClass),
			ObservedValue: spec.PlatformClass,
		})
	}
	if spec.UintnSize != 1 && spec.UintnSize != 2 {
		findings = append(findings, finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityHigh, StableTag: "SpecIdUintnSize",
			Text: fmt.Sprintf("uintn_size %d is not 1 or 2", spec.UintnSize),
			ObservedValue: spec.UintnSize,
		})
	}
	if spec.NumberOfAlgorithms == 0 {
		findings = append(findings, finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityHigh, StableTag: "SpecIdEvAlgNumber",
			Text: "number_of_algorithms is zero",
		})
	}

	for i := uint32(0); i < spec.NumberOfAlgorithms; i++ {
		algID, err := p.ReadU16()
		if err != nil {
			findings = append(findings, parseFailure(ctx, "digest_sizes entry truncated"))
			break
		}
		size, err := p.ReadU16()
		if err != nil {
			findings = append(findings, parseFailure(ctx, "digest_sizes entry truncated"))
			break
		}
		spec.DigestSizes = append(spec.DigestSizes, AlgorithmDigestSize{AlgID: algID, DigestSize: size})
		if !knownAlgorithmIDs.Contains(algID) {
			findings = append(findings, finding.Finding{
				TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
				Severity: finding.SeverityHigh, StableTag: "AlgorithmID",
				Text: fmt.Sprintf("digest_sizes alg_id 0x%04x is not a recognized TPM2 algorithm", algID),
				ObservedValue: algID,
			})
		}
	}

	if vendorInfoSize, err := p.ReadU8(); err == nil {
		spec.VendorInfo, _ = p.ReadBytes(int(vendorInfoSize))
	}

	return spec, c.Pos(), findings
}

func parseFailure(ctx fwcheck.Ctx, text string) finding.Finding {
	return finding.Finding{
		TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
		Severity: finding.SeverityCritical, StableTag: "TruncatedEvent", Text: text,
	}
}

// ParseTPM20Events walks the TCG_PCR_EVENT2 records following the spec ID
// event at byte offset start, per spec.md §4.D.2's TPM 2.0 path. The walk
// aborts with an AlgorithmID finding at the first digest whose algorithm ID
// is not SHA-1, SHA-256, SHA-384 or SHA-512, since there is then no way to
// know how many bytes it occupies. The digest sizes declared in the spec ID
// event are not consulted, so this also happens when such an algorithm's
// declared digest size is zero.
func ParseTPM20Events(ctx fwcheck.Ctx, data []byte, start int) ([]TCGPCREvent2, []finding.Finding) {
	var events []TCGPCREvent2
	var findings []finding.Finding

	c := fwcursor.New(data, len(data))
	if err := c.SeekTo(start); err != nil {
		return events, findings
	}

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
		digestsCount, err := c.ReadU32()
		if err != nil {
			break
		}

		var digests []TCGPCREvent2Digest
		aborted := false
		for i := uint32(0); i < digestsCount; i++ {
			algID, err := c.ReadU16()
			if err != nil {
				aborted = true
				break
			}
			size, known := digestSize(algID)
			if !known {
				// Unknown algorithm: its digest length cannot be
				// resolved, so the rest of the log cannot be walked.
				findings = append(findings, finding.Finding{
					TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
					Severity: finding.SeverityHigh, StableTag: "AlgorithmID",
					Text:          fmt.Sprintf("PCREvent2 digest alg_id 0x%04x has no known size, aborting walk", algID),
					ObservedValue: algID,
				})
				aborted = true
				break
			}
			digestBytes, err := c.ReadBytes(size)
			if err != nil {
				aborted = true
				break
			}
			digests = append(digests, TCGPCREvent2Digest{AlgID: algID, Digest: digestBytes})
		}
		if aborted {
			break
		}

		eventSize, err := c.ReadU32()
		if err != nil {
			break
		}
		eventData, err := c.ReadBytes(int(eventSize))
		if err != nil {
			findings = append(findings, parseFailure(ctx, "PCREvent2 event payload overruns the log"))
			break
		}

		events = append(events, TCGPCREvent2{PCRIndex: pcrIndex, EventType: eventType, Digests: digests, Event: eventData, Offset: offset})

		off := uint32(offset)
		if f := ctx.Ranges("PCRIndex", off, int64(pcrIndex), []fwcheck.Range{{Min: 0, Max: 16}, {Min: 23, Max: 23}}); f != nil {
			findings = append(findings, *f)
		}
		if !knownEventTypes.Contains(eventType) {
			findings = append(findings, finding.Finding{
				TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
				Severity: finding.SeverityHigh, StableTag: "PCREventType", Offset: &off,
				Field: "EventType", Text: "PCREvent2 event_type is not in the known TCG enumeration",
				ObservedValue: eventType,
			})
		}
	}
	return events, findings
}
