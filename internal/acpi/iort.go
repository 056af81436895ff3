// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package acpi

import (
	"fmt"

	"fwts-go/internal/finding"
	"fwts-go/internal/fwcheck"
	"fwts-go/internal/fwcursor"
	"fwts-go/internal/fwsource"
	"fwts-go/internal/harness"
)

const (
	iortIDMapLen   = 20
	iortNodeFixLen = 16 // type(1) + length(2) + revision(1) + identifier(4) + num_id_mappings(4) + id_mapping_offset(4)
)

// iortNodeMaxRevision is the maximum revision value defined for each IORT
// node type: 0 ITS Group, 1 Named Component, 2 Root Complex, 3 SMMU,
// 4 SMMUv3, 5 PMCG, 6 Memory Range Reservation.
var iortNodeMaxRevision = map[uint8]uint8{
	0: 1,
	1: 2,
	2: 3,
	3: 1,
	4: 4,
	5: 1,
	6: 1,
}

// ValidateIORT decodes the IO Remapping Table and walks its node array,
// per spec.md's concrete scenario S4: a node whose ID-mapping array runs
// past the node's own declared length must be flagged, not silently read.
func ValidateIORT(ctx fwcheck.Ctx, blob *fwsource.Blob) []finding.Finding {
	header, findings := ValidateCommonHeader(ctx, blob, nil)
	if header.Signature == "" {
		return findings
	}

	c := fwcursor.New(blob.Data, int(blob.DeclaredLength))

	numNodes, err := c.ReadU32At(36)
	if err != nil {
		return findings
	}
	nodeOffset, err := c.ReadU32At(40)
	if err != nil {
		return findings
	}

	offset := nodeOffset
	for i := uint32(0); i < numNodes; i++ {
		if f := ctx.RangeInTable(fmt.Sprintf("IORT node %d", i), offset, offset+iortNodeFixLen, header.Length); f != nil {
			findings = append(findings, *f)
			break
		}

		nodeType, err := c.ReadU8At(int(offset))
		if err != nil {
			break
		}
		nodeLen, err := c.ReadU16At(int(offset) + 1)
		if err != nil {
			break
		}
		revision, err := c.ReadU8At(int(offset) + 3)
		if err != nil {
			break
		}
		numIDMappings, err := c.ReadU32At(int(offset) + 8)
		if err != nil {
			break
		}
		idMappingOffset, err := c.ReadU32At(int(offset) + 12)
		if err != nil {
			break
		}

		label := fmt.Sprintf("IORT node %d (type %d)", i, nodeType)

		if f := ctx.RangeInTable(label, offset, offset+uint32(nodeLen), header.Length); f != nil {
			findings = append(findings, *f)
			break
		}

		if maxRev, known := iortNodeMaxRevision[nodeType]; known {
			if f := ctx.MinMax(label+".Revision", offset+3, int64(revision), 0, int64(maxRev)); f != nil {
				findings = append(findings, *f)
			}
		}

		if numIDMappings > 0 {
			idEnd := idMappingOffset + numIDMappings*iortIDMapLen
			if idEnd > uint32(nodeLen) {
				off := offset + 8
				findings = append(findings, finding.Finding{
					TestName:  ctx.TestName,
					TableCtx:  ctx.TableCtx,
					StableTag: "IORTIdMappingOutsideTable",
					Severity:  finding.SeverityHigh,
					Kind:      finding.KindFail,
					Offset:    &off,
					Field:     label + ".IdMappingArray",
					Text:      fmt.Sprintf("%s id_array_offset %d + id_count %d * 20 = %d exceeds node length %d", label, idMappingOffset, numIDMappings, idEnd, nodeLen),
				})
			}
		}

		offset += uint32(nodeLen)
	}

	return findings
}

// IORTTest registers the IORT validator.
func IORTTest() harness.Test {
	const testName = "ACPIIort"
	return harness.Test{
		Name:        testName,
		Description: "validate the IO Remapping Table node array",
		Ordering:    harness.OrderAnytime,
		Flags:       harness.FlagAcpi | harness.FlagBatch,
		MinorTests: []harness.MinorTest{{
			Description: "IORT node revisions and ID-mapping bounds",
			Fn: func(rc *harness.RunContext) harness.MinorResult {
				blob, ok := rc.Registry.FindBySignature("IORT", 0)
				if !ok {
					return harness.ResultSkip
				}
				ctx := fwcheck.Ctx{TestName: testName, TableCtx: "IORT"}
				emitAll(ctx, rc.Sink, ValidateIORT(ctx, blob))
				return harness.ResultOk
			},
		}},
	}
}
