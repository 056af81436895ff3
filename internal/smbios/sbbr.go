// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package smbios

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"fwts-go/internal/finding"
	"fwts-go/internal/fwcheck"
)

// sbbrMandatoryTypes is the Server Base Boot Requirements §2.8 mandatory
// SMBIOS structure type set: a compliant Arm server firmware must expose
// all of these.
var sbbrMandatoryTypes = mapset.NewSet[uint8](0, 1, 3, 4, 7, 16, 17, 19, 32)

// CheckSBBRMandatoryTypes reports one finding per mandatory type absent
// from present, the set of structure types actually found on the system.
func CheckSBBRMandatoryTypes(ctx fwcheck.Ctx, present mapset.Set[uint8]) []finding.Finding {
	missing := sbbrMandatoryTypes.Difference(present)
	if missing.Cardinality() == 0 {
		return nil
	}
	var findings []finding.Finding
	for _, t := range missing.ToSlice() {
		findings = append(findings, finding.Finding{
			TestName:  ctx.TestName,
			TableCtx:  ctx.TableCtx,
			Kind:      finding.KindFail,
			Severity:  finding.SeverityCritical,
			StableTag: "MissingMandatorySmbiosType",
			Field:     fmt.Sprintf("Type %d", t),
			Text:      fmt.Sprintf("SBBR requires SMBIOS structure type %d, none present", t),
		})
	}
	return findings
}

// PresentTypes collects the set of structure types found by a structure walk.
func PresentTypes(structures []Structure) mapset.Set[uint8] {
	present := mapset.NewSet[uint8]()
	for _, s := range structures {
		present.Add(s.Type)
	}
	return present
}
