// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package smbios

import (
	"errors"

	"fwts-go/internal/finding"
	"fwts-go/internal/fwcheck"
)

func badEntryPointFinding(ctx fwcheck.Ctx, err error) finding.Finding {
	return finding.Finding{
		TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
		Severity: finding.SeverityCritical, StableTag: "BadEntryPoint",
		Text: err.Error(),
	}
}

// badWalkFinding classifies a WalkStructures failure: a table that ends
// before the walk expected it to (a truncated string-table terminator, a
// structure header or formatted area running past the declared length)
// is SMBIOSTableLengthTooSmall at High, not the generic StructureWalkFailed
// Critical reserved for a genuinely unparseable table.
func badWalkFinding(ctx fwcheck.Ctx, err error) finding.Finding {
	switch {
	case errors.Is(err, ErrTableLengthTooSmall):
		return finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityHigh, StableTag: "SMBIOSTableLengthTooSmall",
			Text: err.Error(),
		}
	case errors.Is(err, ErrInvalidEntryLength):
		return finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityHigh, StableTag: "InvalidEntryLength",
			Text: err.Error(),
		}
	default:
		return finding.Finding{
			TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindFail,
			Severity: finding.SeverityCritical, StableTag: "StructureWalkFailed",
			Text: err.Error(),
		}
	}
}

func passFinding(ctx fwcheck.Ctx) finding.Finding {
	return finding.Finding{TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindPass, Text: "no defects found"}
}
