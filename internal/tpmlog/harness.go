// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package tpmlog

import (
	"fwts-go/internal/finding"
	"fwts-go/internal/fwcheck"
	"fwts-go/internal/harness"
)

const testName = "TPMEventLog"

// tpmEventLogSignature is the registry key a loader source publishes a
// decoded binary_bios_measurements blob under, mirroring how the SMBIOS
// table is published under "DMI".
const tpmEventLogSignature = "TPMEVENTLOG"

func emitAll(ctx fwcheck.Ctx, rc harness.RunContext, findings []finding.Finding) {
	if len(findings) == 0 {
		rc.Sink.Emit(finding.Finding{TestName: ctx.TestName, TableCtx: ctx.TableCtx, Kind: finding.KindPass, Text: "no defects found"})
		return
	}
	for _, f := range findings {
		rc.Sink.Emit(f)
	}
}

// EventLogTest validates the platform's TPM event log, detecting TPM 1.2
// vs. TPM 2.0 format and dispatching to the matching decoder, per spec.md
// §4.D.2.
func EventLogTest() harness.Test {
	return harness.Test{
		Name:        testName,
		Description: "decode and validate the TPM event log",
		Ordering:    harness.OrderAnytime,
		Flags:       harness.FlagBatch,
		MinorTests: []harness.MinorTest{{
			Description: "format detection and record walk",
			Fn: func(rc *harness.RunContext) harness.MinorResult {
				blob, ok := rc.Registry.FindBySignature(tpmEventLogSignature, 0)
				if !ok {
					return harness.ResultSkip
				}
				data := blob.Data[:blob.DeclaredLength]
				ctx := fwcheck.Ctx{TestName: testName, TableCtx: "TPMEventLog"}

				format, err := DetectFormat(data)
				if err != nil {
					emitAll(ctx, *rc, []finding.Finding{parseFailure(ctx, "event log too short to contain a single record")})
					return harness.ResultError
				}

				switch format {
				case FormatTPM12:
					_, findings := ParseTPM12(ctx, data)
					emitAll(ctx, *rc, findings)
				case FormatTPM20:
					spec, next, specFindings := ParseSpecIDEvent(ctx, data)
					_, findings := ParseTPM20Events(ctx, data, next)
					emitAll(ctx, *rc, append(specFindings, findings...))
					_ = spec
				default:
					return harness.ResultSkip
				}
				return harness.ResultOk
			},
		}},
	}
}

// AllTests returns every TPM event log harness test.
func AllTests() harness.Manifest {
	return harness.Manifest{EventLogTest()}
}
