// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package sink

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fwts-go/internal/finding"
)

func TestBaseIgnoredTagSuppresses(t *testing.T) {
	s := NewJSONSink()
	s.AddIgnoredTag("KnownNoisy")
	s.BeginTest("ACPITableCheck")

	s.Emit(finding.Finding{TestName: "ACPITableCheck", StableTag: "KnownNoisy", Kind: finding.KindFail, Severity: finding.SeverityLow})
	s.Emit(finding.Finding{TestName: "ACPITableCheck", StableTag: "OtherTag", Kind: finding.KindFail, Severity: finding.SeverityLow})

	acc := s.EndTest()
	require.Equal(t, 1, acc.Failed)
	require.Len(t, s.emitted, 1)
}

func TestBaseMinSeverityFloor(t *testing.T) {
	s := NewJSONSink()
	s.SetMinSeverity(finding.SeverityHigh)
	s.BeginTest("t")

	s.Emit(finding.Finding{TestName: "t", Kind: finding.KindFail, Severity: finding.SeverityLow})
	s.Emit(finding.Finding{TestName: "t", Kind: finding.KindFail, Severity: finding.SeverityCritical})
	s.Emit(finding.Finding{TestName: "t", Kind: finding.KindPass})

	acc := s.EndTest()
	require.Equal(t, 1, acc.Failed)
	require.Equal(t, 1, acc.Passed)
}

func TestBaseSuppressExpr(t *testing.T) {
	s := NewJSONSink()
	require.NoError(t, s.SetSuppressExpr(`StableTag == "ExpectedQuirk"`))
	s.BeginTest("t")

	s.Emit(finding.Finding{TestName: "t", StableTag: "ExpectedQuirk", Kind: finding.KindFail, Severity: finding.SeverityCritical})
	s.Emit(finding.Finding{TestName: "t", StableTag: "RealBug", Kind: finding.KindFail, Severity: finding.SeverityCritical})

	acc := s.EndTest()
	require.Equal(t, 1, acc.Failed)
}

func TestBaseInvalidSuppressExprErrors(t *testing.T) {
	s := NewJSONSink()
	err := s.SetSuppressExpr("not (valid")
	require.Error(t, err)
}

func TestBaseAccumulatorMergesAcrossTests(t *testing.T) {
	s := NewJSONSink()
	s.BeginTest("t1")
	s.Emit(finding.Finding{TestName: "t1", Kind: finding.KindPass})
	s.EndTest()

	s.BeginTest("t2")
	s.Emit(finding.Finding{TestName: "t2", Kind: finding.KindFail, Severity: finding.SeverityCritical})
	s.EndTest()

	require.Equal(t, 1, s.allAccum.Passed)
	require.Equal(t, 1, s.allAccum.Failed)
}
