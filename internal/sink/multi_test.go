// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package sink

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"fwts-go/internal/finding"
)

func TestMultiSinkFansOutToEverySink(t *testing.T) {
	a := NewJSONSink()
	b := NewTextSink(&bytes.Buffer{})
	m := NewMultiSink(a, b)

	m.BeginTest("T")
	m.Emit(finding.Finding{TestName: "T", Kind: finding.KindFail, Severity: finding.SeverityHigh, StableTag: "X"})
	acc := m.EndTest()

	require.Equal(t, 1, acc.Failed)
	require.Equal(t, 1, a.allAccum.Failed)
	require.Equal(t, 1, b.allAccum.Failed)
}

func TestMultiSinkSetMinSeverityAppliesToAll(t *testing.T) {
	a := NewJSONSink()
	b := NewJSONSink()
	m := NewMultiSink(a, b)
	m.SetMinSeverity(finding.SeverityHigh)

	m.BeginTest("T")
	m.Emit(finding.Finding{TestName: "T", Kind: finding.KindFail, Severity: finding.SeverityLow, StableTag: "X"})
	acc := m.EndTest()

	require.Equal(t, 0, acc.Failed)
}
