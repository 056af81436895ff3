package finding

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeverityOrdering(t *testing.T) {
	require.True(t, SeverityCritical > SeverityHigh)
	require.True(t, SeverityHigh > SeverityMedium)
	require.True(t, SeverityMedium > SeverityLow)
	require.True(t, SeverityLow > SeverityNone)
}

func TestParseSeverity(t *testing.T) {
	sev, err := ParseSeverity("high")
	require.NoError(t, err)
	require.Equal(t, SeverityHigh, sev)

	_, err = ParseSeverity("extreme")
	require.Error(t, err)
}

func TestAccumulatorAdd(t *testing.T) {
	var acc Accumulator
	acc.Add(KindPass)
	acc.Add(KindFail)
	acc.Add(KindFail)
	acc.Add(KindSkip)
	acc.Add(KindAdvice)
	require.Equal(t, 1, acc.Passed)
	require.Equal(t, 2, acc.Failed)
	require.Equal(t, 1, acc.Skipped)
	require.Equal(t, 0, acc.Warning) // advice never increments a counter
}

func TestAccumulatorMerge(t *testing.T) {
	a := Accumulator{Passed: 1, Failed: 2}
	b := Accumulator{Passed: 3, Skipped: 1}
	a.Merge(b)
	require.Equal(t, 4, a.Passed)
	require.Equal(t, 2, a.Failed)
	require.Equal(t, 1, a.Skipped)
}
