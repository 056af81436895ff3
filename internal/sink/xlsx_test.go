// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package sink

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"fwts-go/internal/finding"
)

func TestXlsxSinkRenderSummaryProducesWorkbook(t *testing.T) {
	s := NewXlsxSink()
	s.BeginTest("SMBIOSCheck")
	s.Emit(finding.Finding{TestName: "SMBIOSCheck", StableTag: "BadUUID", Kind: finding.KindFail, Severity: finding.SeverityMedium, Text: "malformed UUID"})
	s.EndTest()

	var buf bytes.Buffer
	require.NoError(t, s.RenderSummary(&buf))
	require.True(t, buf.Len() > 0)
	require.Equal(t, "PK", string(buf.Bytes()[:2])) // xlsx is a zip archive
}
