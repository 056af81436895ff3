// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package dump

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunUnknownSourceErrors(t *testing.T) {
	flagSources = []string{"carrier-pigeon"}
	defer func() { flagSources = nil }()

	var out bytes.Buffer
	Cmd.SetOut(&out)
	require.Error(t, run(Cmd, nil))
}

func TestRunDumpfileRequiresPath(t *testing.T) {
	flagSources = []string{"dumpfile"}
	flagDumpFile = ""
	defer func() { flagSources, flagDumpFile = nil, "" }()

	var out bytes.Buffer
	Cmd.SetOut(&out)
	require.Error(t, run(Cmd, nil))
}
