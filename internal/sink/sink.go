// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

/*
Package sink implements spec.md §4.E's result sink and severity model, and
§6's result sink interface. A Sink receives findings synchronously from
parsers, filters and counts them, and can render a final summary report in
whatever format it chooses (text, JSON, xlsx, Prometheus, or a fan-out to
several of these — see SPEC_FULL.md's DOMAIN STACK table).
*/
package sink

import (
	"io"

	"fwts-go/internal/finding"
)

// Sink is spec.md §6's result sink interface.
type Sink interface {
	BeginTest(name string)
	EndTest() finding.Accumulator
	Emit(f finding.Finding)
	SetMinSeverity(s finding.Severity)
	AddIgnoredTag(tag string)
	SetSuppressExpr(expr string) error
	RenderSummary(out io.Writer) error
}
