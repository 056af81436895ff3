// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package sink

import (
	"encoding/json"
	"io"

	"fwts-go/internal/finding"
)

// jsonFinding is the wire shape of a Finding; Offset is a plain
// pointer-to-uint32 with omitempty, so a finding without an offset has no
// "offset" key at all.
type jsonFinding struct {
	TestName      string  `json:"test_name"`
	StableTag     string  `json:"stable_tag"`
	Severity      string  `json:"severity"`
	Kind          string  `json:"kind"`
	Text          string  `json:"text"`
	TableCtx      string  `json:"table_ctx,omitempty"`
	Offset        *uint32 `json:"offset,omitempty"`
	Field         string  `json:"field,omitempty"`
	ObservedValue any     `json:"observed_value,omitempty"`
}

type jsonReport struct {
	Findings []jsonFinding      `json:"findings"`
	Totals   finding.Accumulator `json:"totals"`
}

// JSONSink accumulates findings and renders a single JSON document on
// RenderSummary, for machine consumption by CI pipelines.
type JSONSink struct {
	base
}

// NewJSONSink returns a Sink that buffers findings and emits one JSON
// document when RenderSummary is called.
func NewJSONSink() *JSONSink {
	return &JSONSink{base: newBase()}
}

func (s *JSONSink) Emit(f finding.Finding) {
	s.accept(f)
}

func (s *JSONSink) RenderSummary(out io.Writer) error {
	report := jsonReport{Totals: s.allAccum}
	for _, f := range s.emitted {
		report.Findings = append(report.Findings, jsonFinding{
			TestName:      f.TestName,
			StableTag:     f.StableTag,
			Severity:      f.Severity.String(),
			Kind:          f.Kind.String(),
			Text:          f.Text,
			TableCtx:      f.TableCtx,
			Offset:        f.Offset,
			Field:         f.Field,
			ObservedValue: f.ObservedValue,
		})
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
