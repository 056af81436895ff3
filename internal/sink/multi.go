// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package sink

import (
	"io"

	"github.com/pkg/errors"

	"fwts-go/internal/finding"
)

// MultiSink fans every call out to a set of underlying sinks, letting one
// run populate several report formats at once (e.g. text to stdout plus
// JSON to a file).
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink wraps one or more sinks as a single Sink.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) BeginTest(name string) {
	for _, s := range m.sinks {
		s.BeginTest(name)
	}
}

// EndTest returns the first sink's sealed accumulator: every sink applies
// the same filters to the same findings, so their per-test counts agree.
func (m *MultiSink) EndTest() finding.Accumulator {
	var acc finding.Accumulator
	for i, s := range m.sinks {
		sealed := s.EndTest()
		if i == 0 {
			acc = sealed
		}
	}
	return acc
}

func (m *MultiSink) Emit(f finding.Finding) {
	for _, s := range m.sinks {
		s.Emit(f)
	}
}

func (m *MultiSink) SetMinSeverity(sev finding.Severity) {
	for _, s := range m.sinks {
		s.SetMinSeverity(sev)
	}
}

func (m *MultiSink) AddIgnoredTag(tag string) {
	for _, s := range m.sinks {
		s.AddIgnoredTag(tag)
	}
}

func (m *MultiSink) SetSuppressExpr(expr string) error {
	for _, s := range m.sinks {
		if err := s.SetSuppressExpr(expr); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) RenderSummary(out io.Writer) error {
	for _, s := range m.sinks {
		if err := s.RenderSummary(out); err != nil {
			return errors.Wrap(err, "rendering summary")
		}
	}
	return nil
}
