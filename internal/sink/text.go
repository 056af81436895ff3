// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package sink

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"fwts-go/internal/finding"
)

// TextSink renders findings as the traditional line-oriented fwts console
// report: one line per finding, grouped under its test name as it arrives,
// followed by a totals summary.
type TextSink struct {
	base
	out io.Writer

	lines []string
}

// NewTextSink returns a Sink that writes its findings to out as they are
// emitted and renders a totals summary on RenderSummary.
func NewTextSink(out io.Writer) *TextSink {
	return &TextSink{base: newBase(), out: out}
}

func (s *TextSink) Emit(f finding.Finding) {
	if !s.accept(f) {
		return
	}
	line := fmt.Sprintf("%-8s %-20s %s", f.Kind.String(), f.TestName, f.Text)
	if f.Field != "" {
		line += fmt.Sprintf(" (field=%s", f.Field)
		if f.Offset != nil {
			line += fmt.Sprintf(", offset=0x%03x", *f.Offset)
		}
		line += ")"
	}
	s.lines = append(s.lines, line)
	fmt.Fprintln(s.out, line)
}

// RenderSummary writes the locale-formatted totals block after all tests
// have run.
func (s *TextSink) RenderSummary(out io.Writer) error {
	p := message.NewPrinter(language.English)
	p.Fprintln(out, "================================================================================")
	p.Fprintf(out, "%-12s %d\n", "Passed:", s.allAccum.Passed)
	p.Fprintf(out, "%-12s %d\n", "Failed:", s.allAccum.Failed)
	p.Fprintf(out, "%-12s %d\n", "Aborted:", s.allAccum.Aborted)
	p.Fprintf(out, "%-12s %d\n", "Warnings:", s.allAccum.Warning)
	p.Fprintf(out, "%-12s %d\n", "Skipped:", s.allAccum.Skipped)
	p.Fprintf(out, "%-12s %d\n", "Info only:", s.allAccum.InfoOnly)
	return nil
}
