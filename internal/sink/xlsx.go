// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package sink

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"fwts-go/internal/finding"
)

// XlsxSink renders the run as a spreadsheet, one row per finding plus a
// totals sheet, for audit records handed to compliance reviewers.
type XlsxSink struct {
	base
}

// NewXlsxSink returns a Sink that buffers findings and writes a workbook on
// RenderSummary.
func NewXlsxSink() *XlsxSink {
	return &XlsxSink{base: newBase()}
}

func (s *XlsxSink) Emit(f finding.Finding) {
	s.accept(f)
}

const findingsSheet = "Findings"

func (s *XlsxSink) RenderSummary(out io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", findingsSheet)
	headers := []string{"Test", "Tag", "Severity", "Kind", "Table", "Field", "Offset", "Text"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(findingsSheet, cell, h); err != nil {
			return errors.Wrap(err, "writing xlsx header")
		}
	}

	for row, finding := range s.emitted {
		r := row + 2
		offset := ""
		if finding.Offset != nil {
			offset = fmt.Sprintf("0x%03x", *finding.Offset)
		}
		values := []any{finding.TestName, finding.StableTag, finding.Severity.String(), finding.Kind.String(), finding.TableCtx, finding.Field, offset, finding.Text}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			if err := f.SetCellValue(findingsSheet, cell, v); err != nil {
				return errors.Wrap(err, "writing xlsx row")
			}
		}
	}

	summarySheet := "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return errors.Wrap(err, "creating summary sheet")
	}
	rows := [][2]any{
		{"Passed", s.allAccum.Passed},
		{"Failed", s.allAccum.Failed},
		{"Aborted", s.allAccum.Aborted},
		{"Warnings", s.allAccum.Warning},
		{"Skipped", s.allAccum.Skipped},
		{"Info only", s.allAccum.InfoOnly},
	}
	for i, r := range rows {
		labelCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valueCell, _ := excelize.CoordinatesToCellName(2, i+1)
		if err := f.SetCellValue(summarySheet, labelCell, r[0]); err != nil {
			return errors.Wrap(err, "writing summary label")
		}
		if err := f.SetCellValue(summarySheet, valueCell, r[1]); err != nil {
			return errors.Wrap(err, "writing summary value")
		}
	}

	if _, err := f.WriteTo(out); err != nil {
		return errors.Wrap(err, "writing xlsx workbook")
	}
	return nil
}
