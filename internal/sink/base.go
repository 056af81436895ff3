// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package sink

import (
	"github.com/casbin/govaluate"
	"github.com/pkg/errors"

	"fwts-go/internal/finding"
	"fwts-go/internal/fwutil"
)

// base implements the filtering, suppression and per-test accounting shared
// by every concrete Sink (spec.md §4.E's accumulator semantics plus the
// suppress_if expression from SPEC_FULL.md's run configuration). Concrete
// sinks embed base and add only their own rendering.
type base struct {
	minSeverity  finding.Severity
	ignoredTags  fwutil.StringSet
	suppressExpr *govaluate.EvaluableExpression

	current      finding.Accumulator
	currentTest  string
	emitted      []finding.Finding
	allAccum     finding.Accumulator
}

func newBase() base {
	return base{ignoredTags: fwutil.NewStringSet()}
}

func (b *base) BeginTest(name string) {
	b.currentTest = name
	b.current = finding.Accumulator{}
}

func (b *base) EndTest() finding.Accumulator {
	b.allAccum.Merge(b.current)
	sealed := b.current
	b.current = finding.Accumulator{}
	return sealed
}

func (b *base) SetMinSeverity(s finding.Severity) { b.minSeverity = s }

func (b *base) AddIgnoredTag(tag string) { b.ignoredTags.Add(tag) }

func (b *base) SetSuppressExpr(expr string) error {
	if expr == "" {
		b.suppressExpr = nil
		return nil
	}
	compiled, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return errors.Wrap(err, "compiling suppress_if expression")
	}
	b.suppressExpr = compiled
	return nil
}

// accept applies the ignore-tag set, the min-severity floor and the
// suppress_if expression in that order, and folds the outcome into the
// per-test accumulator. It returns false when the finding should not reach
// the concrete sink's rendered output at all.
func (b *base) accept(f finding.Finding) bool {
	if b.ignoredTags.Contains(f.StableTag) {
		return false
	}
	if f.Kind == finding.KindFail && f.Severity < b.minSeverity {
		return false
	}
	if b.suppressExpr != nil {
		params := map[string]interface{}{
			"Severity":  f.Severity.String(),
			"Kind":      f.Kind.String(),
			"TestName":  f.TestName,
			"StableTag": f.StableTag,
			"TableCtx":  f.TableCtx,
			"Field":     f.Field,
		}
		result, err := b.suppressExpr.Evaluate(params)
		if err == nil {
			if suppressed, ok := result.(bool); ok && suppressed {
				return false
			}
		}
	}
	b.current.Add(f.Kind)
	b.emitted = append(b.emitted, f)
	return true
}
