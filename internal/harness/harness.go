// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

/*
Package harness implements spec.md §4.F: discovery of registered parsers,
ordering, per-test init/deinit, minor-test sequencing, skip/abort semantics,
and progress reporting. The set of tests is a static, explicit manifest
compiled into the binary (spec.md §9's "global registration of tests ->
static manifest" redesign note) rather than link-time auto-registration.
*/
package harness

import (
	"log/slog"
	"sort"
	"sync/atomic"

	"fwts-go/internal/finding"
	"fwts-go/internal/fwsource"
	"fwts-go/internal/progress"
	"fwts-go/internal/sink"
)

// Ordering buckets a test is sorted into before registration order breaks ties.
type Ordering int

const (
	OrderFirst Ordering = iota
	OrderEarly
	OrderAnytime
	OrderLast
)

// Flags describe test applicability and requirements.
type Flags uint32

const (
	FlagBatch Flags = 1 << iota
	FlagInteractive
	FlagRootPriv
	FlagAcpi
	FlagUefi
	FlagSbbr
	FlagEbbr
)

func (f Flags) Has(flag Flags) bool { return f&flag != 0 }

// MinorResult is the outcome of one minor test or an init function.
type MinorResult int

const (
	ResultOk MinorResult = iota
	ResultError
	ResultSkip
	ResultAbort
)

// RunContext is explicit context passed into every test invocation, per
// spec.md §9's "process-wide state" note: the registry, sink, progress
// reporter, and cancellation token are constructed once at run start and
// passed down rather than read from package-level globals.
type RunContext struct {
	Registry *fwsource.Registry
	Sink     sink.Sink
	Progress *progress.Reporter
	Cancel   *CancellationToken
	// Mode carries the optional compliance modes selected for this run
	// (FlagSbbr / FlagEbbr / FlagUefi). A test whose Flags name one of
	// these mode bits only runs when ctx.Mode has that bit set.
	Mode Flags
}

// modeFlags is the subset of Flags that gate a test to a specific
// compliance-mode run rather than merely describing its requirements.
const modeFlags = FlagSbbr | FlagEbbr | FlagUefi

// CancellationToken is spec.md §5's cooperative, polled cancellation flag.
type CancellationToken struct {
	cancelled atomic.Bool
}

// RequestCancel sets the cancellation flag.
func (c *CancellationToken) RequestCancel() { c.cancelled.Store(true) }

// Cancelled reports whether cancellation has been requested.
func (c *CancellationToken) Cancelled() bool { return c.cancelled.Load() }

// MinorTestFunc implements one graded check within a test.
type MinorTestFunc func(ctx *RunContext) MinorResult

// MinorTest pairs a function with its description for reporting.
type MinorTest struct {
	Fn          MinorTestFunc
	Description string
}

// InitFunc runs once before a test's minor tests. Returning ResultSkip marks
// every minor test Skip; ResultError emits one High-severity InitError
// failure and runs none of the minor tests. The Aborted counter is not
// incremented in either case.
type InitFunc func(ctx *RunContext) MinorResult

// DeinitFunc runs unconditionally after minor tests complete or abort.
type DeinitFunc func(ctx *RunContext)

// Test is one registered parser/validator, matching spec.md §4.F's
// registration contract.
type Test struct {
	Name        string
	Description string
	MinorTests  []MinorTest
	Ordering    Ordering
	Flags       Flags
	Init        InitFunc
	Deinit      DeinitFunc
}

// Manifest is the static, build-time-fixed set of registered tests.
type Manifest []Test

// sortedByOrdering returns the manifest's tests sorted by ordering bucket,
// then by registration order within each bucket (stable sort).
func (m Manifest) sortedByOrdering() []Test {
	out := make([]Test, len(m))
	copy(out, m)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Ordering < out[j].Ordering
	})
	return out
}

// Run executes every test in the manifest per spec.md §4.F steps 1-5,
// folding each test's sealed accumulator into the returned global total.
func Run(manifest Manifest, ctx *RunContext) finding.Accumulator {
	var global finding.Accumulator
	for _, test := range manifest.sortedByOrdering() {
		if ctx.Cancel != nil && ctx.Cancel.Cancelled() {
			ctx.Sink.BeginTest(test.Name)
			acc := runSkippedTest(ctx, test)
			global.Merge(acc)
			continue
		}
		acc := runOneTest(ctx, test)
		global.Merge(acc)
	}
	return global
}

func runSkippedForMode(ctx *RunContext, test Test) finding.Accumulator {
	for range test.MinorTests {
		ctx.Sink.Emit(finding.Finding{TestName: test.Name, Kind: finding.KindSkip, StableTag: "ModeNotSelected", Text: "test requires a compliance mode not selected for this run"})
	}
	return ctx.Sink.EndTest()
}

func runSkippedTest(ctx *RunContext, test Test) finding.Accumulator {
	for range test.MinorTests {
		ctx.Sink.Emit(finding.Finding{
			TestName:  test.Name,
			StableTag: "RunCancelled",
			Severity:  finding.SeverityNone,
			Kind:      finding.KindSkip,
			Text:      "run was cancelled before this test could execute",
		})
	}
	return ctx.Sink.EndTest()
}

func runOneTest(ctx *RunContext, test Test) finding.Accumulator {
	if required := test.Flags & modeFlags; required != 0 && ctx.Mode&required == 0 {
		ctx.Sink.BeginTest(test.Name)
		return runSkippedForMode(ctx, test)
	}
	ctx.Sink.BeginTest(test.Name)
	if ctx.Progress != nil {
		_ = ctx.Progress.AddTest(test.Name)
	}

	if test.Init != nil {
		switch test.Init(ctx) {
		case ResultSkip:
			for range test.MinorTests {
				ctx.Sink.Emit(finding.Finding{TestName: test.Name, Kind: finding.KindSkip, StableTag: "InitSkip", Text: "test init requested skip"})
			}
			if test.Deinit != nil {
				test.Deinit(ctx)
			}
			return ctx.Sink.EndTest()
		case ResultError:
			ctx.Sink.Emit(finding.Finding{TestName: test.Name, Kind: finding.KindFail, Severity: finding.SeverityHigh, StableTag: "InitError", Text: "test init failed"})
			if test.Deinit != nil {
				test.Deinit(ctx)
			}
			return ctx.Sink.EndTest()
		}
	}

	for i, minor := range test.MinorTests {
		if ctx.Cancel != nil && ctx.Cancel.Cancelled() {
			ctx.Sink.Emit(finding.Finding{TestName: test.Name, Kind: finding.KindSkip, StableTag: "RunCancelled", Text: "run was cancelled"})
			continue
		}
		result := minor.Fn(ctx)
		switch result {
		case ResultAbort:
			slog.Warn("minor test aborted", slog.String("test", test.Name), slog.Int("index", i))
			// Abort stops the remaining minor tests of this test, not the run.
			for j := i + 1; j < len(test.MinorTests); j++ {
				ctx.Sink.Emit(finding.Finding{TestName: test.Name, Kind: finding.KindSkip, StableTag: "AbortedByPriorMinorTest", Text: test.MinorTests[j].Description})
			}
			goto deinit
		case ResultError:
			slog.Error("minor test returned error", slog.String("test", test.Name), slog.Int("index", i))
		}
	}
deinit:
	if test.Deinit != nil {
		test.Deinit(ctx)
	}
	if ctx.Progress != nil {
		_ = ctx.Progress.Status(test.Name, "done")
	}
	return ctx.Sink.EndTest()
}
