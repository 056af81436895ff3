// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

/*
Package progress renders live per-test progress for a fwts-go run.
*/
package progress

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
)

var spinChars = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// ReportFunc is invoked by a running test with the percent complete of the
// current test (0-100). Tests call it at parser-chosen points, typically every
// N iterations of a long sub-structure walk.
type ReportFunc func(percent uint8)

type testState struct {
	name        string
	status      string
	statusIsNew bool
	spinIndex   int
}

// Reporter draws one line per registered test, updated as the harness runs it.
type Reporter struct {
	tests    []testState
	ticker   *time.Ticker
	done     chan bool
	spinning bool
}

// NewReporter creates an empty Reporter.
func NewReporter() *Reporter {
	return &Reporter{done: make(chan bool)}
}

// AddTest registers a test name to track. Names must be unique.
func (r *Reporter) AddTest(name string) error {
	for _, t := range r.tests {
		if t.name == name {
			return fmt.Errorf("test %s already registered with reporter", name)
		}
	}
	r.tests = append(r.tests, testState{name: name, status: "queued"})
	return nil
}

// Start begins the redraw ticker.
func (r *Reporter) Start() {
	r.draw(true)
	r.ticker = time.NewTicker(250 * time.Millisecond)
	r.spinning = true
	go r.onTick()
}

// Finish stops the ticker and draws the final state.
func (r *Reporter) Finish() {
	if r.spinning {
		r.ticker.Stop()
		r.done <- true
		r.draw(false)
		r.spinning = false
	}
}

// Status updates the displayed status of a test, e.g. "running (42%)", "passed".
func (r *Reporter) Status(name string, status string) error {
	for i, t := range r.tests {
		if t.name == name {
			if status != t.status {
				r.tests[i].status = status
				r.tests[i].statusIsNew = true
			}
			return nil
		}
	}
	return fmt.Errorf("no test %s registered with reporter", name)
}

// Percent reports the percent-complete of the named test, per spec.md §4.F's
// progress callback contract: (percent_of_current_test).
func (r *Reporter) Percent(name string, percent uint8) error {
	return r.Status(name, fmt.Sprintf("running (%d%%)", percent))
}

func (r *Reporter) onTick() {
	for {
		select {
		case <-r.done:
			return
		case <-r.ticker.C:
			r.draw(true)
		}
	}
}

func (r *Reporter) draw(goUp bool) {
	for i, t := range r.tests {
		if !term.IsTerminal(int(os.Stderr.Fd())) && !t.statusIsNew {
			continue
		}
		fmt.Fprintf(os.Stderr, "%-24s  %s  %-24s\n", t.name, spinChars[t.spinIndex], t.status)
		r.tests[i].statusIsNew = false
		r.tests[i].spinIndex = (r.tests[i].spinIndex + 1) % len(spinChars)
	}
	if goUp && term.IsTerminal(int(os.Stderr.Fd())) {
		for range r.tests {
			fmt.Fprintf(os.Stderr, "\x1b[1A")
		}
	}
}
