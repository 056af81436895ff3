// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

/*
Package appctx carries the small set of process-lifecycle values the root
command establishes in PersistentPreRunE and every subcommand reads back:
the run's timestamp, output directory, and whether debug mode (which
retains temporary directories) is active.
*/
package appctx

// Key is the context.Context key a Context value is stored under.
type Key struct{}

// Context is the ambient state threaded from the root command down to
// whichever subcommand cobra dispatches to.
type Context struct {
	Timestamp    string
	OutputDir    string
	LocalTempDir string
	LogFilePath  string
	Debug        bool
}
