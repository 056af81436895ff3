// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package dump implements the "fwts dump" subcommand: it loads tables from
// the selected sources and hex-dumps them without running any tests, for
// inspecting what a run would see.
package dump

import (
	"fmt"

	"github.com/spf13/cobra"

	"fwts-go/internal/fwsource"
	"fwts-go/internal/fwutil"
)

var (
	flagSources  []string
	flagDumpFile string
)

// Cmd is the "dump" subcommand.
var Cmd = &cobra.Command{
	Use:     "dump",
	Short:   "dump the firmware tables a run would load",
	GroupID: "primary",
	RunE:    run,
}

func init() {
	Cmd.Flags().StringArrayVar(&flagSources, "source", nil, "table source: sysfs, devmem, dumpfile, fixup (repeatable)")
	Cmd.Flags().StringVar(&flagDumpFile, "dump-file", "", "acpidump-style text file to read tables from")
}

func run(cmd *cobra.Command, args []string) error {
	sources := flagSources
	if len(sources) == 0 {
		sources = []string{"sysfs", "devmem"}
	}

	var built []fwsource.Source
	for _, name := range sources {
		switch name {
		case "sysfs":
			built = append(built, &fwsource.SysfsSource{})
		case "devmem":
			built = append(built, &fwsource.DevmemSource{})
		case "dumpfile":
			if flagDumpFile == "" {
				return fmt.Errorf("--source dumpfile requires --dump-file")
			}
			built = append(built, &fwsource.DumpfileSource{Path: flagDumpFile})
		case "fixup":
			built = append(built, &fwsource.FixupSource{})
		default:
			return fmt.Errorf("unknown source %q", name)
		}
	}

	reg := fwsource.NewRegistry(built...)
	if err := reg.LoadAll(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, blob := range reg.IterAll() {
		fmt.Fprintf(out, "%s (instance %d, %s, %d bytes, from %s)\n",
			blob.Signature, blob.InstanceIndex, blob.Provenance, blob.DeclaredLength, blob.SourceName)
		fmt.Fprintln(out, fwutil.HexDump(blob.Data, 0))
		fmt.Fprintln(out)
	}
	return nil
}
