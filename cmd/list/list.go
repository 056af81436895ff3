// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package list implements the "fwts list" subcommand: it prints every
// registered test's name and description without running anything.
package list

import (
	"fmt"

	"github.com/spf13/cobra"

	"fwts-go/internal/acpi"
	"fwts-go/internal/harness"
	"fwts-go/internal/smbios"
	"fwts-go/internal/tpmlog"
)

// Cmd is the "list" subcommand.
var Cmd = &cobra.Command{
	Use:     "list",
	Short:   "list every registered test",
	GroupID: "primary",
	RunE:    run,
}

func run(cmd *cobra.Command, args []string) error {
	var manifest harness.Manifest
	manifest = append(manifest, acpi.AllTests()...)
	manifest = append(manifest, smbios.AllTests()...)
	manifest = append(manifest, tpmlog.AllTests()...)

	out := cmd.OutOrStdout()
	for _, test := range manifest {
		fmt.Fprintf(out, "%-20s %s\n", test.Name, test.Description)
	}
	return nil
}
