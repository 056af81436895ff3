// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package config implements the "fwts config" subcommand: it prints the
// effective run configuration, merging a YAML file with CLI overrides,
// without running any tests.
package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"fwts-go/internal/runconfig"
)

var (
	flagConfigPath  string
	flagMinSeverity string
	flagIgnoreTags  []string
	flagSuppressIf  string
	flagFormats     []string
	flagMetricsAddr string
	flagSources     []string
	flagDumpFile    string
)

// Cmd is the "config" subcommand.
var Cmd = &cobra.Command{
	Use:     "config",
	Short:   "show the effective run configuration",
	GroupID: "primary",
	RunE:    run,
}

func init() {
	Cmd.Flags().StringVar(&flagConfigPath, "config", "", "path to a YAML run configuration file")
	Cmd.Flags().StringVar(&flagMinSeverity, "min-severity", "", "minimum severity to report (Low|Medium|High|Critical)")
	Cmd.Flags().StringArrayVar(&flagIgnoreTags, "ignore-tag", nil, "stable finding tag to suppress (repeatable)")
	Cmd.Flags().StringVar(&flagSuppressIf, "suppress-if", "", "govaluate expression suppressing matching findings")
	Cmd.Flags().StringArrayVar(&flagFormats, "format", nil, "report format: text, json, xlsx, prometheus (repeatable)")
	Cmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "listen address for the prometheus format")
	Cmd.Flags().StringArrayVar(&flagSources, "source", nil, "table source: sysfs, devmem, dumpfile, fixup (repeatable)")
	Cmd.Flags().StringVar(&flagDumpFile, "dump-file", "", "acpidump-style text file to read tables from")
}

func run(cmd *cobra.Command, args []string) error {
	fileCfg, err := runconfig.Load(flagConfigPath)
	if err != nil {
		return err
	}
	cfg := fileCfg.Apply(runconfig.Override{
		MinSeverity: flagMinSeverity,
		IgnoreTags:  flagIgnoreTags,
		SuppressIf:  flagSuppressIf,
		Sources:     flagSources,
		Formats:     flagFormats,
		MetricsAddr: flagMetricsAddr,
		DumpFile:    flagDumpFile,
	})

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling effective config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}
