// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

/*
Package test implements the "fwts test" subcommand: it assembles the
firmware table registry from the selected sources, builds the combined
test manifest, wires a sink for the selected report formats, and runs the
harness.
*/
package test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fwts-go/internal/acpi"
	"fwts-go/internal/appctx"
	"fwts-go/internal/fwsource"
	"fwts-go/internal/harness"
	"fwts-go/internal/progress"
	"fwts-go/internal/runconfig"
	"fwts-go/internal/sink"
	"fwts-go/internal/smbios"
	"fwts-go/internal/tpmlog"
)

// ActiveCancel is the cancellation token for whatever run is currently in
// flight. The root command's signal handler calls RequestCancel on it;
// between runs it is simply never triggered.
var ActiveCancel = &harness.CancellationToken{}

var (
	flagAcpi        bool
	flagSmbios      bool
	flagTpm         bool
	flagSbbr        bool
	flagEbbr        bool
	flagUefi        bool
	flagMinSeverity string
	flagIgnoreTags  []string
	flagSuppressIf  string
	flagFormats     []string
	flagMetricsAddr string
	flagSources     []string
	flagDumpFile    string
	flagConfigPath  string
)

// Cmd is the "test" subcommand.
var Cmd = &cobra.Command{
	Use:     "test",
	Short:   "run firmware compliance tests",
	GroupID: "primary",
	RunE:    run,
}

func init() {
	Cmd.Flags().BoolVar(&flagAcpi, "acpi", false, "run only the ACPI tests")
	Cmd.Flags().BoolVar(&flagSmbios, "smbios", false, "run only the SMBIOS/DMI tests")
	Cmd.Flags().BoolVar(&flagTpm, "tpm", false, "run only the TPM event log test")
	Cmd.Flags().BoolVar(&flagSbbr, "sbbr", false, "enable SBBR compliance mode tests")
	Cmd.Flags().BoolVar(&flagEbbr, "ebbr", false, "enable EBBR compliance mode tests")
	Cmd.Flags().BoolVar(&flagUefi, "uefi", false, "enable UEFI compliance mode tests")
	Cmd.Flags().StringVar(&flagMinSeverity, "min-severity", "", "minimum severity to report (Low|Medium|High|Critical)")
	Cmd.Flags().StringArrayVar(&flagIgnoreTags, "ignore-tag", nil, "stable finding tag to suppress (repeatable)")
	Cmd.Flags().StringVar(&flagSuppressIf, "suppress-if", "", "govaluate expression suppressing matching findings")
	Cmd.Flags().StringArrayVar(&flagFormats, "format", nil, "report format: text, json, xlsx, prometheus (repeatable)")
	Cmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "listen address for the prometheus format")
	Cmd.Flags().StringArrayVar(&flagSources, "source", nil, "table source: sysfs, devmem, dumpfile, fixup (repeatable)")
	Cmd.Flags().StringVar(&flagDumpFile, "dump-file", "", "acpidump-style text file to read tables from")
	Cmd.Flags().StringVar(&flagConfigPath, "config", "", "path to a YAML run configuration file")
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

	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	manifest := selectManifest()

	reports, err := buildReports(cfg)
	if err != nil {
		return err
	}
	sinks := make([]sink.Sink, 0, len(reports))
	for _, r := range reports {
		sinks = append(sinks, r.sink)
	}
	s := sink.Sink(sinks[0])
	if len(sinks) > 1 {
		s = sink.NewMultiSink(sinks...)
	}
	s.SetMinSeverity(cfg.Severity())
	for _, tag := range cfg.IgnoreTags {
		s.AddIgnoredTag(tag)
	}
	if cfg.SuppressIf != "" {
		if err := s.SetSuppressExpr(cfg.SuppressIf); err != nil {
			return fmt.Errorf("invalid suppress-if expression: %w", err)
		}
	}

	var mode harness.Flags
	if flagSbbr {
		mode |= harness.FlagSbbr
	}
	if flagEbbr {
		mode |= harness.FlagEbbr
	}
	if flagUefi {
		mode |= harness.FlagUefi
	}

	reporter := progress.NewReporter()
	reporter.Start()
	rc := &harness.RunContext{
		Registry: reg,
		Sink:     s,
		Progress: reporter,
		Cancel:   ActiveCancel,
		Mode:     mode,
	}

	acc := harness.Run(manifest, rc)
	reporter.Finish()

	outputDir := contextOutputDir(cmd)
	for _, r := range reports {
		if err := renderReport(r, outputDir, cmd); err != nil {
			return err
		}
	}

	if acc.Failed > 0 || acc.Aborted > 0 {
		os.Exit(1)
	}
	return nil
}

// report pairs a sink with the format name it was built for, so the run's
// summary can be rendered to each format's natural destination afterward.
type report struct {
	format string
	sink   sink.Sink
}

func renderReport(r report, outputDir string, cmd *cobra.Command) error {
	if r.format == "text" {
		return r.sink.RenderSummary(cmd.OutOrStdout())
	}
	if r.format == "prometheus" {
		// The prometheus sink serves /metrics over HTTP; there is nothing
		// further to render to a file.
		return r.sink.RenderSummary(os.Stdout)
	}

	ext := map[string]string{"json": "json", "xlsx": "xlsx"}[r.format]
	path := filepath.Join(outputDir, "fwts-results."+ext)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	f, err := os.Create(path) // #nosec G304
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()
	return r.sink.RenderSummary(f)
}

func buildRegistry(cfg runconfig.RunConfig) (*fwsource.Registry, error) {
	sources := cfg.Sources
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
			if cfg.DumpFile == "" {
				return nil, fmt.Errorf("--source dumpfile requires --dump-file")
			}
			built = append(built, &fwsource.DumpfileSource{Path: cfg.DumpFile})
		case "fixup":
			built = append(built, &fwsource.FixupSource{})
		default:
			return nil, fmt.Errorf("unknown source %q", name)
		}
	}

	reg := fwsource.NewRegistry(built...)
	if err := reg.LoadAll(); err != nil {
		return nil, err
	}
	return reg, nil
}

func selectManifest() harness.Manifest {
	var manifest harness.Manifest
	any := flagAcpi || flagSmbios || flagTpm
	if !any || flagAcpi {
		manifest = append(manifest, acpi.AllTests()...)
	}
	if !any || flagSmbios {
		manifest = append(manifest, smbios.AllTests()...)
	}
	if !any || flagTpm {
		manifest = append(manifest, tpmlog.AllTests()...)
	}
	return manifest
}

func buildReports(cfg runconfig.RunConfig) ([]report, error) {
	formats := cfg.Formats
	if len(formats) == 0 {
		formats = []string{"text"}
	}

	var reports []report
	for _, format := range formats {
		switch format {
		case "text":
			reports = append(reports, report{format, sink.NewTextSink(os.Stdout)})
		case "json":
			reports = append(reports, report{format, sink.NewJSONSink()})
		case "xlsx":
			reports = append(reports, report{format, sink.NewXlsxSink()})
		case "prometheus":
			ps, err := sink.NewPrometheusSink(cfg.MetricsAddr)
			if err != nil {
				return nil, err
			}
			reports = append(reports, report{format, ps})
		default:
			return nil, fmt.Errorf("unknown format %q", format)
		}
	}
	return reports, nil
}

func contextOutputDir(cmd *cobra.Command) string {
	if ac, ok := cmd.Context().Value(appctx.Key{}).(appctx.Context); ok && ac.OutputDir != "" {
		return ac.OutputDir
	}
	return filepath.Join(".", "fwts-out")
}
