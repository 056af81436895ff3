// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package cmd provides the command line interface for the application.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"log/syslog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"fwts-go/cmd/config"
	"fwts-go/cmd/dump"
	"fwts-go/cmd/list"
	"fwts-go/cmd/test"
	"fwts-go/internal/appctx"
)

// AppName is the binary's command name.
const AppName = "fwts"

var gVersion = "9.9.9" // overwritten by ldflags at build time
var gLogFile *os.File

var examples = []string{
	fmt.Sprintf("  Run every applicable test in batch mode:        $ %s test", AppName),
	fmt.Sprintf("  Run only the ACPI tests:                        $ %s test --acpi", AppName),
	fmt.Sprintf("  Run in SBBR compliance mode:                    $ %s test --sbbr", AppName),
	fmt.Sprintf("  List every registered test:                     $ %s list", AppName),
	fmt.Sprintf("  Dump the tables the run would load:             $ %s dump", AppName),
}

var rootCmd = &cobra.Command{
	Use:                AppName,
	Short:              AppName,
	Long:               "fwts inspects platform firmware tables (ACPI, SMBIOS/DMI, TPM event logs) and reports specification compliance defects.",
	Example:            strings.Join(examples, "\n"),
	PersistentPreRunE:  initializeApplication,
	PersistentPostRunE: terminateApplication,
	Version:            gVersion,
}

var (
	flagDebug     bool
	flagSyslog    bool
	flagLogStdOut bool
	flagOutputDir string
)

func init() {
	rootCmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command] [flags]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

Available Commands:{{range $cmds}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{else}}{{range $group := .Groups}}

{{.Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}
`)
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.AddGroup(&cobra.Group{ID: "primary", Title: "Commands:"})
	rootCmd.AddCommand(test.Cmd)
	rootCmd.AddCommand(list.Cmd)
	rootCmd.AddCommand(dump.Cmd)
	rootCmd.AddCommand(config.Cmd)

	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging and retain temporary directories")
	rootCmd.PersistentFlags().BoolVar(&flagSyslog, "syslog", false, "write logs to syslog instead of a file")
	rootCmd.PersistentFlags().BoolVar(&flagLogStdOut, "log-stdout", false, "write logs to stdout")
	rootCmd.PersistentFlags().StringVar(&flagOutputDir, "output-dir", "", "override the output directory")
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It is called by main.main() and should only run once.
func Execute() {
	cobra.EnableCommandSorting = false
	cobra.EnableCaseInsensitive = true
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initializeApplication(cmd *cobra.Command, args []string) error {
	timestamp := time.Now().Local().Format("2006-01-02_15-04-05")

	outputDir := flagOutputDir
	if outputDir == "" {
		outputDir = AppName + "_" + timestamp
	}
	absOutputDir, err := filepath.Abs(outputDir)
	if err != nil {
		return fmt.Errorf("failed to resolve output dir: %w", err)
	}

	var logOpts slog.HandlerOptions
	if flagDebug {
		logOpts.Level = slog.LevelDebug
		logOpts.AddSource = true
	} else {
		logOpts.Level = slog.LevelInfo
	}

	switch {
	case flagSyslog && flagLogStdOut:
		return fmt.Errorf("both --syslog and --log-stdout specified, pick one")
	case flagSyslog:
		handler, err := NewSyslogHandler(&logOpts)
		if err != nil {
			return fmt.Errorf("failed to create syslog handler: %w", err)
		}
		slog.SetDefault(slog.New(handler))
	case flagLogStdOut:
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &logOpts)))
	default:
		gLogFile, err = os.OpenFile(AppName+".log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644) // #nosec G302
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(gLogFile, &logOpts)))
	}

	slog.Info("starting up", slog.String("app", AppName), slog.String("version", gVersion), slog.Int("pid", os.Getpid()), slog.String("arguments", strings.Join(os.Args, " ")))

	localTempDir, err := os.MkdirTemp(os.TempDir(), fmt.Sprintf("%s.tmp.", AppName))
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}

	var logFilePath string
	if gLogFile != nil {
		logFilePath = gLogFile.Name()
	}

	ac := appctx.Context{
		Timestamp:    timestamp,
		OutputDir:    absOutputDir,
		LocalTempDir: localTempDir,
		LogFilePath:  logFilePath,
		Debug:        flagDebug,
	}
	cmd.SetContext(context.WithValue(context.Background(), appctx.Key{}, ac))

	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChannel
		slog.Info("received signal", slog.String("signal", sig.String()))
		test.ActiveCancel.RequestCancel()
	}()

	return nil
}

func terminateApplication(cmd *cobra.Command, args []string) error {
	ctxValue := cmd.Context().Value(appctx.Key{})
	ac, ok := ctxValue.(appctx.Context)
	if !ok {
		return nil
	}
	if ac.LocalTempDir != "" && !flagDebug {
		if err := os.RemoveAll(ac.LocalTempDir); err != nil {
			slog.Error("error cleaning up temp directory", slog.String("tempDir", ac.LocalTempDir), slog.String("error", err.Error()))
		}
	}
	slog.Info("shutting down", slog.String("app", AppName), slog.String("version", gVersion), slog.Int("pid", os.Getpid()))
	if gLogFile != nil {
		if err := gLogFile.Close(); err != nil {
			slog.Error("error closing log file", slog.String("error", err.Error()))
			return err
		}
	}
	return nil
}

// SyslogHandler is a slog.Handler that logs to syslog.
type SyslogHandler struct {
	writer     *syslog.Writer
	logLeveler slog.Leveler
	addSource  bool
}

func NewSyslogHandler(logOpts *slog.HandlerOptions) (*SyslogHandler, error) {
	writer, err := syslog.New(syslog.LOG_INFO|syslog.LOG_USER, filepath.Base(os.Args[0]))
	if err != nil {
		return nil, err
	}
	return &SyslogHandler{writer: writer, logLeveler: logOpts.Level, addSource: logOpts.AddSource}, nil
}

func (h *SyslogHandler) Handle(ctx context.Context, r slog.Record) error {
	var msg string
	if r.PC != 0 && h.addSource {
		fs := runtime.CallersFrames([]uintptr{r.PC})
		f, _ := fs.Next()
		msg = fmt.Sprintf("level=%s source=%s:%d msg=%q", r.Level.String(), f.File, f.Line, r.Message)
	} else {
		msg = fmt.Sprintf("level=%s msg=%q", r.Level.String(), r.Message)
	}
	r.Attrs(func(attr slog.Attr) bool {
		msg += fmt.Sprintf(" %s=%q", attr.Key, attr.Value)
		return true
	})
	switch r.Level {
	case slog.LevelDebug:
		return h.writer.Debug(msg)
	case slog.LevelInfo:
		return h.writer.Info(msg)
	case slog.LevelWarn:
		return h.writer.Warning(msg)
	case slog.LevelError:
		return h.writer.Err(msg)
	default:
		return h.writer.Info(msg)
	}
}

func (h *SyslogHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return h }
func (h *SyslogHandler) WithGroup(name string) slog.Handler       { return h }
func (h *SyslogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.logLeveler.Level()
}
