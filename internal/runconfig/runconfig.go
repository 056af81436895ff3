// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

/*
Package runconfig loads the YAML run configuration described in
SPEC_FULL.md's AMBIENT STACK section: severity threshold, ignored stable
tags, an optional suppress_if expression, enabled loader sources, report
formats and an optional metrics listen address. CLI flags take precedence
over whatever the file sets, mirroring the teacher's targets.yaml
override pattern.
*/
package runconfig

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"fwts-go/internal/finding"
)

// RunConfig is the parsed shape of the YAML run configuration file.
type RunConfig struct {
	MinSeverity string   `yaml:"min_severity"`
	IgnoreTags  []string `yaml:"ignore_tags"`
	SuppressIf  string   `yaml:"suppress_if"`
	Sources     []string `yaml:"sources"`
	Formats     []string `yaml:"formats"`
	MetricsAddr string   `yaml:"metrics_addr"`
	DumpFile    string   `yaml:"dump_file"`
}

// Load reads and parses a RunConfig from path. A missing file is not an
// error: callers get the zero-value config, equivalent to "use defaults."
func Load(path string) (RunConfig, error) {
	var cfg RunConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "reading run config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing run config %s", path)
	}
	return cfg, nil
}

// Severity parses MinSeverity, defaulting to SeverityNone (report
// everything) when unset or unparseable.
func (c RunConfig) Severity() finding.Severity {
	sev, err := finding.ParseSeverity(c.MinSeverity)
	if err != nil {
		return finding.SeverityNone
	}
	return sev
}

// Override applies non-zero-value CLI flags on top of a file-loaded
// RunConfig, per the file's "CLI flags win" precedence rule.
type Override struct {
	MinSeverity string
	IgnoreTags  []string
	SuppressIf  string
	Sources     []string
	Formats     []string
	MetricsAddr string
	DumpFile    string
}

// Apply merges o into cfg, returning the effective configuration. Scalar
// overrides replace only when non-empty; IgnoreTags overrides append to the
// file's list, while Sources and Formats overrides replace it when non-empty.
func (cfg RunConfig) Apply(o Override) RunConfig {
	out := cfg
	if o.MinSeverity != "" {
		out.MinSeverity = o.MinSeverity
	}
	if o.SuppressIf != "" {
		out.SuppressIf = o.SuppressIf
	}
	if o.MetricsAddr != "" {
		out.MetricsAddr = o.MetricsAddr
	}
	if o.DumpFile != "" {
		out.DumpFile = o.DumpFile
	}
	out.IgnoreTags = append(append([]string{}, out.IgnoreTags...), o.IgnoreTags...)
	if len(o.Sources) > 0 {
		out.Sources = o.Sources
	}
	if len(o.Formats) > 0 {
		out.Formats = o.Formats
	}
	return out
}
