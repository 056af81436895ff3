// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package sink

import (
	"io"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fwts-go/internal/finding"
)

// PrometheusSink exposes live per-severity finding counters on an HTTP
// /metrics endpoint, for long-running fleet scrape jobs rather than a
// one-shot report. RenderSummary is a no-op: the metrics are the report.
type PrometheusSink struct {
	base

	findingsTotal *prometheus.CounterVec
	registry      *prometheus.Registry
	server        *http.Server
}

// NewPrometheusSink registers the counters and starts an HTTP listener on
// addr serving /metrics. Call Close to shut the listener down.
func NewPrometheusSink(addr string) (*PrometheusSink, error) {
	registry := prometheus.NewRegistry()
	findingsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fwts",
		Name:      "findings_total",
		Help:      "Total findings emitted, labeled by test, kind and severity.",
	}, []string{"test", "kind", "severity"})
	registry.MustRegister(findingsTotal)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux}

	s := &PrometheusSink{
		base:          newBase(),
		findingsTotal: findingsTotal,
		registry:      registry,
		server:        server,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	go func() {
		_ = server.Serve(ln)
	}()
	return s, nil
}

func (s *PrometheusSink) Emit(f finding.Finding) {
	if !s.accept(f) {
		return
	}
	s.findingsTotal.WithLabelValues(f.TestName, f.Kind.String(), f.Severity.String()).Inc()
}

// RenderSummary is a no-op; metrics are scraped live, not rendered at run end.
func (s *PrometheusSink) RenderSummary(out io.Writer) error {
	return nil
}

// Close stops the metrics HTTP server.
func (s *PrometheusSink) Close() error {
	return s.server.Close()
}
