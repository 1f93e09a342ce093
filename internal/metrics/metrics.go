// SPDX-License-Identifier: AGPL-3.0-or-later
// MIP - bulk IPM file transfer bridge to a Mastercard Interface Processor
// Copyright (C) 2026 Diego Noriega Vela
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// Package metrics exposes Prometheus counters and histograms for the
// protocol dialogue: frames transferred, bytes moved, sequence-scan
// retries, and dialogue duration.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the HTTP handler that serves the default registry in
// the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics holds the registered collectors for one process. Callers that
// never construct a Metrics (e.g. one-shot encode/decode invocations)
// simply never touch the protocol dialogue's instrumentation path.
type Metrics struct {
	FramesTotal         *prometheus.CounterVec
	BytesTotal          *prometheus.CounterVec
	SequenceScanRetries prometheus.Counter
	DialogueDuration    *prometheus.HistogramVec
}

// New constructs and registers a Metrics against the default Prometheus
// registry. Call once per process; use NewWithRegisterer in tests to
// avoid duplicate-collector panics across test functions.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer constructs a Metrics and registers its collectors
// against reg, so callers that need an isolated registry (tests, or a
// process embedding this package alongside other instrumented code) can
// avoid colliding with the global default registry.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FramesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mip_frames_total",
			Help: "The total number of protocol frames sent or received",
		}, []string{"direction", "code"}),
		BytesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mip_bytes_total",
			Help: "The total number of data-record payload bytes sent or received",
		}, []string{"direction"}),
		SequenceScanRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mip_sequence_scan_retries_total",
			Help: "The total number of sequence numbers skipped during a receive scan",
		}),
		DialogueDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mip_dialogue_duration_seconds",
			Help:    "Duration of a complete send or receive dialogue",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	m.register(reg)
	return m
}

func (m *Metrics) register(reg prometheus.Registerer) {
	reg.MustRegister(m.FramesTotal)
	reg.MustRegister(m.BytesTotal)
	reg.MustRegister(m.SequenceScanRetries)
	reg.MustRegister(m.DialogueDuration)
}

// RecordFrame increments the frame counter for one direction ("send" or
// "recv") and protocol code (e.g. "004", "998", "data").
func (m *Metrics) RecordFrame(direction, code string, payloadBytes int) {
	if m == nil {
		return
	}
	m.FramesTotal.WithLabelValues(direction, code).Inc()
	if payloadBytes > 0 {
		m.BytesTotal.WithLabelValues(direction).Add(float64(payloadBytes))
	}
}

// RecordSequenceRetry increments the scan-retry counter once per SS
// skipped before a 004 header is found.
func (m *Metrics) RecordSequenceRetry() {
	if m == nil {
		return
	}
	m.SequenceScanRetries.Inc()
}

// ObserveDialogue records the wall-clock duration of one send or receive
// dialogue, labeled by operation ("send" or "receive").
func (m *Metrics) ObserveDialogue(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.DialogueDuration.WithLabelValues(operation).Observe(seconds)
}
