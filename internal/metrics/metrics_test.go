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

package metrics_test

import (
	"testing"

	"github.com/DiegoNoriegaVela/MIP/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFrameIncrementsCounters(t *testing.T) {
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())

	m.RecordFrame("send", "004", 0)
	m.RecordFrame("send", "data", 1015)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.FramesTotal.WithLabelValues("send", "004")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.FramesTotal.WithLabelValues("send", "data")))
	assert.Equal(t, float64(1015), testutil.ToFloat64(m.BytesTotal.WithLabelValues("send")))
}

func TestRecordSequenceRetry(t *testing.T) {
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	m.RecordSequenceRetry()
	m.RecordSequenceRetry()
	assert.Equal(t, float64(2), testutil.ToFloat64(m.SequenceScanRetries))
}

func TestNilMetricsMethodsAreNoOps(t *testing.T) {
	var m *metrics.Metrics
	require.NotPanics(t, func() {
		m.RecordFrame("send", "004", 10)
		m.RecordSequenceRetry()
		m.ObserveDialogue("send", 1.5)
	})
}
