// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRequest("crossref", "ok", time.Now())
	m.ObserveRequest("crossref", "ok", time.Now())
	m.ObserveCache("crossref", true)
	m.ObserveCache("crossref", false)
	m.ObserveResolution("RESOLVED")
	m.ObserveFix(2, 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("crossref", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("crossref", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("crossref", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("RESOLVED")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FixActions.WithLabelValues("applied")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.FixActions.WithLabelValues("suggested")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("s2", "error", time.Now())
		m.ObserveCache("s2", false)
		m.ObserveResolution("NOT_FOUND")
		m.ObserveFix(1, 1)
	})
}
