// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics exposes Prometheus counters for provider traffic, cache
// efficiency, resolution outcomes and fix actions. A nil *Metrics is valid
// and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the bibcheck collectors.
type Metrics struct {
	ProviderRequests *prometheus.CounterVec
	ProviderDuration *prometheus.HistogramVec
	CacheLookups     *prometheus.CounterVec
	Resolutions      *prometheus.CounterVec
	FixActions       *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ProviderRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bibcheck_provider_requests_total",
			Help: "Provider HTTP requests by source and outcome (ok, not_found, error)",
		}, []string{"source", "outcome"}),
		ProviderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bibcheck_provider_request_duration_seconds",
			Help:    "Duration of provider HTTP requests including retries",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bibcheck_cache_lookups_total",
			Help: "Response cache lookups by source and result (hit, miss)",
		}, []string{"source", "result"}),
		Resolutions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bibcheck_resolutions_total",
			Help: "Entry resolution outcomes by status",
		}, []string{"status"}),
		FixActions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bibcheck_fix_actions_total",
			Help: "Fix actions by disposition (applied, suggested)",
		}, []string{"disposition"}),
	}
}

// ObserveRequest records one provider request. Call with time.Now() taken
// before the request.
func (m *Metrics) ObserveRequest(source, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(source, outcome).Inc()
	m.ProviderDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
}

// ObserveCache records a cache hit or miss.
func (m *Metrics) ObserveCache(source string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(source, result).Inc()
}

// ObserveResolution records the outcome of one entry.
func (m *Metrics) ObserveResolution(status string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(status).Inc()
}

// ObserveFix records applied and suggested action counts.
func (m *Metrics) ObserveFix(applied, suggested int) {
	if m == nil {
		return
	}
	m.FixActions.WithLabelValues("applied").Add(float64(applied))
	m.FixActions.WithLabelValues("suggested").Add(float64(suggested))
}
