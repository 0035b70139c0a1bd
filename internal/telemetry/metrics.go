// Package telemetry exposes the service's Prometheus metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the service registers. One instance is
// shared between the API server and the pipeline wiring.
type Metrics struct {
	RequestDuration   *prometheus.HistogramVec
	AutomationRuns    *prometheus.CounterVec
	ToolsDiscovered   prometheus.Counter
	Classifications   *prometheus.CounterVec
	AnalyticsEvents   *prometheus.CounterVec
	DegradedModeGauge prometheus.Gauge
}

// New registers all collectors on the given registerer (nil means the
// default registry).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "toolscout",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),

		AutomationRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "toolscout",
			Name:      "automation_runs_total",
			Help:      "Automation runs by type and final status.",
		}, []string{"type", "status"}),

		ToolsDiscovered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "toolscout",
			Name:      "tools_discovered_total",
			Help:      "New tools inserted by the discovery pipeline.",
		}),

		Classifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "toolscout",
			Name:      "classifications_total",
			Help:      "Classifications by source (provider name or fallback).",
		}, []string{"source"}),

		AnalyticsEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "toolscout",
			Name:      "analytics_events_total",
			Help:      "Recorded view/click events by type.",
		}, []string{"type"}),

		DegradedModeGauge: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "toolscout",
			Name:      "degraded_mode",
			Help:      "1 when serving bundled sample data without a database.",
		}),
	}
}
