package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Workday lookup outcomes.
const (
	OutcomeCache    = "cache"
	OutcomeRemote   = "remote"
	OutcomeFallback = "fallback"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// WorkdayLookups counts day-pair lookups by where the answer came from.
	WorkdayLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "workday_lookups_total", Help: "Workday lookups by outcome (cache, remote, fallback)."},
		[]string{"outcome"},
	)
	// RemoteLatency tracks workday service round trips.
	RemoteLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "workday_remote_latency_seconds", Help: "Workday service latency in seconds.", Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}},
		[]string{"result"},
	)

	// OverdueStages counts overdue stage decisions by stage.
	OverdueStages = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "repair_overdue_stages_total", Help: "Stages flagged overdue."},
		[]string{"stage"},
	)
)

var regOnce sync.Once

// RegisterDefault registers the collectors on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(WorkdayLookups)
		Registry.MustRegister(RemoteLatency)
		Registry.MustRegister(OverdueStages)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
