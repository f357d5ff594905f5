package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wb_api_requests_total",
			Help: "Number of API requests",
		},
		[]string{"method", "path", "status"},
	)
	APILatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wb_api_latency_seconds",
			Help:    "API latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wb_cache_hits_total",
			Help: "Fetch cache hits",
		},
	)
	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wb_cache_misses_total",
			Help: "Fetch cache misses",
		},
	)
	UpstreamFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wb_upstream_fetches_total",
			Help: "Outbound API fetches by host and outcome",
		},
		[]string{"host", "outcome"},
	)
	WidgetErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wb_widget_errors_total",
			Help: "Widget invocations degraded to a placeholder",
		},
		[]string{"widget", "op"},
	)
	DashboardBuilds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wb_dashboard_build_seconds",
			Help:    "Latency of full dashboard aggregation",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		APIRequests,
		APILatency,
		CacheHits,
		CacheMisses,
		UpstreamFetches,
		WidgetErrors,
		DashboardBuilds,
	)
}
