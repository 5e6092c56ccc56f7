// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts API requests by method, path and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitegauge_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes API latency by method, path and status.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sitegauge_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// ScansTotal counts scan outcomes. result is "ok", "cache_hit" or
	// "error"; error_type carries the stable error code, empty on success.
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitegauge_scans_total",
			Help: "Total number of scan attempts by outcome.",
		},
		[]string{"result", "error_type"},
	)

	// ScanDuration observes end-to-end scan pipeline latency.
	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sitegauge_scan_duration_seconds",
			Help:    "Duration of full scan pipeline runs.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// CacheEntries tracks the current response cache size.
	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sitegauge_cache_entries",
			Help: "Current number of cached scan results.",
		},
	)
)
