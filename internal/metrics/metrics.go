// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Chunk fetch and decode metrics
	ChunksFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_chunks_fetched_total",
			Help: "Total number of catalog chunk fetches",
		},
		[]string{"result"}, // "success", "failure", "rejected"
	)

	ChunkFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_chunk_fetch_duration_seconds",
			Help:    "Duration of catalog chunk fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ChunkDecodeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_chunk_decode_errors_total",
			Help: "Total number of chunk payload decode failures",
		},
		[]string{"transport"}, // "obfuscated", "json"
	)

	ChunkCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_chunk_cache_hits_total",
			Help: "Total number of decoded-chunk cache hits",
		},
	)

	ChunkCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_chunk_cache_misses_total",
			Help: "Total number of decoded-chunk cache misses",
		},
	)

	// Scan progress metrics
	EntriesScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_entries_scanned_total",
			Help: "Total number of entries examined by the filter",
		},
	)

	EntriesShown = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_entries_shown_total",
			Help: "Total number of entries accepted by the filter",
		},
	)

	ScanGenerationsDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_scan_generations_discarded_total",
			Help: "Chunk loads discarded because the query changed mid-flight",
		},
	)

	ActiveScanSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_active_scan_sessions",
			Help: "Current number of live browse sessions",
		},
	)

	// Recommendation metrics
	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_recommend_duration_seconds",
			Help:    "Duration of recommendation ordering in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	// Favorites store metrics
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_store_operations_total",
			Help: "Total number of favorites store operations",
		},
		[]string{"operation", "result"}, // operation: "list", "get", "set", "remove"
	)

	// Circuit breaker metrics for the chunk fetcher
	FetchBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_fetch_breaker_state",
			Help: "Chunk fetcher circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)
)

// RecordChunkFetch records one fetch attempt with its outcome.
func RecordChunkFetch(duration time.Duration, result string) {
	ChunksFetched.WithLabelValues(result).Inc()
	if result == "success" {
		ChunkFetchDuration.Observe(duration.Seconds())
	}
}

// RecordScanProgress records one chunk's contribution to the counters.
func RecordScanProgress(scanned, shown int) {
	EntriesScanned.Add(float64(scanned))
	EntriesShown.Add(float64(shown))
}

// RecordStoreOperation records one favorites store call.
func RecordStoreOperation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	StoreOperations.WithLabelValues(operation, result).Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
