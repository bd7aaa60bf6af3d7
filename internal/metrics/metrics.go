// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package metrics exposes Prometheus collectors for Marquee.
//
// Collectors are registered with the default registry through promauto and
// served by promhttp on /metrics. Callers use the Record* helpers rather than
// touching label values directly so that label sets stay consistent.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Model Build Metrics
	ModelBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marquee_model_build_duration_seconds",
			Help:    "Duration of model build stages in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"stage"}, // "load", "features", "vectorize", "similarity", "total"
	)

	ModelBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_model_builds_total",
			Help: "Total number of model builds by outcome",
		},
		[]string{"result"}, // "success", "failure"
	)

	ModelMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marquee_model_movies",
			Help: "Number of movies in the active model snapshot",
		},
	)

	ModelVocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marquee_model_vocabulary_size",
			Help: "Number of vocabulary terms in the active model snapshot",
		},
	)

	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marquee_model_version",
			Help: "Version counter of the active model snapshot",
		},
	)

	// Catalog Metrics
	CatalogRecordsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_catalog_records_dropped_total",
			Help: "Total number of catalog records dropped during normalization",
		},
		[]string{"source", "reason"},
	)

	CatalogPageFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_catalog_page_fetches_total",
			Help: "Total number of metadata provider page fetches",
		},
		[]string{"result"}, // "success", "failure"
	)

	// Metadata Provider Client Metrics
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marquee_provider_request_duration_seconds",
			Help:    "Duration of metadata provider HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	ProviderRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_provider_rate_limited_total",
			Help: "Total number of HTTP 429 responses received from the metadata provider",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "marquee_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Poster Metrics
	PosterLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_poster_lookups_total",
			Help: "Total number of poster resolutions by outcome",
		},
		[]string{"result"}, // "inline", "fetched", "cached", "placeholder", "error"
	)

	PosterCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_poster_cache_hits_total",
			Help: "Total number of poster cache hits",
		},
	)

	PosterCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_poster_cache_misses_total",
			Help: "Total number of poster cache misses",
		},
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_recommendation_requests_total",
			Help: "Total number of recommendation queries by outcome",
		},
		[]string{"result"}, // "ok", "empty", "not_found", "error", "cached"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "marquee_recommendation_duration_seconds",
			Help:    "Latency of recommendation queries in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marquee_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// RecordModelStage records the duration of one model build stage.
func RecordModelStage(stage string, duration time.Duration) {
	ModelBuildDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordModelBuild records the outcome of a full model build and, on
// success, publishes the gauges describing the new snapshot.
func RecordModelBuild(err error, movies, vocabulary int, version uint64) {
	if err != nil {
		ModelBuildsTotal.WithLabelValues("failure").Inc()
		return
	}
	ModelBuildsTotal.WithLabelValues("success").Inc()
	ModelMovies.Set(float64(movies))
	ModelVocabularySize.Set(float64(vocabulary))
	ModelVersion.Set(float64(version))
}

// RecordDroppedRecords adds the per-reason drop counts of one load.
func RecordDroppedRecords(source string, reasons map[string]int) {
	for reason, n := range reasons {
		CatalogRecordsDropped.WithLabelValues(source, reason).Add(float64(n))
	}
}

// RecordPageFetch records one metadata provider page fetch.
func RecordPageFetch(err error) {
	if err != nil {
		CatalogPageFetches.WithLabelValues("failure").Inc()
		return
	}
	CatalogPageFetches.WithLabelValues("success").Inc()
}

// RecordProviderRequest records the latency of a provider request.
func RecordProviderRequest(endpoint string, duration time.Duration) {
	ProviderRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordPosterLookup records how a poster URL was resolved.
func RecordPosterLookup(result string) {
	PosterLookups.WithLabelValues(result).Inc()
}

// RecordRecommendation records the outcome and latency of one query.
func RecordRecommendation(result string, duration time.Duration) {
	RecommendationRequests.WithLabelValues(result).Inc()
	RecommendationDuration.Observe(duration.Seconds())
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
