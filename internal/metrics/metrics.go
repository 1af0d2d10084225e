// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

// Package metrics holds the Prometheus collectors for RecoService.
//
// Collectors are registered on the default registry through promauto and are
// exposed by the API router on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
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
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecoResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reco_resolutions_total",
			Help: "Total number of resolved recommendation requests",
		},
		[]string{"model", "segment"}, // segment: "known", "cold"
	)

	RecoBackfilledItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reco_backfilled_items_total",
			Help: "Total number of items filled from the popularity pool for known users",
		},
		[]string{"model"},
	)

	RecoRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reco_rejected_total",
			Help: "Total number of recommendation requests rejected before resolution",
		},
		[]string{"reason"}, // "user_out_of_range", "model_disabled", "misconfigured"
	)

	RecoResolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reco_resolve_duration_seconds",
			Help:    "Time spent resolving one recommendation list",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
		[]string{"model"},
	)

	// Model Source Metrics
	SourceUsers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reco_source_users",
			Help: "Number of users covered by a loaded model source",
		},
		[]string{"model", "kind"},
	)

	SourceLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reco_source_load_duration_seconds",
			Help:    "Time spent loading a model source at startup",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		},
		[]string{"format"},
	)

	SourceLoadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reco_source_load_errors_total",
			Help: "Total number of failed model source loads",
		},
		[]string{"format"},
	)

	PopularityPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reco_popularity_pool_size",
			Help: "Number of items in the popularity fallback pool",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Authentication Metrics
	AuthLoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"}, // "success", "invalid", "throttled", "malformed"
	)

	AuthTokenRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_rejections_total",
			Help: "Total number of requests rejected for a missing or invalid bearer token",
		},
		[]string{"reason"}, // "missing", "invalid"
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordResolution records one served recommendation list.
func RecordResolution(model, segment string, backfilled int, duration time.Duration) {
	RecoResolutionsTotal.WithLabelValues(model, segment).Inc()
	if backfilled > 0 {
		RecoBackfilledItems.WithLabelValues(model).Add(float64(backfilled))
	}
	RecoResolveDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// RecordRejection records a request that failed before a list was produced.
func RecordRejection(reason string) {
	RecoRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordSourceLoad records the outcome of loading one model source.
func RecordSourceLoad(model, kind, format string, users int, duration time.Duration, err error) {
	SourceLoadDuration.WithLabelValues(format).Observe(duration.Seconds())
	if err != nil {
		SourceLoadErrors.WithLabelValues(format).Inc()
		return
	}
	SourceUsers.WithLabelValues(model, kind).Set(float64(users))
}

// SetPopularityPoolSize records the size of the fallback pool.
func SetPopularityPoolSize(n int) {
	PopularityPoolSize.Set(float64(n))
}

// RecordCircuitBreakerTransition records a breaker state change.
// State names follow gobreaker: "closed", "half-open", "open".
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// RecordLoginAttempt counts a login attempt by result.
func RecordLoginAttempt(result string) {
	AuthLoginAttempts.WithLabelValues(result).Inc()
}

// RecordTokenRejection counts a rejected bearer token by reason.
func RecordTokenRejection(reason string) {
	AuthTokenRejections.WithLabelValues(reason).Inc()
}
