// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

// Package metrics defines the Prometheus instrumentation for the service.
//
// Metrics are registered on the default registry at init via promauto and
// exposed by the API on /metrics.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/neighborly/internal/recommend"
)

var (
	// Scoring Metrics
	ScoreRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neighborly_score_requests_total",
			Help: "Total number of scoring requests by outcome",
		},
		[]string{"status"}, // "ok", "collaborator_error", "timeout", "canceled", "invalid", "error"
	)

	ScoreDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "neighborly_score_duration_seconds",
			Help:    "Duration of scoring requests in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	ItemsScoredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "neighborly_items_scored_total",
			Help: "Total number of item predictions produced",
		},
	)

	FallbackScoresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "neighborly_fallback_scores_total",
			Help: "Predictions that fell back to the user mean",
		},
	)

	NeighborsPerItem = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "neighborly_neighbors_per_item",
			Help:    "Number of neighbors selected for an item",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 30, 50, 100, 250, 500},
		},
	)

	// History Cache Metrics
	HistoryCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "neighborly_history_cache_hits_total",
			Help: "Total number of rating history cache hits",
		},
	)

	HistoryCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "neighborly_history_cache_misses_total",
			Help: "Total number of rating history cache misses",
		},
	)

	HistoryCacheErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "neighborly_history_cache_errors_total",
			Help: "Cache backend errors that fell through to the store",
		},
	)

	// Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neighborly_store_operation_duration_seconds",
			Help:    "Duration of ratings store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neighborly_store_operation_errors_total",
			Help: "Total number of failed ratings store operations",
		},
		[]string{"backend", "operation"},
	)

	RatingsImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "neighborly_ratings_imported_total",
			Help: "Total number of ratings written by the importer",
		},
	)

	// Circuit Breaker Metrics
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "neighborly_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	BreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neighborly_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// API Metrics
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
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)
)

// Score outcome labels.
const (
	StatusOK           = "ok"
	StatusCollaborator = "collaborator_error"
	StatusTimeout      = "timeout"
	StatusCanceled     = "canceled"
	StatusInvalid      = "invalid"
	StatusError        = "error"
)

// ScoreStatus classifies a scoring error into a status label.
func ScoreStatus(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, recommend.ErrCollaborator):
		return StatusCollaborator
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	case errors.Is(err, context.Canceled):
		return StatusCanceled
	case errors.Is(err, recommend.ErrTooManyItems), errors.Is(err, recommend.ErrInvalidNeighborhood):
		return StatusInvalid
	default:
		return StatusError
	}
}

// RecordStoreOperation records a ratings store call.
func RecordStoreOperation(backend, operation string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	if err != nil {
		StoreOperationErrors.WithLabelValues(backend, operation).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordBreakerTransition records a circuit breaker state change. States
// are gobreaker state names.
func RecordBreakerTransition(name, from, to string) {
	BreakerTransitions.WithLabelValues(name, from, to).Inc()
	BreakerState.WithLabelValues(name).Set(breakerStateValue(to))
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

// ScoreRecorder implements recommend.MetricsRecorder on the package metrics.
type ScoreRecorder struct{}

// ObserveScore records one scoring request.
func (ScoreRecorder) ObserveScore(duration time.Duration, items, fallbacks int, err error) {
	ScoreRequestsTotal.WithLabelValues(ScoreStatus(err)).Inc()
	ScoreDuration.Observe(duration.Seconds())
	if err == nil {
		ItemsScoredTotal.Add(float64(items))
		FallbackScoresTotal.Add(float64(fallbacks))
	}
}

// ObserveNeighbors records the size of one selected neighborhood.
func (ScoreRecorder) ObserveNeighbors(count int) {
	NeighborsPerItem.Observe(float64(count))
}

var _ recommend.MetricsRecorder = ScoreRecorder{}
