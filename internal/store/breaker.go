// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package store

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/neighborly/internal/logging"
	"github.com/tomtom215/neighborly/internal/metrics"
	"github.com/tomtom215/neighborly/internal/recommend"
)

// BreakerConfig configures the circuit breaker around a provider.
type BreakerConfig struct {
	// Name labels logs and the breaker state metric.
	Name string

	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32

	// Interval is the closed-state period after which counts reset.
	// Zero never resets.
	Interval time.Duration

	// Timeout is how long the breaker stays open before half-opening.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that trips
	// the breaker.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns the production defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "ratings",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerProvider guards a DataProvider with a circuit breaker. While the
// breaker is open calls fail immediately with gobreaker.ErrOpenState, which
// the scorer reports as a collaborator failure. Calls are never retried.
type BreakerProvider struct {
	next recommend.DataProvider
	cb   *gobreaker.CircuitBreaker[any]
}

var _ recommend.DataProvider = (*BreakerProvider)(nil)

// WithBreaker wraps provider in a circuit breaker.
func WithBreaker(provider recommend.DataProvider, cfg BreakerConfig) *BreakerProvider {
	if cfg.Name == "" {
		cfg.Name = "ratings"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 1
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// Cancellations and deadlines belong to the caller, not the backend.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
			metrics.RecordBreakerTransition(name, from.String(), to.String())
		},
	}

	metrics.BreakerState.WithLabelValues(cfg.Name).Set(0)
	return &BreakerProvider{
		next: provider,
		cb:   gobreaker.NewCircuitBreaker[any](settings),
	}
}

// State returns the breaker state name: closed, half-open or open.
func (b *BreakerProvider) State() string {
	return b.cb.State().String()
}

// Counts returns the breaker's current counters.
func (b *BreakerProvider) Counts() gobreaker.Counts {
	return b.cb.Counts()
}

// GetRatingHistory calls the wrapped provider through the breaker.
func (b *BreakerProvider) GetRatingHistory(ctx context.Context, userID int64) ([]recommend.Rating, error) {
	out, err := b.cb.Execute(func() (any, error) {
		return b.next.GetRatingHistory(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	history, _ := out.([]recommend.Rating)
	return history, nil
}

// AllUserIDs calls the wrapped provider through the breaker.
func (b *BreakerProvider) AllUserIDs(ctx context.Context) ([]int64, error) {
	out, err := b.cb.Execute(func() (any, error) {
		return b.next.AllUserIDs(ctx)
	})
	if err != nil {
		return nil, err
	}
	ids, _ := out.([]int64)
	return ids, nil
}
