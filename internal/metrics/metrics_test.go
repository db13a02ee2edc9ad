// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/neighborly/internal/recommend"
)

func TestScoreStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, StatusOK},
		{"collaborator", fmt.Errorf("predict: %w", &recommend.CollaboratorError{Op: recommend.OpEnumerate, Err: errors.New("x")}), StatusCollaborator},
		{"deadline", fmt.Errorf("predict: %w", context.DeadlineExceeded), StatusTimeout},
		{"canceled", context.Canceled, StatusCanceled},
		{"too many items", fmt.Errorf("%w: 5 > 2", recommend.ErrTooManyItems), StatusInvalid},
		{"other", errors.New("boom"), StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ScoreStatus(tt.err); got != tt.want {
				t.Errorf("ScoreStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScoreRecorder(t *testing.T) {
	okBefore := testutil.ToFloat64(ScoreRequestsTotal.WithLabelValues(StatusOK))
	errBefore := testutil.ToFloat64(ScoreRequestsTotal.WithLabelValues(StatusCollaborator))
	itemsBefore := testutil.ToFloat64(ItemsScoredTotal)
	fallbackBefore := testutil.ToFloat64(FallbackScoresTotal)

	var r ScoreRecorder
	r.ObserveScore(20*time.Millisecond, 4, 1, nil)
	r.ObserveScore(time.Millisecond, 2, 0, &recommend.CollaboratorError{Op: recommend.OpHistory, Err: errors.New("x")})

	if got := testutil.ToFloat64(ScoreRequestsTotal.WithLabelValues(StatusOK)) - okBefore; got != 1 {
		t.Errorf("ok requests delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(ScoreRequestsTotal.WithLabelValues(StatusCollaborator)) - errBefore; got != 1 {
		t.Errorf("collaborator error delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(ItemsScoredTotal) - itemsBefore; got != 4 {
		t.Errorf("items scored delta = %v, want 4", got)
	}
	if got := testutil.ToFloat64(FallbackScoresTotal) - fallbackBefore; got != 1 {
		t.Errorf("fallback delta = %v, want 1", got)
	}
}

func TestRecordStoreOperation(t *testing.T) {
	before := testutil.ToFloat64(StoreOperationErrors.WithLabelValues("duckdb", "history"))

	RecordStoreOperation("duckdb", "history", 3*time.Millisecond, nil)
	RecordStoreOperation("duckdb", "history", 3*time.Millisecond, errors.New("io"))

	if got := testutil.ToFloat64(StoreOperationErrors.WithLabelValues("duckdb", "history")) - before; got != 1 {
		t.Errorf("store errors delta = %v, want 1", got)
	}
}

func TestRecordBreakerTransition(t *testing.T) {
	tests := []struct {
		to   string
		want float64
	}{
		{"open", 2},
		{"half-open", 1},
		{"closed", 0},
	}
	for _, tt := range tests {
		RecordBreakerTransition("ratings", "closed", tt.to)
		if got := testutil.ToFloat64(BreakerState.WithLabelValues("ratings")); got != tt.want {
			t.Errorf("BreakerState after %s = %v, want %v", tt.to, got, tt.want)
		}
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/scores", "200"))
	RecordAPIRequest("POST", "/api/v1/scores", "200", 5*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/scores", "200")) - before; got != 1 {
		t.Errorf("api requests delta = %v, want 1", got)
	}

	TrackActiveRequest(true)
	TrackActiveRequest(false)
}
