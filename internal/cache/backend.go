// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

// Package cache provides the read-through rating history cache.
//
// HistoryCache decorates a recommend.DataProvider and keeps rating
// histories and the user list in a Backend as JSON. Two backends exist:
//
//   - LRU: in-process, O(1) least recently used eviction with TTL.
//   - Redis: shared across replicas through go-redis.
//
// A failing backend never fails a scoring request. The error is logged and
// counted, and the call falls through to the wrapped provider.
package cache

import (
	"context"
	"time"
)

// Backend stores opaque values with a TTL.
type Backend interface {
	// Name returns the backend identifier used in logs.
	Name() string

	// Get returns the value for key. A missing or expired key returns
	// false with a nil error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
