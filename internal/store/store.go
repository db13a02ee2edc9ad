// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

// Package store provides the rating data backends behind the scorer.
//
// Every backend implements recommend.DataProvider (rating history lookup and
// user enumeration) and Writer (bulk rating ingestion):
//
//   - Memory: maps guarded by a RWMutex. Used by tests and the CLI.
//   - DuckDB: a single ratings table accessed through database/sql.
//   - Badger: one key per (user, item) pair, JSON values.
//   - Mongo: one document per user with an item -> rating map.
//
// Backends return an empty history for unknown users and an ascending,
// duplicate-free user list. Open selects a backend from configuration.
// WithBreaker wraps any provider in a circuit breaker.
package store

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/tomtom215/neighborly/internal/config"
	"github.com/tomtom215/neighborly/internal/recommend"
)

// Record is one rating to ingest.
type Record struct {
	UserID    int64     `json:"user_id"`
	ItemID    int64     `json:"item_id"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// Writer ingests ratings. A rating for an existing (user, item) pair
// replaces it unless the stored rating is strictly newer.
type Writer interface {
	AddRatings(ctx context.Context, records []Record) error
}

// Store is a complete rating backend.
type Store interface {
	recommend.DataProvider
	Writer

	// Name returns the backend identifier used in logs and metrics.
	Name() string

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Open creates the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg *config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return NewMemory(), nil
	case config.BackendDuckDB:
		return OpenDuckDB(ctx, cfg.DuckDB)
	case config.BackendBadger:
		return OpenBadger(cfg.Badger)
	case config.BackendMongo:
		return OpenMongo(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// newer reports whether a rating at ts should replace one stored at existing.
func newer(ts, existing time.Time) bool {
	return !existing.After(ts)
}

// sortedUnique sorts ids ascending and removes duplicates in place.
func sortedUnique(ids []int64) []int64 {
	slices.Sort(ids)
	return slices.Compact(ids)
}
