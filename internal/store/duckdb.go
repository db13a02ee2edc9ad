// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/neighborly/internal/config"
	"github.com/tomtom215/neighborly/internal/logging"
	"github.com/tomtom215/neighborly/internal/metrics"
	"github.com/tomtom215/neighborly/internal/recommend"
)

const duckdbSchema = `
CREATE TABLE IF NOT EXISTS ratings (
	user_id  BIGINT NOT NULL,
	item_id  BIGINT NOT NULL,
	rating   DOUBLE NOT NULL,
	rated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (user_id, item_id)
)`

const duckdbUpsert = `
INSERT INTO ratings (user_id, item_id, rating, rated_at) VALUES (?, ?, ?, ?)
ON CONFLICT (user_id, item_id) DO UPDATE
SET rating = excluded.rating, rated_at = excluded.rated_at
WHERE excluded.rated_at >= rated_at`

// DuckDB stores ratings in a DuckDB database file.
type DuckDB struct {
	conn *sql.DB
	path string
}

// OpenDuckDB opens (or creates) the database at cfg.Path and ensures the
// schema exists. An empty path opens an in-memory database.
func OpenDuckDB(ctx context.Context, cfg config.DuckDBConfig) (*DuckDB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Use 0750 permissions (owner: rwx, group: rx, other: none) per gosec G301
	if cfg.Path != "" && cfg.Path != ":memory:" {
		dir := filepath.Dir(cfg.Path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	conn, err := sql.Open("duckdb", duckdbDSN(cfg.Path, numThreads, cfg.MaxMemory))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.ExecContext(ctx, duckdbSchema); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to create ratings table: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Int("threads", numThreads).
		Msg("DuckDB ratings store opened")

	return &DuckDB{conn: conn, path: cfg.Path}, nil
}

func duckdbDSN(path string, threads int, maxMemory string) string {
	q := url.Values{}
	q.Set("threads", strconv.Itoa(threads))
	if maxMemory != "" {
		q.Set("max_memory", maxMemory)
	}
	if path == ":memory:" {
		path = ""
	}
	return path + "?" + q.Encode()
}

func closeQuietly(conn *sql.DB) {
	if err := conn.Close(); err != nil {
		logging.Warn().Err(err).Msg("failed to close database connection")
	}
}

// Name returns the backend identifier.
func (d *DuckDB) Name() string { return config.BackendDuckDB }

// Ping checks the connection.
func (d *DuckDB) Ping(ctx context.Context) error {
	return d.conn.PingContext(ctx)
}

// Close closes the database.
func (d *DuckDB) Close() error {
	return d.conn.Close()
}

// AddRatings upserts records in a single transaction.
func (d *DuckDB) AddRatings(ctx context.Context, records []Record) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation(config.BackendDuckDB, "add", time.Since(start), err) }()

	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback() //nolint:errcheck // rollback after failure
		}
	}()

	stmt, err := tx.PrepareContext(ctx, duckdbUpsert)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			continue
		}
		if _, err = stmt.ExecContext(ctx, r.UserID, r.ItemID, r.Value, r.Timestamp.UTC()); err != nil {
			return fmt.Errorf("upsert rating (%d, %d): %w", r.UserID, r.ItemID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit ratings: %w", err)
	}
	return nil
}

// GetRatingHistory returns the user's ratings ordered by item ID.
func (d *DuckDB) GetRatingHistory(ctx context.Context, userID int64) (history []recommend.Rating, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation(config.BackendDuckDB, "history", time.Since(start), err) }()

	rows, err := d.conn.QueryContext(ctx,
		`SELECT item_id, rating, rated_at FROM ratings WHERE user_id = ? ORDER BY item_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	history = []recommend.Rating{}
	for rows.Next() {
		var r recommend.Rating
		if err = rows.Scan(&r.ItemID, &r.Value, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		history = append(history, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return history, nil
}

// AllUserIDs returns every user with at least one rating, ascending.
func (d *DuckDB) AllUserIDs(ctx context.Context) (ids []int64, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation(config.BackendDuckDB, "enumerate", time.Since(start), err) }()

	rows, err := d.conn.QueryContext(ctx, `SELECT DISTINCT user_id FROM ratings ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	ids = []int64{}
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return ids, nil
}
