// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package main

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/tomtom215/neighborly/internal/config"
	"github.com/tomtom215/neighborly/internal/recommend"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	cfg.Store.Backend = config.BackendMemory
	cfg.Cache.Backend = config.CacheLRU
	return cfg
}

func TestInitScoringImportAndScore(t *testing.T) {
	cfg := testConfig(t)

	ctx := context.Background()
	scoring, err := initScoring(ctx, cfg)
	if err != nil {
		t.Fatalf("initScoring() error = %v", err)
	}
	defer scoring.Close()

	if scoring.Breaker == nil {
		t.Error("Breaker = nil, want breaker enabled by default")
	}
	if scoring.LRU == nil || scoring.CacheName != "lru" {
		t.Errorf("cache = (%v, %q), want lru", scoring.LRU, scoring.CacheName)
	}

	// Score once before the import so the cache holds an empty history.
	k := 1
	resp, err := scoring.Engine.Score(ctx, recommend.ScoreRequest{UserID: 1, ItemIDs: []int64{40}, K: &k})
	if err != nil {
		t.Fatalf("Score() before import error = %v", err)
	}
	if resp.Scores[40] != 0 {
		t.Errorf("Scores[40] before import = %v, want 0", resp.Scores[40])
	}

	path := filepath.Join(t.TempDir(), "ratings.csv")
	data := "userId,movieId,rating,timestamp\n" +
		"1,10,5,1\n1,20,3,1\n1,30,4,1\n" +
		"2,10,4,1\n2,20,2,1\n2,30,2,1\n2,40,5,1\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	stats, err := scoring.importRatings(ctx, path)
	if err != nil {
		t.Fatalf("importRatings() error = %v", err)
	}
	if stats.Loaded != 7 {
		t.Errorf("Loaded = %d, want 7", stats.Loaded)
	}

	resp, err = scoring.Engine.Score(ctx, recommend.ScoreRequest{UserID: 1, ItemIDs: []int64{40}, K: &k})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if math.Abs(resp.Scores[40]-5.75) > 1e-9 {
		t.Errorf("Scores[40] = %v, want 5.75", resp.Scores[40])
	}
}

func TestInitScoringUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Backend = "cassandra"

	if _, err := initScoring(context.Background(), cfg); err == nil {
		t.Fatal("initScoring() error = nil, want error for unknown backend")
	}
}

func TestInitScoringWithoutCacheOrBreaker(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Enabled = false
	cfg.Breaker.Enabled = false

	scoring, err := initScoring(context.Background(), cfg)
	if err != nil {
		t.Fatalf("initScoring() error = %v", err)
	}
	defer scoring.Close()

	if scoring.Breaker != nil || scoring.LRU != nil || scoring.CacheName != "" {
		t.Errorf("components = %+v, want no breaker or cache", scoring)
	}
}
