// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package store

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/tomtom215/neighborly/internal/config"
)

// testDBSemaphore serializes DuckDB tests; concurrent CGO connections can
// hang under CI resource pressure.
var testDBSemaphore = make(chan struct{}, 1)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func openMemory(t *testing.T) Store {
	t.Helper()
	return NewMemory()
}

func openDuckDB(t *testing.T) Store {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	s, err := OpenDuckDB(context.Background(), config.DuckDBConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 1})
	if err != nil {
		t.Fatalf("OpenDuckDB() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func openBadger(t *testing.T) Store {
	t.Helper()
	s, err := OpenBadger(config.BadgerConfig{InMemory: true})
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// runBackendSuite checks the behavior every backend must share.
func runBackendSuite(t *testing.T, open func(t *testing.T) Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		s := open(t)

		ids, err := s.AllUserIDs(ctx)
		if err != nil {
			t.Fatalf("AllUserIDs() error = %v", err)
		}
		if len(ids) != 0 {
			t.Errorf("AllUserIDs() = %v, want empty", ids)
		}

		history, err := s.GetRatingHistory(ctx, 42)
		if err != nil {
			t.Fatalf("GetRatingHistory() error = %v", err)
		}
		if history == nil || len(history) != 0 {
			t.Errorf("GetRatingHistory(unknown) = %#v, want empty non-nil slice", history)
		}
	})

	t.Run("history and enumeration", func(t *testing.T) {
		s := open(t)
		records := []Record{
			{UserID: 7, ItemID: 30, Value: 4, Timestamp: baseTime},
			{UserID: 7, ItemID: 10, Value: 5, Timestamp: baseTime},
			{UserID: 3, ItemID: 10, Value: 2, Timestamp: baseTime},
			{UserID: 12, ItemID: 20, Value: 1.5, Timestamp: baseTime},
			{UserID: 3, ItemID: 20, Value: math.NaN(), Timestamp: baseTime},
		}
		if err := s.AddRatings(ctx, records); err != nil {
			t.Fatalf("AddRatings() error = %v", err)
		}

		ids, err := s.AllUserIDs(ctx)
		if err != nil {
			t.Fatalf("AllUserIDs() error = %v", err)
		}
		wantIDs := []int64{3, 7, 12}
		if len(ids) != len(wantIDs) {
			t.Fatalf("AllUserIDs() = %v, want %v", ids, wantIDs)
		}
		for i := range wantIDs {
			if ids[i] != wantIDs[i] {
				t.Errorf("AllUserIDs()[%d] = %d, want %d", i, ids[i], wantIDs[i])
			}
		}

		history, err := s.GetRatingHistory(ctx, 7)
		if err != nil {
			t.Fatalf("GetRatingHistory() error = %v", err)
		}
		if len(history) != 2 {
			t.Fatalf("len(history) = %d, want 2", len(history))
		}
		if history[0].ItemID != 10 || history[0].Value != 5 {
			t.Errorf("history[0] = %+v, want item 10 value 5", history[0])
		}
		if history[1].ItemID != 30 || history[1].Value != 4 {
			t.Errorf("history[1] = %+v, want item 30 value 4", history[1])
		}
		if !history[0].Timestamp.Equal(baseTime) {
			t.Errorf("history[0].Timestamp = %v, want %v", history[0].Timestamp, baseTime)
		}

		nanUser, err := s.GetRatingHistory(ctx, 3)
		if err != nil {
			t.Fatalf("GetRatingHistory() error = %v", err)
		}
		if len(nanUser) != 1 {
			t.Errorf("non-finite rating stored: history = %+v", nanUser)
		}
	})

	t.Run("latest rating wins", func(t *testing.T) {
		s := open(t)
		steps := []struct {
			value float64
			ts    time.Time
			want  float64
		}{
			{value: 3, ts: baseTime, want: 3},
			{value: 1, ts: baseTime.Add(-time.Hour), want: 3},
			{value: 5, ts: baseTime.Add(time.Hour), want: 5},
			{value: 4, ts: baseTime.Add(time.Hour), want: 4},
		}
		for i, step := range steps {
			if err := s.AddRatings(ctx, []Record{{UserID: 1, ItemID: 99, Value: step.value, Timestamp: step.ts}}); err != nil {
				t.Fatalf("step %d: AddRatings() error = %v", i, err)
			}
			history, err := s.GetRatingHistory(ctx, 1)
			if err != nil {
				t.Fatalf("step %d: GetRatingHistory() error = %v", i, err)
			}
			if len(history) != 1 || history[0].Value != step.want {
				t.Errorf("step %d: history = %+v, want single rating %v", i, history, step.want)
			}
		}
	})

	t.Run("latest wins within one batch", func(t *testing.T) {
		s := open(t)
		records := []Record{
			{UserID: 2, ItemID: 5, Value: 2, Timestamp: baseTime.Add(time.Hour)},
			{UserID: 2, ItemID: 5, Value: 4, Timestamp: baseTime},
		}
		if err := s.AddRatings(ctx, records); err != nil {
			t.Fatalf("AddRatings() error = %v", err)
		}
		history, err := s.GetRatingHistory(ctx, 2)
		if err != nil {
			t.Fatalf("GetRatingHistory() error = %v", err)
		}
		if len(history) != 1 || history[0].Value != 2 {
			t.Errorf("history = %+v, want single rating 2", history)
		}
	})

	t.Run("ping", func(t *testing.T) {
		s := open(t)
		if err := s.Ping(ctx); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
	})
}

func TestMemoryBackend(t *testing.T) {
	t.Parallel()
	runBackendSuite(t, openMemory)
}

func TestDuckDBBackend(t *testing.T) {
	runBackendSuite(t, openDuckDB)
}

func TestBadgerBackend(t *testing.T) {
	t.Parallel()
	runBackendSuite(t, openBadger)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      config.StoreConfig
		wantName string
		wantErr  bool
	}{
		{name: "memory", cfg: config.StoreConfig{Backend: config.BackendMemory}, wantName: config.BackendMemory},
		{name: "empty defaults to memory", cfg: config.StoreConfig{}, wantName: config.BackendMemory},
		{name: "badger in memory", cfg: config.StoreConfig{Backend: config.BackendBadger, Badger: config.BadgerConfig{InMemory: true}}, wantName: config.BackendBadger},
		{name: "unknown", cfg: config.StoreConfig{Backend: "cassandra"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := Open(context.Background(), &tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Open() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer s.Close()
			if s.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", s.Name(), tt.wantName)
			}
		})
	}
}

func TestMemoryCanceledContext(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.GetRatingHistory(ctx, 1); err == nil {
		t.Error("GetRatingHistory() error = nil, want context error")
	}
	if _, err := m.AllUserIDs(ctx); err == nil {
		t.Error("AllUserIDs() error = nil, want context error")
	}
}

func TestParseRatingKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		user     int64
		item     int64
		wantUser int64
		wantItem int64
	}{
		{"small", 1, 2, 1, 2},
		{"large", 1 << 40, 987654321, 1 << 40, 987654321},
		{"negative item", 5, -3, 5, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			user, item, err := parseRatingKey(ratingKey(tt.user, tt.item))
			if err != nil {
				t.Fatalf("parseRatingKey() error = %v", err)
			}
			if user != tt.wantUser || item != tt.wantItem {
				t.Errorf("parseRatingKey() = (%d, %d), want (%d, %d)", user, item, tt.wantUser, tt.wantItem)
			}
		})
	}

	if _, _, err := parseRatingKey([]byte("r/short")); err == nil {
		t.Error("parseRatingKey(malformed) error = nil, want error")
	}
}
