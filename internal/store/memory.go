// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package store

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/neighborly/internal/config"
	"github.com/tomtom215/neighborly/internal/recommend"
)

type memoryRating struct {
	value float64
	ts    time.Time
}

// Memory is an in-process rating store.
type Memory struct {
	mu      sync.RWMutex
	ratings map[int64]map[int64]memoryRating
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{ratings: make(map[int64]map[int64]memoryRating)}
}

// Name returns the backend identifier.
func (m *Memory) Name() string { return config.BackendMemory }

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error { return nil }

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// AddRatings stores records. Non-finite values are ignored.
func (m *Memory) AddRatings(ctx context.Context, records []Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range records {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			continue
		}
		user, ok := m.ratings[r.UserID]
		if !ok {
			user = make(map[int64]memoryRating)
			m.ratings[r.UserID] = user
		}
		if existing, ok := user[r.ItemID]; ok && !newer(r.Timestamp, existing.ts) {
			continue
		}
		user[r.ItemID] = memoryRating{value: r.Value, ts: r.Timestamp}
	}
	return nil
}

// GetRatingHistory returns the user's ratings ordered by item ID.
func (m *Memory) GetRatingHistory(ctx context.Context, userID int64) ([]recommend.Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user := m.ratings[userID]
	history := make([]recommend.Rating, 0, len(user))
	for itemID, r := range user {
		history = append(history, recommend.Rating{ItemID: itemID, Value: r.value, Timestamp: r.ts})
	}
	sort.Slice(history, func(i, j int) bool { return history[i].ItemID < history[j].ItemID })
	return history, nil
}

// AllUserIDs returns every user with at least one rating, ascending.
func (m *Memory) AllUserIDs(ctx context.Context) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	ids := make([]int64, 0, len(m.ratings))
	for id := range m.ratings {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	return sortedUnique(ids), nil
}

// RatingCount returns the number of stored (user, item) pairs.
func (m *Memory) RatingCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, user := range m.ratings {
		n += len(user)
	}
	return n
}
