// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/neighborly/internal/logging"
	"github.com/tomtom215/neighborly/internal/metrics"
	"github.com/tomtom215/neighborly/internal/recommend"
)

const (
	historyKeyPrefix = "history:"
	usersKey         = "users"

	// defaultLoadTimeout bounds one shared provider call.
	defaultLoadTimeout = 30 * time.Second
)

// HistoryCache is a read-through cache in front of a DataProvider.
// Concurrent misses for the same key share one provider call.
type HistoryCache struct {
	next        recommend.DataProvider
	backend     Backend
	ttl         time.Duration
	loadTimeout time.Duration
	group       singleflight.Group
	logger      zerolog.Logger
}

var _ recommend.DataProvider = (*HistoryCache)(nil)

// NewHistoryCache wraps provider with backend. Entries live for ttl.
func NewHistoryCache(provider recommend.DataProvider, backend Backend, ttl time.Duration) *HistoryCache {
	return &HistoryCache{
		next:        provider,
		backend:     backend,
		ttl:         ttl,
		loadTimeout: defaultLoadTimeout,
		logger:      logging.WithComponent("history-cache").With().Str("backend", backend.Name()).Logger(),
	}
}

func historyKey(userID int64) string {
	return historyKeyPrefix + strconv.FormatInt(userID, 10)
}

// GetRatingHistory returns the cached history or loads it from the provider.
func (c *HistoryCache) GetRatingHistory(ctx context.Context, userID int64) ([]recommend.Rating, error) {
	key := historyKey(userID)

	var history []recommend.Rating
	if c.lookup(ctx, key, &history) {
		return history, nil
	}

	v, err := c.load(ctx, key, func(loadCtx context.Context) (any, error) {
		return c.next.GetRatingHistory(loadCtx, userID)
	})
	if err != nil {
		return nil, err
	}
	history, _ = v.([]recommend.Rating)
	return history, nil
}

// AllUserIDs returns the cached user list or loads it from the provider.
func (c *HistoryCache) AllUserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if c.lookup(ctx, usersKey, &ids) {
		return ids, nil
	}

	v, err := c.load(ctx, usersKey, func(loadCtx context.Context) (any, error) {
		return c.next.AllUserIDs(loadCtx)
	})
	if err != nil {
		return nil, err
	}
	ids, _ = v.([]int64)
	return ids, nil
}

// load runs fetch once per key across concurrent callers and caches the
// result. The shared fetch is detached from any one caller's cancellation
// and bounded by loadTimeout; each caller stops waiting when its own
// context is done.
func (c *HistoryCache) load(ctx context.Context, key string, fetch func(context.Context) (any, error)) (any, error) {
	ch := c.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()

		v, err := fetch(loadCtx)
		if err != nil {
			return nil, err
		}
		c.store(loadCtx, key, v)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// Invalidate drops the cached histories of userIDs and the user list.
func (c *HistoryCache) Invalidate(ctx context.Context, userIDs ...int64) error {
	for _, id := range userIDs {
		if err := c.backend.Delete(ctx, historyKey(id)); err != nil {
			return err
		}
	}
	return c.backend.Delete(ctx, usersKey)
}

// lookup decodes a cached value into dst. Backend and decode failures
// count as misses.
func (c *HistoryCache) lookup(ctx context.Context, key string, dst any) bool {
	data, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		metrics.HistoryCacheErrors.Inc()
		c.logger.Warn().Err(err).Str("key", key).Msg("cache get failed, reading from store")
		return false
	}
	if !ok {
		metrics.HistoryCacheMisses.Inc()
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		metrics.HistoryCacheErrors.Inc()
		c.logger.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return false
	}
	metrics.HistoryCacheHits.Inc()
	return true
}

func (c *HistoryCache) store(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := c.backend.Set(ctx, key, data, c.ttl); err != nil {
		metrics.HistoryCacheErrors.Inc()
		c.logger.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}
