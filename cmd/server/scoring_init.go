// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/neighborly/internal/cache"
	"github.com/tomtom215/neighborly/internal/config"
	"github.com/tomtom215/neighborly/internal/logging"
	"github.com/tomtom215/neighborly/internal/metrics"
	"github.com/tomtom215/neighborly/internal/recommend"
	"github.com/tomtom215/neighborly/internal/recommend/algorithms"
	"github.com/tomtom215/neighborly/internal/store"
)

// ScoringComponents holds everything between the ratings store and the
// HTTP handlers.
type ScoringComponents struct {
	Store   store.Store
	Breaker *store.BreakerProvider
	LRU     *cache.LRU
	Redis   *cache.Redis
	Engine  *recommend.Engine

	// CacheName is "lru", "redis" or empty when caching is off.
	CacheName string
}

// initScoring opens the store and layers breaker, cache and predictor on
// top of it. Reads flow engine -> cache -> breaker -> store, so cache hits
// never count against the breaker.
func initScoring(ctx context.Context, cfg *config.Config) (*ScoringComponents, error) {
	st, err := store.Open(ctx, &cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open ratings store: %w", err)
	}
	c := &ScoringComponents{Store: st}

	var provider recommend.DataProvider = st

	if cfg.Breaker.Enabled {
		c.Breaker = store.WithBreaker(provider, store.BreakerConfig{
			Name:             st.Name(),
			MaxRequests:      cfg.Breaker.MaxRequests,
			Interval:         cfg.Breaker.Interval,
			Timeout:          cfg.Breaker.Timeout,
			FailureThreshold: cfg.Breaker.FailureThreshold,
		})
		provider = c.Breaker
		logging.Info().
			Uint32("failure_threshold", cfg.Breaker.FailureThreshold).
			Dur("open_timeout", cfg.Breaker.Timeout).
			Msg("Circuit breaker enabled for ratings store")
	}

	if cfg.Cache.Enabled {
		var backend cache.Backend
		switch cfg.Cache.Backend {
		case config.CacheRedis:
			c.Redis, err = cache.DialRedis(ctx, cfg.Cache.Redis)
			if err != nil {
				return nil, errors.Join(fmt.Errorf("connect redis cache: %w", err), c.Close())
			}
			backend = c.Redis
		default:
			c.LRU = cache.NewLRU(cfg.Cache.MaxEntries, cfg.Cache.TTL)
			backend = c.LRU
		}
		c.CacheName = backend.Name()
		provider = cache.NewHistoryCache(provider, backend, cfg.Cache.TTL)
		logging.Info().
			Str("backend", c.CacheName).
			Dur("ttl", cfg.Cache.TTL).
			Msg("History cache enabled")
	}

	rc := cfg.RecommendConfig()
	predictor, err := algorithms.NewUserUser(provider, algorithms.UserUserConfig{
		NeighborhoodSize: rc.Neighborhood.Size,
		Workers:          rc.Neighborhood.Workers,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create predictor: %w", err), c.Close())
	}

	c.Engine, err = recommend.NewEngine(predictor, rc, logging.Logger())
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create engine: %w", err), c.Close())
	}
	c.Engine.SetMetricsRecorder(metrics.ScoreRecorder{})

	logging.Info().
		Str("store", st.Name()).
		Int("neighborhood_size", rc.Neighborhood.Size).
		Int("workers", rc.Neighborhood.Workers).
		Msg("Scoring engine initialized")

	return c, nil
}

// importRatings loads path into the store and drops the in-process cache
// so newly imported users are visible immediately. Redis entries age out
// with the cache TTL.
func (c *ScoringComponents) importRatings(ctx context.Context, path string) (store.LoadStats, error) {
	stats, err := store.ImportFile(ctx, c.Store, path, store.DefaultImportBatchSize)
	if err != nil {
		return stats, err
	}
	if c.LRU != nil {
		c.LRU.Clear()
	}
	return stats, nil
}

// Close releases the cache connection and the store.
func (c *ScoringComponents) Close() error {
	var errs []error
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}
	return errors.Join(errs...)
}
