// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

// Package api provides the HTTP API using the Chi router.
//
// Endpoints:
//
//	POST /api/v1/scores                        score items for a user (JSON body)
//	GET  /api/v1/users/{userID}/scores         score items given as ?items=1,2,3
//	GET  /api/v1/users/{userID}/neighbors      neighbors used for ?item=X
//	GET  /api/v1/health                        status, engine counters, host stats
//	GET  /api/v1/health/live                   liveness probe
//	GET  /api/v1/health/ready                  readiness probe (store ping)
//	GET  /metrics                              Prometheus metrics
//
// Every JSON response uses the models.APIResponse envelope.
package api

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/neighborly/internal/recommend"
)

// Scorer is the scoring engine surface used by the handlers.
type Scorer interface {
	Score(ctx context.Context, req recommend.ScoreRequest) (*recommend.ScoreResponse, error)
	Neighbors(ctx context.Context, userID, itemID int64, k *int) (*recommend.NeighborsResponse, error)
	Stats() recommend.Stats
}

// Pinger is a dependency that can report reachability.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// BreakerReporter exposes a circuit breaker state name.
type BreakerReporter interface {
	State() string
}

// HandlerConfig wires the handler's dependencies.
type HandlerConfig struct {
	Engine  Scorer
	Store   Pinger
	Breaker BreakerReporter // optional
	Cache   string          // cache backend name, empty when disabled
	Version string
}

// Handler serves the API endpoints.
type Handler struct {
	engine    Scorer
	store     Pinger
	breaker   BreakerReporter
	cacheName string
	version   string
	startTime time.Time
}

// NewHandler creates a handler.
func NewHandler(cfg HandlerConfig) (*Handler, error) {
	if cfg.Engine == nil {
		return nil, errors.New("engine is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	return &Handler{
		engine:    cfg.Engine,
		store:     cfg.Store,
		breaker:   cfg.Breaker,
		cacheName: cfg.Cache,
		version:   version,
		startTime: time.Now(),
	}, nil
}
