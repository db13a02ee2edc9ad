// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Note: This package has no dependencies on other internal packages.
// Storage backends plug in through DataProvider and metrics through
// MetricsRecorder.

// Engine shapes scoring requests for a Predictor: it applies defaults and
// limits, enforces the prediction timeout, and records logs and metrics.
// It is safe for concurrent use.
type Engine struct {
	config   *Config
	configMu sync.RWMutex
	logger   zerolog.Logger

	predictor Predictor
	recorder  MetricsRecorder

	requestCount  atomic.Int64
	errorCount    atomic.Int64
	fallbackCount atomic.Int64
}

// NewEngine creates a new scoring engine around predictor.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(predictor Predictor, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if predictor == nil {
		return nil, errors.New("predictor is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config:    cfg,
		logger:    logger.With().Str("component", "recommend").Logger(),
		predictor: predictor,
	}, nil
}

// SetMetricsRecorder attaches a metrics sink. Passing nil detaches it.
func (e *Engine) SetMetricsRecorder(r MetricsRecorder) {
	e.recorder = r
}

// Score predicts ratings for the requested items.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Score(ctx context.Context, req ScoreRequest) (*ScoreResponse, error) {
	start := time.Now()
	e.requestCount.Add(1)

	cfg := e.GetConfig()
	req, k, err := e.prepareRequest(req, cfg)
	if err != nil {
		e.errorCount.Add(1)
		e.observe(start, 0, 0, err)
		return nil, err
	}

	logger := e.createRequestLogger(req)
	logger.Debug().
		Int("items", len(req.ItemIDs)).
		Int("k", k).
		Msg("processing score request")

	ctx, cancel := context.WithTimeout(ctx, cfg.Limits.PredictionTimeout)
	defer cancel()

	set, err := e.predictor.Predict(ctx, req.UserID, req.ItemIDs, k)
	if err != nil {
		e.errorCount.Add(1)
		e.observe(start, len(req.ItemIDs), 0, err)
		logger.Warn().Err(err).Msg("scoring failed")
		return nil, fmt.Errorf("predict: %w", err)
	}

	resp := e.buildResponse(req, set, k, start)
	e.fallbackCount.Add(int64(resp.Metadata.FallbackCount))
	e.observe(start, resp.Metadata.ItemCount, resp.Metadata.FallbackCount, nil)

	logger.Debug().
		Int("history_size", set.HistorySize).
		Int("candidates", set.Candidates).
		Int("fallbacks", resp.Metadata.FallbackCount).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("scoring complete")

	return resp, nil
}

// Neighbors returns the neighbors that would be used to score itemID for
// userID. A nil k uses the configured neighborhood size.
func (e *Engine) Neighbors(ctx context.Context, userID, itemID int64, k *int) (*NeighborsResponse, error) {
	e.requestCount.Add(1)

	cfg := e.GetConfig()
	size, err := resolveNeighborhood(k, cfg)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Limits.PredictionTimeout)
	defer cancel()

	neighbors, err := e.predictor.Neighbors(ctx, userID, itemID, size)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("select neighbors: %w", err)
	}
	if e.recorder != nil {
		e.recorder.ObserveNeighbors(len(neighbors))
	}

	views := make([]NeighborView, 0, len(neighbors))
	for _, n := range neighbors {
		rating, _ := n.Rating(itemID)
		views = append(views, NeighborView{
			UserID:     n.UserID,
			Similarity: n.Similarity,
			Mean:       n.Mean,
			Rating:     rating,
		})
	}

	e.logger.Debug().
		Int64("user_id", userID).
		Int64("item_id", itemID).
		Int("neighbors", len(views)).
		Msg("neighbors selected")

	return &NeighborsResponse{
		UserID:           userID,
		ItemID:           itemID,
		NeighborhoodSize: size,
		Neighbors:        views,
	}, nil
}

// prepareRequest applies defaults, deduplicates items and checks limits.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req ScoreRequest, cfg *Config) (ScoreRequest, int, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	req.ItemIDs = dedupe(req.ItemIDs)
	if len(req.ItemIDs) > cfg.Limits.MaxItems {
		return req, 0, fmt.Errorf("%w: %d > %d", ErrTooManyItems, len(req.ItemIDs), cfg.Limits.MaxItems)
	}

	k, err := resolveNeighborhood(req.K, cfg)
	if err != nil {
		return req, 0, err
	}
	return req, k, nil
}

// resolveNeighborhood picks the configured K or a clamped override.
func resolveNeighborhood(k *int, cfg *Config) (int, error) {
	if k == nil {
		return cfg.Neighborhood.Size, nil
	}
	if *k < 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidNeighborhood, *k)
	}
	if *k > cfg.Limits.MaxNeighborhoodSize {
		return cfg.Limits.MaxNeighborhoodSize, nil
	}
	return *k, nil
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req ScoreRequest) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Int64("user_id", req.UserID).
		Str("predictor", e.predictor.Name()).
		Logger()
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) buildResponse(req ScoreRequest, set *PredictionSet, k int, start time.Time) *ScoreResponse {
	fallbacks := 0
	for _, p := range set.Predictions {
		if p.Fallback {
			fallbacks++
		}
	}

	return &ScoreResponse{
		Scores:      set.Scores(),
		Predictions: set.Predictions,
		Metadata: ResponseMetadata{
			RequestID:        req.RequestID,
			UserID:           req.UserID,
			Predictor:        e.predictor.Name(),
			UserMean:         set.UserMean,
			NeighborhoodSize: k,
			ItemCount:        len(set.Predictions),
			FallbackCount:    fallbacks,
			LatencyMS:        time.Since(start).Milliseconds(),
			Timestamp:        time.Now(),
		},
	}
}

func (e *Engine) observe(start time.Time, items, fallbacks int, err error) {
	if e.recorder == nil {
		return
	}
	e.recorder.ObserveScore(time.Since(start), items, fallbacks, err)
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Requests:  e.requestCount.Load(),
		Errors:    e.errorCount.Load(),
		Fallbacks: e.fallbackCount.Load(),
	}
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	e.configMu.RLock()
	defer e.configMu.RUnlock()
	return e.config.Clone()
}

// UpdateConfig updates the engine configuration.
func (e *Engine) UpdateConfig(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	e.configMu.Lock()
	e.config = cfg.Clone()
	e.configMu.Unlock()

	e.logger.Info().
		Int("neighborhood_size", cfg.Neighborhood.Size).
		Msg("configuration updated")
	return nil
}

// dedupe removes repeated IDs, keeping first-seen order.
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
