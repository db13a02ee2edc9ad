// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package algorithms

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/tomtom215/neighborly/internal/recommend"
)

// UserUserConfig contains configuration for the user-user scorer.
type UserUserConfig struct {
	// NeighborhoodSize is the number of neighbors (K) used by Score.
	// Typical range: 20-50.
	NeighborhoodSize int

	// Workers is the number of parallel workers.
	Workers int
}

// DefaultUserUserConfig returns default user-user configuration.
func DefaultUserUserConfig() UserUserConfig {
	return UserUserConfig{
		NeighborhoodSize: recommend.DefaultNeighborhoodSize,
		Workers:          runtime.NumCPU(),
	}
}

// UserUser predicts ratings with user-user collaborative filtering.
//
// For a target user u and item i:
// score(u, i) = mean(u) + sum_{v in N} sim(u, v) * (r(v, i) - mean(v)) / sum_{v in N} |sim(u, v)|
//
// where N is the set of at most K users most similar to u who rated i.
// It holds no mutable state and is safe for concurrent use.
type UserUser struct {
	provider recommend.DataProvider
	config   UserUserConfig
}

// NewUserUser creates a user-user scorer reading ratings from provider.
func NewUserUser(provider recommend.DataProvider, cfg UserUserConfig) (*UserUser, error) {
	if provider == nil {
		return nil, errors.New("data provider is required")
	}
	if cfg.NeighborhoodSize < 0 {
		return nil, fmt.Errorf("%w: got %d", recommend.ErrInvalidNeighborhood, cfg.NeighborhoodSize)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &UserUser{provider: provider, config: cfg}, nil
}

// Name returns the predictor identifier.
func (u *UserUser) Name() string {
	return "user-user"
}

// Config returns the scorer configuration.
func (u *UserUser) Config() UserUserConfig {
	return u.config
}

// Score returns a predicted rating for each distinct item in itemIDs using
// the configured neighborhood size.
func (u *UserUser) Score(ctx context.Context, userID int64, itemIDs []int64) (map[int64]float64, error) {
	set, err := u.Predict(ctx, userID, itemIDs, u.config.NeighborhoodSize)
	if err != nil {
		return nil, err
	}
	return set.Scores(), nil
}

// Predict returns detailed predictions for each distinct item in itemIDs
// using at most k neighbors per item.
func (u *UserUser) Predict(ctx context.Context, userID int64, itemIDs []int64, k int) (*recommend.PredictionSet, error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: got %d", recommend.ErrInvalidNeighborhood, k)
	}

	target, err := BuildVector(ctx, u.provider, userID)
	if err != nil {
		return nil, err
	}

	items := uniqueItems(itemIDs)
	set := &recommend.PredictionSet{
		UserID:      userID,
		UserMean:    target.Mean(),
		HistorySize: target.Len(),
		Predictions: make([]recommend.Prediction, len(items)),
	}
	if len(items) == 0 {
		return set, nil
	}

	// With K=0 no neighbor can contribute, so enumeration is skipped.
	if k == 0 {
		for i, itemID := range items {
			set.Predictions[i] = aggregate(set.UserMean, itemID, nil)
		}
		return set, nil
	}

	pool, err := buildPool(ctx, u.provider, u.config.Workers, userID, target.MeanCentered(), nil)
	if err != nil {
		return nil, err
	}
	set.Candidates = pool.Len()

	var wg sync.WaitGroup
	for _, c := range chunks(len(items), u.config.Workers) {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for idx := start; idx < end; idx++ {
				if ContextCancelled(ctx) {
					return
				}
				itemID := items[idx]
				set.Predictions[idx] = aggregate(set.UserMean, itemID, pool.top(itemID, k))
			}
		}(c[0], c[1])
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

// Neighbors returns the top-k neighbors of userID for itemID.
func (u *UserUser) Neighbors(ctx context.Context, userID, itemID int64, k int) ([]recommend.Neighbor, error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: got %d", recommend.ErrInvalidNeighborhood, k)
	}

	target, err := BuildVector(ctx, u.provider, userID)
	if err != nil {
		return nil, err
	}
	return SelectNeighbors(ctx, u.provider, itemID, userID, target, k, u.config.Workers)
}

// aggregate combines the neighbors' deviations into a prediction. When
// the summed absolute similarity is zero the user's mean is returned.
func aggregate(userMean float64, itemID int64, neighbors []recommend.Neighbor) recommend.Prediction {
	var num, den float64
	for _, n := range neighbors {
		num += n.Similarity * n.Deviation(itemID)
		den += math.Abs(n.Similarity)
	}

	if den == 0 {
		return recommend.Prediction{
			ItemID:        itemID,
			Score:         userMean,
			NeighborCount: len(neighbors),
			Fallback:      true,
		}
	}

	return recommend.Prediction{
		ItemID:        itemID,
		Score:         userMean + num/den,
		NeighborCount: len(neighbors),
	}
}

// uniqueItems removes repeated item IDs, keeping first-seen order.
func uniqueItems(itemIDs []int64) []int64 {
	seen := make(map[int64]struct{}, len(itemIDs))
	out := make([]int64, 0, len(itemIDs))
	for _, id := range itemIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
