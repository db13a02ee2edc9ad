// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package recommend

import (
	"context"
	"time"
)

// Rating is one explicit rating event in a user's history.
type Rating struct {
	// ItemID is the rated item.
	ItemID int64 `json:"item_id"`

	// Value is the rating given by the user.
	Value float64 `json:"value"`

	// Timestamp is when the rating was recorded. When a history holds
	// several ratings for the same item, the most recent one wins.
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// HistoryLookup returns the rating history of a user.
//
// Implementations return an empty slice for users without ratings.
// Unknown users and users with no ratings are indistinguishable.
type HistoryLookup interface {
	GetRatingHistory(ctx context.Context, userID int64) ([]Rating, error)
}

// UserEnumerator returns the identifiers of every user with rating data.
// The returned IDs are distinct.
type UserEnumerator interface {
	AllUserIDs(ctx context.Context) ([]int64, error)
}

// DataProvider is the combined collaborator used by the scorer.
type DataProvider interface {
	HistoryLookup
	UserEnumerator
}

// Neighbor is a candidate user considered when predicting a rating for one item.
type Neighbor struct {
	// UserID identifies the neighboring user.
	UserID int64 `json:"user_id"`

	// Similarity is the cosine similarity between the mean-centered
	// vectors of the neighbor and the target user.
	Similarity float64 `json:"similarity"`

	// Mean is the neighbor's mean rating before centering.
	Mean float64 `json:"mean"`

	// Vector is the neighbor's mean-centered rating vector.
	Vector RatingVector `json:"-"`
}

// Deviation returns how far the neighbor's rating for itemID sits from
// the neighbor's own mean. Items the neighbor did not rate yield 0.
func (n Neighbor) Deviation(itemID int64) float64 {
	return n.Vector.GetOrDefault(itemID, 0)
}

// Rating returns the neighbor's original rating for itemID.
func (n Neighbor) Rating(itemID int64) (float64, bool) {
	v, ok := n.Vector.Get(itemID)
	if !ok {
		return 0, false
	}
	return v + n.Mean, true
}

// Prediction is the predicted rating for one item.
type Prediction struct {
	// ItemID is the scored item.
	ItemID int64 `json:"item_id"`

	// Score is the predicted rating.
	Score float64 `json:"score"`

	// NeighborCount is the number of neighbors that contributed.
	NeighborCount int `json:"neighbor_count"`

	// Fallback is true when no neighbor carried weight and the score
	// is the target user's mean rating.
	Fallback bool `json:"fallback"`
}

// PredictionSet holds the predictions for one user.
type PredictionSet struct {
	// UserID is the target user.
	UserID int64 `json:"user_id"`

	// UserMean is the mean of the target user's ratings (0 when empty).
	UserMean float64 `json:"user_mean"`

	// HistorySize is the number of distinct items the user has rated.
	HistorySize int `json:"history_size"`

	// Candidates is the number of other users considered.
	Candidates int `json:"candidates"`

	// Predictions holds one entry per distinct requested item, in
	// first-seen request order.
	Predictions []Prediction `json:"predictions"`
}

// Scores flattens the set into an item -> score mapping.
func (p *PredictionSet) Scores() map[int64]float64 {
	out := make(map[int64]float64, len(p.Predictions))
	for _, pr := range p.Predictions {
		out[pr.ItemID] = pr.Score
	}
	return out
}

// Predictor produces rating predictions and neighbor explanations.
type Predictor interface {
	// Name returns the predictor identifier.
	Name() string

	// Predict returns predictions for the given items using at most k
	// neighbors per item.
	Predict(ctx context.Context, userID int64, itemIDs []int64, k int) (*PredictionSet, error)

	// Neighbors returns the top-k neighbors of userID among the users who
	// rated itemID, most similar first.
	Neighbors(ctx context.Context, userID, itemID int64, k int) ([]Neighbor, error)
}

// ScoreRequest is a scoring request handled by the Engine.
type ScoreRequest struct {
	// UserID is the target user.
	UserID int64 `json:"user_id"`

	// ItemIDs are the items to score. Duplicates are collapsed.
	ItemIDs []int64 `json:"item_ids"`

	// K overrides the configured neighborhood size when set.
	K *int `json:"k,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// ScoreResponse is the Engine's answer to a ScoreRequest.
type ScoreResponse struct {
	// Scores maps each requested item to its predicted rating.
	Scores map[int64]float64 `json:"scores"`

	// Predictions carries per-item diagnostics in request order.
	Predictions []Prediction `json:"predictions"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// UserID is the target user.
	UserID int64 `json:"user_id"`

	// Predictor names the predictor that produced the scores.
	Predictor string `json:"predictor"`

	// UserMean is the target user's mean rating.
	UserMean float64 `json:"user_mean"`

	// NeighborhoodSize is the K used for this request.
	NeighborhoodSize int `json:"neighborhood_size"`

	// ItemCount is the number of distinct items scored.
	ItemCount int `json:"item_count"`

	// FallbackCount is the number of items that fell back to the user mean.
	FallbackCount int `json:"fallback_count"`

	// LatencyMS is the total scoring latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}

// NeighborsResponse is the Engine's answer to a neighbor explanation query.
type NeighborsResponse struct {
	UserID           int64          `json:"user_id"`
	ItemID           int64          `json:"item_id"`
	NeighborhoodSize int            `json:"neighborhood_size"`
	Neighbors        []NeighborView `json:"neighbors"`
}

// NeighborView is the serializable form of a Neighbor for one item.
type NeighborView struct {
	UserID     int64   `json:"user_id"`
	Similarity float64 `json:"similarity"`
	Mean       float64 `json:"mean"`
	Rating     float64 `json:"rating"`
}

// Stats contains engine counters for observability.
type Stats struct {
	Requests  int64 `json:"requests"`
	Errors    int64 `json:"errors"`
	Fallbacks int64 `json:"fallbacks"`
}

// MetricsRecorder receives per-request observations from the Engine.
// The metrics package provides the Prometheus implementation.
type MetricsRecorder interface {
	ObserveScore(duration time.Duration, items, fallbacks int, err error)
	ObserveNeighbors(count int)
}
