// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package recommend

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// stubPredictor records calls and answers with fixed values.
type stubPredictor struct {
	mu        sync.Mutex
	lastItems []int64
	lastK     int
	err       error
	neighbors []Neighbor
	deadline  bool
}

func (s *stubPredictor) Name() string { return "stub" }

func (s *stubPredictor) Predict(ctx context.Context, userID int64, itemIDs []int64, k int) (*PredictionSet, error) {
	s.mu.Lock()
	s.lastItems = itemIDs
	s.lastK = k
	_, s.deadline = ctx.Deadline()
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	set := &PredictionSet{UserID: userID, UserMean: 3}
	for i, id := range itemIDs {
		set.Predictions = append(set.Predictions, Prediction{
			ItemID:   id,
			Score:    3 + float64(i),
			Fallback: i == 0,
		})
	}
	return set, nil
}

func (s *stubPredictor) Neighbors(_ context.Context, _, _ int64, k int) ([]Neighbor, error) {
	s.mu.Lock()
	s.lastK = k
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.neighbors, nil
}

type recordingMetrics struct {
	mu        sync.Mutex
	scores    int
	errors    int
	items     int
	fallbacks int
	neighbors []int
}

func (r *recordingMetrics) ObserveScore(_ time.Duration, items, fallbacks int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores++
	r.items += items
	r.fallbacks += fallbacks
	if err != nil {
		r.errors++
	}
}

func (r *recordingMetrics) ObserveNeighbors(count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.neighbors = append(r.neighbors, count)
}

func newTestEngine(t *testing.T, p Predictor, cfg *Config) *Engine {
	t.Helper()
	e, err := NewEngine(p, cfg, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func intPtr(v int) *int { return &v }

func TestNewEngine(t *testing.T) {
	tests := []struct {
		name      string
		predictor Predictor
		cfg       *Config
		wantErr   bool
	}{
		{name: "nil config uses defaults", predictor: &stubPredictor{}},
		{name: "nil predictor", predictor: nil, wantErr: true},
		{
			name:      "invalid config",
			predictor: &stubPredictor{},
			cfg:       &Config{Neighborhood: NeighborhoodConfig{Size: -1}},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(tt.predictor, tt.cfg, zerolog.New(io.Discard))
			if (err != nil) != tt.wantErr {
				t.Errorf("NewEngine() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEngine_Score(t *testing.T) {
	t.Parallel()

	p := &stubPredictor{}
	e := newTestEngine(t, p, nil)
	rec := &recordingMetrics{}
	e.SetMetricsRecorder(rec)

	resp, err := e.Score(context.Background(), ScoreRequest{
		UserID:  9,
		ItemIDs: []int64{5, 6, 5, 7},
	})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	if len(p.lastItems) != 3 {
		t.Errorf("predictor received %v, want 3 distinct items", p.lastItems)
	}
	if p.lastK != DefaultNeighborhoodSize {
		t.Errorf("predictor k = %d, want %d", p.lastK, DefaultNeighborhoodSize)
	}
	if !p.deadline {
		t.Error("predictor context has no deadline")
	}

	if len(resp.Scores) != 3 || resp.Scores[6] != 4 {
		t.Errorf("Scores = %v, want 3 entries with 6 -> 4", resp.Scores)
	}
	md := resp.Metadata
	if md.RequestID == "" {
		t.Error("RequestID was not generated")
	}
	if md.UserID != 9 || md.Predictor != "stub" || md.ItemCount != 3 || md.FallbackCount != 1 {
		t.Errorf("Metadata = %+v", md)
	}
	if md.UserMean != 3 {
		t.Errorf("UserMean = %v, want 3", md.UserMean)
	}

	stats := e.Stats()
	if stats.Requests != 1 || stats.Errors != 0 || stats.Fallbacks != 1 {
		t.Errorf("Stats() = %+v", stats)
	}
	if rec.scores != 1 || rec.items != 3 || rec.fallbacks != 1 {
		t.Errorf("recorded metrics = %+v", rec)
	}
}

func TestEngine_ScoreRequestShaping(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Limits.MaxItems = 2
	cfg.Limits.MaxNeighborhoodSize = 40

	tests := []struct {
		name    string
		req     ScoreRequest
		wantK   int
		wantErr error
	}{
		{
			name:  "k override",
			req:   ScoreRequest{UserID: 1, ItemIDs: []int64{1}, K: intPtr(5)},
			wantK: 5,
		},
		{
			name:  "k zero override",
			req:   ScoreRequest{UserID: 1, ItemIDs: []int64{1}, K: intPtr(0)},
			wantK: 0,
		},
		{
			name:  "k clamped",
			req:   ScoreRequest{UserID: 1, ItemIDs: []int64{1}, K: intPtr(400)},
			wantK: 40,
		},
		{
			name:    "negative k",
			req:     ScoreRequest{UserID: 1, ItemIDs: []int64{1}, K: intPtr(-3)},
			wantErr: ErrInvalidNeighborhood,
		},
		{
			name:    "too many items",
			req:     ScoreRequest{UserID: 1, ItemIDs: []int64{1, 2, 3}},
			wantErr: ErrTooManyItems,
		},
		{
			name:  "duplicates count once toward the limit",
			req:   ScoreRequest{UserID: 1, ItemIDs: []int64{1, 2, 2, 1}},
			wantK: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &stubPredictor{}
			e := newTestEngine(t, p, cfg.Clone())

			_, err := e.Score(context.Background(), tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Score() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Score() error = %v", err)
			}
			if p.lastK != tt.wantK {
				t.Errorf("predictor k = %d, want %d", p.lastK, tt.wantK)
			}
		})
	}
}

func TestEngine_ScorePropagatesCollaboratorError(t *testing.T) {
	t.Parallel()

	cause := &CollaboratorError{Op: OpEnumerate, Err: errors.New("down")}
	e := newTestEngine(t, &stubPredictor{err: cause}, nil)
	rec := &recordingMetrics{}
	e.SetMetricsRecorder(rec)

	_, err := e.Score(context.Background(), ScoreRequest{UserID: 1, ItemIDs: []int64{1}})
	if !errors.Is(err, ErrCollaborator) {
		t.Errorf("Score() error = %v, want ErrCollaborator", err)
	}
	if e.Stats().Errors != 1 {
		t.Errorf("Stats().Errors = %d, want 1", e.Stats().Errors)
	}
	if rec.errors != 1 {
		t.Errorf("recorded errors = %d, want 1", rec.errors)
	}
}

func TestEngine_Neighbors(t *testing.T) {
	t.Parallel()

	centered := NewRatingVector(map[int64]float64{1: 4, 2: 2}).MeanCentered()
	p := &stubPredictor{neighbors: []Neighbor{
		{UserID: 2, Similarity: 0.5, Mean: centered.Center(), Vector: centered},
	}}
	e := newTestEngine(t, p, nil)
	rec := &recordingMetrics{}
	e.SetMetricsRecorder(rec)

	resp, err := e.Neighbors(context.Background(), 1, 1, nil)
	if err != nil {
		t.Fatalf("Neighbors() error = %v", err)
	}
	if resp.NeighborhoodSize != DefaultNeighborhoodSize {
		t.Errorf("NeighborhoodSize = %d, want %d", resp.NeighborhoodSize, DefaultNeighborhoodSize)
	}
	if len(resp.Neighbors) != 1 {
		t.Fatalf("len(Neighbors) = %d, want 1", len(resp.Neighbors))
	}
	n := resp.Neighbors[0]
	if n.UserID != 2 || n.Mean != 3 || n.Rating != 4 || n.Similarity != 0.5 {
		t.Errorf("Neighbors[0] = %+v", n)
	}
	if len(rec.neighbors) != 1 || rec.neighbors[0] != 1 {
		t.Errorf("recorded neighbors = %v, want [1]", rec.neighbors)
	}
}

func TestEngine_NeighborsCountsRequests(t *testing.T) {
	t.Parallel()

	p := &stubPredictor{err: &CollaboratorError{Op: OpHistory, UserID: 1, Err: errors.New("down")}}
	e := newTestEngine(t, p, nil)

	if _, err := e.Neighbors(context.Background(), 1, 1, nil); err == nil {
		t.Fatal("Neighbors() error = nil, want collaborator error")
	}
	if _, err := e.Neighbors(context.Background(), 1, 1, intPtr(-1)); !errors.Is(err, ErrInvalidNeighborhood) {
		t.Fatalf("Neighbors(k=-1) error = %v, want ErrInvalidNeighborhood", err)
	}
	p.err = nil
	if _, err := e.Neighbors(context.Background(), 1, 1, nil); err != nil {
		t.Fatalf("Neighbors() error = %v", err)
	}

	stats := e.Stats()
	if stats.Requests != 3 {
		t.Errorf("Stats().Requests = %d, want 3", stats.Requests)
	}
	if stats.Errors != 2 {
		t.Errorf("Stats().Errors = %d, want 2", stats.Errors)
	}
	if stats.Errors > stats.Requests {
		t.Errorf("Stats().Errors = %d exceeds Requests = %d", stats.Errors, stats.Requests)
	}
}

func TestEngine_UpdateConfig(t *testing.T) {
	e := newTestEngine(t, &stubPredictor{}, nil)

	bad := DefaultConfig()
	bad.Limits.MaxItems = 0
	if err := e.UpdateConfig(bad); err == nil {
		t.Error("UpdateConfig() accepted invalid config")
	}

	good := DefaultConfig()
	good.Neighborhood.Size = 12
	if err := e.UpdateConfig(good); err != nil {
		t.Fatalf("UpdateConfig() error = %v", err)
	}
	if got := e.GetConfig().Neighborhood.Size; got != 12 {
		t.Errorf("Neighborhood.Size = %d, want 12", got)
	}
}
