// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package algorithms

import (
	"context"
	"errors"
	"math"
	"sync/atomic"

	"github.com/tomtom215/neighborly/internal/recommend"
)

var errBackend = errors.New("backend unavailable")

// fakeProvider serves fixed histories and can inject failures.
type fakeProvider struct {
	histories    map[int64]map[int64]float64
	failHistory  map[int64]bool
	failEnum     bool
	historyCalls atomic.Int64
	enumCalls    atomic.Int64
}

func newFakeProvider(histories map[int64]map[int64]float64) *fakeProvider {
	return &fakeProvider{histories: histories, failHistory: map[int64]bool{}}
}

func (f *fakeProvider) GetRatingHistory(ctx context.Context, userID int64) ([]recommend.Rating, error) {
	f.historyCalls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.failHistory[userID] {
		return nil, errBackend
	}
	out := make([]recommend.Rating, 0, len(f.histories[userID]))
	for item, value := range f.histories[userID] {
		out = append(out, recommend.Rating{ItemID: item, Value: value})
	}
	return out, nil
}

func (f *fakeProvider) AllUserIDs(ctx context.Context) ([]int64, error) {
	f.enumCalls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.failEnum {
		return nil, errBackend
	}
	ids := make([]int64, 0, len(f.histories))
	for id := range f.histories {
		ids = append(ids, id)
	}
	return ids, nil
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func vec(m map[int64]float64) recommend.RatingVector {
	return recommend.NewRatingVector(m)
}
