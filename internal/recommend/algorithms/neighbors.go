// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package algorithms

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/neighborly/internal/recommend"
)

// candidatePool holds every other user's mean-centered vector and its
// similarity to the target, ordered by ascending user ID.
type candidatePool struct {
	candidates []recommend.Neighbor
}

// Len returns the number of candidates in the pool.
func (p *candidatePool) Len() int { return len(p.candidates) }

// top returns the k most similar candidates who rated itemID, most
// similar first. Equal similarities keep ascending user-ID order.
// Fewer than k candidates are returned when fewer qualify.
func (p *candidatePool) top(itemID int64, k int) []recommend.Neighbor {
	if k <= 0 {
		return nil
	}

	raters := make([]recommend.Neighbor, 0, k)
	for i := range p.candidates {
		if p.candidates[i].Vector.Contains(itemID) {
			raters = append(raters, p.candidates[i])
		}
	}

	sort.SliceStable(raters, func(i, j int) bool {
		return raters[i].Similarity > raters[j].Similarity
	})

	if len(raters) > k {
		raters = raters[:k]
	}
	return raters
}

// buildPool enumerates users and computes the centered vector and the
// similarity against centeredTarget for each one except targetUserID.
// When onlyItem is non-nil, users who did not rate that item are skipped
// before any centering work.
func buildPool(
	ctx context.Context,
	provider recommend.DataProvider,
	workers int,
	targetUserID int64,
	centeredTarget recommend.RatingVector,
	onlyItem *int64,
) (*candidatePool, error) {
	userIDs, err := provider.AllUserIDs(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &recommend.CollaboratorError{Op: recommend.OpEnumerate, Err: err}
	}
	userIDs = candidateIDs(userIDs, targetUserID)

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	slots := make([]*recommend.Neighbor, len(userIDs))
	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)

	for _, c := range chunks(len(userIDs), workers) {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			for idx := start; idx < end; idx++ {
				if ContextCancelled(workCtx) {
					return
				}

				vec, err := BuildVector(workCtx, provider, userIDs[idx])
				if err != nil {
					errMu.Lock()
					if firstErr == nil {
						firstErr = err
						cancel()
					}
					errMu.Unlock()
					return
				}

				if onlyItem != nil && !vec.Contains(*onlyItem) {
					continue
				}

				centered := vec.MeanCentered()
				slots[idx] = &recommend.Neighbor{
					UserID:     userIDs[idx],
					Similarity: CosineSimilarity(centeredTarget, centered),
					Mean:       centered.Center(),
					Vector:     centered,
				}
			}
		}(c[0], c[1])
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pool := &candidatePool{candidates: make([]recommend.Neighbor, 0, len(slots))}
	for _, n := range slots {
		if n != nil {
			pool.candidates = append(pool.candidates, *n)
		}
	}
	return pool, nil
}

// candidateIDs drops the target and duplicates and sorts ascending.
func candidateIDs(userIDs []int64, targetUserID int64) []int64 {
	out := make([]int64, 0, len(userIDs))
	seen := make(map[int64]struct{}, len(userIDs))
	for _, id := range userIDs {
		if id == targetUserID {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SelectNeighbors returns up to k users, other than targetUserID, who
// rated itemID, ranked by the cosine similarity of their mean-centered
// vectors to the mean-centered targetVector. Users with zero or negative
// similarity are kept. Fewer than k neighbors is not an error.
func SelectNeighbors(
	ctx context.Context,
	provider recommend.DataProvider,
	itemID, targetUserID int64,
	targetVector recommend.RatingVector,
	k, workers int,
) ([]recommend.Neighbor, error) {
	if k <= 0 {
		return []recommend.Neighbor{}, nil
	}

	pool, err := buildPool(ctx, provider, workers, targetUserID, targetVector.MeanCentered(), &itemID)
	if err != nil {
		return nil, err
	}
	return pool.top(itemID, k), nil
}
