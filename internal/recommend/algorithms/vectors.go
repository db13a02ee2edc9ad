// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package algorithms

import (
	"context"

	"github.com/tomtom215/neighborly/internal/recommend"
)

// BuildVector fetches userID's rating history and returns it as a
// RatingVector. A user without history yields an empty vector.
//
// Lookup failures are returned as *recommend.CollaboratorError. A
// canceled or expired context is returned unchanged.
func BuildVector(ctx context.Context, lookup recommend.HistoryLookup, userID int64) (recommend.RatingVector, error) {
	history, err := lookup.GetRatingHistory(ctx, userID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return recommend.RatingVector{}, ctxErr
		}
		return recommend.RatingVector{}, &recommend.CollaboratorError{
			Op:     recommend.OpHistory,
			UserID: userID,
			Err:    err,
		}
	}

	b := recommend.NewVectorBuilder(len(history))
	if err := b.Add(history); err != nil {
		return recommend.RatingVector{}, err
	}
	return b.Freeze(), nil
}
