// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

// Package recommend implements the core of a user-user collaborative
// filtering rating predictor.
//
// # Architecture
//
// Scoring answers one question: given a target user and a set of items,
// what rating would that user most likely give each item? The answer is
// derived from the ratings of the users whose taste is most similar to the
// target user's.
//
//   - RatingVector: immutable sparse item -> rating mapping
//   - VectorBuilder: mutable accumulator that freezes into a RatingVector
//   - Neighbor: a candidate user with its mean-centered vector and similarity
//   - Engine: request shaping, limits, timeouts and logging around a Predictor
//
// The algorithms themselves (cosine similarity, neighbor selection and
// score aggregation) live in the algorithms subpackage.
//
// # Collaborators
//
// Rating data is reached through two interfaces, HistoryLookup and
// UserEnumerator. Any failure they report is surfaced to the caller as a
// *CollaboratorError; no partial results are returned and nothing is
// retried.
//
// # Usage
//
//	scorer, err := algorithms.NewUserUser(provider, algorithms.DefaultUserUserConfig())
//	engine, err := recommend.NewEngine(scorer, recommend.DefaultConfig(), logger)
//
//	resp, err := engine.Score(ctx, recommend.ScoreRequest{
//	    UserID:  42,
//	    ItemIDs: []int64{10, 11, 12},
//	})
//
// # Thread Safety
//
// RatingVector values are immutable and safe to share between goroutines.
// The Engine and the algorithms hold no per-request mutable state and are
// safe for concurrent use.
//
// # References
//
//   - Resnick et al., "GroupLens: An Open Architecture for Collaborative
//     Filtering of Netnews" (1994)
//   - Herlocker et al., "An Algorithmic Framework for Performing
//     Collaborative Filtering" (1999)
package recommend
