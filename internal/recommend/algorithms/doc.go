// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

// Package algorithms implements user-user collaborative filtering.
//
// # Pipeline
//
// For a target user u and a set of items:
//
//  1. BuildVector fetches u's history and freezes it into a RatingVector.
//  2. Every other user's vector is built and mean-centered once per call,
//     and its cosine similarity to u's centered vector is computed.
//  3. For each item i, the users who rated i are ranked by similarity and
//     the top K form the neighborhood N(u, i).
//  4. The prediction is
//
//     score(u, i) = mean(u) + sum_{v in N} sim(u, v) * (r(v, i) - mean(v)) / sum_{v in N} |sim(u, v)|
//
//     falling back to mean(u) when the denominator is zero.
//
// # Concurrency
//
// Candidate vectors are built by a fixed pool of workers and per-item
// aggregation is split into chunks the same way. Any collaborator failure
// cancels the remaining work and is returned to the caller.
package algorithms
