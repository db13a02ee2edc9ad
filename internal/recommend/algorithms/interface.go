// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package algorithms

import (
	"context"

	"github.com/tomtom215/neighborly/internal/recommend"
)

// Compile-time interface compliance checks.
var (
	_ recommend.Predictor = (*UserUser)(nil)
)

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// chunks splits n indexes into at most workers contiguous [start, end) ranges.
func chunks(n, workers int) [][2]int {
	if n == 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}
	chunkSize := (n + workers - 1) / workers

	out := make([][2]int, 0, workers)
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			break
		}
		out = append(out, [2]int{start, end})
	}
	return out
}
