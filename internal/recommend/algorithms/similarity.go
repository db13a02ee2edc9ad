// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package algorithms

import (
	"github.com/tomtom215/neighborly/internal/recommend"
)

// CosineSimilarity returns the cosine of the angle between a and b.
//
// The dot product runs over the items both vectors rated, while each norm
// covers the whole vector it belongs to. Callers center the vectors
// beforehand; nothing is centered here. The result is 0 when either
// vector has zero norm.
func CosineSimilarity(a, b recommend.RatingVector) float64 {
	normA := a.Norm()
	normB := b.Norm()
	if normA == 0 || normB == 0 {
		return 0
	}

	var dot float64
	a.ForIntersection(b, func(_ int64, x, y float64) {
		dot += x * y
	})

	return dot / (normA * normB)
}
