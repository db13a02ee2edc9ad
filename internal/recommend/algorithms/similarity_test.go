// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package algorithms

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    map[int64]float64
		b    map[int64]float64
		want float64
	}{
		{
			name: "identical vectors",
			a:    map[int64]float64{1: 1, 2: 2, 3: 3},
			b:    map[int64]float64{1: 1, 2: 2, 3: 3},
			want: 1,
		},
		{
			name: "opposite vectors",
			a:    map[int64]float64{1: 1, 2: -1},
			b:    map[int64]float64{1: -1, 2: 1},
			want: -1,
		},
		{
			name: "no shared items",
			a:    map[int64]float64{1: 1},
			b:    map[int64]float64{2: 1},
			want: 0,
		},
		{
			name: "norms cover the full vectors",
			a:    map[int64]float64{1: 1, 2: 1},
			b:    map[int64]float64{1: 1},
			want: 1 / math.Sqrt2,
		},
		{
			name: "zero norm yields zero",
			a:    map[int64]float64{1: 0, 2: 0},
			b:    map[int64]float64{1: 3, 2: 4},
			want: 0,
		},
		{
			name: "empty vector yields zero",
			a:    map[int64]float64{},
			b:    map[int64]float64{1: 3},
			want: 0,
		},
		{
			name: "mean-centered overlap",
			a:    map[int64]float64{1: 1, 2: -1, 3: 0},
			b:    map[int64]float64{1: 0.75, 2: -1.25, 3: -1.25, 4: 1.75},
			want: 2 / (math.Sqrt2 * math.Sqrt(6.75)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := CosineSimilarity(vec(tt.a), vec(tt.b))
			if !approxEqual(got, tt.want) {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
			if rev := CosineSimilarity(vec(tt.b), vec(tt.a)); !approxEqual(rev, got) {
				t.Errorf("CosineSimilarity() not symmetric: %v vs %v", got, rev)
			}
		})
	}
}

func TestCosineSimilarity_DoesNotCenter(t *testing.T) {
	t.Parallel()

	// Raw positive ratings always give a positive cosine.
	a := vec(map[int64]float64{1: 5, 2: 1})
	b := vec(map[int64]float64{1: 1, 2: 5})

	got := CosineSimilarity(a, b)
	want := 10.0 / 26.0
	if !approxEqual(got, want) {
		t.Errorf("CosineSimilarity() = %v, want %v", got, want)
	}
}
