// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package recommend

import (
	"math"
	"slices"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RatingVector is an immutable sparse mapping from item ID to rating.
//
// Keys are kept sorted so lookups are a binary search and two vectors can
// be intersected with a single merge walk. The zero value is an empty
// vector. Vectors never change after construction, so they may be shared
// freely between goroutines.
type RatingVector struct {
	keys   []int64
	values []float64

	// center is the mean that was subtracted to produce this vector.
	// It is zero for vectors built directly from ratings.
	center float64
}

// NewRatingVector builds a vector from an item -> rating map.
// Non-finite ratings are dropped.
func NewRatingVector(ratings map[int64]float64) RatingVector {
	b := NewVectorBuilder(len(ratings))
	for item, value := range ratings {
		//nolint:errcheck // builder is not frozen yet
		_ = b.Set(item, value)
	}
	return b.Freeze()
}

// Len returns the number of rated items.
func (v RatingVector) Len() int { return len(v.keys) }

// IsEmpty reports whether the vector holds no ratings.
func (v RatingVector) IsEmpty() bool { return len(v.keys) == 0 }

// Center returns the mean that was subtracted when this vector was
// produced by MeanCentered, or 0 for a raw vector.
func (v RatingVector) Center() float64 { return v.center }

func (v RatingVector) index(itemID int64) (int, bool) {
	return slices.BinarySearch(v.keys, itemID)
}

// Get returns the rating for itemID and whether it exists.
func (v RatingVector) Get(itemID int64) (float64, bool) {
	i, ok := v.index(itemID)
	if !ok {
		return 0, false
	}
	return v.values[i], true
}

// GetOrDefault returns the rating for itemID, or def when absent.
func (v RatingVector) GetOrDefault(itemID int64, def float64) float64 {
	if value, ok := v.Get(itemID); ok {
		return value
	}
	return def
}

// Contains reports whether itemID has a rating.
func (v RatingVector) Contains(itemID int64) bool {
	_, ok := v.index(itemID)
	return ok
}

// Items returns the rated item IDs in ascending order.
func (v RatingVector) Items() []int64 {
	return slices.Clone(v.keys)
}

// Mean returns the arithmetic mean of the ratings, or 0 for an empty vector.
func (v RatingVector) Mean() float64 {
	if len(v.values) == 0 {
		return 0
	}
	return stat.Mean(v.values, nil)
}

// Norm returns the Euclidean norm of the full vector.
func (v RatingVector) Norm() float64 {
	if len(v.values) == 0 {
		return 0
	}
	return floats.Norm(v.values, 2)
}

// MeanCentered returns a new vector with the mean subtracted from every
// rating. The receiver is not modified. An empty vector centers to an
// empty vector.
func (v RatingVector) MeanCentered() RatingVector {
	mean := v.Mean()
	values := make([]float64, len(v.values))
	for i, value := range v.values {
		values[i] = value - mean
	}
	return RatingVector{
		keys:   v.keys,
		values: values,
		center: v.center + mean,
	}
}

// ForEach calls fn for every rating in ascending item order.
func (v RatingVector) ForEach(fn func(itemID int64, value float64)) {
	for i, k := range v.keys {
		fn(k, v.values[i])
	}
}

// ForIntersection calls fn for every item rated in both vectors, in
// ascending item order.
func (v RatingVector) ForIntersection(other RatingVector, fn func(itemID int64, a, b float64)) {
	i, j := 0, 0
	for i < len(v.keys) && j < len(other.keys) {
		switch {
		case v.keys[i] < other.keys[j]:
			i++
		case v.keys[i] > other.keys[j]:
			j++
		default:
			fn(v.keys[i], v.values[i], other.values[j])
			i++
			j++
		}
	}
}

// ToMap returns a mutable copy of the vector as a map.
func (v RatingVector) ToMap() map[int64]float64 {
	out := make(map[int64]float64, len(v.keys))
	v.ForEach(func(itemID int64, value float64) {
		out[itemID] = value
	})
	return out
}

type builderEntry struct {
	value float64
	ts    time.Time
}

// VectorBuilder accumulates ratings and freezes them into a RatingVector.
// A builder is not safe for concurrent use.
type VectorBuilder struct {
	entries map[int64]builderEntry
	dropped int
	frozen  bool
}

// NewVectorBuilder returns a builder sized for about capacity ratings.
func NewVectorBuilder(capacity int) *VectorBuilder {
	return &VectorBuilder{entries: make(map[int64]builderEntry, capacity)}
}

// Set records a rating without a timestamp. A later Set for the same
// item replaces the earlier value.
func (b *VectorBuilder) Set(itemID int64, value float64) error {
	return b.SetAt(itemID, value, time.Time{})
}

// SetAt records a rating observed at ts. An existing rating for the same
// item is replaced unless it is strictly newer. Non-finite values are
// counted and dropped.
func (b *VectorBuilder) SetAt(itemID int64, value float64, ts time.Time) error {
	if b.frozen {
		return ErrBuilderFrozen
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		b.dropped++
		return nil
	}
	if existing, ok := b.entries[itemID]; ok && existing.ts.After(ts) {
		return nil
	}
	b.entries[itemID] = builderEntry{value: value, ts: ts}
	return nil
}

// Add records every rating of a history in order.
func (b *VectorBuilder) Add(ratings []Rating) error {
	for _, r := range ratings {
		if err := b.SetAt(r.ItemID, r.Value, r.Timestamp); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of distinct items recorded so far.
func (b *VectorBuilder) Len() int { return len(b.entries) }

// Dropped returns how many non-finite ratings were ignored.
func (b *VectorBuilder) Dropped() int { return b.dropped }

// Freeze returns the immutable vector. The builder rejects further
// writes; calling Freeze again returns an empty vector.
func (b *VectorBuilder) Freeze() RatingVector {
	if b.frozen {
		return RatingVector{}
	}
	b.frozen = true

	keys := make([]int64, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	values := make([]float64, len(keys))
	for i, k := range keys {
		values[i] = b.entries[k].value
	}
	b.entries = nil

	return RatingVector{keys: keys, values: values}
}
