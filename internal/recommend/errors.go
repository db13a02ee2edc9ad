// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrCollaborator matches any *CollaboratorError via errors.Is.
	ErrCollaborator = errors.New("collaborator failure")

	// ErrBuilderFrozen is returned when writing to a frozen VectorBuilder.
	ErrBuilderFrozen = errors.New("vector builder is frozen")

	// ErrTooManyItems is returned when a request exceeds limits.max_items.
	ErrTooManyItems = errors.New("too many items requested")

	// ErrInvalidNeighborhood is returned for a negative neighborhood size.
	ErrInvalidNeighborhood = errors.New("neighborhood size must be non-negative")
)

// CollaboratorError reports a failure of the history lookup or user
// enumeration collaborator. Scoring stops at the first such failure.
type CollaboratorError struct {
	// Op is the failed operation, "history" or "enumerate".
	Op string

	// UserID is the user whose history was requested. Zero for "enumerate".
	UserID int64

	// Err is the underlying error.
	Err error
}

// Error implements error.
func (e *CollaboratorError) Error() string {
	if e.Op == OpEnumerate {
		return fmt.Sprintf("collaborator %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("collaborator %s for user %d: %v", e.Op, e.UserID, e.Err)
}

// Unwrap returns the underlying error.
func (e *CollaboratorError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrCollaborator) true for every CollaboratorError.
func (e *CollaboratorError) Is(target error) bool { return target == ErrCollaborator }

// Collaborator operation names.
const (
	OpHistory   = "history"
	OpEnumerate = "enumerate"
)
