// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/neighborly/internal/recommend"
	"github.com/tomtom215/neighborly/internal/validation"
)

// API error codes.
const (
	CodeInvalidUserID           = "INVALID_USER_ID"
	CodeValidation              = validation.CodeValidationError
	CodeTooManyItems            = "TOO_MANY_ITEMS"
	CodeCollaboratorUnavailable = "COLLABORATOR_UNAVAILABLE"
	CodeTimeout                 = "TIMEOUT"
	CodeScoringError            = "SCORING_ERROR"
	CodeRateLimited             = "RATE_LIMIT_EXCEEDED"
	CodeNotReady                = "NOT_READY"
)

// scoringErrorStatus maps an engine error to an HTTP status, code and message.
func scoringErrorStatus(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, recommend.ErrTooManyItems):
		return http.StatusBadRequest, CodeTooManyItems, err.Error()
	case errors.Is(err, recommend.ErrInvalidNeighborhood):
		return http.StatusBadRequest, CodeValidation, err.Error()
	case errors.Is(err, recommend.ErrCollaborator):
		return http.StatusServiceUnavailable, CodeCollaboratorUnavailable, "Rating data is unavailable"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout, CodeTimeout, "Scoring did not complete in time"
	default:
		return http.StatusInternalServerError, CodeScoringError, "Failed to compute scores"
	}
}
