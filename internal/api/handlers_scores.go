// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/neighborly/internal/logging"
	"github.com/tomtom215/neighborly/internal/recommend"
)

// ScoreRequestBody is the body of POST /api/v1/scores.
type ScoreRequestBody struct {
	UserID  *int64  `json:"user_id" validate:"required"`
	ItemIDs []int64 `json:"item_ids" validate:"required"`
	K       *int    `json:"k,omitempty" validate:"omitempty,gte=0"`
}

// userScoresQuery holds the query of GET /api/v1/users/{userID}/scores.
type userScoresQuery struct {
	ItemIDs []int64 `json:"items" validate:"min=1"`
	K       *int    `json:"k" validate:"omitempty,gte=0"`
}

// neighborsQuery holds the query of GET /api/v1/users/{userID}/neighbors.
type neighborsQuery struct {
	ItemID *int64 `json:"item" validate:"required"`
	K      *int   `json:"k" validate:"omitempty,gte=0"`
}

// Scores handles POST /api/v1/scores.
func (h *Handler) Scores(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var body ScoreRequestBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, "Invalid JSON body", err)
		return
	}
	if apiErr := validateRequest(&body); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	h.score(w, r, start, recommend.ScoreRequest{
		UserID:    *body.UserID,
		ItemIDs:   body.ItemIDs,
		K:         body.K,
		RequestID: logging.RequestIDFromContext(r.Context()),
	})
}

// UserScores handles GET /api/v1/users/{userID}/scores?items=1,2,3&k=30.
func (h *Handler) UserScores(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := userIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidUserID, "Invalid user ID", nil)
		return
	}

	items, err := parseIDList(r.URL.Query().Get("items"))
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, "items: "+err.Error(), nil)
		return
	}
	k, err := optionalIntParam(r, "k")
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}

	q := userScoresQuery{ItemIDs: items, K: k}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	h.score(w, r, start, recommend.ScoreRequest{
		UserID:    userID,
		ItemIDs:   q.ItemIDs,
		K:         q.K,
		RequestID: logging.RequestIDFromContext(r.Context()),
	})
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (h *Handler) score(w http.ResponseWriter, r *http.Request, start time.Time, req recommend.ScoreRequest) {
	resp, err := h.engine.Score(r.Context(), req)
	if err != nil {
		status, code, message := scoringErrorStatus(err)
		respondError(w, status, code, message, err)
		return
	}
	respondSuccess(w, r, resp, start)
}

// UserNeighbors handles GET /api/v1/users/{userID}/neighbors?item=X&k=30.
func (h *Handler) UserNeighbors(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := userIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidUserID, "Invalid user ID", nil)
		return
	}

	var q neighborsQuery
	if raw := r.URL.Query().Get("item"); raw != "" {
		ids, err := parseIDList(raw)
		if err != nil || len(ids) != 1 {
			respondError(w, http.StatusBadRequest, CodeValidation, "item must be a single integer ID", nil)
			return
		}
		q.ItemID = &ids[0]
	}
	if q.K, err = optionalIntParam(r, "k"); err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	resp, err := h.engine.Neighbors(r.Context(), userID, *q.ItemID, q.K)
	if err != nil {
		status, code, message := scoringErrorStatus(err)
		respondError(w, status, code, message, err)
		return
	}
	respondSuccess(w, r, resp, start)
}
