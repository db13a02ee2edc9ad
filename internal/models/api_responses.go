// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

// Package models holds the wire types shared by the HTTP API and its clients.
package models

import "time"

// APIResponse is the envelope of every API response.
//
// Example success response:
//
//	{
//	  "status": "success",
//	  "data": {"scores": {"40": 5.75}, ...},
//	  "metadata": {"timestamp": "2026-01-15T10:30:00Z", "query_time_ms": 12}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "metadata": {"timestamp": "2026-01-15T10:30:00Z"},
//	  "error": {"code": "TOO_MANY_ITEMS", "message": "..."}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response timing information.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError is a machine-readable error.
//
// Error codes:
//   - INVALID_USER_ID: user ID path parameter is not an integer
//   - VALIDATION_ERROR: request body or query parameters are invalid
//   - TOO_MANY_ITEMS: more distinct items than the configured limit
//   - COLLABORATOR_UNAVAILABLE: the rating store failed or is tripped open
//   - TIMEOUT: scoring exceeded the prediction timeout
//   - SCORING_ERROR: any other scoring failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
