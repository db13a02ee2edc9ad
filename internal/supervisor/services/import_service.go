// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package services

import (
	"context"
	"fmt"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/neighborly/internal/logging"
	"github.com/tomtom215/neighborly/internal/store"
)

// ImportFunc loads one ratings file. store.ImportFile satisfies it once
// bound to a writer, path and batch size.
type ImportFunc func(ctx context.Context) (store.LoadStats, error)

// ImportService seeds the ratings store from a file on startup.
//
// A failed import is returned to the supervisor, which retries it with
// backoff. Imports are idempotent because the store keeps the latest rating
// per (user, item). After a successful import the service returns
// suture.ErrDoNotRestart.
type ImportService struct {
	path   string
	run    ImportFunc
	result chan store.LoadStats
}

// NewImportService creates an import service for path.
func NewImportService(path string, run ImportFunc) *ImportService {
	return &ImportService{
		path:   path,
		run:    run,
		result: make(chan store.LoadStats, 1),
	}
}

// NewFileImportService imports path into w using store.ImportFile.
func NewFileImportService(w store.Writer, path string, batchSize int) *ImportService {
	return NewImportService(path, func(ctx context.Context) (store.LoadStats, error) {
		return store.ImportFile(ctx, w, path, batchSize)
	})
}

// Serve implements suture.Service.
func (s *ImportService) Serve(ctx context.Context) error {
	logging.Info().Str("path", s.path).Msg("Importing ratings")

	stats, err := s.run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			logging.Info().Msg("Import canceled due to shutdown")
			return ctx.Err()
		}
		return fmt.Errorf("import %s: %w", s.path, err)
	}

	select {
	case s.result <- stats:
	default:
	}
	return suture.ErrDoNotRestart
}

// Done delivers the stats of the successful import.
func (s *ImportService) Done() <-chan store.LoadStats {
	return s.result
}

func (s *ImportService) String() string {
	return "ratings-import"
}
