// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/neighborly/internal/config"
	"github.com/tomtom215/neighborly/internal/testinfra"
)

func TestMongoBackend(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	mongoC, err := testinfra.NewMongoContainer(ctx)
	if err != nil {
		t.Fatalf("NewMongoContainer() error = %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, mongoC)

	// Each subtest gets its own collection.
	runBackendSuite(t, func(t *testing.T) Store {
		t.Helper()
		s, err := OpenMongo(ctx, config.MongoConfig{
			URI:        mongoC.URI,
			Database:   "neighborly_test",
			Collection: "ratings_" + uuid.NewString(),
			Timeout:    10 * time.Second,
		})
		if err != nil {
			t.Fatalf("OpenMongo() error = %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestOpenMongoViaConfig(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	mongoC, err := testinfra.NewMongoContainer(ctx)
	if err != nil {
		t.Fatalf("NewMongoContainer() error = %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, mongoC)

	s, err := Open(ctx, &config.StoreConfig{
		Backend: config.BackendMongo,
		Mongo: config.MongoConfig{
			URI:        mongoC.URI,
			Database:   "neighborly_test",
			Collection: "ratings_open",
			Timeout:    10 * time.Second,
		},
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	if s.Name() != config.BackendMongo {
		t.Errorf("Name() = %q, want %q", s.Name(), config.BackendMongo)
	}
	if err := s.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
