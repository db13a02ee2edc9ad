// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

// Package testinfra starts throwaway Redis and MongoDB containers for
// integration tests using testcontainers-go.
//
// Everything except this file is behind the integration build tag:
//
//	go test -tags integration ./internal/store/... ./internal/cache/...
//
// Tests call SkipIfNoDocker first so they skip cleanly on machines without a
// Docker daemon:
//
//	func TestRedisBackend(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    redisC, err := testinfra.NewRedisContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, redisC)
//	    // connect to redisC.Addr
//	}
//
// The first run pulls the images; later runs use the local cache.
package testinfra
