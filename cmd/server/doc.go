// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

/*
Package main is the entry point for the neighborly scoring server.

neighborly predicts how a user would rate items using user-user collaborative
filtering over explicit ratings and serves the predictions over a JSON API.

# Application Architecture

	RootSupervisor ("neighborly")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   ├── ImportService (STORE_IMPORT_PATH)
	│   └── CacheJanitorService (CACHE_BACKEND=lru)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Component initialization order:

 1. Configuration: koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog with JSON/console output
 3. Ratings store: memory, DuckDB, BadgerDB or MongoDB (STORE_BACKEND)
 4. Circuit breaker around the store (BREAKER_ENABLED)
 5. History cache: in-process LRU or Redis (CACHE_ENABLED, CACHE_BACKEND)
 6. Scoring engine: user-user predictor with Prometheus metrics
 7. HTTP API: chi router with CORS, rate limiting and request IDs
 8. Supervisor tree: suture v4

# Example Usage

In-memory store seeded from a MovieLens file:

	export STORE_IMPORT_PATH=./ml-latest-small/ratings.csv
	./neighborly-server

DuckDB with a Redis history cache:

	export STORE_BACKEND=duckdb
	export DUCKDB_PATH=/data/ratings.duckdb
	export CACHE_ENABLED=true
	export CACHE_BACKEND=redis
	export REDIS_ADDR=redis:6379
	./neighborly-server

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests for SERVER_SHUTDOWN_TIMEOUT before the store is closed.
*/
package main
