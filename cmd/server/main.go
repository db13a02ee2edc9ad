// Neighborly - User-User Collaborative Filtering Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/neighborly

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/neighborly/internal/api"
	"github.com/tomtom215/neighborly/internal/config"
	"github.com/tomtom215/neighborly/internal/logging"
	"github.com/tomtom215/neighborly/internal/store"
	"github.com/tomtom215/neighborly/internal/supervisor"
	"github.com/tomtom215/neighborly/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Neighborly failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(cfg.LoggingSettings())

	logging.Info().
		Str("version", version).
		Str("store", cfg.Store.Backend).
		Bool("cache", cfg.Cache.Enabled).
		Bool("breaker", cfg.Breaker.Enabled).
		Msg("Starting neighborly")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scoring, err := initScoring(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := scoring.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing scoring components")
		}
	}()

	handlerCfg := api.HandlerConfig{
		Engine:  scoring.Engine,
		Store:   scoring.Store,
		Cache:   scoring.CacheName,
		Version: version,
	}
	if scoring.Breaker != nil {
		handlerCfg.Breaker = scoring.Breaker
	}
	handler, err := api.NewHandler(handlerCfg)
	if err != nil {
		return fmt.Errorf("create API handler: %w", err)
	}

	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	// === SUPERVISOR TREE ===

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	if path := cfg.Store.ImportPath; path != "" {
		tree.AddMaintenanceService(services.NewImportService(path, func(ctx context.Context) (store.LoadStats, error) {
			return scoring.importRatings(ctx, path)
		}))
		logging.Info().Str("path", path).Msg("Ratings import scheduled")
	}
	if scoring.LRU != nil {
		tree.AddMaintenanceService(services.NewCacheJanitorService(
			scoring.LRU, cfg.Cache.CleanupInterval, logging.WithComponent("cache")))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := <-tree.ServeBackground(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Neighborly stopped")
	return nil
}
