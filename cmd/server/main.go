// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

// Package main is the entry point for the Catalogus server.
//
// Catalogus serves an obfuscated media catalog through browse sessions:
// each session incrementally scans the catalog's chunk files, filters
// entries against a live query, and can produce a personalized
// recommendation ordering from learned favorites.
//
// # Startup Order
//
//  1. Configuration: Koanf v2 layered load (defaults, config.yaml, env)
//  2. Logging: zerolog from the loaded config
//  3. Favorites store: BadgerDB (or in-memory for ephemeral runs)
//  4. Fetcher: rate-limited, circuit-broken HTTP client for the catalog host
//  5. Manifest: embedded base64 blob, or legacy plain-JSON fetch
//  6. Supervisor tree: HTTP API layer + session-janitor maintenance layer
//
// # Configuration
//
// Highest priority wins:
//   - Environment variables (CATALOG_BASE_URL, HTTP_PORT, ...)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// Minimal run:
//
//	export CATALOG_BASE_URL=https://catalog.example.net
//	export STORE_IN_MEMORY=true
//	./catalogus
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server stops
// accepting connections, in-flight requests get the shutdown timeout to
// complete, then open browse sessions and the store are closed.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/okizeme/catalogus/internal/api"
	"github.com/okizeme/catalogus/internal/cache"
	"github.com/okizeme/catalogus/internal/config"
	"github.com/okizeme/catalogus/internal/fetch"
	"github.com/okizeme/catalogus/internal/logging"
	"github.com/okizeme/catalogus/internal/recommend"
	"github.com/okizeme/catalogus/internal/scanner"
	"github.com/okizeme/catalogus/internal/store"
	"github.com/okizeme/catalogus/internal/supervisor"
	"github.com/okizeme/catalogus/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("base_url", cfg.Catalog.BaseURL).
		Bool("store_in_memory", cfg.Store.InMemory).
		Msg("Configuration loaded")

	// Favorites store: Badger on disk, or in-memory for ephemeral runs.
	var featureStore recommend.FeatureStore
	var storeCloser interface{ Close() error }
	if cfg.Store.InMemory {
		featureStore = store.NewMemoryStore()
		logging.Info().Msg("Favorites store running in-memory (non-persistent)")
	} else {
		badgerStore, err := store.Open(cfg.Store.Path)
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.Store.Path).Msg("Failed to open favorites store")
		}
		featureStore = badgerStore
		storeCloser = badgerStore
		logging.Info().Str("path", cfg.Store.Path).Msg("Favorites store opened")
	}
	defer func() {
		if storeCloser == nil {
			return
		}
		if err := storeCloser.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing favorites store")
		}
	}()

	fetcher, err := fetch.NewFetcher(fetch.Config{
		BaseURL:           cfg.Catalog.BaseURL,
		Timeout:           cfg.Fetch.Timeout,
		RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
		Burst:             cfg.Fetch.Burst,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create catalog fetcher")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manifest, err := scanner.LoadManifest(ctx, scanner.ManifestSource{
		EmbeddedPath: cfg.Catalog.ManifestPath,
		LegacyFile:   cfg.Catalog.ManifestFile,
	}, fetcher)
	if err != nil {
		// Without a manifest nothing can ever be shown.
		logging.Fatal().Err(err).Msg("Failed to load catalog manifest")
	}

	// One decoded-chunk cache shared across every browse session.
	chunkCache := cache.NewChunkCache(cfg.Scanner.CacheSize, cfg.Scanner.CacheTTL)

	sessions := api.NewSessionRegistry(cfg.Scanner.SessionTTL, func() *scanner.Scanner {
		return scanner.New(&manifest, fetcher, scanner.Options{
			Debounce: cfg.Scanner.Debounce,
			Cache:    chunkCache,
		})
	})

	handler := api.NewHandler(&manifest, sessions, featureStore, cfg.Recommend)
	router := api.NewRouter(handler, &api.MiddlewareConfig{
		CORSAllowedOrigins: cfg.Server.CORSOrigins,
		CORSAllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.Server.RateLimitReqs,
		RateLimitWindow:    cfg.Server.RateLimitWindow,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	// Bridge zerolog to slog for sutureslog compatibility.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPServerService(httpServer, supervisor.DefaultTreeConfig().ShutdownTimeout))
	tree.AddMaintenanceService(sessions)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().
		Str("addr", httpServer.Addr).
		Int("chunks", len(manifest.Chunks)).
		Int("total", manifest.Total).
		Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Catalogus stopped gracefully")
}
