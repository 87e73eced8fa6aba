// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package config

import (
	"fmt"
	"time"

	"github.com/okizeme/catalogus/internal/recommend"
)

// Config holds all application configuration. Immutable after Load and
// safe for concurrent reads.
type Config struct {
	Catalog   CatalogConfig     `koanf:"catalog"`
	Scanner   ScannerConfig     `koanf:"scanner"`
	Store     StoreConfig       `koanf:"store"`
	Fetch     FetchConfig       `koanf:"fetch"`
	Recommend recommend.Weights `koanf:"recommend"`
	Server    ServerConfig      `koanf:"server"`
	Logging   LoggingConfig     `koanf:"logging"`
}

// CatalogConfig locates the manifest and chunk files.
//
// Environment Variables:
//   - CATALOG_MANIFEST_PATH: local file holding the base64 manifest blob
//   - CATALOG_MANIFEST_FILE: legacy plain-JSON manifest name on the host
//   - CATALOG_BASE_URL: static host root the chunk files live under
type CatalogConfig struct {
	// ManifestPath is a local file containing the embedded base64
	// manifest blob. Preferred over the legacy fetch when set.
	ManifestPath string `koanf:"manifest_path"`

	// ManifestFile is the legacy plain-JSON manifest name fetched from
	// BaseURL when no embedded blob is configured.
	ManifestFile string `koanf:"manifest_file"`

	// BaseURL is the static host root chunk files are fetched from.
	BaseURL string `koanf:"base_url"`
}

// ScannerConfig tunes the per-session chunk scan.
type ScannerConfig struct {
	// Debounce is the query-change coalescing window.
	Debounce time.Duration `koanf:"debounce"`

	// CacheSize and CacheTTL bound the decoded-chunk cache.
	CacheSize int           `koanf:"cache_size"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`

	// SessionTTL is how long an idle browse session is kept alive.
	SessionTTL time.Duration `koanf:"session_ttl"`
}

// StoreConfig locates the favorites store.
type StoreConfig struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string `koanf:"path"`

	// InMemory keeps favorites in a non-persistent store. Useful for
	// tests and ephemeral deployments.
	InMemory bool `koanf:"in_memory"`
}

// FetchConfig tunes the outbound HTTP fetcher.
type FetchConfig struct {
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig holds zerolog settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the loaded configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url is required")
	}
	if c.Catalog.ManifestPath == "" && c.Catalog.ManifestFile == "" {
		return fmt.Errorf("one of catalog.manifest_path or catalog.manifest_file is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Scanner.Debounce <= 0 {
		return fmt.Errorf("scanner.debounce must be positive")
	}
	if c.Scanner.CacheSize < 0 {
		return fmt.Errorf("scanner.cache_size must not be negative")
	}
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store.path is required unless store.in_memory is set")
	}
	if c.Fetch.RequestsPerSecond <= 0 {
		return fmt.Errorf("fetch.requests_per_second must be positive")
	}
	if err := validateWeights(c.Recommend); err != nil {
		return err
	}
	switch c.Logging.Level {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q not recognized", c.Logging.Level)
	}
	return nil
}

func validateWeights(w recommend.Weights) error {
	if w.FavoritePenalty < 0 {
		return fmt.Errorf("recommend.favorite_penalty must not be negative")
	}
	if w.Jitter < 0 {
		return fmt.Errorf("recommend.jitter must not be negative")
	}
	if w.BaseRelated < 0 || w.BaseRelated > 1 {
		return fmt.Errorf("recommend.base_related must be in [0,1]")
	}
	if w.MaxRelated < 0 || w.MaxRelated > 1 {
		return fmt.Errorf("recommend.max_related must be in [0,1]")
	}
	if w.MaxRelated < w.BaseRelated {
		return fmt.Errorf("recommend.max_related must not be below base_related")
	}
	return nil
}
