// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/okizeme/catalogus/internal/recommend"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/catalogus/config.yaml",
	"/etc/catalogus/config.yml",
}

// ConfigPathEnvVar overrides the config file search.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults, applied before the file
// and environment layers.
func defaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			ManifestPath: "",
			ManifestFile: "search_index.json",
			BaseURL:      "",
		},
		Scanner: ScannerConfig{
			Debounce:   250 * time.Millisecond,
			CacheSize:  64,
			CacheTTL:   30 * time.Minute,
			SessionTTL: time.Hour,
		},
		Store: StoreConfig{
			Path:     "/data/catalogus/favorites",
			InMemory: false,
		},
		Fetch: FetchConfig{
			Timeout:           30 * time.Second,
			RequestsPerSecond: 8,
			Burst:             4,
		},
		Recommend: recommend.DefaultWeights(),
		Server: ServerConfig{
			Port:            3861,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from three layers: struct defaults, an
// optional YAML file, then environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when they arrive
// as env-var strings.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf paths.
// Unmapped variables are skipped so stray environment does not pollute
// the configuration.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Catalog source
		"catalog_manifest_path": "catalog.manifest_path",
		"catalog_manifest_file": "catalog.manifest_file",
		"catalog_base_url":      "catalog.base_url",

		// Scanner
		"scanner_debounce":    "scanner.debounce",
		"scanner_cache_size":  "scanner.cache_size",
		"scanner_cache_ttl":   "scanner.cache_ttl",
		"scanner_session_ttl": "scanner.session_ttl",

		// Favorites store
		"store_path":      "store.path",
		"store_in_memory": "store.in_memory",

		// Fetcher
		"fetch_timeout":             "fetch.timeout",
		"fetch_requests_per_second": "fetch.requests_per_second",
		"fetch_burst":               "fetch.burst",

		// Recommendation tuning
		"recommend_tag_weight":           "recommend.tag",
		"recommend_performer_weight":     "recommend.performer",
		"recommend_maker_weight":         "recommend.maker",
		"recommend_series_weight":        "recommend.series",
		"recommend_label_weight":         "recommend.label",
		"recommend_favorite_penalty":     "recommend.favorite_penalty",
		"recommend_jitter":               "recommend.jitter",
		"recommend_base_related":         "recommend.base_related",
		"recommend_related_per_favorite": "recommend.related_per_favorite",
		"recommend_max_related":          "recommend.max_related",

		// Server
		"http_port":           "server.port",
		"http_host":           "server.host",
		"http_timeout":        "server.timeout",
		"cors_origins":        "server.cors_origins",
		"rate_limit_requests": "server.rate_limit_reqs",
		"rate_limit_window":   "server.rate_limit_window",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
