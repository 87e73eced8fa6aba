// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/okizeme/catalogus/internal/logging"
	"github.com/okizeme/catalogus/internal/metrics"
)

// ErrFetch marks any transport-level failure: connection errors,
// non-200 responses, open circuit. Callers treat it as recoverable.
var ErrFetch = errors.New("fetch failed")

// maxPayloadSize bounds a single file read. Chunks are ~600 entries of
// compressed JSON; anything past this is a server misconfiguration.
const maxPayloadSize = 32 << 20 // 32MB

// Config holds the fetcher's tuning knobs.
type Config struct {
	// BaseURL is the static host root the chunk files live under.
	BaseURL string

	// Timeout bounds a single request.
	Timeout time.Duration

	// RequestsPerSecond and Burst parameterize the outbound limiter.
	RequestsPerSecond float64
	Burst             int
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:           30 * time.Second,
		RequestsPerSecond: 8,
		Burst:             4,
	}
}

// Fetcher retrieves files relative to a base URL with circuit breaker
// and rate limiter protection. Safe for concurrent use.
type Fetcher struct {
	base    *url.URL
	client  *http.Client
	cb      *gobreaker.CircuitBreaker[[]byte]
	limiter *rate.Limiter
}

// NewFetcher builds a fetcher for cfg.BaseURL.
func NewFetcher(cfg Config) (*Fetcher, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", cfg.BaseURL, err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultConfig().RequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultConfig().Burst
	}

	metrics.FetchBreakerState.Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "catalog-host",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", stateString(from)).
				Str("to", stateString(to)).
				Msg("fetch circuit state change")
			metrics.FetchBreakerState.Set(stateFloat(to))
		},
	})

	return &Fetcher{
		base:    base,
		client:  &http.Client{Timeout: cfg.Timeout},
		cb:      cb,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}, nil
}

// Fetch retrieves one file by name relative to the base URL and returns
// its raw bytes. Every failure wraps ErrFetch.
func (f *Fetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate wait: %v", ErrFetch, err)
	}

	start := time.Now()
	body, err := f.cb.Execute(func() ([]byte, error) {
		return f.get(ctx, name)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordChunkFetch(0, "rejected")
			return nil, fmt.Errorf("%w: %v", ErrFetch, err)
		}
		metrics.RecordChunkFetch(0, "failure")
		logging.Warn().Err(err).Str("file", name).Msg("chunk fetch failed")
		return nil, err
	}

	metrics.RecordChunkFetch(time.Since(start), "success")
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, name string) ([]byte, error) {
	u, err := f.base.Parse(strings.TrimPrefix(name, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %q: %v", ErrFetch, name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrFetch, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrFetch, name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFetch, err)
	}
	if len(body) > maxPayloadSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrFetch, name, maxPayloadSize)
	}
	return body, nil
}

func stateFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
