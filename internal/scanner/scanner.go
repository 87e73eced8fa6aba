// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package scanner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okizeme/catalogus/internal/cache"
	"github.com/okizeme/catalogus/internal/catalog"
	"github.com/okizeme/catalogus/internal/codec"
	"github.com/okizeme/catalogus/internal/logging"
	"github.com/okizeme/catalogus/internal/metrics"
)

// DefaultDebounce is the window rapid query changes are coalesced in
// before a rescan fires.
const DefaultDebounce = 250 * time.Millisecond

// rescanTimeout bounds the first chunk load of a debounced rescan.
const rescanTimeout = time.Minute

// Fetcher retrieves one file by name. *fetch.Fetcher satisfies this.
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// Options tunes a scanner session.
type Options struct {
	// Debounce is the query-change coalescing window. Zero means
	// DefaultDebounce.
	Debounce time.Duration

	// Cache, when non-nil, holds decoded chunks so a rescan does not
	// refetch chunks already seen this session.
	Cache *cache.ChunkCache
}

// Scanner incrementally consumes a manifest's chunk list, filtering
// each decoded entry against the session query. One chunk load is in
// flight at a time; the loading guard rejects overlapping calls and is
// always released, success or failure.
type Scanner struct {
	fetcher  Fetcher
	cache    *cache.ChunkCache
	debounce time.Duration

	mu         sync.Mutex
	manifest   *catalog.Manifest
	queue      []catalog.ChunkRef
	cursor     int
	loading    bool
	scanned    int
	shown      int
	results    []catalog.Entry
	query      catalog.Query
	generation uint64
	timer      *time.Timer
}

// New creates a scanner session over a loaded manifest.
func New(m *catalog.Manifest, f Fetcher, opts Options) *Scanner {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	s := &Scanner{
		fetcher:  f,
		cache:    opts.Cache,
		debounce: opts.Debounce,
		manifest: m,
	}
	if m != nil {
		s.queue = m.ChunkQueue()
	}
	return s
}

// Manifest returns the manifest this session scans.
func (s *Scanner) Manifest() *catalog.Manifest {
	return s.manifest
}

// Reset clears the accumulated results, rewinds the cursor, zeroes both
// counters and re-copies the manifest's chunk queue.
func (s *Scanner) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Scanner) resetLocked() {
	s.results = nil
	s.cursor = 0
	s.scanned = 0
	s.shown = 0
	if s.manifest != nil {
		s.queue = s.manifest.ChunkQueue()
	}
}

// LoadNext consumes the next chunk in manifest order: fetch, decode,
// filter, accumulate. It is a no-op returning (false, nil) when a load
// is already in flight, no manifest is loaded, or the queue is
// exhausted. On failure the chunk is not retried automatically; the
// guard is released and a Reset re-arms the scan from the top.
func (s *Scanner) LoadNext(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.manifest == nil || s.loading || s.cursor >= len(s.queue) {
		s.mu.Unlock()
		return false, nil
	}
	s.loading = true
	ref := s.queue[s.cursor]
	s.cursor++
	gen := s.generation
	q := s.query
	s.mu.Unlock()

	entries, err := s.loadChunk(ctx, ref.File)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		return false, err
	}

	// The query changed while this chunk was in flight; its results
	// belong to a superseded filter and are dropped. The debounced
	// rescan restarts from a clean slate.
	if gen != s.generation {
		metrics.ScanGenerationsDiscarded.Inc()
		logging.Debug().
			Str("chunk", ref.File).
			Uint64("generation", gen).
			Msg("discarding stale chunk result")
		return false, nil
	}

	matched := 0
	for _, e := range entries {
		if catalog.Matches(e, q) {
			s.results = append(s.results, e)
			matched++
		}
	}
	s.scanned += len(entries)
	s.shown += matched
	metrics.RecordScanProgress(len(entries), matched)
	return true, nil
}

// SetQuery replaces the session query, bumps the generation so any
// in-flight chunk result is discarded, and schedules a debounced
// reset-and-rescan. Rapid successive changes coalesce into one rescan.
func (s *Scanner) SetQuery(q catalog.Query) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = q
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.rescan)
}

func (s *Scanner) rescan() {
	s.Reset()

	ctx, cancel := context.WithTimeout(context.Background(), rescanTimeout)
	defer cancel()
	if _, err := s.LoadNext(ctx); err != nil {
		logging.Warn().Err(err).Msg("rescan after query change failed")
	}
}

// Close stops any pending debounce timer.
func (s *Scanner) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Query returns the current session query.
func (s *Scanner) Query() catalog.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Progress returns the scanned and shown counters.
func (s *Scanner) Progress() (scanned, shown int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scanned, s.shown
}

// Results returns a copy of the matches accumulated so far.
func (s *Scanner) Results() []catalog.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]catalog.Entry(nil), s.results...)
}

// Done reports whether the queue is exhausted with no load in flight.
func (s *Scanner) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manifest != nil && s.cursor >= len(s.queue) && !s.loading
}

// Loading reports whether a chunk load is in flight.
func (s *Scanner) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// loadChunk fetches and decodes one chunk, consulting the cache first.
// Transport selection is by file extension: obfuscated chunks go
// through the full decode pipeline, everything else is plain JSON.
func (s *Scanner) loadChunk(ctx context.Context, file string) ([]catalog.Entry, error) {
	if s.cache != nil {
		if entries, ok := s.cache.Get(file); ok {
			metrics.ChunkCacheHits.Inc()
			return entries, nil
		}
		metrics.ChunkCacheMisses.Inc()
	}

	raw, err := s.fetcher.Fetch(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", file, err)
	}

	var entries []catalog.Entry
	if codec.IsObfuscated(file) {
		entries, err = codec.DecodeEntries(string(raw))
		if err != nil {
			metrics.ChunkDecodeErrors.WithLabelValues("obfuscated").Inc()
		}
	} else {
		entries, err = codec.ParseEntriesJSON(raw)
		if err != nil {
			metrics.ChunkDecodeErrors.WithLabelValues("json").Inc()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", file, err)
	}

	if s.cache != nil {
		s.cache.Add(file, entries)
	}
	return entries, nil
}
