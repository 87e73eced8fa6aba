// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package api

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okizeme/catalogus/internal/logging"
	"github.com/okizeme/catalogus/internal/metrics"
	"github.com/okizeme/catalogus/internal/scanner"
)

// DefaultSessionTTL is how long an idle browse session is kept before
// the janitor reaps it.
const DefaultSessionTTL = time.Hour

// janitorInterval is how often idle sessions are swept.
const janitorInterval = time.Minute

// Session is one server-side browse session: a ChunkScanner addressed
// by UUID.
type Session struct {
	ID      string
	Scanner *scanner.Scanner

	lastSeen time.Time
}

// SessionRegistry owns the live browse sessions. Every access refreshes
// the session's idle clock; the janitor removes sessions idle past the
// TTL. Safe for concurrent use.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration

	// newScanner builds the scanner for a fresh session.
	newScanner func() *scanner.Scanner

	// now is injectable for tests.
	now func() time.Time
}

// NewSessionRegistry creates a registry. A non-positive ttl falls back
// to DefaultSessionTTL.
func NewSessionRegistry(ttl time.Duration, newScanner func() *scanner.Scanner) *SessionRegistry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionRegistry{
		sessions:   make(map[string]*Session),
		ttl:        ttl,
		newScanner: newScanner,
		now:        time.Now,
	}
}

// Create starts a new browse session and returns it.
func (r *SessionRegistry) Create() *Session {
	s := &Session{
		ID:      uuid.New().String(),
		Scanner: r.newScanner(),
	}

	r.mu.Lock()
	s.lastSeen = r.now()
	r.sessions[s.ID] = s
	total := len(r.sessions)
	r.mu.Unlock()

	metrics.ActiveScanSessions.Set(float64(total))
	logging.Debug().Str("session_id", s.ID).Int("active", total).Msg("browse session created")
	return s
}

// Get returns the session and refreshes its idle clock.
func (r *SessionRegistry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if ok {
		s.lastSeen = r.now()
	}
	return s, ok
}

// Remove closes and deletes a session. Returns false when the id is
// unknown.
func (r *SessionRegistry) Remove(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	total := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return false
	}
	s.Scanner.Close()
	metrics.ActiveScanSessions.Set(float64(total))
	return true
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// PruneIdle removes sessions idle past the TTL and returns how many
// were reaped.
func (r *SessionRegistry) PruneIdle() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var reaped []*Session
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			reaped = append(reaped, s)
			delete(r.sessions, id)
		}
	}
	total := len(r.sessions)
	r.mu.Unlock()

	for _, s := range reaped {
		s.Scanner.Close()
	}
	if len(reaped) > 0 {
		metrics.ActiveScanSessions.Set(float64(total))
		logging.Info().Int("reaped", len(reaped)).Int("active", total).Msg("idle browse sessions reaped")
	}
	return len(reaped)
}

// Serve runs the idle-session janitor until the context is canceled.
// It satisfies suture.Service so the registry runs under the
// supervision tree.
func (r *SessionRegistry) Serve(ctx context.Context) error {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.PruneIdle()
		}
	}
}

// String names the service in supervisor logs.
func (r *SessionRegistry) String() string {
	return "session-registry"
}
