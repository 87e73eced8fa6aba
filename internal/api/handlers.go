// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/okizeme/catalogus/internal/catalog"
	"github.com/okizeme/catalogus/internal/logging"
	"github.com/okizeme/catalogus/internal/metrics"
	"github.com/okizeme/catalogus/internal/recommend"
)

// Handler carries the dependencies of all HTTP handlers.
type Handler struct {
	manifest *catalog.Manifest
	sessions *SessionRegistry
	store    recommend.FeatureStore
	weights  recommend.Weights
	validate *validator.Validate

	// now is injectable so the shorts feed is deterministic in tests.
	now func() time.Time
}

// NewHandler creates the handler set.
func NewHandler(m *catalog.Manifest, sessions *SessionRegistry, store recommend.FeatureStore, weights recommend.Weights) *Handler {
	return &Handler{
		manifest: m,
		sessions: sessions,
		store:    store,
		weights:  weights,
		validate: validator.New(),
		now:      time.Now,
	}
}

// ---- Health ----

// HealthLive reports process liveness.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady reports readiness: the manifest must be loaded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.manifest == nil {
		rw.ServiceUnavailable("catalog manifest not loaded")
		return
	}
	rw.Success(map[string]string{"status": "ready"})
}

// Health reports overall status with catalog shape and session count.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.manifest == nil {
		rw.ServiceUnavailable("catalog manifest not loaded")
		return
	}
	rw.Success(map[string]interface{}{
		"status":          "ok",
		"catalog_total":   h.manifest.Total,
		"catalog_chunks":  len(h.manifest.Chunks),
		"active_sessions": h.sessions.Len(),
	})
}

// ---- Catalog vocabularies ----

// Catalog returns the manifest vocabularies the rendering layer builds
// its filter chips from.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.manifest == nil {
		rw.ServiceUnavailable("catalog manifest not loaded")
		return
	}
	rw.Success(map[string]interface{}{
		"generated_at": h.manifest.GeneratedAt,
		"total":        h.manifest.Total,
		"chunk_size":   h.manifest.ChunkSize,
		"chunks":       len(h.manifest.Chunks),
		"popular_tags": h.manifest.PopularTags,
		"makers":       h.manifest.Makers,
		"series":       h.manifest.Series,
	})
}

// ---- Browse sessions ----

// SessionCreate starts a browse session.
func (h *Handler) SessionCreate(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.manifest == nil {
		rw.ServiceUnavailable("catalog manifest not loaded")
		return
	}
	s := h.sessions.Create()
	rw.Created(map[string]string{"session_id": s.ID})
}

// SessionStatus reports the session's query and scan progress.
func (h *Handler) SessionStatus(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	s, ok := h.session(r)
	if !ok {
		rw.NotFound("unknown session")
		return
	}

	scanned, shown := s.Scanner.Progress()
	rw.Success(map[string]interface{}{
		"session_id": s.ID,
		"query":      s.Scanner.Query(),
		"scanned":    scanned,
		"shown":      shown,
		"done":       s.Scanner.Done(),
		"loading":    s.Scanner.Loading(),
	})
}

// SessionQuery replaces the session's filter state. The scanner
// debounces the rescan; rapid changes coalesce.
func (h *Handler) SessionQuery(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	s, ok := h.session(r)
	if !ok {
		rw.NotFound("unknown session")
		return
	}

	var req QueryRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		rw.ValidationError(err.Error(), validationDetails(err))
		return
	}

	s.Scanner.SetQuery(req.Query())
	rw.Success(map[string]interface{}{
		"session_id": s.ID,
		"query":      req.Query(),
	})
}

// SessionMore loads the next chunk. This is the visibility signal: the
// rendering layer calls it when its sentinel scrolls into view.
func (h *Handler) SessionMore(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	s, ok := h.session(r)
	if !ok {
		rw.NotFound("unknown session")
		return
	}

	progressed, err := s.Scanner.LoadNext(r.Context())
	if err != nil {
		logging.CtxErr(r.Context(), err).Str("session_id", s.ID).Msg("chunk load failed")
		rw.FetchError(err)
		return
	}

	scanned, shown := s.Scanner.Progress()
	rw.Success(map[string]interface{}{
		"progressed": progressed,
		"scanned":    scanned,
		"shown":      shown,
		"done":       s.Scanner.Done(),
		"loading":    s.Scanner.Loading(),
	})
}

// SessionResults returns the entries matched so far, in scan order.
func (h *Handler) SessionResults(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	s, ok := h.session(r)
	if !ok {
		rw.NotFound("unknown session")
		return
	}

	results := s.Scanner.Results()
	scanned, shown := s.Scanner.Progress()
	rw.Success(map[string]interface{}{
		"entries": results,
		"scanned": scanned,
		"shown":   shown,
		"done":    s.Scanner.Done(),
	})
}

// SessionShorts returns the session's matched entries reordered by the
// personalized daily shuffle.
func (h *Handler) SessionShorts(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	s, ok := h.session(r)
	if !ok {
		rw.NotFound("unknown session")
		return
	}

	favorites, err := h.store.ListFavoriteIDs()
	metrics.RecordStoreOperation("list", err)
	if err != nil {
		rw.StoreError(err)
		return
	}

	// The ranker's candidate list is assembled newest-first so the
	// exploration pool's cursor walks recent releases before old ones.
	entries := s.Scanner.Results()
	catalog.SortNewestFirst(entries)

	start := time.Now()
	ordered, err := recommend.RecommendOrder(entries, favorites, h.store, h.weights, h.now())
	if err != nil {
		rw.StoreError(err)
		return
	}
	metrics.RecommendDuration.Observe(time.Since(start).Seconds())

	if limit := parseLimit(r); limit > 0 && limit < len(ordered) {
		ordered = ordered[:limit]
	}
	rw.Success(map[string]interface{}{
		"entries":        ordered,
		"favorite_count": len(favorites),
	})
}

// SessionDelete ends a browse session.
func (h *Handler) SessionDelete(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.sessions.Remove(chi.URLParam(r, "id")) {
		rw.NotFound("unknown session")
		return
	}
	rw.NoContent()
}

func (h *Handler) session(r *http.Request) (*Session, bool) {
	return h.sessions.Get(chi.URLParam(r, "id"))
}

// ---- Favorites ----

// FavoritesList returns the favorited entry ids.
func (h *Handler) FavoritesList(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ids, err := h.store.ListFavoriteIDs()
	metrics.RecordStoreOperation("list", err)
	if err != nil {
		rw.StoreError(err)
		return
	}
	rw.Success(map[string]interface{}{
		"favorites": ids,
		"count":     len(ids),
	})
}

// FavoritePut favorites an entry, storing its learned feature snapshot.
func (h *Handler) FavoritePut(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > 120 {
		rw.BadRequest("entry id required")
		return
	}

	var req FavoriteRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		rw.ValidationError(err.Error(), validationDetails(err))
		return
	}

	err := h.store.SetLearnedFeatures(id, req.Features())
	metrics.RecordStoreOperation("set", err)
	if err != nil {
		rw.StoreError(err)
		return
	}

	logging.Ctx(r.Context()).Debug().Str("entry_id", id).Msg("favorite stored")
	rw.Created(map[string]string{"id": id})
}

// FavoriteDelete unfavorites an entry, forgetting its snapshot.
func (h *Handler) FavoriteDelete(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id := chi.URLParam(r, "id")
	if id == "" {
		rw.BadRequest("entry id required")
		return
	}

	err := h.store.RemoveLearnedFeatures(id)
	metrics.RecordStoreOperation("remove", err)
	if err != nil {
		rw.StoreError(err)
		return
	}
	rw.NoContent()
}

func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
