// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/okizeme/catalogus/internal/catalog"
	"github.com/okizeme/catalogus/internal/recommend"
	"github.com/okizeme/catalogus/internal/scanner"
	"github.com/okizeme/catalogus/internal/store"
)

// testFetcher serves plain-JSON chunks from memory.
type testFetcher struct {
	mu    sync.Mutex
	files map[string][]byte
	fail  bool
}

func (f *testFetcher) Fetch(_ context.Context, name string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("host down")
	}
	body, ok := f.files[name]
	if !ok {
		return nil, fmt.Errorf("no such file %s", name)
	}
	return body, nil
}

func testEntry(id, title, maker string, tags ...string) catalog.Entry {
	return catalog.Entry{
		ID:    id,
		Title: title,
		Maker: maker,
		Path:  "works/" + id + "/",
		Tags:  tags,
	}
}

type apiFixture struct {
	server  *httptest.Server
	fetcher *testFetcher
	store   *store.MemoryStore
	handler *Handler

	// entries holds the catalog content in scan order.
	entries []catalog.Entry
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	entriesA := []catalog.Entry{
		testEntry("w1", "Harbor Nights", "Eastpier", "vr"),
		testEntry("w2", "City Lines", "Northlight"),
	}
	entriesA[0].ReleaseDate = "2025-01-10"
	entriesA[1].ReleaseDate = "2026-03-05 10:00"
	entriesB := []catalog.Entry{
		testEntry("w3", "Harbor Dawn", "Eastpier"),
	}
	entriesB[0].ReleaseDate = "2024-12-01"
	chunkA, _ := json.Marshal(entriesA)
	chunkB, _ := json.Marshal(entriesB)

	f := &testFetcher{files: map[string][]byte{
		"a.json": chunkA,
		"b.json": chunkB,
	}}

	m := &catalog.Manifest{
		Version:   catalog.ManifestVersion,
		Total:     3,
		ChunkSize: 2,
		Chunks: []catalog.ChunkRef{
			{File: "a.json", Count: 2},
			{File: "b.json", Count: 1},
		},
		PopularTags: []catalog.TagCount{{Name: "vr", Count: 1}},
		Makers:      []string{"Eastpier", "Northlight"},
	}

	registry := NewSessionRegistry(time.Hour, func() *scanner.Scanner {
		return scanner.New(m, f, scanner.Options{Debounce: time.Hour})
	})
	st := store.NewMemoryStore()

	h := NewHandler(m, registry, st, recommend.DefaultWeights())
	h.now = func() time.Time { return time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC) }

	cfg := DefaultMiddlewareConfig()
	cfg.RateLimitDisabled = true
	srv := httptest.NewServer(NewRouter(h, cfg).Setup())
	t.Cleanup(srv.Close)

	return &apiFixture{
		server:  srv,
		fetcher: f,
		store:   st,
		handler: h,
		entries: append(append([]catalog.Entry(nil), entriesA...), entriesB...),
	}
}

func (fx *apiFixture) do(t *testing.T, method, path string, body interface{}) (*http.Response, APIResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, fx.server.URL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := fx.server.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var parsed APIResponse
	if resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			t.Fatalf("%s %s: decode response: %v", method, path, err)
		}
	}
	return resp, parsed
}

func dataMap(t *testing.T, r APIResponse) map[string]interface{} {
	t.Helper()
	m, ok := r.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T %v", r.Data, r.Data)
	}
	return m
}

func (fx *apiFixture) createSession(t *testing.T) string {
	t.Helper()
	resp, body := fx.do(t, http.MethodPost, "/api/v1/sessions", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session status = %d", resp.StatusCode)
	}
	id, _ := dataMap(t, body)["session_id"].(string)
	if id == "" {
		t.Fatal("no session_id in response")
	}
	return id
}

func TestHealthEndpoints(t *testing.T) {
	fx := newAPIFixture(t)

	for _, path := range []string{"/api/v1/health/", "/api/v1/health/live", "/api/v1/health/ready"} {
		resp, body := fx.do(t, http.MethodGet, path, nil)
		if resp.StatusCode != http.StatusOK || !body.Success {
			t.Errorf("%s: status=%d success=%v", path, resp.StatusCode, body.Success)
		}
	}
}

func TestCatalogVocabularies(t *testing.T) {
	fx := newAPIFixture(t)

	resp, body := fx.do(t, http.MethodGet, "/api/v1/catalog/", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	data := dataMap(t, body)
	if data["total"] != float64(3) || data["chunks"] != float64(2) {
		t.Errorf("data = %v", data)
	}
	makers, _ := data["makers"].([]interface{})
	if len(makers) != 2 {
		t.Errorf("makers = %v", data["makers"])
	}
}

func TestSessionLifecycle(t *testing.T) {
	fx := newAPIFixture(t)
	id := fx.createSession(t)

	// Narrow to Eastpier before stepping.
	resp, _ := fx.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/query",
		QueryRequest{Maker: "Eastpier"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("query status = %d", resp.StatusCode)
	}

	// Two visibility signals consume both chunks.
	for i := 0; i < 2; i++ {
		resp, body := fx.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/more", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("more %d status = %d", i, resp.StatusCode)
		}
		if progressed := dataMap(t, body)["progressed"]; progressed != true {
			t.Fatalf("more %d made no progress", i)
		}
	}

	resp, body := fx.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/results", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("results status = %d", resp.StatusCode)
	}
	data := dataMap(t, body)
	if data["scanned"] != float64(3) || data["shown"] != float64(2) {
		t.Errorf("scanned/shown = %v/%v, want 3/2", data["scanned"], data["shown"])
	}
	if data["done"] != true {
		t.Error("session not done after both chunks")
	}
	entries, _ := data["entries"].([]interface{})
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2 Eastpier matches", len(entries))
	}

	resp, _ = fx.do(t, http.MethodDelete, "/api/v1/sessions/"+id+"/", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp, _ = fx.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("deleted session status = %d, want 404", resp.StatusCode)
	}
}

func TestSessionQueryValidation(t *testing.T) {
	fx := newAPIFixture(t)
	id := fx.createSession(t)

	resp, body := fx.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/query",
		QueryRequest{Text: strings.Repeat("x", 300)})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Code != ErrCodeValidationFailed {
		t.Errorf("error = %+v", body.Error)
	}
}

func TestSessionUnknownID(t *testing.T) {
	fx := newAPIFixture(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/sessions/ghost/"},
		{http.MethodPost, "/api/v1/sessions/ghost/more"},
		{http.MethodGet, "/api/v1/sessions/ghost/results"},
	} {
		resp, body := fx.do(t, tc.method, tc.path, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s %s: status = %d, want 404", tc.method, tc.path, resp.StatusCode)
		}
		if body.Error == nil || body.Error.Code != ErrCodeNotFound {
			t.Errorf("%s %s: error = %+v", tc.method, tc.path, body.Error)
		}
	}
}

func TestSessionMoreUpstreamFailure(t *testing.T) {
	fx := newAPIFixture(t)
	id := fx.createSession(t)

	fx.fetcher.mu.Lock()
	fx.fetcher.fail = true
	fx.fetcher.mu.Unlock()

	resp, body := fx.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/more", nil)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Code != ErrCodeFetchFailed {
		t.Errorf("error = %+v", body.Error)
	}
}

func TestFavoritesFlow(t *testing.T) {
	fx := newAPIFixture(t)

	resp, _ := fx.do(t, http.MethodPut, "/api/v1/favorites/w1",
		FavoriteRequest{
			Tags:       []string{"vr"},
			Performers: []string{"Rin M"},
			Maker:      "Eastpier",
			Series:     "Harbors",
			Label:      "indie",
		})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("put status = %d", resp.StatusCode)
	}

	resp, body := fx.do(t, http.MethodGet, "/api/v1/favorites/", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	data := dataMap(t, body)
	if data["count"] != float64(1) {
		t.Errorf("count = %v", data["count"])
	}

	f, ok, err := fx.store.GetLearnedFeatures("w1")
	if err != nil || !ok {
		t.Fatalf("snapshot missing: ok=%v err=%v", ok, err)
	}
	want := catalog.FeaturesOf(catalog.Entry{
		Tags:       []string{"vr"},
		Performers: []string{"Rin M"},
		Maker:      "Eastpier",
		Series:     "Harbors",
	}, "indie")
	if !reflect.DeepEqual(f, want) {
		t.Errorf("snapshot = %+v, want %+v", f, want)
	}

	resp, _ = fx.do(t, http.MethodDelete, "/api/v1/favorites/w1", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	if _, ok, _ := fx.store.GetLearnedFeatures("w1"); ok {
		t.Error("snapshot survived delete")
	}
}

func TestFavoritePutRejectsUnknownFields(t *testing.T) {
	fx := newAPIFixture(t)

	resp, body := fx.do(t, http.MethodPut, "/api/v1/favorites/w1",
		map[string]interface{}{"tags": []string{"vr"}, "bogus": 1})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body.Error == nil {
		t.Fatal("no error payload")
	}
}

func TestSessionShorts(t *testing.T) {
	fx := newAPIFixture(t)
	id := fx.createSession(t)

	// Load everything with no filter.
	fx.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/more", nil)
	fx.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/more", nil)

	resp, body := fx.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/shorts", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("shorts status = %d", resp.StatusCode)
	}
	data := dataMap(t, body)
	entries, _ := data["entries"].([]interface{})
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want all 3", len(entries))
	}

	// Same day, same favorites: the order is stable.
	_, body2 := fx.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/shorts", nil)
	entries2, _ := dataMap(t, body2)["entries"].([]interface{})
	for i := range entries {
		a := entries[i].(map[string]interface{})["id"]
		b := entries2[i].(map[string]interface{})["id"]
		if a != b {
			t.Errorf("shorts order unstable at %d: %v vs %v", i, a, b)
		}
	}

	// Limit trims the feed.
	_, body3 := fx.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/shorts?limit=2", nil)
	entries3, _ := dataMap(t, body3)["entries"].([]interface{})
	if len(entries3) != 2 {
		t.Errorf("limited entries = %d, want 2", len(entries3))
	}
}

func TestSessionShortsOrdersCandidatesNewestFirst(t *testing.T) {
	fx := newAPIFixture(t)
	id := fx.createSession(t)

	fx.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/more", nil)
	fx.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/more", nil)

	// With no favorites the feed is the pure seeded shuffle of the
	// newest-first candidate list; a scan-order candidate list would
	// produce a different permutation.
	candidates := append([]catalog.Entry(nil), fx.entries...)
	catalog.SortNewestFirst(candidates)
	want, err := recommend.RecommendOrder(candidates, nil, fx.store, recommend.DefaultWeights(), fx.handler.now())
	if err != nil {
		t.Fatal(err)
	}

	_, body := fx.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/shorts", nil)
	entries, _ := dataMap(t, body)["entries"].([]interface{})
	if len(entries) != len(want) {
		t.Fatalf("entries = %d, want %d", len(entries), len(want))
	}
	for i := range want {
		got := entries[i].(map[string]interface{})["id"]
		if got != want[i].ID {
			t.Errorf("position %d: id = %v, want %s", i, got, want[i].ID)
		}
	}
}

func TestSecurityHeadersAndRequestID(t *testing.T) {
	fx := newAPIFixture(t)

	resp, err := fx.server.Client().Get(fx.server.URL + "/api/v1/catalog/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := resp.Header.Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("no X-Request-ID header")
	}
}
