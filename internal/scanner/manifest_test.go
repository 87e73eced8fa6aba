// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package scanner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/okizeme/catalogus/internal/catalog"
	"github.com/okizeme/catalogus/internal/codec"
	"github.com/okizeme/catalogus/internal/logging"
)

func manifestFixture() catalog.Manifest {
	return catalog.Manifest{
		Version:     catalog.ManifestVersion,
		GeneratedAt: "2026-08-30T12:00:00Z",
		Total:       1200,
		ChunkSize:   600,
		Chunks: []catalog.ChunkRef{
			{File: "_wi/wi_000_a1b2.dat", Count: 600},
			{File: "_wi/wi_001_c3d4.dat", Count: 600},
		},
		PopularTags: []catalog.TagCount{{Name: "vr", Count: 311}},
		Makers:      []string{"Eastpier"},
		Series:      []string{"Harbors"},
	}
}

func TestLoadManifest_EmbeddedBlobPreferred(t *testing.T) {
	want := manifestFixture()
	blob, err := codec.Encode(codec.CompactManifest(want))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "manifest.b64")
	if err := os.WriteFile(path, []byte(blob), 0o600); err != nil {
		t.Fatal(err)
	}

	// The fetcher must not be consulted when a blob is configured.
	f := newFakeFetcher()
	src := ManifestSource{EmbeddedPath: path, LegacyFile: "search_index.json"}

	got, err := LoadManifest(context.Background(), src, f)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if len(got.Chunks) != 2 || got.Chunks[0].File != "_wi/wi_000_a1b2.dat" {
		t.Errorf("chunks = %v", got.Chunks)
	}
	if got.Total != 1200 || got.Version != catalog.ManifestVersion {
		t.Errorf("manifest = %+v", got)
	}
	if f.callCount("search_index.json") != 0 {
		t.Error("legacy fetch used despite embedded blob")
	}
}

func TestLoadManifest_LegacyFetchFallback(t *testing.T) {
	want := manifestFixture()
	data, err := json.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}

	f := newFakeFetcher()
	f.files["search_index.json"] = data

	got, err := LoadManifest(context.Background(), ManifestSource{LegacyFile: "search_index.json"}, f)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if len(got.Chunks) != 2 || got.Makers[0] != "Eastpier" {
		t.Errorf("manifest = %+v", got)
	}
}

func TestLoadManifest_WarnsWhenTotalWithoutChunks(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "warn", Format: "json", Output: &buf})
	defer logging.Init(logging.DefaultConfig())

	m := manifestFixture()
	m.Chunks = nil
	blob, err := codec.Encode(codec.CompactManifest(m))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "manifest.b64")
	if err := os.WriteFile(path, []byte(blob), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := LoadManifest(context.Background(), ManifestSource{EmbeddedPath: path}, newFakeFetcher())
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if len(got.Chunks) != 0 || got.Total != 1200 {
		t.Errorf("manifest = %+v", got)
	}
	if !strings.Contains(buf.String(), "lists no chunks") {
		t.Errorf("no warning logged, output: %s", buf.String())
	}
}

func TestLoadManifest_FailuresAreFatalAndDistinct(t *testing.T) {
	tests := []struct {
		name string
		src  ManifestSource
		prep func(f *fakeFetcher)
	}{
		{
			name: "missing embedded file",
			src:  ManifestSource{EmbeddedPath: "/does/not/exist.b64"},
		},
		{
			name: "corrupt embedded blob",
			src: ManifestSource{EmbeddedPath: func() string {
				path := filepath.Join(os.TempDir(), "corrupt.b64")
				os.WriteFile(path, []byte("not a blob"), 0o600) //nolint:errcheck
				return path
			}()},
		},
		{
			name: "legacy fetch failure",
			src:  ManifestSource{LegacyFile: "search_index.json"},
			prep: func(f *fakeFetcher) { f.fail["search_index.json"] = true },
		},
		{
			name: "no source configured",
			src:  ManifestSource{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeFetcher()
			if tt.prep != nil {
				tt.prep(f)
			}
			_, err := LoadManifest(context.Background(), tt.src, f)
			if !errors.Is(err, ErrManifestLoad) {
				t.Errorf("err = %v, want ErrManifestLoad", err)
			}
		})
	}
}
