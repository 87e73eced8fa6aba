// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/okizeme/catalogus/internal/catalog"
	"github.com/okizeme/catalogus/internal/codec"
	"github.com/okizeme/catalogus/internal/logging"
)

// ErrManifestLoad marks a failure to obtain any manifest. Without a
// manifest no entry can ever be shown, so this is fatal for the whole
// session — unlike a mid-scan chunk failure, which is recoverable.
var ErrManifestLoad = errors.New("manifest load failed")

// ManifestSource configures where the manifest comes from. The embedded
// blob is preferred; the legacy plain-JSON fetch is used only when no
// blob is configured.
type ManifestSource struct {
	// EmbeddedPath is a local file holding the base64 manifest blob.
	EmbeddedPath string

	// LegacyFile is the plain-JSON manifest name fetched from the
	// catalog host, e.g. "search_index.json".
	LegacyFile string
}

// LoadManifest obtains and normalizes the catalog manifest.
func LoadManifest(ctx context.Context, src ManifestSource, f Fetcher) (catalog.Manifest, error) {
	if src.EmbeddedPath != "" {
		data, err := os.ReadFile(src.EmbeddedPath)
		if err != nil {
			return catalog.Manifest{}, fmt.Errorf("%w: read embedded blob %s: %v", ErrManifestLoad, src.EmbeddedPath, err)
		}
		m, err := codec.DecodeManifest(string(data))
		if err != nil {
			return catalog.Manifest{}, fmt.Errorf("%w: decode embedded blob: %v", ErrManifestLoad, err)
		}
		warnEmptyChunkList(m)
		logging.Info().
			Int("chunks", len(m.Chunks)).
			Int("total", m.Total).
			Msg("manifest loaded from embedded blob")
		return m, nil
	}

	if src.LegacyFile == "" {
		return catalog.Manifest{}, fmt.Errorf("%w: no manifest source configured", ErrManifestLoad)
	}

	raw, err := f.Fetch(ctx, src.LegacyFile)
	if err != nil {
		return catalog.Manifest{}, fmt.Errorf("%w: fetch %s: %v", ErrManifestLoad, src.LegacyFile, err)
	}
	m, err := codec.ParseManifestJSON(raw)
	if err != nil {
		return catalog.Manifest{}, fmt.Errorf("%w: parse %s: %v", ErrManifestLoad, src.LegacyFile, err)
	}
	warnEmptyChunkList(m)
	logging.Info().
		Int("chunks", len(m.Chunks)).
		Int("total", m.Total).
		Str("file", src.LegacyFile).
		Msg("manifest loaded from legacy fetch")
	return m, nil
}

// warnEmptyChunkList flags a manifest that declares entries but lists
// no chunks to fetch them from. The session proceeds — the scan is
// simply Done immediately — but the builder output is broken.
func warnEmptyChunkList(m catalog.Manifest) {
	if m.Total > 0 && len(m.Chunks) == 0 {
		logging.Warn().
			Int("total", m.Total).
			Msg("manifest declares entries but lists no chunks")
	}
}
