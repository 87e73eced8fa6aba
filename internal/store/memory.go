// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package store

import (
	"sort"
	"sync"

	"github.com/okizeme/catalogus/internal/catalog"
)

// MemoryStore implements recommend.FeatureStore on a mutex-guarded map.
type MemoryStore struct {
	mu       sync.RWMutex
	features map[string]catalog.Features
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{features: make(map[string]catalog.Features)}
}

// ListFavoriteIDs returns all favorited entry ids in lexical order.
func (s *MemoryStore) ListFavoriteIDs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.features))
	for id := range s.features {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// GetLearnedFeatures returns the snapshot for a favorited entry.
func (s *MemoryStore) GetLearnedFeatures(id string) (catalog.Features, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.features[id]
	if !ok {
		return catalog.Features{}, false, nil
	}
	return copyFeatures(f), true, nil
}

// SetLearnedFeatures stores the snapshot for an entry.
func (s *MemoryStore) SetLearnedFeatures(id string, f catalog.Features) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.features[id] = copyFeatures(f)
	return nil
}

// RemoveLearnedFeatures unfavorites an entry.
func (s *MemoryStore) RemoveLearnedFeatures(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.features, id)
	return nil
}

// copyFeatures keeps callers from aliasing the stored slices.
func copyFeatures(f catalog.Features) catalog.Features {
	out := f
	out.Tags = append([]string(nil), f.Tags...)
	out.Performers = append([]string(nil), f.Performers...)
	return out
}
