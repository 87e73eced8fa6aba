// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package recommend

import (
	"fmt"

	"github.com/okizeme/catalogus/internal/catalog"
)

// FeatureStore is the favorites/learned-feature contract the ranker
// consumes. The store package provides a BadgerDB-backed implementation
// and an in-memory one for tests.
type FeatureStore interface {
	// ListFavoriteIDs returns the currently favorited entry ids.
	ListFavoriteIDs() ([]string, error)

	// GetLearnedFeatures returns the feature snapshot captured when the
	// entry was favorited. ok is false when the id was never learned or
	// was forgotten on unfavoriting.
	GetLearnedFeatures(id string) (f catalog.Features, ok bool, err error)

	// SetLearnedFeatures stores the feature snapshot for an entry.
	SetLearnedFeatures(id string, f catalog.Features) error

	// RemoveLearnedFeatures forgets an entry's snapshot.
	RemoveLearnedFeatures(id string) error
}

// Profile is the aggregated weighted feature counts derived from the
// favorited entries' learned snapshots. It is rebuilt on demand and
// never persisted; only its inputs live in the feature store.
type Profile struct {
	Tags       map[string]float64
	Performers map[string]float64
	Maker      map[string]float64
	Series     map[string]float64
	Label      map[string]float64
}

// NewProfile returns an empty profile with all maps allocated.
func NewProfile() Profile {
	return Profile{
		Tags:       make(map[string]float64),
		Performers: make(map[string]float64),
		Maker:      make(map[string]float64),
		Series:     make(map[string]float64),
		Label:      make(map[string]float64),
	}
}

// IsEmpty reports whether the profile learned nothing.
func (p Profile) IsEmpty() bool {
	return len(p.Tags) == 0 && len(p.Performers) == 0 &&
		len(p.Maker) == 0 && len(p.Series) == 0 && len(p.Label) == 0
}

// BuildProfile accumulates weight 1 per feature of each favorite's
// learned snapshot. Ids absent from the store contribute nothing.
func BuildProfile(favoriteIDs []string, store FeatureStore) (Profile, error) {
	p := NewProfile()
	for _, id := range favoriteIDs {
		f, ok, err := store.GetLearnedFeatures(id)
		if err != nil {
			return Profile{}, fmt.Errorf("learned features for %s: %w", id, err)
		}
		if !ok {
			continue
		}
		for _, tag := range f.Tags {
			p.Tags[tag]++
		}
		for _, performer := range f.Performers {
			p.Performers[performer]++
		}
		if f.Maker != "" {
			p.Maker[f.Maker]++
		}
		if f.Series != "" {
			p.Series[f.Series]++
		}
		if f.Label != "" {
			p.Label[f.Label]++
		}
	}
	return p, nil
}

// ScoreEntry is the weighted profile match for one entry.
func ScoreEntry(e catalog.Entry, p Profile, w Weights) float64 {
	var score float64
	for _, tag := range e.Tags {
		score += p.Tags[tag] * w.Tag
	}
	for _, performer := range e.Performers {
		score += p.Performers[performer] * w.Performer
	}
	if e.Maker != "" {
		score += p.Maker[e.Maker] * w.Maker
	}
	if e.Series != "" {
		score += p.Series[e.Series] * w.Series
	}
	// Entries carry no label on the wire; the label signal reaches
	// scoring only through maker/series-like snapshots. Kept for
	// profile symmetry.
	return score
}
