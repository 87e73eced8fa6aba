// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package recommend

// Weights holds every tuning constant of the ranker. The defaults are
// the shipped product values; all of them can be overridden through
// configuration.
type Weights struct {
	// Feature weights for profile scoring. Performer match is the
	// strongest personalization signal, series next, maker and tags
	// weaker, label weakest.
	Tag       float64 `koanf:"tag"`
	Performer float64 `koanf:"performer"`
	Maker     float64 `koanf:"maker"`
	Series    float64 `koanf:"series"`
	Label     float64 `koanf:"label"`

	// FavoritePenalty is subtracted from entries the user already
	// favorited so already-consumed preference does not dominate the
	// feed.
	FavoritePenalty float64 `koanf:"favorite_penalty"`

	// Jitter is the maximum seeded noise added per entry to break
	// exact score ties without destabilizing the overall order.
	Jitter float64 `koanf:"jitter"`

	// Blend ratio: probability of drawing from the related pool is
	// min(MaxRelated, BaseRelated + RelatedPerFavorite * favCount).
	// MaxRelated stays below 1 so exploration is always preserved.
	BaseRelated        float64 `koanf:"base_related"`
	RelatedPerFavorite float64 `koanf:"related_per_favorite"`
	MaxRelated         float64 `koanf:"max_related"`
}

// DefaultWeights returns the shipped tuning values.
func DefaultWeights() Weights {
	return Weights{
		Tag:                0.8,
		Performer:          2.2,
		Maker:              1.1,
		Series:             1.8,
		Label:              0.8,
		FavoritePenalty:    3.5,
		Jitter:             0.05,
		BaseRelated:        0.25,
		RelatedPerFavorite: 0.06,
		MaxRelated:         0.88,
	}
}
