// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package recommend

import (
	"sort"
	"strings"
	"time"

	"github.com/okizeme/catalogus/internal/catalog"
)

// DaySeed derives the ranker's seed string: the calendar day (orders
// are stable within a day and rotate daily) joined with the sorted
// favorite-id set (any favorite change immediately perturbs the order).
func DaySeed(now time.Time, favoriteIDs []string) string {
	ids := append([]string(nil), favoriteIDs...)
	sort.Strings(ids)
	return now.Format("2006-01-02") + "|" + strings.Join(ids, ",")
}

// RecommendOrder returns the input entries in feed order: the same
// set, reordered by blending a profile-scored ranking with a seeded
// shuffle. Output is fully determined by the day, the favorite set and
// the input.
func RecommendOrder(entries []catalog.Entry, favoriteIDs []string, store FeatureStore, w Weights, now time.Time) ([]catalog.Entry, error) {
	rng := NewRand(DaySeed(now, favoriteIDs))

	profile, err := BuildProfile(favoriteIDs, store)
	if err != nil {
		return nil, err
	}

	// No personalization signal: pure exploration.
	if len(favoriteIDs) == 0 || profile.IsEmpty() {
		shuffled := append([]catalog.Entry(nil), entries...)
		ShuffleEntries(shuffled, rng)
		return shuffled, nil
	}

	favored := make(map[string]bool, len(favoriteIDs))
	for _, id := range favoriteIDs {
		favored[id] = true
	}

	// Related pool: profile score, minus the already-favorited
	// penalty, plus seeded jitter to break exact ties. Jitter is drawn
	// in input order so the ranking stays reproducible.
	scores := make([]float64, len(entries))
	for i, e := range entries {
		s := ScoreEntry(e, profile, w)
		if favored[e.ID] {
			s -= w.FavoritePenalty
		}
		s += rng.Next() * w.Jitter
		scores[i] = s
	}
	related := make([]catalog.Entry, len(entries))
	copy(related, entries)
	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })
	for i, j := range order {
		related[i] = entries[j]
	}

	// Random pool: full seeded shuffle of the same universe.
	random := append([]catalog.Entry(nil), entries...)
	ShuffleEntries(random, rng)

	// Interleave with a weighted coin flip. Personalization strength
	// grows with favorite count but never reaches certainty.
	pRelated := w.BaseRelated + w.RelatedPerFavorite*float64(len(favoriteIDs))
	if pRelated > w.MaxRelated {
		pRelated = w.MaxRelated
	}

	out := make([]catalog.Entry, 0, len(entries))
	used := make(map[string]bool, len(entries))
	var ri, qi int

	// Both pools contain the same universe, so every draw skips ids
	// already placed; when the chosen pool is exhausted the other one
	// finishes the feed.
	takeNext := func(list []catalog.Entry, cur *int) (catalog.Entry, bool) {
		for *cur < len(list) {
			e := list[*cur]
			*cur++
			if !used[e.ID] {
				return e, true
			}
		}
		return catalog.Entry{}, false
	}

	for len(out) < len(entries) {
		var e catalog.Entry
		var ok bool
		if rng.Next() < pRelated {
			e, ok = takeNext(related, &ri)
			if !ok {
				e, ok = takeNext(random, &qi)
			}
		} else {
			e, ok = takeNext(random, &qi)
			if !ok {
				e, ok = takeNext(related, &ri)
			}
		}
		if !ok {
			break // duplicate ids in the input shrink the id universe
		}
		used[e.ID] = true
		out = append(out, e)
	}
	return out, nil
}
