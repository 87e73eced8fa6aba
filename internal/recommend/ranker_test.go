// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package recommend

import (
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/okizeme/catalogus/internal/catalog"
)

var rankDay = time.Date(2026, 8, 30, 15, 4, 5, 0, time.UTC)

func candidateEntries() []catalog.Entry {
	return []catalog.Entry{
		{ID: "w1", Tags: []string{"vr"}, Performers: []string{"P"}},
		{ID: "w2", Tags: []string{"vr"}},
		{ID: "w3", Tags: []string{"night"}},
		{ID: "w4", Performers: []string{"P"}},
		{ID: "w5"},
		{ID: "w6", Tags: []string{"city"}},
	}
}

func TestRecommendOrder_ZeroFavoritesIsPureSeededShuffle(t *testing.T) {
	entries := candidateEntries()

	got, err := RecommendOrder(entries, nil, newFakeStore(), DefaultWeights(), rankDay)
	if err != nil {
		t.Fatal(err)
	}

	want := append([]catalog.Entry(nil), entries...)
	ShuffleEntries(want, NewRand(DaySeed(rankDay, nil)))

	if !reflect.DeepEqual(got, want) {
		t.Errorf("zero-favorite order %v, want pure shuffle %v", entryIDs(got), entryIDs(want))
	}
	assertPermutation(t, entries, got)
}

func TestRecommendOrder_EmptyProfileFallsBackToShuffle(t *testing.T) {
	entries := candidateEntries()

	// Favorited ids that were never learned build an empty profile.
	got, err := RecommendOrder(entries, []string{"ghost"}, newFakeStore(), DefaultWeights(), rankDay)
	if err != nil {
		t.Fatal(err)
	}

	want := append([]catalog.Entry(nil), entries...)
	ShuffleEntries(want, NewRand(DaySeed(rankDay, []string{"ghost"})))

	if !reflect.DeepEqual(got, want) {
		t.Errorf("empty-profile order %v, want pure shuffle %v", entryIDs(got), entryIDs(want))
	}
}

func TestRecommendOrder_DeterministicForFixedDayAndFavorites(t *testing.T) {
	store := newFakeStore()
	store.features["fav"] = catalog.Features{Performers: []string{"P"}}

	first, err := RecommendOrder(candidateEntries(), []string{"fav"}, store, DefaultWeights(), rankDay)
	if err != nil {
		t.Fatal(err)
	}
	second, err := RecommendOrder(candidateEntries(), []string{"fav"}, store, DefaultWeights(), rankDay)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("same day and favorites should reproduce the order: %v vs %v",
			entryIDs(first), entryIDs(second))
	}

	laterSameDay := time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC)
	third, err := RecommendOrder(candidateEntries(), []string{"fav"}, store, DefaultWeights(), laterSameDay)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, third) {
		t.Error("order must be stable within one calendar day")
	}
}

func TestRecommendOrder_FavoriteChangePerturbsSeed(t *testing.T) {
	if DaySeed(rankDay, []string{"w2", "w1"}) != DaySeed(rankDay, []string{"w1", "w2"}) {
		t.Error("seed must not depend on favorite-id order")
	}
	if DaySeed(rankDay, []string{"w1"}) == DaySeed(rankDay, []string{"w1", "w2"}) {
		t.Error("adding a favorite must change the seed")
	}
	nextDay := rankDay.AddDate(0, 0, 1)
	if DaySeed(rankDay, []string{"w1"}) == DaySeed(nextDay, []string{"w1"}) {
		t.Error("seed must rotate daily")
	}
}

func TestRecommendOrder_NoDuplicatesSameLength(t *testing.T) {
	store := newFakeStore()
	store.features["fav"] = catalog.Features{Tags: []string{"vr"}, Performers: []string{"P"}}

	entries := candidateEntries()
	got, err := RecommendOrder(entries, []string{"fav"}, store, DefaultWeights(), rankDay)
	if err != nil {
		t.Fatal(err)
	}
	assertPermutation(t, entries, got)
}

func TestRecommendOrder_RelatedPoolRanksMatchingPerformerFirst(t *testing.T) {
	store := newFakeStore()
	store.features["fav"] = catalog.Features{Performers: []string{"P"}}

	// Force every draw from the related pool so the blended output is
	// exactly the score ranking.
	w := DefaultWeights()
	w.BaseRelated = 1.0
	w.MaxRelated = 1.0

	got, err := RecommendOrder(candidateEntries(), []string{"fav"}, store, w, rankDay)
	if err != nil {
		t.Fatal(err)
	}

	top := map[string]bool{got[0].ID: true, got[1].ID: true}
	if !top["w1"] || !top["w4"] {
		t.Errorf("performer-P entries should lead the related ranking, got %v", entryIDs(got))
	}
}

func TestRecommendOrder_FavoritedEntryIsPenalized(t *testing.T) {
	store := newFakeStore()
	store.features["w1"] = catalog.Features{Tags: []string{"vr"}}

	// w1 is favorited and tag-matching; w2 matches the same tag but is
	// not favorited. The 3.5 penalty dwarfs the 0.05 jitter, so w2 must
	// outrank w1 in the related ordering.
	w := DefaultWeights()
	w.BaseRelated = 1.0
	w.MaxRelated = 1.0

	got, err := RecommendOrder(candidateEntries(), []string{"w1"}, store, w, rankDay)
	if err != nil {
		t.Fatal(err)
	}

	posW1, posW2 := -1, -1
	for i, e := range got {
		switch e.ID {
		case "w1":
			posW1 = i
		case "w2":
			posW2 = i
		}
	}
	if posW2 > posW1 {
		t.Errorf("unfavorited tag match should outrank the favorited one: %v", entryIDs(got))
	}
}

func assertPermutation(t *testing.T, in, out []catalog.Entry) {
	t.Helper()
	if len(out) != len(in) {
		t.Fatalf("output length %d, want %d", len(out), len(in))
	}
	seen := make(map[string]bool, len(out))
	for _, e := range out {
		if seen[e.ID] {
			t.Fatalf("duplicate id %q in output %v", e.ID, entryIDs(out))
		}
		seen[e.ID] = true
	}
	want := entryIDs(in)
	got := entryIDs(out)
	sort.Strings(want)
	sort.Strings(got)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("output is not a permutation: %v vs %v", got, want)
	}
}
