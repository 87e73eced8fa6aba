// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package recommend

import (
	"reflect"
	"sort"
	"testing"

	"github.com/okizeme/catalogus/internal/catalog"
)

func TestRand_DeterministicSequence(t *testing.T) {
	a := NewRand("2026-08-30|w1,w2")
	b := NewRand("2026-08-30|w1,w2")

	for i := 0; i < 100; i++ {
		va, vb := a.Next(), b.Next()
		if va != vb {
			t.Fatalf("draw %d diverged: %v vs %v", i, va, vb)
		}
		if va < 0 || va >= 1 {
			t.Fatalf("draw %d out of [0,1): %v", i, va)
		}
	}
}

func TestRand_DifferentKeysDiverge(t *testing.T) {
	a := NewRand("2026-08-30|w1")
	b := NewRand("2026-08-30|w2")

	same := 0
	for i := 0; i < 32; i++ {
		if a.Next() == b.Next() {
			same++
		}
	}
	if same == 32 {
		t.Error("distinct keys produced identical sequences")
	}
}

func TestRand_UniformitySmoke(t *testing.T) {
	r := NewRand("uniformity")
	const n = 20000

	var sum float64
	buckets := make([]int, 10)
	for i := 0; i < n; i++ {
		v := r.Next()
		if v < 0 || v >= 1 {
			t.Fatalf("value out of range: %v", v)
		}
		sum += v
		buckets[int(v*10)]++
	}

	mean := sum / n
	if mean < 0.45 || mean > 0.55 {
		t.Errorf("mean %v outside uniformity tolerance", mean)
	}
	for i, c := range buckets {
		// Expect ~2000 per decile; allow generous slack.
		if c < 1500 || c > 2500 {
			t.Errorf("decile %d count %d is far from uniform", i, c)
		}
	}
}

func TestHashSeed_OrderSensitive(t *testing.T) {
	if HashSeed("ab") == HashSeed("ba") {
		t.Error("hash should be order-sensitive")
	}
	if HashSeed("x") != HashSeed("x") {
		t.Error("hash must be stable")
	}
}

func TestShuffleEntries_DeterministicAndPreservesMultiset(t *testing.T) {
	mk := func() []catalog.Entry {
		return []catalog.Entry{
			{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"}, {ID: "f"},
		}
	}

	first := mk()
	ShuffleEntries(first, NewRand("seed-x"))
	second := mk()
	ShuffleEntries(second, NewRand("seed-x"))

	if !reflect.DeepEqual(first, second) {
		t.Errorf("same seed shuffled differently: %v vs %v", entryIDs(first), entryIDs(second))
	}

	got := entryIDs(first)
	sort.Strings(got)
	want := []string{"a", "b", "c", "d", "e", "f"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("shuffle changed the element multiset: %v", got)
	}
}

func entryIDs(entries []catalog.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}
