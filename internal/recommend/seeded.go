// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package recommend

import "github.com/okizeme/catalogus/internal/catalog"

// HashSeed maps an arbitrary string to a 32-bit seed using an
// order-sensitive avalanche mix (xmur3 construction). Distinct short
// keys such as tag or id lists almost never collide.
func HashSeed(key string) uint32 {
	h := uint32(1779033703) ^ uint32(len(key))
	for i := 0; i < len(key); i++ {
		h = (h ^ uint32(key[i])) * 3432918353
		h = h<<13 | h>>19
	}
	h = (h ^ (h >> 16)) * 2246822507
	h = (h ^ (h >> 13)) * 3266489909
	return h ^ (h >> 16)
}

// Rand is a deterministic pseudo-random generator (mulberry32): a
// 32-bit state advanced by a fixed additive constant each step, mixed
// through two xor-shift/multiply rounds. The sequence depends only on
// the seed, never on wall-clock entropy.
type Rand struct {
	state uint32
}

// NewRand seeds a generator from a string key.
func NewRand(key string) *Rand {
	return &Rand{state: HashSeed(key)}
}

// Next returns the next value in [0, 1).
func (r *Rand) Next() float64 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// ShuffleEntries permutes entries in place with a Fisher-Yates pass
// walking from the last index to the first, drawing
// j = floor(next*(i+1)) at each position. Callers that need the
// original order intact shuffle a copy.
func ShuffleEntries(entries []catalog.Entry, r *Rand) {
	for i := len(entries) - 1; i > 0; i-- {
		j := int(r.Next() * float64(i+1))
		entries[i], entries[j] = entries[j], entries[i]
	}
}
