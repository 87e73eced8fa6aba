// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

/*
Package recommend reorders catalog entries by a learned preference
profile, blended with a seeded-random exploration baseline.

# Pipeline

RecommendOrder derives a deterministic seed from the calendar day plus
the sorted favorite-id set, so the feed is stable within a day, rotates
daily, and perturbs immediately when favorites change. It builds a
preference profile from the favorited entries' learned feature
snapshots, scores every candidate against the profile, and interleaves
the score-ranked "related" pool with a fully shuffled "random" pool
using a weighted coin flip whose related-probability grows with the
favorite count but is capped below certainty — exploration is always
preserved.

With zero favorites, or a profile that learned nothing, the output is a
pure seeded shuffle.

# Determinism

All randomness comes from one mulberry32-style generator seeded through
an xmur3-style string hash. The same day and favorite set reproduce the
same ordering exactly, which keeps the feed testable and keeps the
ordering coherent across reloads.

The scoring weights encode a deliberate signal hierarchy: performer
strongest, series next, maker and tags weaker, label weakest. They are
product tuning values, exposed as configuration with defaults, not
derived from data.
*/
package recommend
