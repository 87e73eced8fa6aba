// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package catalog

// ManifestVersion is the compact-schema discriminator emitted by the
// site builder. A raw manifest carrying {"v": 3} uses the short-key
// positional encoding; anything else is treated as the legacy canonical
// object shape.
const ManifestVersion = 3

// DefaultChunkSize is the nominal number of entries per chunk emitted
// by the builder. Informational; the authoritative per-chunk count is
// carried in each ChunkRef.
const DefaultChunkSize = 600

// PopularTagLimit is the number of ranked tags the builder embeds in
// the manifest.
const PopularTagLimit = 30

// ChunkRef describes one remote chunk file. Chunks are fetched and
// decoded strictly in manifest order.
type ChunkRef struct {
	// File is the chunk path relative to the asset root, e.g.
	// "_wi/wi_003_a1b2c3.dat".
	File string `json:"file"`

	// Count is the number of entries the builder wrote into the chunk.
	Count int `json:"count"`
}

// TagCount is one entry of the ranked popular-tag list. Order reflects
// ranking, not alphabet.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Manifest is the canonical in-memory index of the chunked dataset.
// It is built once at startup from a single manifest document and is
// immutable for the rest of the session.
type Manifest struct {
	// Version is the wire schema version the manifest arrived in.
	Version int `json:"version"`

	// GeneratedAt is the builder's UTC timestamp string.
	GeneratedAt string `json:"generated_at"`

	// Total is the declared entry count across all chunks. It is
	// informational and may be stale against reality.
	Total int `json:"total"`

	// ChunkSize is the nominal entries-per-chunk value.
	ChunkSize int `json:"chunk_size"`

	// Chunks lists the chunk descriptors in fetch order.
	Chunks []ChunkRef `json:"chunks"`

	// PopularTags is the ranked tag list used to seed filter chips.
	PopularTags []TagCount `json:"popular_tags"`

	// Makers and Series are display vocabularies, insertion order
	// preserved.
	Makers []string `json:"makers"`
	Series []string `json:"series"`
}

// ChunkQueue returns a fresh working copy of the chunk list for a
// scanner session. The copy keeps scanner state reproducible from a
// clean slate even though the manifest itself never changes mid-session.
func (m *Manifest) ChunkQueue() []ChunkRef {
	out := make([]ChunkRef, len(m.Chunks))
	copy(out, m.Chunks)
	return out
}

// Entry is one catalogued work. Entries are created fresh per chunk
// decode and treated as immutable value data; filter passes never
// mutate them.
type Entry struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date"`
	HeroImage   string   `json:"hero_image"`
	Path        string   `json:"path"`
	Tags        []string `json:"tags"`
	Performers  []string `json:"performers"`
	Maker       string   `json:"maker"`
	Series      string   `json:"series"`
	HasImage    bool     `json:"has_image"`
	ImageCount  int      `json:"image_count"`
	HasVideo    bool     `json:"has_video"`

	// APIRank is the upstream popularity rank, when the source API
	// provided one. The upstream emits fractional ranks, so the value
	// is kept as a float. Nil means unranked.
	APIRank *float64 `json:"api_rank,omitempty"`
}

// Features is the learned feature snapshot captured when a user
// favorites an entry. The favorites store persists these; the
// recommendation profile is rebuilt from them on demand.
type Features struct {
	Tags       []string `json:"tags"`
	Performers []string `json:"performers"`
	Maker      string   `json:"maker,omitempty"`
	Series     string   `json:"series,omitempty"`
	Label      string   `json:"label,omitempty"`
}

// FeaturesOf snapshots the recommendation-relevant features of an
// entry. The entry model carries no label field on the wire, so the
// label is supplied by the caller when known.
func FeaturesOf(e Entry, label string) Features {
	f := Features{
		Tags:       append([]string(nil), e.Tags...),
		Performers: append([]string(nil), e.Performers...),
		Maker:      e.Maker,
		Series:     e.Series,
		Label:      label,
	}
	return f
}

// Query is the filter/search state. The presentation layer mutates it
// through the session API; each mutation triggers the scanner's
// debounced reset-and-rescan flow.
type Query struct {
	// Text is the free-text query, matched case-insensitively as a
	// substring after trimming whitespace.
	Text string `json:"text"`

	// Maker and Series are exact-match filters; empty means any.
	Maker  string `json:"maker"`
	Series string `json:"series"`

	// RequireImage and RequireVideo restrict to entries with sample
	// media available.
	RequireImage bool `json:"require_image"`
	RequireVideo bool `json:"require_video"`

	// SelectedTags has AND semantics: an entry must carry every
	// selected tag to match.
	SelectedTags []string `json:"selected_tags"`
}

// IsZero reports whether the query constrains nothing, in which case
// every entry matches.
func (q Query) IsZero() bool {
	return q.Text == "" && q.Maker == "" && q.Series == "" &&
		!q.RequireImage && !q.RequireVideo && len(q.SelectedTags) == 0
}
