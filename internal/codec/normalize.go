// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package codec

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/okizeme/catalogus/internal/catalog"
)

// NormalizeManifest folds a decoded manifest value into the canonical
// shape. A map carrying the compact-schema discriminator has its short
// keys and array-of-pair fields expanded; anything else is read as the
// legacy canonical object (pre-obfuscation manifests fetched as plain
// JSON). Total functions: malformed fields degrade to zero values
// rather than failing.
func NormalizeManifest(v interface{}) catalog.Manifest {
	m, ok := v.(map[string]interface{})
	if !ok {
		return catalog.Manifest{}
	}

	if asInt(m["v"]) == catalog.ManifestVersion {
		return catalog.Manifest{
			Version:     catalog.ManifestVersion,
			GeneratedAt: asString(m["ga"]),
			Total:       asInt(m["t"]),
			ChunkSize:   asInt(m["cs"]),
			Chunks:      chunkRefsFromPairs(m["c"]),
			PopularTags: tagCountsFromPairs(m["pt"]),
			Makers:      asStringList(m["mk"]),
			Series:      asStringList(m["sr"]),
		}
	}

	return catalog.Manifest{
		Version:     asInt(m["version"]),
		GeneratedAt: asString(m["generated_at"]),
		Total:       asInt(m["total"]),
		ChunkSize:   asInt(m["chunk_size"]),
		Chunks:      chunkRefsFromObjects(m["chunks"]),
		PopularTags: tagCountsFromObjects(m["popular_tags"]),
		Makers:      asStringList(m["makers"]),
		Series:      asStringList(m["series"]),
	}
}

// entryFieldCount is the width of the positional card array:
// [id, title, release_date, hero_image, path, tags, performers,
// maker, series, has_image, image_count, has_video, api_rank].
const entryFieldCount = 13

// NormalizeEntry folds a decoded entry value into the canonical Entry.
// Positional arrays map by fixed index with absent trailing fields
// defaulting to empty/false/zero; maps are read by canonical field
// name.
func NormalizeEntry(v interface{}) catalog.Entry {
	switch raw := v.(type) {
	case []interface{}:
		at := func(i int) interface{} {
			if i < len(raw) {
				return raw[i]
			}
			return nil
		}
		return catalog.Entry{
			ID:          asString(at(0)),
			Title:       asString(at(1)),
			ReleaseDate: asString(at(2)),
			HeroImage:   asString(at(3)),
			Path:        asString(at(4)),
			Tags:        asStringList(at(5)),
			Performers:  asStringList(at(6)),
			Maker:       asString(at(7)),
			Series:      asString(at(8)),
			HasImage:    asBool(at(9)),
			ImageCount:  asInt(at(10)),
			HasVideo:    asBool(at(11)),
			APIRank:     asFloatPtr(at(12)),
		}
	case map[string]interface{}:
		return catalog.Entry{
			ID:          asString(raw["id"]),
			Title:       asString(raw["title"]),
			ReleaseDate: asString(raw["release_date"]),
			HeroImage:   asString(raw["hero_image"]),
			Path:        asString(raw["path"]),
			Tags:        asStringList(raw["tags"]),
			Performers:  asStringList(raw["performers"]),
			Maker:       asString(raw["maker"]),
			Series:      asString(raw["series"]),
			HasImage:    asBool(raw["has_image"]),
			ImageCount:  asInt(raw["image_count"]),
			HasVideo:    asBool(raw["has_video"]),
			APIRank:     asFloatPtr(raw["api_rank"]),
		}
	default:
		return catalog.Entry{}
	}
}

// NormalizeEntries folds a decoded chunk value (a JSON array in either
// entry encoding) into canonical entries.
func NormalizeEntries(v interface{}) []catalog.Entry {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]catalog.Entry, 0, len(raw))
	for _, item := range raw {
		out = append(out, NormalizeEntry(item))
	}
	return out
}

// DecodeManifest decodes an obfuscated manifest blob straight to the
// canonical manifest.
func DecodeManifest(b64 string) (catalog.Manifest, error) {
	v, err := Decode(b64)
	if err != nil {
		return catalog.Manifest{}, err
	}
	return NormalizeManifest(v), nil
}

// ParseManifestJSON parses a legacy plain-JSON manifest document.
func ParseManifestJSON(data []byte) (catalog.Manifest, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return catalog.Manifest{}, fmt.Errorf("%w: json: %v", ErrMalformed, err)
	}
	return NormalizeManifest(v), nil
}

// DecodeEntries decodes an obfuscated chunk blob to canonical entries.
func DecodeEntries(b64 string) ([]catalog.Entry, error) {
	v, err := Decode(b64)
	if err != nil {
		return nil, err
	}
	return NormalizeEntries(v), nil
}

// ParseEntriesJSON parses a plain-JSON chunk file.
func ParseEntriesJSON(data []byte) ([]catalog.Entry, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: json: %v", ErrMalformed, err)
	}
	return NormalizeEntries(v), nil
}

// PositionalEntry converts an entry to the compact card array the
// builder writes into chunks. Inverse of the positional branch of
// NormalizeEntry.
func PositionalEntry(e catalog.Entry) []interface{} {
	hasImage := 0
	if e.HasImage {
		hasImage = 1
	}
	hasVideo := 0
	if e.HasVideo {
		hasVideo = 1
	}
	var rank interface{}
	if e.APIRank != nil {
		rank = *e.APIRank
	}
	return []interface{}{
		e.ID, e.Title, e.ReleaseDate, e.HeroImage, e.Path,
		stringsOrEmpty(e.Tags), stringsOrEmpty(e.Performers),
		e.Maker, e.Series, hasImage, e.ImageCount, hasVideo, rank,
	}
}

// CompactManifest converts a canonical manifest to the short-key wire
// form. Inverse of the compact branch of NormalizeManifest.
func CompactManifest(m catalog.Manifest) map[string]interface{} {
	chunks := make([]interface{}, 0, len(m.Chunks))
	for _, c := range m.Chunks {
		chunks = append(chunks, []interface{}{c.File, c.Count})
	}
	tags := make([]interface{}, 0, len(m.PopularTags))
	for _, t := range m.PopularTags {
		tags = append(tags, []interface{}{t.Name, t.Count})
	}
	return map[string]interface{}{
		"v":  catalog.ManifestVersion,
		"ga": m.GeneratedAt,
		"t":  m.Total,
		"cs": m.ChunkSize,
		"c":  chunks,
		"pt": tags,
		"mk": m.Makers,
		"sr": m.Series,
	}
}

func chunkRefsFromPairs(v interface{}) []catalog.ChunkRef {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]catalog.ChunkRef, 0, len(raw))
	for _, item := range raw {
		pair, ok := item.([]interface{})
		if !ok || len(pair) < 2 {
			continue
		}
		out = append(out, catalog.ChunkRef{File: asString(pair[0]), Count: asInt(pair[1])})
	}
	return out
}

func chunkRefsFromObjects(v interface{}) []catalog.ChunkRef {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]catalog.ChunkRef, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, catalog.ChunkRef{File: asString(m["file"]), Count: asInt(m["count"])})
	}
	return out
}

func tagCountsFromPairs(v interface{}) []catalog.TagCount {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]catalog.TagCount, 0, len(raw))
	for _, item := range raw {
		pair, ok := item.([]interface{})
		if !ok || len(pair) < 2 {
			continue
		}
		out = append(out, catalog.TagCount{Name: asString(pair[0]), Count: asInt(pair[1])})
	}
	return out
}

func tagCountsFromObjects(v interface{}) []catalog.TagCount {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]catalog.TagCount, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, catalog.TagCount{Name: asString(m["name"]), Count: asInt(m["count"])})
	}
	return out
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	default:
		return 0
	}
}

// asBool accepts JSON booleans and the builder's 0/1 flags.
func asBool(v interface{}) bool {
	switch b := v.(type) {
	case bool:
		return b
	default:
		return asInt(v) != 0
	}
}

// asFloatPtr keeps fractional values intact; the upstream rank is not
// guaranteed to be integral.
func asFloatPtr(v interface{}) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

func asStringList(v interface{}) []string {
	switch raw := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(raw))
		for _, item := range raw {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return raw
	default:
		return nil
	}
}

func stringsOrEmpty(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
