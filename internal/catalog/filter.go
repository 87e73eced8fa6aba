// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package catalog

import "strings"

// Matches reports whether an entry satisfies the query. It is pure and
// evaluated independently per entry; evaluation order across entries
// never affects results.
//
// Checks short-circuit cheapest-first: media flags, exact maker/series,
// tag superset (AND semantics), then the free-text substring match.
func Matches(e Entry, q Query) bool {
	if q.RequireImage && !e.HasImage {
		return false
	}
	if q.RequireVideo && !e.HasVideo {
		return false
	}
	if q.Maker != "" && q.Maker != e.Maker {
		return false
	}
	if q.Series != "" && q.Series != e.Series {
		return false
	}
	for _, tag := range q.SelectedTags {
		if !containsString(e.Tags, tag) {
			return false
		}
	}

	text := strings.ToLower(strings.TrimSpace(q.Text))
	if text == "" {
		return true
	}
	return strings.Contains(searchBlob(e), text)
}

// searchBlob joins the searchable fields of an entry into one
// lower-cased haystack. Substring match, not token match.
func searchBlob(e Entry) string {
	parts := make([]string, 0, 3+len(e.Tags)+len(e.Performers))
	parts = append(parts, e.Title, e.Maker, e.Series)
	parts = append(parts, e.Tags...)
	parts = append(parts, e.Performers...)
	return strings.ToLower(strings.Join(parts, " "))
}

func containsString(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}
