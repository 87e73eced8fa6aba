// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package catalog

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// releaseDatePattern accepts the free-form date strings seen in source
// data: "2012/8/3 10:00", "2026-02-13 10:00:00", "2026-02-13".
var releaseDatePattern = regexp.MustCompile(
	`^(\d{4})-(\d{1,2})-(\d{1,2})(?:\s+(\d{1,2}):(\d{2})(?::(\d{2}))?)?`)

// ParseReleaseDate converts a free-form release date string to a
// time.Time. The boolean is false when the string carries no parseable
// date.
func ParseReleaseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "  ", " ")

	m := releaseDatePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	atoi := func(s string) int {
		n, _ := strconv.Atoi(s)
		return n
	}
	t := time.Date(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]),
		atoi(m[4]), atoi(m[5]), atoi(m[6]), 0, time.UTC)
	if t.Year() != atoi(m[1]) || int(t.Month()) != atoi(m[2]) || t.Day() != atoi(m[3]) {
		// time.Date normalizes out-of-range components; a shifted
		// result means the input was not a real calendar date.
		return time.Time{}, false
	}
	return t, true
}

// SortNewestFirst orders entries by release date descending, stably.
// Entries without a parseable date sort last, keeping their relative
// order.
func SortNewestFirst(entries []Entry) {
	type keyed struct {
		ok bool
		t  time.Time
	}
	keys := make([]keyed, len(entries))
	for i, e := range entries {
		t, ok := ParseReleaseDate(e.ReleaseDate)
		keys[i] = keyed{ok: ok, t: t}
	}
	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if ka.ok != kb.ok {
			return ka.ok
		}
		if !ka.ok {
			return false
		}
		return ka.t.After(kb.t)
	})
	out := make([]Entry, len(entries))
	for i, j := range idx {
		out[i] = entries[j]
	}
	copy(entries, out)
}
