// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

/*
Package catalog defines the canonical data model for the catalog browser:
the manifest describing the chunked dataset, the catalog entry, and the
query state evaluated by the filter predicate.

# Overview

The package provides:
  - Manifest: the top-level index built once per session (chunk list,
    popular tags, maker/series vocabularies)
  - Entry: one catalogued work, immutable value data created per chunk
    decode
  - Query: the filter/search state mutated by the presentation layer
  - Matches: the pure boolean filter predicate over one entry

Wire-shape handling lives in the codec package; values on this side of
the normalizer boundary are always canonical and typed. The scanner
package consumes the manifest's chunk list in order; order is
significant and preserved.

# Filter Semantics

Matches evaluates, short-circuiting, in this order: media-availability
requirements, exact maker/series equality, selected tags with AND
semantics (the entry's tag set must be a superset of the selection),
and finally a case-insensitive, whitespace-trimmed substring match of
the free text against the space-joined title, maker, series, tags and
performers.
*/
package catalog
