// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

// Package scanner drives the incremental catalog scan.
//
// A Scanner owns one browse session's working state: a copy of the
// manifest's chunk queue, a cursor, the loading guard, the scanned and
// shown counters and the accumulated matches. Chunks are consumed
// strictly in manifest order, one fetch in flight at a time; progress
// past the first chunk happens only when the consumer asks for more.
//
// Query changes are debounced. Each change bumps a generation counter;
// a chunk load that finishes under a superseded generation is discarded
// rather than merged into results filtered by an older query.
package scanner
