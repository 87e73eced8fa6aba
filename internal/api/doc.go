// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

// Package api exposes the browsing engine over HTTP using the Chi
// router: catalog vocabularies, browse sessions (create, query, load
// more, results), favorites, and the personalized shorts feed.
//
// Browse sessions are server-side ChunkScanner instances addressed by
// UUID. The rendering layer drives a session with PUT query and POST
// more calls; idle sessions are reaped after a TTL.
package api
