// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

/*
Package codec reverses the site builder's payload obfuscation and
normalizes the two wire schemas into the canonical catalog model.

# Payload Pipeline

Payloads travel as base64 text. Decode runs the inverse of the builder:

	base64 decode -> byte-wise XOR (fixed repeating key) -> gzip
	decompress -> JSON parse

The XOR step uses a fixed, publicly-known ASCII key. It is obfuscation
only, meant to deter casual scraping of the static files; it is NOT
cryptographic and must never be treated as a confidentiality or
authentication boundary. The key and the pipeline are constants of the
wire format, not secrets.

# Wire Schemas

Manifests arrive either as the canonical object
{version, generated_at, total, chunk_size, chunks, popular_tags,
makers, series} or as the compact short-key form
{v:3, ga, t, cs, c, pt, mk, sr} whose c and pt fields are
arrays-of-pairs. Entries arrive either as objects with named fields or
as fixed-position 13-element arrays. NormalizeManifest and
NormalizeEntry fold both forms into the catalog types; raw untyped
shapes never cross the normalizer boundary.

Chunk transport kind is selected by file extension: names ending in
the obfuscated extension go through Decode, anything else is parsed as
plain JSON.
*/
package codec
