// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

// Package cache holds decoded chunk payloads so a filter-change rescan
// does not refetch and re-decode chunks already seen this session.
package cache
