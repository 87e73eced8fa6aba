// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

// Package fetch retrieves manifest and chunk files from the static
// catalog host.
//
// The host serves plain files, so the client is deliberately simple:
// GET, status check, bounded read. Resilience lives around that core —
// a circuit breaker fails fast while the host is down and an outbound
// rate limiter keeps chunk scans polite. There is no automatic retry;
// a failed chunk load is surfaced to the caller, who may re-trigger it.
package fetch
