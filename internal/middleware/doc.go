// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

// Package middleware provides HTTP middleware shared across the API:
// request ID propagation and Prometheus request instrumentation.
package middleware
