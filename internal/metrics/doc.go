// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

// Package metrics exposes Prometheus instrumentation for the engine:
// chunk fetch/decode throughput, scan progress, recommendation latency,
// favorites store operations and API traffic.
package metrics
