// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

// Package supervisor provides Suture-based process supervision.
//
// The tree has two layers under the root: api (the HTTP server) and
// maintenance (the session janitor). A crash in maintenance restarts
// independently of the API layer.
//
// Supervisor events are logged through zerolog via the sutureslog
// adapter in the logging package.
package supervisor
