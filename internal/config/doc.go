// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

// Package config loads application configuration with Koanf v2 in
// three layers: built-in defaults, an optional YAML file, then
// environment variables. ENV > file > defaults.
package config
