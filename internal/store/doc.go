// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

// Package store persists favorites and their learned feature snapshots.
//
// Favoriting an entry captures its features at that moment; the
// recommendation profile is rebuilt from these snapshots on demand, so
// the catalog itself never needs to be re-scanned to personalize.
//
// Two implementations share the recommend.FeatureStore contract: a
// BadgerDB-backed store for durable local state and a map-backed
// in-memory store for tests and ephemeral deployments.
package store
