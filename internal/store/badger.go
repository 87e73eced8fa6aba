// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package store

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/okizeme/catalogus/internal/catalog"
)

// Key prefix for favorite feature snapshots.
const favoriteKeyPrefix = "fav:"

// BadgerStore implements recommend.FeatureStore on BadgerDB. A favorite
// and its learned snapshot are one record: the snapshot's presence is
// what makes an id favorited.
type BadgerStore struct {
	db *badger.DB
}

// Open opens (or creates) a BadgerDB at path and wraps it in a store.
// An empty path opens an in-memory database.
func Open(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

// NewBadgerStore wraps an already-open BadgerDB.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// ListFavoriteIDs returns all favorited entry ids in lexical order.
func (s *BadgerStore) ListFavoriteIDs() ([]string, error) {
	var ids []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(favoriteKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			ids = append(ids, string(key[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	sort.Strings(ids)
	return ids, nil
}

// GetLearnedFeatures returns the snapshot captured when the entry was
// favorited. ok is false when the id is not favorited.
func (s *BadgerStore) GetLearnedFeatures(id string) (catalog.Features, bool, error) {
	var f catalog.Features
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(favoriteKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get favorite: %w", err)
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &f)
		})
	})
	if err != nil {
		return catalog.Features{}, false, err
	}
	return f, found, nil
}

// SetLearnedFeatures stores (or replaces) the snapshot for an entry,
// marking it favorited.
func (s *BadgerStore) SetLearnedFeatures(id string, f catalog.Features) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(favoriteKeyPrefix+id), data)
	})
}

// RemoveLearnedFeatures unfavorites an entry. Removing an id that was
// never favorited is a no-op.
func (s *BadgerStore) RemoveLearnedFeatures(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(favoriteKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}
