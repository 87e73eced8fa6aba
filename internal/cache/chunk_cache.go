// Catalogus - Obfuscated Catalog Browsing and Personalization Engine
// Copyright 2026 Oki Z. (okizeme)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/okizeme/catalogus

package cache

import (
	"sync"
	"time"

	"github.com/okizeme/catalogus/internal/catalog"
)

// chunkNode is a doubly-linked list node keyed by chunk file name.
type chunkNode struct {
	key       string
	entries   []catalog.Entry
	prev      *chunkNode
	next      *chunkNode
	expiresAt time.Time
}

// ChunkCache is a thread-safe LRU of decoded chunk payloads with lazy
// TTL expiration. Lookups, inserts and eviction are O(1): a hashmap
// finds nodes, a doubly-linked list orders them by recency.
type ChunkCache struct {
	mu sync.RWMutex

	capacity int
	ttl      time.Duration

	items map[string]*chunkNode

	// head.next is most recently used, tail.prev least.
	head *chunkNode
	tail *chunkNode

	hits   int64
	misses int64
}

// NewChunkCache creates a cache holding up to capacity decoded chunks.
func NewChunkCache(capacity int, ttl time.Duration) *ChunkCache {
	if capacity <= 0 {
		capacity = 64
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	c := &ChunkCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*chunkNode, capacity),
		head:     &chunkNode{},
		tail:     &chunkNode{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Get returns the decoded entries for a chunk file, marking it most
// recently used. Expired nodes are dropped on access.
func (c *ChunkCache) Get(key string) ([]catalog.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if time.Now().After(node.expiresAt) {
		c.unlink(node)
		c.misses++
		return nil, false
	}

	c.moveToFront(node)
	c.hits++
	return node.entries, true
}

// Add stores (or refreshes) the decoded entries for a chunk file,
// evicting the least recently used chunk when over capacity.
func (c *ChunkCache) Add(key string, entries []catalog.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(c.ttl)

	if node, ok := c.items[key]; ok {
		node.entries = entries
		node.expiresAt = expiresAt
		c.moveToFront(node)
		return
	}

	node := &chunkNode{key: key, entries: entries, expiresAt: expiresAt}
	c.pushFront(node)
	c.items[key] = node

	for len(c.items) > c.capacity {
		c.evictOldest()
	}
}

// Remove drops one chunk. Returns true if it was present.
func (c *ChunkCache) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.items[key]
	if !ok {
		return false
	}
	c.unlink(node)
	return true
}

// Len returns the current number of cached chunks.
func (c *ChunkCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Clear drops every cached chunk, e.g. when a new manifest is loaded.
func (c *ChunkCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*chunkNode, c.capacity)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// Stats returns hit/miss counts and the current size.
func (c *ChunkCache) Stats() (hits, misses int64, size int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses, len(c.items)
}

// List surgery below must run with the lock held.

func (c *ChunkCache) pushFront(node *chunkNode) {
	node.prev = c.head
	node.next = c.head.next
	c.head.next.prev = node
	c.head.next = node
}

func (c *ChunkCache) moveToFront(node *chunkNode) {
	node.prev.next = node.next
	node.next.prev = node.prev
	c.pushFront(node)
}

func (c *ChunkCache) unlink(node *chunkNode) {
	node.prev.next = node.next
	node.next.prev = node.prev
	delete(c.items, node.key)
}

func (c *ChunkCache) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return
	}
	c.unlink(oldest)
}
