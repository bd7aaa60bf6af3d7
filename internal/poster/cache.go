// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package poster

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/marquee/internal/cache"
)

// Cache backends.
const (
	BackendLRU    = "lru"
	BackendBadger = "badger"
)

const posterKeyPrefix = "poster:"

// Cache stores resolved poster paths by movie id. An empty path is a valid
// cached value meaning the provider has no poster for the movie.
type Cache interface {
	Get(ctx context.Context, id int64) (string, bool, error)
	Set(ctx context.Context, id int64, path string) error
	// Prune reclaims expired entries and returns how many were removed,
	// or for badger how many value log files were rewritten.
	Prune() int
	Close() error
}

// CacheConfig selects and sizes the poster cache.
type CacheConfig struct {
	Backend string
	Size    int
	TTL     time.Duration
	// Path is the badger directory. Empty runs badger in memory.
	Path string
}

// OpenCache creates the cache described by cfg.
func OpenCache(cfg CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case "", BackendLRU:
		return NewLRUCache(cfg.Size, cfg.TTL), nil
	case BackendBadger:
		return OpenBadgerCache(cfg.Path, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown poster cache backend %q", cfg.Backend)
	}
}

// LRUCache is the in-memory poster cache.
type LRUCache struct {
	lru *cache.LRU[int64, string]
}

// NewLRUCache creates an in-memory poster cache.
func NewLRUCache(size int, ttl time.Duration) *LRUCache {
	return &LRUCache{lru: cache.NewLRU[int64, string](size, ttl)}
}

// Get implements Cache.
func (c *LRUCache) Get(_ context.Context, id int64) (string, bool, error) {
	path, ok := c.lru.Get(id)
	return path, ok, nil
}

// Set implements Cache.
func (c *LRUCache) Set(_ context.Context, id int64, path string) error {
	c.lru.Add(id, path)
	return nil
}

// Prune implements Cache.
func (c *LRUCache) Prune() int {
	return c.lru.CleanupExpired()
}

// Close implements Cache.
func (c *LRUCache) Close() error {
	c.lru.Clear()
	return nil
}

// BadgerCache stores poster paths in BadgerDB, using entry TTLs for expiry.
type BadgerCache struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenBadgerCache opens a badger-backed cache at path, or in memory when path is empty.
func OpenBadgerCache(path string, ttl time.Duration) (*BadgerCache, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for posters: %w", err)
	}
	return &BadgerCache{db: db, ttl: ttl}, nil
}

// Get implements Cache.
func (c *BadgerCache) Get(_ context.Context, id int64) (string, bool, error) {
	var path string
	found := true

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(posterKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			found = false
			return nil
		}
		if err != nil {
			return fmt.Errorf("get poster: %w", err)
		}
		return item.Value(func(val []byte) error {
			path = string(val)
			return nil
		})
	})
	if err != nil {
		return "", false, err
	}
	return path, found, nil
}

// Set implements Cache.
func (c *BadgerCache) Set(_ context.Context, id int64, path string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(posterKey(id), []byte(path))
		if c.ttl > 0 {
			e = e.WithTTL(c.ttl)
		}
		return txn.SetEntry(e)
	})
}

// Prune implements Cache. Expired entries are dropped by badger itself;
// this only runs value log GC, which in-memory databases do not support.
func (c *BadgerCache) Prune() int {
	rewritten := 0
	for rewritten < 16 {
		if err := c.db.RunValueLogGC(0.5); err != nil {
			break
		}
		rewritten++
	}
	return rewritten
}

// Close implements Cache.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}

func posterKey(id int64) []byte {
	return []byte(posterKeyPrefix + strconv.FormatInt(id, 10))
}
