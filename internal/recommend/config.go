// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"fmt"
	"time"
)

// Defaults for query handling.
const (
	DefaultTopK          = 5
	MaxTopK              = 50
	DefaultCandidatePool = 50
	DefaultSnippetLength = 160
)

// Config contains query-time configuration for the Recommender.
type Config struct {
	// DefaultTopK is used when a query does not specify TopK.
	DefaultTopK int `json:"default_top_k"`

	// MaxTopK caps TopK. Larger requests are clamped.
	MaxTopK int `json:"max_top_k"`

	// CandidatePool is the number of nearest neighbours examined per query.
	// Filters are applied inside this window only.
	CandidatePool int `json:"candidate_pool"`

	// SnippetLength is the maximum overview snippet length in runes.
	SnippetLength int `json:"snippet_length"`

	// Cache contains result caching parameters.
	Cache CacheConfig `json:"cache"`
}

// CacheConfig contains result caching parameters.
type CacheConfig struct {
	// Enabled turns the result cache on.
	Enabled bool `json:"enabled"`

	// TTL is how long a cached result remains valid.
	TTL time.Duration `json:"ttl"`

	// MaxEntries bounds the number of cached results.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultTopK:   DefaultTopK,
		MaxTopK:       MaxTopK,
		CandidatePool: DefaultCandidatePool,
		SnippetLength: DefaultSnippetLength,
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        10 * time.Minute,
			MaxEntries: 4096,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.DefaultTopK < 1 {
		return fmt.Errorf("default_top_k must be positive, got %d", c.DefaultTopK)
	}
	if c.MaxTopK < c.DefaultTopK {
		return fmt.Errorf("max_top_k must be >= default_top_k, got %d < %d", c.MaxTopK, c.DefaultTopK)
	}
	if c.CandidatePool < 1 {
		return fmt.Errorf("candidate_pool must be positive, got %d", c.CandidatePool)
	}
	if c.SnippetLength < 1 {
		return fmt.Errorf("snippet_length must be positive, got %d", c.SnippetLength)
	}
	if c.Cache.Enabled {
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
		if c.Cache.TTL < 0 {
			return fmt.Errorf("cache.ttl must be non-negative, got %v", c.Cache.TTL)
		}
	}
	return nil
}
