// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Pruner drops expired cache entries and reports how many were removed.
type Pruner interface {
	Prune() int
}

// CacheJanitorService periodically prunes the result and poster caches.
type CacheJanitorService struct {
	pruners  map[string]Pruner
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCacheJanitorService creates a janitor pruning every interval.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheJanitorService(pruners map[string]Pruner, interval time.Duration, logger zerolog.Logger) *CacheJanitorService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CacheJanitorService{
		pruners:  pruners,
		interval: interval,
		logger:   logger.With().Str("task", "cache-janitor").Logger(),
		name:     "cache-janitor",
	}
}

// Serve implements suture.Service.
func (s *CacheJanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.pruneAll()
		}
	}
}

func (s *CacheJanitorService) pruneAll() {
	for name, p := range s.pruners {
		if n := p.Prune(); n > 0 {
			s.logger.Debug().Str("cache", name).Int("pruned", n).Msg("pruned cache")
		}
	}
}

// String implements fmt.Stringer for suture logging.
func (s *CacheJanitorService) String() string {
	return s.name
}
