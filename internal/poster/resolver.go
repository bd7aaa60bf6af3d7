// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package poster turns poster path fragments into full image URLs, fetching
// missing paths from the metadata provider and falling back to a placeholder.
package poster

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/tmdb"
)

// Defaults for image URLs.
const (
	DefaultImageBaseURL  = "https://image.tmdb.org/t/p/w500"
	DefaultPlaceholder   = "https://via.placeholder.com/300x450?text=No+Image"
	DefaultLookupTimeout = 3 * time.Second
)

// Lookup outcomes recorded in metrics.
const (
	resultInline      = "inline"
	resultFetched     = "fetched"
	resultCached      = "cached"
	resultPlaceholder = "placeholder"
	resultError       = "error"
)

// PosterLookupError is a failed detail lookup for one movie.
type PosterLookupError struct {
	ID  int64
	Err error
}

func (e *PosterLookupError) Error() string {
	return fmt.Sprintf("poster lookup for movie %d: %v", e.ID, e.Err)
}

func (e *PosterLookupError) Unwrap() error { return e.Err }

// DetailFetcher fetches movie details containing a poster path.
type DetailFetcher interface {
	MovieDetails(ctx context.Context, id int64) (*tmdb.MovieDetails, error)
}

// Config configures a Resolver.
type Config struct {
	ImageBaseURL  string
	Placeholder   string
	LookupTimeout time.Duration
}

// Resolver resolves poster URLs. It is safe for concurrent use.
type Resolver struct {
	cfg    Config
	client DetailFetcher
	cache  Cache
}

// NewResolver creates a resolver. client and c may be nil: without a client
// movies lacking an inline path get the placeholder, without a cache every
// lookup goes to the client.
func NewResolver(cfg Config, client DetailFetcher, c Cache) *Resolver {
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = DefaultImageBaseURL
	}
	if cfg.Placeholder == "" {
		cfg.Placeholder = DefaultPlaceholder
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = DefaultLookupTimeout
	}
	cfg.ImageBaseURL = strings.TrimRight(cfg.ImageBaseURL, "/")
	return &Resolver{cfg: cfg, client: client, cache: c}
}

// Placeholder returns the placeholder image URL.
func (r *Resolver) Placeholder() string { return r.cfg.Placeholder }

// URL joins a path fragment onto the image base URL.
func (r *Resolver) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return r.cfg.ImageBaseURL + path
}

// Resolve returns the poster URL for a movie. It never fails: lookup errors
// are logged and answered with the placeholder.
func (r *Resolver) Resolve(ctx context.Context, id int64, path string) string {
	if path = strings.TrimSpace(path); path != "" {
		metrics.RecordPosterLookup(resultInline)
		return r.URL(path)
	}

	fetched, err := r.Lookup(ctx, id)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int64("movie_id", id).Msg("Poster lookup failed, using placeholder")
		metrics.RecordPosterLookup(resultError)
		return r.cfg.Placeholder
	}
	if fetched == "" {
		metrics.RecordPosterLookup(resultPlaceholder)
		return r.cfg.Placeholder
	}
	return r.URL(fetched)
}

// Lookup returns the provider's poster path for id, consulting the cache
// first. An empty path with a nil error means the movie has no poster.
func (r *Resolver) Lookup(ctx context.Context, id int64) (string, error) {
	if r.cache != nil {
		path, ok, err := r.cache.Get(ctx, id)
		if err != nil {
			logging.Ctx(ctx).Debug().Err(err).Int64("movie_id", id).Msg("Poster cache read failed")
		} else if ok {
			metrics.PosterCacheHits.Inc()
			if path != "" {
				metrics.RecordPosterLookup(resultCached)
			}
			return path, nil
		}
		metrics.PosterCacheMisses.Inc()
	}

	if r.client == nil {
		return "", nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.cfg.LookupTimeout)
	defer cancel()

	details, err := r.client.MovieDetails(lookupCtx, id)
	if err != nil {
		return "", &PosterLookupError{ID: id, Err: err}
	}

	path := strings.TrimSpace(details.PosterPath)
	if path != "" {
		metrics.RecordPosterLookup(resultFetched)
	}
	if r.cache != nil {
		if err := r.cache.Set(ctx, id, path); err != nil {
			logging.Ctx(ctx).Debug().Err(err).Int64("movie_id", id).Msg("Poster cache write failed")
		}
	}
	return path, nil
}
