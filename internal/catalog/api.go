// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/tmdb"
)

// ErrAllPagesFailed is returned when every page of an API load failed.
var ErrAllPagesFailed = errors.New("all catalog pages failed to load")

// SourceFetchError describes one failed page fetch.
type SourceFetchError struct {
	Page int
	Err  error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *SourceFetchError) Unwrap() error { return e.Err }

// PageFetcher is the subset of the metadata client used by APISource.
type PageFetcher interface {
	PopularPage(ctx context.Context, page int) (*tmdb.Page, error)
	Genres(ctx context.Context) ([]tmdb.Genre, error)
}

// APISource loads movies from a paginated metadata API.
type APISource struct {
	client            PageFetcher
	pages             int
	resolveGenreNames bool
}

// NewAPISource creates an APISource fetching pages 1..pages.
func NewAPISource(client PageFetcher, pages int, resolveGenreNames bool) *APISource {
	if pages <= 0 {
		pages = 5
	}
	return &APISource{client: client, pages: pages, resolveGenreNames: resolveGenreNames}
}

// Name implements Source.
func (s *APISource) Name() string { return "api" }

// Load implements Source. Pages are fetched independently; a failed page is
// logged and excluded. If every page fails the load fails.
func (s *APISource) Load(ctx context.Context) (*Catalog, error) {
	logger := logging.WithComponent("catalog")

	c := &Catalog{
		Stats:     models.LoadStats{Source: s.Name()},
		GenreMode: models.GenreIDs,
	}

	genreNames := s.loadGenreNames(ctx)
	if genreNames != nil {
		c.GenreMode = models.GenreNames
	}

	var lastErr error
	seen := make(map[int64]struct{})
	for page := 1; page <= s.pages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := s.client.PopularPage(ctx, page)
		metrics.RecordPageFetch(err)
		if err != nil {
			lastErr = &SourceFetchError{Page: page, Err: err}
			c.Stats.PagesFailed++
			logger.Warn().Err(err).Int("page", page).Msg("Catalog page fetch failed, skipping page")
			continue
		}
		c.Stats.PagesFetched++

		for i := range result.Results {
			c.Stats.Read++
			movie, reason := normalizeAPIMovie(&result.Results[i], genreNames)
			if reason == "" {
				if _, dup := seen[movie.ID]; dup {
					reason = DropDuplicateID
				}
			}
			if reason != "" {
				c.Stats.Drop(reason)
				continue
			}
			seen[movie.ID] = struct{}{}
			c.Movies = append(c.Movies, movie)
		}
	}

	if c.Stats.PagesFetched == 0 {
		return nil, fmt.Errorf("%w (%d pages): %w", ErrAllPagesFailed, s.pages, lastErr)
	}
	return finish(c)
}

// loadGenreNames returns the id->name map, or nil when resolution is off
// or the genre list cannot be fetched.
func (s *APISource) loadGenreNames(ctx context.Context) map[int]string {
	if !s.resolveGenreNames {
		return nil
	}
	genres, err := s.client.Genres(ctx)
	if err != nil {
		logger := logging.WithComponent("catalog")
		logger.Warn().Err(err).
			Msg("Genre list unavailable, genres will be raw ids and genre filtering is disabled")
		return nil
	}
	names := make(map[int]string, len(genres))
	for _, g := range genres {
		names[g.ID] = g.Name
	}
	return names
}

func normalizeAPIMovie(r *tmdb.Movie, genreNames map[int]string) (models.Movie, string) {
	m := models.Movie{
		ID:          r.ID,
		Title:       strings.TrimSpace(r.Title),
		Overview:    strings.TrimSpace(r.Overview),
		GenreIDs:    r.GenreIDs,
		VoteAverage: r.VoteAverage,
		ReleaseDate: strings.TrimSpace(r.ReleaseDate),
		Popularity:  r.Popularity,
		PosterPath:  strings.TrimSpace(r.PosterPath),
	}

	switch {
	case m.Title == "":
		return m, DropMissingTitle
	case m.Overview == "":
		return m, DropMissingOverview
	case m.ID <= 0:
		return m, DropBadID
	case !validRating(m.VoteAverage):
		return m, DropBadNumber
	}

	m.Genres = make([]string, 0, len(r.GenreIDs))
	for _, id := range r.GenreIDs {
		if genreNames != nil {
			if name, ok := genreNames[id]; ok {
				m.Genres = append(m.Genres, name)
				continue
			}
		}
		m.Genres = append(m.Genres, strconv.Itoa(id))
	}
	return m, ""
}
