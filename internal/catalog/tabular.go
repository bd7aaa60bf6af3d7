// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tomtom215/marquee/internal/models"
)

// Row is one joined movies+credits row keyed by column name.
type Row map[string]string

// RowReader yields the joined rows of the movies and credits tables, in
// movies-table order.
type RowReader interface {
	ReadRows(ctx context.Context) ([]Row, error)
}

// Column names consumed from the joined tables.
const (
	colID          = "id"
	colTitle       = "title"
	colOverview    = "overview"
	colGenres      = "genres"
	colKeywords    = "keywords"
	colCast        = "cast"
	colCrew        = "crew"
	colVoteAverage = "vote_average"
	colReleaseDate = "release_date"
	colPopularity  = "popularity"
	colPosterPath  = "poster_path"
)

// TabularSource normalizes rows of the movies/credits dataset.
type TabularSource struct {
	reader    RowReader
	castLimit int
}

// NewTabularSource creates a TabularSource. castLimit <= 0 defaults to 3.
func NewTabularSource(reader RowReader, castLimit int) *TabularSource {
	if castLimit <= 0 {
		castLimit = 3
	}
	return &TabularSource{reader: reader, castLimit: castLimit}
}

// Name implements Source.
func (s *TabularSource) Name() string { return "tabular" }

// Load implements Source.
func (s *TabularSource) Load(ctx context.Context) (*Catalog, error) {
	rows, err := s.reader.ReadRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read tabular dataset: %w", err)
	}

	c := &Catalog{
		Movies:    make([]models.Movie, 0, len(rows)),
		Stats:     models.LoadStats{Source: s.Name(), Read: len(rows)},
		GenreMode: models.GenreNames,
	}

	for i, row := range rows {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		movie, reason := s.normalize(row)
		if reason != "" {
			c.Stats.Drop(reason)
			continue
		}
		c.Movies = append(c.Movies, movie)
	}

	return finish(c)
}

// normalize converts a row, returning a non-empty drop reason on failure.
func (s *TabularSource) normalize(row Row) (models.Movie, string) {
	var m models.Movie

	m.Title = strings.TrimSpace(row[colTitle])
	if m.Title == "" {
		return m, DropMissingTitle
	}
	m.Overview = strings.TrimSpace(row[colOverview])
	if m.Overview == "" {
		return m, DropMissingOverview
	}

	id, err := strconv.ParseInt(strings.TrimSpace(row[colID]), 10, 64)
	if err != nil {
		return m, DropBadID
	}
	m.ID = id

	if m.VoteAverage, err = parseFloat(row[colVoteAverage]); err != nil || !validRating(m.VoteAverage) {
		return m, DropBadNumber
	}
	if m.Popularity, err = parseFloat(row[colPopularity]); err != nil {
		return m, DropBadNumber
	}

	if m.Genres, err = parseNames(row[colGenres], 0); err != nil {
		return m, DropBadNestedField
	}
	if m.Keywords, err = parseNames(row[colKeywords], 0); err != nil {
		return m, DropBadNestedField
	}
	if m.Cast, err = parseNames(row[colCast], s.castLimit); err != nil {
		return m, DropBadNestedField
	}
	if m.Directors, err = parseDirectors(row[colCrew]); err != nil {
		return m, DropBadNestedField
	}

	m.ReleaseDate = strings.TrimSpace(row[colReleaseDate])
	m.PosterPath = strings.TrimSpace(row[colPosterPath])
	return m, ""
}

// validRating rejects NaN and values outside [0, 10].
func validRating(v float64) bool {
	return v >= 0 && v <= 10
}

// parseFloat parses a numeric cell. An empty cell is 0.
func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
