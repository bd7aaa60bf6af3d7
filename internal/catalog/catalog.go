// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package catalog loads movie records from a data source and normalizes
// them into the uniform models.Movie shape.
//
// Two sources exist:
//
//   - TabularSource reads a movies table and a credits table joined on
//     title, with nested JSON list-of-object columns (genres, keywords,
//     cast, crew).
//   - APISource fetches paginated movie lists from a TMDB-compatible
//     metadata API; it has no keywords or credits.
//
// Records that fail normalization are dropped, never imputed, and every drop
// is counted per reason in models.LoadStats. A load that keeps no records at
// all is an error: a model cannot be built from an empty catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
)

// Drop reasons recorded in LoadStats.DropReasons.
const (
	DropMissingTitle    = "missing_title"
	DropMissingOverview = "missing_overview"
	DropBadID           = "bad_id"
	DropBadNumber       = "bad_number"
	DropBadNestedField  = "bad_nested_field"
	DropDuplicateID     = "duplicate_id"
)

// ErrEmptyCatalog is returned when no record survives normalization.
var ErrEmptyCatalog = errors.New("catalog is empty after normalization")

// Catalog is the normalized output of a load. Movies keep load order.
type Catalog struct {
	Movies    []models.Movie
	Stats     models.LoadStats
	GenreMode models.GenreMode
}

// Source produces a Catalog.
type Source interface {
	Name() string
	Load(ctx context.Context) (*Catalog, error)
}

// finish logs and records the stats of a completed load and rejects empty
// catalogs.
func finish(c *Catalog) (*Catalog, error) {
	c.Stats.Kept = len(c.Movies)
	metrics.RecordDroppedRecords(c.Stats.Source, c.Stats.DropReasons)

	logger := logging.WithComponent("catalog")
	event := logger.Info()
	if c.Stats.Dropped > 0 {
		event = logger.Warn().Interface("drop_reasons", c.Stats.DropReasons)
	}
	event.Str("source", c.Stats.Source).
		Int("read", c.Stats.Read).
		Int("kept", c.Stats.Kept).
		Int("dropped", c.Stats.Dropped).
		Str("genre_mode", string(c.GenreMode)).
		Msg("Catalog loaded")

	if len(c.Movies) == 0 {
		return nil, fmt.Errorf("%s source: %w (%d read, %d dropped)", c.Stats.Source, ErrEmptyCatalog, c.Stats.Read, c.Stats.Dropped)
	}
	return c, nil
}
