// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/features"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/similarity"
	"github.com/tomtom215/marquee/internal/vectorize"
)

// versionSeq numbers models within the process.
var versionSeq atomic.Uint64

// Capabilities describe which optional features a model supports, derived
// from what the catalog actually contains.
type Capabilities struct {
	GenreFilter   bool `json:"genre_filter"`
	Keywords      bool `json:"keywords"`
	Credits       bool `json:"credits"`
	InlinePosters bool `json:"inline_posters"`
}

// BuildOptions configures Build.
type BuildOptions struct {
	TagPolicy   features.Policy
	CastLimit   int
	MaxFeatures int
	// DisableStopWords keeps English stop words in the vocabulary.
	DisableStopWords bool
	Workers          int
}

// Model is an immutable recommendation snapshot.
type Model struct {
	Version       uint64
	BuiltAt       time.Time
	BuildDuration time.Duration

	Movies       []models.Movie
	Tags         []string
	Space        *vectorize.Space
	Similarity   *similarity.Matrix
	Stats        models.LoadStats
	GenreMode    models.GenreMode
	Capabilities Capabilities

	byID map[int64]int
}

// Size returns the number of movies in the model.
func (m *Model) Size() int { return len(m.Movies) }

// IndexOf returns the row of the movie with id.
func (m *Model) IndexOf(id int64) (int, bool) {
	i, ok := m.byID[id]
	return i, ok
}

// FindTitle returns the row of the first movie whose title equals title.
func (m *Model) FindTitle(title string) (int, bool) {
	title = strings.TrimSpace(title)
	for i := range m.Movies {
		if m.Movies[i].Title == title {
			return i, true
		}
	}
	return 0, false
}

// Build loads the catalog from src and computes a new model.
func Build(ctx context.Context, src catalog.Source, opts BuildOptions) (model *Model, err error) {
	logger := logging.WithComponent("recommend")
	start := time.Now()

	defer func() {
		if err != nil {
			metrics.RecordModelBuild(err, 0, 0, 0)
			logger.Error().Err(err).Str("source", src.Name()).Msg("Model build failed")
		}
	}()

	stage := time.Now()
	cat, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	metrics.RecordModelStage("load", time.Since(stage))

	stage = time.Now()
	tags := features.NewBuilder(opts.TagPolicy, opts.CastLimit).BuildAll(cat.Movies)
	metrics.RecordModelStage("tags", time.Since(stage))

	stage = time.Now()
	cv := vectorize.New(opts.MaxFeatures)
	if opts.DisableStopWords {
		cv.StopWords = nil
	}
	space, err := cv.FitTransform(ctx, tags)
	if err != nil {
		return nil, fmt.Errorf("vectorize: %w", err)
	}
	metrics.RecordModelStage("vectorize", time.Since(stage))

	stage = time.Now()
	matrix, err := similarity.Compute(ctx, space, similarity.Options{Workers: opts.Workers})
	if err != nil {
		return nil, fmt.Errorf("similarity: %w", err)
	}
	metrics.RecordModelStage("similarity", time.Since(stage))

	model = &Model{
		Version:      versionSeq.Add(1),
		BuiltAt:      time.Now(),
		Movies:       cat.Movies,
		Tags:         tags,
		Space:        space,
		Similarity:   matrix,
		Stats:        cat.Stats,
		GenreMode:    cat.GenreMode,
		Capabilities: detectCapabilities(cat),
		byID:         make(map[int64]int, len(cat.Movies)),
	}
	for i := range cat.Movies {
		if _, dup := model.byID[cat.Movies[i].ID]; !dup {
			model.byID[cat.Movies[i].ID] = i
		}
	}
	model.BuildDuration = time.Since(start)

	metrics.RecordModelBuild(nil, model.Size(), space.Width(), model.Version)
	logger.Info().
		Uint64("model_version", model.Version).
		Int("movies", model.Size()).
		Int("vocabulary", space.Width()).
		Interface("capabilities", model.Capabilities).
		Dur("duration", model.BuildDuration).
		Msg("Model built")

	return model, nil
}

func detectCapabilities(cat *catalog.Catalog) Capabilities {
	var caps Capabilities
	for i := range cat.Movies {
		m := &cat.Movies[i]
		if len(m.Genres) > 0 {
			caps.GenreFilter = true
		}
		if len(m.Keywords) > 0 {
			caps.Keywords = true
		}
		if len(m.Cast) > 0 || len(m.Directors) > 0 {
			caps.Credits = true
		}
		if m.PosterPath != "" {
			caps.InlinePosters = true
		}
	}
	caps.GenreFilter = caps.GenreFilter && cat.GenreMode == models.GenreNames
	return caps
}
