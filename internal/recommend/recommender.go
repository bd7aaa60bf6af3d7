// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/tomtom215/marquee/internal/cache"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/poster"
)

// PosterResolver turns a movie's poster path into a URL.
type PosterResolver interface {
	Resolve(ctx context.Context, id int64, path string) string
}

// Recommender answers queries against a Model. It is safe for concurrent use.
type Recommender struct {
	config  *Config
	posters PosterResolver
	results *cache.LRU[string, *Result]
}

// NewRecommender creates a Recommender. A nil posters resolver uses inline
// poster paths only, with the default placeholder.
func NewRecommender(cfg *Config, posters PosterResolver) (*Recommender, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if posters == nil {
		posters = poster.NewResolver(poster.Config{}, nil, nil)
	}

	r := &Recommender{config: cfg, posters: posters}
	if cfg.Cache.Enabled {
		r.results = cache.NewLRU[string, *Result](cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}
	return r, nil
}

// Config returns the recommender configuration.
func (r *Recommender) Config() *Config { return r.config }

// Prune drops expired cached results and returns how many were removed.
func (r *Recommender) Prune() int {
	if r.results == nil {
		return 0
	}
	return r.results.CleanupExpired()
}

// CacheStats returns result cache hits, misses and size.
func (r *Recommender) CacheStats() (hits, misses int64, size int) {
	if r.results == nil {
		return 0, 0, 0
	}
	return r.results.Stats()
}

// Recommend returns up to TopK movies most similar to the query movie.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (r *Recommender) Recommend(ctx context.Context, model *Model, q Query) (*Result, error) {
	start := time.Now()
	logger := logging.Ctx(ctx)

	if model == nil {
		metrics.RecordRecommendation("error", time.Since(start))
		return nil, ErrNoModel
	}

	q = r.prepareQuery(q)
	if q.Filters.Genre != "" && !model.Capabilities.GenreFilter {
		metrics.RecordRecommendation("invalid", time.Since(start))
		return nil, ErrGenreFilterUnavailable
	}

	idx, err := resolveQuery(model, &q)
	if err != nil {
		metrics.RecordRecommendation("not_found", time.Since(start))
		return nil, err
	}

	key := q.cacheKey(model.Version)
	if r.results != nil {
		if cached, ok := r.results.Get(key); ok {
			out := cached.clone()
			out.CacheHit = true
			r.attachPosters(ctx, model, out)
			metrics.RecordRecommendation("cached", time.Since(start))
			return out, nil
		}
	}

	result := r.rank(model, idx, &q)
	if r.results != nil {
		// Cached without poster URLs so a failed lookup is not replayed.
		r.results.Add(key, result.clone())
	}
	r.attachPosters(ctx, model, result)

	outcome := "ok"
	if result.Empty {
		outcome = "empty"
	}
	metrics.RecordRecommendation(outcome, time.Since(start))

	logger.Debug().
		Int64("movie_id", result.MovieID).
		Int("returned", len(result.Results)).
		Int("examined", result.Examined).
		Uint64("model_version", model.Version).
		Msg("Recommendation complete")

	return result, nil
}

// prepareQuery applies defaults and clamps TopK.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (r *Recommender) prepareQuery(q Query) Query {
	if q.TopK <= 0 {
		q.TopK = r.config.DefaultTopK
	}
	if q.TopK > r.config.MaxTopK {
		q.TopK = r.config.MaxTopK
	}
	q.Title = strings.TrimSpace(q.Title)
	q.Filters.Genre = strings.TrimSpace(q.Filters.Genre)
	return q
}

func resolveQuery(model *Model, q *Query) (int, error) {
	if q.ID != 0 {
		if idx, ok := model.IndexOf(q.ID); ok {
			return idx, nil
		}
		return 0, &NotFoundError{ID: q.ID, Title: q.Title}
	}
	if idx, ok := model.FindTitle(q.Title); ok {
		return idx, nil
	}
	return 0, &NotFoundError{Title: q.Title}
}

// rank walks the query row's neighbours in order and keeps those passing
// the filters, examining at most CandidatePool neighbours.
func (r *Recommender) rank(model *Model, idx int, q *Query) *Result {
	query := &model.Movies[idx]
	result := &Result{
		MovieID:      query.ID,
		MovieTitle:   query.Title,
		Results:      make([]models.Recommendation, 0, q.TopK),
		ModelVersion: model.Version,
	}

	neighbors := model.Similarity.Neighbors(idx)
	pool := min(r.config.CandidatePool, len(neighbors))

	for _, n := range neighbors[:pool] {
		if len(result.Results) >= q.TopK {
			break
		}
		result.Examined++

		m := &model.Movies[n.Index]
		if !q.Filters.Accept(m) {
			continue
		}
		result.Results = append(result.Results, models.Recommendation{
			ID:       m.ID,
			Title:    m.Title,
			Rating:   roundRating(m.VoteAverage),
			Year:     m.Year(),
			Overview: Snippet(m.Overview, r.config.SnippetLength),
			Score:    n.Score,
			Rank:     len(result.Results) + 1,
		})
	}

	result.Empty = len(result.Results) == 0
	return result
}

// attachPosters resolves the poster URL of every recommendation in res.
func (r *Recommender) attachPosters(ctx context.Context, model *Model, res *Result) {
	for i := range res.Results {
		rec := &res.Results[i]
		path := ""
		if idx, ok := model.IndexOf(rec.ID); ok {
			path = model.Movies[idx].PosterPath
		}
		rec.PosterURL = r.posters.Resolve(ctx, rec.ID, path)
	}
}

func roundRating(v float64) float64 {
	return math.Round(v*10) / 10
}

// Snippet shortens text to at most n runes, cutting at a word boundary and
// appending "..." when anything was removed.
func Snippet(text string, n int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if n <= 0 || len(runes) <= n {
		return text
	}

	cut := n
	for i := n; i > 0; i-- {
		if unicode.IsSpace(runes[i]) {
			cut = i
			break
		}
	}
	return strings.TrimRightFunc(string(runes[:cut]), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}) + "..."
}
