// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tomtom215/marquee/internal/models"
)

var (
	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = errors.New("movie not found")

	// ErrEmptyResult is available to callers that prefer an error value for
	// a query that matched nothing. Recommend itself reports this through
	// Result.Empty.
	ErrEmptyResult = errors.New("no recommendations matched the query")

	// ErrGenreFilterUnavailable is returned when a genre filter is requested
	// against a model without genre names.
	ErrGenreFilterUnavailable = errors.New("genre filtering is not available for the loaded catalog")

	// ErrNoModel is returned when no model has been built yet.
	ErrNoModel = errors.New("no model loaded")
)

// NotFoundError reports a query movie that is not in the catalog.
type NotFoundError struct {
	Title string
	ID    int64
}

func (e *NotFoundError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("movie id %d not found", e.ID)
	}
	return fmt.Sprintf("movie %q not found", e.Title)
}

// Is makes errors.Is(err, ErrNotFound) true.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Filters restrict recommendations. Zero values disable a filter. All set
// filters must pass.
type Filters struct {
	MinRating float64 `json:"min_rating,omitempty"`
	MaxYear   int     `json:"max_year,omitempty"`
	ExactYear int     `json:"exact_year,omitempty"`
	Genre     string  `json:"genre,omitempty"`
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f.MinRating == 0 && f.MaxYear == 0 && f.ExactYear == 0 && strings.TrimSpace(f.Genre) == ""
}

// Accept reports whether m passes every set filter. MinRating is compared
// against the rating as displayed, rounded to one decimal.
func (f Filters) Accept(m *models.Movie) bool {
	if f.MinRating != 0 && roundRating(m.VoteAverage) < f.MinRating {
		return false
	}
	year := m.Year()
	if f.MaxYear != 0 && year > f.MaxYear {
		return false
	}
	if f.ExactYear != 0 && year != f.ExactYear {
		return false
	}
	if genre := strings.TrimSpace(f.Genre); genre != "" && !m.HasGenre(genre) {
		return false
	}
	return true
}

// Query identifies the movie to recommend from and how to filter results.
// ID takes precedence over Title when both are set.
type Query struct {
	ID      int64   `json:"id,omitempty"`
	Title   string  `json:"title,omitempty"`
	Filters Filters `json:"filters"`
	TopK    int     `json:"top_k,omitempty"`
}

func (q *Query) cacheKey(version uint64) string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(version, 10))
	b.WriteByte('|')
	b.WriteString(strconv.FormatInt(q.ID, 10))
	b.WriteByte('|')
	b.WriteString(q.Title)
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(q.Filters.MinRating, 'g', -1, 64))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(q.Filters.MaxYear))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(q.Filters.ExactYear))
	b.WriteByte('|')
	b.WriteString(strings.ToLower(strings.TrimSpace(q.Filters.Genre)))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(q.TopK))
	return b.String()
}

// Result is the answer to a Query. Empty is true when the query movie was
// found but nothing passed the filters.
type Result struct {
	MovieID      int64                   `json:"movie_id"`
	MovieTitle   string                  `json:"movie_title"`
	Results      []models.Recommendation `json:"results"`
	Empty        bool                    `json:"empty"`
	Examined     int                     `json:"examined"`
	ModelVersion uint64                  `json:"model_version"`
	CacheHit     bool                    `json:"cache_hit"`
}

// clone returns a copy safe to hand out while the original stays cached.
func (r *Result) clone() *Result {
	out := *r
	out.Results = append([]models.Recommendation(nil), r.Results...)
	return &out
}
