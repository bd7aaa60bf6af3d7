// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"sort"
	"strings"

	"github.com/tomtom215/marquee/internal/models"
)

// DefaultSearchLimit is used when Search is called with a non-positive limit.
const DefaultSearchLimit = 10

// Search finds movies whose title matches q case-insensitively. Prefix
// matches come first, then substring matches, each in catalog order.
func Search(model *Model, q string, limit int) []models.Movie {
	if model == nil {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	needle := strings.ToLower(strings.TrimSpace(q))
	if needle == "" {
		return []models.Movie{}
	}

	var prefix, contains []int
	for i := range model.Movies {
		title := strings.ToLower(model.Movies[i].Title)
		switch {
		case strings.HasPrefix(title, needle):
			prefix = append(prefix, i)
		case strings.Contains(title, needle):
			contains = append(contains, i)
		}
		if len(prefix) >= limit {
			break
		}
	}

	out := make([]models.Movie, 0, limit)
	for _, idx := range append(prefix, contains...) {
		if len(out) == limit {
			break
		}
		out = append(out, model.Movies[idx])
	}
	return out
}

// Genres returns the sorted distinct genre names of the model. It is empty
// when the model has no genre names.
func Genres(model *Model) []string {
	if model == nil || !model.Capabilities.GenreFilter {
		return []string{}
	}

	seen := make(map[string]struct{})
	for i := range model.Movies {
		for _, g := range model.Movies[i].Genres {
			seen[g] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Titles returns every title in catalog order.
func Titles(model *Model) []string {
	if model == nil {
		return nil
	}
	out := make([]string, len(model.Movies))
	for i := range model.Movies {
		out[i] = model.Movies[i].Title
	}
	return out
}

// Lookup returns the movie with id.
func Lookup(model *Model, id int64) (*models.Movie, error) {
	if model == nil {
		return nil, ErrNoModel
	}
	idx, ok := model.IndexOf(id)
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	m := model.Movies[idx]
	return &m, nil
}
