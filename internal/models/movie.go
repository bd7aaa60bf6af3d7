// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package models

import (
	"strconv"
	"strings"
)

// GenreMode describes how a catalog represents genres.
type GenreMode string

const (
	// GenreNames means Movie.Genres holds human readable names ("Action").
	GenreNames GenreMode = "names"
	// GenreIDs means Movie.Genres holds decimal provider ids ("28").
	GenreIDs GenreMode = "ids"
)

// Movie is one catalog entry.
type Movie struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	Genres      []string `json:"genres"`
	GenreIDs    []int    `json:"genre_ids,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Cast        []string `json:"cast,omitempty"`
	Directors   []string `json:"directors,omitempty"`
	VoteAverage float64  `json:"vote_average"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Popularity  float64  `json:"popularity"`
	PosterPath  string   `json:"poster_path,omitempty"`
}

// Year returns the release year parsed from the leading YYYY of ReleaseDate.
// An empty or unparseable date yields 0.
func (m *Movie) Year() int {
	date := strings.TrimSpace(m.ReleaseDate)
	if len(date) < 4 {
		return 0
	}
	head, _, _ := strings.Cut(date, "-")
	if len(head) != 4 {
		return 0
	}
	year, err := strconv.Atoi(head)
	if err != nil || year < 0 {
		return 0
	}
	return year
}

// HasGenre reports whether the movie lists genre, compared case-insensitively.
func (m *Movie) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

// LoadStats summarizes a catalog load.
type LoadStats struct {
	Source       string         `json:"source"`
	Read         int            `json:"read"`
	Kept         int            `json:"kept"`
	Dropped      int            `json:"dropped"`
	DropReasons  map[string]int `json:"drop_reasons,omitempty"`
	PagesFetched int            `json:"pages_fetched,omitempty"`
	PagesFailed  int            `json:"pages_failed,omitempty"`
}

// Drop records one dropped record under reason.
func (s *LoadStats) Drop(reason string) {
	if s.DropReasons == nil {
		s.DropReasons = make(map[string]int)
	}
	s.DropReasons[reason]++
	s.Dropped++
}

// Recommendation is a ranked result with display metadata resolved.
type Recommendation struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Rating    float64 `json:"rating"`
	Year      int     `json:"year"`
	PosterURL string  `json:"poster_url"`
	Overview  string  `json:"overview_snippet"`
	Score     float64 `json:"score"`
	Rank      int     `json:"rank"`
}
