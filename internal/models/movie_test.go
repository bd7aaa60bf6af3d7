// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package models

import "testing"

func TestMovieYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		date string
		want int
	}{
		{"full date", "2009-12-10", 2009},
		{"year only", "1999", 1999},
		{"empty", "", 0},
		{"whitespace", "   ", 0},
		{"garbage", "soon", 0},
		{"short year", "99-01-01", 0},
		{"padded", " 2010-07-14 ", 2010},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Movie{ReleaseDate: tt.date}
			if got := m.Year(); got != tt.want {
				t.Errorf("Year() for %q = %d, want %d", tt.date, got, tt.want)
			}
		})
	}
}

func TestMovieHasGenre(t *testing.T) {
	t.Parallel()

	m := Movie{Genres: []string{"Science Fiction", "Action"}}
	if !m.HasGenre("action") {
		t.Error("expected case-insensitive genre match")
	}
	if m.HasGenre("Drama") {
		t.Error("did not expect Drama to match")
	}
}

func TestLoadStatsDrop(t *testing.T) {
	t.Parallel()

	var s LoadStats
	s.Drop("missing_title")
	s.Drop("missing_title")
	s.Drop("bad_json")

	if s.Dropped != 3 {
		t.Errorf("Dropped = %d, want 3", s.Dropped)
	}
	if s.DropReasons["missing_title"] != 2 {
		t.Errorf("missing_title = %d, want 2", s.DropReasons["missing_title"])
	}
}
