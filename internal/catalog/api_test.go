// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/tmdb"
)

type fakeFetcher struct {
	pages     map[int][]tmdb.Movie
	failPages map[int]bool
	genres    []tmdb.Genre
	genreErr  error
	calls     []int
}

func (f *fakeFetcher) PopularPage(_ context.Context, page int) (*tmdb.Page, error) {
	f.calls = append(f.calls, page)
	if f.failPages[page] {
		return nil, &tmdb.StatusError{Endpoint: "/movie/popular", StatusCode: 503}
	}
	return &tmdb.Page{Page: page, Results: f.pages[page]}, nil
}

func (f *fakeFetcher) Genres(context.Context) ([]tmdb.Genre, error) {
	return f.genres, f.genreErr
}

func samplePages() map[int][]tmdb.Movie {
	return map[int][]tmdb.Movie{
		1: {
			{ID: 27205, Title: "Inception", Overview: "Dream heist", GenreIDs: []int{28, 878}, VoteAverage: 8.4, ReleaseDate: "2010-07-15", PosterPath: "/inc.jpg"},
			{ID: 2, Title: "", Overview: "untitled"},
		},
		2: {
			{ID: 157336, Title: "Interstellar", Overview: "Space travel", GenreIDs: []int{12, 99}, VoteAverage: 8.3},
			{ID: 27205, Title: "Inception", Overview: "Dream heist"},
			{ID: 3, Title: "Quiet", Overview: ""},
		},
	}
}

func TestAPISourceLoadResolvesGenres(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{
		pages:  samplePages(),
		genres: []tmdb.Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}, {ID: 12, Name: "Adventure"}},
	}
	c, err := NewAPISource(f, 2, true).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.GenreMode != models.GenreNames {
		t.Errorf("GenreMode = %s, want names", c.GenreMode)
	}
	if len(c.Movies) != 2 {
		t.Fatalf("kept %d movies, want 2", len(c.Movies))
	}
	if !reflect.DeepEqual(c.Movies[0].Genres, []string{"Action", "Science Fiction"}) {
		t.Errorf("Inception genres = %q", c.Movies[0].Genres)
	}
	// 99 is not in the genre list and stays an id string.
	if !reflect.DeepEqual(c.Movies[1].Genres, []string{"Adventure", "99"}) {
		t.Errorf("Interstellar genres = %q", c.Movies[1].Genres)
	}
	want := map[string]int{DropMissingTitle: 1, DropDuplicateID: 1, DropMissingOverview: 1}
	if !reflect.DeepEqual(c.Stats.DropReasons, want) {
		t.Errorf("DropReasons = %v, want %v", c.Stats.DropReasons, want)
	}
	if c.Stats.PagesFetched != 2 || c.Stats.Read != 5 {
		t.Errorf("PagesFetched/Read = %d/%d, want 2/5", c.Stats.PagesFetched, c.Stats.Read)
	}
}

func TestAPISourceGenreListFailureFallsBackToIDs(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{pages: samplePages(), genreErr: errors.New("boom")}
	c, err := NewAPISource(f, 1, true).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if c.GenreMode != models.GenreIDs {
		t.Errorf("GenreMode = %s, want ids", c.GenreMode)
	}
	if !reflect.DeepEqual(c.Movies[0].Genres, []string{"28", "878"}) {
		t.Errorf("genres = %q", c.Movies[0].Genres)
	}
}

func TestAPISourceFailedPageIsSkipped(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{pages: samplePages(), failPages: map[int]bool{1: true}}
	c, err := NewAPISource(f, 2, false).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Stats.PagesFailed != 1 || c.Stats.PagesFetched != 1 {
		t.Errorf("PagesFailed/PagesFetched = %d/%d, want 1/1", c.Stats.PagesFailed, c.Stats.PagesFetched)
	}
	if len(c.Movies) != 2 || c.Movies[0].Title != "Interstellar" {
		t.Errorf("unexpected movies %+v", c.Movies)
	}
	if !reflect.DeepEqual(f.calls, []int{1, 2}) {
		t.Errorf("failed pages must not be retried, calls = %v", f.calls)
	}
}

func TestAPISourceAllPagesFailed(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{failPages: map[int]bool{1: true, 2: true, 3: true}}
	_, err := NewAPISource(f, 3, false).Load(context.Background())
	if !errors.Is(err, ErrAllPagesFailed) {
		t.Fatalf("Load() error = %v, want ErrAllPagesFailed", err)
	}
	var fetchErr *SourceFetchError
	if !errors.As(err, &fetchErr) || fetchErr.Page != 3 {
		t.Errorf("expected SourceFetchError for page 3, got %v", err)
	}
}

func TestAPISourceEmptyPagesIsEmptyCatalog(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{pages: map[int][]tmdb.Movie{}}
	_, err := NewAPISource(f, 2, false).Load(context.Background())
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("Load() error = %v, want ErrEmptyCatalog", err)
	}
}
