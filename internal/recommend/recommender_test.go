// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/models"
)

type staticSource struct {
	mu    sync.Mutex
	cat   *catalog.Catalog
	err   error
	loads int
}

func (s *staticSource) Name() string { return "static" }

func (s *staticSource) Load(context.Context) (*catalog.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	movies := append([]models.Movie(nil), s.cat.Movies...)
	return &catalog.Catalog{Movies: movies, Stats: s.cat.Stats, GenreMode: s.cat.GenreMode}, nil
}

func newSource(mode models.GenreMode, movies ...models.Movie) *staticSource {
	return &staticSource{cat: &catalog.Catalog{
		Movies:    movies,
		Stats:     models.LoadStats{Source: "static", Read: len(movies), Kept: len(movies)},
		GenreMode: mode,
	}}
}

// fiveMovies has A and B sharing every genre and keyword token and C, D, E
// sharing nothing with A.
func fiveMovies() []models.Movie {
	return []models.Movie{
		{ID: 1, Title: "A", Overview: "alpha", Genres: []string{"Action"}, Keywords: []string{"spaceship"}, VoteAverage: 7.0, ReleaseDate: "2009-12-10"},
		{ID: 2, Title: "B", Overview: "bravo", Genres: []string{"Action"}, Keywords: []string{"spaceship"}, VoteAverage: 6.5, ReleaseDate: "2012-05-01"},
		{ID: 3, Title: "C", Overview: "charlie", Genres: []string{"Drama"}, Keywords: []string{"romance"}, VoteAverage: 8.1, ReleaseDate: "1994-09-23"},
		{ID: 4, Title: "D", Overview: "delta", Genres: []string{"Comedy"}, Keywords: []string{"wedding"}, VoteAverage: 5.5},
		{ID: 5, Title: "E", Overview: "echo", Genres: []string{"Horror"}, Keywords: []string{"ghost"}, VoteAverage: 6.0, ReleaseDate: "1980-05-23"},
	}
}

// ratedMovies share a common token so every pair is similar, with ratings 5..9.
func ratedMovies() []models.Movie {
	out := make([]models.Movie, 0, 5)
	for i, rating := range []float64{5, 6, 7, 8, 9} {
		out = append(out, models.Movie{
			ID:          int64(i + 1),
			Title:       "Movie " + string(rune('A'+i)),
			Overview:    "shared story " + strings.Repeat("x", i+2),
			Genres:      []string{"Drama"},
			VoteAverage: rating,
			ReleaseDate: "2000-01-01",
		})
	}
	return out
}

func buildModel(t *testing.T, mode models.GenreMode, movies []models.Movie) *Model {
	t.Helper()
	m, err := Build(context.Background(), newSource(mode, movies...), BuildOptions{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return m
}

func newTestRecommender(t *testing.T, cacheEnabled bool) *Recommender {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Cache.Enabled = cacheEnabled
	r, err := NewRecommender(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func ids(res *Result) []int64 {
	out := make([]int64, len(res.Results))
	for i, r := range res.Results {
		out[i] = r.ID
	}
	return out
}

func TestRecommendFiveMovieScenario(t *testing.T) {
	model := buildModel(t, models.GenreNames, fiveMovies())
	r := newTestRecommender(t, false)

	res, err := r.Recommend(context.Background(), model, Query{Title: "A"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	// B first, then zero-score ties in catalog order.
	if want := []int64{2, 3, 4, 5}; !reflect.DeepEqual(ids(res), want) {
		t.Errorf("results = %v, want %v", ids(res), want)
	}
	if res.Results[0].Score <= 0 || res.Results[1].Score != 0 {
		t.Errorf("unexpected scores %+v", res.Results)
	}
	for i, rec := range res.Results {
		if rec.Rank != i+1 {
			t.Errorf("rank of %d = %d, want %d", rec.ID, rec.Rank, i+1)
		}
	}
	if res.Empty {
		t.Error("Empty = true for a non-empty result")
	}
}

func TestRecommendNeverReturnsQueryMovie(t *testing.T) {
	model := buildModel(t, models.GenreNames, ratedMovies())
	r := newTestRecommender(t, false)

	for i := range model.Movies {
		res, err := r.Recommend(context.Background(), model, Query{ID: model.Movies[i].ID, TopK: 10})
		if err != nil {
			t.Fatal(err)
		}
		if len(res.Results) > model.Size()-1 {
			t.Errorf("%d results for %d movies", len(res.Results), model.Size())
		}
		for _, rec := range res.Results {
			if rec.ID == model.Movies[i].ID {
				t.Errorf("query movie %d returned in its own results", rec.ID)
			}
		}
	}
}

func TestRecommendTopK(t *testing.T) {
	model := buildModel(t, models.GenreNames, ratedMovies())
	r := newTestRecommender(t, false)

	tests := []struct {
		name string
		topK int
		want int
	}{
		{"default", 0, 4},
		{"two", 2, 2},
		{"one", 1, 1},
		{"clamped", 1000, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Recommend(context.Background(), model, Query{ID: 1, TopK: tt.topK})
			if err != nil {
				t.Fatal(err)
			}
			if len(res.Results) != tt.want {
				t.Errorf("got %d results, want %d", len(res.Results), tt.want)
			}
		})
	}
}

func TestRecommendFilters(t *testing.T) {
	movies := ratedMovies()
	movies[2].ReleaseDate = ""           // rating 7, year 0
	movies[3].ReleaseDate = "2015-06-01" // rating 8
	model := buildModel(t, models.GenreNames, movies)
	r := newTestRecommender(t, false)

	tests := []struct {
		name    string
		filters Filters
		want    []int64
	}{
		{"min rating is conjunctive floor", Filters{MinRating: 7}, []int64{3, 4, 5}},
		{"max year lets year 0 through", Filters{MaxYear: 2005}, []int64{2, 3, 5}},
		{"exact year never matches year 0", Filters{ExactYear: 2000}, []int64{2, 5}},
		{"rating and year combined", Filters{MinRating: 7, MaxYear: 2005}, []int64{3, 5}},
		{"genre case insensitive", Filters{Genre: "drama"}, []int64{2, 3, 4, 5}},
		{"genre with no match", Filters{Genre: "Western"}, []int64{}},
		{"impossible rating", Filters{MinRating: 11}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Recommend(context.Background(), model, Query{ID: 1, Filters: tt.filters, TopK: 10})
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			got := ids(res)
			// Order depends on scores; compare as sets.
			if !sameSet(got, tt.want) {
				t.Errorf("results = %v, want %v", got, tt.want)
			}
			if res.Empty != (len(tt.want) == 0) {
				t.Errorf("Empty = %v", res.Empty)
			}
			for _, rec := range res.Results {
				if rec.Rating < tt.filters.MinRating {
					t.Errorf("rating %v below %v", rec.Rating, tt.filters.MinRating)
				}
			}
		})
	}
}

func sameSet(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[int64]int)
	for _, v := range a {
		seen[v]++
	}
	for _, v := range b {
		seen[v]--
	}
	for _, n := range seen {
		if n != 0 {
			return false
		}
	}
	return true
}

func TestRecommendNotFound(t *testing.T) {
	model := buildModel(t, models.GenreNames, fiveMovies())
	r := newTestRecommender(t, false)

	tests := []struct {
		name  string
		query Query
	}{
		{"unknown title", Query{Title: "Nope"}},
		{"unknown id", Query{ID: 999}},
		{"case differs", Query{Title: "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Recommend(context.Background(), model, tt.query)
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("error = %v, want ErrNotFound", err)
			}
			var nf *NotFoundError
			if !errors.As(err, &nf) {
				t.Errorf("error %T is not *NotFoundError", err)
			}
		})
	}
}

func TestRecommendEmptyIsNotNotFound(t *testing.T) {
	model := buildModel(t, models.GenreNames, fiveMovies())
	r := newTestRecommender(t, false)

	res, err := r.Recommend(context.Background(), model, Query{Title: "A", Filters: Filters{MinRating: 11}})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !res.Empty || len(res.Results) != 0 || res.Results == nil {
		t.Errorf("want empty non-nil results, got %+v", res)
	}
}

func TestRecommendIDPreferredOverTitle(t *testing.T) {
	model := buildModel(t, models.GenreNames, fiveMovies())
	r := newTestRecommender(t, false)

	res, err := r.Recommend(context.Background(), model, Query{ID: 3, Title: "A"})
	if err != nil {
		t.Fatal(err)
	}
	if res.MovieID != 3 {
		t.Errorf("resolved %d, want 3", res.MovieID)
	}
}

func TestRecommendDuplicateTitleUsesFirstMatch(t *testing.T) {
	movies := fiveMovies()
	movies[4].Title = "A"
	model := buildModel(t, models.GenreNames, movies)
	r := newTestRecommender(t, false)

	res, err := r.Recommend(context.Background(), model, Query{Title: "A"})
	if err != nil {
		t.Fatal(err)
	}
	if res.MovieID != 1 {
		t.Errorf("resolved %d, want first match 1", res.MovieID)
	}
	// The later duplicate is a different row and may be recommended.
	if !sameSet(ids(res), []int64{2, 3, 4, 5}) {
		t.Errorf("results = %v", ids(res))
	}
}

func TestRecommendGenreCapability(t *testing.T) {
	movies := fiveMovies()
	for i := range movies {
		movies[i].Genres = []string{"28"}
	}
	model := buildModel(t, models.GenreIDs, movies)
	r := newTestRecommender(t, false)

	if model.Capabilities.GenreFilter {
		t.Fatal("GenreFilter capability set for an id-only catalog")
	}
	_, err := r.Recommend(context.Background(), model, Query{Title: "A", Filters: Filters{Genre: "Action"}})
	if !errors.Is(err, ErrGenreFilterUnavailable) {
		t.Errorf("error = %v, want ErrGenreFilterUnavailable", err)
	}
}

func TestRecommendCandidatePool(t *testing.T) {
	model := buildModel(t, models.GenreNames, ratedMovies())
	cfg := DefaultConfig()
	cfg.CandidatePool = 2
	cfg.Cache.Enabled = false
	r, err := NewRecommender(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	res, err := r.Recommend(context.Background(), model, Query{ID: 1, TopK: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Results) != 2 || res.Examined != 2 {
		t.Errorf("results/examined = %d/%d, want 2/2", len(res.Results), res.Examined)
	}
}

func TestRecommendDeterministic(t *testing.T) {
	a := buildModel(t, models.GenreNames, ratedMovies())
	b := buildModel(t, models.GenreNames, ratedMovies())
	r := newTestRecommender(t, false)

	for id := int64(1); id <= 5; id++ {
		ra, err := r.Recommend(context.Background(), a, Query{ID: id})
		if err != nil {
			t.Fatal(err)
		}
		rb, err := r.Recommend(context.Background(), b, Query{ID: id})
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(ra.Results, rb.Results) {
			t.Errorf("query %d differs between identical builds", id)
		}
	}
}

func TestRecommendCache(t *testing.T) {
	model := buildModel(t, models.GenreNames, fiveMovies())
	r := newTestRecommender(t, true)
	ctx := context.Background()

	first, err := r.Recommend(ctx, model, Query{Title: "A"})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit {
		t.Error("first call reported a cache hit")
	}
	first.Results[0].Title = "mutated"

	second, err := r.Recommend(ctx, model, Query{Title: "A"})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second call missed the cache")
	}
	if second.Results[0].Title != "B" {
		t.Errorf("cached result was mutated: %q", second.Results[0].Title)
	}

	// A new model version does not share cached results.
	rebuilt := buildModel(t, models.GenreNames, fiveMovies())
	third, err := r.Recommend(ctx, rebuilt, Query{Title: "A"})
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("cache hit across model versions")
	}
}

// switchablePosters answers with the placeholder while down is set, the way
// the poster resolver degrades when the provider is unreachable.
type switchablePosters struct {
	mu    sync.Mutex
	down  bool
	calls int
}

const testPlaceholder = "https://via.placeholder.com/300x450?text=No+Image"

func (p *switchablePosters) Resolve(_ context.Context, id int64, _ string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.down {
		return testPlaceholder
	}
	return "https://image.tmdb.org/t/p/w500/" + strconv.FormatInt(id, 10) + ".jpg"
}

func (p *switchablePosters) setDown(down bool) {
	p.mu.Lock()
	p.down = down
	p.mu.Unlock()
}

func TestRecommendCacheDoesNotReplayPlaceholders(t *testing.T) {
	model := buildModel(t, models.GenreNames, fiveMovies())
	posters := &switchablePosters{down: true}
	cfg := DefaultConfig()
	cfg.Cache.Enabled = true
	r, err := NewRecommender(cfg, posters)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	first, err := r.Recommend(ctx, model, Query{Title: "A"})
	if err != nil {
		t.Fatal(err)
	}
	for _, rec := range first.Results {
		if rec.PosterURL != testPlaceholder {
			t.Fatalf("poster for %d = %s while provider is down", rec.ID, rec.PosterURL)
		}
	}

	posters.setDown(false)

	second, err := r.Recommend(ctx, model, Query{Title: "A"})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Fatal("second call missed the cache")
	}
	for _, rec := range second.Results {
		want := "https://image.tmdb.org/t/p/w500/" + strconv.FormatInt(rec.ID, 10) + ".jpg"
		if rec.PosterURL != want {
			t.Errorf("poster for %d = %s after recovery, want %s", rec.ID, rec.PosterURL, want)
		}
	}
	if !reflect.DeepEqual(ids(first), ids(second)) {
		t.Errorf("cached ranking changed: %v vs %v", ids(first), ids(second))
	}
}

func TestRecommendMinRatingUsesDisplayedRating(t *testing.T) {
	tests := []struct {
		name      string
		vote      float64
		minRating float64
		wantB     bool
	}{
		{"rounds below a fractional floor", 7.345, 7.34, false},
		{"rounds up to the floor", 6.96, 7, true},
		{"exactly on the floor", 7.3, 7.3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movies := fiveMovies()
			movies[1].VoteAverage = tt.vote
			model := buildModel(t, models.GenreNames, movies)
			r := newTestRecommender(t, false)

			res, err := r.Recommend(context.Background(), model, Query{Title: "A", Filters: Filters{MinRating: tt.minRating}})
			if err != nil {
				t.Fatal(err)
			}
			gotB := false
			for _, rec := range res.Results {
				if rec.Rating < tt.minRating {
					t.Errorf("movie %d rating %v below min_rating %v", rec.ID, rec.Rating, tt.minRating)
				}
				if rec.ID == 2 {
					gotB = true
				}
			}
			if gotB != tt.wantB {
				t.Errorf("B returned = %v, want %v (results %v)", gotB, tt.wantB, ids(res))
			}
		})
	}
}

func TestRecommendDisplayFields(t *testing.T) {
	movies := fiveMovies()
	movies[1].VoteAverage = 6.66
	movies[1].PosterPath = "/b.jpg"
	movies[1].Overview = "bravo " + strings.Repeat("word ", 60)
	model := buildModel(t, models.GenreNames, movies)
	r := newTestRecommender(t, false)

	res, err := r.Recommend(context.Background(), model, Query{Title: "A", TopK: 1})
	if err != nil {
		t.Fatal(err)
	}
	rec := res.Results[0]
	if rec.Rating != 6.7 {
		t.Errorf("Rating = %v, want 6.7", rec.Rating)
	}
	if rec.Year != 2012 {
		t.Errorf("Year = %d, want 2012", rec.Year)
	}
	if rec.PosterURL != "https://image.tmdb.org/t/p/w500/b.jpg" {
		t.Errorf("PosterURL = %s", rec.PosterURL)
	}
	if !strings.HasSuffix(rec.Overview, "...") || len([]rune(rec.Overview)) > DefaultSnippetLength+3 {
		t.Errorf("Overview snippet = %q", rec.Overview)
	}
}

func TestRecommendNoModel(t *testing.T) {
	r := newTestRecommender(t, false)
	if _, err := r.Recommend(context.Background(), nil, Query{Title: "A"}); !errors.Is(err, ErrNoModel) {
		t.Errorf("error = %v, want ErrNoModel", err)
	}
}

func TestSnippet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		n    int
		want string
	}{
		{"short text untouched", "A short overview.", 160, "A short overview."},
		{"cut at word boundary", "one two three four", 10, "one two..."},
		{"trailing punctuation dropped", "one, two three", 5, "one..."},
		{"no space hard cut", "abcdefghij", 4, "abcd..."},
		{"multibyte runes", "héllo wörld again", 11, "héllo wörld..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Snippet(tt.text, tt.n); got != tt.want {
				t.Errorf("Snippet() = %q, want %q", got, tt.want)
			}
		})
	}
}
