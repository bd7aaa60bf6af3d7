// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/vectorize"
)

func TestBuild(t *testing.T) {
	movies := fiveMovies()
	movies[0].PosterPath = "/a.jpg"
	movies[0].Cast = []string{"Sam Worthington"}
	model := buildModel(t, models.GenreNames, movies)

	if model.Size() != 5 || len(model.Tags) != 5 {
		t.Fatalf("Size/Tags = %d/%d, want 5/5", model.Size(), len(model.Tags))
	}
	want := Capabilities{GenreFilter: true, Keywords: true, Credits: true, InlinePosters: true}
	if model.Capabilities != want {
		t.Errorf("Capabilities = %+v, want %+v", model.Capabilities, want)
	}
	if model.Version == 0 || model.BuiltAt.IsZero() {
		t.Errorf("Version/BuiltAt not set: %d %v", model.Version, model.BuiltAt)
	}
	if idx, ok := model.IndexOf(3); !ok || idx != 2 {
		t.Errorf("IndexOf(3) = %d, %v", idx, ok)
	}
	if idx, ok := model.FindTitle(" C "); !ok || idx != 2 {
		t.Errorf("FindTitle(C) = %d, %v", idx, ok)
	}
}

func TestBuildSimilarityProperties(t *testing.T) {
	model := buildModel(t, models.GenreNames, ratedMovies())
	sim := model.Similarity

	for i := 0; i < sim.Size(); i++ {
		if math.Abs(sim.At(i, i)-1) > 1e-9 {
			t.Errorf("diagonal %d = %v, want 1", i, sim.At(i, i))
		}
		for j := 0; j < sim.Size(); j++ {
			if sim.At(i, j) != sim.At(j, i) {
				t.Errorf("matrix not symmetric at %d,%d", i, j)
			}
		}
	}
}

func TestBuildVersionsIncrease(t *testing.T) {
	a := buildModel(t, models.GenreNames, fiveMovies())
	b := buildModel(t, models.GenreNames, fiveMovies())
	if b.Version <= a.Version {
		t.Errorf("versions %d then %d, want increasing", a.Version, b.Version)
	}
}

func TestBuildErrors(t *testing.T) {
	t.Run("source failure", func(t *testing.T) {
		src := &staticSource{err: catalog.ErrEmptyCatalog}
		if _, err := Build(context.Background(), src, BuildOptions{}); !errors.Is(err, catalog.ErrEmptyCatalog) {
			t.Errorf("error = %v, want ErrEmptyCatalog", err)
		}
	})

	t.Run("empty vocabulary", func(t *testing.T) {
		src := newSource(models.GenreNames, models.Movie{ID: 1, Title: "X", Overview: "the and of"})
		if _, err := Build(context.Background(), src, BuildOptions{}); !errors.Is(err, vectorize.ErrEmptyVocabulary) {
			t.Errorf("error = %v, want ErrEmptyVocabulary", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := Build(ctx, newSource(models.GenreNames, fiveMovies()...), BuildOptions{}); !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestHolderReload(t *testing.T) {
	src := newSource(models.GenreNames, fiveMovies()...)
	h := NewHolder(src, BuildOptions{}, nil)

	if h.Current() != nil {
		t.Fatal("Current() before first build should be nil")
	}

	first, err := h.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if h.Current() != first {
		t.Error("Current() is not the reloaded model")
	}

	src.mu.Lock()
	src.err = errors.New("source down")
	src.mu.Unlock()

	if _, err := h.Reload(context.Background()); err == nil {
		t.Fatal("expected reload error")
	}
	if h.Current() != first {
		t.Error("failed reload replaced the active model")
	}

	src.mu.Lock()
	src.err = nil
	src.mu.Unlock()

	second, err := h.Reload(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if second.Version <= first.Version || h.Current() != second {
		t.Errorf("reload did not publish a newer model: %d -> %d", first.Version, second.Version)
	}
}

func TestHolderConcurrentReads(t *testing.T) {
	src := newSource(models.GenreNames, fiveMovies()...)
	h := NewHolder(src, BuildOptions{}, buildModel(t, models.GenreNames, fiveMovies()))
	r := newTestRecommender(t, false)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if _, err := r.Recommend(context.Background(), h.Current(), Query{Title: "A"}); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	for i := 0; i < 3; i++ {
		if _, err := h.Reload(context.Background()); err != nil {
			t.Error(err)
		}
	}
	wg.Wait()
}
