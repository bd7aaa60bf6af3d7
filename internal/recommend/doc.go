// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package recommend builds immutable recommendation models and answers
"more like this" queries against them.

# Model

A Model is a snapshot produced by Build from a catalog.Source. Build runs
four stages in order:

 1. load: the source returns normalized movies and load statistics
 2. tags: features.Builder produces one tag string per movie
 3. vectorize: vectorize.CountVectorizer fits the vocabulary
 4. similarity: similarity.Compute fills the full cosine matrix

Every stage duration is exported through the metrics package. A Model is
never mutated after Build returns; Holder swaps whole snapshots on Reload so
concurrent readers always see a consistent catalog, vocabulary and matrix.

# Queries

Recommender.Recommend resolves the query movie (by id, else by first exact
title match), walks its similarity row in descending order with ties broken
by catalog order, and keeps candidates passing all filters until TopK are
accepted. Only the first CandidatePool neighbours are examined, so a strict
filter can legitimately produce an empty Result.

Filter semantics:

  - MinRating: vote_average rounded to one decimal >= value
  - MaxYear: year <= value; a movie with no release year (0) always passes
  - ExactYear: year == value; a movie with no release year never matches
  - Genre: case-insensitive genre membership; requires the GenreFilter
    capability, otherwise ErrGenreFilterUnavailable is returned

# Usage

	model, err := recommend.Build(ctx, src, recommend.BuildOptions{})
	if err != nil {
	    return err
	}
	holder := recommend.NewHolder(src, recommend.BuildOptions{}, model)

	rec := recommend.NewRecommender(recommend.DefaultConfig(), resolver)
	result, err := rec.Recommend(ctx, holder.Current(), recommend.Query{Title: "Avatar"})
*/
package recommend
