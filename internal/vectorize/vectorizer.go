// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package vectorize turns a corpus of tag strings into raw term-count
// vectors over a bounded vocabulary.
//
// Tokenization lower-cases the input and keeps maximal runs of letters,
// digits and underscores that are at least two runes long. Stop words are
// removed after tokenization. When the vocabulary is capped, the terms with
// the highest total count across the corpus are retained; equal counts are
// ordered lexicographically so the selection never depends on map
// iteration order. Retained terms are assigned columns in lexicographic
// order.
package vectorize

import (
	"context"
	"errors"
	"sort"
	"strings"
	"unicode"
)

// DefaultMaxFeatures is the vocabulary cap used when none is configured.
const DefaultMaxFeatures = 5000

// ErrEmptyVocabulary is returned when no term survives tokenization and
// stop-word removal. A model cannot be built from such a corpus.
var ErrEmptyVocabulary = errors.New("vectorizer produced an empty vocabulary")

// SparseVector holds the non-zero cells of one document row. Indices are
// strictly increasing column numbers.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// Len returns the number of non-zero cells.
func (v SparseVector) Len() int { return len(v.Indices) }

// IsZero reports whether the vector has no non-zero cells.
func (v SparseVector) IsZero() bool { return len(v.Indices) == 0 }

// Dense expands the vector into a slice of width columns.
func (v SparseVector) Dense(width int) []float64 {
	out := make([]float64, width)
	for k, idx := range v.Indices {
		out[idx] = v.Values[k]
	}
	return out
}

// Space is the fitted vocabulary together with the count matrix of the
// corpus it was fitted on. It is never modified after FitTransform returns.
type Space struct {
	Terms []string
	Index map[string]int
	Rows  []SparseVector
}

// Width returns the number of vocabulary columns.
func (s *Space) Width() int { return len(s.Terms) }

// Transform counts the vocabulary terms in text. Unknown terms are ignored.
func (s *Space) Transform(text string, stop StopWordSet) SparseVector {
	counts := make(map[int]float64)
	for _, tok := range Tokenize(text) {
		if stop.Contains(tok) {
			continue
		}
		if idx, ok := s.Index[tok]; ok {
			counts[idx]++
		}
	}
	return fromCounts(counts)
}

// CountVectorizer fits a vocabulary and produces count vectors.
type CountVectorizer struct {
	// MaxFeatures caps the vocabulary size. 0 means unlimited.
	MaxFeatures int
	// StopWords are removed after tokenization. nil disables removal.
	StopWords StopWordSet
}

// New returns a CountVectorizer with the English stop-word list.
func New(maxFeatures int) *CountVectorizer {
	return &CountVectorizer{MaxFeatures: maxFeatures, StopWords: EnglishStopWords}
}

// FitTransform builds the vocabulary from tags and returns one count vector
// per tag, in input order.
func (cv *CountVectorizer) FitTransform(ctx context.Context, tags []string) (*Space, error) {
	docs := make([][]string, len(tags))
	totals := make(map[string]int)
	for i, tag := range tags {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		tokens := Tokenize(tag)
		kept := tokens[:0]
		for _, tok := range tokens {
			if cv.StopWords.Contains(tok) {
				continue
			}
			kept = append(kept, tok)
			totals[tok]++
		}
		docs[i] = kept
	}

	if len(totals) == 0 {
		return nil, ErrEmptyVocabulary
	}

	terms := selectTerms(totals, cv.MaxFeatures)
	index := make(map[string]int, len(terms))
	for i, term := range terms {
		index[term] = i
	}

	rows := make([]SparseVector, len(docs))
	for i, doc := range docs {
		counts := make(map[int]float64, len(doc))
		for _, tok := range doc {
			if idx, ok := index[tok]; ok {
				counts[idx]++
			}
		}
		rows[i] = fromCounts(counts)
	}

	return &Space{Terms: terms, Index: index, Rows: rows}, nil
}

// selectTerms returns the retained vocabulary in lexicographic order.
func selectTerms(totals map[string]int, maxFeatures int) []string {
	terms := make([]string, 0, len(totals))
	for term := range totals {
		terms = append(terms, term)
	}

	if maxFeatures > 0 && len(terms) > maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			ci, cj := totals[terms[i]], totals[terms[j]]
			if ci != cj {
				return ci > cj
			}
			return terms[i] < terms[j]
		})
		terms = terms[:maxFeatures]
	}

	sort.Strings(terms)
	return terms
}

func fromCounts(counts map[int]float64) SparseVector {
	if len(counts) == 0 {
		return SparseVector{}
	}
	indices := make([]int, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	values := make([]float64, len(indices))
	for k, idx := range indices {
		values[k] = counts[idx]
	}
	return SparseVector{Indices: indices, Values: values}
}

// Tokenize lower-cases text and splits it into tokens of at least two
// letters, digits or underscores.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	var tokens []string
	start := -1
	runes := 0
	for i, r := range lower {
		if isWordRune(r) {
			if start < 0 {
				start = i
				runes = 0
			}
			runes++
			continue
		}
		if start >= 0 && runes >= 2 {
			tokens = append(tokens, lower[start:i])
		}
		start = -1
	}
	if start >= 0 && runes >= 2 {
		tokens = append(tokens, lower[start:])
	}
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
