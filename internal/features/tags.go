// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package features flattens a movie's textual and categorical signals into
// the single "tag" string the vectorizer consumes.
//
// A tag is the concatenation, in fixed order, of:
//
//	overview tokens | genres | keywords | top-billed cast | directors
//
// joined by single spaces. Building a tag is pure: the same Movie always
// yields the same string.
package features

import (
	"fmt"
	"strings"

	"github.com/tomtom215/marquee/internal/models"
)

// Policy controls how multi-word names (genres, keywords, cast, directors)
// are represented in the tag.
type Policy string

const (
	// PolicySplit keeps multi-word names space-separated, so the vectorizer
	// sees "Sam Worthington" as the two tokens "sam" and "worthington".
	PolicySplit Policy = "split"

	// PolicyCollapse removes internal whitespace, so "Sam Worthington"
	// becomes the single token "SamWorthington" and does not collide with
	// other people sharing a first name.
	PolicyCollapse Policy = "collapse"
)

// DefaultCastLimit is the number of top-billed cast members included.
const DefaultCastLimit = 3

// ParsePolicy converts a configuration string into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicySplit:
		return PolicySplit, nil
	case PolicyCollapse:
		return PolicyCollapse, nil
	default:
		return "", fmt.Errorf("unknown tag policy %q (want split or collapse)", s)
	}
}

// Builder builds feature tags.
type Builder struct {
	Policy    Policy
	CastLimit int
}

// NewBuilder creates a Builder, applying defaults for zero values.
func NewBuilder(policy Policy, castLimit int) *Builder {
	if policy == "" {
		policy = PolicySplit
	}
	if castLimit <= 0 {
		castLimit = DefaultCastLimit
	}
	return &Builder{Policy: policy, CastLimit: castLimit}
}

// BuildTag returns the tag string for m.
//
//nolint:gocritic // hugeParam: Movie is read-only here and callers pass slice elements
func (b *Builder) BuildTag(m models.Movie) string {
	parts := make([]string, 0, 64)
	parts = append(parts, strings.Fields(m.Overview)...)
	parts = b.appendNames(parts, m.Genres)
	parts = b.appendNames(parts, m.Keywords)

	cast := m.Cast
	if len(cast) > b.CastLimit {
		cast = cast[:b.CastLimit]
	}
	parts = b.appendNames(parts, cast)
	parts = b.appendNames(parts, m.Directors)

	return strings.Join(parts, " ")
}

// BuildAll returns one tag per movie, in catalog order.
func (b *Builder) BuildAll(movies []models.Movie) []string {
	tags := make([]string, len(movies))
	for i := range movies {
		tags[i] = b.BuildTag(movies[i])
	}
	return tags
}

func (b *Builder) appendNames(parts, names []string) []string {
	for _, name := range names {
		fields := strings.Fields(name)
		if len(fields) == 0 {
			continue
		}
		if b.Policy == PolicyCollapse {
			parts = append(parts, strings.Join(fields, ""))
			continue
		}
		parts = append(parts, fields...)
	}
	return parts
}
