// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package app wires configuration into the running components shared by the
// HTTP server and the command line tool.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/features"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/poster"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/tmdb"
)

// Components holds everything needed to answer recommendation queries.
type Components struct {
	Config      *config.Config
	Source      catalog.Source
	Provider    *tmdb.Client // nil without an API key
	PosterCache poster.Cache
	Posters     *poster.Resolver
	Recommender *recommend.Recommender
	Holder      *recommend.Holder
}

// New creates the components described by cfg. No model is built; call
// Build before serving queries.
func New(cfg *config.Config) (*Components, error) {
	logger := logging.WithComponent("app")

	opts, err := BuildOptions(cfg)
	if err != nil {
		return nil, err
	}

	c := &Components{Config: cfg}

	if cfg.Catalog.API.APIKey != "" {
		c.Provider = tmdb.NewClient(ProviderConfig(cfg))
	}

	c.Source, err = NewSource(cfg, c.Provider)
	if err != nil {
		return nil, err
	}

	c.PosterCache, err = poster.OpenCache(poster.CacheConfig{
		Backend: cfg.Poster.CacheBackend,
		Size:    cfg.Poster.CacheSize,
		TTL:     cfg.Poster.CacheTTL,
		Path:    cfg.Poster.CachePath,
	})
	if err != nil {
		return nil, fmt.Errorf("open poster cache: %w", err)
	}

	var details poster.DetailFetcher
	if cfg.Poster.FetchMissing && c.Provider != nil {
		details = c.Provider
	}
	c.Posters = poster.NewResolver(poster.Config{
		ImageBaseURL:  cfg.Poster.ImageBaseURL,
		Placeholder:   cfg.Poster.Placeholder,
		LookupTimeout: cfg.Poster.LookupTimeout,
	}, details, c.PosterCache)

	c.Recommender, err = recommend.NewRecommender(RecommendConfig(cfg), c.Posters)
	if err != nil {
		_ = c.PosterCache.Close()
		return nil, fmt.Errorf("create recommender: %w", err)
	}

	c.Holder = recommend.NewHolder(c.Source, opts, nil)

	logger.Info().
		Str("source", c.Source.Name()).
		Bool("provider", c.Provider != nil).
		Bool("poster_lookup", details != nil).
		Str("poster_cache", cfg.Poster.CacheBackend).
		Msg("Components initialized")

	return c, nil
}

// Build builds the model and makes it current.
func (c *Components) Build(ctx context.Context) (*recommend.Model, error) {
	return c.Holder.Reload(ctx)
}

// Close releases the poster cache.
func (c *Components) Close() error {
	if c.PosterCache == nil {
		return nil
	}
	return c.PosterCache.Close()
}

// NewSource creates the configured catalog source. The API source requires
// provider.
func NewSource(cfg *config.Config, provider *tmdb.Client) (catalog.Source, error) {
	switch cfg.Catalog.Source {
	case config.SourceTabular:
		t := cfg.Catalog.Tabular
		var reader catalog.RowReader
		switch t.Reader {
		case config.ReaderDuckDB:
			reader = &catalog.DuckDBReader{MoviesPath: t.MoviesPath, CreditsPath: t.CreditsPath}
		default:
			reader = &catalog.CSVReader{MoviesPath: t.MoviesPath, CreditsPath: t.CreditsPath}
		}
		return catalog.NewTabularSource(reader, cfg.Features.CastLimit), nil
	case config.SourceAPI:
		if provider == nil {
			return nil, errors.New("api catalog source requires a provider API key")
		}
		return catalog.NewAPISource(provider, cfg.Catalog.API.Pages, cfg.Catalog.API.ResolveGenreNames), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}

// ProviderConfig maps configuration onto the metadata provider client.
func ProviderConfig(cfg *config.Config) tmdb.Config {
	a := cfg.Catalog.API
	return tmdb.Config{
		BaseURL:           a.BaseURL,
		APIKey:            a.APIKey,
		Language:          a.Language,
		Timeout:           a.Timeout,
		RequestsPerSecond: a.RequestsPerSecond,
		Burst:             a.Burst,
		MaxRetries:        a.MaxRetries,
	}
}

// BuildOptions maps configuration onto model build options.
func BuildOptions(cfg *config.Config) (recommend.BuildOptions, error) {
	policy, err := features.ParsePolicy(cfg.Features.TagPolicy)
	if err != nil {
		return recommend.BuildOptions{}, err
	}
	return recommend.BuildOptions{
		TagPolicy:        policy,
		CastLimit:        cfg.Features.CastLimit,
		MaxFeatures:      cfg.Vectorizer.MaxFeatures,
		DisableStopWords: !cfg.Vectorizer.StopWords,
		Workers:          cfg.Similarity.Workers,
	}, nil
}

// RecommendConfig maps configuration onto the recommender.
func RecommendConfig(cfg *config.Config) *recommend.Config {
	r := cfg.Recommend
	return &recommend.Config{
		DefaultTopK:   r.DefaultTopK,
		MaxTopK:       r.MaxTopK,
		CandidatePool: r.CandidatePool,
		SnippetLength: r.SnippetLength,
		Cache: recommend.CacheConfig{
			Enabled:    r.CacheEnabled,
			TTL:        r.CacheTTL,
			MaxEntries: r.CacheMaxEntries,
		},
	}
}
