// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/marquee/internal/logging"
)

// minJWTSecretLength is the minimum HS256 secret length.
const minJWTSecretLength = 32

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateModel(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validatePoster(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive, got %v", c.Server.ShutdownTimeout)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	switch c.Catalog.Source {
	case SourceTabular:
		return c.validateTabular()
	case SourceAPI:
		return c.validateAPISource()
	default:
		return fmt.Errorf("CATALOG_SOURCE must be %q or %q, got %q", SourceTabular, SourceAPI, c.Catalog.Source)
	}
}

func (c *Config) validateTabular() error {
	t := c.Catalog.Tabular
	if t.MoviesPath == "" || t.CreditsPath == "" {
		return fmt.Errorf("CATALOG_MOVIES_PATH and CATALOG_CREDITS_PATH are required when CATALOG_SOURCE=tabular")
	}
	if t.Reader != ReaderCSV && t.Reader != ReaderDuckDB {
		return fmt.Errorf("CATALOG_READER must be %q or %q, got %q", ReaderCSV, ReaderDuckDB, t.Reader)
	}
	return nil
}

func (c *Config) validateAPISource() error {
	a := c.Catalog.API
	if a.APIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required when CATALOG_SOURCE=api")
	}
	if err := validateHTTPURL("TMDB_BASE_URL", a.BaseURL); err != nil {
		return err
	}
	if a.Pages < 1 {
		return fmt.Errorf("TMDB_PAGES must be positive, got %d", a.Pages)
	}
	if a.Timeout <= 0 {
		return fmt.Errorf("TMDB_TIMEOUT must be positive, got %v", a.Timeout)
	}
	if a.RequestsPerSecond <= 0 {
		return fmt.Errorf("TMDB_REQUESTS_PER_SECOND must be positive, got %v", a.RequestsPerSecond)
	}
	if a.MaxRetries < 0 {
		return fmt.Errorf("TMDB_MAX_RETRIES must be non-negative, got %d", a.MaxRetries)
	}
	return nil
}

func (c *Config) validateModel() error {
	switch strings.ToLower(c.Features.TagPolicy) {
	case "split", "collapse":
	default:
		return fmt.Errorf("TAG_POLICY must be split or collapse, got %q", c.Features.TagPolicy)
	}
	if c.Features.CastLimit < 1 {
		return fmt.Errorf("TAG_CAST_LIMIT must be positive, got %d", c.Features.CastLimit)
	}
	if c.Vectorizer.MaxFeatures < 0 {
		return fmt.Errorf("VECTORIZER_MAX_FEATURES must be non-negative, got %d", c.Vectorizer.MaxFeatures)
	}
	if c.Similarity.Workers < 0 {
		return fmt.Errorf("SIMILARITY_WORKERS must be non-negative, got %d", c.Similarity.Workers)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.DefaultTopK < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_TOP_K must be positive, got %d", r.DefaultTopK)
	}
	if r.MaxTopK < r.DefaultTopK {
		return fmt.Errorf("RECOMMEND_MAX_TOP_K must be >= RECOMMEND_DEFAULT_TOP_K, got %d < %d", r.MaxTopK, r.DefaultTopK)
	}
	if r.CandidatePool < 1 {
		return fmt.Errorf("RECOMMEND_CANDIDATE_POOL must be positive, got %d", r.CandidatePool)
	}
	if r.SnippetLength < 1 {
		return fmt.Errorf("RECOMMEND_SNIPPET_LENGTH must be positive, got %d", r.SnippetLength)
	}
	if r.CacheEnabled && r.CacheMaxEntries < 1 {
		return fmt.Errorf("RECOMMEND_CACHE_MAX_ENTRIES must be positive when the cache is enabled, got %d", r.CacheMaxEntries)
	}
	return nil
}

func (c *Config) validatePoster() error {
	p := c.Poster
	if err := validateHTTPURL("POSTER_IMAGE_BASE_URL", p.ImageBaseURL); err != nil {
		return err
	}
	if err := validateHTTPURL("POSTER_PLACEHOLDER", p.Placeholder); err != nil {
		return err
	}
	if p.LookupTimeout <= 0 {
		return fmt.Errorf("POSTER_LOOKUP_TIMEOUT must be positive, got %v", p.LookupTimeout)
	}
	switch p.CacheBackend {
	case "lru", "badger":
	default:
		return fmt.Errorf("POSTER_CACHE_BACKEND must be lru or badger, got %q", p.CacheBackend)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	s := c.Security
	if s.JWTSecret != "" && len(s.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	if s.JWTSecret != "" && s.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TOKEN_TTL must be positive, got %v", s.TokenTTL)
	}
	if !s.RateLimitDisabled {
		if s.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", s.RateLimitReqs)
		}
		if s.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", s.RateLimitWindow)
		}
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultSearchLimit < 1 {
		return fmt.Errorf("API_DEFAULT_SEARCH_LIMIT must be positive, got %d", c.API.DefaultSearchLimit)
	}
	if c.API.MaxSearchLimit < c.API.DefaultSearchLimit {
		return fmt.Errorf("API_MAX_SEARCH_LIMIT must be >= API_DEFAULT_SEARCH_LIMIT, got %d < %d",
			c.API.MaxSearchLimit, c.API.DefaultSearchLimit)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w (want trace, debug, info, warn, error, fatal, panic or disabled)", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func validateHTTPURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", name, raw)
	}
	return nil
}
