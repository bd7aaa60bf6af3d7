// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package config loads Marquee configuration from defaults, an optional YAML
// file and environment variables.
package config

import (
	"net"
	"strconv"
	"time"
)

// Catalog source kinds.
const (
	SourceTabular = "tabular"
	SourceAPI     = "api"
)

// Tabular readers.
const (
	ReaderCSV    = "csv"
	ReaderDuckDB = "duckdb"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for all settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Catalog    CatalogConfig    `koanf:"catalog"`
	Features   FeaturesConfig   `koanf:"features"`
	Vectorizer VectorizerConfig `koanf:"vectorizer"`
	Similarity SimilarityConfig `koanf:"similarity"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Poster     PosterConfig     `koanf:"poster"`
	Security   SecurityConfig   `koanf:"security"`
	API        APIConfig        `koanf:"api"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// CatalogConfig selects and configures the catalog source.
type CatalogConfig struct {
	Source  string          `koanf:"source"`
	Tabular TabularConfig   `koanf:"tabular"`
	API     APISourceConfig `koanf:"api"`
}

// TabularConfig locates the movies and credits tables.
type TabularConfig struct {
	MoviesPath  string `koanf:"movies_path"`
	CreditsPath string `koanf:"credits_path"`
	// Reader is "csv" (encoding/csv) or "duckdb" (read_csv_auto).
	Reader string `koanf:"reader"`
}

// APISourceConfig configures the metadata provider client and API source.
type APISourceConfig struct {
	BaseURL           string        `koanf:"base_url"`
	APIKey            string        `koanf:"api_key"`
	Language          string        `koanf:"language"`
	Pages             int           `koanf:"pages"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	MaxRetries        int           `koanf:"max_retries"`
	ResolveGenreNames bool          `koanf:"resolve_genre_names"`
}

// FeaturesConfig controls tag construction.
type FeaturesConfig struct {
	TagPolicy string `koanf:"tag_policy"`
	CastLimit int    `koanf:"cast_limit"`
}

// VectorizerConfig controls the count vectorizer.
type VectorizerConfig struct {
	MaxFeatures int  `koanf:"max_features"`
	StopWords   bool `koanf:"stop_words"`
}

// SimilarityConfig controls similarity computation.
type SimilarityConfig struct {
	// Workers is the number of goroutines; 0 uses GOMAXPROCS.
	Workers int `koanf:"workers"`
}

// RecommendConfig controls query handling.
type RecommendConfig struct {
	DefaultTopK     int           `koanf:"default_top_k"`
	MaxTopK         int           `koanf:"max_top_k"`
	CandidatePool   int           `koanf:"candidate_pool"`
	SnippetLength   int           `koanf:"snippet_length"`
	CacheEnabled    bool          `koanf:"cache_enabled"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	CacheMaxEntries int           `koanf:"cache_max_entries"`
}

// PosterConfig controls poster URL resolution.
type PosterConfig struct {
	ImageBaseURL  string        `koanf:"image_base_url"`
	Placeholder   string        `koanf:"placeholder"`
	LookupTimeout time.Duration `koanf:"lookup_timeout"`
	// FetchMissing looks up poster paths the catalog lacks. Requires an API key.
	FetchMissing bool          `koanf:"fetch_missing"`
	CacheBackend string        `koanf:"cache_backend"`
	CacheSize    int           `koanf:"cache_size"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
	// CachePath is the badger directory; empty keeps badger in memory.
	CachePath string `koanf:"cache_path"`
}

// SecurityConfig holds authentication, CORS and rate limiting settings.
type SecurityConfig struct {
	// JWTSecret enables the admin API when set. Minimum 32 characters.
	JWTSecret         string        `koanf:"jwt_secret"`
	TokenTTL          time.Duration `koanf:"token_ttl"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// APIConfig holds API response limits.
type APIConfig struct {
	DefaultSearchLimit int `koanf:"default_search_limit"`
	MaxSearchLimit     int `koanf:"max_search_limit"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the server listen address.
func (s *ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// AdminEnabled reports whether the admin API is configured.
func (s *SecurityConfig) AdminEnabled() bool {
	return s.JWTSecret != ""
}
