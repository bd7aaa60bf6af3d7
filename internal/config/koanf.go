// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/marquee/config.yaml",
	"/etc/marquee/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// sliceConfigPaths are config keys whose env values are comma-separated lists.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8501,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Catalog: CatalogConfig{
			Source: SourceTabular,
			Tabular: TabularConfig{
				MoviesPath:  "data/tmdb_5000_movies.csv",
				CreditsPath: "data/tmdb_5000_credits.csv",
				Reader:      ReaderCSV,
			},
			API: APISourceConfig{
				BaseURL:           "https://api.themoviedb.org/3",
				Language:          "en-US",
				Pages:             5,
				Timeout:           10 * time.Second,
				RequestsPerSecond: 20,
				Burst:             5,
				MaxRetries:        3,
				ResolveGenreNames: true,
			},
		},
		Features: FeaturesConfig{
			TagPolicy: "split",
			CastLimit: 3,
		},
		Vectorizer: VectorizerConfig{
			MaxFeatures: 5000,
			StopWords:   true,
		},
		Similarity: SimilarityConfig{
			Workers: 0,
		},
		Recommend: RecommendConfig{
			DefaultTopK:     5,
			MaxTopK:         50,
			CandidatePool:   50,
			SnippetLength:   160,
			CacheEnabled:    true,
			CacheTTL:        10 * time.Minute,
			CacheMaxEntries: 4096,
		},
		Poster: PosterConfig{
			ImageBaseURL:  "https://image.tmdb.org/t/p/w500",
			Placeholder:   "https://via.placeholder.com/300x450?text=No+Image",
			LookupTimeout: 3 * time.Second,
			FetchMissing:  true,
			CacheBackend:  "lru",
			CacheSize:     10000,
			CacheTTL:      24 * time.Hour,
			CachePath:     "",
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			TokenTTL:          1 * time.Hour,
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
		},
		API: APIConfig{
			DefaultSearchLimit: 10,
			MaxSearchLimit:     50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration from all layers and validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
// struct defaults, then the optional YAML file, then environment variables.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns CONFIG_PATH if it exists, else the first existing
// default path, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to config paths.
var envMappings = map[string]string{
	// Server mappings
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Catalog mappings
	"catalog_source":       "catalog.source",
	"catalog_movies_path":  "catalog.tabular.movies_path",
	"catalog_credits_path": "catalog.tabular.credits_path",
	"catalog_reader":       "catalog.tabular.reader",

	// Metadata provider mappings
	"tmdb_base_url":            "catalog.api.base_url",
	"tmdb_api_key":             "catalog.api.api_key",
	"tmdb_language":            "catalog.api.language",
	"tmdb_pages":               "catalog.api.pages",
	"tmdb_timeout":             "catalog.api.timeout",
	"tmdb_requests_per_second": "catalog.api.requests_per_second",
	"tmdb_burst":               "catalog.api.burst",
	"tmdb_max_retries":         "catalog.api.max_retries",
	"tmdb_resolve_genre_names": "catalog.api.resolve_genre_names",

	// Feature and vectorizer mappings
	"tag_policy":              "features.tag_policy",
	"tag_cast_limit":          "features.cast_limit",
	"vectorizer_max_features": "vectorizer.max_features",
	"vectorizer_stop_words":   "vectorizer.stop_words",
	"similarity_workers":      "similarity.workers",

	// Recommendation mappings
	"recommend_default_top_k":     "recommend.default_top_k",
	"recommend_max_top_k":         "recommend.max_top_k",
	"recommend_candidate_pool":    "recommend.candidate_pool",
	"recommend_snippet_length":    "recommend.snippet_length",
	"recommend_cache_enabled":     "recommend.cache_enabled",
	"recommend_cache_ttl":         "recommend.cache_ttl",
	"recommend_cache_max_entries": "recommend.cache_max_entries",

	// Poster mappings
	"poster_image_base_url": "poster.image_base_url",
	"poster_placeholder":    "poster.placeholder",
	"poster_lookup_timeout": "poster.lookup_timeout",
	"poster_fetch_missing":  "poster.fetch_missing",
	"poster_cache_backend":  "poster.cache_backend",
	"poster_cache_size":     "poster.cache_size",
	"poster_cache_ttl":      "poster.cache_ttl",
	"poster_cache_path":     "poster.cache_path",

	// Security mappings
	"jwt_secret":          "security.jwt_secret",
	"jwt_token_ttl":       "security.token_ttl",
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// API mappings
	"api_default_search_limit": "api.default_search_limit",
	"api_max_search_limit":     "api.max_search_limit",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - TMDB_API_KEY -> catalog.api.api_key
//   - CATALOG_SOURCE -> catalog.source
//   - HTTP_PORT -> server.port
//
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
