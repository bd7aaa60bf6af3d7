// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Catalog.Source != SourceTabular {
		t.Errorf("Catalog.Source = %q, want tabular", cfg.Catalog.Source)
	}
	if cfg.Vectorizer.MaxFeatures != 5000 || !cfg.Vectorizer.StopWords {
		t.Errorf("Vectorizer = %+v, want 5000 features with stop words", cfg.Vectorizer)
	}
	if cfg.Recommend.DefaultTopK != 5 || cfg.Recommend.CandidatePool != 50 {
		t.Errorf("Recommend = %+v", cfg.Recommend)
	}
	if cfg.Features.TagPolicy != "split" || cfg.Features.CastLimit != 3 {
		t.Errorf("Features = %+v", cfg.Features)
	}
	if cfg.Poster.Placeholder != "https://via.placeholder.com/300x450?text=No+Image" {
		t.Errorf("Poster.Placeholder = %q", cfg.Poster.Placeholder)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

// setTestEnv isolates a test from the process environment and config files.
func setTestEnv(t *testing.T, env map[string]string) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	setTestEnv(t, map[string]string{
		"HTTP_PORT":                "9090",
		"CATALOG_SOURCE":           "api",
		"TMDB_API_KEY":             "key",
		"TMDB_PAGES":               "3",
		"RECOMMEND_CANDIDATE_POOL": "20",
		"POSTER_CACHE_TTL":         "2h",
		"CORS_ORIGINS":             "https://a.example, https://b.example",
		"LOG_LEVEL":                "debug",
		"UNRELATED_VARIABLE":       "ignored",
	})

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Catalog.Source != SourceAPI || cfg.Catalog.API.APIKey != "key" || cfg.Catalog.API.Pages != 3 {
		t.Errorf("Catalog = %+v", cfg.Catalog)
	}
	if cfg.Recommend.CandidatePool != 20 {
		t.Errorf("Recommend.CandidatePool = %d, want 20", cfg.Recommend.CandidatePool)
	}
	if cfg.Poster.CacheTTL != 2*time.Hour {
		t.Errorf("Poster.CacheTTL = %v, want 2h", cfg.Poster.CacheTTL)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %q, want %q", cfg.Security.CORSOrigins, want)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	setTestEnv(t, nil)

	dir := t.TempDir()
	path := filepath.Join(dir, "marquee.yaml")
	yaml := `
server:
  port: 7000
features:
  tag_policy: collapse
recommend:
  default_top_k: 8
poster:
  cache_backend: badger
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7100")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	// Environment wins over the file.
	if cfg.Server.Port != 7100 {
		t.Errorf("Server.Port = %d, want 7100", cfg.Server.Port)
	}
	if cfg.Features.TagPolicy != "collapse" || cfg.Recommend.DefaultTopK != 8 || cfg.Poster.CacheBackend != "badger" {
		t.Errorf("file values not applied: %+v %+v %+v", cfg.Features, cfg.Recommend, cfg.Poster)
	}
	// Untouched keys keep their defaults.
	if cfg.Vectorizer.MaxFeatures != 5000 {
		t.Errorf("Vectorizer.MaxFeatures = %d, want default 5000", cfg.Vectorizer.MaxFeatures)
	}
}

func TestLoadWithKoanf_InvalidConfig(t *testing.T) {
	setTestEnv(t, map[string]string{"CATALOG_SOURCE": "api"})

	if _, err := LoadWithKoanf(); err == nil {
		t.Error("expected validation error for api source without key")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want string
	}{
		{"TMDB_API_KEY", "catalog.api.api_key"},
		{"HTTP_PORT", "server.port"},
		{"tag_policy", "features.tag_policy"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := envTransformFunc(tt.key); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
