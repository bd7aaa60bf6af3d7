// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package main is the entry point for the Marquee recommendation server.
//
// Startup order:
//
//  1. Configuration: defaults, optional config.yaml, environment (Koanf v2)
//  2. Logging: zerolog at LOG_LEVEL / LOG_FORMAT
//  3. Components: catalog source, metadata client, poster cache, recommender
//  4. First model build; the process exits if it fails
//  5. Supervisor tree: HTTP server, reload service, cache janitor
//
// # Configuration
//
// Tabular catalog (default):
//
//	export CATALOG_SOURCE=tabular
//	export CATALOG_MOVIES_PATH=data/tmdb_5000_movies.csv
//	export CATALOG_CREDITS_PATH=data/tmdb_5000_credits.csv
//	./marquee-server
//
// Metadata API catalog:
//
//	export CATALOG_SOURCE=api
//	export TMDB_API_KEY=your-api-key
//	export TMDB_PAGES=25
//	./marquee-server
//
// Setting JWT_SECRET (32+ characters) mounts POST /api/v1/admin/reload.
// Mint a token with `marquee token`.
//
// # Signal Handling
//
//   - SIGHUP rebuilds the model from the configured source. The previous
//     model keeps serving if the rebuild fails.
//   - SIGINT and SIGTERM stop the supervisor tree and drain HTTP requests.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/marquee/internal/api"
	"github.com/tomtom215/marquee/internal/app"
	"github.com/tomtom215/marquee/internal/auth"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/supervisor"
	"github.com/tomtom215/marquee/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// janitorInterval is how often expired cache entries are pruned.
const janitorInterval = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Service:   "marquee-server",
		Version:   version,
	})

	logging.Info().
		Str("catalog_source", cfg.Catalog.Source).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting Marquee")

	components, err := app.New(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize components")
	}
	defer func() {
		if err := components.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing poster cache")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	model, err := components.Build(ctx)
	if err != nil {
		// Fatal skips deferred calls.
		_ = components.Close()
		logging.Fatal().Err(err).Msg("Failed to build initial model")
	}
	logging.Info().
		Uint64("model_version", model.Version).
		Int("movies", model.Size()).
		Dur("duration", model.BuildDuration).
		Msg("Initial model ready")

	server := &http.Server{
		Handler:           newRouter(cfg, components),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), treeCfg)
	if err != nil {
		_ = components.Close()
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	logger := logging.WithComponent("supervisor")
	for _, svc := range []struct {
		layer   supervisor.Layer
		service suture.Service
	}{
		{supervisor.LayerModel, services.NewReloadService(components.Holder, 0, logger)},
		{supervisor.LayerModel, services.NewCacheJanitorService(map[string]services.Pruner{
			"results": components.Recommender,
			"posters": components.PosterCache,
		}, janitorInterval, logger)},
		{supervisor.LayerAPI, services.NewAPIServerService(server, cfg.Server.Addr(), cfg.Server.ShutdownTimeout, logger)},
	} {
		if _, err := tree.Add(svc.layer, svc.service); err != nil {
			_ = components.Close()
			logging.Fatal().Err(err).Msg("Failed to register service")
		}
	}

	if err := tree.Run(ctx); err != nil {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}
	logging.Info().Msg("Marquee stopped")
}

// newRouter builds the HTTP handler. The admin routes are mounted only when
// a JWT secret is configured.
func newRouter(cfg *config.Config, c *app.Components) http.Handler {
	handler := api.NewHandler(cfg, c.Holder, c.Recommender, c.Posters, version)

	var authMiddleware *auth.Middleware
	if cfg.Security.AdminEnabled() {
		jwtManager, err := auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
		authMiddleware = auth.NewMiddleware(jwtManager, api.WriteError)
		logging.Info().Msg("Admin API enabled")
	} else {
		logging.Info().Msg("Admin API disabled (JWT_SECRET not set)")
	}

	chiMW := api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security))
	return api.NewRouter(handler, chiMW, authMiddleware).Setup()
}
