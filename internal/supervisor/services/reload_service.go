// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package services

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/recommend"
)

// ModelReloader rebuilds the active model.
type ModelReloader interface {
	Reload(ctx context.Context) (*recommend.Model, error)
}

// ReloadService rebuilds the model when explicitly asked to: on SIGHUP or
// through Trigger. Requests arriving during a rebuild coalesce into one
// follow-up rebuild. It never reloads on a timer.
type ReloadService struct {
	reloader ModelReloader
	timeout  time.Duration
	signals  []os.Signal
	trigger  chan struct{}
	logger   zerolog.Logger
	name     string
}

// NewReloadService creates a reload service listening for SIGHUP.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewReloadService(reloader ModelReloader, timeout time.Duration, logger zerolog.Logger) *ReloadService {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &ReloadService{
		reloader: reloader,
		timeout:  timeout,
		signals:  []os.Signal{syscall.SIGHUP},
		trigger:  make(chan struct{}, 1),
		logger:   logger.With().Str("task", "reload").Logger(),
		name:     "reload-service",
	}
}

// Trigger requests a rebuild without waiting for it.
func (s *ReloadService) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Serve implements suture.Service.
func (s *ReloadService) Serve(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	if len(s.signals) > 0 {
		signal.Notify(sigCh, s.signals...)
		defer signal.Stop(sigCh)
	}

	s.logger.Info().Msg("reload service running")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig := <-sigCh:
			s.logger.Info().Str("signal", sig.String()).Msg("reload requested by signal")
			s.reload(ctx)
		case <-s.trigger:
			s.logger.Info().Msg("reload requested")
			s.reload(ctx)
		}
	}
}

func (s *ReloadService) reload(ctx context.Context) {
	reloadCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	model, err := s.reloader.Reload(reloadCtx)
	if err != nil {
		s.logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("model reload failed")
		return
	}
	s.logger.Info().
		Uint64("model_version", model.Version).
		Int("movies", model.Size()).
		Dur("duration", time.Since(start)).
		Msg("model reloaded")
}

// String implements fmt.Stringer for suture logging.
func (s *ReloadService) String() string {
	return s.name
}
