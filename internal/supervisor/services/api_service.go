// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package services provides suture.Service wrappers for Marquee components.
package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// APIServer is the part of *http.Server the API service drives.
type APIServer interface {
	Serve(l net.Listener) error
	Shutdown(ctx context.Context) error
}

// APIServerService runs the recommendation API under the supervisor.
//
// The listener is bound inside Serve so a port conflict fails the service
// instead of a background goroutine. On cancellation in-flight requests get
// the drain period to finish.
//
//	server := &http.Server{Handler: router}
//	tree.Add(supervisor.LayerAPI, services.NewAPIServerService(server, ":8501", 10*time.Second, logger))
type APIServerService struct {
	server APIServer
	addr   string
	drain  time.Duration
	bound  atomic.Pointer[string]
	logger zerolog.Logger
	name   string
}

// NewAPIServerService creates the API service listening on addr.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAPIServerService(server APIServer, addr string, drain time.Duration, logger zerolog.Logger) *APIServerService {
	if drain <= 0 {
		drain = 10 * time.Second
	}
	return &APIServerService{
		server: server,
		addr:   addr,
		drain:  drain,
		logger: logger.With().Str("task", "api").Logger(),
		name:   "api-server",
	}
}

// Addr returns the bound address once the service is listening, which
// differs from the configured one when the port is 0.
func (s *APIServerService) Addr() string {
	if p := s.bound.Load(); p != nil {
		return *p
	}
	return ""
}

// Serve implements suture.Service.
func (s *APIServerService) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	bound := ln.Addr().String()
	s.bound.Store(&bound)
	s.logger.Info().Str("addr", bound).Msg("api listening")

	// Serve closes ln when it returns.
	errCh := make(chan error, 1)
	go func() { errCh <- s.server.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve api: %w", err)
	case <-ctx.Done():
	}

	start := time.Now()
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.drain)
	defer cancel()

	shutdownErr := s.server.Shutdown(drainCtx)
	<-errCh
	if shutdownErr != nil {
		return fmt.Errorf("drain api connections: %w", shutdownErr)
	}
	s.logger.Info().Dur("drain", time.Since(start)).Msg("api stopped")
	return ctx.Err()
}

// String implements fmt.Stringer for suture logging.
func (s *APIServerService) String() string {
	return s.name
}
