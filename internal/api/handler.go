// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/validation"
)

// ModelStore publishes the active model and rebuilds it on request.
// *recommend.Holder implements it.
type ModelStore interface {
	Current() *recommend.Model
	Reload(ctx context.Context) (*recommend.Model, error)
}

// PosterURLs resolves poster URLs for movie detail responses.
type PosterURLs interface {
	Resolve(ctx context.Context, id int64, path string) string
}

// Handler serves the recommendation API.
type Handler struct {
	store       ModelStore
	recommender *recommend.Recommender
	posters     PosterURLs
	config      *config.Config
	version     string
	startTime   time.Time
}

// NewHandler creates a Handler. posters may be nil, in which case movie
// details omit poster URLs.
func NewHandler(cfg *config.Config, store ModelStore, rec *recommend.Recommender, posters PosterURLs, version string) *Handler {
	return &Handler{
		store:       store,
		recommender: rec,
		posters:     posters,
		config:      cfg,
		version:     version,
		startTime:   time.Now(),
	}
}

// model returns the active model or writes a 503 and returns nil.
func (h *Handler) model(rw *ResponseWriter) *recommend.Model {
	m := h.store.Current()
	if m == nil {
		rw.ServiceUnavailable(ErrCodeModelUnavailable, "No model has been built yet")
	}
	return m
}

// writeValidationError writes a 400 VALIDATION_ERROR response.
func writeValidationError(rw *ResponseWriter, apiErr *validation.APIError) {
	rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
}

// writeDomainError maps recommend errors onto API error codes.
func writeDomainError(rw *ResponseWriter, r *http.Request, err error) {
	var notFound *recommend.NotFoundError
	switch {
	case errors.As(err, &notFound):
		details := map[string]interface{}{}
		if notFound.ID != 0 {
			details["id"] = notFound.ID
		} else {
			details["title"] = notFound.Title
		}
		rw.ErrorWithDetails(http.StatusNotFound, ErrCodeMovieNotFound, notFound.Error(), details)
	case errors.Is(err, recommend.ErrGenreFilterUnavailable):
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeCapabilityUnavailable, err.Error(),
			map[string]interface{}{"capability": "genre_filter"})
	case errors.Is(err, recommend.ErrNoModel):
		rw.ServiceUnavailable(ErrCodeModelUnavailable, "No model has been built yet")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		rw.ServiceUnavailable(ErrCodeInternalError, "Request timed out")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Request failed")
		rw.InternalError("An internal error occurred")
	}
}

func intPtr(v int) *int { return &v }
