// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/recommend"
)

// MovieSummary is a search hit.
type MovieSummary struct {
	ID     int64    `json:"id"`
	Title  string   `json:"title"`
	Year   int      `json:"year"`
	Rating float64  `json:"rating"`
	Genres []string `json:"genres"`
}

// MovieDetail is the payload of GET /api/v1/movies/{id}.
type MovieDetail struct {
	models.Movie
	Year      int    `json:"year"`
	PosterURL string `json:"poster_url,omitempty"`
}

// ModelInfo describes the active model.
type ModelInfo struct {
	Version         uint64                 `json:"version"`
	BuiltAt         time.Time              `json:"built_at"`
	BuildDurationMs int64                  `json:"build_duration_ms"`
	Movies          int                    `json:"movies"`
	Vocabulary      int                    `json:"vocabulary"`
	GenreMode       models.GenreMode       `json:"genre_mode"`
	Capabilities    recommend.Capabilities `json:"capabilities"`
	Stats           models.LoadStats       `json:"load_stats"`
}

// SearchMovies handles GET /api/v1/movies/search?q=&limit=.
// @Summary Search movie titles
// @Description Prefix matches rank ahead of substring matches.
// @Tags Catalog
// @Produce json
// @Param q query string true "Search text"
// @Param limit query int false "Maximum hits"
// @Success 200 {object} APIResponse{data=[]MovieSummary}
// @Failure 400 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /api/v1/movies/search [get]
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, apiErr := parseSearchRequest(r.URL.Query())
	if apiErr != nil {
		writeValidationError(rw, apiErr)
		return
	}
	limit := req.Limit
	if limit == 0 {
		limit = h.config.API.DefaultSearchLimit
	}
	if maxLimit := h.config.API.MaxSearchLimit; maxLimit > 0 && limit > maxLimit {
		writeValidationError(rw, limitError("limit", maxLimit))
		return
	}

	model := h.model(rw)
	if model == nil {
		return
	}

	hits := recommend.Search(model, req.Query, limit)
	out := make([]MovieSummary, len(hits))
	for i := range hits {
		m := &hits[i]
		out[i] = MovieSummary{ID: m.ID, Title: m.Title, Year: m.Year(), Rating: m.VoteAverage, Genres: m.Genres}
	}

	rw.SuccessWithMeta(out, &APIMeta{ModelVersion: model.Version, Count: intPtr(len(out))})
}

// Movie handles GET /api/v1/movies/{id}.
// @Summary Get a movie
// @Tags Catalog
// @Produce json
// @Param id path int true "Movie id"
// @Success 200 {object} APIResponse{data=MovieDetail}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /api/v1/movies/{id} [get]
func (h *Handler) Movie(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidation, "id must be a positive integer",
			map[string]interface{}{"field": "id"})
		return
	}

	model := h.model(rw)
	if model == nil {
		return
	}

	movie, err := recommend.Lookup(model, id)
	if err != nil {
		writeDomainError(rw, r, err)
		return
	}

	detail := MovieDetail{Movie: *movie, Year: movie.Year()}
	if h.posters != nil {
		detail.PosterURL = h.posters.Resolve(r.Context(), movie.ID, movie.PosterPath)
	}
	rw.SuccessWithMeta(detail, &APIMeta{ModelVersion: model.Version})
}

// Genres handles GET /api/v1/genres. The list is empty when the catalog only
// carries genre ids.
// @Summary List genres
// @Tags Catalog
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /api/v1/genres [get]
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	model := h.model(rw)
	if model == nil {
		return
	}

	genres := recommend.Genres(model)
	rw.SuccessWithMeta(map[string]interface{}{
		"genres":       genres,
		"genre_filter": model.Capabilities.GenreFilter,
	}, &APIMeta{ModelVersion: model.Version, Count: intPtr(len(genres))})
}

// Model handles GET /api/v1/model.
// @Summary Describe the active model
// @Tags Model
// @Produce json
// @Success 200 {object} APIResponse{data=ModelInfo}
// @Failure 503 {object} APIResponse
// @Router /api/v1/model [get]
func (h *Handler) Model(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	model := h.model(rw)
	if model == nil {
		return
	}
	rw.SuccessWithMeta(modelInfo(model), &APIMeta{ModelVersion: model.Version})
}

func modelInfo(m *recommend.Model) ModelInfo {
	info := ModelInfo{
		Version:         m.Version,
		BuiltAt:         m.BuiltAt,
		BuildDurationMs: m.BuildDuration.Milliseconds(),
		Movies:          m.Size(),
		GenreMode:       m.GenreMode,
		Capabilities:    m.Capabilities,
		Stats:           m.Stats,
	}
	if m.Space != nil {
		info.Vocabulary = m.Space.Width()
	}
	return info
}
