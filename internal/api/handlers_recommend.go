// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"net/http"

	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/recommend"
)

// RecommendResponse is the data payload of GET /api/v1/recommendations.
type RecommendResponse struct {
	Movie   MovieRef                `json:"movie"`
	Results []models.Recommendation `json:"results"`
	Empty   bool                    `json:"empty"`
	Message string                  `json:"message,omitempty"`
	Filters recommend.Filters       `json:"filters"`
}

// MovieRef identifies the query movie.
type MovieRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Recommendations handles GET /api/v1/recommendations.
//
// The query movie is chosen by id, or by exact title when no id is given.
// An unknown movie returns 404 MOVIE_NOT_FOUND. A known movie whose
// neighbours all fail the filters returns 200 with an empty result.
// @Summary Recommend similar movies
// @Description Ranks catalog movies by cosine similarity to the query movie and applies the conjunctive filters.
// @Tags Recommendations
// @Produce json
// @Param id query int false "Query movie id, takes precedence over title"
// @Param title query string false "Exact query movie title, required without id"
// @Param k query int false "Number of results (default 5)"
// @Param min_rating query number false "Minimum displayed rating, 0-10"
// @Param max_year query int false "Latest release year; movies without a year pass"
// @Param exact_year query int false "Exact release year"
// @Param genre query string false "Genre name, case-insensitive"
// @Success 200 {object} APIResponse{data=RecommendResponse}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /api/v1/recommendations [get]
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, apiErr := parseRecommendRequest(r.URL.Query())
	if apiErr != nil {
		writeValidationError(rw, apiErr)
		return
	}
	if maxK := h.recommender.Config().MaxTopK; req.TopK > maxK {
		writeValidationError(rw, limitError("k", maxK))
		return
	}

	model := h.model(rw)
	if model == nil {
		return
	}

	result, err := h.recommender.Recommend(r.Context(), model, req.Query())
	if err != nil {
		writeDomainError(rw, r, err)
		return
	}

	resp := RecommendResponse{
		Movie:   MovieRef{ID: result.MovieID, Title: result.MovieTitle},
		Results: result.Results,
		Empty:   result.Empty,
		Filters: req.Query().Filters,
	}
	if resp.Results == nil {
		resp.Results = []models.Recommendation{}
	}
	if result.Empty {
		resp.Message = "No recommendations matched the filters"
	}

	rw.SuccessWithMeta(resp, &APIMeta{
		ModelVersion: result.ModelVersion,
		Count:        intPtr(len(resp.Results)),
	})
}

// Collaborative handles GET /api/v1/recommendations/collaborative. Only
// content-based recommendations are available.
// @Summary Collaborative recommendations
// @Tags Recommendations
// @Produce json
// @Failure 501 {object} APIResponse
// @Router /api/v1/recommendations/collaborative [get]
func (h *Handler) Collaborative(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Error(http.StatusNotImplemented, ErrCodeNotImplemented,
		"Collaborative filtering is not available; use /api/v1/recommendations")
}
