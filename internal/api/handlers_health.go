// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/marquee/internal/models"
)

// Health handles GET /health. The service is "healthy" once a model is
// loaded and "starting" before that; both return 200 so orchestrators can
// tell a slow first build from a dead process.
// @Summary Service health
// @Tags Model
// @Produce json
// @Success 200 {object} APIResponse{data=models.HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatus{
		Status:  "starting",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Seconds(),
	}

	if m := h.store.Current(); m != nil {
		builtAt := m.BuiltAt
		status.Status = "healthy"
		status.ModelLoaded = true
		status.ModelVersion = m.Version
		status.BuiltAt = &builtAt
	}

	WriteSuccess(w, r, status)
}
