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

	"github.com/tomtom215/marquee/internal/auth"
	"github.com/tomtom215/marquee/internal/logging"
)

// defaultReloadTimeout bounds an admin-triggered rebuild.
const defaultReloadTimeout = 10 * time.Minute

// Reload handles POST /api/v1/admin/reload. The model is rebuilt from the
// configured source; on failure the previous model keeps serving and the
// response is 502.
// @Summary Rebuild the model
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=ModelInfo}
// @Failure 401 {object} APIResponse
// @Failure 403 {object} APIResponse
// @Failure 502 {object} APIResponse
// @Failure 504 {object} APIResponse
// @Router /api/v1/admin/reload [post]
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	logger := logging.Ctx(r.Context())

	user := "unknown"
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		user = claims.Username
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), defaultReloadTimeout)
	defer cancel()

	model, err := h.store.Reload(ctx)
	if err != nil {
		logger.Error().Err(err).Str("user", user).Msg("Admin reload failed")
		status := http.StatusBadGateway
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		prev := uint64(0)
		if cur := h.store.Current(); cur != nil {
			prev = cur.Version
		}
		rw.ErrorWithDetails(status, ErrCodeReloadFailed, err.Error(),
			map[string]interface{}{"serving_version": prev})
		return
	}

	logger.Info().Str("user", user).Uint64("model_version", model.Version).Msg("Admin reload complete")
	rw.SuccessWithMeta(modelInfo(model), &APIMeta{ModelVersion: model.Version})
}
