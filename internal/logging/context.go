// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type requestKey struct{}

// request is the per-request logging state. The logger is derived once when
// the request starts instead of on every Ctx call.
type request struct {
	id     string
	logger zerolog.Logger
}

// NewRequestID returns a random request id.
func NewRequestID() string {
	return uuid.NewString()
}

// WithRequestID returns a context whose Ctx logger stamps request_id on
// every line.
func WithRequestID(ctx context.Context, id string) context.Context {
	base := Logger()
	return context.WithValue(ctx, requestKey{}, &request{
		id:     id,
		logger: base.With().Str("request_id", id).Logger(),
	})
}

// RequestID returns the request id carried by ctx, or "".
func RequestID(ctx context.Context) string {
	if r, ok := ctx.Value(requestKey{}).(*request); ok {
		return r.id
	}
	return ""
}

// Ctx returns the request logger for ctx, or the global logger outside a
// request.
//
//	logging.Ctx(ctx).Info().Str("title", title).Msg("Recommendation served")
func Ctx(ctx context.Context) *zerolog.Logger {
	if r, ok := ctx.Value(requestKey{}).(*request); ok {
		return &r.logger
	}
	l := Logger()
	return &l
}
