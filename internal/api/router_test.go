// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/middleware"
)

func TestRouterRequestIDInEnvelope(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/movies/99", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	if rec.Header().Get(middleware.RequestIDHeader) != "req-42" {
		t.Errorf("header = %q", rec.Header().Get(middleware.RequestIDHeader))
	}
	if !strings.Contains(rec.Body.String(), `"request_id":"req-42"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	ts := newTestServer(t, serverOptions{})
	rec, env := ts.do(t, http.MethodGet, "/api/v1/nope", "")
	if rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("status = %d error = %+v", rec.Code, env.Error)
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, serverOptions{})
	rec, env := ts.do(t, http.MethodDelete, "/api/v1/genres", "")
	if rec.Code != http.StatusMethodNotAllowed || env.Error == nil || env.Error.Code != ErrCodeMethodNotAllowed {
		t.Errorf("status = %d error = %+v", rec.Code, env.Error)
	}
}

func TestRouterRateLimit(t *testing.T) {
	ts := newTestServer(t, serverOptions{rateLimit: 2})

	var last int
	for i := 0; i < 3; i++ {
		rec, _ := ts.do(t, http.MethodGet, "/api/v1/genres", "")
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", last)
	}

	// Health is outside the limited group.
	rec, _ := ts.do(t, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestRouterSecurityHeaders(t *testing.T) {
	ts := newTestServer(t, serverOptions{})
	rec, _ := ts.do(t, http.MethodGet, "/api/v1/genres", "")
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Errorf("headers = %v", rec.Header())
	}
}

func TestRouterMetrics(t *testing.T) {
	ts := newTestServer(t, serverOptions{})
	ts.do(t, http.MethodGet, "/api/v1/genres", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "marquee_") {
		t.Errorf("metrics status = %d", rec.Code)
	}
}

func TestChiMiddlewareConfigFromSecurity(t *testing.T) {
	tests := []struct {
		name string
		sec  *config.SecurityConfig
		want ChiMiddlewareConfig
	}{
		{"nil uses defaults", nil, ChiMiddlewareConfig{RateLimitRequests: 100, RateLimitWindow: time.Minute}},
		{"overrides", &config.SecurityConfig{
			CORSOrigins:       []string{"https://example.com"},
			RateLimitReqs:     5,
			RateLimitWindow:   time.Second,
			RateLimitDisabled: true,
		}, ChiMiddlewareConfig{RateLimitRequests: 5, RateLimitWindow: time.Second, RateLimitDisabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChiMiddlewareConfigFromSecurity(tt.sec)
			if got.RateLimitRequests != tt.want.RateLimitRequests ||
				got.RateLimitWindow != tt.want.RateLimitWindow ||
				got.RateLimitDisabled != tt.want.RateLimitDisabled {
				t.Errorf("got %+v", got)
			}
			if tt.sec != nil && len(got.CORSAllowedOrigins) != 1 {
				t.Errorf("origins = %v", got.CORSAllowedOrigins)
			}
		})
	}
}

func TestRateLimitDisabledIsNoop(t *testing.T) {
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	cfg.RateLimitRequests = 1

	called := 0
	h := NewChiMiddleware(cfg).RateLimit()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called++ }))
	for i := 0; i < 3; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}
	if called != 3 {
		t.Errorf("called = %d, want 3", called)
	}
}

func TestRouterSwaggerDocCoversRoutes(t *testing.T) {
	ts := newTestServer(t, serverOptions{withAuth: true})

	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	var doc struct {
		Info  struct{ Title string }                `json:"info"`
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode doc.json: %v", err)
	}
	if doc.Info.Title != "Marquee API" {
		t.Errorf("title = %q", doc.Info.Title)
	}

	routes, ok := ts.handler.(chi.Routes)
	if !ok {
		t.Fatalf("handler %T is not a chi router", ts.handler)
	}
	served := 0
	err := chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if route == "/metrics" || strings.HasPrefix(route, "/swagger/") {
			return nil
		}
		served++
		if _, ok := doc.Paths[route][strings.ToLower(method)]; !ok {
			t.Errorf("%s %s is served but not documented", method, route)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if served != len(doc.Paths) {
		t.Errorf("served %d routes, documented %d", served, len(doc.Paths))
	}
}
