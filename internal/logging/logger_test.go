// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// captureGlobal points the global logger at a buffer for one test.
func captureGlobal(t *testing.T, cfg Config) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	cfg.Output = &buf
	Init(cfg)
	t.Cleanup(func() { Init(Config{Timestamp: true}) })
	return &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var lines []map[string]interface{}
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			t.Fatalf("decode %q: %v", raw, err)
		}
		lines = append(lines, m)
	}
	return lines
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{" INFO ", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"loud", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestInitStampsServiceAndVersion(t *testing.T) {
	buf := captureGlobal(t, Config{Level: "debug", Service: "marquee-server", Version: "1.2.3"})

	logger := WithComponent("recommend")
	logger.Info().Str("title", "Avatar").Msg("Recommendation served")

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	for key, want := range map[string]string{
		"service":   "marquee-server",
		"version":   "1.2.3",
		"component": "recommend",
		"title":     "Avatar",
		"message":   "Recommendation served",
		"level":     "info",
	} {
		if lines[0][key] != want {
			t.Errorf("%s = %v, want %q", key, lines[0][key], want)
		}
	}
}

func TestInitLevelFilters(t *testing.T) {
	buf := captureGlobal(t, Config{Level: "warn"})

	Info().Msg("dropped")
	Warn().Msg("kept")

	lines := decodeLines(t, buf)
	if len(lines) != 1 || lines[0]["message"] != "kept" {
		t.Errorf("lines = %v, want only the warning", lines)
	}
}

func TestInitUnknownLevelFallsBack(t *testing.T) {
	buf := captureGlobal(t, Config{Level: "loud"})

	Info().Msg("still logged")

	out := buf.String()
	if !strings.Contains(out, "Falling back to info level") || !strings.Contains(out, "still logged") {
		t.Errorf("output = %s", out)
	}
}

func TestCtxCarriesRequestID(t *testing.T) {
	buf := captureGlobal(t, Config{Level: "debug"})

	ctx := WithRequestID(context.Background(), "req-123")
	if got := RequestID(ctx); got != "req-123" {
		t.Fatalf("RequestID = %q, want req-123", got)
	}

	Ctx(ctx).Info().Msg("in request")
	Ctx(context.Background()).Info().Msg("outside request")

	lines := decodeLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if lines[0]["request_id"] != "req-123" {
		t.Errorf("request line = %v", lines[0])
	}
	if _, ok := lines[1]["request_id"]; ok {
		t.Errorf("background line has request_id: %v", lines[1])
	}
	if RequestID(context.Background()) != "" {
		t.Error("RequestID on empty context should be empty")
	}
}

func TestNewRequestIDUnique(t *testing.T) {
	t.Parallel()

	a, b := NewRequestID(), NewRequestID()
	if a == b {
		t.Errorf("expected unique request IDs, got %q twice", a)
	}
	if len(a) != 36 {
		t.Errorf("expected UUID length 36, got %d", len(a))
	}
}

func TestSlogHandlerWritesThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(NewTestLogger(&buf)))

	logger.WithGroup("svc").Warn("restarting", "name", "api-server", "attempt", 2)

	output := buf.String()
	for _, want := range []string{`"level":"warn"`, `"svc.name":"api-server"`, `"svc.attempt":2`, "restarting"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output, got: %s", want, output)
		}
	}
}

func TestSlogHandlerRenamesCollidingKeys(t *testing.T) {
	var buf bytes.Buffer
	base := NewTestLogger(&buf).With().Str("service", "marquee-server").Logger()
	logger := slog.New(NewSlogHandler(base))

	logger.Error("service failed", "service", "reload-service", "restarting", true)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines", len(lines))
	}
	if lines[0]["service"] != "marquee-server" || lines[0]["supervised_service"] != "reload-service" {
		t.Errorf("line = %v", lines[0])
	}
}
