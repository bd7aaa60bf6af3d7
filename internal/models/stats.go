// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package models

import (
	"time"
)

// HealthStatus represents the health check response
type HealthStatus struct {
	Status       string     `json:"status"`
	Version      string     `json:"version"`
	ModelLoaded  bool       `json:"model_loaded"`
	ModelVersion uint64     `json:"model_version,omitempty"`
	BuiltAt      *time.Time `json:"built_at,omitempty"`
	Uptime       float64    `json:"uptime_seconds"`
}
