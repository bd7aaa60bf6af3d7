// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package models defines the data structures shared across Marquee.

Key Components:

  - Movie: one normalized catalog entry, identical in shape whichever source
    (tabular dataset or metadata API) produced it
  - LoadStats: counters describing a catalog load, including dropped records
  - Recommendation: one ranked result with display fields resolved
  - HealthStatus: payload of the /health endpoint

Movies are treated as values. Once a catalog has been loaded its slice is
never mutated; the recommend package builds its immutable model snapshot
from it.
*/
package models
