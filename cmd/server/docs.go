// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

// General API information for the swag generator. Regenerate the served
// document after changing any handler annotation:
//
//	swag init -g cmd/server/docs.go -o internal/api --outputTypes json
//
// @title Marquee API
// @version 1.0
// @description Content-based movie recommendations. Each movie's overview, genres,
// @description keywords, top-billed cast and director are vectorised into bag-of-words
// @description counts and compared by cosine similarity.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/marquee/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8501
// @BasePath /
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
//
// @tag.name Recommendations
// @tag.description Similar-movie queries against the active model
//
// @tag.name Catalog
// @tag.description Title search, movie details and genre listing
//
// @tag.name Model
// @tag.description Active model metadata
//
// @tag.name Admin
// @tag.description Model rebuilds, requires an admin bearer token
