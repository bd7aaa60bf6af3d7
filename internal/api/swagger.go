// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	_ "embed"
	"sync"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"github.com/swaggo/swag"
)

// swaggerJSON is the swag output for the handler annotations, regenerated
// with the command in cmd/server/docs.go.
//
//go:embed swagger.json
var swaggerJSON string

type swaggerDoc struct{}

// ReadDoc implements swag.Swagger.
func (swaggerDoc) ReadDoc() string { return swaggerJSON }

// swag.Register panics on a second registration under the same name, and
// tests build several routers per process.
var registerSwagger sync.Once

func mountSwagger(r chi.Router) {
	registerSwagger.Do(func() {
		swag.Register(swag.Name, swaggerDoc{})
	})
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))
}
