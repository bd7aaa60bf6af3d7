// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/validation"
)

// RecommendRequest holds the query parameters of GET /api/v1/recommendations.
// Zero filter values leave the filter off.
type RecommendRequest struct {
	ID        int64   `query:"id" validate:"omitempty,min=1"`
	Title     string  `query:"title" validate:"required_without=ID,max=500"`
	TopK      int     `query:"k" validate:"omitempty,min=1"`
	MinRating float64 `query:"min_rating" validate:"gte=0,lte=10"`
	MaxYear   int     `query:"max_year" validate:"gte=0,lte=9999"`
	ExactYear int     `query:"exact_year" validate:"gte=0,lte=9999"`
	Genre     string  `query:"genre" validate:"omitempty,genre"`
}

// Query converts the request into a recommend.Query.
func (r *RecommendRequest) Query() recommend.Query {
	return recommend.Query{
		ID:    r.ID,
		Title: r.Title,
		TopK:  r.TopK,
		Filters: recommend.Filters{
			MinRating: r.MinRating,
			MaxYear:   r.MaxYear,
			ExactYear: r.ExactYear,
			Genre:     r.Genre,
		},
	}
}

// SearchRequest holds the query parameters of GET /api/v1/movies/search.
type SearchRequest struct {
	Query string `query:"q" validate:"required,max=200"`
	Limit int    `query:"limit" validate:"omitempty,min=1"`
}

// paramParser reads typed query parameters and collects conversion failures
// in the same shape validation failures use.
type paramParser struct {
	values url.Values
	errs   []map[string]interface{}
}

func newParamParser(values url.Values) *paramParser {
	return &paramParser{values: values}
}

func (p *paramParser) fail(name, kind string) {
	p.errs = append(p.errs, map[string]interface{}{
		"field":   name,
		"tag":     "type",
		"message": name + " must be " + kind,
	})
}

func (p *paramParser) String(name string) string {
	return strings.TrimSpace(p.values.Get(name))
}

func (p *paramParser) Int(name string) int {
	raw := p.String(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(name, "an integer")
		return 0
	}
	return v
}

func (p *paramParser) Int64(name string) int64 {
	raw := p.String(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.fail(name, "an integer")
		return 0
	}
	return v
}

func (p *paramParser) Float(name string) float64 {
	raw := p.String(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.fail(name, "a number")
		return 0
	}
	return v
}

// Err returns the collected conversion failures, or nil.
func (p *paramParser) Err() *validation.APIError {
	switch len(p.errs) {
	case 0:
		return nil
	case 1:
		return &validation.APIError{
			Code:    validation.ErrorCode,
			Message: p.errs[0]["message"].(string),
			Details: map[string]interface{}{"field": p.errs[0]["field"], "tag": "type"},
		}
	}
	messages := make([]string, len(p.errs))
	for i, e := range p.errs {
		messages[i] = e["message"].(string)
	}
	return &validation.APIError{
		Code:    validation.ErrorCode,
		Message: strings.Join(messages, "; "),
		Details: map[string]interface{}{"fields": p.errs},
	}
}

func parseRecommendRequest(values url.Values) (*RecommendRequest, *validation.APIError) {
	p := newParamParser(values)
	req := &RecommendRequest{
		ID:        p.Int64("id"),
		Title:     p.String("title"),
		TopK:      p.Int("k"),
		MinRating: p.Float("min_rating"),
		MaxYear:   p.Int("max_year"),
		ExactYear: p.Int("exact_year"),
		Genre:     p.String("genre"),
	}
	if apiErr := p.Err(); apiErr != nil {
		return nil, apiErr
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr.ToAPIError()
	}
	return req, nil
}

func parseSearchRequest(values url.Values) (*SearchRequest, *validation.APIError) {
	p := newParamParser(values)
	req := &SearchRequest{
		Query: p.String("q"),
		Limit: p.Int("limit"),
	}
	if apiErr := p.Err(); apiErr != nil {
		return nil, apiErr
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr.ToAPIError()
	}
	return req, nil
}

// limitError reports a parameter above its configured maximum.
func limitError(field string, limit int) *validation.APIError {
	return &validation.APIError{
		Code:    validation.ErrorCode,
		Message: field + " must be at most " + strconv.Itoa(limit),
		Details: map[string]interface{}{"field": field, "tag": "max"},
	}
}
