// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package api serves recommendations over HTTP.

Routes:

	GET  /health
	GET  /metrics
	GET  /swagger/*                              (Swagger UI, document at /swagger/doc.json)
	GET  /api/v1/recommendations?title=&id=&k=&min_rating=&max_year=&exact_year=&genre=
	GET  /api/v1/recommendations/collaborative   (501)
	GET  /api/v1/movies/search?q=&limit=
	GET  /api/v1/movies/{id}
	GET  /api/v1/genres
	GET  /api/v1/model
	POST /api/v1/admin/reload                    (admin JWT; mounted only with a secret)

Every response uses the APIResponse envelope:

	{"success": true, "data": {...}, "metadata": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "MOVIE_NOT_FOUND", "message": "..."}, "metadata": {...}}

Error codes:

	VALIDATION_ERROR        400  malformed or out-of-range parameter
	CAPABILITY_UNAVAILABLE  400  genre filter on a catalog without genre names
	UNAUTHORIZED            401  missing or invalid bearer token
	FORBIDDEN               403  token without the admin role
	MOVIE_NOT_FOUND         404  unknown title or id
	TOO_MANY_REQUESTS       429  per-IP rate limit exceeded
	NOT_IMPLEMENTED         501  collaborative filtering
	RELOAD_FAILED           502  rebuild failed; the previous model keeps serving
	MODEL_UNAVAILABLE       503  no model built yet

A query movie whose neighbours all fail the filters is not an error: the
response is 200 with "results": [] and "empty": true.
*/
package api
