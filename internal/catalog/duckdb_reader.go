// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" database/sql driver
)

// DuckDBReader joins the movies and credits CSV files inside an in-memory
// DuckDB database. Every column is read as VARCHAR so that normalization
// stays identical to CSVReader.
type DuckDBReader struct {
	MoviesPath  string
	CreditsPath string
}

// ReadRows implements RowReader.
func (r *DuckDBReader) ReadRows(ctx context.Context) ([]Row, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, joinQuery(r.MoviesPath, r.CreditsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to join dataset: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	for i, c := range columns {
		columns[i] = strings.ToLower(c)
	}

	var out []Row
	values := make([]sql.NullString, len(columns))
	dest := make([]interface{}, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(Row, len(columns))
		for i, name := range columns {
			if name == "_movie_row" || name == "_credit_row" {
				continue
			}
			if values[i].Valid {
				row[name] = values[i].String
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return out, nil
}

// joinQuery builds the join over both files. read_csv_auto takes literal
// paths, so the paths are quoted as SQL string literals.
func joinQuery(moviesPath, creditsPath string) string {
	return fmt.Sprintf(`
WITH m AS (
    SELECT row_number() OVER () AS _movie_row, *
    FROM read_csv_auto(%s, header = true, all_varchar = true)
),
c AS (
    SELECT row_number() OVER () AS _credit_row, title, "cast", crew
    FROM read_csv_auto(%s, header = true, all_varchar = true)
)
SELECT m.*, c."cast" AS "cast", c.crew AS crew, c._credit_row
FROM m
JOIN c ON m.title = c.title
ORDER BY m._movie_row, c._credit_row`, sqlString(moviesPath), sqlString(creditsPath))
}

func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
