// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// CSVReader reads the movies and credits CSV files and joins them on title
// in process. Every credits row whose title matches a movies row produces
// one joined row; movies rows without credits are skipped (inner join).
type CSVReader struct {
	MoviesPath  string
	CreditsPath string
}

// ReadRows implements RowReader.
func (r *CSVReader) ReadRows(ctx context.Context) ([]Row, error) {
	movies, err := readCSVFile(r.MoviesPath)
	if err != nil {
		return nil, fmt.Errorf("movies file: %w", err)
	}
	credits, err := readCSVFile(r.CreditsPath)
	if err != nil {
		return nil, fmt.Errorf("credits file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return joinOnTitle(movies, credits), nil
}

// joinOnTitle inner-joins movies and credits on the title column. Credits
// contribute only their cast and crew columns.
func joinOnTitle(movies, credits []Row) []Row {
	byTitle := make(map[string][]Row, len(credits))
	for _, c := range credits {
		byTitle[c[colTitle]] = append(byTitle[c[colTitle]], c)
	}

	joined := make([]Row, 0, len(movies))
	for _, m := range movies {
		for _, c := range byTitle[m[colTitle]] {
			row := make(Row, len(m)+2)
			for k, v := range m {
				row[k] = v
			}
			row[colCast] = c[colCast]
			row[colCrew] = c[colCrew]
			joined = append(joined, row)
		}
	}
	return joined
}

// readCSVFile reads a CSV file with a header row into rows keyed by the
// lower-cased header names.
func readCSVFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readCSV(f)
}

func readCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header row")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
