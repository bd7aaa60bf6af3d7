// Marquee - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// namedEntry is the common shape of genres, keywords, cast and crew entries.
type namedEntry struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// parseEntries decodes a serialized list of objects. An empty field is an
// empty list. Python-literal lists (single quotes, None/True/False) are
// converted to JSON first.
func parseEntries(field string) ([]namedEntry, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil, nil
	}

	var entries []namedEntry
	err := json.Unmarshal([]byte(field), &entries)
	if err == nil {
		return entries, nil
	}

	converted, convErr := pythonLiteralToJSON(field)
	if convErr != nil {
		return nil, fmt.Errorf("invalid nested field: %w", err)
	}
	if err := json.Unmarshal([]byte(converted), &entries); err != nil {
		return nil, fmt.Errorf("invalid nested field: %w", err)
	}
	return entries, nil
}

// parseNames extracts the name of every entry, in order, up to limit
// entries (limit <= 0 means all).
func parseNames(field string, limit int) ([]string, error) {
	entries, err := parseEntries(field)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name := strings.TrimSpace(e.Name); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// parseDirectors extracts the names of crew entries whose job is Director.
func parseDirectors(field string) ([]string, error) {
	entries, err := parseEntries(field)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.Job == "Director" && strings.TrimSpace(e.Name) != "" {
			names = append(names, strings.TrimSpace(e.Name))
		}
	}
	return names, nil
}

// pythonLiteralToJSON rewrites single-quoted strings as JSON strings and
// None/True/False as null/true/false. Double-quoted strings are copied.
func pythonLiteralToJSON(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '\'' || c == '"':
			str, next, err := readPyString(s, i)
			if err != nil {
				return "", err
			}
			quoted, err := json.Marshal(str)
			if err != nil {
				return "", err
			}
			b.Write(quoted)
			i = next
		case strings.HasPrefix(s[i:], "None"):
			b.WriteString("null")
			i += 4
		case strings.HasPrefix(s[i:], "True"):
			b.WriteString("true")
			i += 4
		case strings.HasPrefix(s[i:], "False"):
			b.WriteString("false")
			i += 5
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}

// readPyString reads the string literal starting at s[start] and returns its
// unescaped value and the index just past the closing quote.
func readPyString(s string, start int) (string, int, error) {
	quote := s[start]
	var b strings.Builder
	for i := start + 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(s[i])
			}
		case c == quote:
			return b.String(), i + 1, nil
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, fmt.Errorf("unterminated string literal at offset %d", start)
}
