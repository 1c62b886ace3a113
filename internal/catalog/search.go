// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/recompose/internal/extract"
	"github.com/pdiddy/recompose/pkg/types"
)

// ErrEmptyQuery is returned by Search when no filter is set.
var ErrEmptyQuery = errors.New("search query has no filters")

// Query holds catalogue search filters. Text filters match substrings
// case-insensitively; all set filters must match.
type Query struct {
	// Title matches the title or the series.
	Title string

	// Author matches any author, editor, translator, or illustrator.
	Author string

	// Year matches the publication year exactly.
	Year string

	// Publisher matches the publisher.
	Publisher string

	// ISBN matches the ISBN or ISSN ignoring spaces and hyphens.
	ISBN string

	// PartialOnly restricts results to citations with an invalid zone.
	PartialOnly bool

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no filters.
func (q Query) IsEmpty() bool {
	return q.Title == "" && q.Author == "" && q.Year == "" && q.Publisher == "" &&
		q.ISBN == "" && !q.PartialOnly
}

// Entry is one catalogued citation.
type Entry struct {
	ID       string                   `json:"id" yaml:"id"`
	Document string                   `json:"document" yaml:"document"`
	Position int                      `json:"position" yaml:"position"`
	Citation types.StructuredCitation `json:"citation" yaml:"citation"`
	Validity types.FieldValidity      `json:"validity" yaml:"validity"`
}

// Result returns the entry as an aggregation result, for writing with the
// output package. Reports are not stored and are left empty.
func (e Entry) Result() extract.Result {
	return extract.Result{Citation: e.Citation, Validity: e.Validity}
}

// Results converts entries for the output package.
func Results(entries []Entry) []extract.Result {
	out := make([]extract.Result, len(entries))
	for i, e := range entries {
		out[i] = e.Result()
	}
	return out
}

// Search returns the citations matching q, ordered by year, then title.
func (s *Store) Search(ctx context.Context, q Query) ([]Entry, error) {
	if q.IsEmpty() {
		return nil, ErrEmptyQuery
	}
	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT c.id, d.path, c.position, c.authors, c.editors, c.title, c.series,
			c.extra, c.translator, c.illustrator, c.publisher, c.pubplace, c.year,
			c.pages, c.price, c.isbn, c.issn, c.authors_valid, c.title_valid, c.meta_valid
		FROM citations c
		JOIN documents d ON c.document_id = d.id
		WHERE 1=1`)

	if q.Title != "" {
		qb.WriteString(` AND (c.title LIKE ? ESCAPE '\' OR c.series LIKE ? ESCAPE '\')`)
		pattern := likePattern(q.Title)
		args = append(args, pattern, pattern)
	}
	if q.Author != "" {
		qb.WriteString(` AND (c.authors LIKE ? ESCAPE '\' OR c.editors LIKE ? ESCAPE '\'
			OR c.translator LIKE ? ESCAPE '\' OR c.illustrator LIKE ? ESCAPE '\')`)
		pattern := likePattern(q.Author)
		args = append(args, pattern, pattern, pattern, pattern)
	}
	if q.Year != "" {
		qb.WriteString(` AND c.year = ?`)
		args = append(args, q.Year)
	}
	if q.Publisher != "" {
		qb.WriteString(` AND c.publisher LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(q.Publisher))
	}
	if q.ISBN != "" {
		digits := strings.NewReplacer(" ", "", "-", "").Replace(q.ISBN)
		qb.WriteString(` AND (replace(replace(c.isbn, ' ', ''), '-', '') LIKE ? ESCAPE '\'
			OR replace(replace(c.issn, ' ', ''), '-', '') LIKE ? ESCAPE '\')`)
		pattern := likePattern(digits)
		args = append(args, pattern, pattern)
	}
	if q.PartialOnly {
		qb.WriteString(` AND NOT (c.authors_valid AND c.title_valid AND c.meta_valid)`)
	}

	qb.WriteString(` ORDER BY c.year, c.title, d.path, c.position LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalogue: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                        Entry
			authorsJSON, editorsJSON string
		)
		c := &e.Citation
		if err := rows.Scan(
			&e.ID, &e.Document, &e.Position, &authorsJSON, &editorsJSON, &c.Title, &c.Series,
			&c.Extra, &c.Translator, &c.Illustrator, &c.Publisher, &c.PubPlace, &c.Year,
			&c.Pages, &c.Price, &c.ISBN, &c.ISSN,
			&e.Validity.Authors, &e.Validity.Title, &e.Validity.Meta,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := json.Unmarshal([]byte(authorsJSON), &c.Authors); err != nil {
			return nil, fmt.Errorf("decoding authors of %s: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(editorsJSON), &c.Editors); err != nil {
			return nil, fmt.Errorf("decoding editors of %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return entries, nil
}

// likePattern wraps s in % wildcards, escaping LIKE metacharacters.
func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.TrimSpace(s))
	return "%" + s + "%"
}
