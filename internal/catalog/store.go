// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists parsed citations in a SQLite database so that
// records from many books-received documents can be searched together.
// Documents are identified by path and fingerprinted with a BLAKE3 digest;
// re-ingesting an unchanged document is a no-op.
package catalog

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/zeebo/blake3"

	"github.com/pdiddy/recompose/internal/extract"
	"github.com/pdiddy/recompose/pkg/types"
)

const (
	// DefaultDir is the catalogue directory used when none is configured.
	DefaultDir = "catalog"

	// DefaultMaxResults caps search results when neither the query nor the
	// configuration sets a limit.
	DefaultMaxResults = 20

	dbFile = "recompose.db"
)

// Store manages the catalogue SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// Open opens or creates the catalogue database at cfg.Dir/recompose.db and
// creates the schema if it does not exist.
func Open(cfg types.CatalogConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalogue directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	s := &Store{db: db, dir: dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, dbFile)
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			path TEXT NOT NULL UNIQUE,
			digest TEXT NOT NULL,
			ingested_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS citations (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			authors TEXT NOT NULL,
			editors TEXT NOT NULL,
			title TEXT,
			series TEXT,
			extra TEXT,
			translator TEXT,
			illustrator TEXT,
			publisher TEXT,
			pubplace TEXT,
			year TEXT,
			pages TEXT,
			price TEXT,
			isbn TEXT,
			issn TEXT,
			authors_valid INTEGER NOT NULL,
			title_valid INTEGER NOT NULL,
			meta_valid INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_document ON citations(document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_year ON citations(year)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Digest returns the hex BLAKE3-256 digest of a document's bytes.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DigestFile reads path and returns its digest.
func DigestFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return Digest(data), nil
}

// IngestStatus says what Ingest did with a document.
type IngestStatus string

const (
	StatusIndexed IngestStatus = "indexed"
	StatusUpdated IngestStatus = "updated"
	StatusSkipped IngestStatus = "skipped"
)

// IngestSummary holds counts from a catalogue ingest run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
	Records int
}

// Add counts one document with the given status and record count.
func (s *IngestSummary) Add(status IngestStatus, records int) {
	switch status {
	case StatusIndexed:
		s.Indexed++
	case StatusUpdated:
		s.Updated++
	case StatusSkipped:
		s.Skipped++
		return
	}
	s.Records += records
}

// Total returns the number of documents processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Document is one parsed document ready for ingest.
type Document struct {
	Path    string
	Digest  string
	Records []extract.Result
}

// Unchanged reports whether path is already catalogued with digest.
func (s *Store) Unchanged(ctx context.Context, path, digest string) (bool, error) {
	var stored string
	err := s.db.QueryRowContext(ctx,
		`SELECT digest FROM documents WHERE path = ?`, cleanPath(path),
	).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("looking up %s: %w", path, err)
	}
	return stored == digest, nil
}

// Ingest stores the records of doc. A document already catalogued with the
// same digest is skipped; one with a different digest has its records
// replaced.
func (s *Store) Ingest(ctx context.Context, doc Document) (IngestStatus, error) {
	path := cleanPath(doc.Path)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var docID, stored string
	err = tx.QueryRowContext(ctx,
		`SELECT id, digest FROM documents WHERE path = ?`, path,
	).Scan(&docID, &stored)
	status := StatusUpdated
	switch {
	case errors.Is(err, sql.ErrNoRows):
		status = StatusIndexed
		docID = uuid.NewString()
	case err != nil:
		return "", fmt.Errorf("looking up %s: %w", path, err)
	case stored == doc.Digest:
		return StatusSkipped, nil
	}

	if status == StatusUpdated {
		if _, err := tx.ExecContext(ctx, `DELETE FROM citations WHERE document_id = ?`, docID); err != nil {
			return "", fmt.Errorf("deleting old citations: %w", err)
		}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, path, digest, ingested_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET digest=excluded.digest, ingested_at=excluded.ingested_at`,
		docID, path, doc.Digest, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("upserting document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO citations (id, document_id, position, authors, editors, title, series,
			extra, translator, illustrator, publisher, pubplace, year, pages, price, isbn, issn,
			authors_valid, title_valid, meta_valid)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range doc.Records {
		c := r.Citation
		authorsJSON, err := json.Marshal(nonNil(c.Authors))
		if err != nil {
			return "", fmt.Errorf("encoding authors: %w", err)
		}
		editorsJSON, err := json.Marshal(nonNil(c.Editors))
		if err != nil {
			return "", fmt.Errorf("encoding editors: %w", err)
		}
		_, err = stmt.ExecContext(ctx,
			uuid.NewString(), docID, i+1, string(authorsJSON), string(editorsJSON),
			c.Title, c.Series, c.Extra, c.Translator, c.Illustrator,
			c.Publisher, c.PubPlace, c.Year, c.Pages, c.Price, c.ISBN, c.ISSN,
			r.Validity.Authors, r.Validity.Title, r.Validity.Meta,
		)
		if err != nil {
			return "", fmt.Errorf("inserting citation %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}
	return status, nil
}

// Remove deletes a document and its citations. It reports whether the
// document was catalogued.
func (s *Store) Remove(ctx context.Context, path string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE path = ?`, cleanPath(path))
	if err != nil {
		return false, fmt.Errorf("removing %s: %w", path, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("removing %s: %w", path, err)
	}
	return n > 0, nil
}

// Stats holds catalogue totals.
type Stats struct {
	Documents int `json:"documents" yaml:"documents"`
	Citations int `json:"citations" yaml:"citations"`
	Partial   int `json:"partial" yaml:"partial"`
}

// Stats counts documents and citations. Partial citations had at least
// one invalid zone.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT
			(SELECT count(*) FROM documents),
			(SELECT count(*) FROM citations),
			(SELECT count(*) FROM citations WHERE NOT (authors_valid AND title_valid AND meta_valid))`,
	).Scan(&st.Documents, &st.Citations, &st.Partial)
	if err != nil {
		return Stats{}, fmt.Errorf("counting catalogue: %w", err)
	}
	return st, nil
}

func cleanPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

func nonNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
