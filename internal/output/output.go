// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output serializes aggregated citations as books-received XML,
// YAML, schema-checked JSON, CSL-YAML, or BibTeX. Files whose name ends in
// .xz are compressed.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/pdiddy/recompose/internal/extract"
	"github.com/pdiddy/recompose/pkg/types"
)

// ErrUnknownFormat is returned for an output format name that is not
// supported.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the supported output formats in the order shown in help
// text.
var Formats = []types.OutputFormat{
	types.OutputXML, types.OutputYAML, types.OutputJSON, types.OutputCSL, types.OutputBibTeX,
}

// Options configures a write.
type Options struct {
	// Source names the document the records came from. It is written to
	// the XML, YAML, and JSON envelopes when set.
	Source string

	// IncludeReports adds the validity flags and validation reports to
	// each YAML and JSON record.
	IncludeReports bool
}

// Record is one citation as written by the structured formats.
type Record struct {
	types.StructuredCitation `yaml:",inline"`

	Validity *types.FieldValidity `json:"validity,omitempty" yaml:"validity,omitempty"`
	Reports  *types.Reports       `json:"reports,omitempty" yaml:"reports,omitempty"`
}

// Catalogue is the envelope of the YAML and JSON formats.
type Catalogue struct {
	Source  string   `json:"source,omitempty" yaml:"source,omitempty"`
	Count   int      `json:"count" yaml:"count"`
	Records []Record `json:"records" yaml:"records"`
}

// ParseFormat maps a format name to an OutputFormat. The empty string is
// xml; "yml" and "bib" are accepted as aliases.
func ParseFormat(s string) (types.OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "xml":
		return types.OutputXML, nil
	case "yaml", "yml":
		return types.OutputYAML, nil
	case "json":
		return types.OutputJSON, nil
	case "csl":
		return types.OutputCSL, nil
	case "bibtex", "bib":
		return types.OutputBibTeX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath infers the output format from a file name, ignoring a
// trailing .xz. It reports false when the extension is not recognized.
func FormatFromPath(path string) (types.OutputFormat, bool) {
	name := strings.ToLower(strings.TrimSuffix(filepath.Base(path), ".xz"))
	switch {
	case strings.HasSuffix(name, ".csl.yaml"), strings.HasSuffix(name, ".csl.yml"):
		return types.OutputCSL, true
	case strings.HasSuffix(name, ".xml"):
		return types.OutputXML, true
	case strings.HasSuffix(name, ".yaml"), strings.HasSuffix(name, ".yml"):
		return types.OutputYAML, true
	case strings.HasSuffix(name, ".json"):
		return types.OutputJSON, true
	case strings.HasSuffix(name, ".bib"):
		return types.OutputBibTeX, true
	}
	return "", false
}

// Write serializes results to w in the given format.
func Write(w io.Writer, format types.OutputFormat, results []extract.Result, opts Options) error {
	switch format {
	case types.OutputXML, "":
		return writeXML(w, results, opts)
	case types.OutputYAML:
		return writeYAML(w, catalogue(results, opts))
	case types.OutputJSON:
		return writeJSON(w, catalogue(results, opts))
	case types.OutputCSL:
		return writeCSL(w, results)
	case types.OutputBibTeX:
		return writeBibTeX(w, results)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// WriteFile writes results to path, creating parent directories. A path
// ending in .xz is xz-compressed.
func WriteFile(path string, format types.OutputFormat, results []extract.Result, opts Options) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if !strings.HasSuffix(path, ".xz") {
		return Write(f, format, results, opts)
	}
	zw, err := xz.NewWriter(f)
	if err != nil {
		return fmt.Errorf("creating xz writer: %w", err)
	}
	if err := Write(zw, format, results, opts); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing xz stream: %w", err)
	}
	return nil
}

// OpenFile opens an output file for reading, decompressing it when the name
// ends in .xz.
func OpenFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if !strings.HasSuffix(path, ".xz") {
		return f, nil
	}
	zr, err := xz.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading xz stream: %w", err)
	}
	return struct {
		io.Reader
		io.Closer
	}{zr, f}, nil
}

func catalogue(results []extract.Result, opts Options) Catalogue {
	c := Catalogue{Source: opts.Source, Count: len(results), Records: make([]Record, len(results))}
	for i, r := range results {
		rec := Record{StructuredCitation: normalize(r.Citation)}
		if opts.IncludeReports {
			validity, reports := r.Validity, r.Reports
			rec.Validity = &validity
			rec.Reports = &reports
		}
		c.Records[i] = rec
	}
	return c
}

// normalize replaces nil name lists with empty ones so that they encode as
// [] rather than null.
func normalize(c types.StructuredCitation) types.StructuredCitation {
	if c.Authors == nil {
		c.Authors = []string{}
	}
	if c.Editors == nil {
		c.Editors = []string{}
	}
	return c
}
