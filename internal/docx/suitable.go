// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/pdiddy/recompose/internal/logging"
)

var (
	// ErrUnsuitable is returned for input that fails the suitability checks.
	ErrUnsuitable = errors.New("input file is not a suitable Word XML document")

	// ErrTrackChanges is wrapped alongside ErrUnsuitable when the input
	// still holds tracked changes.
	ErrTrackChanges = errors.New("input file contains tracked changes")
)

// Check names, in the order they run.
const (
	CheckSniff        = "sniff"
	CheckParse        = "parse"
	CheckTrackChanges = "trackchanges"
	CheckNamespace    = "namespace"
)

// wordNamespaces are the WordprocessingML namespaces the w prefix may bind.
var wordNamespaces = []string{
	"http://schemas.openxmlformats.org/wordprocessingml/2006/main",
	"http://schemas.microsoft.com/office/word/2003/wordml",
}

// Check is the outcome of one suitability check.
type Check struct {
	Name   string `json:"name" yaml:"name"`
	Passed bool   `json:"passed" yaml:"passed"`
}

// Suitability lists the checks Inspect ran. Checks stop at the first
// failure; archives skip the sniff check.
type Suitability struct {
	Path    string  `json:"path" yaml:"path"`
	Archive bool    `json:"archive" yaml:"archive"`
	Checks  []Check `json:"checks" yaml:"checks"`
}

// OK reports whether every check passed.
func (s Suitability) OK() bool {
	_, failed := s.Failed()
	return !failed
}

// Failed returns the failing check, if any.
func (s Suitability) Failed() (Check, bool) {
	for _, c := range s.Checks {
		if !c.Passed {
			return c, true
		}
	}
	return Check{}, false
}

// Err converts a failed inspection into an error wrapping ErrUnsuitable,
// and ErrTrackChanges when tracked changes caused it. It is nil when OK.
func (s Suitability) Err() error {
	c, failed := s.Failed()
	if !failed {
		return nil
	}
	name := filepath.Base(s.Path)
	if c.Name == CheckTrackChanges {
		return fmt.Errorf("%s: %w: %w", name, ErrUnsuitable, ErrTrackChanges)
	}
	return fmt.Errorf("%s: %w (%s check failed)", name, ErrUnsuitable, c.Name)
}

// CheckSuitable runs Inspect and returns its verdict as an error.
func CheckSuitable(path string) error {
	s, err := Inspect(path)
	if err != nil {
		return err
	}
	return s.Err()
}

// Inspect runs the suitability checks against the file at path: the
// header names a Word document, the XML parses, no tracked changes remain,
// and the w prefix binds a WordprocessingML namespace. The error is only
// set when the file cannot be read.
func Inspect(path string) (Suitability, error) {
	data, archive, err := load(path)
	s := Suitability{Path: path, Archive: archive}
	if err != nil {
		if errors.Is(err, ErrNoDocumentPart) {
			s.Checks = append(s.Checks, Check{Name: CheckParse})
			return s, nil
		}
		return s, err
	}

	record := func(name string, passed bool) bool {
		logging.Debug("suitability check", "file", filepath.Base(path), "check", name, "passed", passed)
		s.Checks = append(s.Checks, Check{Name: name, Passed: passed})
		return passed
	}

	if !archive && !record(CheckSniff, sniff(data)) {
		return s, nil
	}
	doc, err := Parse(bytes.NewReader(data))
	if !record(CheckParse, err == nil) {
		return s, nil
	}
	tracked, err := doc.hasTrackChanges()
	if err != nil {
		return s, err
	}
	if !record(CheckTrackChanges, !tracked) {
		return s, nil
	}
	record(CheckNamespace, doc.hasWordNamespace())
	return s, nil
}

// sniff reports whether the first line is an XML declaration and the
// second names the Word.Document program.
func sniff(data []byte) bool {
	sc := bufio.NewScanner(bytes.NewReader(data))
	var lines []string
	for len(lines) < 2 && sc.Scan() {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	return len(lines) == 2 &&
		strings.Contains(lines[0], "xml") &&
		strings.Contains(lines[1], `progid="Word.Document"`)
}

func (d *Document) hasTrackChanges() (bool, error) {
	expr, err := d.queries.Get(QueryTrackChanges)
	if err != nil {
		return false, err
	}
	return xmlquery.QuerySelector(d.root, expr) != nil, nil
}

// hasWordNamespace reports whether the first w-prefixed element is bound
// to a WordprocessingML namespace.
func (d *Document) hasWordNamespace() bool {
	n := firstPrefixed(d.root, "w")
	if n == nil {
		return false
	}
	for _, ns := range wordNamespaces {
		if n.NamespaceURI == ns {
			return true
		}
	}
	return false
}

func firstPrefixed(n *xmlquery.Node, prefix string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		if c.Prefix == prefix {
			return c
		}
		if found := firstPrefixed(c, prefix); found != nil {
			return found
		}
	}
	return nil
}
