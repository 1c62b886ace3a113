// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docx reads citation paragraphs from Word documents. Both flat
// WordprocessingML files ("Save as XML") and .docx archives are accepted;
// for an archive the word/document.xml part is read. Each paragraph is
// exposed as the ordered formatted runs the segmenter consumes.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/pdiddy/recompose/pkg/types"
)

// documentPart is the main document part inside a .docx archive.
const documentPart = "word/document.xml"

// ErrNoDocumentPart is returned for an archive without word/document.xml.
var ErrNoDocumentPart = errors.New("archive has no " + documentPart)

// Document is a parsed Word document and its compiled query context.
type Document struct {
	// Path is the file the document was opened from, if any.
	Path string

	// Archive reports whether the document was read from a .docx archive.
	Archive bool

	root    *xmlquery.Node
	queries *Queries
}

// Open reads and parses the document at path.
func Open(path string) (*Document, error) {
	data, archive, err := load(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	doc.Path = path
	doc.Archive = archive
	return doc, nil
}

// Parse parses WordprocessingML from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	queries, err := defaultQueries()
	if err != nil {
		return nil, err
	}
	return &Document{root: root, queries: queries}, nil
}

// Queries returns the document's compiled query context.
func (d *Document) Queries() *Queries {
	return d.queries
}

// Paragraphs returns the citation candidates in document order: paragraphs
// holding at least one italic marker and one text node. With all set,
// every paragraph is returned.
func (d *Document) Paragraphs(all bool) ([]*Paragraph, error) {
	query := QueryCandidates
	if all {
		query = QueryParagraphs
	}
	exprs, err := d.lookup(query, QueryRuns, QueryItalic, QuerySmallCaps)
	if err != nil {
		return nil, err
	}

	nodes := xmlquery.QuerySelectorAll(d.root, exprs[0])
	paras := make([]*Paragraph, len(nodes))
	for i, n := range nodes {
		paras[i] = &Paragraph{
			Index:     i + 1,
			node:      n,
			runs:      exprs[1],
			italic:    exprs[2],
			smallCaps: exprs[3],
		}
	}
	return paras, nil
}

func (d *Document) lookup(queries ...string) ([]*xpath.Expr, error) {
	exprs := make([]*xpath.Expr, len(queries))
	for i, q := range queries {
		e, err := d.queries.Get(q)
		if err != nil {
			return nil, err
		}
		exprs[i] = e
	}
	return exprs, nil
}

// Paragraph is one w:p element.
type Paragraph struct {
	// Index is the 1-based position of the paragraph in the list returned
	// by Document.Paragraphs.
	Index int

	node                    *xmlquery.Node
	runs, italic, smallCaps *xpath.Expr
}

// Runs returns the paragraph's w:r elements as RunSpans. A run is italic
// when w:rPr/w:i is present and not switched off with w:val="0" or
// w:val="false"; small caps are read from w:rPr/w:smallCaps the same way.
func (p *Paragraph) Runs() []types.RunSpan {
	nodes := xmlquery.QuerySelectorAll(p.node, p.runs)
	spans := make([]types.RunSpan, 0, len(nodes))
	for _, r := range nodes {
		spans = append(spans, types.RunSpan{
			Text:      runText(r),
			Italic:    switchedOn(xmlquery.QuerySelector(r, p.italic)),
			SmallCaps: switchedOn(xmlquery.QuerySelector(r, p.smallCaps)),
		})
	}
	return spans
}

// Text returns the paragraph's raw text.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs() {
		b.WriteString(r.Text)
	}
	return b.String()
}

// runText concatenates the w:t children of a run. Tabs become "\t".
func runText(run *xmlquery.Node) string {
	var b strings.Builder
	for c := run.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		switch c.Data {
		case "t":
			b.WriteString(c.InnerText())
		case "tab":
			b.WriteString("\t")
		}
	}
	return b.String()
}

// switchedOn reports whether a toggle property element is present and on.
func switchedOn(n *xmlquery.Node) bool {
	if n == nil {
		return false
	}
	switch strings.ToLower(attrValue(n, "val")) {
	case "0", "false", "off":
		return false
	}
	return true
}

// attrValue returns the value of the attribute with the given local name.
func attrValue(n *xmlquery.Node, local string) string {
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// load reads path, unpacking word/document.xml from a .docx archive.
func load(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}
	if !isArchive(data) {
		return data, false, nil
	}
	part, err := readPart(data, documentPart)
	if err != nil {
		return nil, true, fmt.Errorf("reading %s: %w", path, err)
	}
	return part, true, nil
}

func isArchive(data []byte) bool {
	return bytes.HasPrefix(data, []byte("PK\x03\x04"))
}

func readPart(data []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, ErrNoDocumentPart
}
