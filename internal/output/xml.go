// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/pdiddy/recompose/internal/extract"
)

// BooksReceived is the root element of the XML format.
type BooksReceived struct {
	XMLName xml.Name  `xml:"booksReceived"`
	Source  string    `xml:"source,attr,omitempty"`
	Books   []BookXML `xml:"book"`
}

// BookXML is one citation in the XML format. Empty fields are omitted.
type BookXML struct {
	Authors     []string `xml:"authors>name,omitempty"`
	Editors     []string `xml:"editors>name,omitempty"`
	Title       string   `xml:"title,omitempty"`
	Series      string   `xml:"series,omitempty"`
	Extra       string   `xml:"extra,omitempty"`
	Translator  string   `xml:"translator,omitempty"`
	Illustrator string   `xml:"illustrator,omitempty"`
	Publisher   string   `xml:"publisher,omitempty"`
	PubPlace    string   `xml:"pubplace,omitempty"`
	Year        string   `xml:"year,omitempty"`
	Pages       string   `xml:"pages,omitempty"`
	Price       string   `xml:"price,omitempty"`
	ISBN        string   `xml:"isbn,omitempty"`
	ISSN        string   `xml:"issn,omitempty"`
}

func writeXML(w io.Writer, results []extract.Result, opts Options) error {
	doc := BooksReceived{Source: opts.Source, Books: make([]BookXML, len(results))}
	for i, r := range results {
		c := r.Citation
		doc.Books[i] = BookXML{
			Authors: c.Authors, Editors: c.Editors,
			Title: c.Title, Series: c.Series,
			Extra: c.Extra, Translator: c.Translator, Illustrator: c.Illustrator,
			Publisher: c.Publisher, PubPlace: c.PubPlace, Year: c.Year,
			Pages: c.Pages, Price: c.Price, ISBN: c.ISBN, ISSN: c.ISSN,
		}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("writing xml header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding xml: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("writing xml: %w", err)
	}
	return nil
}
