// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/recompose/internal/extract"
	"github.com/pdiddy/recompose/pkg/types"
)

// CSLItem is a book entry in CSL (Citation Style Language) format. The
// field names follow the CSL-YAML schema so that output is consumable by
// Pandoc and reference managers.
type CSLItem struct {
	ID              string    `yaml:"id"`
	Type            string    `yaml:"type"`
	Title           string    `yaml:"title,omitempty"`
	Author          []CSLName `yaml:"author,omitempty"`
	Editor          []CSLName `yaml:"editor,omitempty"`
	Translator      []CSLName `yaml:"translator,omitempty"`
	Illustrator     []CSLName `yaml:"illustrator,omitempty"`
	CollectionTitle string    `yaml:"collection-title,omitempty"`
	Publisher       string    `yaml:"publisher,omitempty"`
	PublisherPlace  string    `yaml:"publisher-place,omitempty"`
	Issued          *CSLDate  `yaml:"issued,omitempty"`
	NumberOfPages   string    `yaml:"number-of-pages,omitempty"`
	ISBN            string    `yaml:"ISBN,omitempty"`
	ISSN            string    `yaml:"ISSN,omitempty"`
	Note            string    `yaml:"note,omitempty"`
}

// CSLName is a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate is a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

func writeCSL(w io.Writer, results []extract.Result) error {
	keys := CitationKeys(results)
	items := make([]CSLItem, len(results))
	for i, r := range results {
		items[i] = toCSLItem(keys[i], r.Citation)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encoding csl: %w", err)
	}
	return nil
}

func toCSLItem(id string, c types.StructuredCitation) CSLItem {
	item := CSLItem{
		ID:              id,
		Type:            "book",
		Title:           c.Title,
		Author:          cslNames(c.Authors),
		Editor:          cslNames(c.Editors),
		CollectionTitle: c.Series,
		Publisher:       c.Publisher,
		PublisherPlace:  c.PubPlace,
		NumberOfPages:   pageTotal(c.Pages),
		ISBN:            identifierNumber(c.ISBN),
		ISSN:            identifierNumber(c.ISSN),
		Note:            c.Price,
	}
	if c.Translator != "" {
		item.Translator = []CSLName{ParseName(c.Translator)}
	}
	if c.Illustrator != "" {
		item.Illustrator = []CSLName{ParseName(c.Illustrator)}
	}
	if year, err := strconv.Atoi(c.Year); err == nil {
		item.Issued = &CSLDate{DateParts: [][]int{{year}}}
	}
	return item
}

func cslNames(names []string) []CSLName {
	var out []CSLName
	for _, n := range names {
		if name := ParseName(n); name != (CSLName{}) {
			out = append(out, name)
		}
	}
	return out
}

// ParseName splits a given-name-first string into CSL family and given
// parts. The family name starts at the first lowercase particle after the
// first word ("Gregorio del Olmo Lete") or else is the last word. Single
// words use the literal field.
func ParseName(name string) CSLName {
	words := strings.Fields(name)
	switch len(words) {
	case 0:
		return CSLName{}
	case 1:
		return CSLName{Literal: words[0]}
	}
	split := len(words) - 1
	for i := 1; i < len(words)-1; i++ {
		if r := []rune(words[i]); unicode.IsLower(r[0]) {
			split = i
			break
		}
	}
	return CSLName{
		Given:  strings.Join(words[:split], " "),
		Family: strings.Join(words[split:], " "),
	}
}

// pageTotal returns the main page count of a pages field such as
// "xiii, 240 pp".
func pageTotal(pages string) string {
	pages = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(pages), "pp"))
	if i := strings.LastIndex(pages, ","); i >= 0 {
		pages = pages[i+1:]
	}
	return strings.TrimSpace(pages)
}

// identifierNumber drops the ISBN or ISSN label from an identifier field.
func identifierNumber(id string) string {
	if i := strings.IndexFunc(id, unicode.IsDigit); i >= 0 {
		return id[i:]
	}
	return id
}
