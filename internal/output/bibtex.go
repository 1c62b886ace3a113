// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/pdiddy/recompose/internal/extract"
	"github.com/pdiddy/recompose/pkg/types"
)

func writeBibTeX(w io.Writer, results []extract.Result) error {
	keys := CitationKeys(results)
	var b strings.Builder
	for i, r := range results {
		writeBibEntry(&b, keys[i], r.Citation)
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing bibtex: %w", err)
	}
	return nil
}

func writeBibEntry(b *strings.Builder, key string, c types.StructuredCitation) {
	fmt.Fprintf(b, "@book{%s,\n", key)
	fmt.Fprintf(b, "  title = {%s},\n", c.Title)
	if len(c.Authors) > 0 {
		fmt.Fprintf(b, "  author = {%s},\n", strings.Join(c.Authors, " and "))
	}
	if len(c.Editors) > 0 {
		fmt.Fprintf(b, "  editor = {%s},\n", strings.Join(c.Editors, " and "))
	}
	fields := []struct{ name, value string }{
		{"series", c.Series},
		{"translator", c.Translator},
		{"illustrator", c.Illustrator},
		{"publisher", c.Publisher},
		{"address", c.PubPlace},
		{"year", c.Year},
		{"pagetotal", pageTotal(c.Pages)},
		{"isbn", identifierNumber(c.ISBN)},
		{"issn", identifierNumber(c.ISSN)},
		{"note", c.Price},
	}
	for _, f := range fields {
		if f.value != "" {
			fmt.Fprintf(b, "  %s = {%s},\n", f.name, f.value)
		}
	}
	fmt.Fprintf(b, "}\n\n")
}

// CitationKeys returns one key per result, built from the family name of
// the first author or editor and the year ("hockey2018"). Results without
// a name use "book". Repeated keys get a letter suffix: hockey2018,
// hockey2018a, hockey2018b.
func CitationKeys(results []extract.Result) []string {
	keys := make([]string, len(results))
	seen := make(map[string]int)
	for i, r := range results {
		base := baseKey(r.Citation)
		n := seen[base]
		seen[base] = n + 1
		keys[i] = base + suffix(n)
	}
	return keys
}

func baseKey(c types.StructuredCitation) string {
	var name string
	switch {
	case len(c.Authors) > 0:
		name = c.Authors[0]
	case len(c.Editors) > 0:
		name = c.Editors[0]
	}
	parsed := ParseName(name)
	family := parsed.Family
	if family == "" {
		family = parsed.Literal
	}
	key := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, family)
	if key == "" {
		key = "book"
	}
	return key + c.Year
}

// suffix maps 0 to "", 1 to "a", 26 to "z", 27 to "za".
func suffix(n int) string {
	var b strings.Builder
	for n > 26 {
		b.WriteByte('z')
		n -= 26
	}
	if n > 0 {
		b.WriteByte(byte('a' + n - 1))
	}
	return b.String()
}
