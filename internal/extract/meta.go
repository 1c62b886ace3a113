// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/recompose/pkg/types"
)

// Publication zone validation codes.
var (
	CodeSectionCount      = types.ValidationCode{Code: 1, Label: "wrong section count"}
	CodeTerminalFullstop  = types.ValidationCode{Code: 2, Label: "missing terminal fullstop"}
	CodeUnknownCredit     = types.ValidationCode{Code: 3, Label: "unrecognised credit"}
	CodePublicationClause = types.ValidationCode{Code: 4, Label: "publication clause malformed"}
	CodePageCount         = types.ValidationCode{Code: 5, Label: "page count malformed"}
	CodePrice             = types.ValidationCode{Code: 6, Label: "price malformed"}
	CodeIdentifier        = types.ValidationCode{Code: 7, Label: "identifier malformed"}
)

const (
	isbnPattern = `ISBN(?:-1[03])?:?\s+(?:\d[ -]?){9,12}[\dXx]`
	issnPattern = `ISSN:?\s+\d{4}[ -]?\d{3}[\dXx]`
)

var (
	// publicationRe matches "Brill, Leiden, 2018": publisher, place, year.
	publicationRe = regexp.MustCompile(`^([^,]+),\s*(.+),\s*(\d{4})$`)

	// pagesRe matches "240 pp" and "xiii, 240 pp".
	pagesRe = regexp.MustCompile(`(?i)^(?:(?:[ivxlcdm]+|\d+),\s*)?\d+\s*pp$`)

	// priceRe matches "£130.00", "$65.00", "€94.00".
	priceRe = regexp.MustCompile(`^(?:US\$|[£$€¥])\s?\d+(?:[.,]\d{2})?$`)

	isbnRe       = regexp.MustCompile(`\b` + isbnPattern)
	issnRe       = regexp.MustCompile(`\b` + issnPattern)
	identifierRe = regexp.MustCompile(`^(?:` + isbnPattern + `|` + issnPattern + `)$`)

	translatorRe  = regexp.MustCompile(`^Translated(?: from (?:the )?[\p{L} ]+?)? by (.+)$`)
	illustratorRe = regexp.MustCompile(`^Illustrated by (.+)$`)
)

var metaRules = ruleSet{
	primary: []rule{
		{code: CodeSectionCount, check: func(s string) Verdict {
			n := len(sections(s))
			return verdict(n == 4 || n == 5)
		}},
		{code: CodeTerminalFullstop, check: func(s string) Verdict {
			return verdict(strings.HasSuffix(s, "."))
		}},
	},
	secondary: []rule{
		{code: CodeUnknownCredit, check: func(s string) Verdict {
			parts := sections(s)
			if len(parts) != 5 {
				return Skip
			}
			return verdict(isCredit(parts[0]))
		}},
		{code: CodePublicationClause, check: sectionRule(0, publicationRe)},
		{code: CodePageCount, check: sectionRule(1, pagesRe)},
		{code: CodePrice, check: sectionRule(2, priceRe)},
		{code: CodeIdentifier, check: sectionRule(3, identifierRe)},
	},
}

// sectionRule checks the section at position i, counted after any credit
// sentence, against re.
func sectionRule(i int, re *regexp.Regexp) func(string) Verdict {
	return func(s string) Verdict {
		parts := sections(s)
		if len(parts) == 5 {
			parts = parts[1:]
		}
		if i >= len(parts) {
			return Fail
		}
		return verdict(re.MatchString(parts[i]))
	}
}

// sections splits raw into its fullstop-delimited parts. The terminal
// fullstop is dropped and initials such as "A." are kept whole.
func sections(raw string) []string {
	s := protectInitials(strings.TrimSpace(raw))
	s = strings.TrimSuffix(s, ".")
	var parts []string
	for _, p := range sentenceBreakRe.Split(s, -1) {
		if p = strings.TrimSpace(restore(p)); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func isCredit(section string) bool {
	return translatorRe.MatchString(section) || illustratorRe.MatchString(section)
}

// MetaFields holds the fields searched for in the publication zone. Any
// field not found is "".
type MetaFields struct {
	Publisher   string `json:"publisher" yaml:"publisher"`
	PubPlace    string `json:"pubplace" yaml:"pubplace"`
	Year        string `json:"year" yaml:"year"`
	Pages       string `json:"pages" yaml:"pages"`
	Price       string `json:"price" yaml:"price"`
	ISBN        string `json:"isbn" yaml:"isbn"`
	ISSN        string `json:"issn" yaml:"issn"`
	Extra       string `json:"extra" yaml:"extra"`
	Translator  string `json:"translator" yaml:"translator"`
	Illustrator string `json:"illustrator" yaml:"illustrator"`
}

// SplitMeta searches raw for every publication field. Each search is
// independent, so a malformed section only blanks its own field.
func SplitMeta(raw string) MetaFields {
	parts := sections(raw)
	var f MetaFields
	f.Publisher, f.PubPlace, f.Year = searchPublication(parts)
	f.Pages = searchSection(parts, pagesRe)
	f.Price = searchSection(parts, priceRe)
	f.ISBN = isbnRe.FindString(raw)
	f.ISSN = issnRe.FindString(raw)
	f.Extra, f.Translator, f.Illustrator = searchCredit(parts)
	return f
}

func searchPublication(parts []string) (publisher, place, year string) {
	for _, p := range parts {
		if m := publicationRe.FindStringSubmatch(p); m != nil {
			return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), m[3]
		}
	}
	return "", "", ""
}

func searchSection(parts []string, re *regexp.Regexp) string {
	for _, p := range parts {
		if re.MatchString(p) {
			return p
		}
	}
	return ""
}

// searchCredit reads a leading "Translated by X" or "Illustrated by Y"
// sentence.
func searchCredit(parts []string) (extra, translator, illustrator string) {
	if len(parts) == 0 {
		return "", "", ""
	}
	first := parts[0]
	if m := translatorRe.FindStringSubmatch(first); m != nil {
		return first, strings.TrimSpace(m[1]), ""
	}
	if m := illustratorRe.FindStringSubmatch(first); m != nil {
		return first, "", strings.TrimSpace(m[1])
	}
	return "", "", ""
}

// IsExtra reports whether raw opens with a credit sentence.
func IsExtra(raw string) bool {
	parts := sections(raw)
	return len(parts) > 0 && isCredit(parts[0])
}

// CountFullstops counts every fullstop in raw, including those inside
// prices and initials.
func CountFullstops(raw string) int {
	return strings.Count(raw, ".")
}

// Meta extracts publisher, place, year, pages, price, identifier and an
// optional credit from the zone after the title, e.g.
// "Brill, Leiden, 2018. xiii, 240 pp. €94.00. ISBN 978 9 00434 447 1.".
type Meta struct {
	raw    string
	report types.ValidationReport
	fields MetaFields
}

// NewMeta evaluates raw. It fails only on a blank string.
func NewMeta(raw string) (*Meta, error) {
	s, err := checkInput(raw)
	if err != nil {
		return nil, err
	}
	return &Meta{
		raw:    s,
		report: metaRules.evaluate(s),
		fields: SplitMeta(s),
	}, nil
}

func (m *Meta) Raw() string                    { return m.raw }
func (m *Meta) Report() types.ValidationReport { return m.report }
func (m *Meta) IsValid() bool                  { return m.report.Valid() }

// IsExtra reports whether the zone opens with a credit sentence.
func (m *Meta) IsExtra() bool { return m.fields.Extra != "" }

// Fields returns the searched fields, or all empty when the zone is invalid.
func (m *Meta) Fields() MetaFields {
	if !m.IsValid() {
		return MetaFields{}
	}
	return m.fields
}

func (m *Meta) Apply(c *types.StructuredCitation) {
	f := m.Fields()
	c.Publisher = f.Publisher
	c.PubPlace = f.PubPlace
	c.Year = f.Year
	c.Pages = f.Pages
	c.Price = f.Price
	c.ISBN = f.ISBN
	c.ISSN = f.ISSN
	c.Extra = f.Extra
	c.Translator = f.Translator
	c.Illustrator = f.Illustrator
}
