// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the recompose pipeline:
// formatted runs read from a document, the three zones of a segmented
// citation, the structured record built from them, validation reports,
// and configuration.
package types

// RunSpan is a run of paragraph text sharing one formatting state.
type RunSpan struct {
	// Text is the run's text content, whitespace preserved.
	Text string `json:"text" yaml:"text"`

	// Italic reports whether the run is set in italics.
	Italic bool `json:"italic" yaml:"italic"`

	// SmallCaps reports whether the run is set in small capitals.
	SmallCaps bool `json:"small_caps" yaml:"small_caps"`
}

// SegmentedCitation holds the three zones of a citation paragraph: the text
// before the italic title, the italic title itself, and the text after it.
// Each zone is whitespace-trimmed.
type SegmentedCitation struct {
	Pre    string `json:"pre" yaml:"pre"`
	Italic string `json:"italic" yaml:"italic"`
	Post   string `json:"post" yaml:"post"`
}

// StructuredCitation is the record built from one citation paragraph.
// Fields whose extractor reported the zone invalid are left empty.
type StructuredCitation struct {
	Authors []string `json:"authors" yaml:"authors"`
	Editors []string `json:"editors" yaml:"editors"`

	Title  string `json:"title" yaml:"title"`
	Series string `json:"series" yaml:"series"`

	// Extra is the credit sentence opening the publication zone, e.g.
	// "Translated by Michaela Lang". Translator or Illustrator hold the name.
	Extra       string `json:"extra" yaml:"extra"`
	Translator  string `json:"translator" yaml:"translator"`
	Illustrator string `json:"illustrator" yaml:"illustrator"`

	Publisher string `json:"publisher" yaml:"publisher"`
	PubPlace  string `json:"pubplace" yaml:"pubplace"`
	Year      string `json:"year" yaml:"year"`
	Pages     string `json:"pages" yaml:"pages"`
	Price     string `json:"price" yaml:"price"`
	ISBN      string `json:"isbn" yaml:"isbn"`
	ISSN      string `json:"issn" yaml:"issn"`
}

// Reports carries the validation report of each extractor for one citation.
type Reports struct {
	Authors ValidationReport `json:"authors" yaml:"authors"`
	Title   ValidationReport `json:"title" yaml:"title"`
	Meta    ValidationReport `json:"meta" yaml:"meta"`
}

// FieldValidity records which extractors contributed to a StructuredCitation.
// An empty field with a false flag was dropped, not absent.
type FieldValidity struct {
	Authors bool `json:"authors" yaml:"authors"`
	Title   bool `json:"title" yaml:"title"`
	Meta    bool `json:"meta" yaml:"meta"`
}

// All reports whether every extractor was valid.
func (v FieldValidity) All() bool {
	return v.Authors && v.Title && v.Meta
}
