// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"github.com/pdiddy/recompose/pkg/types"
)

// CodeEmptyZone is recorded by Aggregate for a zone left blank after
// trimming. Every extractor shares it.
var CodeEmptyZone = types.ValidationCode{Code: 100, Label: "empty zone"}

// Result is one aggregated citation: the record, each extractor's report,
// and which extractors contributed to the record.
type Result struct {
	Citation types.StructuredCitation `json:"citation" yaml:"citation"`
	Reports  types.Reports            `json:"reports" yaml:"reports"`
	Validity types.FieldValidity      `json:"validity" yaml:"validity"`
}

// Aggregate runs the three extractors on their zones and merges the fields
// of each valid one into a StructuredCitation. An extractor that fails or
// reports invalid leaves its fields empty and never affects the others.
func Aggregate(seg types.SegmentedCitation) Result {
	res := Result{Citation: types.StructuredCitation{Authors: []string{}, Editors: []string{}}}

	authors, err := NewAuthors(seg.Pre)
	res.Reports.Authors, res.Validity.Authors = merge(&res.Citation, authors, err)

	title, err := NewTitle(seg.Italic)
	res.Reports.Title, res.Validity.Title = merge(&res.Citation, title, err)

	meta, err := NewMeta(seg.Post)
	res.Reports.Meta, res.Validity.Meta = merge(&res.Citation, meta, err)
	return res
}

// merge applies e when it is valid. e is not used when err is set.
func merge(c *types.StructuredCitation, e Extraction, err error) (types.ValidationReport, bool) {
	if err != nil {
		var report types.ValidationReport
		report.Add(CodeEmptyZone)
		return report, false
	}
	if !e.IsValid() {
		return e.Report(), false
	}
	e.Apply(c)
	return e.Report(), true
}
