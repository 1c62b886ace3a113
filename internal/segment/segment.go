// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment splits a formatted citation paragraph into its three
// zones: the author text before the italic title, the title, and the
// publication text after it. A paragraph qualifies only when its italic
// runs form exactly one contiguous section flanked by non-italic text.
package segment

import (
	"strings"

	"github.com/pdiddy/recompose/pkg/types"
)

// Stretch is a maximal sequence of runs sharing the same italic flag,
// with their raw text concatenated.
type Stretch struct {
	Italic bool   `json:"italic" yaml:"italic"`
	Text   string `json:"text" yaml:"text"`
}

// citationPattern is the only simplified italic pattern accepted.
var citationPattern = []bool{false, true, false}

// Segment validates the italic pattern of runs and returns the three zones.
// Runs without text are ignored. Small-caps runs are upper-cased before
// concatenation and every zone is trimmed.
//
// It returns an *Error of KindStructure when no run carries text or none
// is italic, and of KindPattern when the simplified pattern is not
// (false, true, false).
func Segment(runs []types.RunSpan) (types.SegmentedCitation, error) {
	kept := textRuns(runs)
	if len(kept) == 0 {
		return types.SegmentedCitation{}, &Error{Kind: KindStructure, Reason: "paragraph has no text"}
	}
	if !hasItalic(kept) {
		return types.SegmentedCitation{}, &Error{Kind: KindStructure, Reason: "paragraph has no italic text"}
	}
	if !equalPattern(Simplify(Pattern(kept)), citationPattern) {
		return types.SegmentedCitation{}, &Error{Kind: KindPattern, Stretches: Group(kept)}
	}

	var zones [3]strings.Builder
	zone := 0
	for i, r := range kept {
		if i > 0 && r.Italic != kept[i-1].Italic {
			zone++
		}
		text := r.Text
		if r.SmallCaps {
			text = strings.ToUpper(text)
		}
		zones[zone].WriteString(text)
	}

	return types.SegmentedCitation{
		Pre:    strings.TrimSpace(zones[0].String()),
		Italic: strings.TrimSpace(zones[1].String()),
		Post:   strings.TrimSpace(zones[2].String()),
	}, nil
}

// Pattern returns the italic flag of every run that carries text.
func Pattern(runs []types.RunSpan) []bool {
	kept := textRuns(runs)
	pattern := make([]bool, len(kept))
	for i, r := range kept {
		pattern[i] = r.Italic
	}
	return pattern
}

// Simplify collapses consecutive equal flags: (f, f, t, t, f) becomes (f, t, f).
func Simplify(pattern []bool) []bool {
	var out []bool
	for i, flag := range pattern {
		if i == 0 || flag != pattern[i-1] {
			out = append(out, flag)
		}
	}
	return out
}

// Group regroups the runs carrying text into contiguous same-flag stretches.
// The stretches' text, concatenated, equals the paragraph's raw text.
func Group(runs []types.RunSpan) []Stretch {
	var stretches []Stretch
	for _, r := range textRuns(runs) {
		n := len(stretches)
		if n > 0 && stretches[n-1].Italic == r.Italic {
			stretches[n-1].Text += r.Text
			continue
		}
		stretches = append(stretches, Stretch{Italic: r.Italic, Text: r.Text})
	}
	return stretches
}

// Text returns the raw concatenated text of runs.
func Text(runs []types.RunSpan) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

func textRuns(runs []types.RunSpan) []types.RunSpan {
	kept := make([]types.RunSpan, 0, len(runs))
	for _, r := range runs {
		if r.Text != "" {
			kept = append(kept, r)
		}
	}
	return kept
}

func hasItalic(runs []types.RunSpan) bool {
	for _, r := range runs {
		if r.Italic {
			return true
		}
	}
	return false
}

func equalPattern(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
