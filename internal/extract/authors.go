// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/pdiddy/recompose/pkg/types"
)

// Author zone validation codes.
var (
	CodeTooFewCommas     = types.ValidationCode{Code: 1, Label: "too few commas"}
	CodeSurnameInversion = types.ValidationCode{Code: 2, Label: "surname inversion"}
	CodeOxfordComma      = types.ValidationCode{Code: 3, Label: "oxford comma"}
	CodeTrailingComma    = types.ValidationCode{Code: 4, Label: "missing trailing comma"}
	CodeNameTooLong      = types.ValidationCode{Code: 5, Label: "name too long"}
	CodeStrayAnd         = types.ValidationCode{Code: 6, Label: "stray and"}
	CodeEditorMarker     = types.ValidationCode{Code: 7, Label: "editor marker malformed"}
)

// maxNameWidth is the widest author name, in display columns, accepted.
const maxNameWidth = 40

var (
	// editorMarkerRe matches (ed), (ed.), (eds) and (eds.).
	editorMarkerRe = regexp.MustCompile(`(?i)\(eds?\.?\)`)

	// trailingEditorRe matches the marker as the comma-terminated suffix.
	trailingEditorRe = regexp.MustCompile(`(?i)\(eds?\.?\),\s*$`)

	// bareEditorRe catches a marker written without parentheses: "Smith, John eds,".
	bareEditorRe = regexp.MustCompile(`[\s,]eds?\.?,?\s*$`)

	// oxfordAndRe matches the ", and" joining the final author.
	oxfordAndRe = regexp.MustCompile(`(?i),\s*and\s+`)

	// bareAndRe matches any free-standing "and".
	bareAndRe = regexp.MustCompile(`(?i)\sand\s`)
)

var authorRules = ruleSet{
	primary: []rule{
		{code: CodeTooFewCommas, check: func(s string) Verdict {
			return verdict(strings.Count(s, ",") >= 2)
		}},
	},
	secondary: []rule{
		{code: CodeSurnameInversion, check: func(s string) Verdict {
			return verdict(strings.Count(s, ",")-strings.Count(s, ", ") == 1)
		}},
		{code: CodeOxfordComma, check: func(s string) Verdict {
			if strings.Count(s, ",") <= 2 {
				return Skip
			}
			return verdict(len(oxfordAndRe.FindAllStringIndex(s, -1)) == 1)
		}},
		{code: CodeTrailingComma, check: func(s string) Verdict {
			return verdict(strings.HasSuffix(s, ","))
		}},
		{code: CodeNameTooLong, check: func(s string) Verdict {
			for _, name := range SplitAuthors(s) {
				if runewidth.StringWidth(name) > maxNameWidth {
					return Fail
				}
			}
			return Pass
		}},
		{code: CodeStrayAnd, check: func(s string) Verdict {
			return verdict(len(bareAndRe.FindAllStringIndex(s, -1)) == len(oxfordAndRe.FindAllStringIndex(s, -1)))
		}},
		{code: CodeEditorMarker, check: checkEditorMarker},
	},
}

func checkEditorMarker(s string) Verdict {
	switch n := len(editorMarkerRe.FindAllStringIndex(s, -1)); {
	case n == 0:
		return verdict(!bareEditorRe.MatchString(s))
	case n > 1:
		return Fail
	default:
		return verdict(trailingEditorRe.MatchString(s))
	}
}

// Authors extracts the author or editor names from the zone before the
// italic title, e.g. "Hockey, Katherine M., and David G. Horrell (eds),".
type Authors struct {
	raw    string
	report types.ValidationReport
	editor bool
	names  []string
}

// NewAuthors evaluates raw. It fails only on a blank string.
func NewAuthors(raw string) (*Authors, error) {
	s, err := checkInput(raw)
	if err != nil {
		return nil, err
	}
	return &Authors{
		raw:    s,
		report: authorRules.evaluate(s),
		editor: IsEditor(s),
		names:  SplitAuthors(s),
	}, nil
}

func (a *Authors) Raw() string                    { return a.raw }
func (a *Authors) Report() types.ValidationReport { return a.report }
func (a *Authors) IsValid() bool                  { return a.report.Valid() }

// IsEditor reports whether the names are editors rather than authors.
func (a *Authors) IsEditor() bool { return a.editor }

// Authors returns the author names, or an empty list when the zone is
// invalid or names editors.
func (a *Authors) Authors() []string {
	if !a.IsValid() || a.editor {
		return []string{}
	}
	return append([]string{}, a.names...)
}

// Editors returns the editor names, or an empty list when the zone is
// invalid or names authors.
func (a *Authors) Editors() []string {
	if !a.IsValid() || !a.editor {
		return []string{}
	}
	return append([]string{}, a.names...)
}

func (a *Authors) Apply(c *types.StructuredCitation) {
	c.Authors = a.Authors()
	c.Editors = a.Editors()
}

// IsEditor reports whether raw carries exactly one editor marker, placed as
// the trailing comma-terminated suffix.
func IsEditor(raw string) bool {
	s := strings.TrimSpace(raw)
	return len(editorMarkerRe.FindAllStringIndex(s, -1)) == 1 && trailingEditorRe.MatchString(s)
}

// StripEditor removes a trailing "(eds)," style suffix. The space before
// the marker is kept.
func StripEditor(raw string) string {
	return trailingEditorRe.ReplaceAllString(raw, "")
}

// SplitAuthors returns the names in raw in display order. The first author is
// written "Surname, Firstname" and is turned around; the others are
// already "Firstname Surname":
//
//	SplitAuthors("Roberts, Lilly-Ann, and J.R.R. Tolkein (eds),")
//	// ["Lilly-Ann Roberts", "J.R.R. Tolkein"]
func SplitAuthors(raw string) []string {
	return splitNames(raw, false)
}

// SplitAuthorsInverted is SplitAuthors with the first author kept as "Surname, Firstname".
func SplitAuthorsInverted(raw string) []string {
	return splitNames(raw, true)
}

func splitNames(raw string, inverted bool) []string {
	s := strings.TrimSpace(StripEditor(raw))
	s = strings.TrimSpace(strings.TrimSuffix(s, ","))
	if s == "" {
		return []string{}
	}

	var final string
	if locs := oxfordAndRe.FindAllStringIndex(s, -1); len(locs) > 0 {
		last := locs[len(locs)-1]
		final = strings.TrimSpace(s[last[1]:])
		s = strings.TrimSpace(s[:last[0]])
	}

	var names []string
	parts := strings.SplitN(s, ", ", 3)
	if len(parts) == 1 {
		if first := strings.TrimSpace(parts[0]); first != "" {
			names = append(names, first)
		}
	} else {
		surname, firstname := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if inverted {
			names = append(names, surname+", "+firstname)
		} else {
			names = append(names, firstname+" "+surname)
		}
		if len(parts) == 3 {
			for _, name := range strings.Split(parts[2], ", ") {
				if name = strings.TrimSpace(name); name != "" {
					names = append(names, name)
				}
			}
		}
	}
	if final != "" {
		names = append(names, final)
	}
	return names
}
