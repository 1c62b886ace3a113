// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/recompose/pkg/types"
)

// Title zone validation codes.
var (
	CodeTerminalPunctuation = types.ValidationCode{Code: 1, Label: "missing terminal punctuation"}
	CodeTitleUnterminated   = types.ValidationCode{Code: 2, Label: "title part unterminated"}
	CodeAmbiguousVolume     = types.ValidationCode{Code: 3, Label: "ambiguous volume"}
	CodeVolumeBeforeSplit   = types.ValidationCode{Code: 4, Label: "volume before split"}
	CodeMalformedSeries     = types.ValidationCode{Code: 5, Label: "malformed series"}
)

var (
	// volWordRe matches a word starting with "vol": Vol, Vol., Volume.
	volWordRe = regexp.MustCompile(`(?i)\bvol`)

	// colonVolRe matches a colon followed by a volume word.
	colonVolRe = regexp.MustCompile(`(?i):\s*vol`)

	// volumeNumberRe matches a volume word followed by a Roman or Arabic number.
	volumeNumberRe = regexp.MustCompile(`(?i:\bvol(?:ume|\x00|\.)?)\s*(?:[IVXLCDM]+|\d+)\b`)

	// seriesRe is the shape a series must have, e.g. "Lessons and Legacies: Volume XIII".
	seriesRe = regexp.MustCompile(`(?i::\s*vol(?:ume|\.)?)\s*(?:[IVXLCDM]+|\d+)\b`)
)

var titleRules = ruleSet{
	primary: []rule{
		{code: CodeTerminalPunctuation, check: func(s string) Verdict {
			return verdict(terminated(s))
		}},
	},
	secondary: []rule{
		{code: CodeTitleUnterminated, check: func(s string) Verdict {
			head, ok := seriesHead(s)
			if !ok {
				return Skip
			}
			return verdict(terminated(head))
		}},
		{code: CodeAmbiguousVolume, warning: true, check: func(s string) Verdict {
			if !volWordRe.MatchString(s) {
				return Skip
			}
			return verdict(IsSeries(s))
		}},
		{code: CodeVolumeBeforeSplit, check: checkVolumePosition},
		{code: CodeMalformedSeries, check: func(s string) Verdict {
			if !IsSeries(s) {
				return Skip
			}
			_, series := SplitTitle(s)
			return verdict(seriesRe.MatchString(series))
		}},
	},
}

// checkVolumePosition fails when a volume number appears before the first
// colon or interior fullstop, whichever comes first.
func checkVolumePosition(s string) Verdict {
	p := protectVol(s)
	body := strings.TrimRightFunc(p, isTerminal)

	limit := -1
	for _, i := range []int{strings.Index(body, ":"), strings.Index(body, ".")} {
		if i >= 0 && (limit < 0 || i < limit) {
			limit = i
		}
	}
	if limit < 0 {
		return Skip
	}
	loc := volumeNumberRe.FindStringIndex(p)
	if loc == nil {
		return Pass
	}
	return verdict(loc[0] > limit)
}

// seriesBody returns s with "Vol." protected and its terminal fullstop
// removed. ok is false when s does not end with a fullstop.
func seriesBody(raw string) (string, bool) {
	p := protectVol(strings.TrimSpace(raw))
	if !strings.HasSuffix(p, ".") {
		return "", false
	}
	return strings.TrimSuffix(p, "."), true
}

// seriesHead returns the title part of a series string up to and including
// the fullstop it is split on.
func seriesHead(raw string) (string, bool) {
	if !IsSeries(raw) {
		return "", false
	}
	body, _ := seriesBody(raw)
	return restore(body[:strings.LastIndex(body, ".")+1]), true
}

// Title extracts the title and optional series from the italic zone, e.g.
// "Hope: a story. Some Journal: Volume I.".
type Title struct {
	raw    string
	report types.ValidationReport
	series bool
	title  string
	part   string
}

// NewTitle evaluates raw. It fails only on a blank string.
func NewTitle(raw string) (*Title, error) {
	s, err := checkInput(raw)
	if err != nil {
		return nil, err
	}
	title, series := SplitTitle(s)
	return &Title{
		raw:    s,
		report: titleRules.evaluate(s),
		series: IsSeries(s),
		title:  title,
		part:   series,
	}, nil
}

func (t *Title) Raw() string                    { return t.raw }
func (t *Title) Report() types.ValidationReport { return t.report }
func (t *Title) IsValid() bool                  { return t.report.Valid() }

// IsSeries reports whether the zone carries series information.
func (t *Title) IsSeries() bool { return t.series }

// Title returns the title, or "" when the zone is invalid.
func (t *Title) Title() string {
	if !t.IsValid() {
		return ""
	}
	return t.title
}

// Series returns the series, or "" when the zone is invalid or has none.
func (t *Title) Series() string {
	if !t.IsValid() {
		return ""
	}
	return t.part
}

func (t *Title) Apply(c *types.StructuredCitation) {
	c.Title = t.Title()
	c.Series = t.Series()
}

// IsSeries reports whether raw ends with a series part: raw ends with a
// fullstop, has an interior fullstop, some fragment mentions a volume, and
// the last fragment carries a ": Vol" marker.
//
//	IsSeries("Superior debugging 101.")                // false
//	IsSeries("Hope: a story. Some Journal: Volume I.") // true
func IsSeries(raw string) bool {
	body, ok := seriesBody(raw)
	if !ok || !strings.Contains(body, ".") {
		return false
	}
	fragments := strings.Split(body, ".")

	mentionsVol, hasColonVol := false, false
	for _, f := range fragments {
		if volWordRe.MatchString(f) {
			mentionsVol = true
		}
		if colonVolRe.MatchString(f) {
			hasColonVol = true
		}
	}
	return mentionsVol && hasColonVol && colonVolRe.MatchString(fragments[len(fragments)-1])
}

// SplitTitle returns (title, series). A series string is split on the last
// fullstop before the terminal one; anything else is returned whole as the
// title. Both parts are trimmed of whitespace and fullstops.
//
//	SplitTitle("Illustrated puffins. Some journal: Volume III.")
//	// "Illustrated puffins", "Some journal: Volume III"
func SplitTitle(raw string) (title, series string) {
	if !IsSeries(raw) {
		return trimFullstops(raw), ""
	}
	body, _ := seriesBody(raw)
	i := strings.LastIndex(body, ".")
	return trimFullstops(restore(body[:i])), trimFullstops(restore(body[i+1:]))
}
