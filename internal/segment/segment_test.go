// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/recompose/pkg/types"
)

func plain(s string) types.RunSpan  { return types.RunSpan{Text: s} }
func italic(s string) types.RunSpan { return types.RunSpan{Text: s, Italic: true} }

func TestSegment(t *testing.T) {
	tests := []struct {
		name string
		runs []types.RunSpan
		want types.SegmentedCitation
	}{
		{
			name: "three runs",
			runs: []types.RunSpan{plain("Pre Text"), italic("Italic Text"), plain("Post Text")},
			want: types.SegmentedCitation{Pre: "Pre Text", Italic: "Italic Text", Post: "Post Text"},
		},
		{
			name: "longer runs are concatenated per zone",
			runs: []types.RunSpan{
				plain("Pre Text 1"), plain("Pre Text 2"), plain("Pre Text 3"),
				italic("Italic Text 1"), italic("Italic Text 2"),
				plain("Post Text 1"), plain("Post Text 2"), plain("Post Text 3"),
			},
			want: types.SegmentedCitation{
				Pre:    "Pre Text 1Pre Text 2Pre Text 3",
				Italic: "Italic Text 1Italic Text 2",
				Post:   "Post Text 1Post Text 2Post Text 3",
			},
		},
		{
			name: "small caps are upper-cased",
			runs: []types.RunSpan{
				plain("Pre Text"), italic("Italic Text"),
				{Text: "isbn", SmallCaps: true},
			},
			want: types.SegmentedCitation{Pre: "Pre Text", Italic: "Italic Text", Post: "ISBN"},
		},
		{
			name: "empty runs are ignored and zones trimmed",
			runs: []types.RunSpan{
				plain("Hockey, Katherine M., and David G. Horrell (eds), "),
				{Italic: false},
				italic("Ethos. "),
				{Italic: true},
				plain(" Brill, Leiden, 2018. 240 pp. €94.00. ISBN 978 9 00434 447 1. "),
			},
			want: types.SegmentedCitation{
				Pre:    "Hockey, Katherine M., and David G. Horrell (eds),",
				Italic: "Ethos.",
				Post:   "Brill, Leiden, 2018. 240 pp. €94.00. ISBN 978 9 00434 447 1.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Segment(tt.runs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := Segment(tt.runs)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestSegmentStructureErrors(t *testing.T) {
	tests := []struct {
		name string
		runs []types.RunSpan
	}{
		{name: "no runs", runs: nil},
		{name: "only empty runs", runs: []types.RunSpan{{Italic: true}, {}}},
		{name: "no italic", runs: []types.RunSpan{plain("Just"), plain(" text")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Segment(tt.runs)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotCitation))
			assert.False(t, errors.Is(err, ErrItalicPattern))
			assert.Contains(t, err.Error(), "not a citation paragraph")
		})
	}
}

func TestSegmentPatternErrors(t *testing.T) {
	tests := []struct {
		name       string
		runs       []types.RunSpan
		wantDetail string
	}{
		{
			name:       "interrupted",
			runs:       []types.RunSpan{plain("Pre"), italic("It"), plain("Mid"), italic("More"), plain("Post")},
			wantDetail: "non-italic, italic, non-italic, italic, non-italic",
		},
		{
			name:       "inverted",
			runs:       []types.RunSpan{italic("It"), plain("Mid"), italic("More")},
			wantDetail: "italic, non-italic, italic",
		},
		{
			name:       "no pre",
			runs:       []types.RunSpan{italic("It"), plain("Post")},
			wantDetail: "found italic, non-italic.",
		},
		{
			name:       "no post",
			runs:       []types.RunSpan{plain("Pre"), italic("It")},
			wantDetail: "found non-italic, italic.",
		},
		{
			name:       "italic only",
			runs:       []types.RunSpan{italic("Italic Text")},
			wantDetail: "found italic.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Segment(tt.runs)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrItalicPattern))

			var segErr *Error
			require.True(t, errors.As(err, &segErr))
			assert.Equal(t, KindPattern, segErr.Kind)

			msg := err.Error()
			for _, sub := range []string{"paragraph", "has", "pattern", "found", "one italic section", "two non-italic sections"} {
				assert.Contains(t, msg, sub)
			}
			assert.Contains(t, msg, tt.wantDetail)
		})
	}
}

func TestPatternErrorDetailIncludesOffendingText(t *testing.T) {
	runs := []types.RunSpan{
		plain("Pre Text 1"), plain("Pre Text 2"), plain("Pre Text 3"),
		italic("First Italic Text 1"), italic("First Italic Text 2"),
		plain("Interupted Not Italic 1"), plain("Interupted Not Italic 2"),
		italic("Second Italic Text 1"), italic("Second Italic Text 2"), italic("Second Italic Text 3"),
		plain("Post Text 1"), plain("Post Text 2"),
	}

	assert.Equal(t, []Stretch{
		{Italic: false, Text: "Pre Text 1Pre Text 2Pre Text 3"},
		{Italic: true, Text: "First Italic Text 1First Italic Text 2"},
		{Italic: false, Text: "Interupted Not Italic 1Interupted Not Italic 2"},
		{Italic: true, Text: "Second Italic Text 1Second Italic Text 2Second Italic Text 3"},
		{Italic: false, Text: "Post Text 1Post Text 2"},
	}, Group(runs))

	_, err := Segment(runs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "italic: First Italic Text 1First Italic Text 2")
	assert.Contains(t, err.Error(), "italic: Second Italic Text 1Second Italic Text 2Second Italic Text 3")
}

func TestPatternErrorAnnotatesWhitespace(t *testing.T) {
	runs := []types.RunSpan{
		plain("Pre Text 1"), plain("Pre Text 2"), plain("Pre Text 3"),
		italic("First Italic Text 1"), italic("First Italic Text 2"),
		plain("Interupted Not Italic 1"), plain("Interupted Not Italic 2"),
		italic(" "),
		plain("Post Text 1"), plain("Post Text 2"),
	}

	_, err := Segment(runs)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "# SPACE! ")
	assert.Contains(t, msg, "␣")
	assert.Contains(t, msg, "...Not Italic 2␣Post Text...")
}

func TestSimplify(t *testing.T) {
	assert.Equal(t, []bool{false, true, false}, Simplify([]bool{false, false, true, true, false}))
	assert.Equal(t, []bool{false, true, false, true, false}, Simplify([]bool{false, true, false, true, false}))
	assert.Nil(t, Simplify(nil))
}

func TestPattern(t *testing.T) {
	runs := []types.RunSpan{plain("a"), {}, italic("b"), plain("c")}
	assert.Equal(t, []bool{false, true, false}, Pattern(runs))
}

// randomRuns builds a run sequence whose flags follow pattern, each element
// expanded to one or more runs.
func randomRuns(rng *rand.Rand, pattern []bool) []types.RunSpan {
	words := []string{"Lorem ", "ipsum,", " dolor", " sit.", "amet ", "£12.00"}
	var runs []types.RunSpan
	for _, flag := range pattern {
		n := 1 + rng.Intn(3)
		for i := 0; i < n; i++ {
			runs = append(runs, types.RunSpan{Text: words[rng.Intn(len(words))], Italic: flag})
		}
	}
	return runs
}

func TestSegmentConcatenationProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		runs := randomRuns(rng, citationPattern)
		got, err := Segment(runs)
		require.NoError(t, err)

		// Untrimmed zones concatenate back to the input.
		groups := Group(runs)
		require.Len(t, groups, 3)
		assert.Equal(t, Text(runs), groups[0].Text+groups[1].Text+groups[2].Text)
		assert.Equal(t, strings.TrimSpace(groups[1].Text), got.Italic)
	}
}

func TestPatternErrorGroupingProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		n := 1 + rng.Intn(6)
		pattern := make([]bool, n)
		start := rng.Intn(2) == 0
		for j := range pattern {
			pattern[j] = start
			start = !start
		}
		if equalPattern(pattern, citationPattern) || !hasItalicFlag(pattern) {
			continue
		}
		runs := randomRuns(rng, pattern)

		_, err := Segment(runs)
		var segErr *Error
		require.True(t, errors.As(err, &segErr), "pattern %v", pattern)
		assert.Equal(t, KindPattern, segErr.Kind)

		var joined strings.Builder
		for _, s := range segErr.Stretches {
			joined.WriteString(s.Text)
		}
		assert.Equal(t, Text(runs), joined.String())
	}
}

func hasItalicFlag(pattern []bool) bool {
	for _, f := range pattern {
		if f {
			return true
		}
	}
	return false
}
