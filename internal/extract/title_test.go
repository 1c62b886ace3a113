// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	seriesTitle = "New Approaches to an Integrated History of the Holocaust: Social History, " +
		"Representation, Theory. Lessons and Legacies: Volume XIII."
	volumeFirst = "Lessons and Legacies, Volume XIII: New Approaches to an Integrated History " +
		"of the Holocaust: Social History, Representation, Theory."
	plainTitle = "An Early History of Compassion: Emotion and Imagination in Hellenistic Judaism."
)

func TestNewTitleValidity(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     []int
		warnings bool
	}{
		{name: "series", raw: seriesTitle, want: []int{0}},
		{name: "plain", raw: plainTitle, want: []int{0}},
		{name: "question", raw: "Why now?", want: []int{0}},
		{name: "abbreviated volume", raw: "A history. Studies: Vol. 3.", want: []int{0}},
		{name: "volume word without series", raw: "The Volume of Water.", want: []int{0}, warnings: true},
		{name: "no terminal punctuation", raw: "A title", want: []int{1}},
		{name: "doubled terminal punctuation", raw: "Really?!", want: []int{1}},
		{name: "title part unterminated", raw: "Why now?. Some Journal: Volume I.", want: []int{2}},
		{name: "volume before split", raw: volumeFirst, want: []int{4}, warnings: true},
		{name: "series without number", raw: "A history. Studies: Volumes in Print.", want: []int{5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, err := NewTitle(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, codes(title.Report()))
			assert.Equal(t, tt.warnings, title.Report().Has(CodeAmbiguousVolume.Code))
		})
	}
}

func TestNewTitleEmpty(t *testing.T) {
	_, err := NewTitle("")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestTitleOutput(t *testing.T) {
	title, err := NewTitle(seriesTitle)
	require.NoError(t, err)
	assert.True(t, title.IsSeries())
	assert.Equal(t, "New Approaches to an Integrated History of the Holocaust: Social History, Representation, Theory", title.Title())
	assert.Equal(t, "Lessons and Legacies: Volume XIII", title.Series())

	title, err = NewTitle(plainTitle)
	require.NoError(t, err)
	assert.False(t, title.IsSeries())
	assert.Equal(t, "An Early History of Compassion: Emotion and Imagination in Hellenistic Judaism", title.Title())
	assert.Empty(t, title.Series())

	title, err = NewTitle(volumeFirst)
	require.NoError(t, err)
	assert.Empty(t, title.Title())
	assert.Empty(t, title.Series())
}

func TestIsSeries(t *testing.T) {
	assert.False(t, IsSeries("Superior debugging 101."))
	assert.True(t, IsSeries("Hope: a story. Some Journal: Volume I."))
	assert.True(t, IsSeries(seriesTitle))
	assert.False(t, IsSeries(volumeFirst))
	assert.False(t, IsSeries(plainTitle))
	assert.False(t, IsSeries("Hope: a story. Some Journal: Volume I"))
}

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		raw, title, series string
	}{
		{"A noteworthy subject, with a subclause.", "A noteworthy subject, with a subclause", ""},
		{"Illustrated puffins. Some journal: Volume III.", "Illustrated puffins", "Some journal: Volume III"},
		{seriesTitle, "New Approaches to an Integrated History of the Holocaust: Social History, Representation, Theory", "Lessons and Legacies: Volume XIII"},
		{volumeFirst, "Lessons and Legacies, Volume XIII: New Approaches to an Integrated History of the Holocaust: Social History, Representation, Theory", ""},
		{"A history. Studies: Vol. 3.", "A history", "Studies: Vol. 3"},
		{"Why now?", "Why now?", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			title, series := SplitTitle(tt.raw)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.series, series)
		})
	}
}
