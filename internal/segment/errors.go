// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"errors"
	"strings"
	"unicode"
)

// Kind distinguishes the ways a paragraph can fail segmentation.
type Kind int

const (
	// KindStructure marks a paragraph that is not citation-shaped at all.
	KindStructure Kind = iota + 1
	// KindPattern marks a paragraph whose italic runs are not exactly one
	// contiguous section between non-italic text.
	KindPattern
)

func (k Kind) String() string {
	switch k {
	case KindStructure:
		return "structure"
	case KindPattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrNotCitation   = errors.New("not a citation paragraph")
	ErrItalicPattern = errors.New("invalid italic pattern")
)

// Error is returned by Segment. Reason is set for KindStructure; Stretches
// holds the paragraph regrouped by italic flag for KindPattern.
type Error struct {
	Kind      Kind
	Reason    string
	Stretches []Stretch
}

func (e *Error) Error() string {
	return Describe(e)
}

// Is matches the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotCitation:
		return e.Kind == KindStructure
	case ErrItalicPattern:
		return e.Kind == KindPattern
	}
	return false
}

// whitespaceMark replaces each whitespace character of a blank italic
// stretch in diagnostics (U+2423 OPEN BOX).
const whitespaceMark = '␣'

// contextWidth is the number of characters of neighbouring text shown
// around a blank italic stretch.
const contextWidth = 12

// Describe renders a segmentation error for people reading logs.
func Describe(e *Error) string {
	if e.Kind != KindPattern {
		if e.Reason == "" {
			return ErrNotCitation.Error()
		}
		return ErrNotCitation.Error() + ": " + e.Reason
	}

	names := make([]string, len(e.Stretches))
	details := make([]string, len(e.Stretches))
	for i, s := range e.Stretches {
		names[i] = stretchName(s)
		details[i] = names[i] + ": " + stretchDetail(e.Stretches, i)
	}

	var b strings.Builder
	b.WriteString("paragraph has an invalid italic pattern: expected one italic section ")
	b.WriteString("between two non-italic sections, found ")
	b.WriteString(strings.Join(names, ", "))
	b.WriteString(". Detail: ")
	b.WriteString(strings.Join(details, ", "))
	return b.String()
}

func stretchName(s Stretch) string {
	if s.Italic {
		return "italic"
	}
	return "non-italic"
}

// stretchDetail shows the stretch text, or for a blank italic stretch the
// blank made visible between its neighbours.
func stretchDetail(stretches []Stretch, i int) string {
	s := stretches[i]
	if !s.Italic || strings.TrimSpace(s.Text) != "" {
		return s.Text
	}
	var left, right string
	if i > 0 {
		left = leftContext(stretches[i-1].Text)
	}
	if i+1 < len(stretches) {
		right = rightContext(stretches[i+1].Text)
	}
	return "# SPACE! ..." + left + visibleWhitespace(s.Text) + right + "..."
}

func visibleWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return whitespaceMark
		}
		return r
	}, s)
}

// leftContext returns the tail of s, dropping a partial leading word.
func leftContext(s string) string {
	r := []rune(s)
	if len(r) <= contextWidth {
		return s
	}
	start := len(r) - contextWidth
	tail := r[start:]
	if !unicode.IsSpace(r[start-1]) {
		for j, c := range tail {
			if unicode.IsSpace(c) {
				return string(tail[j+1:])
			}
		}
	}
	return string(tail)
}

// rightContext returns the head of s, dropping a partial trailing word.
func rightContext(s string) string {
	r := []rune(s)
	if len(r) <= contextWidth {
		return s
	}
	head := r[:contextWidth]
	if !unicode.IsSpace(r[contextWidth]) {
		for j := len(head) - 1; j >= 0; j-- {
			if unicode.IsSpace(head[j]) {
				return string(head[:j])
			}
		}
	}
	return string(head)
}
