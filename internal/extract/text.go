// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
)

// placeholder stands in for a protected fullstop while a string is split
// on fullstops.
const placeholder = "\x00"

var (
	// initialRe matches single-letter initials like "A. " so that credit
	// names survive sentence splitting.
	initialRe = regexp.MustCompile(`\b([A-Z])\.(\s)`)

	// volAbbrevRe matches the "Vol." abbreviation.
	volAbbrevRe = regexp.MustCompile(`\b([Vv]ol)\.`)

	// sentenceBreakRe matches a fullstop ending a sentence inside a string.
	sentenceBreakRe = regexp.MustCompile(`\.\s+`)
)

// protectInitials replaces the fullstop of each initial with the placeholder.
func protectInitials(s string) string {
	return initialRe.ReplaceAllString(s, "${1}"+placeholder+"${2}")
}

// protectVol replaces the fullstop of each "Vol." with the placeholder.
func protectVol(s string) string {
	return volAbbrevRe.ReplaceAllString(s, "${1}"+placeholder)
}

// restore puts back every protected fullstop.
func restore(s string) string {
	return strings.ReplaceAll(s, placeholder, ".")
}

// trimFullstops mirrors a strip of whitespace, then fullstops, then whitespace.
func trimFullstops(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "."))
}

// isTerminal reports whether r ends a sentence.
func isTerminal(r rune) bool {
	return r == '.' || r == '?' || r == '!'
}

// terminated reports whether s ends with exactly one terminal punctuation
// mark: "Title." and "Title?" pass, "Title" and "Title?!" do not.
func terminated(s string) bool {
	r := []rune(strings.TrimSpace(s))
	n := len(r)
	if n < 2 {
		return false
	}
	return isTerminal(r[n-1]) && !isTerminal(r[n-2])
}
