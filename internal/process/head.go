// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package process

import (
	"fmt"
	"strings"

	"github.com/pdiddy/recompose/pkg/types"
)

// StarBullet prefixes a paragraph head without a number.
const StarBullet = "* )"

const ellipsis = "..."

// NumberBullet returns the two-digit bullet for paragraph n, e.g. "07)".
func NumberBullet(n int) string {
	return fmt.Sprintf("%02d)", n)
}

// Head returns a one-line preview of text at most length characters long,
// prefixed by bullet when it is not empty. Whitespace runs collapse to one
// space; a cut preview ends with "...".
func Head(text string, length int, bullet string) string {
	text = strings.Join(strings.Fields(text), " ")
	prefix := ""
	if bullet != "" {
		prefix = bullet + " "
	}

	room := length - len([]rune(prefix))
	body := []rune(text)
	if len(body) <= room {
		return prefix + text
	}
	keep := room - len(ellipsis)
	if keep < 0 {
		keep = 0
	}
	cut := strings.TrimRight(string(body[:keep]), " ")
	head := prefix + cut + ellipsis
	if r := []rune(head); len(r) > length && length >= 0 {
		head = string(r[:length])
	}
	return head
}

// Visualize renders runs as plain text with italic letters drawn in the
// Unicode mathematical italic alphabet, so that log lines show where the
// italics fall.
func Visualize(runs []types.RunSpan) string {
	var b strings.Builder
	for _, r := range runs {
		if r.Italic {
			b.WriteString(Italicize(r.Text))
		} else {
			b.WriteString(r.Text)
		}
	}
	return b.String()
}

// Italicize maps ASCII letters to MATHEMATICAL ITALIC letters. Other
// characters are kept.
func Italicize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == 'h':
			return 'ℎ' // U+1D455 is unassigned; Unicode uses PLANCK CONSTANT.
		case r >= 'A' && r <= 'Z':
			return 0x1D434 + (r - 'A')
		case r >= 'a' && r <= 'z':
			return 0x1D44E + (r - 'a')
		}
		return r
	}, s)
}
