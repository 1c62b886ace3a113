// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationCode identifies one structural failure mode of an extractor.
// Codes are only meaningful within the extractor that defines them.
type ValidationCode struct {
	Code  int    `json:"code" yaml:"code"`
	Label string `json:"label" yaml:"label"`
}

// CodeValid is the single reserved code for a valid string.
var CodeValid = ValidationCode{}

// IsValid reports whether c is the reserved valid code.
func (c ValidationCode) IsValid() bool {
	return c == CodeValid
}

func (c ValidationCode) String() string {
	if c.IsValid() {
		return "valid"
	}
	return fmt.Sprintf("%d: %s", c.Code, c.Label)
}

// ValidationReport accumulates the codes raised while one extractor
// evaluates one raw string. Failures make the string invalid; warnings
// never do. Neither list holds duplicates or CodeValid.
type ValidationReport struct {
	Failures []ValidationCode `json:"failures,omitempty" yaml:"failures,omitempty"`
	Warnings []ValidationCode `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Add records a failure code. CodeValid and repeated codes are ignored.
func (r *ValidationReport) Add(c ValidationCode) {
	if c.IsValid() || containsCode(r.Failures, c) {
		return
	}
	r.Failures = append(r.Failures, c)
}

// Warn records a non-fatal code.
func (r *ValidationReport) Warn(c ValidationCode) {
	if c.IsValid() || containsCode(r.Warnings, c) {
		return
	}
	r.Warnings = append(r.Warnings, c)
}

// Valid reports whether no failure was recorded.
func (r ValidationReport) Valid() bool {
	return len(r.Failures) == 0
}

// Codes returns the report as a code set: exactly [CodeValid] when valid,
// otherwise the failures ordered by code.
func (r ValidationReport) Codes() []ValidationCode {
	if r.Valid() {
		return []ValidationCode{CodeValid}
	}
	codes := make([]ValidationCode, len(r.Failures))
	copy(codes, r.Failures)
	sort.Slice(codes, func(i, j int) bool { return codes[i].Code < codes[j].Code })
	return codes
}

// First returns the lowest failure code, or CodeValid.
func (r ValidationReport) First() ValidationCode {
	return r.Codes()[0]
}

// Has reports whether code was recorded as a failure or a warning.
func (r ValidationReport) Has(code int) bool {
	for _, c := range r.Failures {
		if c.Code == code {
			return true
		}
	}
	for _, c := range r.Warnings {
		if c.Code == code {
			return true
		}
	}
	return false
}

func (r ValidationReport) String() string {
	codes := r.Codes()
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = c.String()
	}
	s := strings.Join(parts, "; ")
	if len(r.Warnings) > 0 {
		warns := make([]string, len(r.Warnings))
		for i, c := range r.Warnings {
			warns[i] = c.String()
		}
		s += " (warnings: " + strings.Join(warns, "; ") + ")"
	}
	return s
}

func containsCode(codes []ValidationCode, c ValidationCode) bool {
	for _, have := range codes {
		if have == c {
			return true
		}
	}
	return false
}
