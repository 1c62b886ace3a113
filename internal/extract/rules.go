// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls typed bibliographic fields out of the three zones of
// a segmented citation. Each zone has its own extractor (Authors, Title,
// Meta); every extractor evaluates a fixed, ordered list of validation rules
// and records the result in a types.ValidationReport. Aggregate runs all
// three and merges the valid ones into a types.StructuredCitation.
package extract

import (
	"errors"
	"strings"

	"github.com/pdiddy/recompose/pkg/types"
)

// ErrEmptyInput is returned by the extractor constructors for a blank zone.
var ErrEmptyInput = errors.New("empty input string")

// Verdict is the outcome of one validation rule.
type Verdict int

const (
	// Skip means the rule does not apply to this string.
	Skip Verdict = iota
	// Pass means the rule holds.
	Pass
	// Fail means the rule is violated; its code is recorded.
	Fail
)

// verdict converts a boolean check into Pass or Fail.
func verdict(ok bool) Verdict {
	if ok {
		return Pass
	}
	return Fail
}

// rule is one named validation check. A warning rule records its code as a
// non-fatal warning instead of a failure.
type rule struct {
	code    types.ValidationCode
	warning bool
	check   func(raw string) Verdict
}

// ruleSet is the ordered validation of one extractor. Primary rules gate
// the secondary ones: when any primary rule fails, the secondary rules are
// not evaluated. Every failing rule records its own code.
type ruleSet struct {
	primary   []rule
	secondary []rule
}

// evaluate runs the rules against raw and returns the report.
func (rs ruleSet) evaluate(raw string) types.ValidationReport {
	var report types.ValidationReport
	apply(&report, rs.primary, raw)
	if !report.Valid() {
		return report
	}
	apply(&report, rs.secondary, raw)
	return report
}

func apply(report *types.ValidationReport, rules []rule, raw string) {
	for _, r := range rules {
		if r.check(raw) != Fail {
			continue
		}
		if r.warning {
			report.Warn(r.code)
		} else {
			report.Add(r.code)
		}
	}
}

// Extraction is the common contract of the zone extractors.
type Extraction interface {
	// Raw returns the string the extractor evaluated.
	Raw() string
	// Report returns the validation report for Raw.
	Report() types.ValidationReport
	// IsValid reports whether Report holds no failures.
	IsValid() bool
	// Apply writes the extractor's fields into c.
	Apply(c *types.StructuredCitation)
}

// checkInput trims raw and rejects blank strings.
func checkInput(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrEmptyInput
	}
	return s, nil
}
