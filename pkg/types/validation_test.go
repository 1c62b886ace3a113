// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationReport(t *testing.T) {
	tooFew := ValidationCode{Code: 1, Label: "too few commas"}
	stray := ValidationCode{Code: 6, Label: "stray and"}

	t.Run("empty report is valid", func(t *testing.T) {
		var r ValidationReport
		assert.True(t, r.Valid())
		assert.Equal(t, []ValidationCode{CodeValid}, r.Codes())
		assert.Equal(t, CodeValid, r.First())
	})

	t.Run("valid code is never stored", func(t *testing.T) {
		var r ValidationReport
		r.Add(CodeValid)
		r.Warn(CodeValid)
		assert.Empty(t, r.Failures)
		assert.Empty(t, r.Warnings)
	})

	t.Run("failures are a sorted set", func(t *testing.T) {
		var r ValidationReport
		r.Add(stray)
		r.Add(tooFew)
		r.Add(stray)
		assert.False(t, r.Valid())
		assert.Equal(t, []ValidationCode{tooFew, stray}, r.Codes())
		assert.Equal(t, tooFew, r.First())
		assert.NotContains(t, r.Codes(), CodeValid)
	})

	t.Run("warnings do not invalidate", func(t *testing.T) {
		var r ValidationReport
		r.Warn(ValidationCode{Code: 3, Label: "ambiguous volume"})
		assert.True(t, r.Valid())
		assert.True(t, r.Has(3))
		assert.Contains(t, r.String(), "warnings: 3: ambiguous volume")
	})
}

func TestFieldValidityAll(t *testing.T) {
	assert.True(t, FieldValidity{Authors: true, Title: true, Meta: true}.All())
	assert.False(t, FieldValidity{Authors: true, Meta: true}.All())
}
