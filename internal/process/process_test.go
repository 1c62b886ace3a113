// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package process

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/recompose/internal/docx"
	"github.com/pdiddy/recompose/internal/segment"
	"github.com/pdiddy/recompose/pkg/types"
)

// runs is a Source backed by a fixed run list.
type runs []types.RunSpan

func (r runs) Runs() []types.RunSpan { return r }

func citation(pre, title, post string) runs {
	return runs{{Text: pre + " "}, {Text: title, Italic: true}, {Text: " " + post}}
}

var (
	validCitation = citation(
		"Hockey, Katherine M., and David G. Horrell (eds),",
		"Ethos in Early Christianity.",
		"Brill, Leiden, 2018. xiii, 240 pp. €94.00. ISBN 978 9 00434 447 1.",
	)
	partialCitation = citation(
		"Berthelot, Katell, Michaël Langlois and Thierry Legrand,",
		"The Dead Sea Scrolls.",
		"Brill, Leiden, 2018. xiii, 240 pp. €94.00. ISBN 978 9 00434 447 1.",
	)
	brokenCitation = runs{{Text: "Pre "}, {Text: "Title", Italic: true}, {Text: " mid "}, {Text: "More", Italic: true}, {Text: " post"}}
)

func TestParagraph(t *testing.T) {
	var progress bytes.Buffer
	out := Paragraph(validCitation, 4, Options{Progress: &progress})

	require.True(t, out.OK())
	assert.Equal(t, 4, out.Index)
	assert.True(t, strings.HasPrefix(out.Head, "04) Hockey"))
	assert.Equal(t, []string{"Katherine M. Hockey", "David G. Horrell"}, out.Result.Citation.Editors)
	assert.Equal(t, "Ethos in Early Christianity", out.Result.Citation.Title)
	assert.Contains(t, progress.String(), "parsed:  04)")
}

func TestParagraphSegmentFailure(t *testing.T) {
	var progress bytes.Buffer
	out := Paragraph(brokenCitation, 2, Options{Progress: &progress})

	require.False(t, out.OK())
	assert.True(t, errors.Is(out.Err, segment.ErrItalicPattern))
	assert.Equal(t, types.StructuredCitation{}, out.Result.Citation)
	assert.Contains(t, progress.String(), "failed:  02)")
	assert.Contains(t, progress.String(), "invalid italic pattern")
}

func TestParagraphPartial(t *testing.T) {
	var progress bytes.Buffer
	out := Paragraph(partialCitation, 1, Options{Progress: &progress})

	require.True(t, out.OK())
	assert.False(t, out.Result.Validity.Authors)
	assert.Empty(t, out.Result.Citation.Authors)
	assert.Equal(t, "Brill", out.Result.Citation.Publisher)
	assert.Contains(t, progress.String(), "partial: 01)")
	assert.Contains(t, progress.String(), "invalid: authors")
}

func TestParagraphsContinuesPastFailures(t *testing.T) {
	paras := []runs{validCitation, brokenCitation, partialCitation, {{Text: "no italics"}}, validCitation}

	var progress bytes.Buffer
	outcomes, result, err := Paragraphs(context.Background(), paras, Options{Progress: &progress})
	require.NoError(t, err)

	assert.Len(t, outcomes, 5)
	assert.Equal(t, BatchResult{Parsed: 2, Partial: 1, Failed: 2}, result)
	assert.Equal(t, 3, result.Records())
	assert.True(t, result.HasFailures())
	assert.Len(t, Records(outcomes), 3)
	assert.Contains(t, progress.String(), "Batch summary: 2 parsed, 1 partial, 2 failed (total: 5)")
}

func TestParagraphsRecordCountProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	pool := []runs{validCitation, partialCitation, brokenCitation, {{Text: "heading"}}}
	for i := 0; i < 50; i++ {
		n := rng.Intn(20)
		paras := make([]runs, n)
		failing := 0
		for j := range paras {
			paras[j] = pool[rng.Intn(len(pool))]
			if len(paras[j]) < 3 || len(paras[j]) == 5 {
				failing++
			}
		}
		outcomes, result, err := Paragraphs(context.Background(), paras, Options{})
		require.NoError(t, err)
		assert.Len(t, Records(outcomes), n-failing)
		assert.Equal(t, failing, result.Failed)
	}
}

func TestParagraphsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcomes, _, err := Paragraphs(ctx, []runs{validCitation}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, outcomes)
}

func TestDocument(t *testing.T) {
	xml := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:r><w:t>Books Received</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Hockey, Katherine M., and David G. Horrell (eds), </w:t></w:r><w:r><w:rPr><w:i/></w:rPr><w:t>Ethos in Early Christianity.</w:t></w:r><w:r><w:t xml:space="preserve"> Brill, Leiden, 2018. xiii, 240 pp. €94.00. ISBN 978 9 00434 447 1.</w:t></w:r></w:p>
</w:body></w:document>`
	doc, err := docx.Parse(strings.NewReader(xml))
	require.NoError(t, err)

	outcomes, result, err := Document(context.Background(), doc, false, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Parsed)
	assert.Equal(t, "Brill", outcomes[0].Result.Citation.Publisher)

	_, result, err = Document(context.Background(), doc, true, Options{})
	require.NoError(t, err)
	assert.Equal(t, BatchResult{Parsed: 1, Failed: 1}, result)
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.xml")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, nil, func(context.Context) error {
			calls.Add(1)
			return nil
		})
	}()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 20*time.Millisecond)
	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("two"), 0o644))
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
