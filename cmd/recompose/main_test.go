// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/recompose/internal/catalog"
	"github.com/pdiddy/recompose/internal/output"
	"github.com/pdiddy/recompose/internal/process"
	"github.com/pdiddy/recompose/pkg/types"
)

const booksBody = `<w:body>
<w:p><w:r><w:t>Books Received</w:t></w:r></w:p>
<w:p>
<w:r><w:t xml:space="preserve">Hockey, Katherine M., and David G. Horrell (eds), </w:t></w:r>
<w:r><w:rPr><w:i/></w:rPr><w:t>Ethos in Early Christianity.</w:t></w:r>
<w:r><w:t xml:space="preserve"> Brill, Leiden, 2018. xiii, 240 pp. €94.00. ISBN 978 9 00434 447 1.</w:t></w:r>
</w:p>
<w:p>
<w:r><w:t xml:space="preserve">Berthelot, Katell, Michaël Langlois and Thierry Legrand, </w:t></w:r>
<w:r><w:rPr><w:i/></w:rPr><w:t>The Dead Sea Scrolls.</w:t></w:r>
<w:r><w:t xml:space="preserve"> Brill, Leiden, 2018. xiii, 240 pp. €94.00. ISBN 978 9 00434 447 1.</w:t></w:r>
</w:p>
<w:p>
<w:r><w:t xml:space="preserve">Pre </w:t></w:r>
<w:r><w:rPr><w:i/></w:rPr><w:t>Title</w:t></w:r>
<w:r><w:t xml:space="preserve"> mid </w:t></w:r>
<w:r><w:rPr><w:i/></w:rPr><w:t>More</w:t></w:r>
</w:p>
</w:body>`

func writeBooks(t *testing.T, dir, name, body string) string {
	t.Helper()
	content := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<?mso-application progid="Word.Document"?>
<w:wordDocument xmlns:w="http://schemas.microsoft.com/office/word/2003/wordml">` + body + `</w:wordDocument>
`
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		configured, path string
		want             types.OutputFormat
	}{
		{"", "output.xml", types.OutputXML},
		{"", "books.json.xz", types.OutputJSON},
		{"", "books.out", types.OutputXML},
		{"bibtex", "books.json", types.OutputBibTeX},
	}
	for _, tt := range tests {
		got, err := resolveFormat(tt.configured, tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
	_, err := resolveFormat("pdf", "books.json")
	assert.ErrorIs(t, err, output.ErrUnknownFormat)
}

func TestParseDocument(t *testing.T) {
	dir := t.TempDir()
	input := writeBooks(t, dir, "books.xml", booksBody)
	outPath := filepath.Join(dir, "out", "books.json")

	var progress bytes.Buffer
	cfg := types.ParseConfig{PreviewLength: process.DefaultPreviewLength, IncludeReports: true}
	result, err := parseDocument(context.Background(), &progress, input, outPath, types.OutputJSON, cfg)
	require.NoError(t, err)
	assert.Equal(t, process.BatchResult{Parsed: 1, Partial: 1, Failed: 1}, result)
	assert.Contains(t, progress.String(), "Batch summary: 1 parsed, 1 partial, 1 failed (total: 3)")
	assert.Contains(t, progress.String(), "Wrote 2 records to")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.NoError(t, output.Validate(data))

	var got output.Catalogue
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "books.xml", got.Source)
	require.Len(t, got.Records, 2)
	assert.Equal(t, []string{"Katherine M. Hockey", "David G. Horrell"}, got.Records[0].Editors)
	assert.Equal(t, "The Dead Sea Scrolls", got.Records[1].Title)
	require.NotNil(t, got.Records[1].Validity)
	assert.False(t, got.Records[1].Validity.Authors)
}

func TestParseDocumentUnsuitable(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "notes.xml")
	require.NoError(t, os.WriteFile(input, []byte("<?xml version=\"1.0\"?>\n<notes/>\n"), 0o644))

	_, err := parseDocument(context.Background(), &bytes.Buffer{}, input, filepath.Join(dir, "out.xml"), types.OutputXML, types.ParseConfig{})
	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "out.xml"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCheckDocuments(t *testing.T) {
	dir := t.TempDir()
	good := writeBooks(t, dir, "books.xml", booksBody)
	tracked := writeBooks(t, dir, "tracked.xml", `<w:body><w:p><w:ins><w:r><w:t>new</w:t></w:r></w:ins></w:p></w:body>`)

	var out bytes.Buffer
	failed, err := checkDocuments(&out, []string{good, tracked})
	require.NoError(t, err)
	assert.Equal(t, 1, failed)
	assert.Contains(t, out.String(), "suitable:   "+good)
	assert.Contains(t, out.String(), "FAIL trackchanges")
	assert.Contains(t, out.String(), "tracked changes")

	_, err = checkDocuments(&out, []string{filepath.Join(dir, "missing.xml")})
	assert.Error(t, err)
}

func TestIngestDocuments(t *testing.T) {
	dir := t.TempDir()
	input := writeBooks(t, dir, "books.xml", booksBody)
	store, err := catalog.Open(types.CatalogConfig{Dir: filepath.Join(dir, "catalog")})
	require.NoError(t, err)
	defer store.Close()

	var out bytes.Buffer
	missing := filepath.Join(dir, "missing.xml")
	summary, err := ingestDocuments(context.Background(), &out, store, []string{input, missing}, types.ParseConfig{})
	require.NoError(t, err)
	assert.Equal(t, catalog.IngestSummary{Indexed: 1, Failed: 1, Records: 2}, summary)

	summary, err = ingestDocuments(context.Background(), &out, store, []string{input}, types.ParseConfig{})
	require.NoError(t, err)
	assert.Equal(t, catalog.IngestSummary{Skipped: 1}, summary)
	assert.Contains(t, out.String(), "skipped  "+input)

	entries, err := store.Search(context.Background(), catalog.Query{Author: "horrell"})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	var table bytes.Buffer
	require.NoError(t, formatSearchTable(&table, entries))
	assert.Contains(t, table.String(), "Ethos in Early Christianity")
	assert.Contains(t, table.String(), "1 results")
}

func TestFormatSearchTableEmpty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, formatSearchTable(&out, nil))
	assert.Equal(t, "No results found.\n", out.String())
}

func TestCell(t *testing.T) {
	assert.Equal(t, "ab  ", cell("ab", 4))
	assert.Equal(t, "a...", cell("abcdef", 4))
}
