// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readDocument returns word/document.xml from the .docx at path.
func readDocument(t *testing.T, path string) string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name != documentPart {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}
	t.Fatalf("%s not found in %s", documentPart, path)
	return ""
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	tpl := filepath.Join(dir, "template.docx")
	require.NoError(t, WriteDefault(tpl))

	dst := filepath.Join(dir, "scratch", "notes.docx")
	require.NoError(t, Build(tpl, "Fish & Chips <2>\nsecond line", dst))

	doc := readDocument(t, dst)
	assert.Equal(t, blankParagraphs, strings.Count(doc, "<w:p/>"))
	assert.Contains(t, doc, `<w:jc w:val="center"/>`)
	assert.Contains(t, doc, `<w:sz w:val="44"/>`)
	assert.Contains(t, doc, "Fish &amp; Chips &lt;2&gt;")
	assert.Contains(t, doc, "<w:br/>")
	assert.Contains(t, doc, `<w:pgSz w:w="11906" w:h="16838"/>`, "template page geometry is kept")
	assert.NotContains(t, doc, Placeholder)

	blank := strings.Index(doc, "<w:p/>")
	text := strings.Index(doc, "Fish")
	assert.Less(t, blank, text, "blank paragraphs precede the text")
}

func TestBuildPlaceholderSplitAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	tpl := filepath.Join(dir, "split.docx")
	writeTemplate(t, tpl, `<w:document xmlns:w="x"><w:body>`+
		`<w:p><w:r><w:t>Title</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t>Note: {con</w:t></w:r><w:r><w:t xml:space="preserve">tent}!</w:t></w:r></w:p>`+
		`</w:body></w:document>`)

	dst := filepath.Join(dir, "out.docx")
	require.NoError(t, Build(tpl, "hello", dst))

	doc := readDocument(t, dst)
	assert.Contains(t, doc, "Note: hello!")
	assert.NotContains(t, doc, "Title", "only the generated paragraphs remain")
}

func TestBuildErrors(t *testing.T) {
	dir := t.TempDir()

	err := Build(filepath.Join(dir, "missing.docx"), "x", filepath.Join(dir, "out.docx"))
	assert.Error(t, err)

	noPlaceholder := filepath.Join(dir, "plain.docx")
	writeTemplate(t, noPlaceholder, `<w:document xmlns:w="x"><w:body><w:p><w:r><w:t>nothing</w:t></w:r></w:p></w:body></w:document>`)
	err = Build(noPlaceholder, "x", filepath.Join(dir, "out.docx"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoPlaceholder))

	notZip := filepath.Join(dir, "notzip.docx")
	require.NoError(t, os.WriteFile(notZip, []byte("plain text"), 0o644))
	assert.Error(t, Build(notZip, "x", filepath.Join(dir, "out.docx")))
}

func TestWriteDefaultRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.docx")
	require.NoError(t, WriteDefault(path))
	assert.Error(t, WriteDefault(path))
}

func TestParagraphText(t *testing.T) {
	p := []byte(`<w:p><w:r><w:t>a &amp; </w:t></w:r><w:r><w:rPr/><w:t xml:space="preserve">b</w:t></w:r></w:p>`)
	assert.Equal(t, "a & b", ParagraphText(p))
}

func writeTemplate(t *testing.T, path, documentXML string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	zw := zip.NewWriter(f)
	w, err := zw.Create(documentPart)
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
}
