// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/alltopdf/internal/pdfdoc/pdftest"
)

func TestFromBytes(t *testing.T) {
	doc, err := FromBytes("three.pdf", pdftest.PDF(t, "three", 3))
	require.NoError(t, err)
	assert.Equal(t, 3, doc.PageCount())
	assert.Equal(t, []string{"three.pdf"}, doc.Sources())

	_, err = FromBytes("junk.pdf", []byte("this is not a pdf"))
	assert.Error(t, err)

	_, err = FromBytes("empty.pdf", nil)
	assert.Error(t, err)
}

func TestFromBytesRejectsWhatMergeRejects(t *testing.T) {
	_, err := FromBytes("bad.pdf", pdftest.MalformedPDF(t, "bad", 2))
	require.Error(t, err, "a PDF the merge cannot take fails at import")
	assert.Contains(t, err.Error(), "bad.pdf")
}

func TestSaveAfterRejectedImport(t *testing.T) {
	acc := New()
	for i, data := range [][]byte{
		pdftest.PDF(t, "good", 3),
		pdftest.MalformedPDF(t, "bad", 1),
		pdftest.PDF(t, "tail", 1),
	} {
		d, err := FromBytes("part", data)
		if i == 1 {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		acc.Append(d)
	}

	out := filepath.Join(t.TempDir(), "merged.pdf")
	require.NoError(t, acc.Save(out))
	merged, err := FromFile(out)
	require.NoError(t, err)
	assert.Equal(t, 4, merged.PageCount())
}

func TestLabel(t *testing.T) {
	doc, err := FromBytes("/tmp/scratch-1234.pdf", pdftest.PDF(t, "x", 2))
	require.NoError(t, err)
	doc.Label("notes.txt")
	assert.Equal(t, []string{"notes.txt"}, doc.Sources())
	assert.Equal(t, 2, doc.PageCount())
}

func TestAppendTransfersOwnership(t *testing.T) {
	a, err := FromBytes("a", pdftest.PDF(t, "a", 2))
	require.NoError(t, err)
	b, err := FromBytes("b", pdftest.PDF(t, "b", 1))
	require.NoError(t, err)

	acc := New()
	acc.Append(a)
	acc.Append(b)
	acc.Append(nil)
	acc.Append(acc)

	assert.Equal(t, 3, acc.PageCount())
	assert.Equal(t, []string{"a", "b"}, acc.Sources())
	assert.Zero(t, a.PageCount(), "appended source is emptied")
	assert.Zero(t, b.PageCount())
}

func TestSaveSingleSegmentIsVerbatim(t *testing.T) {
	src := pdftest.PDF(t, "only", 4)
	doc, err := FromBytes("only.pdf", src)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out", "Folder.pdf")
	require.NoError(t, doc.Save(out))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(src, got))
}

func TestSaveMergesInOrder(t *testing.T) {
	acc := New()
	for _, n := range []int{2, 3, 1} {
		d, err := FromBytes("part", pdftest.PDF(t, "part", n))
		require.NoError(t, err)
		acc.Append(d)
	}

	out := filepath.Join(t.TempDir(), "merged.pdf")
	require.NoError(t, acc.Save(out))

	merged, err := FromFile(out)
	require.NoError(t, err)
	assert.Equal(t, 6, merged.PageCount())
}

func TestSaveEmpty(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.pdf")
	err := New().Save(out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyDocument))

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no file is written for an empty document")
}

func TestFromImageFile(t *testing.T) {
	dir := t.TempDir()
	path := pdftest.WritePNG(t, dir, "pic.png", 40, 20)

	doc, err := FromImageFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.PageCount())

	bad := pdftest.WriteFile(t, dir, "bad.png", []byte("not an image"))
	_, err = FromImageFile(bad)
	assert.Error(t, err)
}
