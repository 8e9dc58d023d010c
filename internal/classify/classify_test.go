// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/alltopdf/pkg/types"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		want types.EntryKind
	}{
		{"photo.jpg", types.KindImage},
		{"photo.JPEG", types.KindImage},
		{"scan.Png", types.KindImage},
		{"anim.gif", types.KindImage},
		{"paper.pdf", types.KindPDF},
		{"PAPER.PDF", types.KindPDF},
		{"letter.doc", types.KindDocument},
		{"letter.docx", types.KindDocument},
		{"notes.txt", types.KindText},
		{"sheet.xlsx", types.KindUnsupported},
		{"README", types.KindUnsupported},
		{"archive.tar.gz", types.KindUnsupported},
		{".hidden", types.KindUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.name))
		})
	}
}

func TestClassify(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "chapter.pdf")
	require.NoError(t, os.Mkdir(sub, 0o755))
	file := filepath.Join(dir, "1.txt")
	require.NoError(t, os.WriteFile(file, []byte("hi"), 0o644))

	entry, err := Classify(sub)
	require.NoError(t, err)
	assert.Equal(t, types.KindDirectory, entry.Kind, "directories win over a .pdf suffix")
	assert.Equal(t, "chapter.pdf", entry.Name)

	entry, err = Classify(file)
	require.NoError(t, err)
	assert.Equal(t, types.KindText, entry.Kind)
	assert.Equal(t, file, entry.Path)

	_, err = Classify(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
