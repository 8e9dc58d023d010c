// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package office

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/alltopdf/pkg/types"
)

// fakeLibreOffice mimics soffice: it writes <outdir>/<stem>.pdf.
func fakeLibreOffice(t *testing.T) func(string, []string) ([]byte, error) {
	return func(_ string, args []string) ([]byte, error) {
		outDir, src := "", args[len(args)-1]
		for i, a := range args {
			if a == "--outdir" {
				outDir = args[i+1]
			}
		}
		require.NotEmpty(t, outDir)
		stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		return nil, os.WriteFile(filepath.Join(outDir, stem+".pdf"), []byte("%PDF-1.4"), 0o644)
	}
}

func TestNewSoffice(t *testing.T) {
	s, err := newSoffice(&mockExecutor{availableBins: map[string]bool{"libreoffice": true}})
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/libreoffice", s.Name())

	_, err = newSoffice(&mockExecutor{})
	assert.Error(t, err)
}

func TestSofficeToPDF(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "letter.docx")
	require.NoError(t, os.WriteFile(src, []byte("docx"), 0o644))
	dst := filepath.Join(dir, "scratch", "abc-letter.pdf")

	exec := &mockExecutor{availableBins: map[string]bool{"soffice": true}, runFunc: fakeLibreOffice(t)}
	s, err := newSoffice(exec)
	require.NoError(t, err)

	require.NoError(t, s.ToPDF(context.Background(), src, dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	require.Len(t, exec.calls, 1)
	assert.Contains(t, exec.calls[0], "--headless")
	assert.Contains(t, exec.calls[0], "-env:UserInstallation=file://")

	entries, err := os.ReadDir(filepath.Dir(dst))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "conversion directory is removed")
}

func TestSofficeToPDFFailures(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.doc")
	require.NoError(t, os.WriteFile(src, []byte("doc"), 0o644))

	t.Run("tool error", func(t *testing.T) {
		exec := &mockExecutor{availableBins: map[string]bool{"soffice": true}}
		s, err := newSoffice(exec)
		require.NoError(t, err)
		err = s.ToPDF(context.Background(), src, filepath.Join(dir, "out.pdf"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("silent failure", func(t *testing.T) {
		exec := &mockExecutor{
			availableBins: map[string]bool{"soffice": true},
			runFunc:       func(string, []string) ([]byte, error) { return nil, nil },
		}
		s, err := newSoffice(exec)
		require.NoError(t, err)
		err = s.ToPDF(context.Background(), src, filepath.Join(dir, "out.pdf"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "produced no PDF")
	})
}

// fakeRuntime records Run calls and writes the expected output into the
// host side of the /out mount.
type fakeRuntime struct {
	imageErr error
	runErr   error
	args     []string
}

func (f *fakeRuntime) Name() string { return "docker" }
func (f *fakeRuntime) Available(context.Context) bool { return true }
func (f *fakeRuntime) ImageExists(context.Context, string) error { return f.imageErr }
func (f *fakeRuntime) Run(_ context.Context, _ string, mounts []Mount, args []string) error {
	f.args = args
	if f.runErr != nil {
		return f.runErr
	}
	src := args[len(args)-1]
	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	for _, m := range mounts {
		if m.Container == "/out" {
			return os.WriteFile(filepath.Join(m.Host, stem+".pdf"), []byte("%PDF"), 0o644)
		}
	}
	return errors.New("no /out mount")
}

func TestContainerToPDF(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "memo.doc")
	require.NoError(t, os.WriteFile(src, []byte("doc"), 0o644))

	rt := &fakeRuntime{}
	c, err := NewContainer(context.Background(), rt, "libreoffice:latest")
	require.NoError(t, err)
	assert.Equal(t, "docker libreoffice:latest", c.Name())

	dst := filepath.Join(dir, "out", "memo.pdf")
	require.NoError(t, c.ToPDF(context.Background(), src, dst))
	assert.FileExists(t, dst)
	assert.Equal(t, "/in/memo.doc", rt.args[len(rt.args)-1])

	_, err = NewContainer(context.Background(), &fakeRuntime{imageErr: errors.New("missing")}, "libreoffice:latest")
	assert.Error(t, err)

	failing, err := NewContainer(context.Background(), &fakeRuntime{runErr: errors.New("exit 1")}, "libreoffice:latest")
	require.NoError(t, err)
	assert.Error(t, failing.ToPDF(context.Background(), src, dst+".2"))
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(context.Background(), types.Backend("pandoc"), "")
	assert.Error(t, err)
}
