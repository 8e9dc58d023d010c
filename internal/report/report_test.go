// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func TestCounters(t *testing.T) {
	r := New()
	r.RecordVisit()
	r.RecordVisit()
	r.RecordFailure("bad.png", "decode", errors.New("unexpected EOF"))

	assert.Equal(t, Summary{TotalVisited: 2, ErrorCount: 1}, r.Summary())
	require.Len(t, r.Failures(), 1)
	assert.Equal(t, Failure{Name: "bad.png", Kind: "decode", Cause: "unexpected EOF"}, r.Failures()[0])
}

func TestConcurrentRecording(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.RecordVisit()
			r.RecordFailure("x", "k", nil)
			r.Trace(1, "x", StatusFailed, "")
		}()
	}
	wg.Wait()

	assert.Equal(t, Summary{TotalVisited: 50, ErrorCount: 50}, r.Summary())
	assert.Len(t, r.Lines(), 50)
}

func TestLineString(t *testing.T) {
	tests := []struct {
		line Line
		want string
	}{
		{Line{Depth: 0, Name: "Scans", Status: StatusFolder}, "├── Scans/"},
		{Line{Depth: 1, Name: "a.pdf", Status: StatusOK}, "│   ├── a.pdf"},
		{Line{Depth: 2, Name: "x.xlsx", Status: StatusFailed, Detail: "unsupported format"}, "│   │   ├── x.xlsx [failed] (unsupported format)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.line.String())
		})
	}
}

func TestWriteYAML(t *testing.T) {
	r := New()
	r.RecordVisit()
	r.Trace(0, "a.txt", StatusOK, "")
	r.RecordFolder(FolderResult{Name: "A", Output: "out/A.pdf", Pages: 1})

	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, r.WriteYAML(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got struct {
		Summary Summary        `yaml:"summary"`
		Folders []FolderResult `yaml:"folders"`
		Trace   []Line         `yaml:"trace"`
	}
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, 1, got.Summary.TotalVisited)
	assert.Equal(t, "A", got.Folders[0].Name)
	assert.Equal(t, "a.txt", got.Trace[0].Name)
}
