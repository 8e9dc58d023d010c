// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package order

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "numeric runs compare by value",
			input: []string{"img2.png", "img10.png", "img1.png"},
			want:  []string{"img1.png", "img2.png", "img10.png"},
		},
		{
			name:  "deny list filtered",
			input: []string{".DS_Store", "a.txt", "Thumbs.db"},
			want:  []string{"a.txt"},
		},
		{
			name:  "deny list is case sensitive",
			input: []string{"thumbs.db", "Thumbs.db"},
			want:  []string{"thumbs.db"},
		},
		{
			name:  "chapters",
			input: []string{"Chapter 10", "Chapter 9", "Appendix", "Chapter 1"},
			want:  []string{"Appendix", "Chapter 1", "Chapter 9", "Chapter 10"},
		},
		{
			name:  "empty",
			input: nil,
			want:  []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Order(tt.input))
		})
	}
}

func TestOrderLeadingZerosIsDeterministic(t *testing.T) {
	want := []string{"x001", "x01", "x1", "y"}
	for _, in := range [][]string{
		{"x1", "x01", "x001", "y"},
		{"x001", "x1", "y", "x01"},
		{"y", "x01", "x1", "x001"},
		{"x01", "y", "x001", "x1"},
	} {
		assert.Equal(t, want, Order(in), "input %v", in)
	}
}

func TestLessIsStrict(t *testing.T) {
	for _, pair := range [][2]string{{"a", "a"}, {"a01", "a1"}, {"1", "01"}, {"img2", "img10"}} {
		a, b := pair[0], pair[1]
		assert.False(t, less(a, b) && less(b, a), "%q and %q both less", a, b)
	}
	assert.False(t, less("a", "a"))
	assert.True(t, less("img2", "img10"))
	assert.True(t, less("01", "1"))
}

func TestOrderDoesNotModifyInput(t *testing.T) {
	in := []string{"b10", "b2", ".DS_Store"}
	_ = Order(in)
	assert.Equal(t, []string{"b10", "b2", ".DS_Store"}, in)
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"p10.txt", "p2.txt", ".DS_Store"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "p1"), 0o755))

	got, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2.txt", "p10.txt"}, got)

	_, err = List(filepath.Join(dir, "nope"))
	assert.Error(t, err)
}
