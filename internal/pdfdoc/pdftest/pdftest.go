// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftest builds small PDF and image fixtures for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// PDF returns a valid A4 PDF with the given number of pages. Each page
// carries its label and page number.
func PDF(t *testing.T, label string, pages int) []byte {
	t.Helper()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 14)
	for i := 1; i <= pages; i++ {
		pdf.AddPage()
		pdf.Cell(40, 10, fmt.Sprintf("%s page %d", label, i))
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("building fixture PDF: %v", err)
	}
	return buf.Bytes()
}

var mediaBox = regexp.MustCompile(`/MediaBox \[0 0 [0-9.]+ [0-9.]+\]`)

// MalformedPDF returns a PDF that parses and has a readable page tree but
// whose MediaBox holds three numbers instead of four. Replacements keep the
// byte length, so the cross-reference offsets stay valid.
func MalformedPDF(t *testing.T, label string, pages int) []byte {
	t.Helper()
	data := PDF(t, label, pages)
	n := 0
	data = mediaBox.ReplaceAllFunc(data, func(m []byte) []byte {
		n++
		bad := []byte("/MediaBox [0 0 612")
		bad = append(bad, bytes.Repeat([]byte(" "), len(m)-len(bad)-1)...)
		return append(bad, ']')
	})
	if n == 0 {
		t.Fatal("fixture PDF has no MediaBox to corrupt")
	}
	return data
}

// WritePDF writes a fixture PDF with the given page count to dir/name.
func WritePDF(t *testing.T, dir, name string, pages int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, PDF(t, name, pages), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// WritePNG writes a w x h PNG with a translucent gradient to dir/name.
func WritePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 200})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// WriteFile writes arbitrary bytes to dir/name, creating dir if needed.
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
