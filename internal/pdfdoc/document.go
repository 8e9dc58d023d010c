// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfdoc holds in-memory page documents. A Document is an ordered
// list of validated PDF segments; appending moves segments from one document
// to another and the actual merge happens once, when the document is saved.
package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pdiddy/alltopdf/internal/fileutil"
)

// ErrEmptyDocument is returned by Save and Bytes when the document has no pages.
var ErrEmptyDocument = errors.New("document has no pages")

func init() {
	// pdfcpu otherwise creates a config directory under the user's home.
	api.DisableConfigDir()
}

// segment is one imported PDF kept verbatim.
type segment struct {
	source string
	data   []byte
	pages  int
}

// Document is an ordered sequence of pages. The zero value is an empty
// document ready for use. A Document is owned by one goroutine at a time.
type Document struct {
	segments []segment
}

// New returns an empty document.
func New() *Document {
	return &Document{}
}

// FromBytes parses data as a PDF and returns a document holding its pages
// verbatim. source names the origin in error messages.
func FromBytes(source string, data []byte) (*Document, error) {
	pages, err := countPages(data)
	if err != nil {
		return nil, fmt.Errorf("reading PDF %s: %w", source, err)
	}
	d := New()
	if pages > 0 {
		d.segments = append(d.segments, segment{source: source, data: data, pages: pages})
	}
	return d, nil
}

// FromFile reads the PDF at path and imports its pages verbatim.
func FromFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return FromBytes(path, data)
}

// mergeConfig returns the pdfcpu configuration shared by import validation
// and Bytes, so a segment accepted here is accepted again when merged.
func mergeConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.Cmd = model.MERGECREATE
	conf.ValidationMode = model.ValidationRelaxed
	conf.CreateBookmarks = false
	return conf
}

// countPages reads and validates data the way the merge does and returns
// its page count.
func countPages(data []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()
	ctx, err := api.ReadAndValidate(bytes.NewReader(data), mergeConfig())
	if err != nil {
		return 0, err
	}
	return ctx.PageCount, nil
}

// Append moves all pages of src to the end of d, preserving their order.
// src is left empty and must not be reused.
func (d *Document) Append(src *Document) {
	if src == nil || src == d {
		return
	}
	d.segments = append(d.segments, src.segments...)
	src.segments = nil
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	n := 0
	for _, s := range d.segments {
		n += s.pages
	}
	return n
}

// Sources returns the origin of each segment in page order.
func (d *Document) Sources() []string {
	out := make([]string, len(d.segments))
	for i, s := range d.segments {
		out[i] = s.source
	}
	return out
}

// Label sets the origin reported by Sources for every segment of d. It is
// used when pages were produced from an intermediate file.
func (d *Document) Label(source string) {
	for i := range d.segments {
		d.segments[i].source = source
	}
}

// Bytes merges all segments into a single PDF. A document made of one
// segment is returned byte for byte.
func (d *Document) Bytes() ([]byte, error) {
	switch len(d.segments) {
	case 0:
		return nil, ErrEmptyDocument
	case 1:
		return d.segments[0].data, nil
	}

	rsc := make([]io.ReadSeeker, len(d.segments))
	for i, s := range d.segments {
		rsc[i] = bytes.NewReader(s.data)
	}
	var buf bytes.Buffer
	if err := api.MergeRaw(rsc, &buf, false, mergeConfig()); err != nil {
		return nil, fmt.Errorf("merging %d segments: %w", len(d.segments), err)
	}
	return buf.Bytes(), nil
}

// Save writes the document to path atomically. It fails with
// ErrEmptyDocument when there are no pages, leaving path untouched.
func (d *Document) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	return fileutil.AtomicWrite(path, data)
}
