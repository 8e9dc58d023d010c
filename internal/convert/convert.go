// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns one leaf file into an in-memory PDF document.
//
// Every file is its own failure domain: Convert never returns an error and
// never panics past its boundary. It resolves to an Outcome holding either
// the produced pages or a cause classified as ErrUnsupportedFormat,
// ErrDecode or ErrConversionService.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pdiddy/alltopdf/internal/docx"
	"github.com/pdiddy/alltopdf/internal/pdfdoc"
	"github.com/pdiddy/alltopdf/internal/raster"
	"github.com/pdiddy/alltopdf/pkg/types"
)

var (
	// ErrUnsupportedFormat marks files whose suffix is not handled.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrDecode marks files that could not be read or parsed.
	ErrDecode = errors.New("decode failure")
	// ErrConversionService marks failures of the document conversion service,
	// including a missing or unusable template.
	ErrConversionService = errors.New("conversion service failure")
)

// DocumentService converts a word-processor document to PDF. office.Soffice
// and office.Container implement it.
type DocumentService interface {
	ToPDF(ctx context.Context, src, dst string) error
}

// Outcome is the result of converting one file.
type Outcome struct {
	Entry types.DirectoryEntry
	Doc   *pdfdoc.Document
	Err   error
}

// OK reports whether the conversion produced a document.
func (o Outcome) OK() bool {
	return o.Err == nil && o.Doc != nil
}

// Kind names the failure class, or "" for a success.
func (o Outcome) Kind() string {
	return KindOf(o.Err)
}

// KindOf names the failure class of err.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrConversionService):
		return "conversion_service"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "other"
	}
}

// Options configures a Converter.
type Options struct {
	// TempDir receives scratch files. It is created on first use.
	TempDir string
	// Template is the .docx used for plain-text files.
	Template string
	// Image controls raster normalization.
	Image raster.Options
	// RewriteSource re-encodes images over the source file instead of a
	// scratch copy.
	RewriteSource bool
	// Timeout limits each call to the document service. Zero means none.
	Timeout time.Duration
	// KeepScratch leaves intermediate files in TempDir.
	KeepScratch bool
}

// Converter dispatches leaf files to the matching conversion path.
type Converter struct {
	service DocumentService
	opts    Options
}

// New creates a converter. service may be nil, in which case documents and
// text files fail with ErrConversionService.
func New(service DocumentService, opts Options) *Converter {
	return &Converter{service: service, opts: opts}
}

// Convert converts entry. It is safe to call concurrently.
func (c *Converter) Convert(ctx context.Context, entry types.DirectoryEntry) (out Outcome) {
	out.Entry = entry
	defer func() {
		if r := recover(); r != nil {
			out.Doc = nil
			out.Err = fmt.Errorf("%s: %w: panic: %v", entry.Name, ErrDecode, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		out.Err = fmt.Errorf("%s: %w", entry.Name, err)
		return out
	}

	var (
		doc *pdfdoc.Document
		err error
	)
	switch entry.Kind {
	case types.KindImage:
		doc, err = c.image(entry)
	case types.KindPDF:
		doc, err = c.pdf(entry)
	case types.KindDocument:
		doc, err = c.document(ctx, entry)
	case types.KindText:
		doc, err = c.text(ctx, entry)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(entry.Name))
	}
	if err != nil {
		out.Err = fmt.Errorf("%s: %w", entry.Name, err)
		return out
	}
	doc.Label(entry.Path)
	out.Doc = doc
	return out
}

func (c *Converter) image(entry types.DirectoryEntry) (*pdfdoc.Document, error) {
	dst := entry.Path
	if !c.opts.RewriteSource {
		var err error
		if dst, err = c.scratch(entry, ".jpg"); err != nil {
			return nil, err
		}
		defer c.cleanup(dst)
	}
	if _, err := raster.Normalize(entry.Path, dst, c.opts.Image); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	doc, err := pdfdoc.FromImageFile(dst)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return doc, nil
}

func (c *Converter) pdf(entry types.DirectoryEntry) (*pdfdoc.Document, error) {
	doc, err := pdfdoc.FromFile(entry.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return doc, nil
}

func (c *Converter) document(ctx context.Context, entry types.DirectoryEntry) (*pdfdoc.Document, error) {
	return c.viaService(ctx, entry, entry.Path)
}

func (c *Converter) text(ctx context.Context, entry types.DirectoryEntry) (*pdfdoc.Document, error) {
	raw, err := os.ReadFile(entry.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	content := normalizeText(raw)

	docPath, err := c.scratch(entry, ".docx")
	if err != nil {
		return nil, err
	}
	defer c.cleanup(docPath)
	if err := docx.Build(c.opts.Template, content, docPath); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConversionService, err)
	}
	return c.viaService(ctx, entry, docPath)
}

// viaService converts src with the document service into a scratch PDF and
// imports its pages verbatim.
func (c *Converter) viaService(ctx context.Context, entry types.DirectoryEntry, src string) (*pdfdoc.Document, error) {
	if c.service == nil {
		return nil, fmt.Errorf("%w: no document service configured", ErrConversionService)
	}
	dst, err := c.scratch(entry, ".pdf")
	if err != nil {
		return nil, err
	}
	defer c.cleanup(dst)

	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}
	if err := c.service.ToPDF(ctx, src, dst); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConversionService, err)
	}
	doc, err := pdfdoc.FromFile(dst)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConversionService, err)
	}
	return doc, nil
}

// scratch returns a unique path in the temp directory for an intermediate
// artifact derived from entry.
func (c *Converter) scratch(entry types.DirectoryEntry, ext string) (string, error) {
	dir := c.opts.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: creating temp directory %s: %w", ErrConversionService, dir, err)
	}
	stem := strings.TrimSuffix(entry.Name, filepath.Ext(entry.Name))
	return filepath.Join(dir, uuid.New().String()+"-"+stem+ext), nil
}

func (c *Converter) cleanup(path string) {
	if !c.opts.KeepScratch {
		os.Remove(path)
	}
}

// normalizeText prepares file contents for the template: a leading byte
// order mark is dropped and invalid UTF-8 is replaced.
func normalizeText(raw []byte) string {
	s := strings.TrimPrefix(string(raw), "\ufeff")
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "\uFFFD")
	}
	return s
}
