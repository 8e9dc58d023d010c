// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge walks a folder tree and composes one PDF per top-level
// folder.
//
// Entries are visited depth first in natural order. Subfolders are merged
// recursively and their pages land at the subfolder's position in the
// parent; leaf files are converted one at a time and a failed leaf
// contributes no pages without disturbing its siblings. With more than one
// worker, siblings are converted concurrently but appended by position, so
// the page order never depends on completion order.
package merge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/alltopdf/internal/classify"
	"github.com/pdiddy/alltopdf/internal/convert"
	"github.com/pdiddy/alltopdf/internal/fileutil"
	"github.com/pdiddy/alltopdf/internal/logger"
	"github.com/pdiddy/alltopdf/internal/order"
	"github.com/pdiddy/alltopdf/internal/pdfdoc"
	"github.com/pdiddy/alltopdf/internal/report"
	"github.com/pdiddy/alltopdf/pkg/types"
)

var (
	// ErrEmptyFolder marks a top-level folder that produced no pages.
	ErrEmptyFolder = errors.New("folder is empty")
	// ErrDepthExceeded marks a subfolder nested deeper than the configured limit.
	ErrDepthExceeded = errors.New("maximum folder depth exceeded")
)

// LeafConverter converts one non-directory entry. *convert.Converter
// implements it.
type LeafConverter interface {
	Convert(ctx context.Context, entry types.DirectoryEntry) convert.Outcome
}

// Options configures a Merger.
type Options struct {
	// Workers bounds concurrently processed siblings. Values below 2 keep
	// the walk sequential.
	Workers int
	// MaxDepth bounds nesting below a top-level folder, which is depth 0.
	MaxDepth int
}

// Merger merges folder trees. It is safe to reuse across folders of one run.
type Merger struct {
	conv   LeafConverter
	report *report.Report
	log    *logger.ConsoleLogger
	opts   Options
}

// New creates a merger that records into rep and logs to log.
func New(conv LeafConverter, rep *report.Report, log *logger.ConsoleLogger, opts Options) *Merger {
	if log == nil {
		log = logger.Discard()
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = types.DefaultConfig().MaxDepth
	}
	return &Merger{conv: conv, report: rep, log: log, opts: opts}
}

// Run merges every top-level folder of inputDir into outputDir/<folder>.pdf.
// Per-file and per-folder failures are recorded in the report and never
// returned. Run returns an error only when inputDir cannot be listed, the
// output directory cannot be locked, or ctx is canceled. A folder whose
// merge was interrupted is not written.
func (m *Merger) Run(ctx context.Context, inputDir, outputDir string) error {
	names, err := order.List(inputDir)
	if err != nil {
		return fmt.Errorf("reading input directory: %w", err)
	}

	lock, err := fileutil.LockDir(outputDir)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	for _, name := range names {
		if ctx.Err() != nil {
			break
		}
		path := filepath.Join(inputDir, name)
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			m.log.Warnf("skipping %s: not a folder", name)
			m.report.Trace(0, name, report.StatusSkipped, "not a folder")
			continue
		}
		m.MergeFolder(ctx, path, outputDir)
	}

	s := m.report.Summary()
	m.log.Print(fmt.Sprintf("Total items: %d", s.TotalVisited))
	m.log.Print(fmt.Sprintf("Errors: %d", s.ErrorCount))
	return ctx.Err()
}

// MergeFolder merges one top-level folder and persists the result as
// outputDir/<name>.pdf. A folder without pages is recorded as
// ErrEmptyFolder and no file is written. When ctx is canceled before the
// subtree is resolved nothing is written and any existing output is kept.
func (m *Merger) MergeFolder(ctx context.Context, dir, outputDir string) report.FolderResult {
	name := filepath.Base(dir)
	m.report.RecordVisit()
	m.log.Notice(m.report.Trace(0, name, report.StatusFolder, "").String())

	doc := m.MergeDir(ctx, dir, 0)
	res := report.FolderResult{Name: name}
	if err := ctx.Err(); err != nil {
		res.Error = fmt.Sprintf("%s: not written: %v", name, err)
		m.log.Warnf("%s", res.Error)
		return res
	}

	out := filepath.Join(outputDir, name+".pdf")
	if err := doc.Save(out); err != nil {
		kind := "save"
		if errors.Is(err, pdfdoc.ErrEmptyDocument) {
			err = ErrEmptyFolder
			kind = "empty_folder"
		}
		err = fmt.Errorf("%s: %w", name, err)
		m.report.RecordFailure(name, kind, err)
		m.log.Notice(fmt.Sprintf("ERR: %v", err))
		res.Error = err.Error()
	} else {
		res.Output = out
		res.Pages = doc.PageCount()
		res.Sources = doc.Sources()
		m.log.Notice(fmt.Sprintf("Saved %s (%d pages)", out, res.Pages))
	}
	m.report.RecordFolder(res)
	return res
}

// MergeDir returns the pages of every entry under dir, in natural
// depth-first pre-order. depth is the depth of dir itself.
func (m *Merger) MergeDir(ctx context.Context, dir string, depth int) *pdfdoc.Document {
	acc := pdfdoc.New()
	names, err := order.List(dir)
	if err != nil {
		m.fail(depth+1, filepath.Base(dir), "io", err)
		return acc
	}

	results := make([]*pdfdoc.Document, len(names))
	if m.opts.Workers < 2 {
		for i, name := range names {
			results[i] = m.visit(ctx, filepath.Join(dir, name), depth+1)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(m.opts.Workers)
		for i, name := range names {
			g.Go(func() error {
				results[i] = m.visit(ctx, filepath.Join(dir, name), depth+1)
				return nil
			})
		}
		g.Wait()
	}

	for _, r := range results {
		acc.Append(r)
	}
	return acc
}

// visit handles one entry at the given depth and returns its pages, or nil.
func (m *Merger) visit(ctx context.Context, path string, depth int) *pdfdoc.Document {
	m.report.RecordVisit()
	name := filepath.Base(path)

	entry, err := classify.Classify(path)
	if err != nil {
		m.fail(depth, name, "io", err)
		return nil
	}

	m.log.Tracef("%s: %s", entry.Path, entry.Kind)
	if !entry.Kind.IsLeaf() {
		if depth > m.opts.MaxDepth {
			m.fail(depth, name, "depth_exceeded", fmt.Errorf("%s: %w (%d)", name, ErrDepthExceeded, m.opts.MaxDepth))
			return nil
		}
		m.log.Notice(m.report.Trace(depth, name, report.StatusFolder, "").String())
		return m.MergeDir(ctx, path, depth)
	}

	out := m.conv.Convert(ctx, entry)
	if !out.OK() {
		cause := out.Err
		if cause == nil {
			cause = fmt.Errorf("%s: no pages produced", name)
		}
		m.fail(depth, name, out.Kind(), cause)
		return nil
	}
	m.log.Success(m.report.Trace(depth, name, report.StatusOK, "").String())
	m.log.Debugf("%s: %d page(s)", entry.Path, out.Doc.PageCount())
	return out.Doc
}

func (m *Merger) fail(depth int, name, kind string, cause error) {
	m.report.RecordFailure(name, kind, cause)
	m.log.Failure(m.report.Trace(depth, name, report.StatusFailed, kind).String())
	m.log.Debugf("%v", cause)
}
