// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report accumulates the counters and the tree trace of one run.
// A Report is safe for concurrent use so sibling entries may be processed
// in parallel.
package report

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.yaml.in/yaml/v3"
)

// Status is the outcome shown for one traced entry.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusFolder  Status = "folder"
	StatusSkipped Status = "skipped"
)

// Line is one entry of the tree trace.
type Line struct {
	Depth  int    `yaml:"depth"`
	Name   string `yaml:"name"`
	Status Status `yaml:"status"`
	Detail string `yaml:"detail,omitempty"`
}

// String renders the line indented by depth.
func (l Line) String() string {
	var b strings.Builder
	b.WriteString(strings.Repeat("│   ", l.Depth))
	b.WriteString("├── ")
	b.WriteString(l.Name)
	switch l.Status {
	case StatusFolder:
		b.WriteString("/")
	case StatusOK:
	default:
		fmt.Fprintf(&b, " [%s]", l.Status)
	}
	if l.Detail != "" {
		fmt.Fprintf(&b, " (%s)", l.Detail)
	}
	return b.String()
}

// Failure records one failed entry or folder.
type Failure struct {
	Name  string `yaml:"name"`
	Kind  string `yaml:"kind"`
	Cause string `yaml:"cause"`
}

// FolderResult records the outcome of one top-level folder.
// Sources lists the input files whose pages were written, in page order.
type FolderResult struct {
	Name    string   `yaml:"name"`
	Output  string   `yaml:"output,omitempty"`
	Pages   int      `yaml:"pages"`
	Error   string   `yaml:"error,omitempty"`
	Sources []string `yaml:"sources,omitempty"`
}

// Summary holds the two totals printed at the end of a run.
type Summary struct {
	TotalVisited int `yaml:"total_visited"`
	ErrorCount   int `yaml:"error_count"`
}

// Report is the mutable state of one run.
type Report struct {
	started time.Time
	visited atomic.Int64
	errors  atomic.Int64

	mu       sync.Mutex
	trace    []Line
	failures []Failure
	folders  []FolderResult
}

// New returns an empty report stamped with the current time.
func New() *Report {
	return &Report{started: time.Now()}
}

// Started returns when the report was created.
func (r *Report) Started() time.Time { return r.started }

// RecordVisit counts one visited entry.
func (r *Report) RecordVisit() {
	r.visited.Add(1)
}

// RecordFailure counts one error and keeps its details.
func (r *Report) RecordFailure(name, kind string, cause error) {
	r.errors.Add(1)
	f := Failure{Name: name, Kind: kind}
	if cause != nil {
		f.Cause = cause.Error()
	}
	r.mu.Lock()
	r.failures = append(r.failures, f)
	r.mu.Unlock()
}

// Trace appends a line to the tree trace and returns it.
func (r *Report) Trace(depth int, name string, status Status, detail string) Line {
	l := Line{Depth: depth, Name: name, Status: status, Detail: detail}
	r.mu.Lock()
	r.trace = append(r.trace, l)
	r.mu.Unlock()
	return l
}

// RecordFolder keeps the result of one top-level folder.
func (r *Report) RecordFolder(res FolderResult) {
	r.mu.Lock()
	r.folders = append(r.folders, res)
	r.mu.Unlock()
}

// Summary returns the current totals.
func (r *Report) Summary() Summary {
	return Summary{
		TotalVisited: int(r.visited.Load()),
		ErrorCount:   int(r.errors.Load()),
	}
}

// Lines returns a copy of the trace.
func (r *Report) Lines() []Line {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Line(nil), r.trace...)
}

// Failures returns a copy of the recorded failures.
func (r *Report) Failures() []Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Failure(nil), r.failures...)
}

// Folders returns a copy of the per-folder results.
func (r *Report) Folders() []FolderResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]FolderResult(nil), r.folders...)
}

// document is the YAML form of a report.
type document struct {
	Started  time.Time      `yaml:"started"`
	Summary  Summary        `yaml:"summary"`
	Folders  []FolderResult `yaml:"folders"`
	Failures []Failure      `yaml:"failures,omitempty"`
	Trace    []Line         `yaml:"trace"`
}

// MarshalYAML implements yaml.Marshaler.
func (r *Report) MarshalYAML() (any, error) {
	return document{
		Started:  r.started,
		Summary:  r.Summary(),
		Folders:  r.Folders(),
		Failures: r.Failures(),
		Trace:    r.Lines(),
	}, nil
}

// WriteYAML writes the report to path.
func (r *Report) WriteYAML(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
