// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify decides what kind of entry a path found in a directory
// listing is. The filename suffix is the only signal for files; contents are
// never inspected.
package classify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/alltopdf/pkg/types"
)

// suffixKinds maps lower-cased extensions (without the dot) to entry kinds.
var suffixKinds = map[string]types.EntryKind{
	"jpg":  types.KindImage,
	"jpeg": types.KindImage,
	"png":  types.KindImage,
	"gif":  types.KindImage,
	"pdf":  types.KindPDF,
	"doc":  types.KindDocument,
	"docx": types.KindDocument,
	"txt":  types.KindText,
}

// Classify stats path and returns its entry. Directories are reported as
// such without further inspection; files are classified by KindOf.
func Classify(path string) (types.DirectoryEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return types.DirectoryEntry{}, fmt.Errorf("classifying %s: %w", path, err)
	}
	name := filepath.Base(path)
	if info.IsDir() {
		return types.DirectoryEntry{Path: path, Name: name, Kind: types.KindDirectory}, nil
	}
	return types.DirectoryEntry{Path: path, Name: name, Kind: KindOf(name)}, nil
}

// KindOf classifies a file name by its suffix, ignoring case.
func KindOf(name string) types.EntryKind {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if kind, ok := suffixKinds[ext]; ok {
		return kind
	}
	return types.KindUnsupported
}
