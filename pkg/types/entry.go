// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// EntryKind classifies a directory entry.
type EntryKind string

const (
	KindDirectory   EntryKind = "directory"
	KindImage       EntryKind = "image"
	KindPDF         EntryKind = "pdf"
	KindDocument    EntryKind = "document"
	KindText        EntryKind = "text"
	KindUnsupported EntryKind = "unsupported"
)

// IsLeaf reports whether the kind is anything other than a directory.
func (k EntryKind) IsLeaf() bool {
	return k != KindDirectory
}

// DirectoryEntry is a path found by listing a directory, together with its
// classification. It is derived on demand and never persisted.
type DirectoryEntry struct {
	// Path is the full filesystem path of the entry.
	Path string `json:"path" yaml:"path"`

	// Name is the base name as returned by the directory listing.
	Name string `json:"name" yaml:"name"`

	Kind EntryKind `json:"kind" yaml:"kind"`
}
