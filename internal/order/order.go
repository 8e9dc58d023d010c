// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package order produces the human-friendly ordering used at every level of
// the walk: OS housekeeping files are dropped, then names are sorted
// naturally so that numeric runs compare by value ("file2" before "file10").
package order

import (
	"fmt"
	"os"
	"sort"

	"github.com/facette/natsort"
)

// denyList holds OS artifact names that never take part in a merge. Matching
// is exact and case sensitive.
var denyList = map[string]bool{
	".DS_Store": true,
	"Thumbs.db": true,
}

// Denied reports whether name is an OS artifact to skip.
func Denied(name string) bool {
	return denyList[name]
}

// Order returns a new slice holding names without deny-listed entries, in
// natural order. The input slice is not modified.
func Order(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !Denied(n) {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

// less is natural order made strict: natsort.Compare reports true both ways
// for names that differ only in leading zeros ("a01", "a1") and for equal
// names. Such ties are broken bytewise.
func less(a, b string) bool {
	ab, ba := natsort.Compare(a, b), natsort.Compare(b, a)
	if ab != ba {
		return ab
	}
	return a < b
}

// List reads the immediate children of dir and returns their names in the
// order produced by Order.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return Order(names), nil
}
