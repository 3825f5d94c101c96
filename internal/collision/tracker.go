// Package collision detects chain files that share the same content digest.
package collision

import (
	"fmt"

	"github.com/arloliu/chainsum/errs"
)

// Duplicate is a file whose digest matches an earlier tracked file.
type Duplicate struct {
	File     string
	Original string
	Digest   uint64
}

// Tracker maps file digests to the first file seen with that digest.
// Two chains with identical bytes usually mean a copied file, which would
// double-count its samples in the pool.
type Tracker struct {
	files      map[uint64]string
	names      map[string]bool
	duplicates []Duplicate
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		files: make(map[uint64]string),
		names: make(map[string]bool),
	}
}

// Track records file with its digest.
// Returns errs.ErrDuplicateChain if the same file name is tracked twice.
//
// A different file with a known digest is not an error; it is recorded and
// reported by Duplicates.
func (t *Tracker) Track(file string, digest uint64) error {
	if t.names[file] {
		return fmt.Errorf("%w: %s tracked twice", errs.ErrDuplicateChain, file)
	}
	t.names[file] = true

	if original, exists := t.files[digest]; exists {
		t.duplicates = append(t.duplicates, Duplicate{File: file, Original: original, Digest: digest})
		return nil
	}
	t.files[digest] = file

	return nil
}

// HasDuplicates reports whether any two tracked files share a digest.
func (t *Tracker) HasDuplicates() bool {
	return len(t.duplicates) > 0
}

// Duplicates returns the duplicate files in tracking order.
func (t *Tracker) Duplicates() []Duplicate {
	return t.duplicates
}

// Count returns the number of tracked files.
func (t *Tracker) Count() int {
	return len(t.names)
}
