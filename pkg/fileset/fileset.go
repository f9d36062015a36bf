// Package fileset keeps the ordered, duplicate-free list of documents that
// will be combined. The order of the set is the order of the output.
package fileset

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrIndexOutOfRange is returned when a position does not address an entry.
var ErrIndexOutOfRange = errors.New("index out of range")

// Set is an ordered sequence of file paths, unique by path value.
// The zero value is an empty set ready for use.
type Set struct {
	entries []string
}

// New returns a set holding paths, duplicates dropped.
func New(paths ...string) *Set {
	s := &Set{}
	s.Add(paths...)
	return s
}

// Add appends every path not already present, in input order, and reports
// how many were added. Duplicates and empty strings are skipped.
func (s *Set) Add(paths ...string) int {
	added := 0
	for _, p := range paths {
		if p == "" || s.Contains(p) {
			continue
		}
		s.entries = append(s.entries, p)
		added++
	}
	return added
}

// RemoveAt deletes the entry at i and returns it.
func (s *Set) RemoveAt(i int) (string, error) {
	if err := s.check(i); err != nil {
		return "", err
	}
	removed := s.entries[i]
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return removed, nil
}

// Move takes the entry at from and reinserts it at to. The destination is
// interpreted against the sequence after the entry has been removed, so
// Move(0, Len()-1) sends the first entry to the end.
func (s *Set) Move(from, to int) error {
	if err := s.check(from); err != nil {
		return err
	}
	if err := s.check(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	moved := s.entries[from]
	if from < to {
		copy(s.entries[from:to], s.entries[from+1:to+1])
	} else {
		copy(s.entries[to+1:from+1], s.entries[to:from])
	}
	s.entries[to] = moved
	return nil
}

// Clear empties the set.
func (s *Set) Clear() {
	s.entries = nil
}

// Len returns the number of entries.
func (s *Set) Len() int {
	return len(s.entries)
}

// At returns the entry at i.
func (s *Set) At(i int) (string, error) {
	if err := s.check(i); err != nil {
		return "", err
	}
	return s.entries[i], nil
}

// Index returns the position of path, or -1.
func (s *Set) Index(path string) int {
	for i, e := range s.entries {
		if e == path {
			return i
		}
	}
	return -1
}

// Contains reports whether path is in the set.
func (s *Set) Contains(path string) bool {
	return s.Index(path) >= 0
}

// Entries returns a copy of the paths in order.
func (s *Set) Entries() []string {
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

// Names returns the display name of each entry in order.
func (s *Set) Names() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = DisplayName(e)
	}
	return out
}

// DisplayName is the final element of path.
func DisplayName(path string) string {
	return filepath.Base(path)
}

func (s *Set) check(i int) error {
	if i < 0 || i >= len(s.entries) {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, len(s.entries))
	}
	return nil
}
