// Package session holds the state behind the interactive front end: the
// ordered file set, the current selection and the combine busy flag. All
// user feedback goes through a Notifier.
package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"mdcombine/pkg/combine"
	"mdcombine/pkg/fileset"
)

// ErrBusy is returned while a combine is in flight.
var ErrBusy = errors.New("combine in progress")

// Level classifies a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Notifier shows status text and notifications to the user.
type Notifier interface {
	Status(msg string)
	Notify(level Level, title, msg string)
}

// Combiner writes the combined document.
type Combiner interface {
	Combine(ctx context.Context, entries []string, destination string) (combine.Result, error)
}

// Expander turns user-chosen paths into files, e.g. by searching directories.
type Expander interface {
	Expand(paths []string) ([]string, error)
}

// Options configures a Session.
type Options struct {
	DefaultExt string   // Appended to an output path without an extension.
	Expander   Expander // Optional; paths are used as given when nil.
}

// Session is one user's working list of documents.
type Session struct {
	mu       sync.Mutex
	files    fileset.Set
	selected int
	busy     bool

	combiner Combiner
	notifier Notifier
	opts     Options
	logger   *zap.Logger
}

// New returns an empty session and posts the initial status.
func New(c Combiner, n Notifier, opts Options, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		selected: -1,
		combiner: c,
		notifier: n,
		opts:     opts,
		logger:   logger,
	}
	n.Status("Ready")
	return s
}

// Entries returns the current paths in order.
func (s *Session) Entries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files.Entries()
}

// Names returns display names in order; this is what a view renders.
func (s *Session) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files.Names()
}

// Selected returns the selected position, or -1.
func (s *Session) Selected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Add appends paths that are not yet in the list. An empty selection does
// nothing.
func (s *Session) Add(paths []string) (int, error) {
	if len(paths) == 0 {
		return 0, nil
	}
	if s.opts.Expander != nil {
		expanded, err := s.opts.Expander.Expand(paths)
		if err != nil {
			s.notifier.Status(fmt.Sprintf("Error: %v", err))
			return 0, err
		}
		paths = expanded
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return 0, ErrBusy
	}
	added := s.files.Add(paths...)
	s.logger.Debug("Added files", zap.Int("added", added), zap.Int("total", s.files.Len()))
	s.notifier.Status(fmt.Sprintf("%d files loaded", s.files.Len()))
	return added, nil
}

// Select marks the entry at i as selected.
func (s *Session) Select(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.files.At(i); err != nil {
		return err
	}
	s.selected = i
	return nil
}

// RemoveSelected removes the selected entry. Without a selection it does
// nothing.
func (s *Session) RemoveSelected() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected < 0 {
		return nil
	}
	return s.removeLocked(s.selected)
}

// Remove removes the entry at i.
func (s *Session) Remove(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(i)
}

func (s *Session) removeLocked(i int) error {
	if s.busy {
		return ErrBusy
	}
	removed, err := s.files.RemoveAt(i)
	if err != nil {
		return err
	}
	s.selected = -1
	s.logger.Debug("Removed file", zap.String("file", removed), zap.Int("position", i))
	s.notifier.Status(fmt.Sprintf("%d files remaining", s.files.Len()))
	return nil
}

// Move drops the entry at from onto position to. Positions outside the list
// and drops onto the starting position are ignored, as with a drag that
// ends where it began.
func (s *Session) Move(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	n := s.files.Len()
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return nil
	}

	path, _ := s.files.At(from)
	if err := s.files.Move(from, to); err != nil {
		return err
	}
	s.selected = to
	s.notifier.Status(fmt.Sprintf("Moved '%s' to position %d", fileset.DisplayName(path), to+1))
	return nil
}

// Clear removes every entry.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.files.Clear()
	s.selected = -1
	s.notifier.Status("All files cleared")
	return nil
}

// Generate combines the current entries into destination. An empty
// destination means the user cancelled and nothing happens. Failures are
// reported through the Notifier and returned; the session stays usable.
func (s *Session) Generate(ctx context.Context, destination string) (combine.Result, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return combine.Result{}, ErrBusy
	}
	if s.files.Len() == 0 {
		s.mu.Unlock()
		s.notifier.Notify(LevelWarning, "No Files", "No markdown files have been added.")
		return combine.Result{}, combine.ErrEmptyInput
	}
	if destination == "" {
		s.mu.Unlock()
		return combine.Result{}, nil
	}
	entries := s.files.Entries()
	s.busy = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	destination = WithDefaultExt(destination, s.opts.DefaultExt)
	res, err := s.combiner.Combine(ctx, entries, destination)
	if err != nil {
		s.logger.Error("Failed to create combined file", zap.String("destination", destination), zap.Error(err))
		s.notifier.Status(fmt.Sprintf("Error: %v", err))
		s.notifier.Notify(LevelError, "Error", fmt.Sprintf("Failed to create combined file:\n%v", err))
		return combine.Result{}, err
	}

	s.notifier.Status(fmt.Sprintf("Successfully combined %d files to %s", res.Files, res.Destination))
	s.notifier.Notify(LevelInfo, "Success", fmt.Sprintf("Combined markdown file created at:\n%s", res.Destination))
	return res, nil
}

// WithDefaultExt appends ext to path when path has no extension.
func WithDefaultExt(path, ext string) string {
	if ext == "" || filepath.Ext(path) != "" {
		return path
	}
	return path + ext
}
