package combine

import (
	"errors"
	"fmt"
)

// Options configures a Combiner.
type Options struct {
	Workers int // Number of files read concurrently; <= 0 means DefaultWorkers.
}

// DefaultWorkers is the reader count used when Options.Workers is not set.
const DefaultWorkers = 4

// Result describes a finished combine.
type Result struct {
	Files       int    // Number of input files written.
	Destination string // Path of the combined document.
	Bytes       int    // Size of the combined document.
}

// ErrEmptyInput is returned when there is nothing to combine.
var ErrEmptyInput = errors.New("no files to combine")

// ErrNotText marks an input whose bytes are not valid UTF-8.
var ErrNotText = errors.New("file is not valid UTF-8 text")

// FileReadError reports an input file that could not be read as text.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

// FileWriteError reports a destination that could not be created or written.
type FileWriteError struct {
	Path string
	Err  error
}

func (e *FileWriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *FileWriteError) Unwrap() error { return e.Err }

// fileContent is one input file after it has been read.
type fileContent struct {
	Path    string
	Content []byte
}
