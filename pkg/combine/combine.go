// Package combine concatenates an ordered list of text files into one
// document, writing a separator naming each file before its contents.
package combine

import (
	"bytes"
	"context"
	"time"

	"go.uber.org/zap"
)

// Combiner reads input files and writes the combined document.
type Combiner struct {
	opts   Options
	logger *zap.Logger
}

// New returns a Combiner. A nil logger disables logging.
func New(opts Options, logger *zap.Logger) *Combiner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Combiner{opts: opts, logger: logger}
}

// Combine writes entries, in order, to destination. Nothing is touched on
// disk when entries is empty. The destination is replaced only once every
// input has been read successfully.
func (c *Combiner) Combine(ctx context.Context, entries []string, destination string) (Result, error) {
	if len(entries) == 0 {
		c.logger.Debug("No files to process")
		return Result{}, ErrEmptyInput
	}

	startTime := time.Now()
	c.logger.Info("Starting combination process",
		zap.Int("fileCount", len(entries)),
		zap.String("destination", destination))

	files, err := readAll(ctx, entries, c.opts.Workers, c.logger)
	if err != nil {
		c.logger.Debug("Failed to process files", zap.Error(err))
		return Result{}, err
	}

	var buf bytes.Buffer
	if _, err := render(&buf, files); err != nil {
		return Result{}, &FileWriteError{Path: destination, Err: err}
	}

	if err := writeAtomic(destination, buf.Bytes(), c.logger); err != nil {
		c.logger.Debug("Failed to write combined file", zap.String("combinedFile", destination), zap.Error(err))
		return Result{}, err
	}

	c.logger.Info("Successfully combined files",
		zap.String("outputFile", destination),
		zap.Int("totalFiles", len(files)),
		zap.Int("sizeBytes", buf.Len()),
		zap.Duration("elapsed", time.Since(startTime)))
	return Result{Files: len(files), Destination: destination, Bytes: buf.Len()}, nil
}
