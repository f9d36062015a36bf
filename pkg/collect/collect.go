// Package collect turns user-supplied paths into the list of documents to
// add: files are taken as they are, directories are searched for files that
// match the name pattern.
package collect

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gobwas/glob"
	"go.uber.org/zap"

	"mdcombine/pkg/ignore"
)

// Collector expands paths into document files.
type Collector struct {
	pattern glob.Glob
	ignore  *ignore.Matcher
	logger  *zap.Logger
}

// New compiles pattern, which is matched against base names of files found
// inside directories. Ignore rules are applied relative to the matcher's base
// directory, not to each directory walked. A nil matcher ignores nothing.
func New(pattern string, m *ignore.Matcher, logger *zap.Logger) (*Collector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = ignore.New(".", logger)
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return &Collector{pattern: g, ignore: m, logger: logger}, nil
}

// Expand returns absolute file paths in the order given. Directories are
// replaced by their matching files in lexical order.
func (c *Collector) Expand(paths []string) ([]string, error) {
	var out []string
	c.logger.Debug("Starting file collection", zap.Int("pathCount", len(paths)))

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}

		if !info.IsDir() {
			out = append(out, abs)
			continue
		}

		files, err := c.walk(abs)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}

	c.logger.Debug("Completed file collection", zap.Int("files", len(out)))
	return out, nil
}

func (c *Collector) walk(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			c.logger.Warn("Error accessing path during traversal", zap.String("path", path), zap.Error(err))
			return nil
		}

		if d.IsDir() {
			if path != root && c.ignore.Match(path, true) {
				c.logger.Debug("Skipping ignored directory", zap.String("directory", path))
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !c.pattern.Match(d.Name()) || c.ignore.Match(path, false) {
			return nil
		}

		text, err := isText(path, d)
		if err != nil {
			c.logger.Warn("Failed to detect file type", zap.String("filePath", path), zap.Error(err))
			return nil
		}
		if !text {
			c.logger.Debug("Skipping binary file", zap.String("filePath", path))
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

// isText reports whether the detected MIME type descends from text/plain.
func isText(path string, d fs.DirEntry) (bool, error) {
	info, err := d.Info()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return true, nil
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return false, err
	}
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true, nil
		}
	}
	return false, nil
}
