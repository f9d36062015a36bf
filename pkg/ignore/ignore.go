// Package ignore decides which paths under a base directory are excluded by
// gitignore-style rules read from .combineignore files and configuration.
package ignore

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"
)

// FileName is the per-directory ignore file.
const FileName = ".combineignore"

// Matcher holds rules that are relative to one base directory, normally the
// directory the ignore file was found in. Rules are kept in the order they
// were added, so a later negation can re-include an earlier match.
type Matcher struct {
	base   string
	lines  []string
	rules  int
	gi     *gitignore.GitIgnore
	logger *zap.Logger
}

// New returns a Matcher without rules. Rules with a leading '/' are anchored
// at base.
func New(base string, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if abs, err := filepath.Abs(base); err == nil {
		base = abs
	}
	return &Matcher{base: base, gi: gitignore.CompileIgnoreLines(), logger: logger}
}

// Load reads each ignore file in turn into a Matcher rooted at base. Files
// that do not exist are skipped.
func Load(base string, logger *zap.Logger, files ...string) (*Matcher, error) {
	m := New(base, logger)
	for _, f := range files {
		if f == "" {
			continue
		}
		if err := m.AddFile(f); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Base returns the directory rules are relative to.
func (m *Matcher) Base() string {
	return m.base
}

// AddFile appends the rules of an ignore file.
func (m *Matcher) AddFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			m.logger.Debug("Ignore file does not exist and will be skipped", zap.String("filePath", path))
			return nil
		}
		m.logger.Error("Failed to read ignore file", zap.String("filePath", path), zap.Error(err))
		return err
	}

	before := m.rules
	m.AddLines(strings.Split(string(content), "\n")...)
	m.logger.Debug("Compiled ignore patterns from file",
		zap.String("filePath", path),
		zap.Int("patternCount", m.rules-before))
	return nil
}

// AddLines appends rules given inline.
func (m *Matcher) AddLines(lines ...string) {
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if t := strings.TrimSpace(line); t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		m.lines = append(m.lines, line)
		m.rules++
	}
	m.gi = gitignore.CompileIgnoreLines(m.lines...)
}

// Len returns the number of rules.
func (m *Matcher) Len() int {
	return m.rules
}

// Match reports whether path is ignored. Absolute paths are taken relative
// to the base; paths outside the base are never ignored. Relative paths are
// already relative to the base. isDir marks directories so that rules with a
// trailing '/' apply to them.
func (m *Matcher) Match(path string, isDir bool) bool {
	rel := path
	if filepath.IsAbs(path) {
		r, err := filepath.Rel(m.base, path)
		if err != nil {
			return false
		}
		rel = r
	}
	rel = filepath.ToSlash(filepath.Clean(rel))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return false
	}
	if isDir {
		rel += "/"
	}

	matched, how := m.gi.MatchesPathHow(rel)
	if matched && how != nil {
		m.logger.Debug("Path matches pattern",
			zap.String("path", rel),
			zap.String("pattern", how.Line),
			zap.Int("lineNo", how.LineNo))
	}
	return matched
}
