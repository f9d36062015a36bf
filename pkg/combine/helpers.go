package combine

import (
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// writeAtomic replaces path with data through a temporary file in the same
// directory, so a failed write never leaves a truncated destination. A
// symlinked destination is written through to its target, and an existing
// file keeps its permission bits.
func writeAtomic(path string, data []byte, logger *zap.Logger) (err error) {
	target, mode := resolveDestination(path)

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		logger.Debug("Failed to create output file", zap.String("file", target), zap.Error(err))
		return &FileWriteError{Path: path, Err: err}
	}
	tmpName := tmp.Name()
	logger.Debug("Writing combined content to temporary file", zap.String("tmpFile", tmpName))

	defer func() {
		if err == nil {
			return
		}
		if rmErr := removeIfExists(tmpName); rmErr != nil {
			logger.Warn("Failed to remove temporary file", zap.String("tmpFile", tmpName), zap.Error(rmErr))
		}
	}()

	if _, werr := tmp.Write(data); werr != nil {
		return &FileWriteError{Path: path, Err: multierr.Append(werr, tmp.Close())}
	}
	if serr := tmp.Sync(); serr != nil {
		return &FileWriteError{Path: path, Err: multierr.Append(serr, tmp.Close())}
	}
	if cerr := tmp.Close(); cerr != nil {
		return &FileWriteError{Path: path, Err: cerr}
	}
	if cerr := os.Chmod(tmpName, mode); cerr != nil {
		return &FileWriteError{Path: path, Err: cerr}
	}
	if rerr := os.Rename(tmpName, target); rerr != nil {
		return &FileWriteError{Path: path, Err: rerr}
	}

	logger.Debug("Successfully wrote file", zap.String("path", target), zap.Int("sizeBytes", len(data)))
	return nil
}

// resolveDestination follows symlinks at path and returns the file to
// replace with the mode it should get. New files get 0644.
func resolveDestination(path string) (string, os.FileMode) {
	target := path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		target = resolved
	}
	if info, err := os.Stat(target); err == nil && info.Mode().IsRegular() {
		return target, info.Mode().Perm()
	}
	return target, 0o644
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
