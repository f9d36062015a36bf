package combine

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Separator returns the marker written before the contents of the file
// named name.
func Separator(name string) string {
	return fmt.Sprintf("\n\n<!-- File: %s -->\n\n", name)
}

// readEntry reads one input file and checks that it decodes as UTF-8.
func readEntry(path string, logger *zap.Logger) (fileContent, error) {
	logger.Debug("Reading file content", zap.String("filePath", path))

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("Failed to read file", zap.String("filePath", path), zap.Error(err))
		return fileContent{}, &FileReadError{Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		logger.Debug("File is not UTF-8 text", zap.String("filePath", path))
		return fileContent{}, &FileReadError{Path: path, Err: ErrNotText}
	}

	logger.Debug("Successfully read file content",
		zap.String("filePath", path),
		zap.Int("contentSizeBytes", len(data)))
	return fileContent{Path: path, Content: data}, nil
}

// render writes each file's separator and contents to w in order.
func render(w io.Writer, files []fileContent) (int, error) {
	total := 0
	for _, f := range files {
		n, err := io.WriteString(w, Separator(filepath.Base(f.Path)))
		total += n
		if err != nil {
			return total, err
		}
		n, err = w.Write(f.Content)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
