package main

import (
	"log"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"mdcombine/cmd"
)

func main() {
	err := cmd.Execute()
	syncLogger(cmd.Logger())
	if err != nil {
		os.Exit(1)
	}
}

// syncLogger flushes the logger when stderr can be synced. Syncing a pipe
// or a character device reports "invalid argument", which is not a failure.
func syncLogger(logger *zap.Logger) {
	if !term.IsTerminal(int(os.Stderr.Fd())) && !isRegularFile(os.Stderr) {
		return
	}
	if err := logger.Sync(); err != nil {
		if !strings.Contains(strings.ToLower(err.Error()), "invalid argument") {
			log.Printf("Logger sync failed: %v", err)
		}
	}
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
