// ABOUTME: File-backed slog logger for TUI diagnostics
// ABOUTME: Captures network failures without disturbing the terminal display

package debuglog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Init routes diagnostics to debug.log in the given config directory.
// An empty configDir leaves logging disabled.
func Init(configDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if configDir == "" {
		return nil
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(configDir, "debug.log"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	logFile = f
	logger = slog.New(slog.NewTextHandler(f, nil))
	return nil
}

// Close flushes and disables the logger
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Error records a failed operation
func Error(op string, err error) {
	if err == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	logger.Error(op, "err", err)
}

// Info records a noteworthy event
func Info(msg string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	logger.Info(msg, args...)
}
