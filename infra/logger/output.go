package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	outMu sync.RWMutex
	extra io.Writer
)

// SetOutput mirrors every logger created afterwards to w in addition to
// stdout. A nil w restores stdout only.
func SetOutput(w io.Writer) {
	outMu.Lock()
	extra = w
	outMu.Unlock()
}

func stdout() io.Writer { return os.Stdout }

func withExtra(w io.Writer) io.Writer {
	outMu.RLock()
	defer outMu.RUnlock()
	if extra == nil {
		return w
	}
	return io.MultiWriter(w, extra)
}

// NewRotatingFile returns a size-rotated log file. Sizes are in megabytes,
// ages in days.
func NewRotatingFile(path string, maxSizeMB, maxBackups, maxAgeDays int) (io.WriteCloser, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}, nil
}
