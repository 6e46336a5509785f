package logging

import (
	"fmt"
	"os"
	"sync"
)

// rotatingWriter is a size-based log rotator: no pack repo or ecosystem
// dependency in this module's dependency surface covers file rotation,
// so this stays on os/fmt (DESIGN.md justifies the stdlib fallback).
type rotatingWriter struct {
	mu          sync.Mutex
	path        string
	maxBytes    int64
	backupCount int
	f           *os.File
	size        int64
}

func newRotatingWriter(path string, maxMB, backupCount int) (*rotatingWriter, error) {
	if maxMB <= 0 {
		maxMB = 100
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &rotatingWriter{
		path:        path,
		maxBytes:    int64(maxMB) * 1024 * 1024,
		backupCount: backupCount,
		f:           f,
		size:        info.Size(),
	}, nil
}

func (w *rotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.size+int64(len(p)) > w.maxBytes {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := w.f.Write(p)
	w.size += int64(n)
	return n, err
}

// rotate renames path -> path.1 -> path.2 ... up to backupCount,
// discarding the oldest, then reopens a fresh file at path.
func (w *rotatingWriter) rotate() error {
	if err := w.f.Close(); err != nil {
		return err
	}

	if w.backupCount > 0 {
		os.Remove(w.backupName(w.backupCount))
	}
	for i := w.backupCount - 1; i >= 1; i-- {
		src := w.backupName(i)
		if _, err := os.Stat(src); err == nil {
			os.Rename(src, w.backupName(i+1))
		}
	}
	if w.backupCount > 0 {
		os.Rename(w.path, w.backupName(1))
	}

	flags := os.O_APPEND | os.O_CREATE | os.O_WRONLY
	if w.backupCount == 0 {
		flags = os.O_TRUNC | os.O_CREATE | os.O_WRONLY
	}
	f, err := os.OpenFile(w.path, flags, 0o644)
	if err != nil {
		return err
	}
	w.f = f
	w.size = 0
	return nil
}

func (w *rotatingWriter) backupName(n int) string {
	return fmt.Sprintf("%s.%d", w.path, n)
}
