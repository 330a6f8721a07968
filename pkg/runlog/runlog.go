// Package runlog keeps a plain-text transcript of one run: every planned
// action, every command's output, every verification line. One file per run,
// named by the run timestamp, append-only, never rotated or pruned.
package runlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/arthur-debert/sysdot/pkg/errors"
)

// Log is an append-only transcript file. It is an io.Writer so command
// runners can mirror raw output into it.
type Log struct {
	mu sync.Mutex
	f  *os.File
}

// Open creates the run log file, creating parent directories as needed.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "run log directory for %s", path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "run log %s", path)
	}
	return &Log{f: f}, nil
}

// Discard returns a Log that drops everything, for dry runs and tests.
func Discard() *Log {
	return &Log{}
}

// Event appends one timestamped line.
func (l *Log) Event(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return
	}
	fmt.Fprintf(l.f, "%s %s\n", time.Now().Format(time.RFC3339), fmt.Sprintf(format, args...))
}

// Write mirrors raw bytes, unstamped, so multi-line command output stays
// readable.
func (l *Log) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return len(p), nil
	}
	return l.f.Write(p)
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}

var _ io.WriteCloser = (*Log)(nil)
