package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger writes trace events as a CBOR stream. It is safe for concurrent
// use from multiple goroutines.
type FileLogger struct {
	closer  io.Closer
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
	count   int
	err     error
}

// NewFileLogger creates a FileLogger that appends to the file at path,
// creating it with permissions 0644 if needed.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening trace file: %w", err)
	}
	l := NewStreamLogger(f)
	l.closer = f
	return l, nil
}

// NewStreamLogger creates a FileLogger that writes to w. Close does not
// close w.
func NewStreamLogger(w io.Writer) *FileLogger {
	return &FileLogger{
		encoder: NewEncoder(w),
	}
}

// Log writes an event. Encoding errors do not reach the caller; the first
// one is kept and reported by Err.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	if err := l.encoder.Encode(event); err != nil {
		if l.err == nil {
			l.err = err
		}
		return
	}
	l.count++
}

// Count returns the number of events written.
func (l *FileLogger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Err returns the first encoding error, if any.
func (l *FileLogger) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close closes the underlying file. It is safe to call Close multiple
// times; after Close, Log calls are ignored.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Compile-time interface satisfaction check.
var _ Logger = (*FileLogger)(nil)
