// Package eventlog provides the append-only, timestamped event log consumed
// by the (external) visualization layer. Every accepted or rejected command,
// channel receive or timeout, and lock-state decision lands here as one CSV
// record: timestamp, event kind, payload.
package eventlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event kinds recorded by the emulator.
const (
	KindCommandAccepted = "command_accepted"
	KindCommandRejected = "command_rejected"
	KindSignalAccepted  = "signal_accepted"
	KindSignalRejected  = "signal_rejected"
	KindReceive         = "receive"
	KindReceiveTimeout  = "receive_timeout"
	KindAntennaMove     = "antenna_move"
	KindLockDecision    = "lock_decision"
	KindSessionSummary  = "session_summary"
)

const timestampLayout = "2006-01-02 15:04:05"

// Writer is a concurrency-safe append-only event log. A nil *Writer is valid
// and drops all events, so components can run without one wired in.
type Writer struct {
	mu  sync.Mutex
	out *csv.Writer
	f   *os.File

	// now is swappable for tests.
	now func() time.Time
}

// Open appends to the log file at path, creating parent directories and the
// file as needed.
func Open(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	w := New(f)
	w.f = f
	return w, nil
}

// New wraps an io.Writer; used by Open and directly in tests.
func New(out io.Writer) *Writer {
	return &Writer{
		out: csv.NewWriter(out),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Append records one event. Errors are returned, not fatal; callers treat
// the log as best-effort.
func (w *Writer) Append(kind, payload string) error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.out.Write([]string{w.now().Format(timestampLayout), kind, payload}); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	w.out.Flush()
	return w.out.Error()
}

// Appendf is Append with a formatted payload.
func (w *Writer) Appendf(kind, format string, args ...any) error {
	if w == nil {
		return nil
	}
	return w.Append(kind, fmt.Sprintf(format, args...))
}

// Close flushes and closes the underlying file, if any.
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.out.Flush()
	if w.f != nil {
		return w.f.Close()
	}
	return w.out.Error()
}
