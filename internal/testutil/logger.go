// Package testutil holds logging helpers shared by the parser, adapter,
// cache and CLI tests.
package testutil

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// NewTestLogger returns a debug-level logger that writes through t.Log,
// so engine and adapter logs only show for failing tests or under -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return newLogger(testWriter{t: t})
}

// LogBuffer collects the text records of a CaptureLogger.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// String returns everything logged so far.
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Contains reports whether any record so far contains s.
func (b *LogBuffer) Contains(s string) bool {
	return strings.Contains(b.String(), s)
}

// CaptureLogger is NewTestLogger that also keeps every record, for tests
// asserting on what a component logged.
func CaptureLogger(t testing.TB) (*slog.Logger, *LogBuffer) {
	t.Helper()
	lb := &LogBuffer{}
	return newLogger(testWriter{t: t, tee: lb}), lb
}

func newLogger(w testWriter) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t   testing.TB
	tee *LogBuffer
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	if w.tee != nil {
		w.tee.mu.Lock()
		w.tee.buf.Write(p)
		w.tee.mu.Unlock()
	}
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}
