package testutil

import (
	"io"
	"log"
	"strings"
	"sync"
	"testing"
)

// testWriter forwards log output to t.Log until the test's cleanup runs.
// Goroutines that outlive the test then write to io.Discard.
type testWriter struct {
	mu   sync.Mutex
	t    testing.TB
	done bool
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.done {
		return io.Discard.Write(p)
	}

	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// TestLogger returns a logger scoped to t, so output shows up next to the
// failing test and only with -v otherwise.
func TestLogger(t testing.TB) *log.Logger {
	w := &testWriter{t: t}
	t.Cleanup(func() {
		w.mu.Lock()
		w.done = true
		w.mu.Unlock()
	})

	return log.New(w, "[test] ", log.Lmicroseconds)
}
