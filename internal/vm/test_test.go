package vm

import (
	"bytes"
	"log/slog"
	"testing"
)

// testHarness builds a Hart wired to an in-memory UART and CLINT, with a *testing.T-backed logger,
// matching the teacher's pattern of routing component logs through t.Log.
type testHarness struct {
	*testing.T

	out   *bytes.Buffer
	clint *CLINT
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	return &testHarness{T: t, out: &bytes.Buffer{}, clint: NewCLINT()}
}

func (h *testHarness) logger() *Logger {
	return slog.New(slog.NewTextHandler(testWriter{h.T}, nil))
}

func (h *testHarness) machine() *Hart {
	mem := NewMemory(NewUART(h.out, nil), h.clint)
	return New(WithLogger(h.logger()), WithMemory(mem, h.clint))
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

// Logger is an alias used only inside the test package to avoid importing internal/log in every
// _test.go file that just wants a *slog.Logger for WithLogger.
type Logger = slog.Logger
