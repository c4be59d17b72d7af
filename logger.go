package phttp

import (
	"log"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

// Logger is the leveled sink the pipeline reports to. Calls are fire-and-forget; the
// sink must be safe for concurrent use.
type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) Info(msg string)  { l.Printf("phttp: info: %s", msg) }
func (l stdLogger) Warn(msg string)  { l.Printf("phttp: warn: %s", msg) }
func (l stdLogger) Error(msg string) { l.Printf("phttp: error: %s", msg) }

// NewStdLogger adapts a standard library logger to [Logger].
func NewStdLogger(l *log.Logger) Logger {
	return stdLogger{l}
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) Info(msg string)  { l.Logger.Info(msg) }
func (l zapLogger) Warn(msg string)  { l.Logger.Warn(msg) }
func (l zapLogger) Error(msg string) { l.Logger.Error(msg) }

// NewZapLogger adapts a zap logger to [Logger].
func NewZapLogger(l *zap.Logger) Logger {
	return zapLogger{l.Named("phttp")}
}

// TestLogger counts and records log calls so tests can assert on them.
type TestLogger struct {
	tb testing.TB

	NumInfo  int64
	NumWarn  int64
	NumError int64

	mu       sync.Mutex
	messages []string
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) Info(msg string) {
	atomic.AddInt64(&l.NumInfo, 1)
	l.record("info", msg)
}

func (l *TestLogger) Warn(msg string) {
	atomic.AddInt64(&l.NumWarn, 1)
	l.record("warn", msg)
}

func (l *TestLogger) Error(msg string) {
	atomic.AddInt64(&l.NumError, 1)
	l.record("error", msg)
}

// Messages returns a copy of all logged messages, in order.
func (l *TestLogger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.messages...)
}

func (l *TestLogger) record(level, msg string) {
	l.tb.Logf("phttp: %s: %s", level, msg)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

var _ Logger = &TestLogger{}
