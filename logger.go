package qz

import (
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

// Logger can be implemented to get informed about important states.
type Logger interface {
	LogUnhandledServeError(err error)
	LogParseError(err error)
	LogTransportError(err error)
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogUnhandledServeError(err error) {
	l.Logger.Error("unhandled server error", zap.Error(err))
}

func (l zapLogger) LogParseError(err error) {
	l.Logger.Debug("failed to parse request", zap.Error(err), zap.Int("status", int(StatusFor(err))))
}

func (l zapLogger) LogTransportError(err error) {
	l.Logger.Warn("connection error", zap.Error(err))
}

// NewZapLogger returns a Logger that writes to l under the "qz" name.
func NewZapLogger(l *zap.Logger) Logger {
	return zapLogger{l.Named("qz")}
}

type TestLogger struct {
	tb testing.TB

	NumLogUnhandledServeError int64
	NumLogParseError          int64
	NumLogTransportError      int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogUnhandledServeError(err error) {
	atomic.AddInt64(&l.NumLogUnhandledServeError, 1)
	l.tb.Logf("qz: unhandled server error: %s", err)
}

func (l *TestLogger) LogParseError(err error) {
	atomic.AddInt64(&l.NumLogParseError, 1)
	l.tb.Logf("qz: failed to parse request: %s", err)
}

func (l *TestLogger) LogTransportError(err error) {
	atomic.AddInt64(&l.NumLogTransportError, 1)
	l.tb.Logf("qz: connection error: %s", err)
}

var _ Logger = &TestLogger{}
