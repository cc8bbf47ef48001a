package loggingtest

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/replicate/tensorbackend/internal/logging"
)

// customTestLevelEncoder handles our custom Trace level display for tests
func customTestLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case logging.TraceLevel:
		enc.AppendString("TRACE")
	default:
		zapcore.CapitalLevelEncoder(level, enc)
	}
}

// NewTestLogger creates a logger for tests that outputs to t.Logf
// Behaves exactly like zaptest.NewLogger but with trace support added
func NewTestLogger(t *testing.T) *logging.Logger {
	t.Helper()

	zapLogger := zaptest.NewLogger(t,
		zaptest.Level(logging.TraceLevel),
		zaptest.WrapOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewCore(testEncoder(), zapcore.AddSync(zaptest.NewTestingWriter(t)), logging.TraceLevel)
		})),
	)
	return &logging.Logger{Logger: zapLogger}
}

// NewObservedLogger returns a logger that also records every entry, so tests can
// assert on what was logged.
func NewObservedLogger(t *testing.T) (*logging.Logger, *observer.ObservedLogs) {
	t.Helper()

	observed, logs := observer.New(logging.TraceLevel)
	console := zapcore.NewCore(testEncoder(), zapcore.AddSync(zaptest.NewTestingWriter(t)), logging.TraceLevel)
	return &logging.Logger{Logger: zap.New(zapcore.NewTee(console, observed))}, logs
}

func testEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		NameKey:        "N",
		CallerKey:      "C",
		MessageKey:     "M",
		StacktraceKey:  "S",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    customTestLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	})
}
