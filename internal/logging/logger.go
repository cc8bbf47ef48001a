package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Custom log levels with Trace below Debug
const (
	TraceLevel = zapcore.Level(-8) // Below Debug (-4)
)

// customLowercaseLevelEncoder handles our custom Trace level display (lowercase)
func customLowercaseLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case TraceLevel:
		enc.AppendString("trace")
	default:
		zapcore.LowercaseLevelEncoder(level, enc)
	}
}

// customColorLevelEncoder handles our custom Trace level display (with colors)
func customColorLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case TraceLevel:
		enc.AppendString("\x1b[90mTRACE\x1b[0m") // Gray color for trace
	default:
		zapcore.CapitalColorLevelEncoder(level, enc)
	}
}

// Logger embeds zap.Logger and adds Trace level support
type Logger struct {
	*zap.Logger
}

// SugaredLogger embeds zap.SugaredLogger and adds Trace level support
type SugaredLogger struct {
	*zap.SugaredLogger
}

// New creates a new logger with the given name, configured from the environment:
//
//	LOG_FORMAT                  "console" or "development" for human-readable output
//	TB_LOG_LEVEL / LOG_LEVEL    trace, debug, info, warn, error
//	LOG_FILE                    write to a file instead of stdout/stderr
func New(name string) *Logger {
	cfg, err := buildConfig(os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error()) //nolint:forbidigo // logger setup error reporting
	}

	zapLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return &Logger{Logger: zapLogger.Named(name)}
}

// NewNop returns a logger that discards everything. Libraries default to it when
// the caller doesn't supply a logger.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// buildConfig returns a usable config even when the level can't be parsed; the
// error only reports the bad value.
func buildConfig(getenv func(string) string) (zap.Config, error) {
	logFormat := getenv("LOG_FORMAT")
	isDevelopment := logFormat == "development" || logFormat == "console"

	var cfg zap.Config
	if isDevelopment {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = customColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		cfg.EncoderConfig.EncodeLevel = customLowercaseLevelEncoder
	}

	var levelErr error
	logLevel := getenv("TB_LOG_LEVEL")
	if logLevel == "" {
		logLevel = getenv("LOG_LEVEL")
	}
	if logLevel != "" {
		level, err := parseLevel(logLevel)
		if err != nil {
			levelErr = fmt.Errorf("failed to parse log level %q: %w", logLevel, err)
		} else {
			cfg.Level = zap.NewAtomicLevelAt(level)
		}
	}

	if logFile := getenv("LOG_FILE"); logFile != "" {
		cfg.OutputPaths = []string{logFile}
		cfg.ErrorOutputPaths = []string{logFile}
	} else {
		cfg.OutputPaths = []string{"stdout"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}

	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.LevelKey = "severity"
	cfg.EncoderConfig.NameKey = "logger"
	cfg.EncoderConfig.CallerKey = "caller"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.StacktraceKey = "stacktrace"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	cfg.Sampling = nil

	return cfg, levelErr
}

// parseLevel parses log level string including our custom "trace" level
func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "trace":
		return TraceLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level: %s", level)
	}
}

// ForModel scopes a logger to one model version.
func (l *Logger) ForModel(name string, version uint64) *Logger {
	return l.With(zap.String("model", name), zap.Uint64("model_version", version))
}

// Override Sugar to return our custom SugaredLogger
func (l *Logger) Sugar() *SugaredLogger {
	return &SugaredLogger{SugaredLogger: l.Logger.Sugar()}
}

// Override Named to return our custom Logger
func (l *Logger) Named(name string) *Logger {
	return &Logger{Logger: l.Logger.Named(name)}
}

// Override With to return our custom Logger
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...)}
}

// Trace logs below Debug level
func (l *Logger) Trace(msg string, fields ...zap.Field) {
	l.Log(TraceLevel, msg, fields...)
}

// Tracew logs key/value pairs below Debug level
func (s *SugaredLogger) Tracew(msg string, keysAndValues ...any) {
	s.Logw(TraceLevel, msg, keysAndValues...)
}

// Override With to return our custom SugaredLogger
func (s *SugaredLogger) With(args ...any) *SugaredLogger {
	return &SugaredLogger{SugaredLogger: s.SugaredLogger.With(args...)}
}
