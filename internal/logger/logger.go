package logger

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel applies when no level is configured.
const DefaultLevel = "warn"

// Logger is the structured logger handed to the wsl client, the operation
// manager and the menu. Diagnostics go to stderr so they never mix with the
// menu on stdout.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// zapLogger wraps a *zap.SugaredLogger and implements Logger.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// Ensure zapLogger satisfies Logger.
var _ Logger = (*zapLogger)(nil)

// Debug logs at DebugLevel. keysAndValues are alternating key/value pairs.
func (l *zapLogger) Debug(msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, keysAndValues...)
}

// Info logs at InfoLevel.
func (l *zapLogger) Info(msg string, keysAndValues ...any) {
	l.sugar.Infow(msg, keysAndValues...)
}

// Warn logs at WarnLevel.
func (l *zapLogger) Warn(msg string, keysAndValues ...any) {
	l.sugar.Warnw(msg, keysAndValues...)
}

// Error logs at ErrorLevel.
func (l *zapLogger) Error(msg string, keysAndValues ...any) {
	l.sugar.Errorw(msg, keysAndValues...)
}

// globalSugar holds the SugaredLogger built by Init.
var globalSugar *zap.SugaredLogger

// Init builds a development-style zap logger writing to stderr at the given
// level ("debug", "info", "warn", "error"). An empty level means DefaultLevel.
// Call this once at startup.
func Init(level string) (Logger, error) {
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "parse log level %q", level)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	zapLog, err := cfg.Build(
		zap.AddCaller(),
		zap.AddCallerSkip(1), // report the caller of the Logger method, not the wrapper
	)
	if err != nil {
		return nil, errors.Wrap(err, "build zap logger")
	}

	sugar := zapLog.Sugar()
	globalSugar = sugar

	return &zapLogger{sugar: sugar}, nil
}

// Cleanup flushes any buffered log entries. Call at program exit.
func Cleanup() {
	if globalSugar != nil {
		_ = globalSugar.Sync()
	}
}

// Global returns the Logger created by Init, or a no-op logger if Init has
// not run yet.
func Global() Logger {
	if globalSugar == nil {
		return Nop()
	}
	return &zapLogger{sugar: globalSugar}
}

// Nop returns a Logger that discards everything. Useful in tests.
func Nop() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}
