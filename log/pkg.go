package log

import (
	"context"
	"log/slog"
	"os"
)

// DefaultContextProvider returns the context used by logging calls that do
// not take one.
var DefaultContextProvider = context.TODO

var defaultLog = Make(os.Stderr)

// Default returns the package-level logger.
func Default() Logger { return defaultLog }

// Config reconfigures the package-level logger.
func Config(opts ...Option) {
	defaultLog = defaultLog.Wrap(opts...)
}

// With returns the package-level logger with attrs added.
func With(attrs ...slog.Attr) Logger { return defaultLog.With(attrs...) }

func Trace(msg string, attrs ...slog.Attr) {
	defaultLog.logDepth(DefaultContextProvider(), 0, LevelTrace, msg, attrs)
}

func Debug(msg string, attrs ...slog.Attr) {
	defaultLog.logDepth(DefaultContextProvider(), 0, LevelDebug, msg, attrs)
}

func Info(msg string, attrs ...slog.Attr) {
	defaultLog.logDepth(DefaultContextProvider(), 0, LevelInfo, msg, attrs)
}

func Warn(msg string, attrs ...slog.Attr) {
	defaultLog.logDepth(DefaultContextProvider(), 0, LevelWarn, msg, attrs)
}

func Error(msg string, attrs ...slog.Attr) {
	defaultLog.logDepth(DefaultContextProvider(), 0, LevelError, msg, attrs)
}

func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	defaultLog.logDepth(ctx, 0, LevelDebug, msg, attrs)
}

func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	defaultLog.logDepth(ctx, 0, LevelInfo, msg, attrs)
}

func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	defaultLog.logDepth(ctx, 0, LevelWarn, msg, attrs)
}

func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	defaultLog.logDepth(ctx, 0, LevelError, msg, attrs)
}
