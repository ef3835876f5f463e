// Package logger provides structured logging for axmeta using zap.
package logger

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dbsmedya/axmeta/internal/config"
)

// Logger wraps zap.SugaredLogger with the context helpers used by the
// scanners, the resolver and the HTTP surface.
type Logger struct {
	*zap.SugaredLogger
	base *zap.Logger
}

// New creates a Logger from configuration. Output is "stdout", "stderr"
// (the default) or a file path; a file that cannot be opened is an error.
func New(cfg *config.LoggingConfig) (*Logger, error) {
	ws, console, err := openOutput(cfg.Output)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(buildEncoder(cfg.Format, console), ws, parseLevel(cfg.Level))
	base := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return wrap(base), nil
}

// NewDefault creates a Logger at info level writing text to stderr.
func NewDefault() *Logger {
	l, err := New(&config.LoggingConfig{Level: "info", Format: "text", Output: "stderr"})
	if err != nil {
		return NewNop()
	}
	return l
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	return wrap(zap.NewNop())
}

func wrap(base *zap.Logger) *Logger {
	return &Logger{SugaredLogger: base.Sugar(), base: base}
}

// parseLevel maps a configured level to zap, defaulting to info.
func parseLevel(level string) zapcore.Level {
	l, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || l < zapcore.DebugLevel || l > zapcore.ErrorLevel {
		return zapcore.InfoLevel
	}
	return l
}

// buildEncoder returns a JSON encoder for "json" and a console encoder
// otherwise. Levels are colored only when writing to a console.
func buildEncoder(format string, console bool) zapcore.Encoder {
	ec := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if format == "json" {
		return zapcore.NewJSONEncoder(ec)
	}

	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	if console {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(ec)
}

// openOutput resolves the configured output. stdout is reserved for command
// output, so an empty value means stderr.
func openOutput(output string) (zapcore.WriteSyncer, bool, error) {
	switch output {
	case "stderr", "":
		return zapcore.Lock(os.Stderr), true, nil
	case "stdout":
		return zapcore.Lock(os.Stdout), true, nil
	default:
		file, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, false, fmt.Errorf("failed to open log file %s: %w", output, err)
		}
		return zapcore.Lock(file), false, nil
	}
}

// WithComponent returns a Logger tagged with the engine component name.
func (l *Logger) WithComponent(name string) *Logger {
	return l.with("component", name)
}

// WithTable returns a Logger tagged with a table name.
func (l *Logger) WithTable(name string) *Logger {
	return l.with("table", name)
}

// WithModule returns a Logger tagged with a metadata module name.
func (l *Logger) WithModule(module string) *Logger {
	return l.with("module", module)
}

// WithFields returns a Logger with additional fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{SugaredLogger: l.SugaredLogger.With(args...), base: l.base}
}

// WithRequestID returns a Logger tagged with an HTTP request id. An empty id
// leaves the Logger unchanged.
func (l *Logger) WithRequestID(id string) *Logger {
	if id == "" {
		return l
	}
	return l.with("request_id", id)
}

func (l *Logger) with(key string, value any) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(key, value), base: l.base}
}

// Sync flushes buffered entries. Errors from syncing a terminal or pipe,
// which do not support fsync, are ignored.
func (l *Logger) Sync() error {
	err := l.base.Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EBADF) {
		return nil
	}
	return err
}
