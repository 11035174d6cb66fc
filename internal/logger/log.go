// Package logger wraps zap with the small field API used across the client.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Interface is the logging surface the rest of the client depends on.
type Interface interface {
	Debug(message string, fields ...Field)
	Info(message string, fields ...Field)
	Warn(message string, fields ...Field)
	Error(err error, fields ...Field)
	InfoContext(ctx context.Context, message string, fields ...Field)
	WarnContext(ctx context.Context, message string, fields ...Field)
	ErrorContext(ctx context.Context, err error, fields ...Field)
	WithFields(fields ...Field) *Logger
	Sync() error
}

// Logger is a wrapper around zap.Logger.
type Logger struct {
	logger *zap.Logger
	closer io.Closer
}

// Field holds key-value to be written to log.
type Field struct {
	Key   string
	Value any
}

// Level is the minimum severity written.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"

	messageKey = "message"
)

func (level Level) zapLevel() zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
		return l
	default:
		return InfoLevel
	}
}

// FileOptions configures the rotating log file.
type FileOptions struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Options holds configuration options for the logger.
type Options struct {
	level   Level
	file    *FileOptions
	console *bool
	writer  io.Writer
}

// WithLoggingLevel sets the minimum level. Info is the default.
func WithLoggingLevel(level Level) Options {
	return Options{level: level}
}

// WithFile adds a rotating log file sink.
func WithFile(f FileOptions) Options {
	return Options{file: &f}
}

// WithConsole turns stderr output on or off. It is on by default; the
// terminal client turns it off because bubbletea owns the screen.
func WithConsole(enabled bool) Options {
	return Options{console: &enabled}
}

// WithWriter adds an arbitrary sink, mostly for tests.
func WithWriter(w io.Writer) Options {
	return Options{writer: w}
}

// NewLogger creates a Logger writing JSON lines to the configured sinks.
func NewLogger(opts ...Options) (*Logger, error) {
	level := InfoLevel
	console := true
	var sinks []zapcore.WriteSyncer
	var closer io.Closer

	for _, opt := range opts {
		if opt.level != "" {
			level = opt.level
		}
		if opt.console != nil {
			console = *opt.console
		}
		if opt.file != nil {
			if opt.file.Filename == "" {
				return nil, fmt.Errorf("log file: empty filename")
			}
			lj := &lumberjack.Logger{
				Filename:   opt.file.Filename,
				MaxSize:    opt.file.MaxSizeMB,
				MaxBackups: opt.file.MaxBackups,
				MaxAge:     opt.file.MaxAgeDays,
				Compress:   opt.file.Compress,
			}
			sinks = append(sinks, zapcore.AddSync(lj))
			closer = lj
		}
		if opt.writer != nil {
			sinks = append(sinks, zapcore.AddSync(opt.writer))
		}
	}
	if console {
		sinks = append(sinks, zapcore.Lock(os.Stderr))
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.MessageKey = messageKey
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.NewMultiWriteSyncer(sinks...),
		zap.NewAtomicLevelAt(level.zapLevel()),
	)
	return &Logger{logger: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)), closer: closer}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{logger: zap.NewNop()}
}

// Sync flushes buffered entries and closes the log file, if any.
func (l *Logger) Sync() error {
	err := l.logger.Sync()
	if l.closer != nil {
		if cerr := l.closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// GetZap returns the underlying zap.Logger.
func (l *Logger) GetZap() *zap.Logger {
	return l.logger
}

// NewField returns Field with given key and value.
func NewField(key string, value any) Field {
	return Field{key, value}
}

func (l *Logger) Debug(message string, fields ...Field) {
	l.logger.Debug(message, convertFields(fields...)...)
}

func (l *Logger) Info(message string, fields ...Field) {
	l.logger.Info(message, convertFields(fields...)...)
}

// InfoContext logs at info and appends the request id carried by ctx.
func (l *Logger) InfoContext(ctx context.Context, message string, fields ...Field) {
	l.Info(message, appendRequestID(ctx, fields)...)
}

func (l *Logger) Warn(message string, fields ...Field) {
	l.logger.Warn(message, convertFields(fields...)...)
}

// WarnContext logs at warn and appends the request id carried by ctx.
func (l *Logger) WarnContext(ctx context.Context, message string, fields ...Field) {
	l.Warn(message, appendRequestID(ctx, fields)...)
}

// Error logs err at error level. Errors created with github.com/pkg/errors
// have their stack trace attached.
func (l *Logger) Error(err error, fields ...Field) {
	if err == nil {
		return
	}
	ce := l.logger.Check(zapcore.ErrorLevel, err.Error())
	if ce == nil {
		return
	}
	var st stackTracer
	if errors.As(err, &st) {
		ce.Stack = strings.TrimSpace(fmt.Sprintf("%+v", st.StackTrace()))
	}
	ce.Write(convertFields(fields...)...)
}

// ErrorContext logs err and appends the request id carried by ctx.
func (l *Logger) ErrorContext(ctx context.Context, err error, fields ...Field) {
	l.Error(err, appendRequestID(ctx, fields)...)
}

// WithFields returns a child logger with additional fields.
func (l *Logger) WithFields(fields ...Field) *Logger {
	return &Logger{logger: l.logger.With(convertFields(fields...)...), closer: l.closer}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func convertFields(fields ...Field) []zapcore.Field {
	zapFields := make([]zapcore.Field, 0, len(fields))
	for _, field := range fields {
		zapFields = append(zapFields, zap.Any(field.Key, field.Value))
	}
	return zapFields
}

func appendRequestID(ctx context.Context, fields []Field) []Field {
	if id := middleware.GetReqID(ctx); id != "" {
		return append(fields, NewField("request_id", id))
	}
	return fields
}
