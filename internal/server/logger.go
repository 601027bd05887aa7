package server

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger interface for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value interface{}
}

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// ZapLogger sends log records to a zap.Logger
type ZapLogger struct {
	z *zap.Logger
}

func NewZapLogger(z *zap.Logger) *ZapLogger {
	return &ZapLogger{z: z}
}

// NewDefaultLogger builds a production zap logger writing JSON to stderr at
// the given level ("debug", "info", "warn", "error"). An empty level means info.
func NewDefaultLogger(level string) (*ZapLogger, error) {
	lvl := zapcore.InfoLevel
	if level = strings.TrimSpace(level); level != "" {
		var err error
		if lvl, err = zapcore.ParseLevel(level); err != nil {
			return nil, err
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true

	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return NewZapLogger(z), nil
}

func (l *ZapLogger) Debug(msg string, fields ...Field) {
	l.z.Debug(msg, zapFields(fields)...)
}

func (l *ZapLogger) Info(msg string, fields ...Field) {
	l.z.Info(msg, zapFields(fields)...)
}

func (l *ZapLogger) Warn(msg string, fields ...Field) {
	l.z.Warn(msg, zapFields(fields)...)
}

func (l *ZapLogger) Error(msg string, fields ...Field) {
	l.z.Error(msg, zapFields(fields)...)
}

// Sync flushes buffered records.
func (l *ZapLogger) Sync() error {
	return l.z.Sync()
}

func zapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			out = append(out, zap.NamedError(f.Key, err))
			continue
		}

		if f.Key == "stack" {
			out = append(out, zap.Any(f.Key, f.Value))
			continue
		}

		out = append(out, zap.Any(f.Key, sanitizeValue(f.Value)))
	}

	return out
}

// Long strings (a whole request buffer, say) are cut before they hit the log.
func sanitizeValue(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		if len(s) > 100 {
			return s[:100] + "...[truncated]"
		}
	}
	return v
}

// NullLogger discards all logs (for testing)
type NullLogger struct{}

func (NullLogger) Debug(string, ...Field) {}
func (NullLogger) Info(string, ...Field)  {}
func (NullLogger) Warn(string, ...Field)  {}
func (NullLogger) Error(string, ...Field) {}

var (
	fallbackOnce   sync.Once
	fallbackLogger Logger
)

// defaultLogger is used wherever no Logger was configured.
func defaultLogger() Logger {
	fallbackOnce.Do(func() {
		l, err := NewDefaultLogger("info")
		if err != nil {
			fallbackLogger = NullLogger{}
			return
		}
		fallbackLogger = l
	})

	return fallbackLogger
}
