// Package logger provides a simple, clean logging interface backed by zap.
package logger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the logging interface.
type Logger interface {
	// Context-aware variants
	Info(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Fatal(ctx context.Context, msg string, fields ...Field)

	Named(name string) Logger
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value interface{}
}

// Field constructors.
func String(key, val string) Field                 { return Field{Key: key, Value: val} }
func Int(key string, val int) Field                { return Field{Key: key, Value: val} }
func Bool(key string, val bool) Field              { return Field{Key: key, Value: val} }
func Float64(key string, val float64) Field        { return Field{Key: key, Value: val} }
func Duration(key string, val time.Duration) Field { return Field{Key: key, Value: val} }
func Any(key string, val interface{}) Field        { return Field{Key: key, Value: val} }
func Error(err error) Field                        { return Field{Key: "error", Value: err} }

// zapLogger implements Logger using zap.
type zapLogger struct {
	l *zap.Logger
}

func (z *zapLogger) Named(name string) Logger {
	return &zapLogger{l: z.l.Named(name)}
}

func (z *zapLogger) Info(_ context.Context, msg string, fields ...Field) {
	z.l.Info(msg, convertFields(fields)...)
}

func (z *zapLogger) Error(_ context.Context, msg string, fields ...Field) {
	z.l.Error(msg, convertFields(fields)...)
}

func (z *zapLogger) Debug(_ context.Context, msg string, fields ...Field) {
	z.l.Debug(msg, convertFields(fields)...)
}

func (z *zapLogger) Warn(_ context.Context, msg string, fields ...Field) {
	z.l.Warn(msg, convertFields(fields)...)
}

func (z *zapLogger) Fatal(_ context.Context, msg string, fields ...Field) {
	z.l.Fatal(msg, convertFields(fields)...)
}

// convertFields converts our Field type to zap.Field.
func convertFields(fields []Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		if err, ok := f.Value.(error); ok && f.Key == "error" {
			out[i] = zap.Error(err)
			continue
		}
		out[i] = zap.Any(f.Key, f.Value)
	}
	return out
}

var (
	global   Logger
	globalZ  *zap.Logger
	levelVar zap.AtomicLevel
)

// Init initializes the global logger. Safe to call more than once; later
// calls replace the global.
func Init() error {
	levelVar = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cfg := zap.NewProductionConfig()
	cfg.Level = levelVar
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("build zap logger: %w", err)
	}
	globalZ = z
	global = &zapLogger{l: z}
	return nil
}

// Get returns the global logger.
func Get() Logger {
	if global == nil {
		// Initialization is cheap and has no failure mode worth crashing
		// for at call sites, so fall back to a default logger.
		if err := Init(); err != nil {
			panic(err)
		}
	}
	return global
}

// Named creates a named logger.
func Named(name string) Logger {
	return Get().Named(name)
}

// Sync flushes buffered log entries.
func Sync() error {
	if globalZ == nil {
		return nil
	}
	return globalZ.Sync()
}

// SetLevel updates the current logging level for the global logger.
func SetLevel(level zapcore.Level) { levelVar.SetLevel(level) }

// SetLevelString parses and sets the logging level.
// Accepts: debug, info, warn/warning, error (case-insensitive).
func SetLevelString(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		SetLevel(zapcore.DebugLevel)
	case "", "info":
		SetLevel(zapcore.InfoLevel)
	case "warn", "warning":
		SetLevel(zapcore.WarnLevel)
	case "error":
		SetLevel(zapcore.ErrorLevel)
	default:
		return fmt.Errorf("unknown log level: %s", level)
	}
	return nil
}
