package logger

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin wrapper over zap that carries a context on every call so
// request-scoped fields can be attached later without changing call sites.
type Logger struct {
	z *zap.Logger
}

var (
	mu     sync.RWMutex
	global = &Logger{z: zap.NewNop()}
)

func Init(level string, asJSON bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logger.Init: parse level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	if asJSON {
		cfg.Encoding = "json"
	} else {
		cfg.Encoding = "console"
	}

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("logger.Init: build: %w", err)
	}

	mu.Lock()
	global = &Logger{z: z}
	mu.Unlock()

	return nil
}

func L() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// SetNopLogger silences all output, used by tests.
func SetNopLogger() {
	mu.Lock()
	global = &Logger{z: zap.NewNop()}
	mu.Unlock()
}

func With(fields ...Field) *Logger {
	return &Logger{z: L().z.With(fields...)}
}

func (l *Logger) Debug(_ context.Context, msg string, fields ...Field) {
	l.z.Debug(msg, fields...)
}

func (l *Logger) Info(_ context.Context, msg string, fields ...Field) {
	l.z.Info(msg, fields...)
}

func (l *Logger) Warn(_ context.Context, msg string, fields ...Field) {
	l.z.Warn(msg, fields...)
}

func (l *Logger) Error(_ context.Context, msg string, fields ...Field) {
	l.z.Error(msg, fields...)
}

func (l *Logger) Fatal(_ context.Context, msg string, fields ...Field) {
	l.z.Fatal(msg, fields...)
}

func Debug(ctx context.Context, msg string, fields ...Field) { L().Debug(ctx, msg, fields...) }
func Info(ctx context.Context, msg string, fields ...Field)  { L().Info(ctx, msg, fields...) }
func Warn(ctx context.Context, msg string, fields ...Field)  { L().Warn(ctx, msg, fields...) }
func Error(ctx context.Context, msg string, fields ...Field) { L().Error(ctx, msg, fields...) }
