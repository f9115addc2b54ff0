// internal/logger/logger.go
package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	initOnce sync.Once
	sugar    *zap.SugaredLogger
	atom     = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Init builds the process-wide logger. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.Level = atom
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.MessageKey = "message"
		l, err := cfg.Build(zap.AddCallerSkip(1))
		if err != nil {
			l = zap.NewNop()
		}
		sugar = l.Sugar()
	})
}

// SetLevel sets the log level
func SetLevel(levelStr string) {
	switch strings.ToLower(levelStr) {
	case "debug":
		atom.SetLevel(zapcore.DebugLevel)
	case "info":
		atom.SetLevel(zapcore.InfoLevel)
	case "warn", "warning":
		atom.SetLevel(zapcore.WarnLevel)
	case "error":
		atom.SetLevel(zapcore.ErrorLevel)
	default:
		atom.SetLevel(zapcore.InfoLevel)
	}
}

// Sync flushes any buffered log entries.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}

func logger() *zap.SugaredLogger {
	Init()
	return sugar
}

// Debug logs a debug message
func Debug(format string, v ...interface{}) {
	logger().Debugf(format, v...)
}

// Info logs an info message
func Info(format string, v ...interface{}) {
	logger().Infof(format, v...)
}

// Warn logs a warning message
func Warn(format string, v ...interface{}) {
	logger().Warnf(format, v...)
}

// Error logs an error message
func Error(format string, v ...interface{}) {
	logger().Errorf(format, v...)
}
