// Package logger implements a logging adapter using zap.
package logger

import (
	"errors"
	"io"
	"maps"
	"os"
	"slices"
	"sync"

	"go.trai.ch/reqs/internal/core/ports"
	"go.trai.ch/zerr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger implements ports.Logger using zap.
type Logger struct {
	mu     sync.RWMutex
	logger *zap.Logger
	level  zap.AtomicLevel
}

var _ ports.Logger = (*Logger)(nil)

// New creates a Logger writing human-readable lines to stderr.
func New() *Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	return &Logger{
		logger: zap.New(newCore(zapcore.Lock(os.Stderr), level)),
		level:  level,
	}
}

// NewWithCore creates a Logger backed by core. Tests use it with an
// observer core.
func NewWithCore(core zapcore.Core) *Logger {
	return &Logger{
		logger: zap.New(core),
		level:  zap.NewAtomicLevelAt(zapcore.InfoLevel),
	}
}

func newCore(w zapcore.WriteSyncer, level zap.AtomicLevel) zapcore.Core {
	cfg := zapcore.EncoderConfig{
		LevelKey:         "level",
		MessageKey:       "msg",
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		ConsoleSeparator: " ",
	}
	return zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), w, level)
}

// SetOutput updates the logger's output destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = zap.New(newCore(zapcore.AddSync(w), l.level))
}

// SetQuiet drops informational messages when quiet is set.
func (l *Logger) SetQuiet(quiet bool) {
	if quiet {
		l.level.SetLevel(zapcore.WarnLevel)
		return
	}
	l.level.SetLevel(zapcore.InfoLevel)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error together with any metadata attached to it.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Error(err.Error(), metadataFields(err)...)
}

func metadataFields(err error) []zap.Field {
	var zErr *zerr.Error
	if !errors.As(err, &zErr) {
		return nil
	}
	meta := zErr.Metadata()
	fields := make([]zap.Field, 0, len(meta))
	for _, k := range slices.Sorted(maps.Keys(meta)) {
		fields = append(fields, zap.Any(k, meta[k]))
	}
	return fields
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.logger.Sync()
}
