package logger_test

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/reqs/internal/adapters/logger"
	"go.trai.ch/reqs/internal/core/domain"
	"go.trai.ch/zerr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// captureStderr captures output written to os.Stderr during the execution of fn.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	original := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w

	done := make(chan string, 1)
	go func() {
		buf, _ := io.ReadAll(r)
		done <- string(buf)
	}()

	fn()

	require.NoError(t, w.Close())
	output := <-done
	require.NoError(t, r.Close())
	os.Stderr = original
	return output
}

func TestLogger_Stderr(t *testing.T) {
	output := captureStderr(t, func() {
		lg := logger.New()
		lg.Info("parsed 3 manifests")
	})

	assert.Equal(t, "INFO parsed 3 manifests\n", output)
}

func TestLogger_SetOutput(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&buf)

	lg.Info("one")
	lg.Warn("two")
	lg.Error(zerr.New("three"))

	assert.Contains(t, buf.String(), "INFO one\n")
	assert.Contains(t, buf.String(), "WARN two\n")
	assert.Contains(t, buf.String(), "ERROR three")
}

func TestLogger_SetQuiet(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&buf)
	lg.SetQuiet(true)

	lg.Info("hidden")
	lg.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	lg.SetQuiet(false)
	lg.Info("visible again")
	assert.Contains(t, buf.String(), "visible again")
}

func TestLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	lg := logger.NewWithCore(core)

	lg.Info("info message")
	lg.Warn("warn message")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "info message", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestLogger_ErrorMetadata(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	lg := logger.NewWithCore(core)

	err := zerr.With(zerr.Wrap(domain.ErrInvalidSpecifier, "invalid version"), "line", 3)
	err = zerr.With(err, "path", "requirements.txt")
	lg.Error(err)

	entries := logs.FilterLevelExact(zap.ErrorLevel).All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "requirements.txt", ctx["path"])
	assert.EqualValues(t, 3, ctx["line"])
}

func TestLogger_PlainError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	lg := logger.NewWithCore(core)

	lg.Error(io.ErrUnexpectedEOF)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, io.ErrUnexpectedEOF.Error(), entries[0].Message)
	assert.Empty(t, entries[0].Context)
}
