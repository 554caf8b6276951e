package logger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoggerLevelGating(t *testing.T) {
	var buf bytes.Buffer
	l := New(log.New(&buf, "", 0), Config{LogLevel: Warn})
	ctx := context.Background()

	l.Info(ctx, "info message")
	assert.Empty(t, buf.String())

	l.Warn(ctx, "warn message")
	assert.Contains(t, buf.String(), "[warn] warn message")

	l.Error(ctx, "error message")
	assert.Contains(t, buf.String(), "[error] error message")
}

func TestLoggerLogMode(t *testing.T) {
	var buf bytes.Buffer
	l := New(log.New(&buf, "", 0), Config{LogLevel: Silent})
	ctx := context.Background()

	l.Info(ctx, "hidden")
	assert.Empty(t, buf.String())

	// LogMode returns a copy; the original stays silent
	verbose := l.LogMode(Info)
	verbose.Info(ctx, "shown")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	l.Info(ctx, "still hidden")
	assert.Empty(t, buf.String())
}

func TestLoggerTrace(t *testing.T) {
	var buf bytes.Buffer
	l := New(log.New(&buf, "", 0), Config{LogLevel: Info})
	ctx := context.Background()

	l.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM users", 3
	}, nil)

	out := buf.String()
	assert.Contains(t, out, "SELECT * FROM users")
	assert.Contains(t, out, "[rows:3]")
}

func TestLoggerTraceError(t *testing.T) {
	var buf bytes.Buffer
	l := New(log.New(&buf, "", 0), Config{LogLevel: Error})
	ctx := context.Background()

	l.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM users", -1
	}, errors.New("no such table"))

	out := buf.String()
	assert.Contains(t, out, "no such table")
	assert.Contains(t, out, "[rows:-]")
}

func TestLoggerTraceIgnoresRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	l := New(log.New(&buf, "", 0), Config{
		LogLevel:                  Error,
		IgnoreRecordNotFoundError: true,
	})
	ctx := context.Background()

	l.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM users WHERE id = 1", 0
	}, fmt.Errorf("lookup: %w", ErrRecordNotFound))
	assert.Empty(t, buf.String())
}

func TestLoggerTraceSlowSQL(t *testing.T) {
	var buf bytes.Buffer
	l := New(log.New(&buf, "", 0), Config{
		LogLevel:      Warn,
		SlowThreshold: time.Millisecond,
	})
	ctx := context.Background()

	l.Trace(ctx, time.Now().Add(-time.Second), func() (string, int64) {
		return "SELECT * FROM users", 100
	}, nil)
	assert.Contains(t, buf.String(), "SLOW SQL")
}
