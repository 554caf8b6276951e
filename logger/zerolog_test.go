package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newBufferedZerolog(buf *bytes.Buffer, level LogLevel) Interface {
	logger := zerolog.New(buf).Level(zerolog.TraceLevel)
	return NewZerologLogger(logger, Config{LogLevel: level})
}

func TestZerologLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferedZerolog(&buf, Warn)
	ctx := context.Background()

	l.Info(ctx, "info message")
	assert.Empty(t, buf.String())

	l.Warn(ctx, "warn message")
	assert.Contains(t, buf.String(), "warn message")
	assert.Contains(t, buf.String(), `"level":"warn"`)

	buf.Reset()
	l.Error(ctx, "error message")
	assert.Contains(t, buf.String(), "error message")
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestZerologLoggerLogMode(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferedZerolog(&buf, Silent)
	ctx := context.Background()

	l.Error(ctx, "hidden")
	assert.Empty(t, buf.String())

	l.LogMode(Info).Info(ctx, "shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestZerologLoggerTrace(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferedZerolog(&buf, Info)
	ctx := context.Background()

	l.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM users", 2
	}, nil)

	out := buf.String()
	assert.Contains(t, out, "SELECT * FROM users")
	assert.Contains(t, out, `"rows":2`)
	assert.Contains(t, out, "SQL executed")
}

func TestZerologLoggerTraceError(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferedZerolog(&buf, Error)
	ctx := context.Background()

	l.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM missing", -1
	}, errors.New("no such table: missing"))

	out := buf.String()
	assert.Contains(t, out, "no such table: missing")
	assert.Contains(t, out, `"level":"error"`)
	assert.NotContains(t, out, `"rows"`)
}

func TestZerologLoggerTraceSlow(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.TraceLevel)
	l := NewZerologLogger(logger, Config{
		LogLevel:      Warn,
		SlowThreshold: time.Millisecond,
	})

	l.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) {
		return "SELECT * FROM users", 10
	}, nil)

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, "slow_threshold")
}

func TestZerologLevel(t *testing.T) {
	assert.Equal(t, zerolog.NoLevel, ZerologLevel(Silent))
	assert.Equal(t, zerolog.ErrorLevel, ZerologLevel(Error))
	assert.Equal(t, zerolog.WarnLevel, ZerologLevel(Warn))
	assert.Equal(t, zerolog.InfoLevel, ZerologLevel(Info))
}
