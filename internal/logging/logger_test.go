package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gosch/internal/logging"
	"github.com/yaklabco/gosch/pkg/diag"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		level    string
		expected log.Level
	}{
		{"debug level", "debug", log.DebugLevel},
		{"info level", "info", log.InfoLevel},
		{"warn level", "warn", log.WarnLevel},
		{"warning level", "warning", log.WarnLevel},
		{"error level", "error", log.ErrorLevel},
		{"invalid defaults to info", "invalid", log.InfoLevel},
		{"empty defaults to info", "", log.InfoLevel},
		{"case insensitive DEBUG", "DEBUG", log.DebugLevel},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			logger := logging.New(testCase.level)
			require.NotNil(t, logger)
			assert.Equal(t, testCase.expected, logger.GetLevel())
		})
	}
}

func TestValidLevel(t *testing.T) {
	t.Parallel()

	assert.True(t, logging.ValidLevel("Warning"))
	assert.False(t, logging.ValidLevel("trace"))
}

func TestSetLevel(t *testing.T) {
	// Not parallel because it modifies global state.
	original := logging.Default()
	defer logging.SetDefault(original)

	logging.SetDefault(logging.New("info"))

	logging.SetLevel("debug")
	assert.Equal(t, log.DebugLevel, logging.Default().GetLevel())

	logging.SetLevel("error")
	assert.Equal(t, log.ErrorLevel, logging.Default().GetLevel())
}

func TestNewInteractive(t *testing.T) {
	t.Parallel()

	logger := logging.NewInteractive()
	require.NotNil(t, logger)
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
	assert.Equal(t, "gosch", logger.GetPrefix())
}

func TestWarnings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "warn")

	logging.Warnings(logger, "top.SchDoc", []diag.Warning{
		{Code: diag.CodeRecordPadding, Message: "non-zero padding byte", Offset: 42, Record: 3},
		{Code: diag.CodeMissingSheet, Message: "document has no sheet object", Offset: diag.NoOffset, Record: diag.NoRecord},
	})

	out := buf.String()
	assert.Contains(t, out, "non-zero padding byte")
	assert.Contains(t, out, "code=record-padding")
	assert.Contains(t, out, "record=3")
	assert.Contains(t, out, "offset=42")
	assert.Contains(t, out, "code=missing-sheet")
	assert.NotContains(t, out, "record=-2147483648")
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	attached := logging.Discard()
	fallback := logging.Discard()

	tests := []struct {
		name string
		ctx  context.Context
		want *log.Logger
	}{
		{name: "attached logger", ctx: logging.WithLogger(context.Background(), attached), want: attached},
		{name: "no logger", ctx: context.Background(), want: fallback},
		{name: "nil logger attached", ctx: logging.WithLogger(context.Background(), nil), want: fallback},
		{name: "nil context", ctx: nil, want: fallback},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Same(t, testCase.want, logging.FromContextOr(testCase.ctx, fallback))
		})
	}
}

func TestFromContext_Default(t *testing.T) {
	t.Parallel()

	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
}
