package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestParseLevelStrict(t *testing.T) {
	lvl, err := ParseLevelStrict("Trace")
	require.NoError(t, err)
	assert.Equal(t, zerolog.TraceLevel, lvl)

	lvl, err = ParseLevelStrict("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, lvl)

	_, err = ParseLevelStrict("loud")
	require.Error(t, err)
}

func TestFromContext(t *testing.T) {
	t.Run("nil context yields a usable logger", func(t *testing.T) {
		//nolint:staticcheck // exercising the nil guard
		l := FromContext(nil)
		require.NotNil(t, l)
		assert.NotPanics(t, func() { l.Info().Msg("dropped") })
	})

	t.Run("returns the stored logger", func(t *testing.T) {
		var buf bytes.Buffer
		base := zerolog.New(&buf)
		ctx := base.WithContext(context.Background())

		FromContext(ctx).Info().Msg("hello")
		assert.Contains(t, buf.String(), "hello")
	})
}

func TestTraceHook(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Hook(traceHook{})

	ctx := ContextWithTraceID(context.Background(), "01J0TRACE")
	logger.Info().Ctx(ctx).Msg("traced")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "01J0TRACE", entry["trace_id"])
}

func TestGetOrGenerateTraceID(t *testing.T) {
	generated := GetOrGenerateTraceID(context.Background())
	assert.Len(t, generated, 26)

	ctx := ContextWithTraceID(context.Background(), "existing")
	assert.Equal(t, "existing", GetOrGenerateTraceID(ctx))
}

func TestNewLoggerWithPath(t *testing.T) {
	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "carbon.log")
		result := NewLoggerWithPath(Config{Level: "info", Output: OutputFile, File: path})
		defer func() { _ = result.Close() }()

		assert.True(t, result.UsingFile)
		assert.Equal(t, path, result.FilePath)
		assert.False(t, result.FallbackUsed)
	})

	t.Run("unwritable file falls back to stderr", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "dir", "carbon.log")
		result := NewLoggerWithPath(Config{Output: OutputFile, File: path})

		assert.False(t, result.UsingFile)
		assert.True(t, result.FallbackUsed)
		assert.NotEmpty(t, result.FallbackReason)
		assert.NoError(t, result.Close())
	})
}
