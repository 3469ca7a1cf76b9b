package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"bogus":   zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: zerolog.WarnLevel, Format: "json", Output: &buf})

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"shown"`)
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: zerolog.DebugLevel, Format: "json", Output: &buf})
	ctx := WithContext(context.Background(), logger)

	ctx = WithComponent(ctx, "ipc")
	ctx = WithWebview(ctx, 7)
	FromContext(ctx).Debug().Msg("hello")

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, `"component":"ipc"`)
	assert.Contains(t, out, `"webview":7`)
}

func TestFromContext_NoLogger(t *testing.T) {
	logger := FromContext(context.Background())
	require.NotNil(t, logger)
	// disabled logger must not panic
	logger.Info().Msg("noop")
}

func TestLevelSwitch_ChangesLiveLogger(t *testing.T) {
	var buf bytes.Buffer
	sw := NewLevelSwitch(zerolog.InfoLevel)
	logger := New(Config{Level: zerolog.WarnLevel, Format: "json", Output: &buf, Switch: sw})

	assert.Equal(t, zerolog.WarnLevel, sw.Level(), "config level wins at construction")

	logger.Info().Msg("dropped")
	sw.Set(zerolog.DebugLevel)
	logger.Debug().Msg("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"message":"kept"`)
}

func TestNew_FileCopy(t *testing.T) {
	var console, file bytes.Buffer
	logger := New(Config{Level: zerolog.InfoLevel, Format: "console", Output: &console, File: &file})

	logger.Info().Str("k", "v").Msg("both")

	assert.Contains(t, console.String(), "both")
	assert.Contains(t, file.String(), `"k":"v"`)
}

func TestGenerateSessionID(t *testing.T) {
	id := GenerateSessionID()
	assert.Regexp(t, `^\d{8}_\d{6}_[0-9a-f]{4}$`, id)
	assert.Equal(t, id[len(id)-4:], ShortSessionID(id))
	assert.Equal(t, "ab", ShortSessionID("ab"))
}
