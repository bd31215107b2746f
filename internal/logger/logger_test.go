package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"panic": zapcore.PanicLevel,
		"fatal": zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestContextHelpers verifies that scoped loggers travel through the context.
func TestContextHelpers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	require.Same(t, Logger(), FromContext(ctx))

	named := WithName(ctx, "morrigan-installer")
	require.NotSame(t, Logger(), FromContext(named))

	scoped := WithKV(named, "run", "test")
	require.NotNil(t, FromContext(scoped))
}

// TestWithFileOutput checks that entries reach the rotating log file.
func TestWithFileOutput(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "build.log")
	l := New(zapcore.InfoLevel, WithFileOutput(path))

	l.Infow("toolchain located", "protocol", "modern")
	_ = l.Sync()

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(contents), "toolchain located")
	require.Contains(t, string(contents), `"protocol":"modern"`)
}

// TestConfigure_UnknownLevel ensures bad level names are rejected without side effects.
func TestConfigure_UnknownLevel(t *testing.T) {
	t.Parallel()

	before := Level()

	require.Error(t, Configure("loud", ""))
	require.Equal(t, before, Level())
}
