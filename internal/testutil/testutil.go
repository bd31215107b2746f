// Package testutil holds helpers shared by tests that fake the packaging toolchain
// with small shell scripts.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// SkipOnWindows skips tests that rely on POSIX shell scripts.
func SkipOnWindows(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake toolchain scripts require a POSIX shell")
	}
}

// WriteScript writes an executable /bin/sh script named name into dir and returns its path.
func WriteScript(t *testing.T, dir, name, body string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(dir, 0o750))

	path := filepath.Join(dir, name)

	//nolint:gosec // Test scripts must be executable.
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))

	return path
}

// WriteFile writes contents to path, creating parent folders.
func WriteFile(t *testing.T, path, contents string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

// FakeWix is a `wix build <source> -o <output>` stand-in: it copies the source
// document into the output file, so tests can inspect what was "built".
const FakeWix = `out=""
src=""
while [ $# -gt 0 ]; do
  case "$1" in
    build) ;;
    -o) out="$2"; shift ;;
    *) src="$1" ;;
  esac
  shift
done
cat "$src" > "$out"`
