package probe

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/morrigan-installer/internal/executor"
	"github.com/oshokin/morrigan-installer/internal/testutil"
)

// TestValidate_ExitCodes accepts zero and rejects anything else.
func TestValidate_ExitCodes(t *testing.T) {
	t.Parallel()
	testutil.SkipOnWindows(t)

	dir := t.TempDir()
	good := testutil.WriteScript(t, dir, "good-setup", `[ "$1" = "/?" ] || exit 9`)
	bad := testutil.WriteScript(t, dir, "bad-setup", `echo "corrupt payload" >&2; exit 2`)

	prober := New(executor.NewExecRunner(), 0)

	require.NoError(t, prober.Validate(t.Context(), good))

	err := prober.Validate(t.Context(), bad)
	require.ErrorIs(t, err, ErrInstallerRejected)
	require.ErrorIs(t, err, executor.ErrNonZeroExit)
}

// TestValidate_Missing does not run anything.
func TestValidate_Missing(t *testing.T) {
	t.Parallel()

	err := New(executor.NewExecRunner(), 0).Validate(t.Context(), filepath.Join(t.TempDir(), "setup.exe"))
	require.ErrorIs(t, err, ErrInstallerMissing)
}

// TestNew_DefaultTimeout falls back to DefaultTimeout.
func TestNew_DefaultTimeout(t *testing.T) {
	t.Parallel()

	require.Equal(t, DefaultTimeout, New(nil, -1).timeout)
}
