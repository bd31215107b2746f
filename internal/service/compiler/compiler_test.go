package compiler

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/morrigan-installer/internal/domain/build"
	"github.com/oshokin/morrigan-installer/internal/executor"
	"github.com/oshokin/morrigan-installer/internal/testutil"
)

// stubRunner returns a fixed result and records the invocation.
type stubRunner struct {
	result     *executor.Result
	invocation *executor.Invocation
}

func (r *stubRunner) Run(_ context.Context, invocation *executor.Invocation) *executor.Result {
	r.invocation = invocation

	return r.result
}

// TestCompile_Inno searches the well-known Inno Setup folders.
func TestCompile_Inno(t *testing.T) {
	t.Parallel()

	script := testutil.WriteFile(t, filepath.Join(t.TempDir(), "morrigan_setup.iss"), "[Setup]")
	runner := &stubRunner{result: &executor.Result{Outcome: executor.OutcomeSucceeded}}

	require.NoError(t, New(runner, WithTimeout(time.Minute)).Compile(t.Context(), Inno(), script))
	require.Equal(t, "ISCC", runner.invocation.Name)
	require.Equal(t, []string{script}, runner.invocation.Args)
	require.Len(t, runner.invocation.SearchPath, 2)
	require.Equal(t, time.Minute, runner.invocation.Timeout)
}

// TestCompile_ScriptMissing never starts the compiler.
func TestCompile_ScriptMissing(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{}

	err := New(runner).Compile(t.Context(), NSIS(), filepath.Join(t.TempDir(), "missing.nsi"))
	require.ErrorIs(t, err, errScriptMissing)
	require.Nil(t, runner.invocation)
}

// TestCompile_NotFound reports the install hint.
func TestCompile_NotFound(t *testing.T) {
	t.Parallel()

	script := testutil.WriteFile(t, filepath.Join(t.TempDir(), "installer.nsi"), "Name x")
	runner := &stubRunner{result: &executor.Result{Outcome: executor.OutcomeNotFound, Err: exec.ErrNotFound}}

	err := New(runner).Compile(t.Context(), NSIS(), script)
	require.ErrorIs(t, err, build.ErrToolchainNotFound)
	require.Contains(t, build.HintOf(err), "nsis")
}

// TestCompile_Failure carries the compiler output.
func TestCompile_Failure(t *testing.T) {
	t.Parallel()

	script := testutil.WriteFile(t, filepath.Join(t.TempDir(), "installer.nsi"), "Name x")
	runner := &stubRunner{result: &executor.Result{
		Outcome: executor.OutcomeFailed,
		Stdout:  "Error in script installer.nsi on line 1",
		Err:     executor.ErrNonZeroExit,
	}}

	err := New(runner).Compile(t.Context(), NSIS(), script)
	require.ErrorIs(t, err, build.ErrBuildPhaseFailed)
	require.ErrorContains(t, err, "on line 1")
}

// TestCompile_RealProcess runs a fake makensis through the process runner.
func TestCompile_RealProcess(t *testing.T) {
	t.Parallel()
	testutil.SkipOnWindows(t)

	dir := t.TempDir()
	script := testutil.WriteFile(t, filepath.Join(dir, "installer.nsi"), "Name x")
	tools := filepath.Join(dir, "tools")
	testutil.WriteScript(t, tools, "makensis", `echo "bad directive" >&2; exit 1`)

	tool := NSIS()
	tool.SearchPath = []string{tools}

	err := New(executor.NewExecRunner()).Compile(t.Context(), tool, script)
	require.ErrorIs(t, err, build.ErrBuildPhaseFailed)
	require.ErrorContains(t, err, "bad directive")
}
