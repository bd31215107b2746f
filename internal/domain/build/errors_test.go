package build

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestError_IsKindAndCause verifies that errors.Is matches both the kind and the wrapped cause.
func TestError_IsKindAndCause(t *testing.T) {
	t.Parallel()

	err := NewError(ErrSourceArtifactMissing, "run the standalone build first", os.ErrNotExist)

	require.ErrorIs(t, err, ErrSourceArtifactMissing)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.NotErrorIs(t, err, ErrToolchainNotFound)
	require.Equal(t, "source artifact missing: file does not exist", err.Error())

	wrapped := fmt.Errorf("packager failed: %w", err)
	require.ErrorIs(t, wrapped, ErrSourceArtifactMissing)
	require.Equal(t, "run the standalone build first", HintOf(wrapped))
}

// TestError_WithoutCause checks the message of a bare kind.
func TestError_WithoutCause(t *testing.T) {
	t.Parallel()

	err := NewError(ErrToolchainNotFound, "", nil)

	require.ErrorIs(t, err, ErrToolchainNotFound)
	require.Equal(t, "toolchain not found", err.Error())
	require.Empty(t, HintOf(errors.New("plain")))
}

// TestResult_Transitions checks that Failed clears a previous size and Succeeded clears the cause.
func TestResult_Transitions(t *testing.T) {
	t.Parallel()

	result := new(Result)

	result.Failed(ErrBuildPhaseFailed)
	require.False(t, result.Success)
	require.ErrorIs(t, result.Err, ErrBuildPhaseFailed)

	result.Succeeded(42)
	require.True(t, result.Success)
	require.EqualValues(t, 42, result.Size)
	require.NoError(t, result.Err)
}

// TestKindOf returns the sentinel of build errors only.
func TestKindOf(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("run: %w", NewError(ErrBuildPhaseFailed, "", errors.New("light exited 1")))
	require.Equal(t, ErrBuildPhaseFailed, KindOf(err))
	require.NoError(t, KindOf(errors.New("plain")))
}

// TestParseProtocol round-trips the protocol names.
func TestParseProtocol(t *testing.T) {
	t.Parallel()

	for _, protocol := range []Protocol{ProtocolUnknown, ProtocolLegacy, ProtocolModern} {
		require.Equal(t, protocol, ParseProtocol(protocol.String()))
	}

	require.Equal(t, ProtocolUnknown, ParseProtocol("v5"))
}
