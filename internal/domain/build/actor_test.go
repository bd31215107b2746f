package build

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestActorClone verifies that Clone returns a copy and handles nil safely.
func TestActorClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Actor)(nil).Clone())

	a := &Actor{
		Hostname: "build-agent-01",
		Username: "ci",
	}

	b := a.Clone()

	require.Equal(t, a, b)
	require.NotSame(t, a, b)
}
