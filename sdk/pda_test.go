package sdk_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meadowlabs/custody/sdk"
)

func TestSDK_FindPoolAuthority(t *testing.T) {
	t.Parallel()

	programID := newKey(t)
	pool := newKey(t)
	admin := newKey(t)

	salt, authorityKey, err := sdk.FindPoolAuthority(programID, pool, admin)
	require.NoError(t, err)

	// The found salt re-derives to the same address.
	derived, err := sdk.DeriveAuthority(programID, pool, admin, salt)
	require.NoError(t, err)
	require.Equal(t, authorityKey, derived)

	// Derivation is deterministic.
	salt2, authorityKey2, err := sdk.FindPoolAuthority(programID, pool, admin)
	require.NoError(t, err)
	require.Equal(t, salt, salt2)
	require.Equal(t, authorityKey, authorityKey2)
}

func TestSDK_FindLockAuthority_DiffersPerOwner(t *testing.T) {
	t.Parallel()

	programID := newKey(t)
	locker := newKey(t)

	_, a, err := sdk.FindLockAuthority(programID, locker, newKey(t))
	require.NoError(t, err)
	_, b, err := sdk.FindLockAuthority(programID, locker, newKey(t))
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
