package authority_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/meadowlabs/custody/pkg/authority"
	"github.com/meadowlabs/custody/pkg/ledger"
)

func TestAuthority_Derivation(t *testing.T) {
	programID := solana.NewWallet().PublicKey()
	base := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()

	t.Run("identical seeds re-derive the identical address", func(t *testing.T) {
		salt, addr, err := authority.FindSalt(programID, base, owner)
		require.NoError(t, err)

		again, err := authority.Derive(programID, authority.SaltSeeds(base, owner, salt))
		require.NoError(t, err)
		require.Equal(t, addr, again)
	})

	t.Run("any seed change changes the result", func(t *testing.T) {
		salt, addr, err := authority.FindSalt(programID, base, owner)
		require.NoError(t, err)

		seeds := authority.SaltSeeds(base, owner, salt)
		seeds[0] = append([]byte(nil), seeds[0]...)
		seeds[0][0] ^= 0x01

		other, err := authority.Derive(programID, seeds)
		if err == nil {
			require.NotEqual(t, addr, other)
		}
	})

	t.Run("find returns a reusable nonce", func(t *testing.T) {
		seeds := authority.Seeds{base.Bytes(), owner.Bytes()}
		addr, nonce, err := authority.Find(programID, seeds)
		require.NoError(t, err)

		withNonce := append(authority.Seeds{}, seeds...)
		withNonce = append(withNonce, []byte{nonce})
		again, err := authority.Derive(programID, withNonce)
		require.NoError(t, err)
		require.Equal(t, addr, again)
	})
}

func TestAuthority_Expect(t *testing.T) {
	programID := solana.NewWallet().PublicKey()
	base := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()

	salt, addr, err := authority.FindSalt(programID, base, owner)
	require.NoError(t, err)
	seeds := authority.SaltSeeds(base, owner, salt)

	good := ledger.NewSyntheticAccount(addr, solana.PublicKey{}, 0, 0)
	require.NoError(t, authority.Expect(good, programID, seeds))

	bad := ledger.NewSyntheticAccount(solana.NewWallet().PublicKey(), solana.PublicKey{}, 0, 0)
	require.ErrorIs(t, authority.Expect(bad, programID, seeds), authority.ErrInvalidAuthority)
}
