package sdk_test

import (
	"testing"

	"github.com/near/borsh-go"
	"github.com/stretchr/testify/require"

	"github.com/meadowlabs/custody/custody"
	"github.com/meadowlabs/custody/pkg/entity"
	"github.com/meadowlabs/custody/sdk"
)

func encodeEntity(t *testing.T, typ entity.Type, header entity.Header, state interface{}) []byte {
	t.Helper()

	data := make([]byte, typ.Size())
	if typ.HeaderLen > 0 {
		prefix, err := borsh.Serialize(header)
		require.NoError(t, err)
		copy(data, prefix)
	}
	body, err := borsh.Serialize(state)
	require.NoError(t, err)
	require.Len(t, body, typ.BodyLen)
	copy(data[typ.HeaderLen:], body)
	return data
}

func TestSDK_DeserializePool(t *testing.T) {
	t.Parallel()

	poolKey := newKey(t)
	state := custody.StakePoolState{
		AdministratorAuthority: newKey(t),
		ProgramAuthority:       newKey(t),
		StakeMint:              newKey(t),
		StakeVault:             newKey(t),
		Salt:                   9,
		StakeTargetAmount:      1000,
		StakeAcquiredAmount:    400,
		RewardAmount:           100,
		DepositedRewardAmount:  50,
		Genesis:                1_700_000_000,
		LockupDuration:         3600,
		TopupDuration:          60,
	}
	data := encodeEntity(t, custody.TypeStakePool, entity.Header{
		Root: poolKey,
		Kind: entity.KindStakePool,
	}, state)

	got, err := sdk.DeserializePool(data)
	require.NoError(t, err)
	require.Equal(t, state, *got)
}

func TestSDK_DeserializePool_WrongLength(t *testing.T) {
	t.Parallel()

	_, err := sdk.DeserializePool(make([]byte, custody.TypeStakePool.Size()-1))
	require.ErrorContains(t, err, "account data is")
}

func TestSDK_DeserializePool_WrongKind(t *testing.T) {
	t.Parallel()

	data := encodeEntity(t, custody.TypeStakePool, entity.Header{
		Root: newKey(t),
		Kind: entity.KindStakerTicket,
	}, custody.StakePoolState{})

	_, err := sdk.DeserializePool(data)
	require.ErrorContains(t, err, "account kind")
}

func TestSDK_DeserializeTicket(t *testing.T) {
	t.Parallel()

	state := custody.StakerTicketState{
		Authority:    newKey(t),
		StakedAmount: 700,
	}
	data := encodeEntity(t, custody.TypeStakerTicket, entity.Header{
		Root:     newKey(t),
		ParentID: 0,
		Kind:     entity.KindStakerTicket,
	}, state)

	got, err := sdk.DeserializeTicket(data)
	require.NoError(t, err)
	require.Equal(t, state, *got)
}

func TestSDK_DeserializeLock(t *testing.T) {
	t.Parallel()

	state := custody.TokenLockState{
		WithdrawAuthority: newKey(t),
		Mint:              newKey(t),
		Vault:             newKey(t),
		ProgramAuthority:  newKey(t),
		ReleaseDate:       1_750_000_000,
		Salt:              4,
	}
	data := encodeEntity(t, custody.TypeTokenLock, entity.Header{}, state)

	got, err := sdk.DeserializeLock(data)
	require.NoError(t, err)
	require.Equal(t, state, *got)
}

func TestSDK_DeserializeLock_WrongLength(t *testing.T) {
	t.Parallel()

	_, err := sdk.DeserializeLock(make([]byte, 10))
	require.ErrorContains(t, err, "account data is")
}
