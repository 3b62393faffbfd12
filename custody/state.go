// Package custody implements the pool and locker state machines: the
// on-chain custody program's account layouts, instruction set and
// operation logic. Raw transaction accounts are bound into typed
// entities before any field is read; all balance arithmetic is
// overflow-trapping; every operation checks its preconditions and
// performs its single external transfer before mutating entity bodies,
// so a failure aborts with nothing persisted.
package custody

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/meadowlabs/custody/pkg/entity"
)

// Account body layouts. All records are fixed-size borsh with
// little-endian integers; an account of any other length is rejected
// before decoding.
const (
	StakePoolStateSize    = 4*32 + 8*8 // 192
	StakerTicketStateSize = 32 + 8     // 40
	TokenLockStateSize    = 4*32 + 16  // 144
)

var (
	TypeStakePool = entity.Type{
		Kind:      entity.KindStakePool,
		HeaderLen: entity.HeaderLen,
		BodyLen:   StakePoolStateSize,
	}
	TypeStakerTicket = entity.Type{
		Kind:      entity.KindStakerTicket,
		HeaderLen: entity.HeaderLen,
		BodyLen:   StakerTicketStateSize,
	}

	// The locker is a flat schema: no header prefix.
	TypeTokenLock = entity.Type{
		Kind:      entity.KindTokenLock,
		HeaderLen: 0,
		BodyLen:   TokenLockStateSize,
	}
)

// StakePoolState is the stake pool entity body.
type StakePoolState struct {
	AdministratorAuthority solana.PublicKey
	ProgramAuthority       solana.PublicKey
	StakeMint              solana.PublicKey
	StakeVault             solana.PublicKey

	// Salt completes the authority seed list (pool, administrator,
	// salt); chosen at initialization so the derived address is valid,
	// persisted for every later signature proof.
	Salt uint64

	StakeTargetAmount     uint64
	StakeAcquiredAmount   uint64
	RewardAmount          uint64
	DepositedRewardAmount uint64

	Genesis        int64
	LockupDuration int64
	TopupDuration  int64
}

// StakerTicketState is the per-staker ticket body.
type StakerTicketState struct {
	Authority    solana.PublicKey
	StakedAmount uint64
}

// TokenLockState is the locker entity body.
type TokenLockState struct {
	WithdrawAuthority solana.PublicKey
	Mint              solana.PublicKey
	Vault             solana.PublicKey
	ProgramAuthority  solana.PublicKey
	ReleaseDate       int64

	// Salt completes the authority seed list (locker, withdraw
	// authority, salt), persisted at creation like the pool's.
	Salt uint64
}

func decodeState(body []byte, v interface{}) error {
	if err := bin.NewBorshDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("custody: decode state: %w", err)
	}
	return nil
}

func encodeState(body []byte, v interface{}) error {
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(v); err != nil {
		return fmt.Errorf("custody: encode state: %w", err)
	}
	if buf.Len() != len(body) {
		return fmt.Errorf("custody: encoded state is %d bytes, want %d", buf.Len(), len(body))
	}
	copy(body, buf.Bytes())
	return nil
}
