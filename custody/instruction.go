package custody

import (
	"fmt"

	"github.com/near/borsh-go"
)

// Instruction discriminators. The first payload byte selects the
// operation; the borsh-encoded arguments follow.
const (
	InstructionInitialize uint8 = iota
	InstructionAddStake
	InstructionRemoveStake
	InstructionAddReward
	InstructionClaimReward
	InstructionCreateLock
	InstructionReLock
	InstructionWithdraw
	InstructionIncrement
)

// InitializeArgs creates a stake pool.
type InitializeArgs struct {
	Salt           uint64
	TopupDuration  int64
	LockupDuration int64
	TargetAmount   uint64
	RewardAmount   uint64
}

// AmountArgs carries the single token amount used by the deposit and
// withdrawal instructions.
type AmountArgs struct {
	Amount uint64
}

// CreateLockArgs creates a token locker.
type CreateLockArgs struct {
	Salt        uint64
	ReleaseDate int64
	Amount      uint64
}

// ReLockArgs extends a locker's release date.
type ReLockArgs struct {
	ReleaseDate int64
}

func decodeArgs(v interface{}, data []byte) error {
	if err := borsh.Deserialize(v, data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return nil
}
