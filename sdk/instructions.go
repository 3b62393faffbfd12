package sdk

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"

	"github.com/meadowlabs/custody/custody"
	"github.com/meadowlabs/custody/pkg/token"
)

// Each builder produces the exact account order its operation binds
// on-chain. Reordering a meta list here breaks execution, not just
// validation.

type InitializePoolInstructionConfig struct {
	AdministratorPK    solana.PublicKey
	ProgramAuthorityPK solana.PublicKey
	PoolPK             solana.PublicKey
	StakeMintPK        solana.PublicKey
	StakeVaultPK       solana.PublicKey

	Salt           uint64
	TopupDuration  int64
	LockupDuration int64
	TargetAmount   uint64
	RewardAmount   uint64
}

func (c *InitializePoolInstructionConfig) Validate() error {
	if c.AdministratorPK.IsZero() {
		return fmt.Errorf("administrator public key is required")
	}
	if c.ProgramAuthorityPK.IsZero() {
		return fmt.Errorf("program authority public key is required")
	}
	if c.PoolPK.IsZero() {
		return fmt.Errorf("pool public key is required")
	}
	if c.StakeMintPK.IsZero() {
		return fmt.Errorf("stake mint public key is required")
	}
	if c.StakeVaultPK.IsZero() {
		return fmt.Errorf("stake vault public key is required")
	}
	if c.TopupDuration < 0 || c.LockupDuration < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	if c.TopupDuration > c.LockupDuration {
		return fmt.Errorf("topup duration must not exceed lockup duration")
	}
	return nil
}

func BuildInitializePoolInstruction(
	programID solana.PublicKey,
	config InitializePoolInstructionConfig,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	data, err := borsh.Serialize(struct {
		Discriminator  uint8
		Salt           uint64
		TopupDuration  int64
		LockupDuration int64
		TargetAmount   uint64
		RewardAmount   uint64
	}{
		Discriminator:  custody.InstructionInitialize,
		Salt:           config.Salt,
		TopupDuration:  config.TopupDuration,
		LockupDuration: config.LockupDuration,
		TargetAmount:   config.TargetAmount,
		RewardAmount:   config.RewardAmount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize args: %w", err)
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: config.AdministratorPK, IsSigner: true, IsWritable: false},
		{PublicKey: config.ProgramAuthorityPK, IsSigner: false, IsWritable: false},
		{PublicKey: config.PoolPK, IsSigner: false, IsWritable: true},
		{PublicKey: config.StakeMintPK, IsSigner: false, IsWritable: false},
		{PublicKey: config.StakeVaultPK, IsSigner: false, IsWritable: false},
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: accounts,
		DataBytes:     data,
	}, nil
}

type AddStakeInstructionConfig struct {
	PoolPK            solana.PublicKey
	StakerPK          solana.PublicKey
	TicketPK          solana.PublicKey
	StakeVaultPK      solana.PublicKey
	SourceAuthorityPK solana.PublicKey
	SourcePK          solana.PublicKey

	Amount uint64
}

func (c *AddStakeInstructionConfig) Validate() error {
	if c.PoolPK.IsZero() {
		return fmt.Errorf("pool public key is required")
	}
	if c.StakerPK.IsZero() {
		return fmt.Errorf("staker public key is required")
	}
	if c.TicketPK.IsZero() {
		return fmt.Errorf("ticket public key is required")
	}
	if c.StakeVaultPK.IsZero() {
		return fmt.Errorf("stake vault public key is required")
	}
	if c.SourceAuthorityPK.IsZero() {
		return fmt.Errorf("source authority public key is required")
	}
	if c.SourcePK.IsZero() {
		return fmt.Errorf("source wallet public key is required")
	}
	if c.Amount == 0 {
		return fmt.Errorf("amount is required")
	}
	return nil
}

func BuildAddStakeInstruction(
	programID solana.PublicKey,
	config AddStakeInstructionConfig,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	data, err := borsh.Serialize(struct {
		Discriminator uint8
		Amount        uint64
	}{
		Discriminator: custody.InstructionAddStake,
		Amount:        config.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize args: %w", err)
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: token.ProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: config.PoolPK, IsSigner: false, IsWritable: true},
		{PublicKey: config.StakerPK, IsSigner: false, IsWritable: false},
		{PublicKey: config.TicketPK, IsSigner: false, IsWritable: true},
		{PublicKey: config.StakeVaultPK, IsSigner: false, IsWritable: true},
		{PublicKey: config.SourceAuthorityPK, IsSigner: true, IsWritable: false},
		{PublicKey: config.SourcePK, IsSigner: false, IsWritable: true},
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: accounts,
		DataBytes:     data,
	}, nil
}

// PoolPayoutInstructionConfig covers RemoveStake and ClaimReward, which
// bind the same accounts.
type PoolPayoutInstructionConfig struct {
	PoolPK             solana.PublicKey
	TicketPK           solana.PublicKey
	StakerPK           solana.PublicKey
	ProgramAuthorityPK solana.PublicKey
	StakeVaultPK       solana.PublicKey
	DestinationPK      solana.PublicKey
}

func (c *PoolPayoutInstructionConfig) Validate() error {
	if c.PoolPK.IsZero() {
		return fmt.Errorf("pool public key is required")
	}
	if c.TicketPK.IsZero() {
		return fmt.Errorf("ticket public key is required")
	}
	if c.StakerPK.IsZero() {
		return fmt.Errorf("staker public key is required")
	}
	if c.ProgramAuthorityPK.IsZero() {
		return fmt.Errorf("program authority public key is required")
	}
	if c.StakeVaultPK.IsZero() {
		return fmt.Errorf("stake vault public key is required")
	}
	if c.DestinationPK.IsZero() {
		return fmt.Errorf("destination wallet public key is required")
	}
	return nil
}

func (c *PoolPayoutInstructionConfig) accounts() []*solana.AccountMeta {
	return []*solana.AccountMeta{
		{PublicKey: token.ProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: c.PoolPK, IsSigner: false, IsWritable: true},
		{PublicKey: c.TicketPK, IsSigner: false, IsWritable: true},
		{PublicKey: c.StakerPK, IsSigner: true, IsWritable: true},
		{PublicKey: c.ProgramAuthorityPK, IsSigner: false, IsWritable: false},
		{PublicKey: c.StakeVaultPK, IsSigner: false, IsWritable: true},
		{PublicKey: c.DestinationPK, IsSigner: false, IsWritable: true},
	}
}

// BuildRemoveStakeInstruction withdraws stake. After the pool expires
// the program ignores Amount and pays out the full ticket balance.
func BuildRemoveStakeInstruction(
	programID solana.PublicKey,
	config PoolPayoutInstructionConfig,
	amount uint64,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	data, err := borsh.Serialize(struct {
		Discriminator uint8
		Amount        uint64
	}{
		Discriminator: custody.InstructionRemoveStake,
		Amount:        amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize args: %w", err)
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: config.accounts(),
		DataBytes:     data,
	}, nil
}

func BuildClaimRewardInstruction(
	programID solana.PublicKey,
	config PoolPayoutInstructionConfig,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: config.accounts(),
		DataBytes:     []byte{custody.InstructionClaimReward},
	}, nil
}

type AddRewardInstructionConfig struct {
	PoolPK            solana.PublicKey
	StakeVaultPK      solana.PublicKey
	SourceAuthorityPK solana.PublicKey
	SourcePK          solana.PublicKey

	Amount uint64
}

func (c *AddRewardInstructionConfig) Validate() error {
	if c.PoolPK.IsZero() {
		return fmt.Errorf("pool public key is required")
	}
	if c.StakeVaultPK.IsZero() {
		return fmt.Errorf("stake vault public key is required")
	}
	if c.SourceAuthorityPK.IsZero() {
		return fmt.Errorf("source authority public key is required")
	}
	if c.SourcePK.IsZero() {
		return fmt.Errorf("source wallet public key is required")
	}
	if c.Amount == 0 {
		return fmt.Errorf("amount is required")
	}
	return nil
}

func BuildAddRewardInstruction(
	programID solana.PublicKey,
	config AddRewardInstructionConfig,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	data, err := borsh.Serialize(struct {
		Discriminator uint8
		Amount        uint64
	}{
		Discriminator: custody.InstructionAddReward,
		Amount:        config.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize args: %w", err)
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: token.ProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: config.PoolPK, IsSigner: false, IsWritable: true},
		{PublicKey: config.StakeVaultPK, IsSigner: false, IsWritable: true},
		{PublicKey: config.SourceAuthorityPK, IsSigner: true, IsWritable: false},
		{PublicKey: config.SourcePK, IsSigner: false, IsWritable: true},
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: accounts,
		DataBytes:     data,
	}, nil
}

// CreateLockInstructionConfig creates a token locker. WithdrawAuthorityPK
// is optional; when zero the source authority becomes the locker's
// owner.
type CreateLockInstructionConfig struct {
	LockerPK            solana.PublicKey
	SourcePK            solana.PublicKey
	SourceAuthorityPK   solana.PublicKey
	VaultPK             solana.PublicKey
	ProgramAuthorityPK  solana.PublicKey
	WithdrawAuthorityPK solana.PublicKey

	Salt        uint64
	ReleaseDate int64
	Amount      uint64
}

func (c *CreateLockInstructionConfig) Validate() error {
	if c.LockerPK.IsZero() {
		return fmt.Errorf("locker public key is required")
	}
	if c.SourcePK.IsZero() {
		return fmt.Errorf("source wallet public key is required")
	}
	if c.SourceAuthorityPK.IsZero() {
		return fmt.Errorf("source authority public key is required")
	}
	if c.VaultPK.IsZero() {
		return fmt.Errorf("vault public key is required")
	}
	if c.ProgramAuthorityPK.IsZero() {
		return fmt.Errorf("program authority public key is required")
	}
	if c.Amount == 0 {
		return fmt.Errorf("amount is required")
	}
	return nil
}

func BuildCreateLockInstruction(
	programID solana.PublicKey,
	config CreateLockInstructionConfig,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	data, err := borsh.Serialize(struct {
		Discriminator uint8
		Salt          uint64
		ReleaseDate   int64
		Amount        uint64
	}{
		Discriminator: custody.InstructionCreateLock,
		Salt:          config.Salt,
		ReleaseDate:   config.ReleaseDate,
		Amount:        config.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize args: %w", err)
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: token.ProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: config.LockerPK, IsSigner: false, IsWritable: true},
		{PublicKey: config.SourcePK, IsSigner: false, IsWritable: true},
		{PublicKey: config.SourceAuthorityPK, IsSigner: true, IsWritable: false},
		{PublicKey: config.VaultPK, IsSigner: false, IsWritable: true},
		{PublicKey: config.ProgramAuthorityPK, IsSigner: false, IsWritable: false},
	}
	if !config.WithdrawAuthorityPK.IsZero() {
		accounts = append(accounts, &solana.AccountMeta{PublicKey: config.WithdrawAuthorityPK})
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: accounts,
		DataBytes:     data,
	}, nil
}

type ReLockInstructionConfig struct {
	LockerPK            solana.PublicKey
	WithdrawAuthorityPK solana.PublicKey

	ReleaseDate int64
}

func (c *ReLockInstructionConfig) Validate() error {
	if c.LockerPK.IsZero() {
		return fmt.Errorf("locker public key is required")
	}
	if c.WithdrawAuthorityPK.IsZero() {
		return fmt.Errorf("withdraw authority public key is required")
	}
	return nil
}

func BuildReLockInstruction(
	programID solana.PublicKey,
	config ReLockInstructionConfig,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	data, err := borsh.Serialize(struct {
		Discriminator uint8
		ReleaseDate   int64
	}{
		Discriminator: custody.InstructionReLock,
		ReleaseDate:   config.ReleaseDate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize args: %w", err)
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: config.LockerPK, IsSigner: false, IsWritable: true},
		{PublicKey: config.WithdrawAuthorityPK, IsSigner: true, IsWritable: false},
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: accounts,
		DataBytes:     data,
	}, nil
}

type WithdrawInstructionConfig struct {
	LockerPK            solana.PublicKey
	VaultPK             solana.PublicKey
	DestinationPK       solana.PublicKey
	ProgramAuthorityPK  solana.PublicKey
	WithdrawAuthorityPK solana.PublicKey

	Amount uint64
}

func (c *WithdrawInstructionConfig) Validate() error {
	if c.LockerPK.IsZero() {
		return fmt.Errorf("locker public key is required")
	}
	if c.VaultPK.IsZero() {
		return fmt.Errorf("vault public key is required")
	}
	if c.DestinationPK.IsZero() {
		return fmt.Errorf("destination wallet public key is required")
	}
	if c.ProgramAuthorityPK.IsZero() {
		return fmt.Errorf("program authority public key is required")
	}
	if c.WithdrawAuthorityPK.IsZero() {
		return fmt.Errorf("withdraw authority public key is required")
	}
	return nil
}

func BuildWithdrawInstruction(
	programID solana.PublicKey,
	config WithdrawInstructionConfig,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	data, err := borsh.Serialize(struct {
		Discriminator uint8
		Amount        uint64
	}{
		Discriminator: custody.InstructionWithdraw,
		Amount:        config.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize args: %w", err)
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: token.ProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: config.LockerPK, IsSigner: false, IsWritable: true},
		{PublicKey: config.VaultPK, IsSigner: false, IsWritable: true},
		{PublicKey: config.DestinationPK, IsSigner: false, IsWritable: true},
		{PublicKey: config.ProgramAuthorityPK, IsSigner: false, IsWritable: false},
		{PublicKey: config.WithdrawAuthorityPK, IsSigner: true, IsWritable: false},
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: accounts,
		DataBytes:     data,
	}, nil
}

type IncrementInstructionConfig struct {
	LockerPK          solana.PublicKey
	VaultPK           solana.PublicKey
	SourcePK          solana.PublicKey
	SourceAuthorityPK solana.PublicKey

	Amount uint64
}

func (c *IncrementInstructionConfig) Validate() error {
	if c.LockerPK.IsZero() {
		return fmt.Errorf("locker public key is required")
	}
	if c.VaultPK.IsZero() {
		return fmt.Errorf("vault public key is required")
	}
	if c.SourcePK.IsZero() {
		return fmt.Errorf("source wallet public key is required")
	}
	if c.SourceAuthorityPK.IsZero() {
		return fmt.Errorf("source authority public key is required")
	}
	if c.Amount == 0 {
		return fmt.Errorf("amount is required")
	}
	return nil
}

func BuildIncrementInstruction(
	programID solana.PublicKey,
	config IncrementInstructionConfig,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	data, err := borsh.Serialize(struct {
		Discriminator uint8
		Amount        uint64
	}{
		Discriminator: custody.InstructionIncrement,
		Amount:        config.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize args: %w", err)
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: token.ProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: config.LockerPK, IsSigner: false, IsWritable: true},
		{PublicKey: config.VaultPK, IsSigner: false, IsWritable: true},
		{PublicKey: config.SourcePK, IsSigner: false, IsWritable: true},
		{PublicKey: config.SourceAuthorityPK, IsSigner: true, IsWritable: false},
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: accounts,
		DataBytes:     data,
	}, nil
}
