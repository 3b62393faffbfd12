package custody

import (
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"

	"github.com/meadowlabs/custody/pkg/cmath"
	"github.com/meadowlabs/custody/pkg/entity"
	"github.com/meadowlabs/custody/pkg/ledger"
	"github.com/meadowlabs/custody/pkg/token"
)

// Processor executes custody operations against the raw accounts of
// one transaction. Execution is single-threaded and non-reentrant: one
// operation runs to completion or aborts before another begins.
type Processor struct {
	log       *slog.Logger
	programID solana.PublicKey
	rt        ledger.Runtime
	token     token.Program
}

func NewProcessor(log *slog.Logger, programID solana.PublicKey, rt ledger.Runtime, tok token.Program) *Processor {
	return &Processor{
		log:       log,
		programID: programID,
		rt:        rt,
		token:     tok,
	}
}

// ProgramID returns the executing program identity entities must be
// owned by.
func (p *Processor) ProgramID() solana.PublicKey { return p.programID }

// Execute decodes one instruction and dispatches it. Trapped
// arithmetic surfaces as ErrIntegerOverflow; any other panic is an
// invariant violation and propagates.
func (p *Processor) Execute(accounts []ledger.MutableAccount, data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if f, ok := r.(cmath.Fault); ok {
				err = fmt.Errorf("%s: %w", f.Error(), ErrIntegerOverflow)
				return
			}
			panic(r)
		}
	}()

	if len(data) == 0 {
		return ErrInvalidData
	}
	opcode, payload := data[0], data[1:]

	switch opcode {
	case InstructionInitialize:
		var args InitializeArgs
		if err := decodeArgs(&args, payload); err != nil {
			return err
		}
		return p.Initialize(accounts, args)
	case InstructionAddStake:
		var args AmountArgs
		if err := decodeArgs(&args, payload); err != nil {
			return err
		}
		return p.AddStake(accounts, args.Amount)
	case InstructionRemoveStake:
		var args AmountArgs
		if err := decodeArgs(&args, payload); err != nil {
			return err
		}
		return p.RemoveStake(accounts, args.Amount)
	case InstructionAddReward:
		var args AmountArgs
		if err := decodeArgs(&args, payload); err != nil {
			return err
		}
		return p.AddReward(accounts, args.Amount)
	case InstructionClaimReward:
		return p.ClaimReward(accounts)
	case InstructionCreateLock:
		var args CreateLockArgs
		if err := decodeArgs(&args, payload); err != nil {
			return err
		}
		return p.CreateLock(accounts, args)
	case InstructionReLock:
		var args ReLockArgs
		if err := decodeArgs(&args, payload); err != nil {
			return err
		}
		return p.ReLock(accounts, args.ReleaseDate)
	case InstructionWithdraw:
		var args AmountArgs
		if err := decodeArgs(&args, payload); err != nil {
			return err
		}
		return p.Withdraw(accounts, args.Amount)
	case InstructionIncrement:
		var args AmountArgs
		if err := decodeArgs(&args, payload); err != nil {
			return err
		}
		return p.Increment(accounts, args.Amount)
	default:
		return fmt.Errorf("%w: unknown opcode %d", ErrInvalidData, opcode)
	}
}

// need returns the fixed account slots of an operation, rejecting
// transactions that deliver fewer.
func need(accounts []ledger.MutableAccount, n int) ([]ledger.MutableAccount, error) {
	if len(accounts) < n {
		return nil, fmt.Errorf("%w: want %d accounts, got %d", ErrInvalidData, n, len(accounts))
	}
	return accounts[:n], nil
}

// tokenProgramSlot validates the conventional leading token-program
// slot.
func tokenProgramSlot(acc ledger.Account) error {
	if !acc.Key().Equals(token.ProgramID) {
		return entity.ErrInvalidAccount
	}
	return nil
}
