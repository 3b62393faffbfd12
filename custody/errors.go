package custody

import (
	"errors"

	"github.com/meadowlabs/custody/pkg/authority"
	"github.com/meadowlabs/custody/pkg/entity"
	"github.com/meadowlabs/custody/pkg/token"
)

// Caller errors. Each maps onto a stable wire code (Code) so
// transaction submitters can tell rejection kinds apart; all of them
// abort the operation with nothing persisted.
var (
	ErrInvalidData              = errors.New("custody: invalid instruction data")
	ErrValidation               = errors.New("custody: validation failed")
	ErrNotEnoughFunds           = errors.New("custody: not enough funds")
	ErrPoolIsLocked             = errors.New("custody: pool is locked")
	ErrPoolIsFull               = errors.New("custody: pool is full")
	ErrPoolRewardsAreFull       = errors.New("custody: pool rewards are full")
	ErrPoolIsNotExpired         = errors.New("custody: pool is not expired")
	ErrPoolIsExpired            = errors.New("custody: pool is expired")
	ErrNotEnoughRewards         = errors.New("custody: not enough rewards")
	ErrInvalidAmountTransferred = errors.New("custody: transferred amount does not match")
	ErrTicketCollectionFailure  = errors.New("custody: ticket collection failed")
	ErrIntegerOverflow          = errors.New("custody: integer overflow")
	ErrTopupLongerThanLockup    = errors.New("custody: topup duration exceeds lockup duration")
)

// Code is the enumerated error code surfaced on the wire.
type Code uint32

const (
	CodeUnknown Code = iota
	CodeInvalidData
	CodeInvalidAlignment
	CodeInvalidOwner
	CodeInvalidAuthority
	CodeInvalidMint
	CodeInvalidAccount
	CodeNotRentExempt
	CodeValidation
	CodeNotEnoughFunds
	CodePoolIsLocked
	CodePoolIsFull
	CodePoolRewardsAreFull
	CodePoolIsNotExpired
	CodePoolIsExpired
	CodeNotEnoughRewards
	CodeInvalidAmountTransferred
	CodeTicketCollectionFailure
	CodeIntegerOverflow
	CodeTopupLongerThanLockup
)

// CodeOf maps any error returned by Execute onto its wire code,
// folding the leaf packages' sentinels into the shared taxonomy.
// Unrecognized errors map to CodeUnknown.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return CodeUnknown
	case errors.Is(err, ErrInvalidData), errors.Is(err, entity.ErrInvalidData):
		return CodeInvalidData
	case errors.Is(err, entity.ErrInvalidOwner):
		return CodeInvalidOwner
	case errors.Is(err, authority.ErrInvalidAuthority), errors.Is(err, token.ErrMissingAuthority):
		return CodeInvalidAuthority
	case errors.Is(err, token.ErrInvalidMint):
		return CodeInvalidMint
	case errors.Is(err, entity.ErrInvalidAccount), errors.Is(err, token.ErrNotWallet), errors.Is(err, token.ErrNotMint):
		return CodeInvalidAccount
	case errors.Is(err, entity.ErrNotRentExempt):
		return CodeNotRentExempt
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrNotEnoughFunds), errors.Is(err, token.ErrInsufficientFunds):
		return CodeNotEnoughFunds
	case errors.Is(err, ErrPoolIsLocked):
		return CodePoolIsLocked
	case errors.Is(err, ErrPoolIsFull):
		return CodePoolIsFull
	case errors.Is(err, ErrPoolRewardsAreFull):
		return CodePoolRewardsAreFull
	case errors.Is(err, ErrPoolIsNotExpired):
		return CodePoolIsNotExpired
	case errors.Is(err, ErrPoolIsExpired):
		return CodePoolIsExpired
	case errors.Is(err, ErrNotEnoughRewards):
		return CodeNotEnoughRewards
	case errors.Is(err, ErrInvalidAmountTransferred):
		return CodeInvalidAmountTransferred
	case errors.Is(err, ErrTicketCollectionFailure):
		return CodeTicketCollectionFailure
	case errors.Is(err, ErrIntegerOverflow):
		return CodeIntegerOverflow
	case errors.Is(err, ErrTopupLongerThanLockup):
		return CodeTopupLongerThanLockup
	default:
		return CodeUnknown
	}
}
