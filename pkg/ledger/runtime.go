package ledger

import (
	"github.com/jonboulle/clockwork"
)

// Runtime is the ledger execution environment collaborator: the time
// oracle and the rent oracle. Operations never reach for ambient
// globals; the runtime is passed in explicitly.
type Runtime interface {
	// Now returns the ledger's current unix timestamp in seconds.
	Now() int64

	// MinimumBalance returns the smallest native balance that keeps an
	// account with dataLen bytes of storage exempt from reclamation.
	MinimumBalance(dataLen uint64) uint64

	// EnforcesRent reports whether this runtime is the live
	// ledger-execution environment. Entity validation only performs the
	// rent-exemption check when it is; off-chain variants skip it.
	EnforcesRent() bool
}

// SimRuntime implements Runtime for off-chain simulation and tests,
// with an injectable clock.
type SimRuntime struct {
	Clock clockwork.Clock
	Rent  Rent

	// RentEnforced opts the simulation into the live environment's
	// rent-exemption validation.
	RentEnforced bool
}

// NewSimRuntime returns a simulated runtime on the given clock with
// default rent parameters and rent enforcement off.
func NewSimRuntime(clock clockwork.Clock) *SimRuntime {
	return &SimRuntime{
		Clock: clock,
		Rent:  DefaultRent(),
	}
}

func (r *SimRuntime) Now() int64 { return r.Clock.Now().Unix() }

func (r *SimRuntime) MinimumBalance(dataLen uint64) uint64 {
	return r.Rent.MinimumBalance(dataLen)
}

func (r *SimRuntime) EnforcesRent() bool { return r.RentEnforced }
