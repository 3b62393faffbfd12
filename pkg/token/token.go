// Package token models the external fungible-token component the
// custody program delegates all balance movement to. The program never
// moves token balances itself; it validates wallets and vaults through
// the read views here and requests transfers through the Program
// interface, authorizing vault-outgoing transfers with a derived
// authority seed proof.
package token

import (
	"errors"

	"github.com/gagliardetto/solana-go"

	"github.com/meadowlabs/custody/pkg/authority"
	"github.com/meadowlabs/custody/pkg/ledger"
)

// ProgramID is the fungible-token component's address.
var ProgramID = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

var (
	ErrNotWallet         = errors.New("token: account is not a token wallet")
	ErrNotMint           = errors.New("token: account is not a token mint")
	ErrInvalidMint       = errors.New("token: wallet mint mismatch")
	ErrInsufficientFunds = errors.New("token: insufficient funds")
	ErrMissingAuthority  = errors.New("token: transfer not approved by wallet authority")
)

// Program moves balances between wallets. On the live ledger this is
// the external token program invoked cross-program; off-chain it is
// the in-memory Engine. A non-empty seed proof authorizes the transfer
// as the derived address the seeds produce, in place of a signature.
type Program interface {
	Transfer(source, destination *Wallet, amount uint64, auth ledger.Account, proof authority.Seeds) error
}
