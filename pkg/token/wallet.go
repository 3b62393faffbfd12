package token

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/meadowlabs/custody/pkg/ledger"
)

// Fixed token account layouts (little-endian, fixed offsets).
const (
	WalletSize = 165
	MintSize   = 82

	walletMintOffset      = 0
	walletAuthorityOffset = 32
	walletAmountOffset    = 64

	mintSupplyOffset   = 36
	mintDecimalsOffset = 44
)

// Wallet is a read view over a token wallet account. Field reads
// decode the underlying bytes on every call, so balances observed
// after an external transfer are current.
type Wallet struct {
	acc ledger.Account
}

// AsWallet validates ownership and exact size before exposing the
// view.
func AsWallet(acc ledger.Account) (*Wallet, error) {
	if !acc.Owner().Equals(ProgramID) {
		return nil, ErrNotWallet
	}
	if len(acc.Data()) != WalletSize {
		return nil, ErrNotWallet
	}
	return &Wallet{acc: acc}, nil
}

func (w *Wallet) Account() ledger.Account { return w.acc }

func (w *Wallet) Key() solana.PublicKey { return w.acc.Key() }

// Mint returns the mint this wallet holds units of.
func (w *Wallet) Mint() solana.PublicKey {
	return solana.PublicKeyFromBytes(w.acc.Data()[walletMintOffset : walletMintOffset+32])
}

// Authority returns the key empowered to move this wallet's balance.
func (w *Wallet) Authority() solana.PublicKey {
	return solana.PublicKeyFromBytes(w.acc.Data()[walletAuthorityOffset : walletAuthorityOffset+32])
}

// Amount returns the wallet's current token balance.
func (w *Wallet) Amount() uint64 {
	return binary.LittleEndian.Uint64(w.acc.Data()[walletAmountOffset:])
}

// Mint is a read view over a token mint account.
type Mint struct {
	acc ledger.Account
}

func AsMint(acc ledger.Account) (*Mint, error) {
	if !acc.Owner().Equals(ProgramID) {
		return nil, ErrNotMint
	}
	if len(acc.Data()) != MintSize {
		return nil, ErrNotMint
	}
	return &Mint{acc: acc}, nil
}

func (m *Mint) Key() solana.PublicKey { return m.acc.Key() }

func (m *Mint) Supply() uint64 {
	return binary.LittleEndian.Uint64(m.acc.Data()[mintSupplyOffset:])
}

func (m *Mint) Decimals() uint8 {
	return m.acc.Data()[mintDecimalsOffset]
}

// Wallet validates acc as a wallet of this mint.
func (m *Mint) Wallet(acc ledger.Account) (*Wallet, error) {
	w, err := AsWallet(acc)
	if err != nil {
		return nil, err
	}
	if !w.Mint().Equals(m.Key()) {
		return nil, ErrInvalidMint
	}
	return w, nil
}
