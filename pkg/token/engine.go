package token

import (
	"encoding/binary"
	"log/slog"

	"github.com/gagliardetto/solana-go"

	"github.com/meadowlabs/custody/pkg/authority"
	"github.com/meadowlabs/custody/pkg/cmath"
	"github.com/meadowlabs/custody/pkg/ledger"
)

// Engine is an in-memory stand-in for the token component, backing
// off-chain simulation and tests. It enforces the same authorization
// rules the live program does: a transfer is approved either by the
// wallet authority signing, or by a seed proof deriving to the wallet
// authority under the custody program.
type Engine struct {
	log       *slog.Logger
	programID solana.PublicKey
}

// NewEngine returns an engine that resolves seed proofs against the
// given custody program id.
func NewEngine(log *slog.Logger, programID solana.PublicKey) *Engine {
	return &Engine{log: log, programID: programID}
}

func (e *Engine) Transfer(source, destination *Wallet, amount uint64, auth ledger.Account, proof authority.Seeds) error {
	if len(proof) > 0 {
		derived, err := authority.Derive(e.programID, proof)
		if err != nil || !derived.Equals(source.Authority()) || !derived.Equals(auth.Key()) {
			return ErrMissingAuthority
		}
	} else {
		if !auth.IsSigner() || !auth.Key().Equals(source.Authority()) {
			return ErrMissingAuthority
		}
	}

	if !source.Mint().Equals(destination.Mint()) {
		return ErrInvalidMint
	}
	if source.Amount() < amount {
		return ErrInsufficientFunds
	}

	setAmount(source.Account(), cmath.Sub(source.Amount(), amount))
	setAmount(destination.Account(), cmath.Add(destination.Amount(), amount))

	e.log.Debug("token transfer",
		"source", source.Key().String(),
		"destination", destination.Key().String(),
		"amount", amount)
	return nil
}

func setAmount(acc ledger.Account, v uint64) {
	binary.LittleEndian.PutUint64(acc.Data()[walletAmountOffset:], v)
}

// InitWalletData writes a wallet layout into a zeroed account buffer.
// Simulation helper; the live ledger initializes wallets through the
// token program itself.
func InitWalletData(data []byte, mint, walletAuthority solana.PublicKey, amount uint64) {
	copy(data[walletMintOffset:], mint.Bytes())
	copy(data[walletAuthorityOffset:], walletAuthority.Bytes())
	binary.LittleEndian.PutUint64(data[walletAmountOffset:], amount)
}

// InitMintData writes a mint layout into a zeroed account buffer.
func InitMintData(data []byte, supply uint64, decimals uint8) {
	binary.LittleEndian.PutUint64(data[mintSupplyOffset:], supply)
	data[mintDecimalsOffset] = decimals
}
