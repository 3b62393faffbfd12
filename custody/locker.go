package custody

import (
	"github.com/gagliardetto/solana-go"

	"github.com/meadowlabs/custody/pkg/authority"
	"github.com/meadowlabs/custody/pkg/cmath"
	"github.com/meadowlabs/custody/pkg/entity"
	"github.com/meadowlabs/custody/pkg/ledger"
	"github.com/meadowlabs/custody/pkg/token"
)

// Lock is a validated token locker with its decoded body.
type Lock struct {
	ent   *entity.Entity
	State TokenLockState
}

func (p *Processor) loadLock(acc ledger.MutableAccount) (*Lock, error) {
	ent, err := entity.Initialized(p.rt, TypeTokenLock, p.programID, acc)
	if err != nil {
		return nil, err
	}
	l := &Lock{ent: ent}
	if err := decodeState(ent.Body(), &l.State); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Lock) save() error { return encodeState(l.ent.Body(), &l.State) }

func (l *Lock) Key() solana.PublicKey { return l.ent.Key() }

func (l *Lock) AuthoritySeeds() authority.Seeds {
	return authority.SaltSeeds(l.Key(), l.State.WithdrawAuthority, l.State.Salt)
}

// vault validates acc as this locker's recorded vault.
func (l *Lock) vault(acc ledger.Account) (*token.Wallet, error) {
	w, err := token.AsWallet(acc)
	if err != nil {
		return nil, err
	}
	if !w.Key().Equals(l.State.Vault) {
		return nil, ErrValidation
	}
	return w, nil
}

// requireOwner checks the withdraw authority's identity and signature.
func (l *Lock) requireOwner(owner ledger.Account) error {
	if !owner.Key().Equals(l.State.WithdrawAuthority) {
		return ErrValidation
	}
	if !owner.IsSigner() {
		return ErrValidation
	}
	return nil
}

// CreateLock creates a token locker on a blank account and funds its
// vault. A seventh account, when present, becomes the withdraw
// authority in place of the funding source's authority.
//
// Accounts: token program, locker (writable), source wallet
// (writable), source authority (signer), vault (writable), program
// authority, [withdraw authority].
func (p *Processor) CreateLock(accounts []ledger.MutableAccount, args CreateLockArgs) error {
	accs, err := need(accounts, 6)
	if err != nil {
		return err
	}
	if err := tokenProgramSlot(accs[0]); err != nil {
		return err
	}
	sourceAuthority, programAuthority := accs[3], accs[5]

	ent, err := entity.Blank(p.rt, TypeTokenLock, p.programID, accs[1])
	if err != nil {
		return err
	}
	source, err := token.AsWallet(accs[2])
	if err != nil {
		return err
	}
	vault, err := token.AsWallet(accs[4])
	if err != nil {
		return err
	}
	if !vault.Mint().Equals(source.Mint()) {
		return token.ErrInvalidMint
	}

	withdrawAuthority := sourceAuthority.Key()
	if len(accounts) > 6 {
		withdrawAuthority = accounts[6].Key()
	}

	if args.ReleaseDate <= p.rt.Now() {
		p.log.Debug("release date is not in the future", "locker", ent.Key().String())
		return ErrInvalidData
	}

	seeds := authority.SaltSeeds(ent.Key(), withdrawAuthority, args.Salt)
	expected, err := authority.Derive(p.programID, seeds)
	if err != nil {
		return authority.ErrInvalidAuthority
	}
	if !programAuthority.Key().Equals(expected) {
		return authority.ErrInvalidAuthority
	}
	if !vault.Authority().Equals(expected) {
		return authority.ErrInvalidAuthority
	}

	if source.Amount() < args.Amount {
		return ErrNotEnoughFunds
	}

	before := vault.Amount()
	if err := p.token.Transfer(source, vault, args.Amount, sourceAuthority, nil); err != nil {
		return err
	}
	if cmath.Sub(vault.Amount(), before) != args.Amount {
		return ErrInvalidAmountTransferred
	}

	state := TokenLockState{
		WithdrawAuthority: withdrawAuthority,
		Mint:              source.Mint(),
		Vault:             vault.Key(),
		ProgramAuthority:  programAuthority.Key(),
		ReleaseDate:       args.ReleaseDate,
		Salt:              args.Salt,
	}
	return encodeState(ent.Body(), &state)
}

// ReLock extends a locker's release date. The new date must be
// strictly later than the recorded one.
//
// Accounts: locker (writable), withdraw authority (signer).
func (p *Processor) ReLock(accounts []ledger.MutableAccount, releaseDate int64) error {
	accs, err := need(accounts, 2)
	if err != nil {
		return err
	}

	lock, err := p.loadLock(accs[0])
	if err != nil {
		return err
	}
	if err := lock.requireOwner(accs[1]); err != nil {
		return err
	}
	if releaseDate <= lock.State.ReleaseDate {
		return ErrInvalidData
	}

	lock.State.ReleaseDate = releaseDate
	return lock.save()
}

// Withdraw pays out of the locker's vault once the release date has
// passed.
//
// Accounts: token program, locker (writable), vault (writable),
// destination wallet (writable), program authority, withdraw
// authority (signer).
func (p *Processor) Withdraw(accounts []ledger.MutableAccount, amount uint64) error {
	accs, err := need(accounts, 6)
	if err != nil {
		return err
	}
	if err := tokenProgramSlot(accs[0]); err != nil {
		return err
	}
	programAuthority, owner := accs[4], accs[5]

	lock, err := p.loadLock(accs[1])
	if err != nil {
		return err
	}
	if err := lock.requireOwner(owner); err != nil {
		return err
	}
	if lock.State.ReleaseDate > p.rt.Now() {
		p.log.Debug("too early to withdraw", "locker", lock.Key().String())
		return ErrValidation
	}

	vault, err := lock.vault(accs[2])
	if err != nil {
		return err
	}
	destination, err := token.AsWallet(accs[3])
	if err != nil {
		return err
	}
	if !destination.Mint().Equals(lock.State.Mint) {
		return token.ErrInvalidMint
	}

	seeds := lock.AuthoritySeeds()
	if err := authority.Expect(programAuthority, p.programID, seeds); err != nil {
		return err
	}
	if vault.Amount() < amount {
		return ErrNotEnoughFunds
	}

	before := vault.Amount()
	if err := p.token.Transfer(vault, destination, amount, programAuthority, seeds); err != nil {
		return err
	}
	if cmath.Sub(before, vault.Amount()) != amount {
		return ErrInvalidAmountTransferred
	}
	return nil
}

// Increment adds funds to a locker's vault before the release date.
//
// Accounts: token program, locker (writable), vault (writable),
// source wallet (writable), source authority (signer).
func (p *Processor) Increment(accounts []ledger.MutableAccount, amount uint64) error {
	accs, err := need(accounts, 5)
	if err != nil {
		return err
	}
	if err := tokenProgramSlot(accs[0]); err != nil {
		return err
	}
	sourceAuthority := accs[4]

	lock, err := p.loadLock(accs[1])
	if err != nil {
		return err
	}
	if lock.State.ReleaseDate <= p.rt.Now() {
		p.log.Debug("too late to increment", "locker", lock.Key().String())
		return ErrValidation
	}

	vault, err := lock.vault(accs[2])
	if err != nil {
		return err
	}
	source, err := token.AsWallet(accs[3])
	if err != nil {
		return err
	}
	if !source.Mint().Equals(lock.State.Mint) {
		return token.ErrInvalidMint
	}
	if source.Amount() < amount {
		return ErrNotEnoughFunds
	}

	before := vault.Amount()
	if err := p.token.Transfer(source, vault, amount, sourceAuthority, nil); err != nil {
		return err
	}
	if cmath.Sub(vault.Amount(), before) != amount {
		return ErrInvalidAmountTransferred
	}
	return nil
}
