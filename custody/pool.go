package custody

import (
	"github.com/gagliardetto/solana-go"

	"github.com/meadowlabs/custody/pkg/authority"
	"github.com/meadowlabs/custody/pkg/cmath"
	"github.com/meadowlabs/custody/pkg/entity"
	"github.com/meadowlabs/custody/pkg/ledger"
	"github.com/meadowlabs/custody/pkg/token"
)

// Phase is a pool's position relative to its three time points:
// genesis, genesis+topup_duration and genesis+lockup_duration.
type Phase int

const (
	// PhaseTopup allows deposits and withdrawals.
	PhaseTopup Phase = iota
	// PhaseLocked allows neither.
	PhaseLocked
	// PhaseExpired forbids deposits, forces full-balance withdrawals
	// and enables reward claims.
	PhaseExpired
)

// Pool is a validated stake pool entity with its decoded body. The
// body is written back with save; until then mutations live only on
// State.
type Pool struct {
	ent    *entity.Entity
	header entity.Header
	State  StakePoolState
}

func (p *Processor) loadPool(acc ledger.MutableAccount) (*Pool, error) {
	ent, err := entity.Initialized(p.rt, TypeStakePool, p.programID, acc)
	if err != nil {
		return nil, err
	}
	header, err := ent.Header()
	if err != nil {
		return nil, err
	}
	pool := &Pool{ent: ent, header: header}
	if err := decodeState(ent.Body(), &pool.State); err != nil {
		return nil, err
	}
	return pool, nil
}

func (pl *Pool) save() error { return encodeState(pl.ent.Body(), &pl.State) }

func (pl *Pool) Key() solana.PublicKey { return pl.ent.Key() }

// AuthoritySeeds is the seed list the pool's vault authority was
// derived from; presenting it authorizes outgoing vault transfers.
func (pl *Pool) AuthoritySeeds() authority.Seeds {
	return authority.SaltSeeds(pl.Key(), pl.State.AdministratorAuthority, pl.State.Salt)
}

func (pl *Pool) PhaseAt(now int64) Phase {
	if now < cmath.AddI(pl.State.Genesis, pl.State.TopupDuration) {
		return PhaseTopup
	}
	if now > cmath.AddI(pl.State.Genesis, pl.State.LockupDuration) {
		return PhaseExpired
	}
	return PhaseLocked
}

// vault validates acc as this pool's recorded stake vault.
func (pl *Pool) vault(acc ledger.Account) (*token.Wallet, error) {
	w, err := token.AsWallet(acc)
	if err != nil {
		return nil, err
	}
	if !w.Key().Equals(pl.State.StakeVault) {
		return nil, entity.ErrInvalidAccount
	}
	return w, nil
}

// wallet validates acc as a wallet of this pool's stake mint.
func (pl *Pool) wallet(acc ledger.Account) (*token.Wallet, error) {
	w, err := token.AsWallet(acc)
	if err != nil {
		return nil, err
	}
	if !w.Mint().Equals(pl.State.StakeMint) {
		return nil, token.ErrInvalidMint
	}
	return w, nil
}

// Initialize creates a stake pool on a blank account.
//
// Accounts: administrator, program authority, pool (writable),
// stake mint, stake vault.
func (p *Processor) Initialize(accounts []ledger.MutableAccount, args InitializeArgs) error {
	accs, err := need(accounts, 5)
	if err != nil {
		return err
	}
	administrator, programAuthority, poolAcc, mintAcc, vaultAcc := accs[0], accs[1], accs[2], accs[3], accs[4]

	ent, err := entity.Blank(p.rt, TypeStakePool, p.programID, poolAcc)
	if err != nil {
		return err
	}

	mint, err := token.AsMint(mintAcc)
	if err != nil {
		return err
	}
	vault, err := mint.Wallet(vaultAcc)
	if err != nil {
		return err
	}

	seeds := authority.SaltSeeds(ent.Key(), administrator.Key(), args.Salt)
	expected, err := authority.Derive(p.programID, seeds)
	if err != nil {
		return authority.ErrInvalidAuthority
	}
	if !programAuthority.Key().Equals(expected) {
		p.log.Debug("provided program authority does not match expected authority", "pool", ent.Key().String())
		return authority.ErrInvalidAuthority
	}
	if !vault.Authority().Equals(expected) {
		p.log.Debug("stake vault authority does not match program authority", "pool", ent.Key().String())
		return authority.ErrInvalidAuthority
	}

	if args.TopupDuration < 0 || args.LockupDuration < 0 {
		return ErrInvalidData
	}
	if args.TopupDuration > args.LockupDuration {
		return ErrTopupLongerThanLockup
	}

	if err := ent.SetHeader(entity.Header{Root: ent.Key(), Kind: entity.KindStakePool}); err != nil {
		return err
	}

	state := StakePoolState{
		AdministratorAuthority: administrator.Key(),
		ProgramAuthority:       programAuthority.Key(),
		StakeMint:              mint.Key(),
		StakeVault:             vault.Key(),
		Salt:                   args.Salt,
		StakeTargetAmount:      args.TargetAmount,
		RewardAmount:           args.RewardAmount,
		Genesis:                p.rt.Now(),
		LockupDuration:         args.LockupDuration,
		TopupDuration:          args.TopupDuration,
	}
	return encodeState(ent.Body(), &state)
}

// AddStake deposits stake into a pool during the topup window. The
// deposit is truncated to the pool's remaining room; the staker's
// ticket is created on first use.
//
// Accounts: token program, pool (writable), staker, ticket (writable),
// stake vault (writable), source authority (signer), source wallet
// (writable).
func (p *Processor) AddStake(accounts []ledger.MutableAccount, amount uint64) error {
	accs, err := need(accounts, 7)
	if err != nil {
		return err
	}
	if err := tokenProgramSlot(accs[0]); err != nil {
		return err
	}
	staker, sourceAuthority := accs[2], accs[5]

	pool, err := p.loadPool(accs[1])
	if err != nil {
		return err
	}
	ticket, err := p.loadOrInitTicket(pool, staker.Key(), accs[3])
	if err != nil {
		return err
	}
	vault, err := pool.vault(accs[4])
	if err != nil {
		return err
	}
	source, err := pool.wallet(accs[6])
	if err != nil {
		return err
	}

	switch pool.PhaseAt(p.rt.Now()) {
	case PhaseLocked:
		return ErrPoolIsLocked
	case PhaseExpired:
		return ErrPoolIsExpired
	}

	room := cmath.Sub(pool.State.StakeTargetAmount, pool.State.StakeAcquiredAmount)
	transferAmount := cmath.Min(amount, room)
	if transferAmount == 0 {
		p.log.Debug("pool is full", "pool", pool.Key().String())
		return ErrPoolIsFull
	}
	if source.Amount() < amount {
		return ErrNotEnoughFunds
	}

	before := vault.Amount()
	if err := p.token.Transfer(source, vault, transferAmount, sourceAuthority, nil); err != nil {
		return err
	}
	if cmath.Sub(vault.Amount(), before) != transferAmount {
		return ErrInvalidAmountTransferred
	}

	pool.State.StakeAcquiredAmount = cmath.Add(pool.State.StakeAcquiredAmount, transferAmount)
	ticket.State.StakedAmount = cmath.Add(ticket.State.StakedAmount, transferAmount)

	if err := pool.save(); err != nil {
		return err
	}
	return ticket.save()
}

// RemoveStake withdraws stake. During topup any amount up to the
// ticket balance may leave; once expired the full ticket balance is
// forced out and the drained ticket is swept.
//
// Accounts: token program, pool (writable), ticket (writable), staker
// (writable, signer), program authority, stake vault (writable),
// destination wallet (writable).
func (p *Processor) RemoveStake(accounts []ledger.MutableAccount, amount uint64) error {
	accs, err := need(accounts, 7)
	if err != nil {
		return err
	}
	if err := tokenProgramSlot(accs[0]); err != nil {
		return err
	}
	staker, programAuthority := accs[3], accs[4]

	pool, err := p.loadPool(accs[1])
	if err != nil {
		return err
	}
	ticket, err := p.loadTicket(pool, accs[2])
	if err != nil {
		return err
	}
	vault, err := pool.vault(accs[5])
	if err != nil {
		return err
	}
	destination, err := pool.wallet(accs[6])
	if err != nil {
		return err
	}

	if !ticket.State.Authority.Equals(staker.Key()) {
		p.log.Debug("wrong staker provided", "ticket", ticket.ent.Key().String())
		return ErrValidation
	}
	if !staker.IsSigner() {
		return ErrValidation
	}

	phase := pool.PhaseAt(p.rt.Now())
	if phase == PhaseLocked {
		return ErrPoolIsLocked
	}

	transferAmount := cmath.Min(amount, ticket.State.StakedAmount)
	if phase == PhaseExpired {
		transferAmount = ticket.State.StakedAmount
	}

	seeds := pool.AuthoritySeeds()
	if err := authority.Expect(programAuthority, p.programID, seeds); err != nil {
		return err
	}

	before := vault.Amount()
	if err := p.token.Transfer(vault, destination, transferAmount, programAuthority, seeds); err != nil {
		return err
	}
	if cmath.Sub(before, vault.Amount()) != transferAmount {
		return ErrInvalidAmountTransferred
	}

	pool.State.StakeAcquiredAmount = cmath.Sub(pool.State.StakeAcquiredAmount, transferAmount)
	ticket.State.StakedAmount = cmath.Sub(ticket.State.StakedAmount, transferAmount)

	if phase == PhaseExpired && ticket.State.StakedAmount != 0 {
		panic("custody: ticket balance nonzero after forced withdrawal")
	}

	if err := pool.save(); err != nil {
		return err
	}
	if err := ticket.save(); err != nil {
		return err
	}
	ticket.collect(staker)
	return nil
}

// AddReward deposits reward funds, truncated to the pool's undeposited
// reward and the source balance.
//
// Accounts: token program, pool (writable), stake vault (writable),
// source authority (signer), source wallet (writable).
func (p *Processor) AddReward(accounts []ledger.MutableAccount, amount uint64) error {
	accs, err := need(accounts, 5)
	if err != nil {
		return err
	}
	if err := tokenProgramSlot(accs[0]); err != nil {
		return err
	}
	sourceAuthority := accs[3]

	pool, err := p.loadPool(accs[1])
	if err != nil {
		return err
	}
	vault, err := pool.vault(accs[2])
	if err != nil {
		return err
	}
	source, err := pool.wallet(accs[4])
	if err != nil {
		return err
	}

	if pool.PhaseAt(p.rt.Now()) == PhaseExpired {
		return ErrPoolIsExpired
	}

	remaining := cmath.Sub(pool.State.RewardAmount, pool.State.DepositedRewardAmount)
	transferAmount := cmath.Min(cmath.Min(amount, remaining), source.Amount())
	if transferAmount == 0 {
		return ErrNotEnoughRewards
	}
	if cmath.Add(pool.State.DepositedRewardAmount, transferAmount) > pool.State.RewardAmount {
		return ErrPoolRewardsAreFull
	}

	before := vault.Amount()
	if err := p.token.Transfer(source, vault, transferAmount, sourceAuthority, nil); err != nil {
		return err
	}
	if cmath.Sub(vault.Amount(), before) != transferAmount {
		return ErrInvalidAmountTransferred
	}

	pool.State.DepositedRewardAmount = cmath.Add(pool.State.DepositedRewardAmount, transferAmount)
	return pool.save()
}

// ClaimReward pays out an expired pool: the ticket's stake plus its
// proportional share of the reward, computed in 64.64 fixed point
// against the pool's current acquired stake. The denominator is not a
// snapshot: a claimant who waits while others force-withdraw receives
// a proportionally larger share. The drained ticket must sweep.
//
// Accounts: as RemoveStake.
func (p *Processor) ClaimReward(accounts []ledger.MutableAccount) error {
	accs, err := need(accounts, 7)
	if err != nil {
		return err
	}
	if err := tokenProgramSlot(accs[0]); err != nil {
		return err
	}
	staker, programAuthority := accs[3], accs[4]

	pool, err := p.loadPool(accs[1])
	if err != nil {
		return err
	}
	ticket, err := p.loadTicket(pool, accs[2])
	if err != nil {
		return err
	}
	vault, err := pool.vault(accs[5])
	if err != nil {
		return err
	}
	destination, err := pool.wallet(accs[6])
	if err != nil {
		return err
	}

	if !ticket.State.Authority.Equals(staker.Key()) {
		return ErrValidation
	}
	if !staker.IsSigner() {
		return ErrValidation
	}
	if pool.PhaseAt(p.rt.Now()) != PhaseExpired {
		return ErrPoolIsNotExpired
	}

	payout := cmath.RewardPayout(
		ticket.State.StakedAmount,
		pool.State.StakeAcquiredAmount,
		pool.State.RewardAmount,
	)

	seeds := pool.AuthoritySeeds()
	if err := authority.Expect(programAuthority, p.programID, seeds); err != nil {
		return err
	}

	before := vault.Amount()
	if err := p.token.Transfer(vault, destination, payout, programAuthority, seeds); err != nil {
		return err
	}
	if cmath.Sub(before, vault.Amount()) != payout {
		return ErrInvalidAmountTransferred
	}

	ticket.State.StakedAmount = 0
	if err := ticket.save(); err != nil {
		return err
	}
	if !ticket.collect(staker) {
		return ErrTicketCollectionFailure
	}
	return nil
}
