package custody_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/meadowlabs/custody/custody"
	"github.com/meadowlabs/custody/pkg/authority"
	"github.com/meadowlabs/custody/pkg/ledger"
	"github.com/meadowlabs/custody/pkg/token"
)

// ticketLamports is the storage deposit the harness funds tickets with,
// so sweep assertions have a balance to observe.
const ticketLamports = 1_000_000

type harness struct {
	t            *testing.T
	clock        *clockwork.FakeClock
	runtime      *ledger.SimRuntime
	processor    *custody.Processor
	programID    solana.PublicKey
	tokenProgram *ledger.SyntheticAccount
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	programID := newKey(t)
	clock := clockwork.NewFakeClockAt(time.Unix(1_700_000_000, 0))
	runtime := ledger.NewSimRuntime(clock)
	return &harness{
		t:            t,
		clock:        clock,
		runtime:      runtime,
		processor:    custody.NewProcessor(log, programID, runtime, token.NewEngine(log, programID)),
		programID:    programID,
		tokenProgram: ledger.NewSyntheticAccount(token.ProgramID, solana.PublicKey{}, 0, 0),
	}
}

func newKey(t *testing.T) solana.PublicKey {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key.PublicKey()
}

func (h *harness) advance(d time.Duration) { h.clock.Advance(d) }

func (h *harness) now() int64 { return h.runtime.Now() }

// signer returns a zero-data account marked as a transaction signer.
func (h *harness) signer(key solana.PublicKey) *ledger.SyntheticAccount {
	acc := ledger.NewSyntheticAccount(key, solana.PublicKey{}, 0, 0)
	acc.SetSigner(true)
	return acc
}

func (h *harness) newMint() *ledger.SyntheticAccount {
	acc := ledger.NewSyntheticAccount(newKey(h.t), token.ProgramID, 0, token.MintSize)
	token.InitMintData(acc.Data(), 1_000_000_000, 6)
	return acc
}

func (h *harness) newWallet(mint, walletAuthority solana.PublicKey, amount uint64) *ledger.SyntheticAccount {
	acc := ledger.NewSyntheticAccount(newKey(h.t), token.ProgramID, 0, token.WalletSize)
	token.InitWalletData(acc.Data(), mint, walletAuthority, amount)
	return acc
}

func walletAmount(t *testing.T, acc ledger.Account) uint64 {
	t.Helper()
	w, err := token.AsWallet(acc)
	require.NoError(t, err)
	return w.Amount()
}

func poolState(t *testing.T, acc ledger.Account) custody.StakePoolState {
	t.Helper()
	var s custody.StakePoolState
	require.NoError(t, bin.NewBorshDecoder(acc.Data()[custody.TypeStakePool.HeaderLen:]).Decode(&s))
	return s
}

func ticketState(t *testing.T, acc ledger.Account) custody.StakerTicketState {
	t.Helper()
	var s custody.StakerTicketState
	require.NoError(t, bin.NewBorshDecoder(acc.Data()[custody.TypeStakerTicket.HeaderLen:]).Decode(&s))
	return s
}

func lockState(t *testing.T, acc ledger.Account) custody.TokenLockState {
	t.Helper()
	var s custody.TokenLockState
	require.NoError(t, bin.NewBorshDecoder(acc.Data()).Decode(&s))
	return s
}

// poolFixture is a freshly initialized stake pool with its vault and
// derived program authority.
type poolFixture struct {
	h                *harness
	admin            *ledger.SyntheticAccount
	programAuthority *ledger.SyntheticAccount
	pool             *ledger.SyntheticAccount
	mint             *ledger.SyntheticAccount
	vault            *ledger.SyntheticAccount
	salt             uint64
}

func (h *harness) newPool(args custody.InitializeArgs) *poolFixture {
	h.t.Helper()

	admin := h.signer(newKey(h.t))
	pool := ledger.NewSyntheticAccount(newKey(h.t), h.programID, ticketLamports, custody.TypeStakePool.Size())

	salt, authorityKey, err := authority.FindSalt(h.programID, pool.Key(), admin.Key())
	require.NoError(h.t, err)
	programAuthority := ledger.NewSyntheticAccount(authorityKey, solana.PublicKey{}, 0, 0)

	mint := h.newMint()
	vault := h.newWallet(mint.Key(), authorityKey, 0)

	args.Salt = salt
	err = h.processor.Initialize(
		[]ledger.MutableAccount{admin, programAuthority, pool, mint, vault}, args)
	require.NoError(h.t, err)

	return &poolFixture{
		h:                h,
		admin:            admin,
		programAuthority: programAuthority,
		pool:             pool,
		mint:             mint,
		vault:            vault,
		salt:             salt,
	}
}

func (p *poolFixture) state() custody.StakePoolState {
	return poolState(p.h.t, p.pool)
}

// stakerFixture is one staker identity: the signing account, a funded
// wallet it controls and a blank ticket account.
type stakerFixture struct {
	staker *ledger.SyntheticAccount
	ticket *ledger.SyntheticAccount
	wallet *ledger.SyntheticAccount
}

func (p *poolFixture) newStaker(balance uint64) *stakerFixture {
	p.h.t.Helper()

	staker := p.h.signer(newKey(p.h.t))
	return &stakerFixture{
		staker: staker,
		ticket: ledger.NewSyntheticAccount(newKey(p.h.t), p.h.programID, ticketLamports, custody.TypeStakerTicket.Size()),
		wallet: p.h.newWallet(p.mint.Key(), staker.Key(), balance),
	}
}

func (p *poolFixture) addStake(s *stakerFixture, amount uint64) error {
	return p.h.processor.AddStake([]ledger.MutableAccount{
		p.h.tokenProgram, p.pool, s.staker, s.ticket, p.vault, s.staker, s.wallet,
	}, amount)
}

func (p *poolFixture) removeStake(s *stakerFixture, amount uint64) error {
	return p.h.processor.RemoveStake([]ledger.MutableAccount{
		p.h.tokenProgram, p.pool, s.ticket, s.staker, p.programAuthority, p.vault, s.wallet,
	}, amount)
}

func (p *poolFixture) addReward(funder *stakerFixture, amount uint64) error {
	return p.h.processor.AddReward([]ledger.MutableAccount{
		p.h.tokenProgram, p.pool, p.vault, funder.staker, funder.wallet,
	}, amount)
}

func (p *poolFixture) claimReward(s *stakerFixture) error {
	return p.h.processor.ClaimReward([]ledger.MutableAccount{
		p.h.tokenProgram, p.pool, s.ticket, s.staker, p.programAuthority, p.vault, s.wallet,
	})
}
