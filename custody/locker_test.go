package custody_test

import (
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/meadowlabs/custody/custody"
	"github.com/meadowlabs/custody/pkg/authority"
	"github.com/meadowlabs/custody/pkg/entity"
	"github.com/meadowlabs/custody/pkg/ledger"
	"github.com/meadowlabs/custody/pkg/token"
)

// lockFixture is a token locker created by owner with the given vault
// balance and release date.
type lockFixture struct {
	h      *harness
	owner  *ledger.SyntheticAccount
	locker *ledger.SyntheticAccount
	mint   *ledger.SyntheticAccount
	vault  *ledger.SyntheticAccount
	wallet *ledger.SyntheticAccount

	programAuthority *ledger.SyntheticAccount
	salt             uint64
}

func (h *harness) newLock(balance, amount uint64, releaseIn time.Duration) *lockFixture {
	h.t.Helper()

	owner := h.signer(newKey(h.t))
	locker := ledger.NewSyntheticAccount(newKey(h.t), h.programID, ticketLamports, custody.TypeTokenLock.Size())

	salt, authorityKey, err := authority.FindSalt(h.programID, locker.Key(), owner.Key())
	require.NoError(h.t, err)
	programAuthority := ledger.NewSyntheticAccount(authorityKey, solana.PublicKey{}, 0, 0)

	mint := h.newMint()
	vault := h.newWallet(mint.Key(), authorityKey, 0)
	wallet := h.newWallet(mint.Key(), owner.Key(), balance)

	err = h.processor.CreateLock([]ledger.MutableAccount{
		h.tokenProgram, locker, wallet, owner, vault, programAuthority,
	}, custody.CreateLockArgs{
		Salt:        salt,
		ReleaseDate: h.now() + int64(releaseIn/time.Second),
		Amount:      amount,
	})
	require.NoError(h.t, err)

	return &lockFixture{
		h:                h,
		owner:            owner,
		locker:           locker,
		mint:             mint,
		vault:            vault,
		wallet:           wallet,
		programAuthority: programAuthority,
		salt:             salt,
	}
}

func (l *lockFixture) state() custody.TokenLockState {
	return lockState(l.h.t, l.locker)
}

func (l *lockFixture) relock(releaseDate int64) error {
	return l.h.processor.ReLock([]ledger.MutableAccount{l.locker, l.owner}, releaseDate)
}

func (l *lockFixture) withdraw(amount uint64) error {
	return l.h.processor.Withdraw([]ledger.MutableAccount{
		l.h.tokenProgram, l.locker, l.vault, l.wallet, l.programAuthority, l.owner,
	}, amount)
}

func (l *lockFixture) increment(amount uint64) error {
	return l.h.processor.Increment([]ledger.MutableAccount{
		l.h.tokenProgram, l.locker, l.vault, l.wallet, l.owner,
	}, amount)
}

func TestCustody_Locker_Create(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	l := h.newLock(500, 300, time.Hour)

	state := l.state()
	require.Equal(t, l.owner.Key(), state.WithdrawAuthority)
	require.Equal(t, l.mint.Key(), state.Mint)
	require.Equal(t, l.vault.Key(), state.Vault)
	require.Equal(t, l.programAuthority.Key(), state.ProgramAuthority)
	require.Equal(t, h.now()+3600, state.ReleaseDate)
	require.Equal(t, l.salt, state.Salt)

	require.Equal(t, uint64(300), walletAmount(t, l.vault))
	require.Equal(t, uint64(200), walletAmount(t, l.wallet))
}

func TestCustody_Locker_Create_Rejections(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*harness, []ledger.MutableAccount, custody.CreateLockArgs) {
		h := newHarness(t)
		owner := h.signer(newKey(t))
		locker := ledger.NewSyntheticAccount(newKey(t), h.programID, ticketLamports, custody.TypeTokenLock.Size())
		salt, authorityKey, err := authority.FindSalt(h.programID, locker.Key(), owner.Key())
		require.NoError(t, err)
		programAuthority := ledger.NewSyntheticAccount(authorityKey, solana.PublicKey{}, 0, 0)
		mint := h.newMint()
		vault := h.newWallet(mint.Key(), authorityKey, 0)
		wallet := h.newWallet(mint.Key(), owner.Key(), 500)
		accounts := []ledger.MutableAccount{h.tokenProgram, locker, wallet, owner, vault, programAuthority}
		args := custody.CreateLockArgs{
			Salt:        salt,
			ReleaseDate: h.now() + 3600,
			Amount:      300,
		}
		return h, accounts, args
	}

	t.Run("release date in the past", func(t *testing.T) {
		t.Parallel()

		h, accounts, args := setup(t)
		args.ReleaseDate = h.now()
		err := h.processor.CreateLock(accounts, args)
		require.ErrorIs(t, err, custody.ErrInvalidData)
	})

	t.Run("wrong program authority", func(t *testing.T) {
		t.Parallel()

		h, accounts, args := setup(t)
		accounts[5] = ledger.NewSyntheticAccount(newKey(t), solana.PublicKey{}, 0, 0)
		err := h.processor.CreateLock(accounts, args)
		require.ErrorIs(t, err, authority.ErrInvalidAuthority)
	})

	t.Run("insufficient source funds", func(t *testing.T) {
		t.Parallel()

		h, accounts, args := setup(t)
		args.Amount = 501
		err := h.processor.CreateLock(accounts, args)
		require.ErrorIs(t, err, custody.ErrNotEnoughFunds)
	})

	t.Run("vault of another mint", func(t *testing.T) {
		t.Parallel()

		h, accounts, args := setup(t)
		otherMint := h.newMint()
		vault, err := token.AsWallet(accounts[4])
		require.NoError(t, err)
		accounts[4] = h.newWallet(otherMint.Key(), vault.Authority(), 0)
		err = h.processor.CreateLock(accounts, args)
		require.ErrorIs(t, err, token.ErrInvalidMint)
	})

	t.Run("locker account already populated", func(t *testing.T) {
		t.Parallel()

		h, accounts, args := setup(t)
		accounts[1].Data()[0] = 1
		err := h.processor.CreateLock(accounts, args)
		require.ErrorIs(t, err, entity.ErrInvalidAccount)
	})
}

func TestCustody_Locker_Create_SeparateWithdrawAuthority(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	funder := h.signer(newKey(t))
	beneficiary := h.signer(newKey(t))
	locker := ledger.NewSyntheticAccount(newKey(t), h.programID, ticketLamports, custody.TypeTokenLock.Size())

	// The authority seed list binds the beneficiary, not the funder.
	salt, authorityKey, err := authority.FindSalt(h.programID, locker.Key(), beneficiary.Key())
	require.NoError(t, err)
	programAuthority := ledger.NewSyntheticAccount(authorityKey, solana.PublicKey{}, 0, 0)

	mint := h.newMint()
	vault := h.newWallet(mint.Key(), authorityKey, 0)
	wallet := h.newWallet(mint.Key(), funder.Key(), 500)

	err = h.processor.CreateLock([]ledger.MutableAccount{
		h.tokenProgram, locker, wallet, funder, vault, programAuthority, beneficiary,
	}, custody.CreateLockArgs{
		Salt:        salt,
		ReleaseDate: h.now() + 3600,
		Amount:      500,
	})
	require.NoError(t, err)
	require.Equal(t, beneficiary.Key(), lockState(t, locker).WithdrawAuthority)

	h.advance(3601 * time.Second)

	// The funder cannot withdraw; the beneficiary can.
	destination := h.newWallet(mint.Key(), beneficiary.Key(), 0)
	err = h.processor.Withdraw([]ledger.MutableAccount{
		h.tokenProgram, locker, vault, destination, programAuthority, funder,
	}, 500)
	require.ErrorIs(t, err, custody.ErrValidation)

	err = h.processor.Withdraw([]ledger.MutableAccount{
		h.tokenProgram, locker, vault, destination, programAuthority, beneficiary,
	}, 500)
	require.NoError(t, err)
	require.Equal(t, uint64(500), walletAmount(t, destination))
}

func TestCustody_Locker_ReLock(t *testing.T) {
	t.Parallel()

	t.Run("extends release date", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		l := h.newLock(500, 300, time.Hour)

		later := h.now() + 7200
		require.NoError(t, l.relock(later))
		require.Equal(t, later, l.state().ReleaseDate)
	})

	t.Run("earlier or equal date rejected", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		l := h.newLock(500, 300, time.Hour)
		release := l.state().ReleaseDate

		require.ErrorIs(t, l.relock(release), custody.ErrInvalidData)
		require.ErrorIs(t, l.relock(release-1), custody.ErrInvalidData)
	})

	t.Run("non owner rejected", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		l := h.newLock(500, 300, time.Hour)

		mallory := h.signer(newKey(t))
		err := h.processor.ReLock([]ledger.MutableAccount{l.locker, mallory}, h.now()+7200)
		require.ErrorIs(t, err, custody.ErrValidation)
	})

	t.Run("unsigned owner rejected", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		l := h.newLock(500, 300, time.Hour)

		l.owner.SetSigner(false)
		require.ErrorIs(t, l.relock(h.now()+7200), custody.ErrValidation)
	})

	t.Run("blank locker rejected", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		blank := ledger.NewSyntheticAccount(newKey(t), h.programID, ticketLamports, custody.TypeTokenLock.Size())
		err := h.processor.ReLock([]ledger.MutableAccount{blank, h.signer(newKey(t))}, h.now()+7200)
		require.ErrorIs(t, err, entity.ErrInvalidAccount)
	})
}

func TestCustody_Locker_Withdraw(t *testing.T) {
	t.Parallel()

	t.Run("rejected before release date", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		l := h.newLock(500, 300, time.Hour)

		require.ErrorIs(t, l.withdraw(300), custody.ErrValidation)
	})

	t.Run("partial withdrawal after release date", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		l := h.newLock(500, 300, time.Hour)

		h.advance(3601 * time.Second)
		require.NoError(t, l.withdraw(100))
		require.Equal(t, uint64(200), walletAmount(t, l.vault))
		require.Equal(t, uint64(300), walletAmount(t, l.wallet))

		require.NoError(t, l.withdraw(200))
		require.Equal(t, uint64(0), walletAmount(t, l.vault))
		require.Equal(t, uint64(500), walletAmount(t, l.wallet))
	})

	t.Run("amount above vault balance rejected", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		l := h.newLock(500, 300, time.Hour)

		h.advance(3601 * time.Second)
		require.ErrorIs(t, l.withdraw(301), custody.ErrNotEnoughFunds)
	})

	t.Run("destination of another mint rejected", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		l := h.newLock(500, 300, time.Hour)

		h.advance(3601 * time.Second)
		otherMint := h.newMint()
		l.wallet = h.newWallet(otherMint.Key(), l.owner.Key(), 0)
		require.ErrorIs(t, l.withdraw(100), token.ErrInvalidMint)
	})

	t.Run("wrong vault rejected", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		l := h.newLock(500, 300, time.Hour)

		h.advance(3601 * time.Second)
		l.vault = h.newWallet(l.mint.Key(), l.programAuthority.Key(), 300)
		require.ErrorIs(t, l.withdraw(100), custody.ErrValidation)
	})
}

func TestCustody_Locker_Increment(t *testing.T) {
	t.Parallel()

	t.Run("adds funds before release date", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		l := h.newLock(500, 300, time.Hour)

		require.NoError(t, l.increment(150))
		require.Equal(t, uint64(450), walletAmount(t, l.vault))
		require.Equal(t, uint64(50), walletAmount(t, l.wallet))
	})

	t.Run("rejected once released", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		l := h.newLock(500, 300, time.Hour)

		h.advance(3601 * time.Second)
		require.ErrorIs(t, l.increment(100), custody.ErrValidation)
	})

	t.Run("source of another mint rejected", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		l := h.newLock(500, 300, time.Hour)

		otherMint := h.newMint()
		l.wallet = h.newWallet(otherMint.Key(), l.owner.Key(), 500)
		require.ErrorIs(t, l.increment(100), token.ErrInvalidMint)
	})

	t.Run("insufficient source funds rejected", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		l := h.newLock(500, 300, time.Hour)

		require.ErrorIs(t, l.increment(201), custody.ErrNotEnoughFunds)
	})
}
