// Package ledger abstracts the raw account storage cells and the
// execution environment handed to custody operations by the ledger
// runtime. Business logic is written against the interfaces here and
// stays agnostic of whether it runs bound to live ledger storage or
// against synthetic buffers in an off-chain simulation.
package ledger

import "github.com/gagliardetto/solana-go"

// Account exposes the fields of one raw storage cell. The byte slice
// returned by Data aliases the account's storage; writes through it are
// visible to every other holder of the same account.
//
// Precondition, supplied by the caller and not enforced here: within a
// single operation each account appears at most once, so no two
// writable handles alias the same storage.
type Account interface {
	Key() solana.PublicKey
	Owner() solana.PublicKey
	IsSigner() bool
	IsWritable() bool
	Lamports() uint64
	Data() []byte
}

// MutableAccount additionally supports moving the native balance.
// Account data is mutated in place through the slice returned by Data.
type MutableAccount interface {
	Account
	SetLamports(uint64)
}

// LiveAccount binds an account delivered by the ledger runtime. The
// lamports pointer and data slice alias storage owned by the runtime,
// shared with any other handle to the same account.
type LiveAccount struct {
	key      solana.PublicKey
	owner    solana.PublicKey
	signer   bool
	writable bool
	lamports *uint64
	data     []byte
}

func NewLiveAccount(key, owner solana.PublicKey, signer, writable bool, lamports *uint64, data []byte) *LiveAccount {
	return &LiveAccount{
		key:      key,
		owner:    owner,
		signer:   signer,
		writable: writable,
		lamports: lamports,
		data:     data,
	}
}

func (a *LiveAccount) Key() solana.PublicKey   { return a.key }
func (a *LiveAccount) Owner() solana.PublicKey { return a.owner }
func (a *LiveAccount) IsSigner() bool          { return a.signer }
func (a *LiveAccount) IsWritable() bool        { return a.writable }
func (a *LiveAccount) Lamports() uint64        { return *a.lamports }
func (a *LiveAccount) Data() []byte            { return a.data }

func (a *LiveAccount) SetLamports(v uint64) { *a.lamports = v }

// SyntheticAccount owns its buffer. It backs off-chain simulation and
// tests, and is the only variant with field setters.
type SyntheticAccount struct {
	key      solana.PublicKey
	owner    solana.PublicKey
	signer   bool
	writable bool
	lamports uint64
	data     []byte
}

// NewSyntheticAccount allocates a zeroed account of the given size.
func NewSyntheticAccount(key, owner solana.PublicKey, lamports uint64, size int) *SyntheticAccount {
	return &SyntheticAccount{
		key:      key,
		owner:    owner,
		writable: true,
		lamports: lamports,
		data:     make([]byte, size),
	}
}

func (a *SyntheticAccount) Key() solana.PublicKey   { return a.key }
func (a *SyntheticAccount) Owner() solana.PublicKey { return a.owner }
func (a *SyntheticAccount) IsSigner() bool          { return a.signer }
func (a *SyntheticAccount) IsWritable() bool        { return a.writable }
func (a *SyntheticAccount) Lamports() uint64        { return a.lamports }
func (a *SyntheticAccount) Data() []byte            { return a.data }

func (a *SyntheticAccount) SetLamports(v uint64) { a.lamports = v }

func (a *SyntheticAccount) SetOwner(owner solana.PublicKey) { a.owner = owner }
func (a *SyntheticAccount) SetSigner(signer bool)           { a.signer = signer }
func (a *SyntheticAccount) SetWritable(writable bool)       { a.writable = writable }

// SetData replaces the account's buffer, resizing it.
func (a *SyntheticAccount) SetData(data []byte) { a.data = data }
