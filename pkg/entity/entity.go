// Package entity interprets raw account bytes as typed records: a
// fixed-size header carrying the type discriminant and hierarchy
// links, followed by a type-specific body. Every custody operation
// receives untrusted storage; this package is the single choke point
// that establishes size, ownership and freshness before any field is
// read.
package entity

import (
	"errors"

	"github.com/gagliardetto/solana-go"

	"github.com/meadowlabs/custody/pkg/ledger"
)

var (
	// ErrInvalidData rejects an account whose length does not exactly
	// match the type's required layout.
	ErrInvalidData = errors.New("entity: account data does not match type layout")

	// ErrInvalidOwner rejects an account not owned by the executing
	// program.
	ErrInvalidOwner = errors.New("entity: account owner is not the executing program")

	// ErrInvalidAccount rejects an account whose contents do not match
	// the requested freshness: nonzero where a blank account was
	// required, or blank/mismatched kind where an initialized entity
	// was required.
	ErrInvalidAccount = errors.New("entity: account contents invalid for requested entity")

	// ErrNotRentExempt rejects an entity whose native balance would let
	// its storage be reclaimed.
	ErrNotRentExempt = errors.New("entity: account is not rent exempt")

	errNoHeader = errors.New("entity: flat schema has no header")
)

// Type describes the fixed layout of one entity kind. Flat schemas set
// HeaderLen to zero and carry no hierarchy links.
type Type struct {
	Kind      Kind
	HeaderLen int
	BodyLen   int
}

// Size is the exact account data length required by this type.
func (t Type) Size() int { return t.HeaderLen + t.BodyLen }

// Entity is a validated typed view over one account. The view holds no
// copy of the body; callers decode and re-encode it through Body.
type Entity struct {
	typ Type
	acc ledger.Account
}

// Any validates an account as a candidate instance of typ: the data
// length must match the layout exactly, the owner must be the
// executing program, and under a rent-enforcing runtime the balance
// must be rent exempt. Checks run in that order so nothing about the
// contents is trusted before ownership is established.
//
// The storage is reinterpreted through an explicit decode boundary, so
// the host-alignment precondition reduces to the size check.
func Any(rt ledger.Runtime, typ Type, programID solana.PublicKey, acc ledger.Account) (*Entity, error) {
	if len(acc.Data()) != typ.Size() {
		return nil, ErrInvalidData
	}
	if !acc.Owner().Equals(programID) {
		return nil, ErrInvalidOwner
	}
	e := &Entity{typ: typ, acc: acc}
	if rt.EnforcesRent() && acc.Lamports() < rt.MinimumBalance(uint64(len(acc.Data()))) {
		return nil, ErrNotRentExempt
	}
	return e, nil
}

// Blank validates as Any and additionally requires the account bytes
// to be all zero: a fresh account an initialize operation may claim.
func Blank(rt ledger.Runtime, typ Type, programID solana.PublicKey, acc ledger.Account) (*Entity, error) {
	e, err := Any(rt, typ, programID, acc)
	if err != nil {
		return nil, err
	}
	if !isZero(acc.Data()) {
		return nil, ErrInvalidAccount
	}
	return e, nil
}

// Initialized validates as Any and additionally requires the account
// to already hold an instance of typ: a matching header discriminant
// for hierarchical schemas, a non-zero body for flat ones.
func Initialized(rt ledger.Runtime, typ Type, programID solana.PublicKey, acc ledger.Account) (*Entity, error) {
	e, err := Any(rt, typ, programID, acc)
	if err != nil {
		return nil, err
	}
	if typ.HeaderLen > 0 {
		h, err := e.Header()
		if err != nil {
			return nil, err
		}
		if h.Kind != typ.Kind {
			return nil, ErrInvalidAccount
		}
	} else if isZero(acc.Data()) {
		return nil, ErrInvalidAccount
	}
	return e, nil
}

// Account returns the underlying accessor.
func (e *Entity) Account() ledger.Account { return e.acc }

// Key returns the entity's address.
func (e *Entity) Key() solana.PublicKey { return e.acc.Key() }

// Body returns the type-specific bytes following the header prefix.
// The slice aliases account storage.
func (e *Entity) Body() []byte { return e.acc.Data()[e.typ.HeaderLen:] }

func isZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
