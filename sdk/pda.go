// Package sdk is the transaction-submitter surface of the custody
// program: instruction builders with fixed account orders, derived
// authority helpers, and readers for fetched account data. It contains
// no RPC transport; submitting transactions and reading accounts
// belong to the external ledger client.
package sdk

import (
	"github.com/gagliardetto/solana-go"

	"github.com/meadowlabs/custody/pkg/authority"
)

// FindAuthoritySalt scans for the salt that makes (base, owner, salt)
// derive to a valid program authority. Done once when creating a pool
// or locker; the program persists the salt.
func FindAuthoritySalt(programID, base, owner solana.PublicKey) (uint64, solana.PublicKey, error) {
	return authority.FindSalt(programID, base, owner)
}

// DeriveAuthority recomputes a program authority from its persisted
// salt.
func DeriveAuthority(programID, base, owner solana.PublicKey, salt uint64) (solana.PublicKey, error) {
	return authority.Derive(programID, authority.SaltSeeds(base, owner, salt))
}

// FindPoolAuthority finds the salt and vault authority for a stake pool
// being created by administrator.
func FindPoolAuthority(programID, pool, administrator solana.PublicKey) (uint64, solana.PublicKey, error) {
	return FindAuthoritySalt(programID, pool, administrator)
}

// FindLockAuthority finds the salt and vault authority for a token
// locker owned by withdrawAuthority.
func FindLockAuthority(programID, locker, withdrawAuthority solana.PublicKey) (uint64, solana.PublicKey, error) {
	return FindAuthoritySalt(programID, locker, withdrawAuthority)
}
