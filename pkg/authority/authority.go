// Package authority implements the derived-address component: a
// program can control a vault through an address computed
// deterministically from a seed list, with no corresponding private
// key. The program "signs" for such an address by presenting the same
// seeds to the token component. Derivation itself is the host ledger's
// contract, reached through solana-go.
package authority

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/meadowlabs/custody/pkg/ledger"
)

// Seeds is an ordered seed list identifying one derived authority.
type Seeds [][]byte

// ErrInvalidAuthority rejects a supplied authority account whose key
// does not match the address recomputed from the known seeds.
var ErrInvalidAuthority = errors.New("authority: account does not match derived address")

// ErrNoSalt is returned when no salt yields a derivable address.
var ErrNoSalt = errors.New("authority: no valid salt found")

// saltScanLimit bounds the salt search; the expected number of
// attempts is below two.
const saltScanLimit = 1024

// Derive computes the program address for the seed list. It fails when
// the result lands on the signing curve, which is why creation flows
// search for a salt once (FindSalt) and persist it for reuse.
func Derive(programID solana.PublicKey, seeds Seeds) (solana.PublicKey, error) {
	return solana.CreateProgramAddress(seeds, programID)
}

// Find derives an address from the seed list plus a bump nonce chosen
// by the ledger's derivation contract, returning the nonce.
func Find(programID solana.PublicKey, seeds Seeds) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(seeds, programID)
}

// SaltSeeds is the canonical custody seed list: the controlled
// entity's address, the controlling authority, and a salt in
// little-endian bytes.
func SaltSeeds(base, owner solana.PublicKey, salt uint64) Seeds {
	sb := make([]byte, 8)
	binary.LittleEndian.PutUint64(sb, salt)
	return Seeds{base.Bytes(), owner.Bytes(), sb}
}

// FindSalt scans for a salt that yields a derivable authority for
// (base, owner). The creating operation persists the salt; every later
// signature proof re-derives from it.
func FindSalt(programID, base, owner solana.PublicKey) (uint64, solana.PublicKey, error) {
	for salt := uint64(0); salt < saltScanLimit; salt++ {
		addr, err := Derive(programID, SaltSeeds(base, owner, salt))
		if err == nil {
			return salt, addr, nil
		}
	}
	return 0, solana.PublicKey{}, ErrNoSalt
}

// Expect validates a supplied authority account by recomputing the
// expected address from the seed list.
func Expect(acc ledger.Account, programID solana.PublicKey, seeds Seeds) error {
	want, err := Derive(programID, seeds)
	if err != nil {
		return fmt.Errorf("authority: derive: %w", ErrInvalidAuthority)
	}
	if !acc.Key().Equals(want) {
		return ErrInvalidAuthority
	}
	return nil
}
