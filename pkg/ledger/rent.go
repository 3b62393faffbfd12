package ledger

import "github.com/holiman/uint256"

// accountStorageOverhead is the per-account metadata charged on top of
// the data length when computing rent.
const accountStorageOverhead = 128

// Rent holds the parameters of the minimum-balance formula:
//
//	ceil(threshold_years * (overhead + size) * lamports_per_byte_year)
//
// The exemption threshold is kept as a rational so the whole formula
// stays in integer arithmetic.
type Rent struct {
	LamportsPerByteYear   uint64
	ExemptionThresholdNum uint64
	ExemptionThresholdDen uint64
}

// DefaultRent returns the ledger's default schedule: 3480 lamports per
// byte-year with a 2.0 year exemption threshold.
func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear:   3480,
		ExemptionThresholdNum: 2,
		ExemptionThresholdDen: 1,
	}
}

// MinimumBalance returns the rent-exempt minimum for an account with
// dataLen bytes of storage.
func (r Rent) MinimumBalance(dataLen uint64) uint64 {
	v := new(uint256.Int).AddUint64(uint256.NewInt(dataLen), accountStorageOverhead)
	v.Mul(v, uint256.NewInt(r.LamportsPerByteYear))
	v.Mul(v, uint256.NewInt(r.ExemptionThresholdNum))

	den := uint256.NewInt(r.ExemptionThresholdDen)
	rem := new(uint256.Int)
	v.DivMod(v, den, rem)
	if !rem.IsZero() {
		v.AddUint64(v, 1)
	}
	return v.Uint64()
}
