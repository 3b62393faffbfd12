package cmath

import "github.com/holiman/uint256"

// RewardPayout computes a staker's expired-pool payout in 64.64 fixed
// point:
//
//	share  = staked / acquired
//	payout = staked + trunc(share * reward)
//
// The intermediate products are kept in 256-bit integers so the only
// rounding is the final truncation to whole token units. Traps when
// acquired is zero or the payout does not fit in a uint64.
func RewardPayout(staked, acquired, reward uint64) uint64 {
	if acquired == 0 {
		trap("payout")
	}

	share := new(uint256.Int).Lsh(uint256.NewInt(staked), 64)
	share.Div(share, uint256.NewInt(acquired))

	payout := new(uint256.Int).Mul(share, uint256.NewInt(reward))
	payout.Rsh(payout, 64)
	payout.Add(payout, uint256.NewInt(staked))

	if !payout.IsUint64() {
		trap("payout")
	}
	return payout.Uint64()
}
