// Package difficulty provides the schedule that decides how hard a block is
// to mine and how much the miner is paid for it.
package difficulty

import "math"

// InitialReward is the amount paid for mining a block at the lowest difficulty.
const InitialReward float64 = 10000

// BlocksPerStep is the number of blocks mined before the difficulty goes up.
const BlocksPerStep = 3

// Bits returns the number of leading zero hex characters required for the
// block that will be appended to a chain of the specified length.
func Bits(chainLength uint64) uint {
	return uint(chainLength/BlocksPerStep) + 1
}

// Reward returns the mining reward for a block mined at the specified
// difficulty. The reward halves every time the difficulty goes up and
// saturates at zero once it is too small to be represented.
func Reward(bits uint) float64 {
	if bits == 0 {
		bits = 1
	}

	exp := bits - 1
	if exp > math.MaxInt32 {
		return 0
	}

	return math.Ldexp(InitialReward, -int(exp))
}
