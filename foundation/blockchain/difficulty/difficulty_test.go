package difficulty_test

import (
	"math"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/difficulty"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestBits(t *testing.T) {
	t.Log("Given the need to calculate the difficulty for a chain length.")
	{
		tt := []struct {
			length uint64
			bits   uint
		}{
			{0, 1}, {1, 1}, {2, 1}, {3, 2}, {5, 2}, {6, 3}, {9, 4}, {30, 11},
		}

		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a chain length of %d.", testID, tst.length)
			{
				got := difficulty.Bits(tst.length)
				if got != tst.bits {
					t.Fatalf("\t%s\tTest %d:\tShould get back %d bits : got %d", failed, testID, tst.bits, got)
				}
				t.Logf("\t%s\tTest %d:\tShould get back %d bits.", success, testID, tst.bits)
			}
		}
	}
}

func TestBitsMonotonic(t *testing.T) {
	t.Log("Given the need for difficulty to only grow one step at a time.")
	{
		for n := uint64(0); n < 1000; n++ {
			cur := difficulty.Bits(n)
			next := difficulty.Bits(n + 1)

			if next < cur || next > cur+1 {
				t.Fatalf("\t%s\tShould step by at most one : length[%d] bits[%d] next[%d]", failed, n, cur, next)
			}

			if cur != uint(n/3)+1 {
				t.Fatalf("\t%s\tShould match floor(n/3)+1 : length[%d] bits[%d]", failed, n, cur)
			}
		}
		t.Logf("\t%s\tShould be monotonic for the first 1000 chain lengths.", success)
	}
}

func TestReward(t *testing.T) {
	t.Log("Given the need to calculate the mining reward.")
	{
		tt := []struct {
			bits   uint
			reward float64
		}{
			{1, 10000}, {2, 5000}, {3, 2500}, {4, 1250}, {5, 625}, {0, 10000},
		}

		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling %d bits.", testID, tst.bits)
			{
				got := difficulty.Reward(tst.bits)
				if got != tst.reward {
					t.Fatalf("\t%s\tTest %d:\tShould get back a reward of %v : got %v", failed, testID, tst.reward, got)
				}
				t.Logf("\t%s\tTest %d:\tShould get back a reward of %v.", success, testID, tst.reward)
			}
		}

		t.Logf("\tTest %d:\tWhen handling bits large enough to underflow.", len(tt))
		{
			for _, bits := range []uint{1100, 5000, math.MaxUint32} {
				got := difficulty.Reward(bits)
				if got != 0 {
					t.Fatalf("\t%s\tShould saturate to zero for %d bits : got %v", failed, bits, got)
				}
			}
			t.Logf("\t%s\tShould saturate to zero without failing.", success)
		}
	}
}
