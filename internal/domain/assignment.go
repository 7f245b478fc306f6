package domain

import (
	"crypto/rand"
	"math/big"
)

// NewAssignment produces a random derangement over the given participant ids
// by arranging them into a single uniformly random cycle: the first id stays
// put and the remaining n-1 slots are shuffled, then each id is assigned the
// next id along the cycle. Any single cycle of length >= 2 has no fixed
// point, so the result is a derangement by construction with no retry loop,
// and fixing one element keeps the distribution uniform over the (n-1)!
// possible cycles. For n=2 there is exactly one outcome: the mutual swap.
func NewAssignment(ids []int) (map[int]int, error) {
	if len(ids) < 2 {
		return nil, ErrTooFewParticipants
	}

	cycle := make([]int, len(ids))
	copy(cycle, ids)

	// Fisher-Yates over cycle[1:] only; cycle[0] is the fixed anchor.
	for i := len(cycle) - 1; i >= 2; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i)))
		if err != nil {
			return nil, err
		}
		j := 1 + int(n.Int64())
		cycle[i], cycle[j] = cycle[j], cycle[i]
	}

	assignment := make(map[int]int, len(cycle))
	for i, giver := range cycle {
		assignment[giver] = cycle[(i+1)%len(cycle)]
	}

	return assignment, nil
}
