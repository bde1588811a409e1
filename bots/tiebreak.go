package bots

import "math/rand"

// TieBreak decides whether a move scoring exactly as well as the current
// best replaces it.
type TieBreak interface {
	Replace() bool
}

type keepFirst struct{}

func (keepFirst) Replace() bool { return false }

// KeepFirst never replaces on a tie, so the earliest ordered move wins.
var KeepFirst TieBreak = keepFirst{}

type coinFlip struct {
	rng *rand.Rand
}

func (c coinFlip) Replace() bool { return c.rng.Float64() < 0.5 }

// CoinFlip replaces on a tie with probability one half.
func CoinFlip(rng *rand.Rand) TieBreak {
	return coinFlip{rng: rng}
}
