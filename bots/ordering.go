package bots

import (
	"chessbot/rules"

	"golang.org/x/exp/slices"
)

// orderKey ranks a move for ordering: checks first, then captures by the
// value of the victim, then promotions.
type orderKey struct {
	check   int
	capture Score
	promo   int
}

func (k orderKey) compare(o orderKey) int {
	switch {
	case k.check != o.check:
		return k.check - o.check
	case k.capture != o.capture:
		return int(k.capture - o.capture)
	}
	return k.promo - o.promo
}

type scoredMove struct {
	move rules.Move
	key  orderKey
}

func keyOf(b rules.Board, m rules.Move) orderKey {
	var k orderKey
	if b.GivesCheck(m) {
		k.check = 1
	}
	if b.IsCapture(m) {
		k.capture = CapturedValue(b, m)
	}
	if m.IsPromotion() {
		k.promo = 1
	}
	return k
}

// OrderMoves returns the legal moves of b with the most forcing first.
// Moves with equal keys keep the order the rules engine produced them in.
func OrderMoves(b rules.Board) []rules.Move {
	legal := b.LegalMoves()
	scored := make([]scoredMove, len(legal))
	for i, m := range legal {
		scored[i] = scoredMove{move: m, key: keyOf(b, m)}
	}
	slices.SortStableFunc(scored, func(x, y scoredMove) int {
		return y.key.compare(x.key)
	})
	for i := range scored {
		legal[i] = scored[i].move
	}
	return legal
}
