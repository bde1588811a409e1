package bots

import (
	"math/rand"

	"chessbot/rules"

	"github.com/pkg/errors"
)

// RandomBot plays a uniformly random legal move.
type RandomBot struct {
	rng *rand.Rand
}

func NewRandomBot(rng *rand.Rand) *RandomBot {
	return &RandomBot{rng: rng}
}

func (b *RandomBot) BestMove(board rules.Board) (rules.Move, error) {
	moves := board.LegalMoves()
	if len(moves) == 0 {
		return rules.Move{}, errors.Wrapf(ErrEmptyMoveSet, "position %s", board.FEN())
	}
	return moves[b.rng.Intn(len(moves))], nil
}

func (b *RandomBot) Name() string {
	return "Random Bot"
}

// GreedyBot grabs a random capture when one exists, otherwise plays a random
// move. It is the depth zero player.
type GreedyBot struct {
	rng *rand.Rand
}

func NewGreedyBot(rng *rand.Rand) *GreedyBot {
	return &GreedyBot{rng: rng}
}

func (b *GreedyBot) BestMove(board rules.Board) (rules.Move, error) {
	return CapturePreference(board, b.rng)
}

func (b *GreedyBot) Name() string {
	return "Greedy Bot"
}
