package bots

import (
	"chessbot/rules"

	"github.com/pkg/errors"
)

// NewbornBot always plays the first legal move the rules engine lists.
type NewbornBot struct{}

func NewNewbornBot() *NewbornBot {
	return &NewbornBot{}
}

func (b *NewbornBot) BestMove(board rules.Board) (rules.Move, error) {
	moves := board.LegalMoves()
	if len(moves) > 0 {
		return moves[0], nil
	}
	return rules.Move{}, errors.Wrapf(ErrEmptyMoveSet, "position %s", board.FEN())
}

func (b *NewbornBot) Name() string {
	return "Newborn"
}
