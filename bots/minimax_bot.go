package bots

import (
	"fmt"

	"chessbot/rules"
)

// SearchBot plays the move its searcher chooses for the side to move.
type SearchBot struct {
	Depth    int
	searcher *Searcher
}

func NewSearchBot(variant Variant, depth int, options ...Option) *SearchBot {
	return &SearchBot{
		Depth:    depth,
		searcher: NewSearcher(variant, options...),
	}
}

func (b *SearchBot) Name() string {
	return fmt.Sprintf("%s bot (depth %d)", b.searcher.Variant(), b.Depth)
}

func (b *SearchBot) BestMove(board rules.Board) (rules.Move, error) {
	return b.searcher.ChooseMove(board, board.Turn(), b.Depth)
}
