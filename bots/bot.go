// bot.go
package bots

import (
	"math/rand"
	"strings"

	"chessbot/rules"

	"github.com/pkg/errors"
)

// ChessBot is implemented by every player that can pick a move for the side
// to move. The board must be left as it was received.
type ChessBot interface {
	BestMove(b rules.Board) (rules.Move, error)
	Name() string
}

// Variant selects the search strategy.
type Variant int

const (
	Minimax Variant = iota
	AlphaBeta
)

func (v Variant) String() string {
	switch v {
	case Minimax:
		return "minimax"
	case AlphaBeta:
		return "alphabeta"
	}
	return "unknown"
}

// ParseVariant accepts "minimax" and "alphabeta" (also "ab" and "alpha-beta").
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minimax", "mm":
		return Minimax, nil
	case "alphabeta", "alpha-beta", "ab":
		return AlphaBeta, nil
	}
	return 0, errors.Errorf("bots: unknown variant %q", s)
}

// Kinds accepted by New.
const (
	KindMinimax   = "minimax"
	KindAlphaBeta = "alphabeta"
	KindGreedy    = "greedy"
	KindRandom    = "random"
	KindNewborn   = "newborn"
)

// New builds a bot by kind name. Search bots use depth and take options;
// the other kinds ignore them. rng feeds every random choice the bot makes.
func New(kind string, depth int, rng *rand.Rand, options ...Option) (ChessBot, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindMinimax, KindAlphaBeta, "alpha-beta", "ab", "mm":
		variant, err := ParseVariant(kind)
		if err != nil {
			return nil, err
		}
		return NewSearchBot(variant, depth, append([]Option{WithRand(rng)}, options...)...), nil
	case KindGreedy:
		return NewGreedyBot(rng), nil
	case KindRandom:
		return NewRandomBot(rng), nil
	case KindNewborn:
		return NewNewbornBot(), nil
	}
	return nil, errors.Errorf("bots: unknown bot kind %q", kind)
}
