package bots

import (
	"math/rand"

	"chessbot/rules"

	"github.com/pkg/errors"
)

// ErrEmptyMoveSet is returned when a move is requested from a position that
// has no legal moves.
var ErrEmptyMoveSet = errors.New("bots: no legal moves")

// CapturePreference picks uniformly among the captures of b, or among all
// legal moves when there is no capture.
func CapturePreference(b rules.Board, rng *rand.Rand) (rules.Move, error) {
	legal := b.LegalMoves()
	if len(legal) == 0 {
		return rules.Move{}, errors.Wrapf(ErrEmptyMoveSet, "position %s", b.FEN())
	}
	var captures []rules.Move
	for _, m := range legal {
		if b.IsCapture(m) {
			captures = append(captures, m)
		}
	}
	pool := legal
	if len(captures) > 0 {
		pool = captures
	}
	return pool[rng.Intn(len(pool))], nil
}

// ChooseMove selects the move for botColor. Depth zero or less, or a search
// that yields no move, falls back to CapturePreference.
func (s *Searcher) ChooseMove(b rules.Board, botColor rules.Color, depth int) (rules.Move, error) {
	if depth <= 0 {
		return CapturePreference(b, s.rng)
	}
	res := s.Search(b, depth, -Infinity, Infinity, botColor)
	if !res.HasMove {
		return CapturePreference(b, s.rng)
	}
	return res.Move, nil
}

// ChooseMove is Searcher.ChooseMove on a time seeded searcher.
func ChooseMove(b rules.Board, botColor rules.Color, depth int, variant Variant) (rules.Move, error) {
	return NewSearcher(variant).ChooseMove(b, botColor, depth)
}
