package rules

import (
	"strings"

	"github.com/notnil/chess"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var (
	ErrInvalidFEN  = errors.New("rules: invalid FEN")
	ErrIllegalMove = errors.New("rules: illegal move")
)

// Board is the rules engine consumed by the bots. It owns the position and
// is mutated in place: every Apply must be matched by exactly one call of
// the returned undo function, last applied first undone.
type Board interface {
	Turn() Color
	LegalMoves() []Move
	IsCapture(m Move) bool
	IsEnPassant(m Move) bool
	GivesCheck(m Move) bool
	PieceAt(sq Square) (Piece, bool)
	Apply(m Move) (undo func())
	Outcome() Outcome
	FEN() string
}

// Cloner is implemented by boards that can hand out an independent copy,
// history included.
type Cloner interface {
	Clone() Board
}

// Factory builds a board from a FEN string.
type Factory func(fen string) (Board, error)

// Engine names accepted by FactoryFor.
const (
	EngineDragon = "dragon"
	EngineNotnil = "notnil"
)

// FactoryFor resolves an engine name. The empty name selects dragon.
func FactoryFor(name string) (Factory, error) {
	switch strings.ToLower(name) {
	case "", EngineDragon:
		return func(fen string) (Board, error) { return NewDragonBoard(fen) }, nil
	case EngineNotnil:
		return func(fen string) (Board, error) { return NewNotnilBoard(fen) }, nil
	}
	return nil, errors.Errorf("rules: unknown engine %q", name)
}

// ValidateFEN rejects text that the notnil/chess decoder refuses and
// positions no legal game can reach: a side without exactly one king, a
// pawn on the first or last rank, or the side not to move in check.
func ValidateFEN(fen string) error {
	opt, err := chess.FEN(fen)
	if err != nil {
		return errors.Wrapf(ErrInvalidFEN, "%q: %v", fen, err)
	}
	kings := map[chess.Color]int{}
	for sq, p := range chess.NewGame(opt).Position().Board().SquareMap() {
		switch p.Type() {
		case chess.King:
			kings[p.Color()]++
		case chess.Pawn:
			if r := sq.Rank(); r == chess.Rank1 || r == chess.Rank8 {
				return errors.Wrapf(ErrInvalidFEN, "%q: pawn on %s", fen, sq)
			}
		}
	}
	if kings[chess.White] != 1 || kings[chess.Black] != 1 {
		return errors.Wrapf(ErrInvalidFEN, "%q: want one king per side, got %d white and %d black",
			fen, kings[chess.White], kings[chess.Black])
	}
	if opponentInCheck(fen) {
		return errors.Wrapf(ErrInvalidFEN, "%q: side not to move is in check", fen)
	}
	return nil
}

// LegalMove parses UCI text and checks it against the legal moves of b.
func LegalMove(b Board, text string) (Move, error) {
	m, err := ParseMove(text)
	if err != nil {
		return Move{}, err
	}
	if !slices.Contains(b.LegalMoves(), m) {
		return Move{}, errors.Wrapf(ErrIllegalMove, "%s in %s", text, b.FEN())
	}
	return m, nil
}

// undoOnce wraps an undo closure so a second call panics instead of
// silently corrupting the position.
func undoOnce(undo func()) func() {
	done := false
	return func() {
		if done {
			panic("rules: undo called twice for one apply")
		}
		done = true
		undo()
	}
}

// fenField returns the i-th space separated field of a FEN string.
func fenField(fen string, i int) string {
	fields := strings.Fields(fen)
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
